package expert

import (
	"context"
	"errors"
	"strings"
	"testing"

	"recipe-finder/internal/core/ai/openrouter"
	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	reply string
	err   error
	req   openrouter.ChatRequest
}

func (f *fakeLLM) Chat(ctx context.Context, req openrouter.ChatRequest) (string, error) {
	f.req = req
	return f.reply, f.err
}

var pancakes = recipe.Recipe{
	Summary:      recipe.Summary{Name: "Pancakes"},
	Ingredients:  []recipe.Ingredient{{Name: "flour", Measure: "200g "}, {Name: "milk", Measure: "300ml"}},
	Instructions: "Whisk.\nFry.",
}

func TestAsk(t *testing.T) {
	llm := &fakeLLM{reply: "**Yes**, you can use *oat milk* instead."}
	s := NewService(llm, "chat/model")

	answer, err := s.Ask(context.Background(), pancakes, "Can I swap the milk?")
	require.NoError(t, err)
	assert.Equal(t, "Yes, you can use oat milk instead.", answer)

	prompt := llm.req.Messages[0].Content
	assert.Equal(t, "chat/model", llm.req.Model)
	assert.True(t, strings.Contains(prompt, "- 200g flour"))
	assert.True(t, strings.Contains(prompt, "Whisk.\nFry."))
	assert.True(t, strings.Contains(prompt, `"Can I swap the milk?"`))
}

func TestAsk_Validation(t *testing.T) {
	s := NewService(&fakeLLM{}, "")
	_, err := s.Ask(context.Background(), pancakes, "   ")
	assert.True(t, common.IsValidationError(err))
}

func TestAsk_UpstreamError(t *testing.T) {
	s := NewService(&fakeLLM{err: errors.New("boom")}, "")
	_, err := s.Ask(context.Background(), pancakes, "why?")
	assert.ErrorIs(t, err, common.ErrAIServiceError)
}

func TestStripMarkdown(t *testing.T) {
	in := "## Tips\n* Use **cold** butter\n+ Rest the `dough`\n```\ncode\n```"
	assert.Equal(t, "Tips\n- Use cold butter\n- Rest the dough\n\ncode", StripMarkdown(in))
}

func TestStripMarkdown_Underscores(t *testing.T) {
	assert.Equal(t, "Keep snake_case_word as is", StripMarkdown("Keep snake_case_word as is"))
	assert.Equal(t, "Use fresh basil, not dried.", StripMarkdown("Use _fresh_ basil, not __dried__."))
	assert.Equal(t, "fold gently", StripMarkdown("_fold gently_"))
}
