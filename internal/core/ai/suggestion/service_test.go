package suggestion

import (
	"context"
	"errors"
	"testing"
	"time"

	"recipe-finder/internal/core/ai/openrouter"
	"recipe-finder/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockLLM struct {
	mock.Mock
}

func (m *mockLLM) Chat(ctx context.Context, req openrouter.ChatRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func newService(llm openrouter.Completer) *Service {
	return NewService(config.SuggestionConfig{MinLength: 3, Cooldown: time.Minute}, llm)
}

func TestSuggest_ShortInputSkipsAI(t *testing.T) {
	llm := &mockLLM{}
	s := newService(llm)
	assert.Equal(t, "", s.Suggest(context.Background(), "ch"))
	llm.AssertNotCalled(t, "Chat", mock.Anything, mock.Anything)
}

func TestSuggest_ReturnsCompletion(t *testing.T) {
	llm := &mockLLM{}
	llm.On("Chat", mock.Anything, mock.Anything).Return(" \"chicken noodle soup\"\n", nil).Once()

	s := newService(llm)
	assert.Equal(t, "chicken noodle soup", s.Suggest(context.Background(), "chicken"))
	llm.AssertExpectations(t)
}

func TestSuggest_DiscardsShorterThanInput(t *testing.T) {
	llm := &mockLLM{}
	llm.On("Chat", mock.Anything, mock.Anything).Return("soup", nil).Once()

	s := newService(llm)
	assert.Equal(t, "", s.Suggest(context.Background(), "spicy thai"))
}

func TestSuggest_QuotaErrorStartsCooldown(t *testing.T) {
	llm := &mockLLM{}
	llm.On("Chat", mock.Anything, mock.Anything).
		Return("", &openrouter.APIError{StatusCode: 429, Message: "retry in 30s"}).Once()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := newService(llm)
	s.now = func() time.Time { return now }

	assert.Equal(t, "", s.Suggest(context.Background(), "pasta"))
	assert.Equal(t, now.Add(30*time.Second), s.cooldownUntil)

	// 冷卻中不再呼叫
	now = now.Add(29 * time.Second)
	assert.Equal(t, "", s.Suggest(context.Background(), "pasta"))
	llm.AssertNumberOfCalls(t, "Chat", 1)

	now = now.Add(2 * time.Second)
	llm.On("Chat", mock.Anything, mock.Anything).Return("pasta primavera", nil).Once()
	assert.Equal(t, "pasta primavera", s.Suggest(context.Background(), "pasta"))
}

func TestSuggest_OtherErrorNoCooldown(t *testing.T) {
	llm := &mockLLM{}
	llm.On("Chat", mock.Anything, mock.Anything).Return("", errors.New("boom"))

	s := newService(llm)
	assert.Equal(t, "", s.Suggest(context.Background(), "pasta"))
	assert.True(t, s.cooldownUntil.IsZero())
}

func TestSuggest_NilLLM(t *testing.T) {
	assert.Equal(t, "", newService(nil).Suggest(context.Background(), "pasta"))
}
