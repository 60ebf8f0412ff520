package expert

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"recipe-finder/internal/core/ai/openrouter"
	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/pkg/common"
)

// Service 食譜專家問答
type Service struct {
	llm   openrouter.Completer
	model string
}

// NewService 創建問答服務，model 為空時使用預設模型
func NewService(llm openrouter.Completer, model string) *Service {
	return &Service{llm: llm, model: model}
}

// Ask 依食譜內容回答問題，回覆為純文字
func (s *Service) Ask(ctx context.Context, r recipe.Recipe, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", common.NewValidationError("question is required")
	}
	if s.llm == nil {
		return "", common.ErrServiceUnavailable
	}

	start := time.Now()
	text, err := s.llm.Chat(ctx, openrouter.ChatRequest{
		Model:       s.model,
		Messages:    []openrouter.Message{{Role: "user", Content: buildPrompt(r, question)}},
		Temperature: 0.5,
	})
	common.LogAICall("ask_expert", time.Since(start), err)
	if err != nil {
		return "", common.ErrAIServiceError.Wrap(err)
	}
	return StripMarkdown(text), nil
}

func buildPrompt(r recipe.Recipe, question string) string {
	var b strings.Builder
	b.WriteString("You are a friendly and knowledgeable culinary expert. A user is asking a question about a specific recipe.\n\n")
	fmt.Fprintf(&b, "The Recipe:\n- Name: %s\n- Ingredients:\n", r.Name)
	for _, ing := range r.Ingredients {
		fmt.Fprintf(&b, "  - %s %s\n", strings.TrimSpace(ing.Measure), ing.Name)
	}
	fmt.Fprintf(&b, "- Instructions:\n%s\n\n", r.Instructions)
	fmt.Fprintf(&b, "The User's Question:\n%q\n\n", question)
	b.WriteString("Answer the question based on the recipe details. Be helpful, concise, and friendly. ")
	b.WriteString("If the question is about substitutions, suggest common and sensible alternatives. ")
	b.WriteString("If you cannot answer from the provided information, say so politely.\n\n")
	b.WriteString("IMPORTANT: Your response must be plain text. Do NOT use any markdown, bolding, asterisks, or any other special formatting.")
	return b.String()
}

var (
	headingPattern  = regexp.MustCompile(`(?m)^\s{0,3}#{1,6}\s+`)
	bulletPattern   = regexp.MustCompile(`(?m)^(\s*)[*+]\s+`)
	emphasisPattern = regexp.MustCompile(`(\*\*|\*)([^*\n]+)(\*\*|\*)`)

	// 底線只在字詞邊界才視為強調，snake_case 保留
	underscorePattern = regexp.MustCompile(`(^|[^\w])(__?)([^_\n]+?)(__?)([^\w]|$)`)
)

// StripMarkdown 模型偶爾仍會輸出 markdown，移除常見標記
func StripMarkdown(s string) string {
	s = strings.ReplaceAll(s, "```", "")
	s = strings.ReplaceAll(s, "`", "")
	s = headingPattern.ReplaceAllString(s, "")
	s = bulletPattern.ReplaceAllString(s, "$1- ")
	s = emphasisPattern.ReplaceAllString(s, "$2")
	s = underscorePattern.ReplaceAllString(s, "${1}${3}${5}")
	s = strings.ReplaceAll(s, "**", "")
	return strings.TrimSpace(s)
}
