package suggestion

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"recipe-finder/internal/core/ai/governor"
	"recipe-finder/internal/core/ai/openrouter"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

const promptTemplate = `You are a search suggestion AI for a recipe app. A user is typing a search query. Your goal is to predict and complete their query.

User's current input: "%s"

Based on this input, provide a single, likely search suggestion.
- The suggestion should be a natural completion of what the user is typing.
- For example, if the input is "chicken", a good suggestion is "chicken noodle soup".
- If the input is "spicy", a good suggestion is "spicy thai green curry".
- Do not just repeat the input. Provide a full, sensible query.
- Return only the most likely suggestion, as plain text.`

// Service 搜尋建議，配額錯誤後有獨立的冷卻
type Service struct {
	llm openrouter.Completer
	cfg config.SuggestionConfig
	now func() time.Time

	mu            sync.Mutex
	cooldownUntil time.Time
}

// NewService 創建搜尋建議服務，llm 為 nil 時永遠回傳空字串
func NewService(cfg config.SuggestionConfig, llm openrouter.Completer) *Service {
	return &Service{llm: llm, cfg: cfg, now: time.Now}
}

// Suggest 回傳單一建議；輸入太短、冷卻中或任何失敗都回傳空字串
func (s *Service) Suggest(ctx context.Context, partial string) string {
	if s.llm == nil || utf8.RuneCountInString(partial) < s.cfg.MinLength {
		return ""
	}

	s.mu.Lock()
	cooling := s.now().Before(s.cooldownUntil)
	s.mu.Unlock()
	if cooling {
		return ""
	}

	start := time.Now()
	text, err := s.llm.Chat(ctx, openrouter.ChatRequest{
		Messages:  []openrouter.Message{{Role: "user", Content: fmt.Sprintf(promptTemplate, partial)}},
		MaxTokens: 32,
	})
	if err != nil {
		if governor.IsQuotaError(err) {
			cooldown := governor.CooldownFor(err, s.cfg.Cooldown)
			s.mu.Lock()
			s.cooldownUntil = s.now().Add(cooldown)
			s.mu.Unlock()
			common.LogWarn("搜尋建議略過：AI 配額用盡", zap.Duration("cooldown", cooldown))
			return ""
		}
		common.LogAICall("search_suggestion", time.Since(start), err)
		return ""
	}

	suggestion := strings.Trim(strings.TrimSpace(text), `"'`)
	if suggestion == "" || utf8.RuneCountInString(suggestion) < utf8.RuneCountInString(partial) {
		return ""
	}
	return suggestion
}
