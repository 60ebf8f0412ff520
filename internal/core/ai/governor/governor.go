package governor

import (
	"context"
	"strings"
	"sync"
	"time"

	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// Generator 被保護的 AI 食譜生成能力
type Generator interface {
	Generate(ctx context.Context, query string, mode recipe.Mode) (*recipe.GeneratedList, error)
}

// Governor 程序內共用的 AI 呼叫策略：冷卻、節流、短期快取
//
// 每次讀寫狀態各自上鎖，但「讀取後決定再寫入」不是原子操作，
// 同時進來的請求可能一起通過節流檢查。
type Governor struct {
	gen Generator
	cfg config.GovernorConfig

	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
	observer func(Decision)

	mu               sync.Mutex
	cooldownUntil    time.Time
	lastInvocationAt time.Time
	cache            map[string]cacheEntry
}

type cacheEntry struct {
	timestamp time.Time
	response  *recipe.GeneratedList
}

// Option 設定選項
type Option func(*Governor)

// WithClock 替換時鐘（測試用）
func WithClock(now func() time.Time) Option {
	return func(g *Governor) { g.now = now }
}

// WithSleep 替換節流等待（測試用）
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(g *Governor) { g.sleep = sleep }
}

// WithObserver 每次判斷後回呼，用於指標
func WithObserver(fn func(Decision)) Option {
	return func(g *Governor) { g.observer = fn }
}

// New 創建 Governor，gen 為 nil 時永遠略過 AI
func New(cfg config.GovernorConfig, gen Generator, opts ...Option) *Governor {
	g := &Governor{
		gen:   gen,
		cfg:   cfg,
		now:   time.Now,
		sleep: sleepContext,
		cache: make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CacheKey mode 與正規化後的查詢
func CacheKey(query string, mode recipe.Mode) string {
	return string(mode) + ":" + strings.ToLower(strings.TrimSpace(query))
}

// Begin 決定是否呼叫 AI；需要時在背景啟動呼叫並回傳 handle
// 節流時會阻塞到間隔結束，之後重新檢查冷卻
func (g *Governor) Begin(ctx context.Context, query string, mode recipe.Mode) *Call {
	call := g.begin(ctx, query, mode)
	if g.observer != nil {
		g.observer(call.Decision())
	}
	return call
}

func (g *Governor) begin(ctx context.Context, query string, mode recipe.Mode) *Call {
	if g.gen == nil {
		return skippedCall(DecisionDisabled)
	}

	key := CacheKey(query, mode)
	if resp, ok := g.freshCache(key); ok {
		common.LogCacheHit("ai_search", key)
		return cachedCall(resp)
	}

	if g.coolingDown() {
		common.LogDebug("AI 冷卻中，略過呼叫", zap.String("key", key))
		return skippedCall(DecisionCooldown)
	}

	if wait := g.throttleWait(); wait > 0 {
		common.LogDebug("AI 節流等待", zap.Duration("wait", wait))
		if err := g.sleep(ctx, wait); err != nil {
			return skippedCall(DecisionCancelled)
		}
		// 等待期間可能進入冷卻
		if g.coolingDown() {
			return skippedCall(DecisionCooldown)
		}
	}

	startedAt := g.now()
	g.mu.Lock()
	g.lastInvocationAt = startedAt
	g.mu.Unlock()

	call := liveCall()
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.cfg.CallTimeout)
	go func() {
		defer cancel()
		resp, err := g.gen.Generate(callCtx, strings.TrimSpace(query), mode)
		g.settle(key, startedAt, resp, err)
		call.finish(resp, err)
	}()
	return call
}

// settle 背景呼叫結束後更新冷卻或快取，不論是否還有人在等待
func (g *Governor) settle(key string, startedAt time.Time, resp *recipe.GeneratedList, err error) {
	if err != nil {
		if IsQuotaError(err) {
			cooldown := CooldownFor(err, g.cfg.Cooldown)
			g.mu.Lock()
			g.cooldownUntil = g.now().Add(cooldown)
			g.mu.Unlock()
			common.LogWarn("AI 配額用盡，進入冷卻",
				zap.Duration("cooldown", cooldown),
				zap.Error(err),
			)
			return
		}
		common.LogError("AI 食譜生成失敗", zap.String("key", key), zap.Error(err))
		return
	}
	if resp == nil {
		return
	}

	g.mu.Lock()
	g.cache[key] = cacheEntry{timestamp: startedAt, response: resp}
	g.mu.Unlock()
}

func (g *Governor) freshCache(key string) (*recipe.GeneratedList, bool) {
	g.mu.Lock()
	entry, ok := g.cache[key]
	g.mu.Unlock()
	if !ok || g.now().Sub(entry.timestamp) > g.cfg.CacheTTL {
		return nil, false
	}
	return entry.response, true
}

func (g *Governor) coolingDown() bool {
	g.mu.Lock()
	until := g.cooldownUntil
	g.mu.Unlock()
	return g.now().Before(until)
}

func (g *Governor) throttleWait() time.Duration {
	g.mu.Lock()
	last := g.lastInvocationAt
	g.mu.Unlock()
	if last.IsZero() {
		return 0
	}
	return g.cfg.ThrottleInterval - g.now().Sub(last)
}

// CooldownUntil 目前的冷卻截止時間
func (g *Governor) CooldownUntil() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cooldownUntil
}

// SetCooldown 從現在起冷卻 d
func (g *Governor) SetCooldown(d time.Duration) {
	g.mu.Lock()
	g.cooldownUntil = g.now().Add(d)
	g.mu.Unlock()
}

// Enabled 是否設定了生成器
func (g *Governor) Enabled() bool {
	return g.gen != nil
}
