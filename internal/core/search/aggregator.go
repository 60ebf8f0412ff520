package search

import (
	"context"
	"strings"
	"time"

	"recipe-finder/internal/core/ai/governor"
	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PublicSource 公開食譜 API
type PublicSource interface {
	SearchByName(ctx context.Context, name string) []recipe.Recipe
	FilterByIngredient(ctx context.Context, ingredient string) []recipe.Summary
	Random(ctx context.Context) *recipe.Recipe
	LookupByID(ctx context.Context, id string) (*recipe.Recipe, error)
}

// UserSource 使用者投稿，查詢失敗時回傳空結果
type UserSource interface {
	FindByNamePrefix(ctx context.Context, prefix string) []recipe.Recipe
}

// AIGovernor 決定是否呼叫 AI
type AIGovernor interface {
	Begin(ctx context.Context, query string, mode recipe.Mode) *governor.Call
}

// DetailCache 詳細資料快取
type DetailCache interface {
	Get(ctx context.Context, id string) (*recipe.Recipe, bool)
	Set(ctx context.Context, r *recipe.Recipe)
}

// Recorder 搜尋指標
type Recorder interface {
	ObserveSearch(mode, source string, duration time.Duration, err error)
	ObserveFallback(recovered bool)
}

// Result 搜尋結果
type Result struct {
	Recipes []recipe.Listing `json:"recipes"`
	Source  recipe.Source    `json:"source"`
}

// Service 三個來源的聚合搜尋
type Service struct {
	public   PublicSource
	users    UserSource
	ai       AIGovernor
	details  DetailCache
	recorder Recorder

	primaryTimeout  time.Duration
	fallbackTimeout time.Duration
	trendingCount   int
}

// Option 設定選項
type Option func(*Service)

// WithRecorder 設定指標
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithDetailCache 設定詳細資料快取
func WithDetailCache(c DetailCache) Option {
	return func(s *Service) { s.details = c }
}

// WithTrendingCount 熱門食譜的隨機抽取次數
func WithTrendingCount(n int) Option {
	return func(s *Service) { s.trendingCount = n }
}

// NewService 創建聚合搜尋服務，users / ai 可以為 nil
func NewService(cfg config.GovernorConfig, public PublicSource, users UserSource, ai AIGovernor, opts ...Option) *Service {
	s := &Service{
		public:          public,
		users:           users,
		ai:              ai,
		primaryTimeout:  cfg.PrimaryTimeout,
		fallbackTimeout: cfg.FallbackTimeout,
		trendingCount:   DefaultTrendingCount,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search 依序：啟動 AI（非阻塞）、並行查詢公開 API 與投稿、AI 競賽、合併
func (s *Service) Search(ctx context.Context, query string, mode recipe.Mode) (Result, error) {
	start := time.Now()
	result, err := s.search(ctx, query, mode)
	if s.recorder != nil {
		s.recorder.ObserveSearch(string(mode), string(result.Source), time.Since(start), err)
	}
	if err == nil {
		common.LogInfo("搜尋完成",
			zap.String("query", query),
			zap.String("mode", string(mode)),
			zap.String("source", string(result.Source)),
			zap.Int("count", len(result.Recipes)),
			zap.Duration("duration", time.Since(start)),
		)
	}
	return result, err
}

func (s *Service) search(ctx context.Context, query string, mode recipe.Mode) (Result, error) {
	var call *governor.Call
	if s.ai != nil {
		call = s.ai.Begin(ctx, query, mode)
	}

	public, users := s.fetchSources(ctx, query, mode)
	othersEmpty := len(public) == 0 && len(users) == 0

	var generated []recipe.Listing
	if call != nil {
		outcome := s.resolve(ctx, call, othersEmpty)
		if outcome.Err != nil {
			if othersEmpty && !governor.IsQuotaError(outcome.Err) {
				return Result{}, common.ErrSearchFailed.Wrap(outcome.Err)
			}
			common.LogWarn("AI 結果不可用，僅使用其他來源", zap.Error(outcome.Err))
		}
		if outcome.Response != nil {
			for _, gen := range outcome.Response.Recipes {
				generated = append(generated, recipe.FromRecipe(recipe.NormalizeGenerated(gen)))
			}
		}
	}

	return Merge(generated, users, public), nil
}

// fetchSources 兩個來源各自失敗不影響對方
func (s *Service) fetchSources(ctx context.Context, query string, mode recipe.Mode) (public, users []recipe.Listing) {
	term := strings.TrimSpace(query)
	var g errgroup.Group

	g.Go(func() error {
		switch mode {
		case recipe.ModeIngredient:
			for _, sum := range s.public.FilterByIngredient(ctx, term) {
				public = append(public, recipe.FromSummary(sum))
			}
		default:
			for _, r := range s.public.SearchByName(ctx, term) {
				public = append(public, recipe.FromRecipe(r))
			}
		}
		return nil
	})

	g.Go(func() error {
		if s.users == nil {
			return nil
		}
		for _, r := range s.users.FindByNamePrefix(ctx, term) {
			users = append(users, recipe.FromRecipe(r))
		}
		return nil
	})

	_ = g.Wait()
	return public, users
}

// resolve 主要競賽逾時、其他來源皆空且為實際呼叫時，延長等待同一個呼叫
func (s *Service) resolve(ctx context.Context, call *governor.Call, othersEmpty bool) governor.Outcome {
	outcome := call.Await(ctx, s.primaryTimeout)
	if !outcome.TimedOut {
		return outcome
	}
	common.LogWarn("AI 食譜生成逾時", zap.Duration("timeout", s.primaryTimeout))

	if !othersEmpty || !call.Live() {
		return outcome
	}

	outcome = call.Await(ctx, s.fallbackTimeout)
	if s.recorder != nil {
		s.recorder.ObserveFallback(!outcome.TimedOut)
	}
	if outcome.TimedOut {
		common.LogWarn("AI 延長等待仍逾時", zap.Duration("timeout", s.fallbackTimeout))
	}
	return outcome
}

// Merge 依 AI、投稿、公開 API 的順序合併，名稱（不分大小寫）或 ID 重複時先出現者保留
// 結果為空時標記為 PublicAPI；只有一個來源有結果時標記該來源，否則為 Combined
func Merge(generated, users, public []recipe.Listing) Result {
	groups := []struct {
		source   recipe.Source
		listings []recipe.Listing
	}{
		{recipe.SourceGeneratedAI, generated},
		{recipe.SourceUserSubmitted, users},
		{recipe.SourcePublicAPI, public},
	}

	seen := make(map[string]struct{})
	seenID := make(map[string]struct{})
	merged := make([]recipe.Listing, 0, len(generated)+len(users)+len(public))
	var contributors []recipe.Source
	for _, group := range groups {
		if len(group.listings) > 0 {
			contributors = append(contributors, group.source)
		}
		for _, l := range group.listings {
			key := strings.ToLower(l.Name())
			if _, dup := seen[key]; dup {
				continue
			}
			// 不同名稱可能產生相同的 AI ID，例如 "Pad Thai" 與 "Pad-Thai"
			if _, dup := seenID[l.ID()]; dup {
				continue
			}
			seen[key] = struct{}{}
			seenID[l.ID()] = struct{}{}
			merged = append(merged, l)
		}
	}

	if len(merged) == 0 {
		return Result{Recipes: []recipe.Listing{}, Source: recipe.SourcePublicAPI}
	}

	source := recipe.SourceCombined
	if len(contributors) == 1 {
		source = contributors[0]
	}
	return Result{Recipes: merged, Source: source}
}
