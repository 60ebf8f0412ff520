package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"recipe-finder/internal/core/ai/expert"
	"recipe-finder/internal/core/ai/generator"
	"recipe-finder/internal/core/ai/governor"
	"recipe-finder/internal/core/ai/imagegen"
	"recipe-finder/internal/core/ai/openrouter"
	"recipe-finder/internal/core/ai/suggestion"
	"recipe-finder/internal/core/cache"
	"recipe-finder/internal/core/contact"
	"recipe-finder/internal/core/image"
	"recipe-finder/internal/core/mealdb"
	"recipe-finder/internal/core/notification"
	"recipe-finder/internal/core/search"
	"recipe-finder/internal/core/userrecipe"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/infrastructure/database"
	"recipe-finder/internal/infrastructure/metrics"
	"recipe-finder/internal/infrastructure/storage"
	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services 組裝完成的服務
type Services struct {
	Config  *config.Config
	Metrics *metrics.Metrics
	DB      *gorm.DB

	Governor      *governor.Governor
	Search        *search.Service
	Submitter     *userrecipe.Submitter
	Suggestions   *suggestion.Service
	Expert        *expert.Service
	Images        *imagegen.Generator
	Contact       *contact.Service
	Notifications *notification.Service

	// Checks /ready 使用的依賴檢查
	Checks map[string]func(ctx context.Context) error

	closers []func() error
}

// Option 組裝選項
type Option func(*options)

type options struct {
	db *gorm.DB
}

// WithDB 使用既有的資料庫連線（測試與 CLI 使用）
func WithDB(db *gorm.DB) Option {
	return func(o *options) { o.db = db }
}

// New 依設定組裝所有服務；失敗時已開啟的資源會被關閉
func New(ctx context.Context, cfg *config.Config, opts ...Option) (svcs *Services, err error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	s := &Services{
		Config:  cfg,
		Metrics: metrics.New(),
		Checks:  make(map[string]func(ctx context.Context) error),
	}
	defer func() {
		if err != nil {
			_ = s.Close()
		}
	}()

	db := o.db
	if db == nil {
		db, err = database.Open(cfg.Database, cfg.App.Debug)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() error { return database.Close(db) })
	}
	s.DB = db
	s.Checks["database"] = func(ctx context.Context) error { return database.Ping(ctx, db) }

	detailStore, err := s.newDetailStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	uploader, err := storage.NewUploader(cfg.Storage)
	if err != nil {
		return nil, err
	}

	// AI 未設定時傳入 nil 介面，Governor 會一律略過
	var (
		gen       governor.Generator
		completer openrouter.Completer
		images    openrouter.ImageGenerator
	)
	if cfg.OpenRouter.Enabled {
		client := openrouter.NewClient(cfg.OpenRouter)
		gen = generator.New(client)
		completer = client
		images = client
	} else {
		common.LogWarn("OpenRouter 未設定，AI 功能停用")
	}

	s.Governor = governor.New(cfg.Governor, gen,
		governor.WithObserver(func(d governor.Decision) {
			s.Metrics.ObserveGovernorDecision(string(d))
		}),
	)

	var sessionStore userrecipe.Store
	if cfg.UserStore.SessionBaseURL != "" {
		sessionStore = userrecipe.NewSessionStore(cfg.UserStore)
	}
	gormStore := userrecipe.NewGormStore(db)

	s.Search = search.NewService(cfg.Governor,
		mealdb.NewClient(cfg.MealDB),
		userrecipe.NewSelector(gormStore, sessionStore),
		s.Governor,
		search.WithRecorder(s.Metrics),
		search.WithDetailCache(cache.NewRecipeCache(detailStore)),
	)
	s.Submitter = userrecipe.NewSubmitter(gormStore, uploader, image.NewService(cfg.Image.MaxSizeBytes))
	s.Suggestions = suggestion.NewService(cfg.Suggestion, completer)
	s.Expert = expert.NewService(completer, cfg.OpenRouter.ChatModel)
	s.Images = imagegen.New(images)
	s.Contact = contact.NewService(db)
	s.Notifications = notification.NewService(db)

	common.LogInfo("Services initialized",
		zap.Bool("ai_enabled", s.Governor.Enabled()),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
		zap.Bool("storage_enabled", cfg.Storage.Enabled),
		zap.Bool("session_store", sessionStore != nil),
		zap.String("database", cfg.Database.Driver),
	)
	return s, nil
}

// newDetailStore Redis 優先，否則使用程序內快取；都未啟用時回傳 nil
func (s *Services) newDetailStore(ctx context.Context, cfg *config.Config) (cache.Store, error) {
	if cfg.Redis.Enabled {
		rs, err := cache.NewRedisStore(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis cache: %w", err)
		}
		s.closers = append(s.closers, rs.Close)
		s.Checks["redis"] = rs.Ping
		return rs, nil
	}
	if cfg.Cache.Enabled {
		ms := cache.NewMemoryStore(cfg.Cache.MaxSize, cfg.Cache.TTL, 10*time.Minute)
		s.closers = append(s.closers, ms.Close)
		return ms, nil
	}
	return nil, nil
}

// AddCloser 註冊關閉時要釋放的資源
func (s *Services) AddCloser(fn func() error) {
	s.closers = append(s.closers, fn)
}

// Close 依建立的相反順序釋放資源
func (s *Services) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
