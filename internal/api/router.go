package api

import (
	"time"

	aiHandler "recipe-finder/internal/api/handlers/ai"
	contactHandler "recipe-finder/internal/api/handlers/contact"
	"recipe-finder/internal/api/handlers/health"
	notificationHandler "recipe-finder/internal/api/handlers/notification"
	recipeHandler "recipe-finder/internal/api/handlers/recipe"
	"recipe-finder/internal/api/middleware"
	"recipe-finder/internal/app"
	"recipe-finder/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter 設置路由
func SetupRouter(svcs *app.Services) *gin.Engine {
	cfg := svcs.Config
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger(svcs.Metrics.ObserveHTTP))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// 健康檢查與指標不受限流影響
	checks := make(map[string]health.Check, len(svcs.Checks))
	for name, check := range svcs.Checks {
		checks[name] = check
	}
	healthHandler := health.NewHandler(cfg.App.Version, svcs.Governor, checks)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)
	router.GET("/metrics", gin.WrapH(svcs.Metrics.Handler()))

	api := router.Group("/api/v1")
	api.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	api.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	if cfg.RateLimit.Enabled {
		api.Use(middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window).Middleware())
	}
	dedup := middleware.NewDeduplicator(cfg.DedupWindow)
	svcs.AddCloser(func() error { dedup.Stop(); return nil })
	api.Use(dedup.Middleware())
	api.Use(middleware.Session())

	recipes := recipeHandler.NewHandler(svcs.Search, svcs.Submitter, cfg.App.Debug)
	recipeGroup := api.Group("/recipes")
	{
		recipeGroup.GET("/search", recipes.HandleSearch)
		recipeGroup.GET("/trending", recipes.HandleTrending)
		recipeGroup.GET("/:id", recipes.HandleDetails)
		recipeGroup.POST("", recipes.HandleSubmit)
	}

	ai := aiHandler.NewHandler(svcs.Suggestions, svcs.Expert, svcs.Images, cfg.App.Debug)
	api.GET("/suggestions", ai.HandleSuggestion)
	aiGroup := api.Group("/ai")
	{
		aiGroup.POST("/chat", ai.HandleChat)
		aiGroup.POST("/image", ai.HandleImage)
	}

	api.POST("/contact", contactHandler.Handle(svcs.Contact))

	notifications := notificationHandler.NewHandler(svcs.Notifications, cfg.App.Debug)
	userGroup := api.Group("/users/:uid/notifications")
	{
		userGroup.GET("", notifications.HandleList)
		userGroup.POST("", notifications.HandleCreate)
		userGroup.POST("/:id/read", notifications.HandleMarkRead)
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("ai_enabled", svcs.Governor.Enabled()),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("request_timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)
	return router
}
