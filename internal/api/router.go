package api

import (
	"fmt"
	"time"

	"secure-recipe/internal/api/handlers"
	"secure-recipe/internal/api/handlers/health"
	paymentHandler "secure-recipe/internal/api/handlers/payment"
	recipeHandler "secure-recipe/internal/api/handlers/recipe"
	"secure-recipe/internal/api/handlers/static"
	"secure-recipe/internal/api/middleware"
	aiservice "secure-recipe/internal/core/ai/service"
	"secure-recipe/internal/infrastructure/config"
	"secure-recipe/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies services resolved at startup and handed to the handlers
type Dependencies struct {
	AI       *aiservice.Service
	Recipes  recipeHandler.Service
	Payments paymentHandler.Verifier
	Store    middleware.Store
}

// SetupRouter builds the HTTP engine
func SetupRouter(cfg *config.Config, deps Dependencies) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// rate limits key on the peer address, never on forwarded headers
	if err := router.SetTrustedProxies(nil); err != nil {
		return nil, fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	// the frontend may be hosted anywhere
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{
			"Content-Length", "X-Request-ID", common.HeaderRecipeSource,
			"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.MaxBodySize))

	limits, err := newLimits(cfg, deps.Store)
	if err != nil {
		return nil, err
	}

	healthH := health.NewHandler(cfg, deps.AI)
	aiH := handlers.NewAIHandler(deps.AI)
	recipeH := recipeHandler.NewHandler(deps.Recipes)
	paymentH := paymentHandler.NewHandler(deps.Payments)
	staticH := static.NewHandler(cfg.Static.Dir)

	// probes are never rate limited
	router.GET("/health", healthH.HealthCheck)
	router.GET("/ready", healthH.ReadinessCheck)
	router.GET("/live", healthH.LivenessCheck)

	router.GET("/test", limits.byDefault("test"), healthH.Test)
	router.GET("/test-ai", limits.byDefault("test-ai"), aiH.HandleTestAI)

	router.POST("/generate-recipes", limits.forRecipes("generate-recipes"), recipeH.HandleGenerate)
	router.POST("/search-recipes", limits.forRecipes("search-recipes"), recipeH.HandleSearch)

	router.POST("/verify-payment", limits.byDefault("verify-payment"), paymentH.HandleVerify)

	router.GET("/", limits.byDefault("static"), staticH.Index)
	router.NoRoute(limits.byDefault("static"), staticH.Serve)

	common.LogInfo("Router setup completed successfully",
		zap.Bool("ai_available", deps.AI.Available()),
		zap.String("ai_model", deps.AI.Model()),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.String("static_dir", cfg.Static.Dir),
		zap.Int64("max_body_size", cfg.MaxBodySize),
	)

	return router, nil
}

// routeLimits builds one limiter per route so every route keeps its own budget
type routeLimits struct {
	enabled bool
	store   middleware.Store
	def     []config.Limit
	recipes []config.Limit
	shared  map[string]gin.HandlerFunc
}

func newLimits(cfg *config.Config, store middleware.Store) (*routeLimits, error) {
	rl := &routeLimits{
		enabled: cfg.RateLimit.Enabled,
		store:   store,
		shared:  make(map[string]gin.HandlerFunc),
	}
	if !rl.enabled {
		return rl, nil
	}
	if rl.store == nil {
		rl.store = middleware.NewMemoryStore()
	}

	var err error
	if rl.def, err = config.ParseLimits(cfg.RateLimit.DefaultLimits); err != nil {
		return nil, fmt.Errorf("default rate limits: %w", err)
	}
	if rl.recipes, err = config.ParseLimits(cfg.RateLimit.RecipeLimits); err != nil {
		return nil, fmt.Errorf("recipe rate limits: %w", err)
	}
	return rl, nil
}

func (rl *routeLimits) byDefault(route string) gin.HandlerFunc {
	return rl.handler(route, rl.def)
}

func (rl *routeLimits) forRecipes(route string) gin.HandlerFunc {
	return rl.handler(route, rl.recipes)
}

func (rl *routeLimits) handler(route string, limits []config.Limit) gin.HandlerFunc {
	if !rl.enabled {
		return func(c *gin.Context) { c.Next() }
	}
	if h, ok := rl.shared[route]; ok {
		return h
	}
	h := middleware.NewRateLimiter(rl.store, "rate_limit:"+route, limits).Middleware()
	rl.shared[route] = h
	return h
}
