package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"secure-recipe/internal/api"
	"secure-recipe/internal/api/middleware"
	aiservice "secure-recipe/internal/core/ai/service"
	"secure-recipe/internal/core/payment"
	"secure-recipe/internal/core/recipe"
	"secure-recipe/internal/infrastructure/config"
	"secure-recipe/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := common.InitLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("Configuration loaded",
		zap.String("env", cfg.App.Env),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.Strings("gemini_models", cfg.Gemini.Models),
		zap.String("paystack_base_url", cfg.Paystack.BaseURL),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.String("rate_limit_storage", cfg.RateLimit.Storage),
	)

	ctx := context.Background()

	// resolved once; unavailable means every recipe comes from the fallback catalog
	aiSvc := aiservice.NewService(ctx, cfg)
	defer aiSvc.Close()

	// verify-payment answers 500 until a secret key is configured
	paymentSvc := payment.NewService(nil)
	if gateway, err := payment.NewPaystackClient(cfg.Paystack); err != nil {
		common.LogWarn("Payment gateway not configured", zap.Error(err))
	} else {
		paymentSvc = payment.NewService(gateway)
	}

	store, closeStore := middleware.NewStore(ctx, cfg)
	defer func() {
		if err := closeStore(); err != nil {
			common.LogWarn("Failed to close rate limit store", zap.Error(err))
		}
	}()

	router, err := api.SetupRouter(cfg, api.Dependencies{
		AI:       aiSvc,
		Recipes:  recipe.NewService(aiSvc),
		Payments: paymentSvc,
		Store:    store,
	})
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo(common.MsgServerStarting,
			zap.String("addr", srv.Addr),
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Bool("ai_available", aiSvc.Available()),
			zap.String("ai_model", aiSvc.Model()),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo(common.MsgServerStopping)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		return
	}

	common.LogInfo(common.MsgServerExited)
}
