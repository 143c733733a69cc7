package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"techdesk_backend/internal/config"
	"techdesk_backend/internal/database"
	"techdesk_backend/internal/mailer"
	"techdesk_backend/internal/mirror"
	"techdesk_backend/internal/repositories"
	"techdesk_backend/internal/router"
	"techdesk_backend/internal/services"
	"techdesk_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	// Initialize Logger
	utils.InitLogger(cfg.LogLevel, cfg.LogFormat)

	tokens, err := utils.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL)
	if err != nil {
		utils.LogError(err, "JWT_SECRET must be set")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DB.AutoMigrate {
		if err := database.MigrateUp(cfg.DB.URL()); err != nil {
			utils.LogError(err, "Failed to apply migrations")
			os.Exit(1)
		}
	}

	pool, err := database.NewPool(ctx, cfg.DB)
	if err != nil {
		utils.LogError(err, "Failed to create database pool")
		os.Exit(1)
	}
	defer pool.Close()

	textMirror := mirror.New(cfg.Mirror.Dir)
	mirrorService := services.NewMirrorService(repositories.NewSchemaRepository(), pool, textMirror)
	if cfg.Mirror.RebuildOnStart {
		if _, err := mirrorService.Rebuild(ctx); err != nil {
			utils.LogError(err, "Initial mirror rebuild failed")
		}
	}
	go mirrorService.RunPeriodic(ctx, cfg.Mirror.RebuildInterval)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(utils.RequestID())
	engine.Use(utils.GinLogger())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", utils.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{"Content-Disposition", utils.RequestIDHeader}
	corsConfig.AllowCredentials = true
	engine.Use(cors.New(corsConfig))

	router.Setup(engine, router.Deps{
		Pool:          pool,
		Mirror:        textMirror,
		MirrorService: mirrorService,
		Mailer:        mailer.NewSMTPMailer(cfg.SMTP),
		SMTPRate:      cfg.SMTP.RatePerSec,
		Tokens:        tokens,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.LogInfo("Server starting", map[string]interface{}{"port": cfg.Port, "mirror_dir": cfg.Mirror.Dir})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.LogError(err, "Failed to start server")
			stop()
		}
	}()

	<-ctx.Done()
	utils.LogInfo("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.LogError(err, "Graceful shutdown failed")
	}
}
