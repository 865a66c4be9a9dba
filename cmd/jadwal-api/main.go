package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/jadwal-api/api/swagger"
	"github.com/noah-isme/jadwal-api/internal/bootstrap"
	"github.com/noah-isme/jadwal-api/internal/handler"
	internalmiddleware "github.com/noah-isme/jadwal-api/internal/middleware"
	"github.com/noah-isme/jadwal-api/pkg/config"
	"github.com/noah-isme/jadwal-api/pkg/jobs"
	"github.com/noah-isme/jadwal-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/jadwal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/jadwal-api/pkg/middleware/requestid"
)

const shutdownTimeout = 15 * time.Second

// @title Jadwal API
// @version 1.0.0
// @description Course scheduling engine: conflict checks, meeting calendars, fair student distribution and bulk generation.
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	container, err := bootstrap.New(cfg, logr)
	if err != nil {
		logr.Fatal("failed to bootstrap services", zap.Error(err))
	}
	defer container.Close() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// One worker keeps queued generation runs strictly sequential.
	queue := jobs.NewQueue("jadwal-generation", container.Jobs.Handle, jobs.QueueConfig{
		Workers:    1,
		MaxRetries: 0,
		Logger:     logr,
	})
	container.Jobs.AttachQueue(queue)
	queue.Start(ctx)
	defer queue.Stop()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if cfg.Metrics.Enabled {
		r.Use(internalmiddleware.Metrics(container.Metrics))
	}

	metricsHandler := handler.NewMetricsHandler(container.Metrics, map[string]handler.Pinger{
		"postgres": container.DB,
		"redis":    handler.PingFunc(container.PingRedis),
	})
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if cfg.Metrics.Enabled {
		r.GET("/metrics", metricsHandler.Prometheus)
		r.GET("/metrics/summary", metricsHandler.Summary)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	jadwalHandler := handler.NewJadwalHandler(container.Jadwal, container.Jobs, container.Export)
	api := r.Group(cfg.APIPrefix)
	jadwal := api.Group("/jadwal")
	{
		jadwal.POST("", jadwalHandler.Create)
		jadwal.POST("/check", jadwalHandler.Check)
		jadwal.POST("/generate", jadwalHandler.Generate)
		jadwal.GET("/generate/jobs/:id", jadwalHandler.Job)
		jadwal.GET("/distribution", jadwalHandler.Distribution)
		jadwal.GET("/meeting-dates", jadwalHandler.MeetingDates)
		jadwal.GET("/export", jadwalHandler.Export)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
