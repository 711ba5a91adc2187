// Package main 设计方案生成服务入口
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"emb-project-gen-api/internal/application/generation"
	"emb-project-gen-api/internal/config"
	"emb-project-gen-api/internal/infrastructure/dashscope"
	redisinfra "emb-project-gen-api/internal/infrastructure/persistence/redis"
	"emb-project-gen-api/internal/interfaces/http/handler"
	"emb-project-gen-api/internal/interfaces/http/middleware"
	"emb-project-gen-api/internal/interfaces/http/router"
	"emb-project-gen-api/internal/workflow/prompt"
	"emb-project-gen-api/pkg/logger"
	"emb-project-gen-api/pkg/tracer"

	"github.com/gin-gonic/gin"
)

// Version 版本信息，构建时注入
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// 加载 .env 文件（如果存在）
	_ = godotenv.Load()

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logger.Init(
		cfg.Observability.Logging.Level,
		cfg.Observability.Logging.Format,
	)

	ctx := context.Background()
	log := logger.FromContext(ctx)
	log.Info("starting gen-gateway",
		"version", Version,
		"build_time", BuildTime,
		"env", cfg.App.Env,
	)

	// 初始化追踪
	shutdownTracer, err := tracer.Init(ctx, tracer.Config{
		ServiceName: cfg.App.Name,
		Endpoint:    cfg.Observability.Tracing.Endpoint,
		SampleRate:  cfg.Observability.Tracing.SampleRate,
		Enabled:     cfg.Observability.Tracing.Enabled,
	})
	if err != nil {
		log.Error("failed to init tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracer(ctx); err != nil {
			log.Error("failed to shutdown tracer", "error", err)
		}
	}()

	// Redis 仅用于限流，不可用时降级运行
	var redisClient *redisinfra.Client
	if cfg.Cache.Redis.Enabled {
		redisClient, err = redisinfra.NewClient(&cfg.Cache.Redis)
		if err != nil {
			log.Warn("redis unavailable, rate limiting disabled", "error", err)
		} else {
			defer redisClient.Close()
		}
	}

	// 组装生成链路：DashScope 客户端 -> 编排服务 -> HTTP 处理器
	chatModel := dashscope.NewClient(&cfg.LLM.DashScope)
	genService := generation.NewService(chatModel, prompt.Variant(cfg.Features.Prompt.DefaultVariant))

	projectHandler := handler.NewProjectHandler(cfg, genService)
	healthHandler := handler.NewHealthHandler(Version, redisClient)

	var rateLimit gin.HandlerFunc
	if redisClient != nil {
		rateLimit = middleware.NewRateLimitMiddleware(middleware.RateLimitConfig{
			Enabled:           cfg.Security.RateLimit.Enabled,
			RequestsPerSecond: cfg.Security.RateLimit.RequestsPerSecond,
		}, redisClient.Redis())
	}

	r := router.New(cfg, projectHandler, healthHandler, rateLimit)

	// 创建 HTTP 服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.HTTP.Host, cfg.Server.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.HTTP.ReadTimeout,
		WriteTimeout: cfg.Server.HTTP.WriteTimeout,
		IdleTimeout:  cfg.Server.HTTP.IdleTimeout,
	}

	// 启动服务器并等待中断信号
	rootCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(rootCtx)

	g.Go(func() error {
		log.Info("http server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}

	log.Info("server exited")
}
