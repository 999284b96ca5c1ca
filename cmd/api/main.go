package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	v1 "github.com/Haiduongcable/Copilot-TeleGram/cmd/api/router/v1"
	"github.com/Haiduongcable/Copilot-TeleGram/internal/infrastructure/auth"
	cacheadapter "github.com/Haiduongcable/Copilot-TeleGram/internal/infrastructure/cache/adapter"
	cacheport "github.com/Haiduongcable/Copilot-TeleGram/internal/infrastructure/cache/port"
	"github.com/Haiduongcable/Copilot-TeleGram/internal/infrastructure/database"
	queueadapter "github.com/Haiduongcable/Copilot-TeleGram/internal/infrastructure/queue/adapter"
	qport "github.com/Haiduongcable/Copilot-TeleGram/internal/infrastructure/queue/port"
	"github.com/Haiduongcable/Copilot-TeleGram/internal/infrastructure/realtime"
	httpHandler "github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/presentation/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type config struct {
	Addr            string        `envconfig:"ADDR" default:":8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	GinMode         string        `envconfig:"GIN_MODE" default:"release"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not loaded", "error", err)
	}

	var cfg config
	if err := envconfig.Process("", &cfg); err != nil {
		slog.Error("parse configuration", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	pool, err := database.NewPoolFromEnv(ctx)
	cancel()
	if err != nil {
		log.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	err = database.Migrate(ctx, pool)
	cancel()
	if err != nil {
		log.Error("run migrations", "error", err)
		os.Exit(1)
	}

	// The cache is an optimization; start degraded if redis is unreachable.
	var cache cacheport.Cache
	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	rc, err := cacheadapter.NewRedisAdapter(ctx)
	cancel()
	if err != nil {
		log.Warn("cache unavailable, previews uncached", "error", err)
	} else {
		cache = rc
		defer rc.Close()
	}

	// The queue carries offline notification tasks; without it, delivery
	// still happens live but nothing is persisted for absent members.
	var queue qport.Client
	if qc, err := queueadapter.NewAsynqClientFromEnv(); err != nil {
		log.Warn("queue unavailable, notifications disabled", "error", err)
	} else {
		queue = qc
		defer qc.Close()
	}

	verifier, err := auth.NewVerifierFromEnv()
	if err != nil {
		log.Error("configure token verifier", "error", err)
		os.Exit(1)
	}

	registry := realtime.NewRegistry()

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		cacheStatus := "disabled"
		if cache != nil {
			cacheStatus = "ok"
			pingCtx, pingCancel := context.WithTimeout(c.Request.Context(), time.Second)
			if err := cache.Ping(pingCtx); err != nil {
				cacheStatus = "unreachable"
			}
			pingCancel()
		}
		c.JSON(http.StatusOK, gin.H{"status": "OK", "cache": cacheStatus})
	})

	v1.RegisterRoutes(r, httpHandler.Deps{
		Pool:     pool,
		Cache:    cache,
		Queue:    queue,
		Registry: registry,
		Verifier: verifier,
		Log:      log,
	})

	srv := &http.Server{Addr: cfg.Addr, Handler: r}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-stop:
		log.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	registry.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown", "error", err)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
