package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Haiduongcable/Copilot-TeleGram/internal/infrastructure/database"
	queueadapter "github.com/Haiduongcable/Copilot-TeleGram/internal/infrastructure/queue/adapter"
	"github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/application/task"
	"github.com/Haiduongcable/Copilot-TeleGram/internal/pkg/chat/persistence/repository/adapter"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type config struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// The worker drains the notification queue. It shares the database with the
// API process but holds no live connections, so restarts are cheap.
func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not loaded", "error", err)
	}

	var cfg config
	if err := envconfig.Process("", &cfg); err != nil {
		slog.Error("parse configuration", "error", err)
		os.Exit(1)
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		lvl = slog.LevelInfo
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	pool, err := database.NewPoolFromEnv(ctx)
	cancel()
	if err != nil {
		log.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	srv, err := queueadapter.NewAsynqServer(log)
	if err != nil {
		log.Error("configure queue server", "error", err)
		os.Exit(1)
	}

	notifications := adapter.NewPgNotificationRepository(pool)
	task.RegisterNotifyMembersTask(srv, notifications, log)

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("worker started")
	if err := srv.Run(runCtx); err != nil {
		log.Error("worker stopped", "error", err)
		os.Exit(1)
	}
	log.Info("worker stopped")
}
