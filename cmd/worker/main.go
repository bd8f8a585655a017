package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/token-launcher/backend/internal/config"
	"github.com/token-launcher/backend/internal/db"
	"github.com/token-launcher/backend/internal/deployer"
	"github.com/token-launcher/backend/internal/events"
	"github.com/token-launcher/backend/internal/models"
	"github.com/token-launcher/backend/internal/repositories"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	auditRepo := repositories.NewAuditRepo(pool)
	subscriber := events.NewRedisSubscriber(rdb, log)
	if err := subscriber.Subscribe(ctx, events.StreamDeploy, func(e events.Event) {
		recordEvent(ctx, auditRepo, e, log)
	}); err != nil {
		log.Fatal("failed to subscribe", zap.String("stream", events.StreamDeploy), zap.Error(err))
	}

	log.Info("worker started", zap.String("work_dir", cfg.WorkDir), zap.Duration("max_age", cfg.WorkDirMaxAge))

	janitorTicker := time.NewTicker(cfg.JanitorInterval)
	defer janitorTicker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	runJanitor(cfg, log)
	for {
		select {
		case <-janitorTicker.C:
			runJanitor(cfg, log)
		case <-sigCh:
			log.Info("shutting down worker")
			cancel()
			return
		case <-ctx.Done():
			return
		}
	}
}

// runJanitor removes build directories left behind by a crashed bot process.
func runJanitor(cfg *config.Config, log *zap.Logger) {
	n, err := deployer.SweepStale(cfg.WorkDir, cfg.WorkDirMaxAge, time.Now(), log)
	if err != nil {
		log.Error("failed to sweep work dir", zap.Error(err))
		return
	}
	if n > 0 {
		log.Info("stale work dirs removed", zap.Int("count", n))
	}
}

func recordEvent(ctx context.Context, repo *repositories.AuditRepo, e events.Event, log *zap.Logger) {
	entry := models.AuditLog{Action: e.Type, Meta: e.Payload}
	if uid, ok := e.UserID(); ok {
		entry.UserID = &uid
	}
	if err := repo.Log(ctx, entry); err != nil {
		log.Error("failed to record event", zap.String("type", e.Type), zap.Error(err))
	}
}
