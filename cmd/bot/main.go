package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/token-launcher/backend/internal/bot"
	"github.com/token-launcher/backend/internal/chain"
	"github.com/token-launcher/backend/internal/config"
	"github.com/token-launcher/backend/internal/db"
	"github.com/token-launcher/backend/internal/deployer"
	"github.com/token-launcher/backend/internal/events"
	apphttp "github.com/token-launcher/backend/internal/http"
	"github.com/token-launcher/backend/internal/http/handlers"
	"github.com/token-launcher/backend/internal/keyvault"
	"github.com/token-launcher/backend/internal/middleware"
	"github.com/token-launcher/backend/internal/repositories"
	"github.com/token-launcher/backend/internal/telegram"
	"github.com/token-launcher/backend/migrations"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, migrations.FS, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Chain
	client, err := chain.Dial(ctx, cfg.RPCURL, cfg.PriceAPIURL, log)
	if err != nil {
		log.Fatal("failed to dial rpc", zap.Error(err))
	}
	defer client.Close()
	if err := client.VerifyChainID(ctx, cfg.ChainID); err != nil {
		log.Fatal("chain id mismatch", zap.Error(err))
	}

	vault, err := keyvault.New(cfg.EncryptionKey)
	if err != nil {
		log.Fatal("invalid encryption key", zap.Error(err))
	}

	// Telegram
	api, err := telegram.Connect(cfg.BotToken)
	if err != nil {
		log.Fatal("failed to connect to telegram", zap.Error(err))
	}
	log.Info("authorized", zap.String("bot", api.Self.UserName))
	messenger := telegram.NewMessenger(api, log)

	// Repositories
	sessionRepo := repositories.NewSessionRepo(rdb, cfg.SessionTTL)
	accountRepo := repositories.NewAccountRepo(pool)

	publisher := events.NewRedisPublisher(rdb, log)

	dep := deployer.New(deployer.Config{
		WorkDir:      cfg.WorkDir,
		ChainID:      cfg.ChainID,
		VerifierURL:  cfg.VerifierURL,
		ForgeTimeout: cfg.ForgeTimeout,
		VerifyDelay:  cfg.VerifyDelay,
	}, client.Eth(), deployer.NewForge(cfg.ForgeBin, log), log)
	defer dep.Close()

	controller := bot.NewController(messenger, sessionRepo, accountRepo, client, dep, vault, publisher, bot.Options{
		ExplorerURL:    cfg.ExplorerURL,
		GroupChatID:    cfg.GroupChatID,
		GroupHandle:    cfg.GroupHandle,
		GroupInviteURL: cfg.GroupInviteURL,
		VerifyDelay:    cfg.VerifyDelay,
		MaxConcurrent:  cfg.MaxConcurrentUpdates,
		Limiter:        middleware.NewLimiter(rdb, "updates", cfg.UpdateRateLimitPerMin, time.Minute),
	}, log)

	// Updates
	var updates <-chan bot.Update
	var webhook *handlers.WebhookHandler
	if cfg.BotMode == config.ModeWebhook {
		ch := make(chan bot.Update, cfg.MaxConcurrentUpdates)
		updates = ch
		webhook = handlers.NewWebhookHandler(ch, 5*time.Second, log)
	} else {
		if err := telegram.DeleteWebhook(api); err != nil {
			log.Warn("failed to delete webhook", zap.Error(err))
		}
		updates = telegram.Poll(ctx, api, log)
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})
	health := handlers.NewHealthHandler(map[string]handlers.Pinger{
		"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		"postgres": pool.Ping,
	}, log)
	apphttp.SetupRouter(app, cfg, log, rdb, health, webhook)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := fmt.Sprintf(":%s", cfg.HTTPPort)
		log.Info("starting http server", zap.String("addr", addr), zap.String("mode", cfg.BotMode))
		return app.Listen(addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down...")
		return app.ShutdownWithTimeout(10 * time.Second)
	})
	if webhook != nil {
		g.Go(func() error {
			return telegram.SetWebhook(api, cfg.WebhookURL+apphttp.WebhookPath, cfg.WebhookSecret)
		})
	}
	g.Go(func() error {
		return controller.Run(gctx, updates)
	})

	if err := g.Wait(); err != nil {
		log.Error("bot stopped with error", zap.Error(err))
	}
	// деплои не прерываем
	controller.Wait()
	log.Info("bot stopped")
}
