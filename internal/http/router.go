package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/token-launcher/backend/internal/config"
	"github.com/token-launcher/backend/internal/http/handlers"
	"github.com/token-launcher/backend/internal/middleware"
	"go.uber.org/zap"
)

// WebhookPath is where Telegram posts updates in webhook mode.
const WebhookPath = "/telegram/webhook"

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	healthHandler *handlers.HealthHandler,
	webhookHandler *handlers.WebhookHandler,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	app.Get("/health", healthHandler.Health)

	if webhookHandler == nil {
		return
	}
	// Telegram шлёт с небольшого пула адресов, лимит по IP щедрый
	app.Post(WebhookPath,
		middleware.RateLimitMiddleware(rdb, 6000, time.Minute),
		middleware.WebhookSecretMiddleware(cfg.WebhookSecret, log),
		webhookHandler.Receive,
	)
}
