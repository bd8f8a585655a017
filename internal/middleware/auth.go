package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"github.com/token-launcher/backend/internal/http/dto"
	"go.uber.org/zap"
)

// SecretTokenHeader carries the secret_token registered with setWebhook.
const SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// WebhookSecretMiddleware rejects webhook calls that do not echo the configured secret.
// An empty secret disables the check.
func WebhookSecretMiddleware(secret string, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return c.Next()
		}
		got := c.Get(SecretTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			reqID, _ := c.Locals(CtxRequestID).(string)
			log.Warn("webhook secret mismatch", zap.String("request_id", reqID), zap.String("ip", c.IP()))
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "invalid secret token", RequestID: reqID})
		}
		return c.Next()
	}
}
