package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/token-launcher/backend/internal/bot"
	"github.com/token-launcher/backend/internal/http/dto"
	"github.com/token-launcher/backend/internal/telegram"
	"go.uber.org/zap"
)

// WebhookHandler feeds Telegram webhook deliveries into the controller's update channel.
type WebhookHandler struct {
	out     chan<- bot.Update
	timeout time.Duration
	log     *zap.Logger
}

func NewWebhookHandler(out chan<- bot.Update, timeout time.Duration, log *zap.Logger) *WebhookHandler {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WebhookHandler{out: out, timeout: timeout, log: log}
}

// Receive always acknowledges a well-formed body; Telegram redelivers on non-2xx.
func (h *WebhookHandler) Receive(c *fiber.Ctx) error {
	updates, err := telegram.Decode(c.Body())
	if err != nil {
		h.log.Warn("bad webhook body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid update"})
	}

	timer := time.NewTimer(h.timeout)
	defer timer.Stop()
	for _, u := range updates {
		select {
		case h.out <- u:
		case <-timer.C:
			h.log.Error("update queue full, dropping", zap.Int64("user_id", u.UserID), zap.Stringer("kind", u.Kind))
			return c.JSON(dto.SuccessResponse{OK: true})
		case <-c.Context().Done():
			return c.JSON(dto.SuccessResponse{OK: true})
		}
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}
