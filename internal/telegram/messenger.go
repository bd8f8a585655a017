package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"
	"github.com/token-launcher/backend/internal/screens"
	"go.uber.org/zap"
)

const notModified = "message is not modified"

// Messenger sends screens through the Bot API.
type Messenger struct {
	api *tgbotapi.BotAPI
	log *zap.Logger
}

func NewMessenger(api *tgbotapi.BotAPI, log *zap.Logger) *Messenger {
	return &Messenger{api: api, log: log}
}

// Connect authorises the token against the Bot API.
func Connect(token string) (*tgbotapi.BotAPI, error) {
	if token == "" {
		return nil, errors.New("bot token is empty")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect bot api: %w", err)
	}
	return api, nil
}

func (m *Messenger) Send(ctx context.Context, chatID int64, s screens.Screen) (int, error) {
	cfg := tgbotapi.NewMessage(chatID, s.Text)
	cfg.ParseMode = s.ParseMode
	cfg.DisableWebPagePreview = s.DisablePreview
	if kb, ok := Keyboard(s.Keyboard); ok {
		cfg.ReplyMarkup = kb
	}
	var sent tgbotapi.Message
	err := m.retry(ctx, func() (err error) {
		sent, err = m.api.Send(cfg)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("send message: %w", err)
	}
	return sent.MessageID, nil
}

// Edit replaces text and keyboard. Re-sending identical content is not an error.
func (m *Messenger) Edit(ctx context.Context, chatID int64, messageID int, s screens.Screen) error {
	cfg := tgbotapi.NewEditMessageText(chatID, messageID, s.Text)
	cfg.ParseMode = s.ParseMode
	cfg.DisableWebPagePreview = s.DisablePreview
	if kb, ok := Keyboard(s.Keyboard); ok {
		cfg.ReplyMarkup = &kb
	}
	err := m.retry(ctx, func() error {
		_, err := m.api.Request(cfg)
		return err
	})
	if err != nil && strings.Contains(err.Error(), notModified) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("edit message %d: %w", messageID, err)
	}
	return nil
}

func (m *Messenger) Delete(ctx context.Context, chatID int64, messageID int) error {
	err := m.retry(ctx, func() error {
		_, err := m.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
		return err
	})
	if err != nil {
		return fmt.Errorf("delete message %d: %w", messageID, err)
	}
	return nil
}

func (m *Messenger) SendDocument(ctx context.Context, chatID int64, name string, data []byte) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	err := m.retry(ctx, func() error {
		_, err := m.api.Send(doc)
		return err
	})
	if err != nil {
		return fmt.Errorf("send document: %w", err)
	}
	return nil
}

func (m *Messenger) AnswerCallback(_ context.Context, callbackID string) error {
	if _, err := m.api.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}
	return nil
}

// IsMember asks Telegram whether userID currently belongs to the group.
func (m *Messenger) IsMember(_ context.Context, groupChatID, userID int64) (bool, error) {
	member, err := m.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{ChatID: groupChatID, UserID: userID},
	})
	if err != nil {
		return false, fmt.Errorf("get chat member: %w", err)
	}
	return isMemberStatus(member), nil
}

// retry repeats fn once when Telegram asks to back off.
func (m *Messenger) retry(ctx context.Context, fn func() error) error {
	err := fn()
	var apiErr *tgbotapi.Error
	if !errors.As(err, &apiErr) || apiErr.RetryAfter <= 0 {
		return err
	}
	wait := time.Duration(apiErr.RetryAfter) * time.Second
	m.log.Warn("telegram flood control", zap.Duration("retry_after", wait))
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
	}
	return fn()
}

// Keyboard converts screen buttons into an inline keyboard; ok is false for an empty layout.
func Keyboard(rows [][]screens.Button) (tgbotapi.InlineKeyboardMarkup, bool) {
	if len(rows) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	return tgbotapi.NewInlineKeyboardMarkup(lo.Map(rows, func(r []screens.Button, _ int) []tgbotapi.InlineKeyboardButton {
		return lo.Map(r, func(b screens.Button, _ int) tgbotapi.InlineKeyboardButton {
			if b.URL != "" {
				return tgbotapi.NewInlineKeyboardButtonURL(b.Label, b.URL)
			}
			return tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Action)
		})
	})...), true
}

func isMemberStatus(m tgbotapi.ChatMember) bool {
	switch m.Status {
	case "creator", "administrator", "member":
		return true
	case "restricted":
		return m.IsMember
	}
	return false
}
