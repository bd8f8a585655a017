package telegram

import (
	"context"
	"encoding/json"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/token-launcher/backend/internal/bot"
	"go.uber.org/zap"
)

// AllowedUpdates must include chat_member for membership tracking; the bot has to be a group admin.
var AllowedUpdates = []string{"message", "callback_query", "chat_member"}

// Convert maps a Bot API update onto zero or more controller updates.
func Convert(u tgbotapi.Update) []bot.Update {
	switch {
	case u.CallbackQuery != nil:
		q := u.CallbackQuery
		out := bot.Update{
			Kind:       bot.KindCallback,
			CallbackID: q.ID,
			Data:       q.Data,
		}
		if q.From != nil {
			out.UserID, out.Username = q.From.ID, q.From.UserName
		}
		if q.Message != nil {
			out.MessageID = q.Message.MessageID
			if q.Message.Chat != nil {
				out.ChatID = q.Message.Chat.ID
			}
		}
		if out.ChatID == 0 {
			out.ChatID = out.UserID
		}
		return []bot.Update{out}

	case u.ChatMember != nil:
		cm := u.ChatMember
		user := cm.NewChatMember.User
		if user == nil {
			return nil
		}
		return []bot.Update{{
			Kind:     bot.KindMembership,
			UserID:   user.ID,
			ChatID:   cm.Chat.ID,
			Username: user.UserName,
			Joined:   isMemberStatus(cm.NewChatMember),
		}}

	case u.Message != nil:
		return convertMessage(u.Message)
	}
	return nil
}

func convertMessage(m *tgbotapi.Message) []bot.Update {
	if m.From == nil || m.Chat == nil {
		return nil
	}
	if len(m.NewChatMembers) > 0 || m.LeftChatMember != nil {
		var out []bot.Update
		for _, user := range m.NewChatMembers {
			out = append(out, bot.Update{Kind: bot.KindMembership, UserID: user.ID, ChatID: m.Chat.ID, Username: user.UserName, Joined: true})
		}
		if l := m.LeftChatMember; l != nil {
			out = append(out, bot.Update{Kind: bot.KindMembership, UserID: l.ID, ChatID: m.Chat.ID, Username: l.UserName})
		}
		return out
	}
	// только личные чаты
	if !m.Chat.IsPrivate() {
		return nil
	}
	out := bot.Update{
		UserID:    m.From.ID,
		ChatID:    m.Chat.ID,
		Username:  m.From.UserName,
		MessageID: m.MessageID,
		Text:      m.Text,
	}
	switch {
	case m.IsCommand():
		out.Kind = bot.KindCommand
		out.Command = m.Command()
	case m.Text != "":
		out.Kind = bot.KindText
	default:
		return nil
	}
	return []bot.Update{out}
}

// Decode parses a webhook body.
func Decode(body []byte) ([]bot.Update, error) {
	var u tgbotapi.Update
	if err := json.Unmarshal(body, &u); err != nil {
		return nil, fmt.Errorf("decode update: %w", err)
	}
	return Convert(u), nil
}

// Poll long-polls the Bot API and forwards converted updates until ctx is done.
// The returned channel is closed on exit.
func Poll(ctx context.Context, api *tgbotapi.BotAPI, log *zap.Logger) <-chan bot.Update {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 60
	cfg.AllowedUpdates = AllowedUpdates
	raw := api.GetUpdatesChan(cfg)

	out := make(chan bot.Update)
	go func() {
		defer close(out)
		defer api.StopReceivingUpdates()
		for {
			select {
			case <-ctx.Done():
				return
			case u, ok := <-raw:
				if !ok {
					return
				}
				for _, cu := range Convert(u) {
					select {
					case out <- cu:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()
	log.Info("long polling started", zap.String("bot", api.Self.UserName))
	return out
}

// SetWebhook registers url with a secret token that Telegram echoes in every request.
func SetWebhook(api *tgbotapi.BotAPI, url, secret string) error {
	allowed, err := json.Marshal(AllowedUpdates)
	if err != nil {
		return err
	}
	params := tgbotapi.Params{"url": url, "allowed_updates": string(allowed)}
	params.AddNonEmpty("secret_token", secret)
	if _, err := api.MakeRequest("setWebhook", params); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	return nil
}

// DeleteWebhook switches the bot back to getUpdates.
func DeleteWebhook(api *tgbotapi.BotAPI) error {
	if _, err := api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}
	return nil
}
