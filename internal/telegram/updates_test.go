package telegram

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/token-launcher/backend/internal/bot"
	"github.com/token-launcher/backend/internal/screens"
)

func decodeOne(t *testing.T, body string) bot.Update {
	t.Helper()
	ups, err := Decode([]byte(body))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(ups) != 1 {
		t.Fatalf("expected 1 update, got %d", len(ups))
	}
	return ups[0]
}

func TestDecodeCommand(t *testing.T) {
	u := decodeOne(t, `{"update_id":1,"message":{"message_id":5,
		"from":{"id":42,"is_bot":false,"first_name":"A","username":"alice"},
		"chat":{"id":42,"type":"private"},"date":1,"text":"/start",
		"entities":[{"type":"bot_command","offset":0,"length":6}]}}`)
	if u.Kind != bot.KindCommand || u.Command != "start" {
		t.Fatalf("unexpected %+v", u)
	}
	if u.UserID != 42 || u.ChatID != 42 || u.Username != "alice" || u.MessageID != 5 {
		t.Fatalf("unexpected identity %+v", u)
	}
}

func TestDecodeText(t *testing.T) {
	u := decodeOne(t, `{"update_id":2,"message":{"message_id":6,
		"from":{"id":42,"is_bot":false,"first_name":"A"},
		"chat":{"id":42,"type":"private"},"date":1,"text":"My Token"}}`)
	if u.Kind != bot.KindText || u.Text != "My Token" {
		t.Fatalf("unexpected %+v", u)
	}
}

func TestDecodeCallback(t *testing.T) {
	u := decodeOne(t, `{"update_id":3,"callback_query":{"id":"cbq","data":"set_chain",
		"from":{"id":42,"is_bot":false,"first_name":"A"},
		"message":{"message_id":77,"chat":{"id":42,"type":"private"},"date":1}}}`)
	if u.Kind != bot.KindCallback || u.Data != "set_chain" || u.CallbackID != "cbq" {
		t.Fatalf("unexpected %+v", u)
	}
	if u.MessageID != 77 || u.ChatID != 42 {
		t.Fatalf("unexpected message %+v", u)
	}
}

func TestDecodeMembership(t *testing.T) {
	u := decodeOne(t, `{"update_id":4,"chat_member":{"chat":{"id":-100,"type":"supergroup"},
		"from":{"id":42,"is_bot":false,"first_name":"A"},"date":1,
		"old_chat_member":{"user":{"id":42,"is_bot":false,"first_name":"A"},"status":"left"},
		"new_chat_member":{"user":{"id":42,"is_bot":false,"first_name":"A"},"status":"member"}}}`)
	if u.Kind != bot.KindMembership || !u.Joined || u.ChatID != -100 || u.UserID != 42 {
		t.Fatalf("unexpected %+v", u)
	}

	ups, err := Decode([]byte(`{"update_id":5,"message":{"message_id":1,
		"from":{"id":1,"is_bot":false,"first_name":"Admin"},
		"chat":{"id":-100,"type":"supergroup"},"date":1,
		"left_chat_member":{"id":42,"is_bot":false,"first_name":"A"}}}`))
	if err != nil || len(ups) != 1 {
		t.Fatalf("decode left member: %v %v", ups, err)
	}
	if ups[0].Joined || ups[0].UserID != 42 {
		t.Fatalf("unexpected %+v", ups[0])
	}
}

func TestGroupChatterIgnored(t *testing.T) {
	ups, err := Decode([]byte(`{"update_id":6,"message":{"message_id":1,
		"from":{"id":42,"is_bot":false,"first_name":"A"},
		"chat":{"id":-100,"type":"supergroup"},"date":1,"text":"hello"}}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(ups) != 0 {
		t.Fatalf("group messages must be ignored, got %+v", ups)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte("{")); err == nil {
		t.Fatal("expected error")
	}
}

func TestKeyboard(t *testing.T) {
	if _, ok := Keyboard(nil); ok {
		t.Fatal("empty layout must not produce a keyboard")
	}
	kb, ok := Keyboard([][]screens.Button{
		{{Label: "Go", Action: "go_home"}, {Label: "Site", URL: "https://example.org"}},
	})
	if !ok || len(kb.InlineKeyboard) != 1 || len(kb.InlineKeyboard[0]) != 2 {
		t.Fatalf("unexpected keyboard %+v", kb)
	}
	data := kb.InlineKeyboard[0][0]
	if data.CallbackData == nil || *data.CallbackData != "go_home" {
		t.Fatalf("unexpected data button %+v", data)
	}
	link := kb.InlineKeyboard[0][1]
	if link.URL == nil || *link.URL != "https://example.org" {
		t.Fatalf("unexpected url button %+v", link)
	}
}

func TestMemberStatus(t *testing.T) {
	tests := []struct {
		m    tgbotapi.ChatMember
		want bool
	}{
		{tgbotapi.ChatMember{Status: "creator"}, true},
		{tgbotapi.ChatMember{Status: "member"}, true},
		{tgbotapi.ChatMember{Status: "restricted", IsMember: true}, true},
		{tgbotapi.ChatMember{Status: "restricted"}, false},
		{tgbotapi.ChatMember{Status: "left"}, false},
		{tgbotapi.ChatMember{Status: "kicked"}, false},
	}
	for _, tt := range tests {
		if got := isMemberStatus(tt.m); got != tt.want {
			t.Errorf("%s/%v: got %v", tt.m.Status, tt.m.IsMember, got)
		}
	}
}
