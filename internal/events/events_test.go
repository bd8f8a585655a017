package events

import (
	"encoding/json"
	"testing"
)

func TestEventUserID(t *testing.T) {
	var decoded Event
	if err := json.Unmarshal([]byte(`{"type":"deploy_started","payload":{"user_id":1234567890123}}`), &decoded); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		e    Event
		want int64
		ok   bool
	}{
		{"int64", Event{Payload: map[string]any{"user_id": int64(5)}}, 5, true},
		{"decoded", decoded, 1234567890123, true},
		{"number", Event{Payload: map[string]any{"user_id": json.Number("9")}}, 9, true},
		{"missing", Event{}, 0, false},
		{"string", Event{Payload: map[string]any{"user_id": "5"}}, 0, false},
	}
	for _, tt := range tests {
		got, ok := tt.e.UserID()
		if got != tt.want || ok != tt.ok {
			t.Errorf("%s: got %d %v", tt.name, got, ok)
		}
	}
}
