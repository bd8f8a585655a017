package events

import (
	"context"
	"encoding/json"
)

// StreamDeploy carries the deployment lifecycle of every user.
const StreamDeploy = "events:deploy"

// Event types
const (
	EventDeployStarted   = "deploy_started"
	EventDeploySucceeded = "deploy_succeeded"
	EventDeployFailed    = "deploy_failed"
	EventWalletCreated   = "wallet_created"
)

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

// UserID reads payload["user_id"], which arrives as float64 after a JSON round trip.
func (e Event) UserID() (int64, bool) {
	switch v := e.Payload["user_id"].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	}
	return 0, false
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}

// Nop drops every event; used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, Event) error { return nil }
