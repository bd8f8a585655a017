package models

import "time"

// AuditLog is one recorded lifecycle event, written by the worker.
type AuditLog struct {
	ID        int64          `json:"id"`
	UserID    *int64         `json:"user_id,omitempty"` // nil для системных событий
	Action    string         `json:"action"`
	Meta      map[string]any `json:"meta,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
