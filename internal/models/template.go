package models

import (
	"encoding/json"
	"time"
)

// Template is the persisted document entity. Content holds the sanitized,
// serialized form of the submitted content: the exact bytes that live in
// the store, never the raw client structure.
type Template struct {
	ID        string          `json:"id"`
	Content   json.RawMessage `json:"content"`
	CreatedAt time.Time       `json:"created_at"`
}
