package models

import "time"

// Usage log actions.
const (
	ActionView = "view"
	ActionEdit = "edit"
	ActionCopy = "copy"
)

// UsageLog is an append-only audit row. item_id is a weak reference: logs
// are cascade-deleted with their item, never left dangling.
type UsageLog struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ItemID    int64     `json:"item_id"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"timestamp"`
}
