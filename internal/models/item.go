package models

import "time"

// ItemKind separates the two flavors of stored item. Clipboard items are
// free-form snippets; favorites carry a type, a URL and a cover image.
type ItemKind string

const (
	KindClipboard ItemKind = "clipboard"
	KindFavorite  ItemKind = "favorite"
)

type Item struct {
	ID         int64      `json:"id"`
	Kind       ItemKind   `json:"-"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Category   string     `json:"category"`
	Tags       string     `json:"tags"`
	IsPassword bool       `json:"is_password"`
	ItemType   string     `json:"item_type,omitempty"`
	URL        string     `json:"url,omitempty"`
	ImageURL   string     `json:"image_url,omitempty"`
	UseCount   int        `json:"use_count"`
	LastUsed   *time.Time `json:"last_used"`
	UserID     int64      `json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
