package dto

import "time"

type ItemRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Category   string `json:"category"`
	Tags       string `json:"tags"`
	IsPassword bool   `json:"is_password"`
	ItemType   string `json:"item_type"`
	URL        string `json:"url"`
	ImageURL   string `json:"image_url"`
}

type ItemUpdateRequest struct {
	Title      *string `json:"title"`
	Content    *string `json:"content"`
	Category   *string `json:"category"`
	Tags       *string `json:"tags"`
	IsPassword *bool   `json:"is_password"`
	ItemType   *string `json:"item_type"`
	URL        *string `json:"url"`
	ImageURL   *string `json:"image_url"`
}

type ItemResponse struct {
	ID         int64      `json:"id"`
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
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type ItemBatchRequest struct {
	Items []ItemRequest `json:"items"`
}

type ItemBatchResponse struct {
	Success bool           `json:"success"`
	Created []ItemResponse `json:"created"`
	Count   int            `json:"count"`
}

type ItemImportRequest struct {
	Items []ItemRequest `json:"items"`
}

type ItemExportResponse struct {
	Success bool           `json:"success"`
	Items   []ItemResponse `json:"items"`
	Count   int            `json:"count"`
}

type CopyResponse struct {
	Success bool   `json:"success"`
	Content string `json:"content"`
}

type TagsResponse struct {
	Success bool     `json:"success"`
	Tags    []string `json:"tags"`
}

type StatsResponse struct {
	Success     bool           `json:"success"`
	TotalItems  int            `json:"total_items"`
	ByType      map[string]int `json:"by_type"`
	TopItems    []ItemResponse `json:"top_items"`
	RecentItems []ItemResponse `json:"recent_items"`
}
