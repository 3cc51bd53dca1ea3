package dto

import "time"

type PasswordEntryRequest struct {
	SiteName      string `json:"site_name"`
	SiteURL       string `json:"site_url"`
	Username      string `json:"username"`
	Password      string `json:"password"`
	Notes         string `json:"notes"`
	Strength      string `json:"strength"`
	Category      string `json:"category"`
	ImageFilename string `json:"image_filename"`
}

type PasswordEntryUpdateRequest struct {
	SiteName      *string `json:"site_name"`
	SiteURL       *string `json:"site_url"`
	Username      *string `json:"username"`
	Password      *string `json:"password"`
	Notes         *string `json:"notes"`
	Strength      *string `json:"strength"`
	Category      *string `json:"category"`
	ImageFilename *string `json:"image_filename"`
}

type PasswordEntryResponse struct {
	ID            int64     `json:"id"`
	SiteName      string    `json:"site_name"`
	SiteURL       string    `json:"site_url"`
	Username      string    `json:"username"`
	Password      string    `json:"password"`
	Notes         string    `json:"notes"`
	Strength      string    `json:"strength"`
	Category      string    `json:"category"`
	ImageFilename string    `json:"image_filename"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type BatchDeleteRequest struct {
	IDs []int64 `json:"ids"`
}

type BatchDeleteResponse struct {
	Success bool  `json:"success"`
	Deleted int64 `json:"deleted"`
}

type PasswordImportRequest struct {
	Entries []PasswordEntryRequest `json:"entries"`
}

type PasswordExportResponse struct {
	Success    bool                    `json:"success"`
	Entries    []PasswordEntryResponse `json:"entries"`
	Count      int                     `json:"count"`
	ExportedAt time.Time               `json:"exported_at"`
}

type CategoriesResponse struct {
	Success    bool     `json:"success"`
	Categories []string `json:"categories"`
}
