package models

import "time"

type PasswordEntry struct {
	ID            int64     `json:"id"`
	SiteName      string    `json:"site_name"`
	SiteURL       string    `json:"site_url"`
	Username      string    `json:"username"`
	Password      string    `json:"password"`
	Notes         string    `json:"notes"`
	Strength      string    `json:"strength"`
	Category      string    `json:"category"`
	ImageFilename string    `json:"image_filename"`
	UserID        int64     `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
