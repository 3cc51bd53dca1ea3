package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/zoecc/passbox-api/internal/database"
	"github.com/zoecc/passbox-api/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateUser creates a test user with default values
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	user := &models.User{
		Username: fmt.Sprintf("user%d", f.counter),
		Email:    fmt.Sprintf("user%d@example.com", f.counter),
	}
	password := "test-password"

	for _, opt := range opts {
		opt(user, &password)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	ctx := context.Background()
	err = f.db.Pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, username, email, password_hash, created_at
	`, user.Username, user.Email, string(hash)).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

// UserOption configures a test user
type UserOption func(*models.User, *string)

// WithUsername sets the user's username
func WithUsername(username string) UserOption {
	return func(u *models.User, _ *string) {
		u.Username = username
	}
}

// WithPassword sets the user's login password
func WithPassword(password string) UserOption {
	return func(_ *models.User, p *string) {
		*p = password
	}
}

// CreatePasswordEntry creates a test password entry for a user
func (f *Fixtures) CreatePasswordEntry(t *testing.T, user *models.User, opts ...PasswordEntryOption) *models.PasswordEntry {
	t.Helper()
	f.counter++

	entry := &models.PasswordEntry{
		SiteName: fmt.Sprintf("Site %d", f.counter),
		SiteURL:  fmt.Sprintf("https://site%d.example.com", f.counter),
		Username: user.Username,
		Password: "hunter2",
		Strength: "medium",
		UserID:   user.ID,
	}

	for _, opt := range opts {
		opt(entry)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO password_entries (site_name, site_url, username, password, notes, strength, category, image_filename, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, entry.SiteName, entry.SiteURL, entry.Username, entry.Password, entry.Notes,
		entry.Strength, entry.Category, entry.ImageFilename, entry.UserID).Scan(
		&entry.ID, &entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create password entry: %v", err)
	}

	return entry
}

// PasswordEntryOption configures a test password entry
type PasswordEntryOption func(*models.PasswordEntry)

// WithSiteName sets the entry's site name
func WithSiteName(name string) PasswordEntryOption {
	return func(e *models.PasswordEntry) {
		e.SiteName = name
	}
}

// WithEntryCategory sets the entry's category
func WithEntryCategory(category string) PasswordEntryOption {
	return func(e *models.PasswordEntry) {
		e.Category = category
	}
}

// CreateItem creates a test item for a user. Content is stored exactly
// as given, so pass ciphertext when the test needs an encrypted row.
func (f *Fixtures) CreateItem(t *testing.T, user *models.User, kind models.ItemKind, opts ...ItemOption) *models.Item {
	t.Helper()
	f.counter++

	item := &models.Item{
		Kind:    kind,
		Title:   fmt.Sprintf("Item %d", f.counter),
		Content: fmt.Sprintf("content %d", f.counter),
		UserID:  user.ID,
	}

	for _, opt := range opts {
		opt(item)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO items (kind, title, content, category, tags, is_password, item_type, url, image_url, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, use_count, created_at, updated_at
	`, item.Kind, item.Title, item.Content, item.Category, item.Tags, item.IsPassword,
		item.ItemType, item.URL, item.ImageURL, item.UserID).Scan(
		&item.ID, &item.UseCount, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create item: %v", err)
	}

	return item
}

// ItemOption configures a test item
type ItemOption func(*models.Item)

// WithTitle sets the item's title
func WithTitle(title string) ItemOption {
	return func(i *models.Item) {
		i.Title = title
	}
}

// WithContent sets the item's stored content
func WithContent(content string) ItemOption {
	return func(i *models.Item) {
		i.Content = content
	}
}

// WithTags sets the item's tags
func WithTags(tags string) ItemOption {
	return func(i *models.Item) {
		i.Tags = tags
	}
}

// CountUsageLogs returns the number of usage log rows for an item
func (f *Fixtures) CountUsageLogs(t *testing.T, itemID int64) int {
	t.Helper()

	var count int
	err := f.db.Pool.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM usage_logs WHERE item_id = $1", itemID,
	).Scan(&count)
	if err != nil {
		t.Fatalf("failed to count usage logs: %v", err)
	}
	return count
}
