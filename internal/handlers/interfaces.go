package handlers

import (
	"context"
	"time"

	"github.com/zoecc/passbox-api/internal/models"
	"github.com/zoecc/passbox-api/internal/services"
)

// AuthServiceInterface defines the methods used by handlers from AuthService
type AuthServiceInterface interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// JWTServiceInterface defines the methods used by handlers from JWTService
type JWTServiceInterface interface {
	GenerateToken(userID int64) (string, error)
	Expiry() time.Duration
}

// PasswordServiceInterface defines the methods used by handlers from PasswordService
type PasswordServiceInterface interface {
	List(ctx context.Context, userID int64, opts services.PasswordListOptions) ([]models.PasswordEntry, int, error)
	GetByID(ctx context.Context, userID, id int64) (*models.PasswordEntry, error)
	Create(ctx context.Context, userID int64, e *models.PasswordEntry) (*models.PasswordEntry, error)
	Update(ctx context.Context, userID, id int64, upd services.PasswordUpdate) (*models.PasswordEntry, error)
	Delete(ctx context.Context, userID, id int64) error
	BatchDelete(ctx context.Context, userID int64, ids []int64) (int64, error)
	Export(ctx context.Context, userID int64) ([]models.PasswordEntry, error)
	Import(ctx context.Context, userID int64, entries []models.PasswordEntry) (*services.ImportResult, error)
	Categories(ctx context.Context, userID int64) ([]string, error)
}

// ItemServiceInterface defines the methods used by handlers from ItemService
type ItemServiceInterface interface {
	List(ctx context.Context, userID int64, kind models.ItemKind, opts services.ItemListOptions) ([]models.Item, int, error)
	GetByID(ctx context.Context, userID int64, kind models.ItemKind, id int64) (*models.Item, error)
	Create(ctx context.Context, userID int64, kind models.ItemKind, item *models.Item) (*models.Item, error)
	Update(ctx context.Context, userID int64, kind models.ItemKind, id int64, upd services.ItemUpdate) (*models.Item, error)
	Delete(ctx context.Context, userID int64, kind models.ItemKind, id int64) error
	Copy(ctx context.Context, userID int64, kind models.ItemKind, id int64) (*models.Item, error)
	BatchCreate(ctx context.Context, userID int64, kind models.ItemKind, items []models.Item) ([]models.Item, error)
	Import(ctx context.Context, userID int64, kind models.ItemKind, items []models.Item) (*services.ImportResult, error)
	Export(ctx context.Context, userID int64, kind models.ItemKind) ([]models.Item, error)
	Categories(ctx context.Context, userID int64, kind models.ItemKind) ([]string, error)
	Tags(ctx context.Context, userID int64, kind models.ItemKind) ([]string, error)
	Stats(ctx context.Context, userID int64, kind models.ItemKind) (*services.ItemStats, error)
	Reveal(item *models.Item) string
}
