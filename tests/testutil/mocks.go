package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/zoecc/passbox-api/internal/models"
	"github.com/zoecc/passbox-api/internal/services"
)

// MockAuthService mocks the AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	args := m.Called(ctx, username, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*models.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockPasswordService mocks the PasswordService
type MockPasswordService struct {
	mock.Mock
}

func (m *MockPasswordService) List(ctx context.Context, userID int64, opts services.PasswordListOptions) ([]models.PasswordEntry, int, error) {
	args := m.Called(ctx, userID, opts)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.PasswordEntry), args.Int(1), args.Error(2)
}

func (m *MockPasswordService) GetByID(ctx context.Context, userID, id int64) (*models.PasswordEntry, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PasswordEntry), args.Error(1)
}

func (m *MockPasswordService) Create(ctx context.Context, userID int64, e *models.PasswordEntry) (*models.PasswordEntry, error) {
	args := m.Called(ctx, userID, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PasswordEntry), args.Error(1)
}

func (m *MockPasswordService) Update(ctx context.Context, userID, id int64, upd services.PasswordUpdate) (*models.PasswordEntry, error) {
	args := m.Called(ctx, userID, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PasswordEntry), args.Error(1)
}

func (m *MockPasswordService) Delete(ctx context.Context, userID, id int64) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockPasswordService) BatchDelete(ctx context.Context, userID int64, ids []int64) (int64, error) {
	args := m.Called(ctx, userID, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPasswordService) Export(ctx context.Context, userID int64) ([]models.PasswordEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PasswordEntry), args.Error(1)
}

func (m *MockPasswordService) Import(ctx context.Context, userID int64, entries []models.PasswordEntry) (*services.ImportResult, error) {
	args := m.Called(ctx, userID, entries)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ImportResult), args.Error(1)
}

func (m *MockPasswordService) Categories(ctx context.Context, userID int64) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockItemService mocks the ItemService
type MockItemService struct {
	mock.Mock
}

func (m *MockItemService) List(ctx context.Context, userID int64, kind models.ItemKind, opts services.ItemListOptions) ([]models.Item, int, error) {
	args := m.Called(ctx, userID, kind, opts)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Item), args.Int(1), args.Error(2)
}

func (m *MockItemService) GetByID(ctx context.Context, userID int64, kind models.ItemKind, id int64) (*models.Item, error) {
	args := m.Called(ctx, userID, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemService) Create(ctx context.Context, userID int64, kind models.ItemKind, item *models.Item) (*models.Item, error) {
	args := m.Called(ctx, userID, kind, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemService) Update(ctx context.Context, userID int64, kind models.ItemKind, id int64, upd services.ItemUpdate) (*models.Item, error) {
	args := m.Called(ctx, userID, kind, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemService) Delete(ctx context.Context, userID int64, kind models.ItemKind, id int64) error {
	args := m.Called(ctx, userID, kind, id)
	return args.Error(0)
}

func (m *MockItemService) Copy(ctx context.Context, userID int64, kind models.ItemKind, id int64) (*models.Item, error) {
	args := m.Called(ctx, userID, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemService) BatchCreate(ctx context.Context, userID int64, kind models.ItemKind, items []models.Item) ([]models.Item, error) {
	args := m.Called(ctx, userID, kind, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Item), args.Error(1)
}

func (m *MockItemService) Import(ctx context.Context, userID int64, kind models.ItemKind, items []models.Item) (*services.ImportResult, error) {
	args := m.Called(ctx, userID, kind, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ImportResult), args.Error(1)
}

func (m *MockItemService) Export(ctx context.Context, userID int64, kind models.ItemKind) ([]models.Item, error) {
	args := m.Called(ctx, userID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Item), args.Error(1)
}

func (m *MockItemService) Categories(ctx context.Context, userID int64, kind models.ItemKind) ([]string, error) {
	args := m.Called(ctx, userID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockItemService) Tags(ctx context.Context, userID int64, kind models.ItemKind) ([]string, error) {
	args := m.Called(ctx, userID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockItemService) Stats(ctx context.Context, userID int64, kind models.ItemKind) (*services.ItemStats, error) {
	args := m.Called(ctx, userID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ItemStats), args.Error(1)
}

func (m *MockItemService) Reveal(item *models.Item) string {
	args := m.Called(item)
	return args.String(0)
}
