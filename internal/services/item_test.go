package services

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoecc/passbox-api/internal/crypto"
	"github.com/zoecc/passbox-api/internal/database"
	"github.com/zoecc/passbox-api/internal/models"
)

func setupItemService(t *testing.T) (*ItemService, pgxmock.PgxPoolIface, *stubBlobStore) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	cipher, err := crypto.NewCipher("test-encryption-key")
	require.NoError(t, err)

	blobs := &stubBlobStore{}
	db := &database.DB{Pool: mock}
	return NewItemService(db, cipher, blobs), mock, blobs
}

func itemCols() []string {
	return []string{
		"id", "kind", "title", "content", "category", "tags", "is_password",
		"item_type", "url", "image_url", "use_count", "last_used", "user_id",
		"created_at", "updated_at",
	}
}

func itemRow(id int64, content string, now time.Time) *pgxmock.Rows {
	return pgxmock.NewRows(itemCols()).
		AddRow(id, "clipboard", "Snippet", content, "notes", "go,sql", false,
			"", "", "", 0, nil, int64(1), now, now)
}

func TestItemService_Create_EncryptsContent(t *testing.T) {
	svc, mock, _ := setupItemService(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO items`).
		WithArgs(models.KindClipboard, "Snippet", pgxmock.AnyArg(), "notes", "go,sql",
			false, "", "", "", int64(1)).
		WillReturnRows(itemRow(10, "ciphertext", now))

	item, err := svc.Create(context.Background(), 1, models.KindClipboard, &models.Item{
		Title:    "Snippet",
		Content:  "SELECT 1;",
		Category: "notes",
		Tags:     "go,sql",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(10), item.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemService_GetByID_LogsView(t *testing.T) {
	svc, mock, _ := setupItemService(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM items`).
		WithArgs(int64(10), int64(1), models.KindClipboard).
		WillReturnRows(itemRow(10, "ciphertext", now))

	mock.ExpectExec(`INSERT INTO usage_logs`).
		WithArgs(int64(1), int64(10), models.ActionView).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	item, err := svc.GetByID(context.Background(), 1, models.KindClipboard, 10)

	require.NoError(t, err)
	assert.Equal(t, int64(10), item.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemService_GetByID_NotFound(t *testing.T) {
	svc, mock, _ := setupItemService(t)

	mock.ExpectQuery(`SELECT .+ FROM items`).
		WithArgs(int64(99), int64(1), models.KindFavorite).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.GetByID(context.Background(), 1, models.KindFavorite, 99)

	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemService_List_WithFilters(t *testing.T) {
	svc, mock, _ := setupItemService(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM items`).
		WithArgs(int64(1), models.KindClipboard, "%sql%", "%go%", false).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(`SELECT .+ FROM items WHERE user_id`).
		WithArgs(int64(1), models.KindClipboard, "%sql%", "%go%", false, 20, 0).
		WillReturnRows(itemRow(10, "ciphertext", now))

	isPassword := false
	items, total, err := svc.List(context.Background(), 1, models.KindClipboard, ItemListOptions{
		Search:     "sql",
		Tag:        "go",
		IsPassword: &isPassword,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Snippet", items[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemService_Copy_BumpsUseAndDecrypts(t *testing.T) {
	svc, mock, _ := setupItemService(t)
	now := time.Now()

	encrypted, err := svc.cipher.Encrypt("SELECT 1;")
	require.NoError(t, err)

	mock.ExpectBegin()
	// A copy is a mutating write, so updated_at must advance with it.
	mock.ExpectQuery(`UPDATE items\s+SET use_count = use_count \+ 1, last_used = NOW\(\), updated_at = NOW\(\)`).
		WithArgs(int64(10), int64(1), models.KindClipboard).
		WillReturnRows(itemRow(10, encrypted, now))
	mock.ExpectExec(`INSERT INTO usage_logs`).
		WithArgs(int64(1), int64(10), models.ActionCopy).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	item, err := svc.Copy(context.Background(), 1, models.KindClipboard, 10)

	require.NoError(t, err)
	assert.Equal(t, "SELECT 1;", svc.Reveal(item))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemService_Copy_NotFound(t *testing.T) {
	svc, mock, _ := setupItemService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE items`).
		WithArgs(int64(99), int64(1), models.KindClipboard).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := svc.Copy(context.Background(), 1, models.KindClipboard, 99)

	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemService_Delete_CascadesUsageLogs(t *testing.T) {
	svc, mock, blobs := setupItemService(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM usage_logs`).
		WithArgs(int64(10), int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectQuery(`DELETE FROM items`).
		WithArgs(int64(10), int64(1), models.KindFavorite).
		WillReturnRows(pgxmock.NewRows([]string{"image_url"}).AddRow("/api/uploads/cover.png"))
	mock.ExpectCommit()

	err := svc.Delete(context.Background(), 1, models.KindFavorite, 10)

	require.NoError(t, err)
	assert.Equal(t, []string{"cover.png"}, blobs.deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemService_Delete_ExternalImageLeftAlone(t *testing.T) {
	svc, mock, blobs := setupItemService(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM usage_logs`).
		WithArgs(int64(10), int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectQuery(`DELETE FROM items`).
		WithArgs(int64(10), int64(1), models.KindFavorite).
		WillReturnRows(pgxmock.NewRows([]string{"image_url"}).AddRow("https://example.com/cover.png"))
	mock.ExpectCommit()

	err := svc.Delete(context.Background(), 1, models.KindFavorite, 10)

	require.NoError(t, err)
	assert.Empty(t, blobs.deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemService_Delete_NotFound(t *testing.T) {
	svc, mock, _ := setupItemService(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM usage_logs`).
		WithArgs(int64(99), int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectQuery(`DELETE FROM items`).
		WithArgs(int64(99), int64(1), models.KindClipboard).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	err := svc.Delete(context.Background(), 1, models.KindClipboard, 99)

	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemService_Tags_DedupedAndSorted(t *testing.T) {
	svc, mock, _ := setupItemService(t)

	rows := pgxmock.NewRows([]string{"tags"}).
		AddRow("go, sql").
		AddRow("sql,postgres").
		AddRow(" go ")
	mock.ExpectQuery(`SELECT tags FROM items`).
		WithArgs(int64(1), models.KindClipboard).
		WillReturnRows(rows)

	tags, err := svc.Tags(context.Background(), 1, models.KindClipboard)

	require.NoError(t, err)
	assert.Equal(t, []string{"go", "postgres", "sql"}, tags)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemService_Stats_Clipboard(t *testing.T) {
	svc, mock, _ := setupItemService(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs(int64(1), models.KindClipboard).
		WillReturnRows(pgxmock.NewRows([]string{"count", "passwords", "texts"}).AddRow(5, 2, 3))

	mock.ExpectQuery(`SELECT .+ FROM items .+ ORDER BY use_count DESC`).
		WithArgs(int64(1), models.KindClipboard, 5).
		WillReturnRows(itemRow(10, "ciphertext", now))

	mock.ExpectQuery(`SELECT .+ FROM items .+ ORDER BY created_at DESC`).
		WithArgs(int64(1), models.KindClipboard, 5).
		WillReturnRows(itemRow(11, "ciphertext", now))

	stats, err := svc.Stats(context.Background(), 1, models.KindClipboard)

	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalItems)
	assert.Equal(t, map[string]int{"password": 2, "text": 3}, stats.ByType)
	assert.Len(t, stats.TopItems, 1)
	assert.Len(t, stats.RecentItems, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemService_Stats_Favorites(t *testing.T) {
	svc, mock, _ := setupItemService(t)
	now := time.Now()

	rows := pgxmock.NewRows([]string{"item_type", "count"}).
		AddRow("link", 3).
		AddRow("image", 1)
	mock.ExpectQuery(`SELECT item_type, COUNT\(\*\) FROM items`).
		WithArgs(int64(1), models.KindFavorite).
		WillReturnRows(rows)

	mock.ExpectQuery(`SELECT .+ FROM items .+ ORDER BY use_count DESC`).
		WithArgs(int64(1), models.KindFavorite, 5).
		WillReturnRows(pgxmock.NewRows(itemCols()))

	mock.ExpectQuery(`SELECT .+ FROM items .+ ORDER BY created_at DESC`).
		WithArgs(int64(1), models.KindFavorite, 5).
		WillReturnRows(itemRow(12, "ciphertext", now))

	stats, err := svc.Stats(context.Background(), 1, models.KindFavorite)

	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalItems)
	assert.Equal(t, map[string]int{"link": 3, "image": 1}, stats.ByType)
	assert.Empty(t, stats.TopItems)
	assert.Len(t, stats.RecentItems, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemService_Reveal_LegacyPlaintextFallback(t *testing.T) {
	svc, _, _ := setupItemService(t)

	item := &models.Item{Content: "never encrypted"}
	assert.Equal(t, "never encrypted", svc.Reveal(item))

	encrypted, err := svc.cipher.Encrypt("secret note")
	require.NoError(t, err)
	item = &models.Item{Content: encrypted}
	assert.Equal(t, "secret note", svc.Reveal(item))
}
