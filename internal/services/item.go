package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/zoecc/passbox-api/internal/crypto"
	"github.com/zoecc/passbox-api/internal/database"
	"github.com/zoecc/passbox-api/internal/models"
	"github.com/zoecc/passbox-api/internal/storage"
)

var ErrItemNotFound = errors.New("item not found")

const itemColumns = `id, kind, title, content, category, tags, is_password, item_type, url, image_url, use_count, last_used, user_id, created_at, updated_at`

// ItemService stores clipboard snippets and favorites. Content is
// encrypted before it reaches the database; reads decrypt transparently
// and fall back to the raw value for rows that predate encryption.
type ItemService struct {
	db     *database.DB
	cipher *crypto.Cipher
	blobs  storage.BlobStore
}

func NewItemService(db *database.DB, cipher *crypto.Cipher, blobs storage.BlobStore) *ItemService {
	return &ItemService{db: db, cipher: cipher, blobs: blobs}
}

type ItemListOptions struct {
	Search     string
	Category   string
	Tag        string
	IsPassword *bool
	ItemType   string
	Page       int
	PerPage    int
}

type ItemUpdate struct {
	Title      *string
	Content    *string
	Category   *string
	Tags       *string
	IsPassword *bool
	ItemType   *string
	URL        *string
	ImageURL   *string
}

// Reveal returns an item's plaintext content. A row that fails
// authentication is assumed to be a legacy unencrypted value and is
// returned verbatim; this is a compatibility escape hatch, not a
// security boundary.
func (s *ItemService) Reveal(item *models.Item) string {
	plain, err := s.cipher.Decrypt(item.Content)
	if err != nil {
		return item.Content
	}
	return plain
}

func (s *ItemService) List(ctx context.Context, userID int64, kind models.ItemKind, opts ItemListOptions) ([]models.Item, int, error) {
	page, perPage := normalizePage(opts.Page, opts.PerPage)

	where := []string{"user_id = $1", "kind = $2"}
	args := []any{userID, kind}

	if opts.Search != "" {
		args = append(args, "%"+opts.Search+"%")
		p := fmt.Sprintf("$%d", len(args))
		// Content is ciphertext at rest, so search covers the plaintext
		// metadata fields only.
		where = append(where, fmt.Sprintf("(title ILIKE %s OR category ILIKE %s OR tags ILIKE %s)", p, p, p))
	}
	if opts.Category != "" {
		args = append(args, opts.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if opts.Tag != "" {
		args = append(args, "%"+opts.Tag+"%")
		where = append(where, fmt.Sprintf("tags ILIKE $%d", len(args)))
	}
	if opts.IsPassword != nil {
		args = append(args, *opts.IsPassword)
		where = append(where, fmt.Sprintf("is_password = $%d", len(args)))
	}
	if opts.ItemType != "" {
		args = append(args, opts.ItemType)
		where = append(where, fmt.Sprintf("item_type = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	err := s.db.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM items WHERE "+cond, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count items: %w", err)
	}

	args = append(args, perPage, (page-1)*perPage)
	query := fmt.Sprintf(
		"SELECT %s FROM items WHERE %s ORDER BY updated_at DESC, id ASC LIMIT $%d OFFSET $%d",
		itemColumns, cond, len(args)-1, len(args),
	)

	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items, err := scanItems(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetByID fetches one owned item and records a view in the usage log.
func (s *ItemService) GetByID(ctx context.Context, userID int64, kind models.ItemKind, id int64) (*models.Item, error) {
	item, err := s.fetch(ctx, userID, kind, id)
	if err != nil {
		return nil, err
	}

	// Audit trail only; a failed insert must not fail the read.
	_, _ = s.db.Pool.Exec(ctx, `
		INSERT INTO usage_logs (user_id, item_id, action) VALUES ($1, $2, $3)
	`, userID, id, models.ActionView)

	return item, nil
}

func (s *ItemService) fetch(ctx context.Context, userID int64, kind models.ItemKind, id int64) (*models.Item, error) {
	var item models.Item
	err := s.db.Pool.QueryRow(ctx, `
		SELECT `+itemColumns+`
		FROM items
		WHERE id = $1 AND user_id = $2 AND kind = $3
	`, id, userID, kind).Scan(
		&item.ID, &item.Kind, &item.Title, &item.Content, &item.Category, &item.Tags,
		&item.IsPassword, &item.ItemType, &item.URL, &item.ImageURL,
		&item.UseCount, &item.LastUsed, &item.UserID, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (s *ItemService) Create(ctx context.Context, userID int64, kind models.ItemKind, item *models.Item) (*models.Item, error) {
	encrypted, err := s.cipher.Encrypt(item.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt content: %w", err)
	}

	var created models.Item
	err = s.db.Pool.QueryRow(ctx, `
		INSERT INTO items (kind, title, content, category, tags, is_password, item_type, url, image_url, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+itemColumns+`
	`, kind, item.Title, encrypted, item.Category, item.Tags, item.IsPassword,
		item.ItemType, item.URL, item.ImageURL, userID).Scan(
		&created.ID, &created.Kind, &created.Title, &created.Content, &created.Category,
		&created.Tags, &created.IsPassword, &created.ItemType, &created.URL, &created.ImageURL,
		&created.UseCount, &created.LastUsed, &created.UserID, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return &created, nil
}

func (s *ItemService) Update(ctx context.Context, userID int64, kind models.ItemKind, id int64, upd ItemUpdate) (*models.Item, error) {
	current, err := s.fetch(ctx, userID, kind, id)
	if err != nil {
		return nil, err
	}

	oldImageURL := current.ImageURL
	applyString(&current.Title, upd.Title)
	applyString(&current.Category, upd.Category)
	applyString(&current.Tags, upd.Tags)
	applyString(&current.ItemType, upd.ItemType)
	applyString(&current.URL, upd.URL)
	applyString(&current.ImageURL, upd.ImageURL)
	if upd.IsPassword != nil {
		current.IsPassword = *upd.IsPassword
	}
	if upd.Content != nil {
		encrypted, err := s.cipher.Encrypt(*upd.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt content: %w", err)
		}
		current.Content = encrypted
	}

	var updated models.Item
	err = s.db.Pool.QueryRow(ctx, `
		UPDATE items
		SET title = $1, content = $2, category = $3, tags = $4, is_password = $5,
		    item_type = $6, url = $7, image_url = $8, updated_at = NOW()
		WHERE id = $9 AND user_id = $10 AND kind = $11
		RETURNING `+itemColumns+`
	`, current.Title, current.Content, current.Category, current.Tags, current.IsPassword,
		current.ItemType, current.URL, current.ImageURL, id, userID, kind).Scan(
		&updated.ID, &updated.Kind, &updated.Title, &updated.Content, &updated.Category,
		&updated.Tags, &updated.IsPassword, &updated.ItemType, &updated.URL, &updated.ImageURL,
		&updated.UseCount, &updated.LastUsed, &updated.UserID, &updated.CreatedAt, &updated.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	if old := storage.LocalUploadName(oldImageURL); old != "" && oldImageURL != updated.ImageURL {
		s.blobs.DeleteIfExists(ctx, old)
	}

	_, _ = s.db.Pool.Exec(ctx, `
		INSERT INTO usage_logs (user_id, item_id, action) VALUES ($1, $2, $3)
	`, userID, id, models.ActionEdit)

	return &updated, nil
}

// Delete removes an item and its usage logs in one transaction. No
// delete action is logged afterwards: a log row pointing at a gone item
// would dangle.
func (s *ItemService) Delete(ctx context.Context, userID int64, kind models.ItemKind, id int64) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		DELETE FROM usage_logs WHERE item_id = $1 AND user_id = $2
	`, id, userID); err != nil {
		return fmt.Errorf("failed to delete usage logs: %w", err)
	}

	var imageURL string
	err = tx.QueryRow(ctx, `
		DELETE FROM items
		WHERE id = $1 AND user_id = $2 AND kind = $3
		RETURNING image_url
	`, id, userID, kind).Scan(&imageURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrItemNotFound
		}
		return fmt.Errorf("failed to delete item: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}

	if name := storage.LocalUploadName(imageURL); name != "" {
		s.blobs.DeleteIfExists(ctx, name)
	}
	return nil
}

// Copy marks an item as used: bumps use_count, stamps last_used, writes
// a copy log, and hands back the plaintext for the clipboard.
func (s *ItemService) Copy(ctx context.Context, userID int64, kind models.ItemKind, id int64) (*models.Item, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var item models.Item
	err = tx.QueryRow(ctx, `
		UPDATE items
		SET use_count = use_count + 1, last_used = NOW(), updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND kind = $3
		RETURNING `+itemColumns+`
	`, id, userID, kind).Scan(
		&item.ID, &item.Kind, &item.Title, &item.Content, &item.Category, &item.Tags,
		&item.IsPassword, &item.ItemType, &item.URL, &item.ImageURL,
		&item.UseCount, &item.LastUsed, &item.UserID, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to record use: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO usage_logs (user_id, item_id, action) VALUES ($1, $2, $3)
	`, userID, id, models.ActionCopy); err != nil {
		return nil, fmt.Errorf("failed to log copy: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit use: %w", err)
	}
	return &item, nil
}

// BatchCreate inserts the valid subset of items. Rows without content are
// skipped; the batch is not transactional and partial success is
// expected.
func (s *ItemService) BatchCreate(ctx context.Context, userID int64, kind models.ItemKind, items []models.Item) ([]models.Item, error) {
	var created []models.Item
	for i := range items {
		if items[i].Content == "" {
			continue
		}
		c, err := s.Create(ctx, userID, kind, &items[i])
		if err != nil {
			continue
		}
		created = append(created, *c)
	}
	return created, nil
}

// Import inserts items the caller does not already have, where identity
// is the title.
func (s *ItemService) Import(ctx context.Context, userID int64, kind models.ItemKind, items []models.Item) (*ImportResult, error) {
	result := &ImportResult{}

	for i, item := range items {
		if item.Content == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: content is required", i+1))
			continue
		}

		var exists bool
		err := s.db.Pool.QueryRow(ctx, `
			SELECT EXISTS(
				SELECT 1 FROM items WHERE user_id = $1 AND kind = $2 AND title = $3
			)
		`, userID, kind, item.Title).Scan(&exists)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		if exists {
			result.Skipped++
			continue
		}

		if _, err := s.Create(ctx, userID, kind, &items[i]); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		result.Imported++
	}

	return result, nil
}

// Export returns every owned item of a kind with content decrypted.
func (s *ItemService) Export(ctx context.Context, userID int64, kind models.ItemKind) ([]models.Item, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+itemColumns+`
		FROM items
		WHERE user_id = $1 AND kind = $2
		ORDER BY updated_at DESC, id ASC
	`, userID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to export items: %w", err)
	}
	defer rows.Close()

	items, err := scanItems(rows)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Content = s.Reveal(&items[i])
	}
	return items, nil
}

func (s *ItemService) Categories(ctx context.Context, userID int64, kind models.ItemKind) ([]string, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT DISTINCT category FROM items
		WHERE user_id = $1 AND kind = $2 AND category <> ''
		ORDER BY category
	`, userID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// Tags splits every comma-joined tag list the caller owns, dedupes and
// sorts the result.
func (s *ItemService) Tags(ctx context.Context, userID int64, kind models.ItemKind) ([]string, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT tags FROM items
		WHERE user_id = $1 AND kind = $2 AND tags <> ''
	`, userID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	seen := make(map[string]struct{})
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		for _, tag := range strings.Split(raw, ",") {
			tag = strings.TrimSpace(tag)
			if tag != "" {
				seen[tag] = struct{}{}
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags, nil
}

// ItemStats is an owner-scoped summary. ByType holds password/text counts
// for clipboard items and item_type counts for favorites.
type ItemStats struct {
	TotalItems  int
	ByType      map[string]int
	TopItems    []models.Item
	RecentItems []models.Item
}

const statsLimit = 5

func (s *ItemService) Stats(ctx context.Context, userID int64, kind models.ItemKind) (*ItemStats, error) {
	stats := &ItemStats{ByType: make(map[string]int)}

	if kind == models.KindClipboard {
		var passwords, texts int
		err := s.db.Pool.QueryRow(ctx, `
			SELECT COUNT(*),
			       COUNT(*) FILTER (WHERE is_password),
			       COUNT(*) FILTER (WHERE NOT is_password)
			FROM items WHERE user_id = $1 AND kind = $2
		`, userID, kind).Scan(&stats.TotalItems, &passwords, &texts)
		if err != nil {
			return nil, fmt.Errorf("failed to compute stats: %w", err)
		}
		stats.ByType["password"] = passwords
		stats.ByType["text"] = texts
	} else {
		rows, err := s.db.Pool.Query(ctx, `
			SELECT item_type, COUNT(*) FROM items
			WHERE user_id = $1 AND kind = $2
			GROUP BY item_type
		`, userID, kind)
		if err != nil {
			return nil, fmt.Errorf("failed to compute stats: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var itemType string
			var n int
			if err := rows.Scan(&itemType, &n); err != nil {
				return nil, err
			}
			stats.ByType[itemType] = n
			stats.TotalItems += n
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}

	top, err := s.queryItems(ctx, `
		SELECT `+itemColumns+` FROM items
		WHERE user_id = $1 AND kind = $2 AND use_count > 0
		ORDER BY use_count DESC, id ASC LIMIT $3
	`, userID, kind, statsLimit)
	if err != nil {
		return nil, err
	}
	stats.TopItems = top

	recent, err := s.queryItems(ctx, `
		SELECT `+itemColumns+` FROM items
		WHERE user_id = $1 AND kind = $2
		ORDER BY created_at DESC, id DESC LIMIT $3
	`, userID, kind, statsLimit)
	if err != nil {
		return nil, err
	}
	stats.RecentItems = recent

	return stats, nil
}

func (s *ItemService) queryItems(ctx context.Context, query string, args ...any) ([]models.Item, error) {
	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

func scanItems(rows pgx.Rows) ([]models.Item, error) {
	var items []models.Item
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(
			&item.ID, &item.Kind, &item.Title, &item.Content, &item.Category, &item.Tags,
			&item.IsPassword, &item.ItemType, &item.URL, &item.ImageURL,
			&item.UseCount, &item.LastUsed, &item.UserID, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
