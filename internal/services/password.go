package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/zoecc/passbox-api/internal/database"
	"github.com/zoecc/passbox-api/internal/models"
	"github.com/zoecc/passbox-api/internal/storage"
)

var ErrEntryNotFound = errors.New("password entry not found")

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

const passwordEntryColumns = `id, site_name, site_url, username, password, notes, strength, category, image_filename, user_id, created_at, updated_at`

type PasswordService struct {
	db    *database.DB
	blobs storage.BlobStore
}

func NewPasswordService(db *database.DB, blobs storage.BlobStore) *PasswordService {
	return &PasswordService{db: db, blobs: blobs}
}

// PasswordListOptions filters an owner-scoped listing.
type PasswordListOptions struct {
	Search   string
	Category string
	Page     int
	PerPage  int
}

// PasswordUpdate carries a partial update; nil fields are left untouched.
type PasswordUpdate struct {
	SiteName      *string
	SiteURL       *string
	Username      *string
	Password      *string
	Notes         *string
	Strength      *string
	Category      *string
	ImageFilename *string
}

func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

func (s *PasswordService) List(ctx context.Context, userID int64, opts PasswordListOptions) ([]models.PasswordEntry, int, error) {
	page, perPage := normalizePage(opts.Page, opts.PerPage)

	where := []string{"user_id = $1"}
	args := []any{userID}

	if opts.Search != "" {
		args = append(args, "%"+opts.Search+"%")
		p := fmt.Sprintf("$%d", len(args))
		where = append(where, fmt.Sprintf("(site_name ILIKE %s OR username ILIKE %s OR notes ILIKE %s)", p, p, p))
	}
	if opts.Category != "" {
		args = append(args, opts.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	err := s.db.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM password_entries WHERE "+cond, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count entries: %w", err)
	}

	args = append(args, perPage, (page-1)*perPage)
	query := fmt.Sprintf(
		"SELECT %s FROM password_entries WHERE %s ORDER BY updated_at DESC, id ASC LIMIT $%d OFFSET $%d",
		passwordEntryColumns, cond, len(args)-1, len(args),
	)

	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	entries, err := scanPasswordEntries(rows)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (s *PasswordService) GetByID(ctx context.Context, userID, id int64) (*models.PasswordEntry, error) {
	var e models.PasswordEntry
	err := s.db.Pool.QueryRow(ctx, `
		SELECT `+passwordEntryColumns+`
		FROM password_entries
		WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(
		&e.ID, &e.SiteName, &e.SiteURL, &e.Username, &e.Password, &e.Notes,
		&e.Strength, &e.Category, &e.ImageFilename, &e.UserID, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (s *PasswordService) Create(ctx context.Context, userID int64, e *models.PasswordEntry) (*models.PasswordEntry, error) {
	var created models.PasswordEntry
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO password_entries (site_name, site_url, username, password, notes, strength, category, image_filename, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+passwordEntryColumns+`
	`, e.SiteName, e.SiteURL, e.Username, e.Password, e.Notes, e.Strength, e.Category, e.ImageFilename, userID).Scan(
		&created.ID, &created.SiteName, &created.SiteURL, &created.Username, &created.Password,
		&created.Notes, &created.Strength, &created.Category, &created.ImageFilename,
		&created.UserID, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}
	return &created, nil
}

func (s *PasswordService) Update(ctx context.Context, userID, id int64, upd PasswordUpdate) (*models.PasswordEntry, error) {
	current, err := s.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	oldImage := current.ImageFilename
	applyString(&current.SiteName, upd.SiteName)
	applyString(&current.SiteURL, upd.SiteURL)
	applyString(&current.Username, upd.Username)
	applyString(&current.Password, upd.Password)
	applyString(&current.Notes, upd.Notes)
	applyString(&current.Strength, upd.Strength)
	applyString(&current.Category, upd.Category)
	applyString(&current.ImageFilename, upd.ImageFilename)

	var updated models.PasswordEntry
	err = s.db.Pool.QueryRow(ctx, `
		UPDATE password_entries
		SET site_name = $1, site_url = $2, username = $3, password = $4, notes = $5,
		    strength = $6, category = $7, image_filename = $8, updated_at = NOW()
		WHERE id = $9 AND user_id = $10
		RETURNING `+passwordEntryColumns+`
	`, current.SiteName, current.SiteURL, current.Username, current.Password, current.Notes,
		current.Strength, current.Category, current.ImageFilename, id, userID).Scan(
		&updated.ID, &updated.SiteName, &updated.SiteURL, &updated.Username, &updated.Password,
		&updated.Notes, &updated.Strength, &updated.Category, &updated.ImageFilename,
		&updated.UserID, &updated.CreatedAt, &updated.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}

	// Best-effort cleanup of the blob the entry no longer references.
	if oldImage != "" && oldImage != updated.ImageFilename {
		s.blobs.DeleteIfExists(ctx, oldImage)
	}

	return &updated, nil
}

func (s *PasswordService) Delete(ctx context.Context, userID, id int64) error {
	var imageFilename string
	err := s.db.Pool.QueryRow(ctx, `
		DELETE FROM password_entries
		WHERE id = $1 AND user_id = $2
		RETURNING image_filename
	`, id, userID).Scan(&imageFilename)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrEntryNotFound
		}
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	if imageFilename != "" {
		s.blobs.DeleteIfExists(ctx, imageFilename)
	}
	return nil
}

// BatchDelete removes the caller's entries among the given ids and
// reports how many rows actually went away.
func (s *PasswordService) BatchDelete(ctx context.Context, userID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	rows, err := s.db.Pool.Query(ctx, `
		DELETE FROM password_entries
		WHERE user_id = $1 AND id = ANY($2)
		RETURNING image_filename
	`, userID, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to batch delete: %w", err)
	}
	defer rows.Close()

	var deleted int64
	var images []string
	for rows.Next() {
		var img string
		if err := rows.Scan(&img); err != nil {
			return deleted, err
		}
		deleted++
		if img != "" {
			images = append(images, img)
		}
	}
	if err := rows.Err(); err != nil {
		return deleted, err
	}

	for _, img := range images {
		s.blobs.DeleteIfExists(ctx, img)
	}
	return deleted, nil
}

// Export returns every entry the caller owns, unmasked. This is the one
// deliberate full-plaintext path out of the store.
func (s *PasswordService) Export(ctx context.Context, userID int64) ([]models.PasswordEntry, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+passwordEntryColumns+`
		FROM password_entries
		WHERE user_id = $1
		ORDER BY updated_at DESC, id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to export entries: %w", err)
	}
	defer rows.Close()

	return scanPasswordEntries(rows)
}

// ImportResult reports a non-transactional import: rows are imported,
// skipped as duplicates, or recorded as errors without aborting the rest.
type ImportResult struct {
	Imported int
	Skipped  int
	Errors   []string
}

// Import inserts entries that do not already exist for this user, where
// identity is the (site_name, username) pair.
func (s *PasswordService) Import(ctx context.Context, userID int64, entries []models.PasswordEntry) (*ImportResult, error) {
	result := &ImportResult{}

	for i, e := range entries {
		if e.SiteName == "" || e.Username == "" || e.Password == "" {
			result.Errors = append(result.Errors,
				fmt.Sprintf("row %d: site_name, username and password are required", i+1))
			continue
		}

		var exists bool
		err := s.db.Pool.QueryRow(ctx, `
			SELECT EXISTS(
				SELECT 1 FROM password_entries
				WHERE user_id = $1 AND site_name = $2 AND username = $3
			)
		`, userID, e.SiteName, e.Username).Scan(&exists)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		if exists {
			result.Skipped++
			continue
		}

		if _, err := s.Create(ctx, userID, &e); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		result.Imported++
	}

	return result, nil
}

func (s *PasswordService) Categories(ctx context.Context, userID int64) ([]string, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT DISTINCT category FROM password_entries
		WHERE user_id = $1 AND category <> ''
		ORDER BY category
	`, userID)
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

func scanPasswordEntries(rows pgx.Rows) ([]models.PasswordEntry, error) {
	var entries []models.PasswordEntry
	for rows.Next() {
		var e models.PasswordEntry
		if err := rows.Scan(
			&e.ID, &e.SiteName, &e.SiteURL, &e.Username, &e.Password, &e.Notes,
			&e.Strength, &e.Category, &e.ImageFilename, &e.UserID, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
