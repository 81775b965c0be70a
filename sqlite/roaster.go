package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/beanatlas/beanatlas"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ beanatlas.RoasterService = (*RoasterService)(nil)

// RoasterService implements beanatlas.RoasterService using SQLite.
type RoasterService struct {
	db *DB
}

// NewRoasterService creates a new RoasterService.
func NewRoasterService(db *DB) *RoasterService {
	return &RoasterService{db: db}
}

// CreateRoaster creates a new roaster.
func (s *RoasterService) CreateRoaster(ctx context.Context, roaster *beanatlas.Roaster) error {
	if err := roaster.Validate(); err != nil {
		return err
	}

	roaster.ID = uuid.New().String()
	now := time.Now().UTC()
	roaster.CreatedAt = now
	roaster.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO roasters (id, name, website_url, sitemap_url, approved, last_crawled_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, '', ?, ?)
	`, roaster.ID, roaster.Name, roaster.WebsiteURL, roaster.SitemapURL, boolToInt(roaster.Approved),
		roaster.CreatedAt.Format(time.RFC3339), roaster.UpdatedAt.Format(time.RFC3339))

	return err
}

// FindRoasterByID retrieves a roaster by ID.
func (s *RoasterService) FindRoasterByID(ctx context.Context, id string) (*beanatlas.Roaster, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, website_url, sitemap_url, approved, last_crawled_at, created_at, updated_at
		FROM roasters
		WHERE id = ?
	`, id)

	roaster, err := scanRoaster(row.Scan)
	if err == sql.ErrNoRows {
		return nil, beanatlas.Errorf(beanatlas.ENOTFOUND, "roaster not found")
	}
	if err != nil {
		return nil, err
	}
	return roaster, nil
}

// FindRoasters retrieves roasters matching the filter.
func (s *RoasterService) FindRoasters(ctx context.Context, filter beanatlas.RoasterFilter) ([]*beanatlas.Roaster, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, name, website_url, sitemap_url, approved, last_crawled_at, created_at, updated_at FROM roasters WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Name != nil {
		query.WriteString(" AND name = ?")
		args = append(args, *filter.Name)
	}
	if filter.Approved != nil {
		query.WriteString(" AND approved = ?")
		args = append(args, boolToInt(*filter.Approved))
	}

	query.WriteString(" ORDER BY created_at DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roasters []*beanatlas.Roaster
	for rows.Next() {
		roaster, err := scanRoaster(rows.Scan)
		if err != nil {
			return nil, err
		}
		roasters = append(roasters, roaster)
	}

	return roasters, rows.Err()
}

// UpdateRoaster updates an existing roaster.
func (s *RoasterService) UpdateRoaster(ctx context.Context, id string, upd beanatlas.RoasterUpdate) (*beanatlas.Roaster, error) {
	roaster, err := s.FindRoasterByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		roaster.Name = *upd.Name
	}
	if upd.WebsiteURL != nil {
		roaster.WebsiteURL = *upd.WebsiteURL
	}
	if upd.SitemapURL != nil {
		roaster.SitemapURL = *upd.SitemapURL
	}
	if upd.Approved != nil {
		roaster.Approved = *upd.Approved
	}

	if err := roaster.Validate(); err != nil {
		return nil, err
	}

	roaster.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE roasters
		SET name = ?, website_url = ?, sitemap_url = ?, approved = ?, updated_at = ?
		WHERE id = ?
	`, roaster.Name, roaster.WebsiteURL, roaster.SitemapURL, boolToInt(roaster.Approved),
		roaster.UpdatedAt.Format(time.RFC3339), id)

	if err != nil {
		return nil, err
	}

	return roaster, nil
}

// MarkCrawled records a crawl attempt timestamp for the roaster.
func (s *RoasterService) MarkCrawled(ctx context.Context, id string, at time.Time) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE roasters SET last_crawled_at = ?, updated_at = ? WHERE id = ?
	`, at.UTC().Format(time.RFC3339), time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return beanatlas.Errorf(beanatlas.ENOTFOUND, "roaster not found")
	}
	return nil
}

// DeleteRoaster permanently removes a roaster.
func (s *RoasterService) DeleteRoaster(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM roasters WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return beanatlas.Errorf(beanatlas.ENOTFOUND, "roaster not found")
	}
	return nil
}

// scanRoaster reads one roaster row via the provided scan function.
func scanRoaster(scan func(dest ...any) error) (*beanatlas.Roaster, error) {
	var roaster beanatlas.Roaster
	var approved int
	var lastCrawledAt, createdAt, updatedAt string

	if err := scan(&roaster.ID, &roaster.Name, &roaster.WebsiteURL, &roaster.SitemapURL,
		&approved, &lastCrawledAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	roaster.Approved = approved != 0

	var err error
	if roaster.LastCrawledAt, err = parseOptionalRFC3339(lastCrawledAt, "last_crawled_at"); err != nil {
		return nil, err
	}
	if roaster.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if roaster.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}

	return &roaster, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
