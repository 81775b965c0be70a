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
var _ beanatlas.CoffeeService = (*CoffeeService)(nil)

// tasting notes are stored as a newline-joined string; none of the source
// sites use newlines inside a single note.
const noteSeparator = "\n"

// CoffeeService implements beanatlas.CoffeeService using SQLite.
type CoffeeService struct {
	db *DB
}

// NewCoffeeService creates a new CoffeeService.
func NewCoffeeService(db *DB) *CoffeeService {
	return &CoffeeService{db: db}
}

// CreateCoffee creates a new coffee.
func (s *CoffeeService) CreateCoffee(ctx context.Context, coffee *beanatlas.Coffee) error {
	if err := coffee.Validate(); err != nil {
		return err
	}

	coffee.ID = uuid.New().String()
	now := time.Now().UTC()
	coffee.CreatedAt = now
	coffee.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO coffees (
			id, roaster_id, name, origin, region, process, producer, variety,
			altitude, tasting_notes, price, in_stock, description, source_url,
			content_hash, status, status_message, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, coffee.ID, coffee.RoasterID, coffee.Name, coffee.Origin, coffee.Region,
		coffee.Process, coffee.Producer, coffee.Variety, coffee.Altitude,
		strings.Join(coffee.TastingNotes, noteSeparator), coffee.Price,
		boolToInt(coffee.InStock), coffee.Description, coffee.SourceURL,
		coffee.ContentHash, coffee.Status, coffee.StatusMessage,
		coffee.CreatedAt.Format(time.RFC3339), coffee.UpdatedAt.Format(time.RFC3339))

	return err
}

// FindCoffeeByName retrieves a coffee by roaster and product name.
func (s *CoffeeService) FindCoffeeByName(ctx context.Context, roasterID, name string) (*beanatlas.Coffee, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+coffeeColumns+`
		FROM coffees
		WHERE roaster_id = ? AND name = ?
		ORDER BY updated_at DESC
		LIMIT 1
	`, roasterID, name)

	coffee, err := scanCoffee(row.Scan)
	if err == sql.ErrNoRows {
		return nil, beanatlas.Errorf(beanatlas.ENOTFOUND, "coffee not found")
	}
	if err != nil {
		return nil, err
	}
	return coffee, nil
}

// FindCoffees retrieves coffees matching the filter.
func (s *CoffeeService) FindCoffees(ctx context.Context, filter beanatlas.CoffeeFilter) ([]*beanatlas.Coffee, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + coffeeColumns + " FROM coffees WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.RoasterID != nil {
		query.WriteString(" AND roaster_id = ?")
		args = append(args, *filter.RoasterID)
	}
	if filter.Status != nil {
		query.WriteString(" AND status = ?")
		args = append(args, *filter.Status)
	}
	if filter.SourceURL != nil {
		query.WriteString(" AND source_url = ?")
		args = append(args, *filter.SourceURL)
	}

	query.WriteString(" ORDER BY name ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coffees []*beanatlas.Coffee
	for rows.Next() {
		coffee, err := scanCoffee(rows.Scan)
		if err != nil {
			return nil, err
		}
		coffees = append(coffees, coffee)
	}

	return coffees, rows.Err()
}

// UpdateCoffee updates an existing coffee.
func (s *CoffeeService) UpdateCoffee(ctx context.Context, id string, upd beanatlas.CoffeeUpdate) (*beanatlas.Coffee, error) {
	coffee, err := s.findCoffeeByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		coffee.Name = *upd.Name
	}
	if upd.Origin != nil {
		coffee.Origin = *upd.Origin
	}
	if upd.Region != nil {
		coffee.Region = *upd.Region
	}
	if upd.Process != nil {
		coffee.Process = *upd.Process
	}
	if upd.Producer != nil {
		coffee.Producer = *upd.Producer
	}
	if upd.Variety != nil {
		coffee.Variety = *upd.Variety
	}
	if upd.Altitude != nil {
		coffee.Altitude = *upd.Altitude
	}
	if upd.TastingNotes != nil {
		coffee.TastingNotes = *upd.TastingNotes
	}
	if upd.Price != nil {
		coffee.Price = *upd.Price
	}
	if upd.InStock != nil {
		coffee.InStock = *upd.InStock
	}
	if upd.Description != nil {
		coffee.Description = *upd.Description
	}
	if upd.SourceURL != nil {
		coffee.SourceURL = *upd.SourceURL
	}
	if upd.ContentHash != nil {
		coffee.ContentHash = *upd.ContentHash
	}
	if upd.Status != nil {
		coffee.Status = *upd.Status
	}
	if upd.StatusMessage != nil {
		coffee.StatusMessage = *upd.StatusMessage
	}

	if err := coffee.Validate(); err != nil {
		return nil, err
	}

	coffee.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE coffees
		SET name = ?, origin = ?, region = ?, process = ?, producer = ?,
			variety = ?, altitude = ?, tasting_notes = ?, price = ?,
			in_stock = ?, description = ?, source_url = ?, content_hash = ?,
			status = ?, status_message = ?, updated_at = ?
		WHERE id = ?
	`, coffee.Name, coffee.Origin, coffee.Region, coffee.Process, coffee.Producer,
		coffee.Variety, coffee.Altitude, strings.Join(coffee.TastingNotes, noteSeparator),
		coffee.Price, boolToInt(coffee.InStock), coffee.Description, coffee.SourceURL,
		coffee.ContentHash, coffee.Status, coffee.StatusMessage,
		coffee.UpdatedAt.Format(time.RFC3339), id)

	if err != nil {
		return nil, err
	}

	return coffee, nil
}

// DeleteCoffees permanently removes a batch of coffees by ID.
func (s *CoffeeService) DeleteCoffees(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	_, err := s.db.ExecContext(ctx, "DELETE FROM coffees WHERE id IN ("+placeholders+")", args...)
	return err
}

// CountCoffeesByRoaster returns per-roaster coffee counts for reporting.
func (s *CoffeeService) CountCoffeesByRoaster(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT roaster_id, COUNT(*) FROM coffees GROUP BY roaster_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var roasterID string
		var count int
		if err := rows.Scan(&roasterID, &count); err != nil {
			return nil, err
		}
		counts[roasterID] = count
	}

	return counts, rows.Err()
}

func (s *CoffeeService) findCoffeeByID(ctx context.Context, id string) (*beanatlas.Coffee, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+coffeeColumns+` FROM coffees WHERE id = ?
	`, id)

	coffee, err := scanCoffee(row.Scan)
	if err == sql.ErrNoRows {
		return nil, beanatlas.Errorf(beanatlas.ENOTFOUND, "coffee not found")
	}
	if err != nil {
		return nil, err
	}
	return coffee, nil
}

const coffeeColumns = `id, roaster_id, name, origin, region, process, producer,
	variety, altitude, tasting_notes, price, in_stock, description, source_url,
	content_hash, status, status_message, created_at, updated_at`

// scanCoffee reads one coffee row via the provided scan function.
func scanCoffee(scan func(dest ...any) error) (*beanatlas.Coffee, error) {
	var coffee beanatlas.Coffee
	var notes string
	var inStock int
	var createdAt, updatedAt string

	if err := scan(&coffee.ID, &coffee.RoasterID, &coffee.Name, &coffee.Origin,
		&coffee.Region, &coffee.Process, &coffee.Producer, &coffee.Variety,
		&coffee.Altitude, &notes, &coffee.Price, &inStock, &coffee.Description,
		&coffee.SourceURL, &coffee.ContentHash, &coffee.Status,
		&coffee.StatusMessage, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	coffee.InStock = inStock != 0
	if notes != "" {
		coffee.TastingNotes = strings.Split(notes, noteSeparator)
	}

	var err error
	if coffee.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if coffee.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}

	return &coffee, nil
}
