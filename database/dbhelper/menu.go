package dbhelper

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ray-remotestate/burgerhouse/database"
	"github.com/ray-remotestate/burgerhouse/models"
)

var ErrMenuItemNotFound = errors.New("menu item not found")

const menuColumns = `id, name, description, price, image_url, category, is_available, options, created_at`

type Catalog struct {
	db *sql.DB
}

func NewCatalog(db *sql.DB) *Catalog {
	return &Catalog{db: db}
}

// ListMenuItems returns the whole catalog sorted by name.
func (c *Catalog) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT `+menuColumns+` FROM menu_items ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	defer rows.Close()

	items := make([]models.MenuItem, 0)
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (c *Catalog) GetMenuItem(ctx context.Context, id uuid.UUID) (models.MenuItem, error) {
	row := c.db.QueryRowContext(ctx, `SELECT `+menuColumns+` FROM menu_items WHERE id = $1`, id)
	item, err := scanMenuItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.MenuItem{}, ErrMenuItemNotFound
	}
	return item, err
}

func (c *Catalog) CreateMenuItem(ctx context.Context, in models.MenuItemInput) (models.MenuItem, error) {
	return createMenuItem(ctx, c.db, in)
}

func (c *Catalog) UpdateMenuItem(ctx context.Context, id uuid.UUID, in models.MenuItemInput) (models.MenuItem, error) {
	options, err := encodeOptions(in.Options)
	if err != nil {
		return models.MenuItem{}, err
	}
	row := c.db.QueryRowContext(ctx, `
		UPDATE menu_items SET
			name = $2, description = $3, price = $4, image_url = $5,
			category = $6, is_available = $7, options = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING `+menuColumns,
		id, in.Name, in.Description, in.Price, in.ImageURL, in.Category, in.IsAvailable, options)

	item, err := scanMenuItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.MenuItem{}, ErrMenuItemNotFound
	}
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("failed to update menu item: %w", err)
	}
	return item, nil
}

func (c *Catalog) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMenuItemNotFound
	}
	return nil
}

// SeedMenuIfEmpty inserts items only when the catalog has no rows, and
// reports how many were written.
func (c *Catalog) SeedMenuIfEmpty(ctx context.Context, items []models.MenuItemInput) (int, error) {
	seeded := 0
	err := database.Tx(ctx, c.db, func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM menu_items`).Scan(&count); err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		for _, in := range items {
			if _, err := createMenuItem(ctx, tx, in); err != nil {
				return err
			}
			seeded++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to seed menu: %w", err)
	}
	return seeded, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func createMenuItem(ctx context.Context, q queryRower, in models.MenuItemInput) (models.MenuItem, error) {
	options, err := encodeOptions(in.Options)
	if err != nil {
		return models.MenuItem{}, err
	}
	row := q.QueryRowContext(ctx, `
		INSERT INTO menu_items (name, description, price, image_url, category, is_available, options)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+menuColumns,
		in.Name, in.Description, in.Price, in.ImageURL, in.Category, in.IsAvailable, options)

	item, err := scanMenuItem(row)
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("failed to create menu item: %w", err)
	}
	return item, nil
}

// encodeOptions returns a JSON string for the JSONB column, or NULL.
func encodeOptions(opts *models.MenuOptions) (sql.NullString, error) {
	if opts == nil {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(opts)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode menu options: %w", err)
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMenuItem(s scanner) (models.MenuItem, error) {
	var (
		item    models.MenuItem
		options []byte
	)
	err := s.Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.ImageURL,
		&item.Category, &item.IsAvailable, &options, &item.CreatedAt)
	if err != nil {
		return models.MenuItem{}, err
	}
	if len(options) > 0 {
		item.Options = &models.MenuOptions{}
		if err := json.Unmarshal(options, item.Options); err != nil {
			return models.MenuItem{}, fmt.Errorf("failed to decode options of menu item %s: %w", item.ID, err)
		}
	}
	return item, nil
}
