package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/mudtrix/internal/game/attr"
)

// AttributeRepository persists per-character attributes in the
// character_attributes table. It implements attr.Store.
type AttributeRepository struct {
	db *pgxpool.Pool
}

var _ attr.Store = (*AttributeRepository)(nil)

// NewAttributeRepository creates an AttributeRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewAttributeRepository(db *pgxpool.Pool) *AttributeRepository {
	return &AttributeRepository{db: db}
}

// Get returns the attribute value or an error wrapping attr.ErrNotFound.
func (r *AttributeRepository) Get(ctx context.Context, entity, name string) (string, error) {
	var value string
	err := r.db.QueryRow(ctx,
		`SELECT value FROM character_attributes WHERE entity = $1 AND name = $2`,
		entity, name,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%s.%s: %w", entity, name, attr.ErrNotFound)
		}
		return "", fmt.Errorf("querying attribute %s.%s: %w", entity, name, err)
	}
	return value, nil
}

// Set upserts an attribute.
//
// Postcondition: The row exists with the given value and a fresh updated_at.
func (r *AttributeRepository) Set(ctx context.Context, entity, name, value string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO character_attributes (entity, name, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (entity, name) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		entity, name, value,
	)
	if err != nil {
		return fmt.Errorf("saving attribute %s.%s: %w", entity, name, err)
	}
	return nil
}

// Delete removes an attribute. Missing rows are not an error.
func (r *AttributeRepository) Delete(ctx context.Context, entity, name string) error {
	if _, err := r.db.Exec(ctx,
		`DELETE FROM character_attributes WHERE entity = $1 AND name = $2`,
		entity, name,
	); err != nil {
		return fmt.Errorf("deleting attribute %s.%s: %w", entity, name, err)
	}
	return nil
}

// All returns every attribute of entity.
func (r *AttributeRepository) All(ctx context.Context, entity string) (map[string]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT name, value FROM character_attributes WHERE entity = $1`,
		entity,
	)
	if err != nil {
		return nil, fmt.Errorf("listing attributes of %s: %w", entity, err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("scanning attribute row: %w", err)
		}
		out[name] = value
	}
	return out, rows.Err()
}
