package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Type represents an elemental type from the `type` table. Color is the
// display color used by clients when rendering the type badge. Pokemons is
// populated only by the type-detail lookup.
type Type struct {
	ID       uint64     `json:"id"`
	Name     string     `json:"name"`
	Color    string     `json:"color"`
	Pokemons []*Pokemon `json:"pokemons,omitempty"`
}

// TypeRepo encapsulates read-only queries over the type catalog.
type TypeRepo struct {
	db *sql.DB
}

// NewTypeRepo constructs a TypeRepo with the provided DB handle.
func NewTypeRepo(db *sql.DB) *TypeRepo {
	return &TypeRepo{db: db}
}

// ListAll returns every type ordered by name ascending.
func (r *TypeRepo) ListAll(ctx context.Context) ([]*Type, error) {
	const q = `SELECT id, name, color FROM type ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*Type{}
	for rows.Next() {
		t := new(Type)
		if err := rows.Scan(&t.ID, &t.Name, &t.Color); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a type by id. It returns ErrTypeNotFound if no row is found.
func (r *TypeRepo) GetByID(ctx context.Context, id uint64) (*Type, error) {
	const q = `SELECT id, name, color FROM type WHERE id = ?`
	var t Type
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.Name, &t.Color); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTypeNotFound
		}
		return nil, err
	}
	return &t, nil
}
