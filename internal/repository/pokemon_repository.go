// Package repository contains data access logic separated from HTTP handlers.
// This file defines the Pokemon model and read-only lookups over the pokemon
// catalog. Pokemons are reference data: they are seeded into the database and
// never created or modified through the API, only referenced from team rosters.
package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"errors"       // errors is used to match sentinel values
)

// Pokemon represents a catalog entry persisted in the database. Stats mirror
// the columns of the `pokemon` table. Types is populated only by lookups that
// expand the pokemon_type association; list endpoints omit it.
type Pokemon struct {
	ID      uint64  `json:"id"`
	Name    string  `json:"name"`
	HP      uint16  `json:"hp"`
	Attack  uint16  `json:"attack"`
	Defense uint16  `json:"defense"`
	Speed   uint16  `json:"speed"`
	Types   []*Type `json:"types,omitempty"`
}

// PokemonRepo encapsulates all database queries related to pokemons.
type PokemonRepo struct {
	db *sql.DB
}

// NewPokemonRepo constructs a PokemonRepo with the provided DB handle.
func NewPokemonRepo(db *sql.DB) *PokemonRepo {
	return &PokemonRepo{db: db}
}

// ListAll returns the whole catalog ordered by name ascending. Types are not
// expanded here; clients fetch a single pokemon for the detailed view.
func (r *PokemonRepo) ListAll(ctx context.Context) ([]*Pokemon, error) {
	const q = `SELECT id, name, hp, attack, defense, speed FROM pokemon ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*Pokemon{}
	for rows.Next() {
		p := new(Pokemon)
		if err := rows.Scan(&p.ID, &p.Name, &p.HP, &p.Attack, &p.Defense, &p.Speed); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetWithTypes fetches a single pokemon by id with its types expanded.
// It returns ErrPokemonNotFound if no row is found.
func (r *PokemonRepo) GetWithTypes(ctx context.Context, id uint64) (*Pokemon, error) {
	const q = `SELECT id, name, hp, attack, defense, speed FROM pokemon WHERE id = ?`
	var p Pokemon
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&p.ID, &p.Name, &p.HP, &p.Attack, &p.Defense, &p.Speed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPokemonNotFound
		}
		return nil, err
	}
	if err := r.attachTypes(ctx, []*Pokemon{&p}); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByTeam returns the roster of a team ordered by pokemon id. Types are
// not expanded; use ListByTeamWithTypes for the detailed team view.
func (r *PokemonRepo) ListByTeam(ctx context.Context, teamID uint64) ([]*Pokemon, error) {
	const q = `SELECT p.id, p.name, p.hp, p.attack, p.defense, p.speed
	           FROM pokemon p
	           JOIN team_pokemon tp ON tp.pokemon_id = p.id
	           WHERE tp.team_id = ? ORDER BY p.id`
	return r.queryList(ctx, q, teamID)
}

// ListByTeamWithTypes returns the roster of a team with each pokemon's types
// expanded.
func (r *PokemonRepo) ListByTeamWithTypes(ctx context.Context, teamID uint64) ([]*Pokemon, error) {
	out, err := r.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if err := r.attachTypes(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByType returns all pokemons carrying the given type, each expanded with
// its own full type list (a dual-typed pokemon matched on one type still
// reports both).
func (r *PokemonRepo) ListByType(ctx context.Context, typeID uint64) ([]*Pokemon, error) {
	const q = `SELECT p.id, p.name, p.hp, p.attack, p.defense, p.speed
	           FROM pokemon p
	           JOIN pokemon_type pt ON pt.pokemon_id = p.id
	           WHERE pt.type_id = ? ORDER BY p.id`
	out, err := r.queryList(ctx, q, typeID)
	if err != nil {
		return nil, err
	}
	if err := r.attachTypes(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// queryList runs a pokemon select and scans the rows into a slice.
func (r *PokemonRepo) queryList(ctx context.Context, q string, args ...any) ([]*Pokemon, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*Pokemon{}
	for rows.Next() {
		p := new(Pokemon)
		if err := rows.Scan(&p.ID, &p.Name, &p.HP, &p.Attack, &p.Defense, &p.Speed); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// attachTypes loads the types of every pokemon in the slice with a single
// query and distributes them onto the matching entries. Passing an empty
// slice has no effect and returns nil.
func (r *PokemonRepo) attachTypes(ctx context.Context, pokemons []*Pokemon) error {
	if len(pokemons) == 0 {
		return nil
	}
	byID := make(map[uint64]*Pokemon, len(pokemons))
	query := `SELECT pt.pokemon_id, t.id, t.name, t.color
	          FROM pokemon_type pt
	          JOIN type t ON t.id = pt.type_id
	          WHERE pt.pokemon_id IN (`
	args := make([]any, 0, len(pokemons))
	for i, p := range pokemons {
		if i > 0 {
			query += ","
		}
		query += "?"
		args = append(args, p.ID)
		p.Types = []*Type{}
		byID[p.ID] = p
	}
	query += ") ORDER BY t.id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var pid uint64
		t := new(Type)
		if err := rows.Scan(&pid, &t.ID, &t.Name, &t.Color); err != nil {
			return err
		}
		if p, ok := byID[pid]; ok {
			p.Types = append(p.Types, t)
		}
	}
	return rows.Err()
}
