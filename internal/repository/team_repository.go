// This file defines the Team model and the repository methods behind team
// CRUD and roster management. A team is a named roster of pokemons owned by
// exactly one user. Every mutation runs inside a transaction that checks
// existence before ownership, so a missing team always surfaces as not found
// no matter who asks, and an existing team owned by someone else surfaces as
// forbidden. The team row is locked with SELECT ... FOR UPDATE, which
// serializes concurrent mutations of the same team's roster while leaving
// unrelated teams untouched.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// Team represents a team entity persisted in the database. OwnerID references
// the user who created the team and is never reassigned. Pokemons holds the
// expanded roster when a lookup requests it.
type Team struct {
	ID          uint64     `json:"id"`
	OwnerID     uint64     `json:"user_id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Pokemons    []*Pokemon `json:"pokemons,omitempty"`
}

// TeamRepo encapsulates all database queries related to teams and the
// team_pokemon association.
type TeamRepo struct {
	db *sql.DB
}

// NewTeamRepo constructs a TeamRepo with the provided DB handle.
func NewTeamRepo(db *sql.DB) *TeamRepo {
	return &TeamRepo{db: db}
}

// isDuplicate reports whether err is a MySQL duplicate-key violation (1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}

// Create inserts a new team owned by t.OwnerID. On success the ID and
// timestamp fields are populated from the stored row. A collision with the
// unique name index returns ErrTeamNameTaken.
func (r *TeamRepo) Create(ctx context.Context, t *Team) error {
	const qInsert = "INSERT INTO team (name, description, user_id) VALUES (?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, t.Name, t.Description, t.OwnerID)
	if err != nil {
		if isDuplicate(err) {
			return ErrTeamNameTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)

	// Follow-up SELECT to populate default timestamp fields.
	const qSelect = "SELECT name, description, user_id, created_at, updated_at FROM team WHERE id = ?"
	var desc sql.NullString
	if err := r.db.QueryRowContext(ctx, qSelect, t.ID).Scan(&t.Name, &desc, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return err
	}
	t.Description = nullableString(desc)
	return nil
}

// GetByID fetches a team by its ID regardless of owner. It returns
// ErrTeamNotFound if no row is found. The roster is not expanded here.
func (r *TeamRepo) GetByID(ctx context.Context, id uint64) (*Team, error) {
	const q = "SELECT id, name, description, user_id, created_at, updated_at FROM team WHERE id = ?"
	var t Team
	var desc sql.NullString
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.Name, &desc, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	t.Description = nullableString(desc)
	return &t, nil
}

// ListAll returns all teams ordered by id. Rosters are not expanded here;
// callers attach them per team.
func (r *TeamRepo) ListAll(ctx context.Context) ([]*Team, error) {
	const q = `SELECT id, name, description, user_id, created_at, updated_at FROM team ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*Team{}
	for rows.Next() {
		t := new(Team)
		var desc sql.NullString
		if err := rows.Scan(&t.ID, &t.Name, &desc, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		t.Description = nullableString(desc)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update applies a partial update to the team's name and/or description.
// Nil fields keep their stored value. The update is performed in a
// transaction: the team row is locked and checked for existence, then
// ownership, before any change is written. The updated row is returned.
func (r *TeamRepo) Update(ctx context.Context, id, requesterID uint64, name, description *string) (t *Team, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	cur, err := lockTeam(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if cur.OwnerID != requesterID {
		return nil, ErrForbidden
	}

	// Merge: only the provided fields replace stored values.
	newName := cur.Name
	if name != nil {
		newName = *name
	}
	newDesc := cur.Description
	if description != nil {
		newDesc = description
	}

	const qUpdate = `UPDATE team SET name = ?, description = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	if _, err = tx.ExecContext(ctx, qUpdate, newName, newDesc, id); err != nil {
		if isDuplicate(err) {
			err = ErrTeamNameTaken
		}
		return nil, err
	}

	const qSelect = "SELECT id, name, description, user_id, created_at, updated_at FROM team WHERE id = ?"
	t = new(Team)
	var desc sql.NullString
	if err = tx.QueryRowContext(ctx, qSelect, id).Scan(&t.ID, &t.Name, &desc, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Description = nullableString(desc)
	return t, nil
}

// DeleteByIDAndOwner removes a team together with its roster associations,
// provided it belongs to the requester. The deleted team's name is returned
// so callers can reference it in confirmations. Existence is checked before
// ownership inside the same transaction as the deletes, so no partial state
// is ever visible.
func (r *TeamRepo) DeleteByIDAndOwner(ctx context.Context, id, requesterID uint64) (name string, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	cur, err := lockTeam(ctx, tx, id)
	if err != nil {
		return "", err
	}
	if cur.OwnerID != requesterID {
		return "", ErrForbidden
	}

	// Cascade: roster rows first, then the team itself.
	if _, err = tx.ExecContext(ctx, `DELETE FROM team_pokemon WHERE team_id = ?`, id); err != nil {
		return "", err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM team WHERE id = ?`, id); err != nil {
		return "", err
	}
	return cur.Name, nil
}

// AddPokemon associates a pokemon with a team. Check order: team existence,
// then ownership, then pokemon existence, so an unauthorized caller cannot
// probe the catalog through someone else's team. The insert is a set union:
// adding a pokemon already on the roster succeeds without creating a
// duplicate row.
func (r *TeamRepo) AddPokemon(ctx context.Context, teamID, pokemonID, requesterID uint64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	cur, err := lockTeam(ctx, tx, teamID)
	if err != nil {
		return err
	}
	if cur.OwnerID != requesterID {
		return ErrForbidden
	}
	if _, err = pokemonName(ctx, tx, pokemonID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `INSERT IGNORE INTO team_pokemon (team_id, pokemon_id) VALUES (?, ?)`, teamID, pokemonID)
	return err
}

// RemovePokemon dissolves the association between a pokemon and a team,
// using the same check order as AddPokemon. Removing a pokemon that is not
// on the roster is a no-op success: the observable end state is already
// satisfied. The team and pokemon names are returned for confirmations.
func (r *TeamRepo) RemovePokemon(ctx context.Context, teamID, pokemonID, requesterID uint64) (teamName, pkmName string, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", "", err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	cur, err := lockTeam(ctx, tx, teamID)
	if err != nil {
		return "", "", err
	}
	if cur.OwnerID != requesterID {
		return "", "", ErrForbidden
	}
	pkmName, err = pokemonName(ctx, tx, pokemonID)
	if err != nil {
		return "", "", err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM team_pokemon WHERE team_id = ? AND pokemon_id = ?`, teamID, pokemonID); err != nil {
		return "", "", err
	}
	return cur.Name, pkmName, nil
}

// lockTeam loads the team row under FOR UPDATE inside tx. It returns
// ErrTeamNotFound when the row does not exist.
func lockTeam(ctx context.Context, tx *sql.Tx, id uint64) (*Team, error) {
	const q = `SELECT id, name, description, user_id FROM team WHERE id = ? FOR UPDATE`
	var t Team
	var desc sql.NullString
	if err := tx.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.Name, &desc, &t.OwnerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	t.Description = nullableString(desc)
	return &t, nil
}

// pokemonName verifies a pokemon exists within tx and returns its name.
// It returns ErrPokemonNotFound when the row does not exist.
func pokemonName(ctx context.Context, tx *sql.Tx, id uint64) (string, error) {
	var name string
	if err := tx.QueryRowContext(ctx, `SELECT name FROM pokemon WHERE id = ?`, id).Scan(&name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrPokemonNotFound
		}
		return "", err
	}
	return name, nil
}

// nullableString converts a scanned NULL-able column into a *string.
func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
