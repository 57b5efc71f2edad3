package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/pokedex-team-api/internal/repository"
)

const (
	lockTeamQuery   = `SELECT id, name, description, user_id FROM team WHERE id = (.+) FOR UPDATE`
	selectTeamQuery = `SELECT id, name, description, user_id, created_at, updated_at FROM team WHERE id =`
)

func newTeamHandler(t *testing.T) (*TeamHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := setupMockDB(t)
	return NewTeamHandler(repository.NewTeamRepo(db), repository.NewPokemonRepo(db)), mock
}

// asOwner stores the identity the JWT middleware would have extracted.
// Claims arrive as float64 from the token parser.
func asOwner(c echo.Context, id uint64) {
	c.Set("user_id", float64(id))
}

func TestTeamHandler_CreateTeam(t *testing.T) {
	t.Run("missing name answers 400", func(t *testing.T) {
		h, mock := newTeamHandler(t)
		e := newEcho()

		c, rec := newJSONContext(e, http.MethodPost, "/api/teams", `{"description":"no name"}`)
		asOwner(c, 1)

		require.NoError(t, h.CreateTeam(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("without identity answers 401", func(t *testing.T) {
		h, mock := newTeamHandler(t)
		e := newEcho()

		c, rec := newJSONContext(e, http.MethodPost, "/api/teams", `{"name":"Aces"}`)

		require.NoError(t, h.CreateTeam(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("creates the team for the requester", func(t *testing.T) {
		h, mock := newTeamHandler(t)
		e := newEcho()

		now := time.Now().UTC()
		mock.ExpectExec("INSERT INTO team").
			WithArgs("Aces", "early squad", uint64(1)).
			WillReturnResult(sqlmock.NewResult(7, 1))
		mock.ExpectQuery("SELECT name, description, user_id, created_at, updated_at FROM team").
			WithArgs(uint64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"name", "description", "user_id", "created_at", "updated_at"}).
				AddRow("Aces", "early squad", 1, now, now))

		c, rec := newJSONContext(e, http.MethodPost, "/api/teams", `{"name":"Aces","description":"early squad"}`)
		asOwner(c, 1)

		require.NoError(t, h.CreateTeam(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp repository.Team
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, uint64(7), resp.ID)
		assert.Equal(t, uint64(1), resp.OwnerID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate name answers 409", func(t *testing.T) {
		h, mock := newTeamHandler(t)
		e := newEcho()

		mock.ExpectExec("INSERT INTO team").
			WithArgs("Alpha", nil, uint64(2)).
			WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'Alpha' for key 'uq_team_name'"))

		c, rec := newJSONContext(e, http.MethodPost, "/api/teams", `{"name":"Alpha"}`)
		asOwner(c, 2)

		require.NoError(t, h.CreateTeam(c))
		assert.Equal(t, http.StatusConflict, rec.Code)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTeamHandler_UpdateTeam(t *testing.T) {
	t.Run("non-owner answers 403", func(t *testing.T) {
		h, mock := newTeamHandler(t)
		e := newEcho()

		mock.ExpectBegin()
		mock.ExpectQuery(lockTeamQuery).
			WithArgs(uint64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "user_id"}).
				AddRow(3, "Aces", nil, 1))
		mock.ExpectRollback()

		c, rec := newJSONContext(e, http.MethodPatch, "/api/teams/3", `{"name":"Stolen"}`)
		c.SetParamNames("id")
		c.SetParamValues("3")
		asOwner(c, 2)

		require.NoError(t, h.UpdateTeam(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing team answers 404 regardless of requester", func(t *testing.T) {
		h, mock := newTeamHandler(t)
		e := newEcho()

		mock.ExpectBegin()
		mock.ExpectQuery(lockTeamQuery).
			WithArgs(uint64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "user_id"}))
		mock.ExpectRollback()

		c, rec := newJSONContext(e, http.MethodPatch, "/api/teams/99", `{"name":"Anything"}`)
		c.SetParamNames("id")
		c.SetParamValues("99")
		asOwner(c, 2)

		require.NoError(t, h.UpdateTeam(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTeamHandler_DeleteTeam(t *testing.T) {
	h, mock := newTeamHandler(t)
	e := newEcho()

	mock.ExpectBegin()
	mock.ExpectQuery(lockTeamQuery).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "user_id"}).
			AddRow(5, "Aces", nil, 1))
	mock.ExpectExec("DELETE FROM team_pokemon WHERE team_id =").
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM team WHERE id =").
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c, rec := newJSONContext(e, http.MethodDelete, "/api/teams/5", "")
	c.SetParamNames("id")
	c.SetParamValues("5")
	asOwner(c, 1)

	require.NoError(t, h.DeleteTeam(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Aces")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamHandler_AddPokemon(t *testing.T) {
	t.Run("returns the team with its roster", func(t *testing.T) {
		h, mock := newTeamHandler(t)
		e := newEcho()

		now := time.Now().UTC()
		mock.ExpectBegin()
		mock.ExpectQuery(lockTeamQuery).
			WithArgs(uint64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "user_id"}).
				AddRow(1, "Aces", nil, 1))
		mock.ExpectQuery("SELECT name FROM pokemon WHERE id =").
			WithArgs(uint64(25)).
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Pikachu"))
		mock.ExpectExec("INSERT IGNORE INTO team_pokemon").
			WithArgs(uint64(1), uint64(25)).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()
		// The handler reloads the team and its roster for the response.
		mock.ExpectQuery(selectTeamQuery).
			WithArgs(uint64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "user_id", "created_at", "updated_at"}).
				AddRow(1, "Aces", nil, 1, now, now))
		mock.ExpectQuery("JOIN team_pokemon tp").
			WithArgs(uint64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "hp", "attack", "defense", "speed"}).
				AddRow(25, "Pikachu", 35, 55, 40, 90))

		c, rec := newJSONContext(e, http.MethodPost, "/api/teams/1/pokemons", `{"pokemonId":25}`)
		c.SetParamNames("id")
		c.SetParamValues("1")
		asOwner(c, 1)

		require.NoError(t, h.AddPokemon(c))
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp repository.Team
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Pokemons, 1)
		assert.Equal(t, "Pikachu", resp.Pokemons[0].Name)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing pokemon answers 404 after the ownership check", func(t *testing.T) {
		h, mock := newTeamHandler(t)
		e := newEcho()

		mock.ExpectBegin()
		mock.ExpectQuery(lockTeamQuery).
			WithArgs(uint64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "user_id"}).
				AddRow(1, "Aces", nil, 1))
		mock.ExpectQuery("SELECT name FROM pokemon WHERE id =").
			WithArgs(uint64(9999)).
			WillReturnRows(sqlmock.NewRows([]string{"name"}))
		mock.ExpectRollback()

		c, rec := newJSONContext(e, http.MethodPost, "/api/teams/1/pokemons", `{"pokemonId":9999}`)
		c.SetParamNames("id")
		c.SetParamValues("1")
		asOwner(c, 1)

		require.NoError(t, h.AddPokemon(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTeamHandler_RemovePokemon(t *testing.T) {
	t.Run("confirmation names both entities", func(t *testing.T) {
		h, mock := newTeamHandler(t)
		e := newEcho()

		mock.ExpectBegin()
		mock.ExpectQuery(lockTeamQuery).
			WithArgs(uint64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "user_id"}).
				AddRow(1, "Aces", nil, 1))
		mock.ExpectQuery("SELECT name FROM pokemon WHERE id =").
			WithArgs(uint64(25)).
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Pikachu"))
		mock.ExpectExec("DELETE FROM team_pokemon WHERE team_id =").
			WithArgs(uint64(1), uint64(25)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		c, rec := newJSONContext(e, http.MethodDelete, "/api/teams/1/pokemons/25", "")
		c.SetParamNames("teamId", "pokemonId")
		c.SetParamValues("1", "25")
		asOwner(c, 1)

		require.NoError(t, h.RemovePokemon(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Pikachu")
		assert.Contains(t, rec.Body.String(), "Aces")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non-owner answers 403", func(t *testing.T) {
		h, mock := newTeamHandler(t)
		e := newEcho()

		mock.ExpectBegin()
		mock.ExpectQuery(lockTeamQuery).
			WithArgs(uint64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "user_id"}).
				AddRow(1, "Aces", nil, 1))
		mock.ExpectRollback()

		c, rec := newJSONContext(e, http.MethodDelete, "/api/teams/1/pokemons/25", "")
		c.SetParamNames("teamId", "pokemonId")
		c.SetParamValues("1", "25")
		asOwner(c, 9)

		require.NoError(t, h.RemovePokemon(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
