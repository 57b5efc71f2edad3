// Package handler exposes HTTP handlers for both authenticated and public
// endpoints. This file defines the public catalog API: pokemons, types and
// team rosters are browsable without authentication. All routes here are
// read-only; the catalog is seeded reference data and never mutated through
// the API.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/pokedex-team-api/internal/repository"
)

// CatalogHandler aggregates repositories needed for unauthenticated browsing.
type CatalogHandler struct {
	PokemonRepo *repository.PokemonRepo // provides access to pokemon data
	TypeRepo    *repository.TypeRepo    // provides access to type data
	TeamRepo    *repository.TeamRepo    // provides access to team data
}

// NewCatalogHandler constructs a CatalogHandler and panics if any dependency is nil.
func NewCatalogHandler(pokemonRepo *repository.PokemonRepo, typeRepo *repository.TypeRepo, teamRepo *repository.TeamRepo) *CatalogHandler {
	if pokemonRepo == nil || typeRepo == nil || teamRepo == nil {
		panic("nil repository passed to NewCatalogHandler")
	}
	return &CatalogHandler{PokemonRepo: pokemonRepo, TypeRepo: typeRepo, TeamRepo: teamRepo}
}

// ListPokemons handles GET /api/pokemons and returns the catalog sorted by name.
func (h *CatalogHandler) ListPokemons(c echo.Context) error {
	items, err := h.PokemonRepo.ListAll(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("list pokemons failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, items)
}

// GetPokemon handles GET /api/pokemons/:id and returns one pokemon with its
// types expanded.
func (h *CatalogHandler) GetPokemon(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	p, err := h.PokemonRepo.GetWithTypes(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrPokemonNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "pokemon not found"})
		}
		log.Error().Err(err).Msg("get pokemon failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, p)
}

// ListTypes handles GET /api/types and returns all types sorted by name.
func (h *CatalogHandler) ListTypes(c echo.Context) error {
	items, err := h.TypeRepo.ListAll(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("list types failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, items)
}

// GetTypePokemons handles GET /api/types/:id/pokemons and returns the type
// with its member pokemons, each expanded with its own types.
func (h *CatalogHandler) GetTypePokemons(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	t, err := h.TypeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTypeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "type not found"})
		}
		log.Error().Err(err).Msg("get type failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	members, err := h.PokemonRepo.ListByType(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("list pokemons by type failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	t.Pokemons = members
	return c.JSON(http.StatusOK, t)
}

// ListTeams handles GET /api/teams and returns every team with its roster
// expanded (types omitted; the team detail view expands them).
func (h *CatalogHandler) ListTeams(c echo.Context) error {
	ctx := c.Request().Context()
	teams, err := h.TeamRepo.ListAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("list teams failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	for _, t := range teams {
		roster, err := h.PokemonRepo.ListByTeam(ctx, t.ID)
		if err != nil {
			log.Error().Err(err).Msg("expand roster failed")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		t.Pokemons = roster
	}
	return c.JSON(http.StatusOK, teams)
}

// GetTeam handles GET /api/teams/:id and returns the team with its roster,
// each roster pokemon further expanded with its types.
func (h *CatalogHandler) GetTeam(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	t, err := h.TeamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTeamNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "team not found"})
		}
		log.Error().Err(err).Msg("get team failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	roster, err := h.PokemonRepo.ListByTeamWithTypes(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("expand roster failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	t.Pokemons = roster
	return c.JSON(http.StatusOK, t)
}
