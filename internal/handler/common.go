package handler // handler defines http handlers

import (
    "errors"  // errors provides sentinel values used in getUserID
    "strconv" // strconv converts strings to numeric types

    "github.com/labstack/echo/v4" // echo defines request context types

    "github.com/iliyamo/pokedex-team-api/internal/repository" // repository holds data access layer
)

// TeamHandler bundles repositories for owners to manipulate their teams
type TeamHandler struct {
    TeamRepo    *repository.TeamRepo    // TeamRepo provides team and roster persistence
    PokemonRepo *repository.PokemonRepo // PokemonRepo expands rosters in responses
}

// NewTeamHandler constructs a new TeamHandler and panics if any dependency is nil
func NewTeamHandler(teamRepo *repository.TeamRepo, pokemonRepo *repository.PokemonRepo) *TeamHandler {
    if teamRepo == nil || pokemonRepo == nil {
        panic("nil repository passed to NewTeamHandler")
    }
    return &TeamHandler{TeamRepo: teamRepo, PokemonRepo: pokemonRepo}
}

// getUserID extracts the user_id from echo.Context and converts it to uint64.
// JWT numeric claims arrive as float64; other shapes are handled for safety.
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// parseID parses a numeric path parameter.
func parseID(c echo.Context, name string) (uint64, error) {
    return strconv.ParseUint(c.Param(name), 10, 64)
}
