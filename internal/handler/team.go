package handler // handler package contains owner-gated team and roster handlers

import (
    "errors"   // errors matches repository sentinel values
    "fmt"      // fmt formats confirmation messages
    "net/http" // http provides status code constants
    "strings"  // strings offers trimming utilities

    "github.com/labstack/echo/v4" // echo is the web framework used for handlers
    "github.com/rs/zerolog/log"   // structured logging for unexpected failures

    "github.com/iliyamo/pokedex-team-api/internal/repository" // repository holds database models
)

// ----- DTOs -----

type teamCreateReq struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}
type teamUpdateReq struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}
type rosterAddReq struct {
	PokemonID uint64 `json:"pokemonId" validate:"required"`
}

// CreateTeam handles POST /api/teams and creates a new team owned by the
// authenticated user. The team name is globally unique.
func (h *TeamHandler) CreateTeam(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body teamCreateReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	team := &repository.Team{
		OwnerID:     ownerID,
		Name:        body.Name,
		Description: body.Description,
	}
	if err := h.TeamRepo.Create(c.Request().Context(), team); err != nil {
		if errors.Is(err, repository.ErrTeamNameTaken) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "team name already exists"})
		}
		log.Error().Err(err).Msg("create team failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create team"})
	}
	return c.JSON(http.StatusCreated, team)
}

// UpdateTeam handles PATCH /api/teams/:id. Only provided fields change;
// absent fields keep their stored value. Existence is checked before
// ownership so 404 vs 403 never depends on the requester.
func (h *TeamHandler) UpdateTeam(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body teamUpdateReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name != nil {
		trimmed := strings.TrimSpace(*body.Name)
		body.Name = &trimmed
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	updated, err := h.TeamRepo.Update(c.Request().Context(), id, ownerID, body.Name, body.Description)
	if err != nil {
		return h.teamError(c, err, "update failed")
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteTeam handles DELETE /api/teams/:id. The team's roster associations
// are removed with it; the confirmation references the deleted team's name.
func (h *TeamHandler) DeleteTeam(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	name, err := h.TeamRepo.DeleteByIDAndOwner(c.Request().Context(), id, ownerID)
	if err != nil {
		return h.teamError(c, err, "delete failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": fmt.Sprintf("team %s deleted", name)})
}

// AddPokemon handles POST /api/teams/:id/pokemons and adds a pokemon to the
// team's roster. Adding a pokemon already on the roster is a no-op union.
// The response is the team with its expanded roster.
func (h *TeamHandler) AddPokemon(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	teamID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body rosterAddReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "pokemonId is required"})
	}

	ctx := c.Request().Context()
	if err := h.TeamRepo.AddPokemon(ctx, teamID, body.PokemonID, ownerID); err != nil {
		return h.teamError(c, err, "add pokemon failed")
	}

	// Reload the team with its roster for the response.
	team, err := h.TeamRepo.GetByID(ctx, teamID)
	if err != nil {
		log.Error().Err(err).Msg("reload team failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	roster, err := h.PokemonRepo.ListByTeam(ctx, teamID)
	if err != nil {
		log.Error().Err(err).Msg("reload roster failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	team.Pokemons = roster
	return c.JSON(http.StatusCreated, team)
}

// RemovePokemon handles DELETE /api/teams/:teamId/pokemons/:pokemonId.
// Removing a pokemon that is not on the roster succeeds: the observable
// end state (pokemon not on roster) is already satisfied.
func (h *TeamHandler) RemovePokemon(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	teamID, err := parseID(c, "teamId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid team id"})
	}
	pokemonID, err := parseID(c, "pokemonId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid pokemon id"})
	}

	teamName, pkmName, err := h.TeamRepo.RemovePokemon(c.Request().Context(), teamID, pokemonID, ownerID)
	if err != nil {
		return h.teamError(c, err, "remove pokemon failed")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("pokemon %s removed from team %s", pkmName, teamName),
	})
}

// teamError maps repository sentinel errors onto HTTP responses shared by
// all team mutations.
func (h *TeamHandler) teamError(c echo.Context, err error, logMsg string) error {
	switch {
	case errors.Is(err, repository.ErrTeamNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "team not found"})
	case errors.Is(err, repository.ErrPokemonNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "pokemon not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "you are not allowed to modify this team"})
	case errors.Is(err, repository.ErrTeamNameTaken):
		return c.JSON(http.StatusConflict, echo.Map{"error": "team name already exists"})
	default:
		log.Error().Err(err).Msg(logMsg)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
}
