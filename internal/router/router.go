// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4" // Echo web framework to handle routing

	"github.com/iliyamo/pokedex-team-api/internal/handler"    // handlers that implement business logic
	"github.com/iliyamo/pokedex-team-api/internal/middleware" // middleware for JWT authentication
)

// RegisterRoutes wires every endpoint onto the provided Echo instance.
// Catalog reads and team reads are public; team mutations require a valid
// access token. Route groups share a path prefix but not middleware, so the
// public GET /api/teams coexists with the guarded mutations under the same
// prefix.
func RegisterRoutes(e *echo.Echo, auth *handler.AuthHandler, teams *handler.TeamHandler, catalog *handler.CatalogHandler, jwtSecret string) {
	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	api := e.Group("/api")

	// Authentication: signup and login do not require a session.
	api.POST("/auth/signup", auth.Signup)
	api.POST("/auth/login", auth.Login)

	// Public catalog browsing.
	api.GET("/pokemons", catalog.ListPokemons)
	api.GET("/pokemons/:id", catalog.GetPokemon)
	api.GET("/types", catalog.ListTypes)
	api.GET("/types/:id/pokemons", catalog.GetTypePokemons)
	api.GET("/teams", catalog.ListTeams)
	api.GET("/teams/:id", catalog.GetTeam)

	// Team mutations require a valid bearer token. The JWTAuth middleware
	// places the authenticated user id into the context for the handlers'
	// ownership checks.
	guarded := api.Group("/teams", middleware.JWTAuth(jwtSecret))
	guarded.POST("", teams.CreateTeam)
	guarded.PATCH("/:id", teams.UpdateTeam)
	guarded.DELETE("/:id", teams.DeleteTeam)
	guarded.POST("/:id/pokemons", teams.AddPokemon)
	guarded.DELETE("/:teamId/pokemons/:pokemonId", teams.RemovePokemon)
}
