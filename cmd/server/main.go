package main // Entry point package

import (
	"os"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/pokedex-team-api/internal/config"
	"github.com/iliyamo/pokedex-team-api/internal/database"
	"github.com/iliyamo/pokedex-team-api/internal/handler"
	"github.com/iliyamo/pokedex-team-api/internal/repository"
	"github.com/iliyamo/pokedex-team-api/internal/router"
)

func main() {
	cfg := config.Load() // Load environment config

	// Console logging in dev, JSON elsewhere.
	if cfg.Env == "dev" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	userRepo := repository.NewUserRepo(db)
	teamRepo := repository.NewTeamRepo(db)
	pokemonRepo := repository.NewPokemonRepo(db)
	typeRepo := repository.NewTypeRepo(db)

	authHandler := handler.NewAuthHandler(cfg, userRepo)
	teamHandler := handler.NewTeamHandler(teamRepo, pokemonRepo)
	catalogHandler := handler.NewCatalogHandler(pokemonRepo, typeRepo, teamRepo)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.CORS()) // the frontend is served from a different origin
	router.RegisterRoutes(e, authHandler, teamHandler, catalogHandler, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")

	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
