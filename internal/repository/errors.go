// Package repository defines error values that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to mutate a team owned by someone else, while
// ErrTeamNameTaken signals that the globally unique team name is
// already in use.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts a mutation on a
// team they do not own. Handlers should translate this into an HTTP
// 403 response. Existence is always established before ownership, so
// a missing team never surfaces as ErrForbidden.
var ErrForbidden = errors.New("forbidden")

// ErrTeamNotFound is returned when a team cannot be found.
var ErrTeamNotFound = errors.New("team not found")

// ErrPokemonNotFound is returned when a pokemon cannot be found.
var ErrPokemonNotFound = errors.New("pokemon not found")

// ErrTypeNotFound is returned when a type cannot be found.
var ErrTypeNotFound = errors.New("type not found")

// ErrTeamNameTaken is returned when an insert or update collides with
// the unique index on team names. Handlers should translate this into
// an HTTP 409 response.
var ErrTeamNameTaken = errors.New("team name already exists")

// ErrEmailExists is returned when a signup collides with the unique
// index on user emails.
var ErrEmailExists = errors.New("email already exists")
