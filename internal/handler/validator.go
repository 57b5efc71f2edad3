package handler

import (
	"github.com/go-playground/validator/v10"
)

// Validator adapts go-playground/validator to echo's Validator interface.
// Request DTOs declare their shape with `validate` struct tags; handlers
// call c.Validate after binding and translate failures into 400 responses.
type Validator struct {
	validate *validator.Validate
}

// NewValidator returns a Validator ready to be assigned to echo.Validator.
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate implements echo.Validator.
func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
