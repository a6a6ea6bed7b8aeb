// Package validators wires go-playground/validator into echo so handlers
// can call c.Validate on bound request structs.
package validators

import (
	"fmt"

	"blogpulse/internal/apperrors"

	"github.com/go-playground/validator/v10"
)

// Validator implements echo.Validator.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate runs struct validation and normalizes failures into the
// application's validation error so handlers map them to 400.
func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return nil
}
