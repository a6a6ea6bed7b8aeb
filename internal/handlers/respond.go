package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"blogpulse/internal/apperrors"
	"blogpulse/internal/models"

	"github.com/labstack/echo/v4"
)

// writeError maps a service error onto the response envelope. Messages pass
// through verbatim, including storage unavailability details.
func writeError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, apperrors.ErrUnavailable):
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, models.Fail(err.Error()))
}

// bindAndValidate binds the request body into req and runs the registered
// validator, normalizing both failure modes to a ValidationError.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return fmt.Errorf("%w: invalid request payload", apperrors.ErrValidation)
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}
