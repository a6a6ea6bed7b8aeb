package repositories

import (
	"context"
	"errors"
	"fmt"

	"blogpulse/internal/apperrors"

	"go.mongodb.org/mongo-driver/mongo"
)

// storageErr classifies driver failures. Timeouts and network errors become
// ErrUnavailable with the original message preserved verbatim; everything
// else is returned as-is.
func storageErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return fmt.Errorf("%w: %v", apperrors.ErrUnavailable, err)
	}
	return err
}
