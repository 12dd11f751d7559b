package services

import (
	"errors"
	"fmt"
)

var (
	// ErrOperationFailed wraps any repository failure.
	ErrOperationFailed = errors.New("operation failed")
	// ErrNoSubmission means an update found nothing to update for that date.
	ErrNoSubmission     = errors.New("no submission for this date")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("admin access required")
	ErrInvalidDate      = errors.New("date must be YYYY-MM-DD")
	ErrInvalidInput     = errors.New("invalid submission")
	ErrInvalidPatch     = errors.New("invalid update")
)

func failed(err error) error {
	return fmt.Errorf("%w: %w", ErrOperationFailed, err)
}

func invalid(kind, err error) error {
	return fmt.Errorf("%w: %w", kind, err)
}
