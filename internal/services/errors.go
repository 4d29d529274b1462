package services

import (
	"errors"
	"fmt"

	"github.com/saeid-a/CoachDashboard/internal/apiclient"
	"github.com/saeid-a/CoachDashboard/internal/mockstore"
)

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrForbidden              = errors.New("forbidden")
	ErrNotFound               = errors.New("not found")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrReasonRequired         = errors.New("rejection reason is required")
	ErrUpstream               = errors.New("upstream request failed")
)

// upstreamError classifies a coach or course source failure.
func upstreamError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, apiclient.ErrNotFound), errors.Is(err, mockstore.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	default:
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
