package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidInput   = errors.New("invalid input")
	ErrAlreadyClaimed = errors.New("already claimed")
	ErrConflict       = errors.New("conflict")
	ErrPartialFailure = errors.New("partial failure")
)

// PartialFailureError is returned alongside a result when some secondary
// awards of a cascade failed. The primary action has still been applied.
type PartialFailureError struct {
	Failed []AwardOutcome
}

func (e *PartialFailureError) Error() string {
	parts := make([]string, 0, len(e.Failed))
	for _, o := range e.Failed {
		parts = append(parts, fmt.Sprintf("%s for %s: %v", o.Reason, o.UserID, o.Err))
	}
	return fmt.Sprintf("%d of the cascade awards failed: %s", len(e.Failed), strings.Join(parts, "; "))
}

func (e *PartialFailureError) Is(target error) bool {
	return target == ErrPartialFailure
}

// partialFailure returns a *PartialFailureError for the failed outcomes, or nil
func partialFailure(outcomes []AwardOutcome) error {
	var failed []AwardOutcome
	for _, o := range outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return &PartialFailureError{Failed: failed}
}
