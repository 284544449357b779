package repository

import (
	"errors"
	"fmt"

	"github.com/rekindle/backend/internal/model"
)

// ErrNotFound is returned when a requested record does not exist in the database.
var ErrNotFound = errors.New("not found")

// DuplicateActiveOutreachError is returned when a contact already has a
// queue item in an active status (draft or approved). It names the existing
// item so the caller can surface the conflict.
type DuplicateActiveOutreachError struct {
	ExistingID string
	Status     model.QueueStatus
}

func (e *DuplicateActiveOutreachError) Error() string {
	return fmt.Sprintf("contact already has an active queue item %s (status: %s)", e.ExistingID, e.Status)
}
