package scheduler

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownItem      = errors.New("achievement is not tracked")
	ErrItemCommitted    = errors.New("achievement is already unlocked")
	ErrItemProtected    = errors.New("achievement is protected and cannot be scheduled")
	ErrInvalidTime      = errors.New("scheduled time is not set")
	ErrNoCandidates     = errors.New("no achievements to schedule")
	ErrDuplicateItem    = errors.New("achievement listed more than once")
	ErrInvalidCountdown = errors.New("countdown must be greater than zero")
	ErrCommitFailed     = errors.New("achievement store rejected the unlock")
	ErrMissingStore     = errors.New("achievement store is required")
	ErrMissingSession   = errors.New("session key is required")
)

// CommitError is returned by Tick when the store rejects an unlock. The
// failed item and every due item after it stay armed for the next tick.
type CommitError struct {
	ID string
	// Pending counts the due items left armed, including ID.
	Pending int
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("unlock of %s failed, %d due achievement(s) left scheduled", e.ID, e.Pending)
}

func (e *CommitError) Unwrap() error {
	return ErrCommitFailed
}
