// internal/errors/errors.go
package errors

import (
	"errors"
	"fmt"

	"github.com/fr4iser90/aboutME/internal/model"
)

// ErrSyncInFlight is returned when a sync is requested for a
// (username, source) pair that already has a run in progress.
var ErrSyncInFlight = errors.New("sync already in flight for this target")

// ErrInvalidTargetFormat is returned when a sync target string in the config
// is not in 'source/username' format.
type ErrInvalidTargetFormat struct {
	Target string
}

func (e *ErrInvalidTargetFormat) Error() string {
	return fmt.Sprintf("invalid sync target format: %q, expected 'source/username'", e.Target)
}

// SourceNotFoundError means the remote username/namespace does not exist.
// It is terminal for the run; the operator likely mistyped the username.
type SourceNotFoundError struct {
	SourceType model.SourceType
	Username   string
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("%s user %q not found", e.SourceType, e.Username)
}

// ReconcileError wraps a persistence failure for a single repository.
// It is recorded in the run result; the rest of the batch continues.
type ReconcileError struct {
	Identity model.IdentityKey
	Err      error
}

func (e *ReconcileError) Error() string {
	return fmt.Sprintf("reconcile %s/%s (%s): %v", e.Identity.SourceUsername, e.Identity.Name, e.Identity.SourceType, e.Err)
}

func (e *ReconcileError) Unwrap() error {
	return e.Err
}
