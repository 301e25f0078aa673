// internal/model/result.go
package model

import "time"

// ItemError records a single repository that failed to reconcile.
type ItemError struct {
	Identity IdentityKey `json:"identity"`
	Message  string      `json:"message"`
}

// SyncResult summarizes one sync run for a (username, source) pair.
// It is returned to the caller and logged, never persisted.
type SyncResult struct {
	SourceType SourceType  `json:"source_type"`
	Username   string      `json:"username"`
	Created    int         `json:"created"`
	Updated    int         `json:"updated"`
	Skipped    int         `json:"skipped"`
	Failed     int         `json:"failed"`
	ItemErrors []ItemError `json:"item_errors,omitempty"`
	// RunError is set when the run aborted before any reconciliation,
	// e.g. the remote user does not exist or the listing call timed out.
	RunError string `json:"run_error,omitempty"`
	// SourceMissing marks a RunError caused by an unknown remote
	// username, so callers can answer with a not-found response instead
	// of a generic failure.
	SourceMissing bool      `json:"source_missing,omitempty"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
}

// OK reports whether the run completed without a terminal error.
func (r *SyncResult) OK() bool {
	return r.RunError == ""
}
