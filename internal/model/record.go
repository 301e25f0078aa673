// internal/model/record.go
package model

import "time"

// RepoRecord is the canonical, provider-agnostic view of one remote
// repository. Adapters produce it, the syncer consumes it; it is never
// persisted as-is.
type RepoRecord struct {
	Name            string
	SourceType      SourceType
	SourceUsername  string
	SourceRepo      string
	SourceURL       string
	LiveURL         string
	ThumbnailURL    string
	Description     string
	StarsCount      int
	ForksCount      int
	WatchersCount   int
	OpenIssuesCount int
	Language        string
	Topics          []string
	DefaultBranch   string
	LastUpdated     *time.Time
	Details         map[string]any

	// Raw lifecycle signals, consumed only by status inference.
	Archived     bool
	HasReleases  bool
	IsPrerelease bool
}

// Identity returns the identity key the record reconciles under.
func (r *RepoRecord) Identity() IdentityKey {
	return IdentityKey{Name: r.Name, SourceType: r.SourceType, SourceUsername: r.SourceUsername}
}

// SyncFields maps the record onto the sync-writable column subset.
// The status is supplied by the caller because it depends on the
// persisted project (operator DEPRECATED override).
func (r *RepoRecord) SyncFields(status Status) SyncFields {
	return SyncFields{
		SourceRepo:      r.SourceRepo,
		SourceURL:       r.SourceURL,
		LiveURL:         r.LiveURL,
		ThumbnailURL:    r.ThumbnailURL,
		Description:     r.Description,
		Status:          status,
		StarsCount:      r.StarsCount,
		ForksCount:      r.ForksCount,
		WatchersCount:   r.WatchersCount,
		OpenIssuesCount: r.OpenIssuesCount,
		Language:        r.Language,
		Topics:          r.Topics,
		DefaultBranch:   r.DefaultBranch,
		LastUpdated:     r.LastUpdated,
		Details:         r.Details,
	}
}
