// internal/syncer/status.go
package syncer

import "github.com/fr4iser90/aboutME/internal/model"

// inferStatus derives the project lifecycle state from the raw provider
// signals. Archival wins over everything; a non-prerelease release means the
// project shipped; everything else is work in progress. DEPRECATED is never
// inferred, it is operator-only and preserved by the reconciler.
func inferStatus(archived, hasReleases, isPrerelease bool) model.Status {
	switch {
	case archived:
		return model.StatusArchived
	case hasReleases && !isPrerelease:
		return model.StatusActive
	default:
		return model.StatusWIP
	}
}
