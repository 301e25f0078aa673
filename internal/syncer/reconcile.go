// internal/syncer/reconcile.go
package syncer

import (
	"context"
	"errors"

	"github.com/fr4iser90/aboutME/internal/catalog"
	custom_errors "github.com/fr4iser90/aboutME/internal/errors"
	"github.com/fr4iser90/aboutME/internal/model"
)

// reconcileOp is the outcome of reconciling one canonical record.
type reconcileOp int

const (
	opCreated reconcileOp = iota
	opUpdated
	opFailed
)

// reconcile matches one canonical record against the catalog by identity key
// and performs a field-scoped create or update. Any catalog failure is
// wrapped in a ReconcileError so the caller can record it and move on.
func (s *Syncer) reconcile(ctx context.Context, rec model.RepoRecord) (reconcileOp, error) {
	key := rec.Identity()

	existing, err := s.store.FindByIdentity(ctx, key)
	if errors.Is(err, catalog.ErrNotFound) {
		if _, err := s.store.Create(ctx, newProject(rec)); err != nil {
			return opFailed, &custom_errors.ReconcileError{Identity: key, Err: err}
		}
		return opCreated, nil
	}
	if err != nil {
		return opFailed, &custom_errors.ReconcileError{Identity: key, Err: err}
	}

	status := inferStatus(rec.Archived, rec.HasReleases, rec.IsPrerelease)
	if existing.Status == model.StatusDeprecated {
		// Operator override wins; sync never resurrects a deprecated project.
		status = model.StatusDeprecated
	}

	if _, err := s.store.UpdateSyncFields(ctx, existing.ID, rec.SyncFields(status)); err != nil {
		return opFailed, &custom_errors.ReconcileError{Identity: key, Err: err}
	}
	return opUpdated, nil
}

// newProject builds a fresh catalog entity from a canonical record. Every
// operator-owned field starts at its zero value; the project is visible and
// unordered until the operator curates it.
func newProject(rec model.RepoRecord) model.Project {
	return model.Project{
		Name:            rec.Name,
		SourceType:      rec.SourceType,
		SourceUsername:  rec.SourceUsername,
		SourceRepo:      rec.SourceRepo,
		SourceURL:       rec.SourceURL,
		LiveURL:         rec.LiveURL,
		ThumbnailURL:    rec.ThumbnailURL,
		Description:     rec.Description,
		Status:          inferStatus(rec.Archived, rec.HasReleases, rec.IsPrerelease),
		StarsCount:      rec.StarsCount,
		ForksCount:      rec.ForksCount,
		WatchersCount:   rec.WatchersCount,
		OpenIssuesCount: rec.OpenIssuesCount,
		Language:        rec.Language,
		Topics:          rec.Topics,
		DefaultBranch:   rec.DefaultBranch,
		LastUpdated:     rec.LastUpdated,
		Details:         rec.Details,
		DisplayOrder:    0,
		IsVisible:       true,
	}
}
