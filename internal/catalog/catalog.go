// internal/catalog/catalog.go
package catalog

import (
	"context"
	"errors"

	"github.com/fr4iser90/aboutME/internal/model"
)

// ErrNotFound is returned by FindByIdentity when no project matches the key.
var ErrNotFound = errors.New("project not found")

// Store is the persisted project catalog as seen by the sync engine and the
// HTTP surface. A create followed by a FindByIdentity in the same run must
// see the new row.
type Store interface {
	// FindByIdentity returns the single project for the given identity key,
	// or ErrNotFound.
	FindByIdentity(ctx context.Context, key model.IdentityKey) (model.Project, error)

	// Create inserts a new project and returns it with ID and timestamps set.
	Create(ctx context.Context, p model.Project) (model.Project, error)

	// UpdateSyncFields overwrites the sync-owned columns of an existing
	// project. Operator-owned columns are not part of the statement and
	// cannot be affected.
	UpdateSyncFields(ctx context.Context, id int64, f model.SyncFields) (model.Project, error)

	// ListBySource returns all projects for a (source, username) pair,
	// ordered by display_order then name.
	ListBySource(ctx context.Context, source model.SourceType, username string) ([]model.Project, error)

	// ListVisible returns all projects flagged visible, ordered for the
	// public site.
	ListVisible(ctx context.Context) ([]model.Project, error)
}
