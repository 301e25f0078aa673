// internal/provider/provider.go
package provider

import (
	"context"

	"github.com/fr4iser90/aboutME/internal/model"
)

// Source is one remote repository host. Implementations own their field
// mapping; nothing downstream looks at provider-specific JSON.
type Source interface {
	// Type identifies the provider in identity keys and logs.
	Type() model.SourceType

	// FetchRepositories lists every repository for the given username and
	// returns them as canonical records. An unknown username is reported as
	// *errors.SourceNotFoundError; failures on per-repository enrichment
	// calls are absorbed with safe defaults.
	FetchRepositories(ctx context.Context, username string) ([]model.RepoRecord, error)
}
