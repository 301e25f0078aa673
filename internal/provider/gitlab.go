// internal/provider/gitlab.go
package provider

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	gitlab "github.com/xanzy/go-gitlab"

	custom_errors "github.com/fr4iser90/aboutME/internal/errors"
	"github.com/fr4iser90/aboutME/internal/model"
)

const gitlabPageSize = 100

// GitLab fetches projects via the GitLab REST API and maps them into
// canonical records. GitLab needs no auxiliary calls: release presence stays
// false, so unarchived projects infer WIP.
type GitLab struct {
	gl     *gitlab.Client
	logger *slog.Logger
}

// NewGitLab creates a GitLab source. An empty token is allowed. Extra client
// options are passed through, which tests use to point at a fake server.
func NewGitLab(token string, logger *slog.Logger, opts ...gitlab.ClientOptionFunc) (*GitLab, error) {
	client, err := gitlab.NewClient(token, opts...)
	if err != nil {
		return nil, err
	}
	return &GitLab{gl: client, logger: logger}, nil
}

func (g *GitLab) Type() model.SourceType {
	return model.SourceGitLab
}

// FetchRepositories lists all projects for username, handling pagination
// transparently.
func (g *GitLab) FetchRepositories(ctx context.Context, username string) ([]model.RepoRecord, error) {
	var records []model.RepoRecord

	opts := &gitlab.ListProjectsOptions{
		ListOptions: gitlab.ListOptions{
			PerPage: gitlabPageSize,
		},
	}

	for {
		g.logger.Debug("Fetching projects page", "username", username, "page", opts.Page)

		projects, resp, err := g.gl.Projects.ListUserProjects(username, opts, gitlab.WithContext(ctx))
		if err != nil {
			if resp != nil && resp.StatusCode == http.StatusNotFound {
				return nil, &custom_errors.SourceNotFoundError{SourceType: model.SourceGitLab, Username: username}
			}
			return nil, err
		}

		for _, p := range projects {
			records = append(records, g.toRecord(username, p))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return records, nil
}

// toRecord maps one GitLab project onto the canonical record.
func (g *GitLab) toRecord(username string, p *gitlab.Project) model.RepoRecord {
	var lastUpdated *time.Time
	if p.LastActivityAt != nil {
		t := *p.LastActivityAt
		lastUpdated = &t
	}

	details := map[string]any{
		"visibility": string(p.Visibility),
	}
	if p.LastActivityAt != nil {
		details["last_activity_at"] = p.LastActivityAt.Format(time.RFC3339)
	}

	return model.RepoRecord{
		Name:            p.Name,
		SourceType:      model.SourceGitLab,
		SourceUsername:  username,
		SourceRepo:      p.Path,
		SourceURL:       p.WebURL,
		ThumbnailURL:    p.AvatarURL,
		Description:     p.Description,
		StarsCount:      p.StarCount,
		ForksCount:      p.ForksCount,
		OpenIssuesCount: p.OpenIssuesCount,
		Topics:          p.Topics,
		DefaultBranch:   p.DefaultBranch,
		LastUpdated:     lastUpdated,
		Details:         details,
		Archived:        p.Archived,
	}
}
