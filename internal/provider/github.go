// internal/provider/github.go
package provider

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	custom_errors "github.com/fr4iser90/aboutME/internal/errors"
	"github.com/fr4iser90/aboutME/internal/model"
)

const (
	// Max items per listing page, GitHub's documented cap.
	githubPageSize = 100

	// Number of repositories enriched (releases + languages) in parallel.
	enrichConcurrency = 5
)

// GitHub fetches repositories via the GitHub REST API and maps them into
// canonical records.
type GitHub struct {
	gh     *github.Client
	logger *slog.Logger
}

// NewGitHub creates a GitHub source. An empty token is allowed; requests are
// then unauthenticated and subject to the lower rate limit.
func NewGitHub(token string, logger *slog.Logger) *GitHub {
	var hc *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		hc = oauth2.NewClient(context.Background(), ts)
	}
	return &GitHub{
		gh:     github.NewClient(hc),
		logger: logger,
	}
}

func (g *GitHub) Type() model.SourceType {
	return model.SourceGitHub
}

// SetBaseURL points the client at a different API root, e.g. a GitHub
// Enterprise deployment or a test server. The URL must include a trailing
// slash for go-github's relative resolution.
func (g *GitHub) SetBaseURL(rawURL string) error {
	if !strings.HasSuffix(rawURL, "/") {
		rawURL += "/"
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	g.gh.BaseURL = u
	return nil
}

// FetchRepositories lists all repositories for username, handling pagination
// transparently, then enriches each record with release presence and the
// per-language byte map.
func (g *GitHub) FetchRepositories(ctx context.Context, username string) ([]model.RepoRecord, error) {
	var records []model.RepoRecord

	opts := &github.RepositoryListByUserOptions{
		Sort: "updated",
		ListOptions: github.ListOptions{
			PerPage: githubPageSize,
		},
	}

	for {
		g.logger.Debug("Fetching repositories page", "username", username, "page", opts.Page)

		repos, resp, err := g.gh.Repositories.ListByUser(ctx, username, opts)
		if err != nil {
			if isGitHubNotFound(err) {
				return nil, &custom_errors.SourceNotFoundError{SourceType: model.SourceGitHub, Username: username}
			}
			return nil, err
		}

		for _, repo := range repos {
			records = append(records, g.toRecord(username, repo))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	g.enrichAll(ctx, username, records)
	return records, nil
}

// enrichAll runs the auxiliary calls for every record with a bounded number
// in flight. Enrichment failures are logged and leave the record on its
// defaults; they never fail the fetch.
func (g *GitHub) enrichAll(ctx context.Context, username string, records []model.RepoRecord) {
	var eg errgroup.Group
	eg.SetLimit(enrichConcurrency)

	for i := range records {
		rec := &records[i]
		eg.Go(func() error {
			g.enrich(ctx, username, rec)
			return nil
		})
	}

	_ = eg.Wait()
}

// enrich fills in the release signals and the per-language byte map. Only
// the most recent release is inspected: a repo whose newest release is a
// prerelease counts as back in progress, regardless of older stable tags.
func (g *GitHub) enrich(ctx context.Context, username string, rec *model.RepoRecord) {
	releases, _, err := g.gh.Repositories.ListReleases(ctx, username, rec.SourceRepo, &github.ListOptions{PerPage: 1})
	if err != nil {
		g.logger.Warn("Releases lookup failed, assuming none", "repo", rec.Name, "error", err)
	} else if len(releases) > 0 {
		rec.HasReleases = true
		rec.IsPrerelease = releases[0].GetPrerelease()
	}

	languages, _, err := g.gh.Repositories.ListLanguages(ctx, username, rec.SourceRepo)
	if err != nil {
		g.logger.Warn("Languages lookup failed, leaving map empty", "repo", rec.Name, "error", err)
		return
	}
	rec.Details["languages"] = languages
}

// toRecord maps one GitHub repository onto the canonical record. Absent
// optional fields end up as the documented defaults, never as nulls.
func (g *GitHub) toRecord(username string, r *github.Repository) model.RepoRecord {
	sourceUsername := r.GetOwner().GetLogin()
	if sourceUsername == "" {
		sourceUsername = username
	}

	var lastUpdated *time.Time
	if !r.GetUpdatedAt().IsZero() {
		t := r.GetUpdatedAt().Time
		lastUpdated = &t
	}

	return model.RepoRecord{
		Name:            r.GetName(),
		SourceType:      model.SourceGitHub,
		SourceUsername:  sourceUsername,
		SourceRepo:      r.GetName(),
		SourceURL:       r.GetHTMLURL(),
		LiveURL:         r.GetHomepage(),
		ThumbnailURL:    r.GetOwner().GetAvatarURL(),
		Description:     r.GetDescription(),
		StarsCount:      r.GetStargazersCount(),
		ForksCount:      r.GetForksCount(),
		WatchersCount:   r.GetWatchersCount(),
		OpenIssuesCount: r.GetOpenIssuesCount(),
		Language:        r.GetLanguage(),
		Topics:          r.Topics,
		DefaultBranch:   r.GetDefaultBranch(),
		LastUpdated:     lastUpdated,
		Details: map[string]any{
			"license":   r.GetLicense().GetName(),
			"size":      r.GetSize(),
			"has_wiki":  r.GetHasWiki(),
			"has_pages": r.GetHasPages(),
			"languages": map[string]int{},
		},
		Archived: r.GetArchived(),
	}
}

func isGitHubNotFound(err error) bool {
	var ghErr *github.ErrorResponse
	return errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound
}
