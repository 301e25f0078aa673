// internal/catalog/postgres.go
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fr4iser90/aboutME/internal/model"
)

const projectColumns = `
	id, name, source_type, source_username, source_repo,
	source_url, live_url, thumbnail_url, description, status,
	stars_count, forks_count, watchers_count, open_issues_count,
	language, topics, default_branch, last_updated, details,
	highlights, learnings, role_notes, custom_tags,
	display_order, is_visible, created_at, updated_at`

// Postgres is the pgx-backed Store implementation. Every call is one
// statement, i.e. one transactional unit of work per item.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an existing connection pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) FindByIdentity(ctx context.Context, key model.IdentityKey) (model.Project, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT`+projectColumns+`
		FROM projects
		WHERE name = $1 AND source_type = $2 AND source_username = $3`,
		key.Name, string(key.SourceType), key.SourceUsername)

	p, err := scanProject(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Project{}, ErrNotFound
	}
	return p, err
}

func (s *Postgres) Create(ctx context.Context, p model.Project) (model.Project, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO projects (
			name, source_type, source_username, source_repo,
			source_url, live_url, thumbnail_url, description, status,
			stars_count, forks_count, watchers_count, open_issues_count,
			language, topics, default_branch, last_updated, details,
			highlights, learnings, role_notes, custom_tags,
			display_order, is_visible
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24
		)
		RETURNING`+projectColumns,
		p.Name, string(p.SourceType), p.SourceUsername, p.SourceRepo,
		p.SourceURL, p.LiveURL, p.ThumbnailURL, p.Description, string(p.Status),
		p.StarsCount, p.ForksCount, p.WatchersCount, p.OpenIssuesCount,
		p.Language, topicsOrEmpty(p.Topics), p.DefaultBranch, p.LastUpdated, p.Details,
		p.Highlights, p.Learnings, p.RoleNotes, topicsOrEmpty(p.CustomTags),
		p.DisplayOrder, p.IsVisible)

	return scanProject(row)
}

func (s *Postgres) UpdateSyncFields(ctx context.Context, id int64, f model.SyncFields) (model.Project, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE projects SET
			source_repo = $2,
			source_url = $3,
			live_url = $4,
			thumbnail_url = $5,
			description = $6,
			status = $7,
			stars_count = $8,
			forks_count = $9,
			watchers_count = $10,
			open_issues_count = $11,
			language = $12,
			topics = $13,
			default_branch = $14,
			last_updated = $15,
			details = $16,
			updated_at = now()
		WHERE id = $1
		RETURNING`+projectColumns,
		id,
		f.SourceRepo, f.SourceURL, f.LiveURL, f.ThumbnailURL,
		f.Description, string(f.Status),
		f.StarsCount, f.ForksCount, f.WatchersCount, f.OpenIssuesCount,
		f.Language, topicsOrEmpty(f.Topics), f.DefaultBranch, f.LastUpdated, f.Details)

	p, err := scanProject(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Project{}, ErrNotFound
	}
	return p, err
}

func (s *Postgres) ListBySource(ctx context.Context, source model.SourceType, username string) ([]model.Project, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT`+projectColumns+`
		FROM projects
		WHERE source_type = $1 AND source_username = $2
		ORDER BY display_order, name`,
		string(source), username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProjects(rows)
}

func (s *Postgres) ListVisible(ctx context.Context) ([]model.Project, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT`+projectColumns+`
		FROM projects
		WHERE is_visible
		ORDER BY display_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProjects(rows)
}

func scanProject(row pgx.Row) (model.Project, error) {
	var p model.Project
	var sourceType, status string
	err := row.Scan(
		&p.ID, &p.Name, &sourceType, &p.SourceUsername, &p.SourceRepo,
		&p.SourceURL, &p.LiveURL, &p.ThumbnailURL, &p.Description, &status,
		&p.StarsCount, &p.ForksCount, &p.WatchersCount, &p.OpenIssuesCount,
		&p.Language, &p.Topics, &p.DefaultBranch, &p.LastUpdated, &p.Details,
		&p.Highlights, &p.Learnings, &p.RoleNotes, &p.CustomTags,
		&p.DisplayOrder, &p.IsVisible, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Project{}, err
	}
	p.SourceType = model.SourceType(sourceType)
	p.Status = model.Status(status)
	return p, nil
}

func scanProjects(rows pgx.Rows) ([]model.Project, error) {
	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// topicsOrEmpty avoids writing NULL into TEXT[] columns declared NOT NULL.
func topicsOrEmpty(ts []string) []string {
	if ts == nil {
		return []string{}
	}
	return ts
}
