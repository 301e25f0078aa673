// internal/model/project.go
package model

import "time"

// SourceType identifies where a project originated.
type SourceType string

const (
	SourceGitHub SourceType = "github"
	SourceGitLab SourceType = "gitlab"
	// SourceManual marks projects created by the operator in the admin UI.
	// Sync never produces or touches manual projects.
	SourceManual SourceType = "manual"
)

// Status is the project lifecycle state shown on the public site.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusWIP      Status = "WIP"
	StatusArchived Status = "ARCHIVED"
	// StatusDeprecated is only ever set by the operator and survives sync.
	StatusDeprecated Status = "DEPRECATED"
)

// IdentityKey matches a remote repository to a local project.
// At most one project may exist per key.
type IdentityKey struct {
	Name           string
	SourceType     SourceType
	SourceUsername string
}

// Project is the catalog entity. Sync writes only the fields collected in
// SyncFields; everything else belongs to the operator and must survive a
// sync update untouched.
type Project struct {
	ID              int64
	Name            string
	SourceType      SourceType
	SourceUsername  string
	SourceRepo      string
	SourceURL       string
	LiveURL         string
	ThumbnailURL    string
	Description     string
	Status          Status
	StarsCount      int
	ForksCount      int
	WatchersCount   int
	OpenIssuesCount int
	Language        string
	Topics          []string
	DefaultBranch   string
	LastUpdated     *time.Time
	Details         map[string]any

	// Operator-owned fields.
	Highlights   string
	Learnings    string
	RoleNotes    string
	CustomTags   []string
	DisplayOrder int
	IsVisible    bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity returns the project's identity key.
func (p *Project) Identity() IdentityKey {
	return IdentityKey{Name: p.Name, SourceType: p.SourceType, SourceUsername: p.SourceUsername}
}

// SyncFields is the fixed subset of project columns a sync run is allowed to
// write on an existing project. The catalog update statement touches these
// columns and nothing else.
type SyncFields struct {
	SourceRepo      string
	SourceURL       string
	LiveURL         string
	ThumbnailURL    string
	Description     string
	Status          Status
	StarsCount      int
	ForksCount      int
	WatchersCount   int
	OpenIssuesCount int
	Language        string
	Topics          []string
	DefaultBranch   string
	LastUpdated     *time.Time
	Details         map[string]any
}
