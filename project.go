package folio

import (
	"context"
	"time"
)

// Project is the record extracted from one project detail page.
type Project struct {
	Name            string            `json:"name"`
	Location        string            `json:"location"`
	Client          string            `json:"client"`
	Classifications []string          `json:"classifications"`
	SourceURL       string            `json:"sourceUrl"`
	Description     string            `json:"description"`
	Facts           map[string]string `json:"facts"`
}

// Validate returns an error if a required field is empty.
func (p *Project) Validate() error {
	switch {
	case p.SourceURL == "":
		return Errorf(EINVALID, "project source URL required")
	case p.Name == "":
		return Errorf(EINVALID, "project name required")
	case p.Location == "":
		return Errorf(EINVALID, "project location required")
	case p.Client == "":
		return Errorf(EINVALID, "project client required")
	case p.Description == "":
		return Errorf(EINVALID, "project description required")
	}
	return nil
}

// DetailParser extracts a Project from one detail page.
type DetailParser interface {
	// ParseProject returns EUNPARSEABLE when a required element is missing.
	ParseProject(html string, sourceURL string) (*Project, error)
}

// StoredProject is a Project persisted by a ProjectService.
type StoredProject struct {
	Project

	ID          string    `json:"id"`
	ContentHash string    `json:"contentHash"`
	ScrapedAt   time.Time `json:"scrapedAt"`
}

// ProjectService represents a service for storing scraped projects.
type ProjectService interface {
	// SaveProject inserts the project or updates the row with the same
	// source URL. The changed result is false when the stored content
	// was already identical.
	SaveProject(ctx context.Context, project *Project) (saved *StoredProject, changed bool, err error)

	// FindProjectByURL retrieves a project by its source URL.
	// Returns ENOTFOUND if the project does not exist.
	FindProjectByURL(ctx context.Context, sourceURL string) (*StoredProject, error)

	// FindProjects retrieves projects matching the filter.
	FindProjects(ctx context.Context, filter ProjectFilter) ([]*StoredProject, error)

	// DeleteProject permanently removes a project.
	// Returns ENOTFOUND if the project does not exist.
	DeleteProject(ctx context.Context, id string) error
}

// ProjectFilter represents a filter for FindProjects.
type ProjectFilter struct {
	Client         *string `json:"client"`
	Classification *string `json:"classification"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
