package mock

import (
	"context"

	"github.com/fwojciec/folio"
)

var (
	_ folio.DetailParser   = (*DetailParser)(nil)
	_ folio.ProjectService = (*ProjectService)(nil)
	_ folio.Exporter       = (*Exporter)(nil)
)

// DetailParser is a mock implementation of folio.DetailParser.
type DetailParser struct {
	ParseProjectFn func(html, sourceURL string) (*folio.Project, error)
}

func (p *DetailParser) ParseProject(html, sourceURL string) (*folio.Project, error) {
	return p.ParseProjectFn(html, sourceURL)
}

// ProjectService is a mock implementation of folio.ProjectService.
type ProjectService struct {
	SaveProjectFn      func(ctx context.Context, p *folio.Project) (*folio.StoredProject, bool, error)
	FindProjectByURLFn func(ctx context.Context, url string) (*folio.StoredProject, error)
	FindProjectsFn     func(ctx context.Context, filter folio.ProjectFilter) ([]*folio.StoredProject, error)
	DeleteProjectFn    func(ctx context.Context, id string) error
}

func (s *ProjectService) SaveProject(ctx context.Context, p *folio.Project) (*folio.StoredProject, bool, error) {
	return s.SaveProjectFn(ctx, p)
}

func (s *ProjectService) FindProjectByURL(ctx context.Context, url string) (*folio.StoredProject, error) {
	return s.FindProjectByURLFn(ctx, url)
}

func (s *ProjectService) FindProjects(ctx context.Context, filter folio.ProjectFilter) ([]*folio.StoredProject, error) {
	return s.FindProjectsFn(ctx, filter)
}

func (s *ProjectService) DeleteProject(ctx context.Context, id string) error {
	return s.DeleteProjectFn(ctx, id)
}

// Exporter is a mock implementation of folio.Exporter.
type Exporter struct {
	ExportFn func(ctx context.Context, projects []*folio.Project) error
}

func (e *Exporter) Export(ctx context.Context, projects []*folio.Project) error {
	return e.ExportFn(ctx, projects)
}
