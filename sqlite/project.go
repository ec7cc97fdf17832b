package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/folio"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var (
	_ folio.ProjectService = (*ProjectService)(nil)
	_ folio.Exporter       = (*ProjectService)(nil)
)

// querier is satisfied by both *DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const projectColumns = `id, source_url, name, location, client, classifications,
	description, facts, content_hash, scraped_at`

// ProjectService implements folio.ProjectService using SQLite.
type ProjectService struct {
	db  *DB
	now func() time.Time
}

// NewProjectService creates a new ProjectService.
func NewProjectService(db *DB) *ProjectService {
	return &ProjectService{db: db, now: time.Now}
}

// SaveProject inserts the project or updates the row with the same source
// URL. Rows whose content hash is unchanged are left untouched.
func (s *ProjectService) SaveProject(ctx context.Context, project *folio.Project) (*folio.StoredProject, bool, error) {
	return s.save(ctx, s.db, project)
}

// Export saves all projects in a single transaction.
func (s *ProjectService) Export(ctx context.Context, projects []*folio.Project) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin export: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range projects {
		if _, _, err := s.save(ctx, tx, p); err != nil {
			return fmt.Errorf("saving %s: %w", p.SourceURL, err)
		}
	}
	return tx.Commit()
}

func (s *ProjectService) save(ctx context.Context, q querier, project *folio.Project) (*folio.StoredProject, bool, error) {
	if err := project.Validate(); err != nil {
		return nil, false, err
	}

	classifications, facts, err := encodeCollections(project)
	if err != nil {
		return nil, false, err
	}
	hash := contentHash(project, classifications, facts)

	existing, err := findByURL(ctx, q, project.SourceURL)
	if err != nil && folio.ErrorCode(err) != folio.ENOTFOUND {
		return nil, false, err
	}
	if existing != nil && existing.ContentHash == hash {
		return existing, false, nil
	}

	stored := &folio.StoredProject{
		Project:     *project,
		ContentHash: hash,
		ScrapedAt:   s.now().UTC().Truncate(time.Second),
	}

	if existing != nil {
		stored.ID = existing.ID
		_, err = q.ExecContext(ctx, `
			UPDATE projects
			SET name = ?, location = ?, client = ?, classifications = ?,
				description = ?, facts = ?, content_hash = ?, scraped_at = ?
			WHERE id = ?
		`, project.Name, project.Location, project.Client, classifications,
			project.Description, facts, hash, stored.ScrapedAt.Format(time.RFC3339), stored.ID)
		if err != nil {
			return nil, false, err
		}
		return stored, true, nil
	}

	stored.ID = uuid.New().String()
	_, err = q.ExecContext(ctx, `
		INSERT INTO projects (`+projectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, stored.ID, project.SourceURL, project.Name, project.Location, project.Client,
		classifications, project.Description, facts, hash, stored.ScrapedAt.Format(time.RFC3339))
	if err != nil {
		return nil, false, err
	}
	return stored, true, nil
}

// FindProjectByURL retrieves a project by its source URL.
func (s *ProjectService) FindProjectByURL(ctx context.Context, sourceURL string) (*folio.StoredProject, error) {
	return findByURL(ctx, s.db, sourceURL)
}

func findByURL(ctx context.Context, q querier, sourceURL string) (*folio.StoredProject, error) {
	row := q.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE source_url = ?`, sourceURL)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, folio.Errorf(folio.ENOTFOUND, "project not found")
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// FindProjects retrieves projects matching the filter ordered by source URL.
func (s *ProjectService) FindProjects(ctx context.Context, filter folio.ProjectFilter) ([]*folio.StoredProject, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + projectColumns + " FROM projects WHERE 1=1")

	if filter.Client != nil {
		query.WriteString(" AND client = ?")
		args = append(args, *filter.Client)
	}
	if filter.Classification != nil {
		query.WriteString(" AND EXISTS (SELECT 1 FROM json_each(projects.classifications) WHERE json_each.value = ?)")
		args = append(args, *filter.Classification)
	}

	query.WriteString(" ORDER BY source_url ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*folio.StoredProject
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}

	return projects, rows.Err()
}

// DeleteProject permanently removes a project.
func (s *ProjectService) DeleteProject(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return folio.Errorf(folio.ENOTFOUND, "project not found")
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*folio.StoredProject, error) {
	var p folio.StoredProject
	var classifications, facts, scrapedAt string

	if err := row.Scan(&p.ID, &p.SourceURL, &p.Name, &p.Location, &p.Client,
		&classifications, &p.Description, &facts, &p.ContentHash, &scrapedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(classifications), &p.Classifications); err != nil {
		return nil, fmt.Errorf("failed to decode classifications: %w", err)
	}
	if err := json.Unmarshal([]byte(facts), &p.Facts); err != nil {
		return nil, fmt.Errorf("failed to decode facts: %w", err)
	}

	var err error
	p.ScrapedAt, err = parseRFC3339(scrapedAt, "scraped_at")
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// encodeCollections serializes classifications and facts as JSON, storing
// absent values as an empty array and object.
func encodeCollections(p *folio.Project) (classifications, facts string, err error) {
	tags := p.Classifications
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode classifications: %w", err)
	}
	classifications = string(b)

	m := p.Facts
	if m == nil {
		m = map[string]string{}
	}
	b, err = json.Marshal(m)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode facts: %w", err)
	}
	facts = string(b)

	return classifications, facts, nil
}

// contentHash fingerprints every stored field except the source URL, which
// is the row's identity.
func contentHash(p *folio.Project, classifications, facts string) string {
	h := xxhash.New()
	for _, field := range []string{p.Name, p.Location, p.Client, classifications, p.Description, facts} {
		_, _ = h.WriteString(field)
		_, _ = h.Write([]byte{0})
	}
	return fmt.Sprintf("%x", h.Sum64())
}
