package folio

import (
	"context"
	"encoding/json"
)

// Exporter persists the final ordered set of scraped projects.
type Exporter interface {
	Export(ctx context.Context, projects []*Project) error
}

// Columns is the header of the tabular export.
var Columns = []string{
	"Project Name",
	"Location",
	"Client/Developer",
	"Classifications",
	"Project URL",
	"Description",
	"Facts",
}

// Row flattens a project into one tabular row matching Columns.
// Classifications and facts are encoded as JSON so they fit in one cell.
func Row(p *Project) ([]string, error) {
	classifications := p.Classifications
	if classifications == nil {
		classifications = []string{}
	}
	tags, err := json.Marshal(classifications)
	if err != nil {
		return nil, err
	}

	facts := p.Facts
	if facts == nil {
		facts = map[string]string{}
	}
	factsJSON, err := json.Marshal(facts)
	if err != nil {
		return nil, err
	}

	return []string{
		p.Name,
		p.Location,
		p.Client,
		string(tags),
		p.SourceURL,
		p.Description,
		string(factsJSON),
	}, nil
}
