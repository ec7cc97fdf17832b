package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/folio"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := folio.ProjectFilter{Limit: c.Limit}
	if c.Client != "" {
		filter.Client = &c.Client
	}
	if c.Classification != "" {
		filter.Classification = &c.Classification
	}

	projects, err := deps.Projects.FindProjects(deps.Ctx, filter)
	if err != nil {
		return report(deps.Stderr, err)
	}

	if len(projects) == 0 {
		fmt.Fprintln(deps.Stdout, "No projects found. Use 'folio scrape --store' to collect some.")
		return nil
	}

	for _, p := range projects {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  [%s]  %s\n",
			p.Name, p.Location, p.Client, strings.Join(p.Classifications, ", "), p.SourceURL)
	}

	return nil
}
