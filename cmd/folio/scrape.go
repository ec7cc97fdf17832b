package main

import (
	"fmt"

	"github.com/fwojciec/folio"
	"github.com/fwojciec/folio/crawl"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Found %d project URLs\n", event.Total)
		case crawl.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] %s\n", event.Completed, event.Total, crawl.TruncateURL(event.URL, 60))
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", event.URL, folio.ErrorMessage(event.Error))
		}
	}

	result, err := deps.Scraper.Run(deps.Ctx, progress)
	if err != nil {
		return report(deps.Stderr, err)
	}

	fmt.Fprintf(deps.Stdout, "Done: %s\n", crawl.FormatSummary(result))
	for _, path := range []string{c.CSV, c.XLSX} {
		if path != "" {
			fmt.Fprintf(deps.Stdout, "  wrote %s\n", path)
		}
	}

	return nil
}
