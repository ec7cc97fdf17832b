package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/folio"
	"github.com/fwojciec/folio/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Source   folio.URLSource
	Scraper  *crawl.Scraper
	Projects folio.ProjectService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool   `short:"v" help:"Log every fetch, expansion and export"`
	DB      string `name:"db" env:"FOLIO_DB" help:"SQLite database path (default: ~/.folio/folio.db)"`

	Discover DiscoverCmd `cmd:"" help:"Print the project URLs found on the listing"`
	Scrape   ScrapeCmd   `cmd:"" help:"Discover and extract every project, then export"`
	List     ListCmd     `cmd:"" help:"List projects stored in the database"`
}

// DiscoveryFlags configure how the listing is traversed.
type DiscoveryFlags struct {
	BaseURL       string        `name:"base-url" default:"https://ktgy.com" help:"Site root"`
	Strategy      string        `short:"s" default:"paginated" enum:"paginated,expand" help:"Listing traversal: paginated or expand"`
	Timeout       time.Duration `short:"t" default:"30s" help:"Fetch timeout per page"`
	Pause         time.Duration `default:"250ms" help:"Pause between listing page fetches"`
	LoadMoreLabel string        `name:"load-more-label" default:"Load More" help:"Text of the expansion control"`
	MaxExpansions int           `name:"max-expansions" default:"500" help:"Maximum expansion clicks"`
}

// DiscoverCmd is the "discover" subcommand.
type DiscoverCmd struct {
	DiscoveryFlags `embed:""`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	DiscoveryFlags `embed:""`

	CSV    string `name:"csv" default:"./data/ktgy_projects.csv" help:"CSV output path (empty to skip)"`
	XLSX   string `name:"xlsx" default:"./data/ktgy_projects.xlsx" help:"XLSX output path (empty to skip)"`
	Store  bool   `help:"Also save projects to the database"`
	Render bool   `help:"Render detail pages in the browser instead of fetching them over HTTP"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Client         string `help:"Only projects for this client"`
	Classification string `help:"Only projects with this classification"`
	Limit          int    `short:"n" help:"Maximum number of projects"`
}
