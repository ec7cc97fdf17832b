package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/folio"
	"github.com/fwojciec/folio/crawl"
	"github.com/fwojciec/folio/excelize"
	"github.com/fwojciec/folio/fs"
	"github.com/fwojciec/folio/goquery"
	foliohttp "github.com/fwojciec/folio/http"
	"github.com/fwojciec/folio/rod"
	folioslog "github.com/fwojciec/folio/slog"
	"github.com/fwojciec/folio/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

// reportedError marks an error a command has already printed.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// report prints the user-facing message of err and marks it as printed.
func report(w io.Writer, err error) error {
	fmt.Fprintf(w, "error: %s\n", folio.ErrorMessage(err))
	return &reportedError{err: err}
}

// PrintError writes err to w unless a command already reported it.
// Application errors print their message; anything else prints in full.
func PrintError(w io.Writer, err error) {
	var r *reportedError
	if errors.As(err, &r) {
		return
	}
	msg := err.Error()
	var e *folio.Error
	if errors.As(err, &e) {
		msg = e.Message
	}
	fmt.Fprintf(w, "error: %s\n", msg)
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run(); --db overrides it.
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// closers release transports opened for the current command.
	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var firstErr error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	if m.DB != nil {
		if err := m.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		m.DB = nil
	}
	return firstErr
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("folio"),
		kong.Description("Scrape an architecture firm's project portfolio into a table"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'folio --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if cli.DB != "" {
		m.DBPath = cli.DB
	}
	defer m.Close()

	switch kongCtx.Command() {
	case "discover":
		source, err := m.wireDiscoverer(cli.Discover.DiscoveryFlags, cli.Verbose, deps.Logger, stderr)
		if err != nil {
			return err
		}
		deps.Source = source
	case "scrape":
		scraper, err := m.wireScraper(&cli.Scrape, cli.Verbose, deps.Logger, stderr)
		if err != nil {
			return err
		}
		deps.Scraper = scraper
	case "list":
		projects, err := m.openProjects(stderr)
		if err != nil {
			return err
		}
		deps.Projects = projects
	}

	return kongCtx.Run(deps)
}

// wireDiscoverer builds the listing traversal for the chosen strategy.
func (m *Main) wireDiscoverer(flags DiscoveryFlags, verbose bool, logger *slog.Logger, stderr io.Writer) (folio.URLSource, error) {
	site := folio.DefaultSite()
	site.BaseURL = flags.BaseURL
	if err := site.Validate(); err != nil {
		return nil, err
	}
	strategy := folio.Strategy(flags.Strategy)
	if err := strategy.Validate(); err != nil {
		return nil, err
	}

	listings, err := goquery.NewListingParser(site)
	if err != nil {
		return nil, err
	}

	d := &crawl.Discoverer{
		Strategy: strategy,
		Site:     site,
		Listings: listings,
		Limiter:  crawl.NewLimiter(flags.Pause),
		Logger:   logger,
	}

	switch strategy {
	case folio.StrategyPaginated:
		d.Fetcher = m.httpFetcher(flags, verbose, logger)
	case folio.StrategyExpand:
		browser, err := m.browser(flags, stderr)
		if err != nil {
			return nil, err
		}
		d.Expander = browser
		if verbose {
			d.Expander = folioslog.NewLoggingExpander(browser, logger)
		}
	}

	if verbose {
		return folioslog.NewLoggingURLSource(d, logger), nil
	}
	return d, nil
}

func (m *Main) wireScraper(cmd *ScrapeCmd, verbose bool, logger *slog.Logger, stderr io.Writer) (*crawl.Scraper, error) {
	source, err := m.wireDiscoverer(cmd.DiscoveryFlags, verbose, logger, stderr)
	if err != nil {
		return nil, err
	}

	s := &crawl.Scraper{
		Source: source,
		Parser: goquery.NewDetailParser(),
		Logger: logger,
	}

	if cmd.Render {
		browser, err := m.browser(cmd.DiscoveryFlags, stderr)
		if err != nil {
			return nil, err
		}
		s.Fetcher = browser
		if verbose {
			s.Fetcher = folioslog.NewLoggingFetcher(browser, logger)
		}
	} else {
		s.Fetcher = m.httpFetcher(cmd.DiscoveryFlags, verbose, logger)
	}

	addExporter := func(e folio.Exporter, name string) {
		if verbose {
			e = folioslog.NewLoggingExporter(e, name, logger)
		}
		s.Exporters = append(s.Exporters, e)
	}
	if cmd.CSV != "" {
		addExporter(fs.NewCSVExporter(cmd.CSV), cmd.CSV)
	}
	if cmd.XLSX != "" {
		addExporter(excelize.NewExporter(cmd.XLSX), cmd.XLSX)
	}
	if cmd.Store {
		projects, err := m.openProjects(stderr)
		if err != nil {
			return nil, err
		}
		addExporter(projects, m.DBPath)
	}

	return s, nil
}

func (m *Main) httpFetcher(flags DiscoveryFlags, verbose bool, logger *slog.Logger) folio.Fetcher {
	var f folio.Fetcher = foliohttp.NewFetcher(foliohttp.WithTimeout(flags.Timeout))
	if verbose {
		f = folioslog.NewLoggingFetcher(f, logger)
	}
	return f
}

// browser launches one browser per command and reuses it for both listing
// expansion and rendered detail pages.
func (m *Main) browser(flags DiscoveryFlags, stderr io.Writer) (*rod.Fetcher, error) {
	for _, c := range m.closers {
		if b, ok := c.(*rod.Fetcher); ok {
			return b, nil
		}
	}
	b, err := rod.NewFetcher(
		rod.WithFetchTimeout(flags.Timeout),
		rod.WithLoadMoreLabel(flags.LoadMoreLabel),
		rod.WithMaxExpansions(flags.MaxExpansions),
	)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	m.closers = append(m.closers, b)
	return b, nil
}

func (m *Main) openProjects(stderr io.Writer) (*sqlite.ProjectService, error) {
	if m.DB == nil {
		if dir := filepath.Dir(m.DBPath); dir != "." {
			_ = os.MkdirAll(dir, 0755)
		}
		db := sqlite.NewDB(m.DBPath)
		if err := db.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set FOLIO_DB to use a different database path\n")
			return nil, fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		m.DB = db
	}
	return sqlite.NewProjectService(m.DB), nil
}

func defaultDBPath() string {
	if path := os.Getenv("FOLIO_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "folio.db"
	}
	return filepath.Join(home, ".folio", "folio.db")
}
