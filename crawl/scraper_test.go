package crawl_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/fwojciec/folio"
	"github.com/fwojciec/folio/crawl"
	"github.com/fwojciec/folio/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	urlA = "https://ktgy.com/Work/a"
	urlB = "https://ktgy.com/Work/b"
	urlC = "https://ktgy.com/Work/c"
)

func staticSource(urls ...string) *mock.URLSource {
	return &mock.URLSource{DiscoverFn: func(context.Context) ([]string, error) {
		return urls, nil
	}}
}

// echoFetcher returns the URL itself as the page body.
func echoFetcher() *mock.Fetcher {
	return &mock.Fetcher{FetchFn: func(_ context.Context, url string) (string, error) {
		return url, nil
	}}
}

// titledParser fails for pages whose body names a page without a title.
func titledParser(untitled string) *mock.DetailParser {
	return &mock.DetailParser{ParseProjectFn: func(html, sourceURL string) (*folio.Project, error) {
		if html == untitled {
			return nil, folio.Errorf(folio.EUNPARSEABLE, "%s: missing title", sourceURL)
		}
		return &folio.Project{
			Name:        "Project " + sourceURL[len(sourceURL)-1:],
			Location:    "Irvine, CA",
			Client:      "Client",
			SourceURL:   sourceURL,
			Description: "Description",
		}, nil
	}}
}

func TestScraper_Scrape(t *testing.T) {
	t.Parallel()

	t.Run("skips an unparseable page and keeps the rest", func(t *testing.T) {
		t.Parallel()

		var logs bytes.Buffer
		s := &crawl.Scraper{
			Source:  staticSource(urlA, urlB, urlC),
			Fetcher: echoFetcher(),
			Parser:  titledParser(urlB),
			Logger:  slog.New(slog.NewTextHandler(&logs, nil)),
		}

		result, err := s.Scrape(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, 3, result.Discovered)
		require.Len(t, result.Projects, 2)
		assert.Equal(t, urlA, result.Projects[0].SourceURL)
		assert.Equal(t, urlC, result.Projects[1].SourceURL)
		require.Len(t, result.Failures, 1)
		assert.Equal(t, urlB, result.Failures[0].URL)
		assert.Equal(t, folio.EUNPARSEABLE, folio.ErrorCode(result.Failures[0].Err))
		assert.Contains(t, logs.String(), "url="+urlB)
		assert.Contains(t, logs.String(), "code=unparseable")
	})

	t.Run("skips a page that cannot be fetched", func(t *testing.T) {
		t.Parallel()

		s := &crawl.Scraper{
			Source: staticSource(urlA, urlB),
			Fetcher: &mock.Fetcher{FetchFn: func(_ context.Context, url string) (string, error) {
				if url == urlA {
					return "", folio.Errorf(folio.ETRANSPORT, "HTTP 404 for %s", url)
				}
				return url, nil
			}},
			Parser: titledParser(""),
		}

		result, err := s.Scrape(context.Background(), nil)

		require.NoError(t, err)
		require.Len(t, result.Projects, 1)
		assert.Equal(t, urlB, result.Projects[0].SourceURL)
		require.Len(t, result.Failures, 1)
		assert.Equal(t, folio.ETRANSPORT, folio.ErrorCode(result.Failures[0].Err))
	})

	t.Run("rejects records missing required fields", func(t *testing.T) {
		t.Parallel()

		s := &crawl.Scraper{
			Source:  staticSource(urlA),
			Fetcher: echoFetcher(),
			Parser: &mock.DetailParser{ParseProjectFn: func(_, sourceURL string) (*folio.Project, error) {
				return &folio.Project{Name: "A", SourceURL: sourceURL}, nil
			}},
		}

		result, err := s.Scrape(context.Background(), nil)

		require.NoError(t, err)
		assert.Empty(t, result.Projects)
		require.Len(t, result.Failures, 1)
		assert.Equal(t, folio.EINVALID, folio.ErrorCode(result.Failures[0].Err))
	})

	t.Run("discovery failure aborts the run", func(t *testing.T) {
		t.Parallel()

		s := &crawl.Scraper{
			Source: &mock.URLSource{DiscoverFn: func(context.Context) ([]string, error) {
				return nil, folio.Errorf(folio.ETRANSPORT, "listing unreachable")
			}},
		}

		result, err := s.Scrape(context.Background(), nil)

		require.Error(t, err)
		assert.Nil(t, result)
		assert.Equal(t, folio.ETRANSPORT, folio.ErrorCode(err))
	})

	t.Run("canceled context stops extraction", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		var fetched []string
		s := &crawl.Scraper{
			Source: staticSource(urlA, urlB),
			Fetcher: &mock.Fetcher{FetchFn: func(_ context.Context, url string) (string, error) {
				fetched = append(fetched, url)
				cancel()
				return url, nil
			}},
			Parser: titledParser(""),
		}

		_, err := s.Scrape(ctx, nil)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, []string{urlA}, fetched)
	})

	t.Run("reports progress for every page", func(t *testing.T) {
		t.Parallel()

		s := &crawl.Scraper{
			Source:  staticSource(urlA, urlB),
			Fetcher: echoFetcher(),
			Parser:  titledParser(urlB),
		}
		var events []crawl.ProgressEvent

		_, err := s.Scrape(context.Background(), func(e crawl.ProgressEvent) {
			events = append(events, e)
		})

		require.NoError(t, err)
		require.Len(t, events, 4)
		assert.Equal(t, crawl.ProgressStarted, events[0].Type)
		assert.Equal(t, 2, events[0].Total)
		assert.Equal(t, crawl.ProgressCompleted, events[1].Type)
		assert.Equal(t, urlA, events[1].URL)
		assert.Equal(t, 1, events[1].Completed)
		assert.Equal(t, crawl.ProgressFailed, events[2].Type)
		assert.Equal(t, urlB, events[2].URL)
		require.Error(t, events[2].Error)
		assert.Equal(t, crawl.ProgressFinished, events[3].Type)
		assert.Equal(t, 2, events[3].Completed)
	})
}

func TestScraper_Run(t *testing.T) {
	t.Parallel()

	t.Run("hands the records to every exporter", func(t *testing.T) {
		t.Parallel()

		var got [][]string
		exporter := func() *mock.Exporter {
			return &mock.Exporter{ExportFn: func(_ context.Context, projects []*folio.Project) error {
				var urls []string
				for _, p := range projects {
					urls = append(urls, p.SourceURL)
				}
				got = append(got, urls)
				return nil
			}}
		}
		s := &crawl.Scraper{
			Source:    staticSource(urlA, urlB, urlC),
			Fetcher:   echoFetcher(),
			Parser:    titledParser(urlB),
			Exporters: []folio.Exporter{exporter(), exporter()},
		}

		result, err := s.Run(context.Background(), nil)

		require.NoError(t, err)
		assert.Len(t, result.Projects, 2)
		assert.Equal(t, [][]string{{urlA, urlC}, {urlA, urlC}}, got)
	})

	t.Run("export failure is returned with the result", func(t *testing.T) {
		t.Parallel()

		s := &crawl.Scraper{
			Source:  staticSource(urlA),
			Fetcher: echoFetcher(),
			Parser:  titledParser(""),
			Exporters: []folio.Exporter{&mock.Exporter{ExportFn: func(context.Context, []*folio.Project) error {
				return errors.New("disk full")
			}}},
		}

		result, err := s.Run(context.Background(), nil)

		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "disk full"))
		require.NotNil(t, result)
		assert.Len(t, result.Projects, 1)
	})
}
