package crawl_test

import (
	"errors"
	"testing"

	"github.com/fwojciec/folio"
	"github.com/fwojciec/folio/crawl"
	"github.com/stretchr/testify/assert"
)

func TestTruncateURL(t *testing.T) {
	t.Parallel()

	t.Run("returns URL unchanged when shorter than max", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "https://x.com", crawl.TruncateURL("https://x.com", 50))
	})

	t.Run("truncates with ellipsis when longer than max", func(t *testing.T) {
		t.Parallel()
		url := "https://ktgy.com/Work/very-long-project-name"
		result := crawl.TruncateURL(url, 20)
		assert.Equal(t, "...long-project-name", result)
		assert.Len(t, result, 20)
	})

	t.Run("returns URL unchanged when exactly max length", func(t *testing.T) {
		t.Parallel()
		url := "https://ktgy.com"
		assert.Equal(t, url, crawl.TruncateURL(url, len(url)))
	})

	t.Run("returns empty string when maxLen is not positive", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, crawl.TruncateURL("https://ktgy.com", 0))
		assert.Empty(t, crawl.TruncateURL("https://ktgy.com", -1))
	})

	t.Run("returns prefix of URL when maxLen is very small", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "htt", crawl.TruncateURL("https://ktgy.com", 3))
		assert.Equal(t, "h", crawl.TruncateURL("https://ktgy.com", 1))
		assert.Equal(t, "ab", crawl.TruncateURL("ab", 3))
	})
}

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	t.Run("counts discovered, extracted and failed pages", func(t *testing.T) {
		t.Parallel()
		r := &crawl.Result{
			Discovered: 3,
			Projects:   []*folio.Project{{Name: "A"}, {Name: "C"}},
			Failures:   []crawl.Failure{{URL: "https://ktgy.com/Work/b", Err: errors.New("boom")}},
		}
		assert.Equal(t, "discovered 3, extracted 2, failed 1", crawl.FormatSummary(r))
	})

	t.Run("nil result reports zeros", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "discovered 0, extracted 0, failed 0", crawl.FormatSummary(nil))
	})
}
