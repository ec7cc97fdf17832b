package crawl

import "fmt"

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		// Too short for "..." prefix, just return dots
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatSummary renders the counts of a run in one line.
func FormatSummary(r *Result) string {
	if r == nil {
		return "discovered 0, extracted 0, failed 0"
	}
	return fmt.Sprintf("discovered %d, extracted %d, failed %d",
		r.Discovered, len(r.Projects), len(r.Failures))
}
