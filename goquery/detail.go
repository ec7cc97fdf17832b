package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/folio"
)

// Structural markers of a project detail page.
const (
	infoSelector        = "section.project-info"
	clientSelector      = "p.body-copy"
	tagsSelector        = "div.project-info__tags"
	descriptionSelector = "section.module.copy_block.copy_block-v1"
	factsSelector       = "section.module.callout_expandable"
	factBoxesSelector   = "div.callout_expandable__boxes.row"
)

var (
	titleSelector    = headingWithClass("project-info__title")
	locationSelector = headingWithClass("project-info__location")
	anyHeading       = "h1, h2, h3, h4, h5, h6"
)

var _ folio.DetailParser = (*DetailParser)(nil)

// DetailParser extracts project records from detail pages.
//
// The info block (title, location, client) and the description are
// required. Classification tags and the facts callout are optional and
// come back empty when absent.
type DetailParser struct{}

// NewDetailParser creates a new DetailParser.
func NewDetailParser() *DetailParser {
	return &DetailParser{}
}

// ParseProject extracts a Project from the HTML of the page at sourceURL.
// A missing required element yields an EUNPARSEABLE error naming the URL.
func (p *DetailParser) ParseProject(html string, sourceURL string) (*folio.Project, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, folio.Errorf(folio.EUNPARSEABLE, "%s: failed to parse HTML: %v", sourceURL, err)
	}

	info := doc.Find(infoSelector).First()
	if info.Length() == 0 {
		return nil, unparseable(sourceURL, "project info section")
	}

	name := firstText(info, titleSelector)
	if name == "" {
		return nil, unparseable(sourceURL, "project title")
	}
	location := firstText(info, locationSelector)
	if location == "" {
		return nil, unparseable(sourceURL, "project location")
	}
	client := firstText(info, clientSelector)
	if client == "" {
		return nil, unparseable(sourceURL, "project client")
	}

	descSection := doc.Find(descriptionSelector).First()
	if descSection.Length() == 0 {
		return nil, unparseable(sourceURL, "description section")
	}
	description := concatText(descSection.Find("p"))
	if description == "" {
		return nil, unparseable(sourceURL, "description text")
	}

	return &folio.Project{
		Name:            name,
		Location:        location,
		Client:          client,
		Classifications: classifications(info),
		SourceURL:       sourceURL,
		Description:     description,
		Facts:           facts(doc),
	}, nil
}

// classifications returns every tag text in page order, blank ones included,
// or an empty slice when the tags container is absent.
func classifications(info *goquery.Selection) []string {
	tags := []string{}
	info.Find(tagsSelector).First().Find("li").Each(func(_ int, li *goquery.Selection) {
		tags = append(tags, strings.TrimSpace(li.Text()))
	})
	return tags
}

// facts pairs label paragraphs with value headings by position.
// Unmatched trailing labels or values are dropped.
func facts(doc *goquery.Document) map[string]string {
	result := make(map[string]string)

	boxes := doc.Find(factsSelector).First().Find(factBoxesSelector).First()
	if boxes.Length() == 0 {
		return result
	}

	labels := texts(boxes.Find("p"))
	values := texts(boxes.Find(anyHeading))
	n := min(len(labels), len(values))
	for i := 0; i < n; i++ {
		result[labels[i]] = values[i]
	}
	return result
}

// firstText returns the trimmed text of the first match of selector.
func firstText(sel *goquery.Selection, selector string) string {
	return strings.TrimSpace(sel.Find(selector).First().Text())
}

// concatText joins the text of every element with no separator.
// Only the ends of the result are trimmed.
func concatText(sel *goquery.Selection) string {
	var b strings.Builder
	sel.Each(func(_ int, s *goquery.Selection) {
		b.WriteString(s.Text())
	})
	return strings.TrimSpace(b.String())
}

func texts(sel *goquery.Selection) []string {
	out := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.TrimSpace(s.Text()))
	})
	return out
}

func headingWithClass(class string) string {
	selectors := make([]string, 0, 6)
	for _, h := range []string{"h1", "h2", "h3", "h4", "h5", "h6"} {
		selectors = append(selectors, h+"."+class)
	}
	return strings.Join(selectors, ", ")
}

func unparseable(sourceURL, what string) error {
	return folio.Errorf(folio.EUNPARSEABLE, "%s: missing %s", sourceURL, what)
}
