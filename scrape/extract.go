package scrape

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"
)

// Columns maps each grid column to the CSS selector of its cells.
type Columns struct {
	Date     string
	Project  string
	Activity string
	WorkItem string
	Comment  string
}

// ExtractColumns parses rendered grid markup and collects the value of every
// cell matched by the column selectors, in document order.
func ExtractColumns(html string, columns Columns) (Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Snapshot{}, fmt.Errorf("parse grid html: %w", err)
	}

	return Snapshot{
		Date:     collect(doc, columns.Date),
		Project:  collect(doc, columns.Project),
		Activity: collect(doc, columns.Activity),
		WorkItem: collect(doc, columns.WorkItem),
		Comment:  collect(doc, columns.Comment),
	}, nil
}

func collect(doc *goquery.Document, selector string) []string {
	if strings.TrimSpace(selector) == "" {
		return nil
	}
	selection := doc.Find(selector)
	out := make([]string, 0, selection.Length())
	selection.Each(func(_ int, s *goquery.Selection) {
		out = append(out, cellValue(s))
	})
	return out
}

func cellValue(s *goquery.Selection) string {
	switch goquery.NodeName(s) {
	case "input", "textarea", "select":
		if value, ok := s.Attr("value"); ok {
			return clean(value)
		}
		if goquery.NodeName(s) == "textarea" {
			return clean(s.Text())
		}
		return ""
	default:
		text := clean(s.Text())
		if value, ok := s.Attr("title"); ok && text == "" {
			return clean(value)
		}
		return text
	}
}

// clean folds compatibility characters such as non-breaking spaces and
// full-width digits so equal cells compare equal.
func clean(value string) string {
	return strings.TrimSpace(norm.NFKC.String(value))
}
