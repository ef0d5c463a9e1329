package listing

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selectors locate the listing rows and pagination control.
type Selectors struct {
	Highlighted string // dark rows, emitted first in each pair
	Alternate   string // grey rows
	Anchor      string // link inside a row
	NextPage    string
}

// DefaultSelectors returns the selectors for the HLTV stats match listing.
func DefaultSelectors() Selectors {
	return Selectors{
		Highlighted: ".group-2.first",
		Alternate:   ".group-1.first",
		Anchor:      "a",
		NextPage:    ".pagination-next",
	}
}

// Page is one listing page: the raw hrefs of both row groups, in document
// order, and the next page address if there is one. A row without a link
// keeps its slot as an empty string so pairing stays aligned.
type Page struct {
	Highlighted []string
	Alternate   []string
	Next        string
}

// ParsePage extracts both row groups from a rendered listing document.
func ParsePage(html string, sel Selectors) (Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Page{}, fmt.Errorf("parse listing html: %w", err)
	}
	return Page{
		Highlighted: rowLinks(doc, sel.Highlighted, sel.Anchor),
		Alternate:   rowLinks(doc, sel.Alternate, sel.Anchor),
	}, nil
}

func rowLinks(doc *goquery.Document, rowSelector, anchorSelector string) []string {
	var hrefs []string
	doc.Find(rowSelector).Each(func(_ int, row *goquery.Selection) {
		href, _ := row.Find(anchorSelector).First().Attr("href")
		hrefs = append(hrefs, strings.TrimSpace(href))
	})
	return hrefs
}

// Links interleaves the two groups pair by pair, highlighted first, then
// appends whatever trails in the longer group.
func (p Page) Links() []string {
	n := min(len(p.Highlighted), len(p.Alternate))
	out := make([]string, 0, len(p.Highlighted)+len(p.Alternate))
	for i := 0; i < n; i++ {
		out = append(out, p.Highlighted[i], p.Alternate[i])
	}
	out = append(out, p.Highlighted[n:]...)
	out = append(out, p.Alternate[n:]...)
	return out
}

// Surplus is how many entries the longer group has beyond the paired range.
func (p Page) Surplus() int {
	d := len(p.Highlighted) - len(p.Alternate)
	if d < 0 {
		return -d
	}
	return d
}
