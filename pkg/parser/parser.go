// Package parser locates the ranking table of a zone and turns its rows into
// candidate records.
package parser

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/levelwatch/models"
	"golang.org/x/text/cases"
)

// FindTable returns the first table following a heading (h1-h6) whose text
// contains label. Matching is a case-folded substring test on the exact label.
// When no heading matches, the last table of the document is returned.
// The boolean is false only when the document has no table at all.
func FindTable(doc *goquery.Document, label string) (*goquery.Selection, bool) {
	want := cases.Fold().String(strings.TrimSpace(label))

	var found *goquery.Selection
	armed := false
	// Selector groups match in document order, so headings and tables interleave
	// the way they appear on the page.
	doc.Find("h1,h2,h3,h4,h5,h6,table").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if goquery.NodeName(s) == "table" {
			if armed {
				found = s
				return false
			}
			return true
		}
		if want != "" && !armed {
			text := cases.Fold().String(normalizeText(s.Text()))
			armed = strings.Contains(text, want)
		}
		return true
	})
	if found != nil {
		return found, true
	}

	tables := doc.Find("table")
	if tables.Length() == 0 {
		return nil, false
	}
	return tables.Last(), true
}

// Rows returns the cell texts of every data row of the table. Rows come from
// the first tbody when there is one, otherwise from the whole table. Rows
// without td cells (header rows) are dropped.
func Rows(table *goquery.Selection) [][]string {
	body := table.Find("tbody").First()
	if body.Length() == 0 {
		body = table
	}

	var rows [][]string
	body.Find("tr").Each(func(i int, tr *goquery.Selection) {
		var cells []string
		tr.Find("td").Each(func(j int, td *goquery.Selection) {
			cells = append(cells, normalizeText(td.Text()))
		})
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	})
	return rows
}

// Extract turns every row of the table into a Record, skipping rows that do
// not validate.
func Extract(table *goquery.Selection, stripSuffix bool) []models.Record {
	var records []models.Record
	for _, cells := range Rows(table) {
		if rec, ok := ExtractRow(cells, stripSuffix); ok {
			records = append(records, rec)
		}
	}
	return records
}

// ExtractRow applies the first layout that structurally accepts the row and
// validates the result. Malformed rows (ads, separators, missing level) yield
// false.
func ExtractRow(cells []string, stripSuffix bool) (models.Record, bool) {
	for _, layout := range Layouts {
		if !layout.Accept(len(cells)) {
			continue
		}
		name, levelText, guild := layout.Pick(cells, stripSuffix)
		return validate(name, levelText, guild, stripSuffix)
	}
	return models.Record{}, false
}

func validate(name, levelText, guild string, stripSuffix bool) (models.Record, bool) {
	name = strings.TrimSpace(name)
	levelText = strings.TrimSpace(levelText)
	if stripSuffix {
		levelText = keepDigits(levelText)
	}
	if name == "" || !isDigits(levelText) {
		return models.Record{}, false
	}
	level, err := strconv.Atoi(levelText)
	if err != nil {
		return models.Record{}, false
	}
	return models.Record{Name: name, Level: level, Guild: guild}, true
}

// normalizeText trims the string and collapses inner whitespace runs
// (newlines and indentation from the markup) into single spaces.
func normalizeText(input string) string {
	return strings.Join(strings.Fields(input), " ")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func keepDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
