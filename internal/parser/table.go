package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Row is one table row as trimmed cell text.
type Row []string

// Table is a parsed HTML table. Upstream table shapes vary across dates and
// site versions, so lookups are label-based rather than positional.
type Table []Row

// ParseTables extracts every <table> in the document into cell text,
// including header cells, in document order.
func ParseTables(r io.Reader) ([]Table, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var tables []Table
	doc.Find("table").Each(func(_ int, tbl *goquery.Selection) {
		var t Table
		tbl.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			var row Row
			tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
				row = append(row, strings.TrimSpace(cell.Text()))
			})
			if len(row) > 0 {
				t = append(t, row)
			}
		})
		if len(t) > 0 {
			tables = append(tables, t)
		}
	})

	if len(tables) == 0 {
		return nil, fmt.Errorf("no tables in document")
	}
	return tables, nil
}

// FindRow returns the first row whose cells contain every label in contains
// (substring match) and none of the labels in excludes.
func (t Table) FindRow(contains, excludes []string) (Row, bool) {
	for _, row := range t {
		if row.containsAll(contains) && !row.containsAny(excludes) {
			return row, true
		}
	}
	return nil, false
}

func (r Row) containsAll(labels []string) bool {
	for _, label := range labels {
		if !r.containsLabel(label) {
			return false
		}
	}
	return true
}

func (r Row) containsAny(labels []string) bool {
	for _, label := range labels {
		if r.containsLabel(label) {
			return true
		}
	}
	return false
}

func (r Row) containsLabel(label string) bool {
	for _, cell := range r {
		if strings.Contains(cell, label) {
			return true
		}
	}
	return false
}

// CellsAfter returns the n cells immediately following the cell containing
// anchor. This is the preferred extraction path: anchoring on the label
// tolerates columns shifted by extra leading cells.
func (r Row) CellsAfter(anchor string, n int) ([]string, bool) {
	for i, cell := range r {
		if strings.Contains(cell, anchor) {
			if i+1+n > len(r) {
				return nil, false
			}
			return r[i+1 : i+1+n], true
		}
	}
	return nil, false
}

// CellsAt returns n cells starting at a fixed offset. Fallback path for
// documents where the anchor label cell is missing; callers log when they
// take it, since a shifted schema can silently bind the wrong columns.
func (r Row) CellsAt(offset, n int) ([]string, bool) {
	if offset < 0 || offset+n > len(r) {
		return nil, false
	}
	return r[offset : offset+n], true
}
