package policy

import (
	"strings"

	"golang.org/x/net/html"
)

// ExtractTable parses the HTML table whose closing tag sits at (or just
// before) lines[end]. It scans backward from end for the opening <table>
// line, then runs a tag-driven state machine over the bounded slice: a row
// opens on <tr>, a cell opens on <td>/<th>, text accumulates into the open
// cell, and any other closing tag seen inside an open cell contributes a
// single separating space so adjacent styled fragments do not run together.
//
// Rows arrive in document order; the first row is typically a header row and
// skipping it is the caller's business. Malformed or unterminated tags are
// tolerated: a row or cell whose end tag never appears is simply not
// emitted.
func ExtractTable(lines []string, end int) [][]string {
	if end >= len(lines) {
		end = len(lines) - 1
	}
	start := end
	for start >= 0 && !strings.Contains(lines[start], "<table") {
		start--
	}
	if start < 0 {
		return nil
	}

	z := html.NewTokenizer(strings.NewReader(strings.Join(lines[start:end+1], "\n")))
	var (
		rows   [][]string
		row    []string
		cell   strings.Builder
		inRow  bool
		inCell bool
	)
	for {
		switch z.Next() {
		case html.ErrorToken:
			return rows
		case html.StartTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "tr":
				inRow = true
				inCell = false
				row = nil
			case "td", "th":
				if inRow {
					inCell = true
					cell.Reset()
				}
			}
		case html.TextToken:
			if inCell {
				cell.Write(z.Text())
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "td", "th":
				if inCell {
					row = append(row, collapseSpace(cell.String()))
					inCell = false
				}
			case "tr":
				if inRow {
					rows = append(rows, row)
					inRow = false
					inCell = false
				}
			default:
				if inCell {
					cell.WriteByte(' ')
				}
			}
		}
	}
}

// collapseSpace trims a cell and squeezes interior whitespace runs down to
// single spaces, so source-formatting newlines and inserted fragment
// separators come out the same.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
