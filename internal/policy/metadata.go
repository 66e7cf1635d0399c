package policy

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// longDateLayout matches dates written out in full, e.g. "September 1, 2020".
const longDateLayout = "January 2, 2006"

// tocEntryPattern spots bracketed table-of-contents lines of the form
// "[<num> <name> [...".
var tocEntryPattern = regexp.MustCompile(`^\[([\d.]+)\s+([^\[\]]+)`)

// structuralMarkers are first characters of lines that carry formatting or
// already-handled metadata rather than content.
const structuralMarkers = "*<[("

// parseMetadata walks the front-matter block and extracts the version
// string, the publication date, the revision history table, and the
// advisory TOC entries. Version and date are mandatory; missing either is a
// fatal error.
func (p *Parser) parseMetadata(b Block) (Metadata, error) {
	meta := Metadata{Title: CatalogTitle}
	inTable := false
	for i, line := range b.Lines {
		switch {
		case strings.Contains(line, "</table>"):
			inTable = false
			meta.Revisions = append(meta.Revisions, parseRevisions(b.Lines, i)...)
		case strings.Contains(line, "<table"):
			inTable = true
		case inTable:
			// Consumed when the table closes.
		case tocEntryPattern.MatchString(line):
			if m := tocEntryPattern.FindStringSubmatch(line); m != nil {
				p.toc[strings.TrimSpace(m[2])] = m[1]
			}
		case meta.Version == "" && strings.Contains(line, "Version "):
			meta.Version = strings.TrimSpace(strings.Replace(line, "Version ", "", 1))
		case strings.IndexAny(line, structuralMarkers) == 0:
			// Structural or already-handled metadata line.
		case meta.Published.IsZero():
			if t, err := time.Parse(longDateLayout, strings.TrimSpace(line)); err == nil {
				meta.Published = t
			}
		}
	}
	if meta.Version == "" || meta.Published.IsZero() {
		return Metadata{}, fmt.Errorf("%w: front matter is missing a version and/or publication date", ErrIncompleteMetadata)
	}
	return meta, nil
}

// parseRevisions maps the revision history table closing at lines[end] into
// revision records. Columns are version, date, remarks; a row whose date
// column does not parse as a long-form date is a header row and is skipped.
func parseRevisions(lines []string, end int) []Revision {
	var revs []Revision
	for _, row := range ExtractTable(lines, end) {
		if len(row) < 2 {
			continue
		}
		published, err := time.Parse(longDateLayout, row[1])
		if err != nil {
			continue
		}
		rev := Revision{Version: row[0], Published: published}
		if len(row) > 2 {
			rev.Remarks = row[2]
		}
		revs = append(revs, rev)
	}
	return revs
}
