// Package policy parses the tokenized, line-oriented text rendering of the
// Common Policy document into a hierarchical catalog model: nested outline
// groups, controls with prose statement parts, document metadata with a
// revision history, and a back-matter resource list.
//
// The input dialect is narrow: headers are runs of leading '#' characters,
// tabular content is embedded as literal HTML tables, and table-of-contents
// entries are bracketed lines. The parser reconstructs the outline hierarchy
// from header depth alone.
package policy

import "time"

// CatalogTitle is the fixed document title carried into the metadata record.
const CatalogTitle = "X.509 Certificate Policy for the U.S. Federal PKI Common Policy Framework"

// Document is the result of one parse: metadata, the ordered group tree,
// and the back-matter resources.
type Document struct {
	Metadata  Metadata
	Groups    []*Group
	Resources []Resource
}

// Metadata carries the document-level fields extracted from the front matter.
// Version and Published are mandatory.
type Metadata struct {
	Title     string
	Version   string
	Published time.Time
	Revisions []Revision
}

// Revision is one row of the revision history table.
type Revision struct {
	Version   string
	Published time.Time
	Remarks   string
}

// Group is an outline node. A group holds either child groups or controls,
// never both directly; controls are always wrapped in a synthetic child
// group.
type Group struct {
	ID       string
	Title    string
	Groups   []*Group
	Controls []*Control
}

// Control is a leaf requirement node holding one or more prose parts.
type Control struct {
	ID    string
	Title string
	Parts []Part
}

// Part is an atomic prose statement attached to a control. Prose from an
// embedded table arrives as a single pipe-delimited row.
type Part struct {
	ID    string
	Name  string
	Prose string
}

// Resource is one bibliographic entry from the References section. A row
// without an extractable URL is never emitted as a Resource.
type Resource struct {
	UUID        string
	Title       string
	Description string
	Link        string
}
