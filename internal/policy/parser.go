package policy

import (
	"errors"
	"fmt"
	"strings"
)

// Fatal parse errors. Everything else recovers locally with a defined
// fallback: unmatched table tags yield a partial table, resource rows
// without a URL are dropped, blank-titled sections are skipped.
var (
	// ErrMalformedInput reports a section block whose header cannot be
	// parsed, or a header that skips more than one outline level at a time.
	ErrMalformedInput = errors.New("malformed input")

	// ErrIncompleteMetadata reports front matter lacking a version or a
	// publication date.
	ErrIncompleteMetadata = errors.New("incomplete metadata")
)

// Parser reconstructs the document tree for a single parse invocation. All
// state (outline counters, parent stack, TOC lookup) is local to one
// Parser; construct a fresh one per document.
type Parser struct {
	outline  *outline
	stack    []*Group // parent path, indexed by depth-1
	sections []*Group // accumulated top-level groups
	toc      map[string]string
	ids      map[string]bool // identifiers reserved so far
}

func NewParser() *Parser {
	return &Parser{
		outline: newOutline(),
		toc:     make(map[string]string),
		ids:     make(map[string]bool),
	}
}

// Parse converts the ordered input lines into a Document. The first block
// feeds the metadata extractor, References/Bibliography blocks feed the
// resource extractor, Table of Contents blocks are discarded, and every
// other section block is threaded into the group tree.
func (p *Parser) Parse(lines []string) (*Document, error) {
	blocks := Segment(lines)
	front := blocks[0]
	rest := blocks[1:]

	// A document converted without a title page has an empty front-matter
	// block; its metadata then lives in the first section instead.
	if len(front.Lines) == 0 && len(rest) > 0 {
		front = Block{Lines: rest[0].Lines}
		rest = rest[1:]
	}

	meta, err := p.parseMetadata(front)
	if err != nil {
		return nil, err
	}

	doc := &Document{Metadata: meta}
	for _, b := range rest {
		switch b.Kind() {
		case KindTableOfContents:
			// Already consumed structurally.
		case KindBibliography:
			doc.Resources = append(doc.Resources, parseResources(b.Lines)...)
		default:
			if err := p.addSection(b); err != nil {
				return nil, err
			}
		}
	}
	doc.Groups = p.sections
	return doc, nil
}

// TOCNumber returns the advisory ordinal recorded for a section name in the
// front matter's table-of-contents entries. The lookup is keyed by name and
// a duplicate name silently overwrites the earlier entry, so it is never
// authoritative for identifier derivation.
func (p *Parser) TOCNumber(name string) (string, bool) {
	num, ok := p.toc[name]
	return num, ok
}

// addSection classifies one content block into a group, wraps any body
// prose in a synthetic controls group, and places the group in the tree by
// header depth.
func (p *Parser) addSection(b Block) error {
	depth, title, err := b.headerParts()
	if err != nil {
		return err
	}
	if title == "" {
		// Noise from upstream formatting.
		return nil
	}

	ordinal := p.outline.advance(depth)
	slug := Slugify(title)
	group := &Group{
		ID:    p.uniqueID("group-" + ordinal + "-" + slug),
		Title: ordinal + " " + title,
	}

	// Body content becomes control prose. The control lives in a synthetic
	// child group so a section with both a heading and a body never holds
	// groups and controls side by side.
	if prose := controlProse(b); len(prose) > 0 {
		ctrl := &Control{
			ID:    p.uniqueID(ordinal + "-" + slug),
			Title: title,
		}
		for _, stmt := range prose {
			addStatement(ctrl, stmt)
		}
		group.Groups = append(group.Groups, &Group{
			ID:       p.uniqueID("control-" + ordinal + "-" + slug),
			Title:    group.Title + " Controls",
			Controls: []*Control{ctrl},
		})
	}

	switch {
	case depth == 1:
		// Each depth-1 header starts a new top-level entry.
		p.stack = append(p.stack[:0], group)
		p.sections = append(p.sections, group)
	case depth > len(p.stack)+1:
		// A multi-level jump leaves the new node with no reachable parent.
		return fmt.Errorf("%w: header %q at depth %d has no parent section at depth %d", ErrMalformedInput, title, depth, depth-1)
	case depth == len(p.stack)+1:
		parent := p.stack[depth-2]
		parent.Groups = append(parent.Groups, group)
		p.stack = append(p.stack, group)
	default:
		// Unwind to the ancestor level, then branch. The superseded leaf
		// stays attached to its parent; it only leaves the stack.
		p.stack = p.stack[:depth]
		parent := p.stack[depth-2]
		parent.Groups = append(parent.Groups, group)
		p.stack[depth-1] = group
	}
	return nil
}

// uniqueID reserves an identifier for this parse. Sibling ordinals repeat
// across depths (a depth-d header reads the same ordinal as the preceding
// depth-d+1 header), so a recurring title would otherwise mint the same
// identifier twice; repeats take an ordinal suffix in document order.
func (p *Parser) uniqueID(base string) string {
	id := base
	for n := 2; p.ids[id]; n++ {
		id = fmt.Sprintf("%s-%d", base, n)
	}
	p.ids[id] = true
	return id
}

// controlProse turns a block's content lines into statement prose. Ordinary
// lines contribute one statement each; an embedded table contributes one
// pipe-delimited statement per row.
func controlProse(b Block) []string {
	var prose []string
	inTable := false
	for i, line := range b.Lines {
		switch {
		case strings.Contains(line, "</table>"):
			inTable = false
			for _, row := range ExtractTable(b.Lines, i) {
				prose = append(prose, strings.Join(row, " | "))
			}
		case strings.Contains(line, "<table"):
			inTable = true
		case inTable:
			// Consumed by the table extractor when the table closes.
		default:
			if stmt := strings.TrimSpace(StripMarkup(line)); stmt != "" {
				prose = append(prose, stmt)
			}
		}
	}
	return prose
}

func addStatement(ctrl *Control, prose string) {
	ctrl.Parts = append(ctrl.Parts, Part{
		ID:    fmt.Sprintf("%s_smt.%d", ctrl.ID, len(ctrl.Parts)+1),
		Name:  "statement",
		Prose: prose,
	})
}
