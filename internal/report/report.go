// Package report renders human-readable summaries of a converted policy
// document: a markdown outline with counts, optionally rendered to HTML.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dgallion1/polcat/internal/policy"
	"github.com/yuin/goldmark"
)

// Stats counts the nodes produced by one parse.
type Stats struct {
	Groups    int
	Controls  int
	Parts     int
	Resources int
}

// Collect walks the document and tallies node counts.
func Collect(doc *policy.Document) Stats {
	s := Stats{Resources: len(doc.Resources)}
	var walk func(g *policy.Group)
	walk = func(g *policy.Group) {
		s.Groups++
		for _, c := range g.Controls {
			s.Controls++
			s.Parts += len(c.Parts)
		}
		for _, child := range g.Groups {
			walk(child)
		}
	}
	for _, g := range doc.Groups {
		walk(g)
	}
	return s
}

// Markdown builds a conversion report: metadata, counts, the group outline,
// and the back-matter resources.
func Markdown(doc *policy.Document) string {
	var b strings.Builder
	stats := Collect(doc)

	fmt.Fprintf(&b, "# Conversion Report: %s\n\n", doc.Metadata.Title)
	fmt.Fprintf(&b, "- Version: %s\n", doc.Metadata.Version)
	fmt.Fprintf(&b, "- Published: %s\n", doc.Metadata.Published.Format("2006-01-02"))
	fmt.Fprintf(&b, "- Revisions: %d\n", len(doc.Metadata.Revisions))
	fmt.Fprintf(&b, "- Groups: %d, Controls: %d, Parts: %d, Resources: %d\n\n",
		stats.Groups, stats.Controls, stats.Parts, stats.Resources)

	b.WriteString("## Outline\n\n")
	for _, g := range doc.Groups {
		writeGroup(&b, g, 0)
	}

	if len(doc.Resources) > 0 {
		b.WriteString("\n## Resources\n\n")
		for _, res := range doc.Resources {
			fmt.Fprintf(&b, "- %s: %s\n", res.Title, res.Link)
		}
	}
	return b.String()
}

func writeGroup(b *strings.Builder, g *policy.Group, indent int) {
	fmt.Fprintf(b, "%s- %s (`%s`)\n", strings.Repeat("  ", indent), g.Title, g.ID)
	for _, child := range g.Groups {
		writeGroup(b, child, indent+1)
	}
}

// HTML renders the markdown report to HTML.
func HTML(doc *policy.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := goldmark.New().Convert([]byte(Markdown(doc)), &buf); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}
