package policy

import (
	"fmt"
	"regexp"
	"strings"
)

// Block is one header line plus the non-blank content lines that follow it,
// the unit of section segmentation. The front-matter block has an empty
// Header.
type Block struct {
	Header string   // raw header line, empty for the front-matter block
	Lines  []string // content lines, blank lines dropped
}

// headerPattern matches a run of 1-9 '#' characters followed by the header
// text. Deeper nesting is not part of the dialect.
var headerPattern = regexp.MustCompile(`^(#{1,9})\s+(.*)$`)

// Segment splits the input lines into an ordered sequence of blocks. A line
// beginning with '#' starts a new block; blank lines carry no structural
// meaning and are dropped. The first block is the headerless front matter
// and always exists, even when empty.
func Segment(lines []string) []Block {
	blocks := []Block{{}}
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			blocks = append(blocks, Block{Header: line})
			continue
		}
		cur := &blocks[len(blocks)-1]
		cur.Lines = append(cur.Lines, line)
	}
	return blocks
}

// headerParts returns the 1-based depth and trimmed title of the block's
// header. A section block whose header does not match the header pattern is
// a fatal input error.
func (b Block) headerParts() (depth int, title string, err error) {
	m := headerPattern.FindStringSubmatch(b.Header)
	if m == nil {
		return 0, "", fmt.Errorf("%w: section header %q does not match the header pattern", ErrMalformedInput, b.Header)
	}
	return len(m[1]), strings.TrimSpace(m[2]), nil
}

// BlockKind classifies a block once, so downstream logic switches on a
// closed set instead of repeating substring tests.
type BlockKind int

const (
	KindFrontMatter BlockKind = iota
	KindTableOfContents
	KindBibliography
	KindContent
)

// Kind classifies the block from its header text.
func (b Block) Kind() BlockKind {
	switch {
	case b.Header == "":
		return KindFrontMatter
	case strings.Contains(b.Header, "Table of Contents"):
		return KindTableOfContents
	case strings.Contains(b.Header, "References") || strings.Contains(b.Header, "Bibliography"):
		return KindBibliography
	default:
		return KindContent
	}
}
