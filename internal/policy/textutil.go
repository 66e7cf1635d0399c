package policy

import (
	"regexp"
	"strings"
)

// markupPattern matches any angle-bracketed span. The dialect only ever
// carries simple inline tags, so stripping every <...> run is enough.
var markupPattern = regexp.MustCompile(`<[^>]*>`)

// StripMarkup removes residual inline markup from prose.
func StripMarkup(s string) string {
	return markupPattern.ReplaceAllString(s, "")
}

// slugStrip removes the punctuation that may not appear in an identifier.
var slugStrip = strings.NewReplacer(
	"(", "",
	")", "",
	",", "",
	"/", "",
	":", "",
	"’", "", // right single quote
)

// Slugify derives a deterministic identifier fragment from a title: lower
// case, trimmed, spaces to hyphens, denylisted punctuation removed. It is a
// pure function and idempotent on its own output.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = strings.ReplaceAll(s, " ", "-")
	return slugStrip.Replace(s)
}
