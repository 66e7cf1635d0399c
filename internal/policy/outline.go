package policy

import (
	"fmt"
	"strconv"
	"strings"
)

// maxDepth is the deepest header nesting the outline tracker supports.
const maxDepth = 9

// outline maintains one sibling counter per depth level and derives the
// dot-joined ordinal number for every header it sees. Counter 0 is
// pre-seeded to 1 so the very first depth-1 header is numbered "1".
type outline struct {
	counters [maxDepth]int
}

func newOutline() *outline {
	o := &outline{}
	o.counters[0] = 1
	return o
}

// advance records a header at the given 1-based depth and returns its
// ordinal number. Counters at indices >= depth reset to zero, the ordinal is
// the dot-joined non-zero prefix of the counters up to depth, and the
// counter at depth-1 then moves on to the next sibling.
func (o *outline) advance(depth int) string {
	if depth < 1 || depth > maxDepth {
		panic(fmt.Sprintf("outline: depth %d out of range [1,%d]", depth, maxDepth))
	}
	for i := depth; i < maxDepth; i++ {
		o.counters[i] = 0
	}
	parts := make([]string, 0, depth)
	for i := 0; i < depth; i++ {
		if o.counters[i] == 0 {
			break
		}
		parts = append(parts, strconv.Itoa(o.counters[i]))
	}
	o.counters[depth-1]++
	return strings.Join(parts, ".")
}
