package policy

import "testing"

func TestOutline_FirstHeaderIsOne(t *testing.T) {
	o := newOutline()
	if got := o.advance(1); got != "1" {
		t.Errorf("first depth-1 header: expected %q, got %q", "1", got)
	}
}

func TestOutline_Sequence(t *testing.T) {
	o := newOutline()
	steps := []struct {
		depth int
		want  string
	}{
		{1, "1"},
		{2, "2"},
		{2, "2.1"},
		{2, "2.2"},
		{1, "2"},
		{2, "3"},
	}
	for i, s := range steps {
		if got := o.advance(s.depth); got != s.want {
			t.Errorf("step %d (depth %d): expected %q, got %q", i, s.depth, s.want, got)
		}
	}
}

func TestOutline_SiblingNumbersIncrease(t *testing.T) {
	// Consecutive same-depth headers after the first produce strictly
	// increasing trailing segments.
	o := newOutline()
	o.advance(1)
	o.advance(2)
	prev := ""
	for i := 0; i < 5; i++ {
		got := o.advance(2)
		if prev != "" && got <= prev {
			t.Errorf("sibling ordinals must increase: %q then %q", prev, got)
		}
		prev = got
	}
}

func TestOutline_DepthOneResetsDeeperCounters(t *testing.T) {
	o := newOutline()
	o.advance(1)
	o.advance(2)
	o.advance(3)
	o.advance(1)
	for i := 1; i < maxDepth; i++ {
		if o.counters[i] != 0 {
			t.Errorf("counter[%d] should be reset to 0, got %d", i, o.counters[i])
		}
	}
}

func TestOutline_DepthOutOfRangePanics(t *testing.T) {
	for _, depth := range []int{0, 10} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("advance(%d) should panic", depth)
				}
			}()
			newOutline().advance(depth)
		}()
	}
}
