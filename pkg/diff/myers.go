package diff

import "slices"

// Op classifies a line in an edit script.
type Op int

const (
	Equal  Op = iota // present in both sides
	Insert           // present in the new side only
	Delete           // present in the old side only
)

func (o Op) String() string {
	switch o {
	case Equal:
		return "equal"
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

// Line is one step of a line-level edit script.
type Line struct {
	Op   Op
	Text string
}

// myers returns the shortest edit script turning a into b. Lines shared at
// both ends are matched up front so the search only covers the region that
// actually differs.
func myers(a, b []string) []Line {
	pre := 0
	for pre < len(a) && pre < len(b) && a[pre] == b[pre] {
		pre++
	}
	suf := 0
	for suf < len(a)-pre && suf < len(b)-pre && a[len(a)-1-suf] == b[len(b)-1-suf] {
		suf++
	}

	out := all(Equal, a[:pre])
	out = append(out, shortest(a[pre:len(a)-suf], b[pre:len(b)-suf])...)
	return append(out, all(Equal, a[len(a)-suf:])...)
}

// shortest runs the greedy forward search in O((N+M)*D) time, D being the
// length of the script. Frontier d holds, for each diagonal k in [-d, d],
// the furthest x reached with d edits at index k+d.
func shortest(a, b []string) []Line {
	n, m := len(a), len(b)
	switch {
	case n == 0:
		return all(Insert, b)
	case m == 0:
		return all(Delete, a)
	}

	var frontiers [][]int
	for d := 0; ; d++ {
		v := make([]int, 2*d+1)
		for k := -d; k <= d; k += 2 {
			x := 0
			if d > 0 {
				x, _ = step(frontiers[d-1], d, k)
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[k+d] = x
			if x >= n && y >= m {
				return backtrack(append(frontiers, v), a, b)
			}
		}
		frontiers = append(frontiers, v)
	}
}

// step picks how diagonal k is entered at distance d, given the frontier for
// d-1: from k+1 by an insertion or from k-1 by a deletion. It returns the x
// reached by that edit, before any run of equal lines.
func step(prev []int, d, k int) (x int, deleted bool) {
	at := func(k int) int { return prev[k+d-1] }
	if k == -d || (k != d && at(k-1) < at(k+1)) {
		return at(k + 1), false
	}
	return at(k-1) + 1, true
}

// backtrack walks the frontiers from the end of both inputs back to the
// origin, replaying the choices step made on the way forward.
func backtrack(frontiers [][]int, a, b []string) []Line {
	x, y := len(a), len(b)
	rev := make([]Line, 0, len(a)+len(b))
	for d := len(frontiers) - 1; d > 0; d-- {
		start, deleted := step(frontiers[d-1], d, x-y)
		for x > start {
			x--
			y--
			rev = append(rev, Line{Op: Equal, Text: a[x]})
		}
		if deleted {
			x--
			rev = append(rev, Line{Op: Delete, Text: a[x]})
		} else {
			y--
			rev = append(rev, Line{Op: Insert, Text: b[y]})
		}
	}
	for x > 0 {
		x--
		rev = append(rev, Line{Op: Equal, Text: a[x]})
	}

	slices.Reverse(rev)
	return rev
}

func all(op Op, lines []string) []Line {
	out := make([]Line, len(lines))
	for i, l := range lines {
		out[i] = Line{Op: op, Text: l}
	}
	return out
}
