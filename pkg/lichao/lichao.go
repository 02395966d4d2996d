// Package lichao provides a Li-Chao tree: a segment tree over a fixed
// integer domain that maintains a set of lines y = m*x + b and answers
// extremum queries ("what is the smallest/largest value any line attains
// at point t?") in O(log(domain)) per insert and per query.
//
// The structure relies on the transcending property of lines: two distinct
// lines cross at most once, so past their crossing point their relative
// order is fixed. Each node keeps the line winning at its interval's
// midpoint; an insertion demotes the loser into the single half-interval
// where it might still win, and a query folds the resident lines along the
// root-to-leaf path of the queried point.
//
// A tree is mono-typed: the numeric type of all lines is fixed by the type
// parameter at construction. Integer evaluation saturates at the int64
// bounds, so callers should keep slope*coordinate products within range if
// exact values matter near the extremes. The tree is not safe for
// concurrent use; callers needing concurrency must synchronize externally.
package lichao

import (
	"errors"
	"fmt"
)

// Exported contract errors.
var (
	// ErrInvalidDomain is returned by New when lo >= hi.
	ErrInvalidDomain = errors.New("lichao: domain lower bound must be less than upper bound")

	// ErrOutOfDomain is returned by Query for points outside [lo, hi).
	ErrOutOfDomain = errors.New("lichao: query point outside domain")
)

// Number restricts line coefficients to the supported numeric types.
type Number interface {
	int64 | float64
}

// Line represents a line y = Slope*x + Intercept. Lines are immutable
// values; inserting a line never aliases caller state.
type Line[N Number] struct {
	Slope     N
	Intercept N
}

// Eval returns the line's value at x. For int64 instantiations the
// multiply and add saturate at the int64 bounds instead of wrapping;
// float64 instantiations use plain IEEE-754 arithmetic.
func (l Line[N]) Eval(x int64) N {
	if m, ok := any(l.Slope).(int64); ok {
		b, _ := any(l.Intercept).(int64)

		return N(satAdd64(satMul64(m, x), b))
	}

	return l.Slope*N(x) + l.Intercept
}

// node is a lazily materialized tree node covering a half-open
// sub-interval of the domain. A node exists only once a line resides in
// it, so every allocated node holds exactly one line.
type node[N Number] struct {
	line        Line[N]
	left, right *node[N]
}

// Tree is a Li-Chao tree over the half-open integer domain [lo, hi).
type Tree[N Number] struct {
	root   *node[N]
	lines  []Line[N] // Insertion log, in order.
	lo, hi int64
	dir    Direction
	better func(a, b N) bool
}

// New creates an empty Li-Chao tree over the half-open domain [lo, hi)
// reporting extrema in the given direction. Returns ErrInvalidDomain when
// lo >= hi and ErrInvalidDirection for an unknown direction value. The
// domain is immutable for the lifetime of the tree.
func New[N Number](lo, hi int64, dir Direction) (*Tree[N], error) {
	if lo >= hi {
		return nil, fmt.Errorf("%w: [%d, %d)", ErrInvalidDomain, lo, hi)
	}

	better, err := comparator[N](dir)
	if err != nil {
		return nil, err
	}

	return &Tree[N]{
		lo:     lo,
		hi:     hi,
		dir:    dir,
		better: better,
	}, nil
}

// comparator returns the strict "a beats b" predicate for a direction.
// The rest of the algorithm is direction-agnostic.
func comparator[N Number](dir Direction) (func(a, b N) bool, error) {
	switch dir {
	case Min:
		return func(a, b N) bool { return a < b }, nil
	case Max:
		return func(a, b N) bool { return a > b }, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidDirection, int(dir))
	}
}

// Len returns the number of Insert calls performed on the tree.
// Duplicate lines are counted once per insertion.
func (t *Tree[N]) Len() int {
	return len(t.lines)
}

// Bounds returns the tree's half-open domain [lo, hi).
func (t *Tree[N]) Bounds() (lo, hi int64) {
	return t.lo, t.hi
}

// Direction returns the extremum direction configured at construction.
func (t *Tree[N]) Direction() Direction {
	return t.dir
}

// Insert adds the line y = slope*x + intercept to the tree in
// O(log(hi-lo)). Inserting a line never worsens the result reported for
// any domain point, and the final envelope is independent of insertion
// order.
func (t *Tree[N]) Insert(slope, intercept N) {
	line := Line[N]{Slope: slope, Intercept: intercept}
	t.lines = append(t.lines, line)

	if t.root == nil {
		t.root = &node[N]{line: line}

		return
	}

	t.insert(t.root, line, t.lo, t.hi)
}

// InsertAll adds every line in the slice, in order.
func (t *Tree[N]) InsertAll(lines []Line[N]) {
	for _, line := range lines {
		t.Insert(line.Slope, line.Intercept)
	}
}

// insert descends the subtree rooted at n, which covers [lo, hi).
// Invariant on return: n's resident line wins at the interval midpoint
// among all lines ever proposed to n.
func (t *Tree[N]) insert(n *node[N], line Line[N], lo, hi int64) {
	mid := lo + (hi-lo)/2

	if t.better(line.Eval(mid), n.line.Eval(mid)) {
		n.line, line = line, n.line
	}

	// Unit interval: lo == mid == hi-1, nothing below to decide.
	if hi-lo == 1 {
		return
	}

	// The demoted line loses at mid. Two lines cross at most once, so it
	// can still win only on the one side where it beats the resident at
	// that side's endpoint; losing at lo, mid, and hi-1 means losing
	// everywhere in [lo, hi).
	switch {
	case t.better(line.Eval(lo), n.line.Eval(lo)):
		if n.left == nil {
			n.left = &node[N]{line: line}

			return
		}

		t.insert(n.left, line, lo, mid)
	case t.better(line.Eval(hi-1), n.line.Eval(hi-1)):
		if n.right == nil {
			n.right = &node[N]{line: line}

			return
		}

		t.insert(n.right, line, mid, hi)
	}
}

// Query returns the extremum value attained at point pt by any inserted
// line. Returns ErrOutOfDomain when pt is outside [lo, hi). When no line
// resides on the root-to-leaf path of pt (in particular on an empty
// tree), ok is false and value is the zero value; a zero value with
// ok == true is a genuine line evaluation, so callers must check ok
// rather than compare against zero.
func (t *Tree[N]) Query(pt int64) (value N, ok bool, err error) {
	var zero N

	if pt < t.lo || pt >= t.hi {
		return zero, false, fmt.Errorf("%w: %d not in [%d, %d)", ErrOutOfDomain, pt, t.lo, t.hi)
	}

	best := zero
	found := false

	n := t.root
	lo, hi := t.lo, t.hi

	for n != nil {
		v := n.line.Eval(pt)
		if !found || t.better(v, best) {
			best = v
			found = true
		}

		if hi-lo == 1 {
			break
		}

		mid := lo + (hi-lo)/2
		if pt < mid {
			n = n.left
			hi = mid
		} else {
			n = n.right
			lo = mid
		}
	}

	if !found {
		return zero, false, nil
	}

	return best, true, nil
}
