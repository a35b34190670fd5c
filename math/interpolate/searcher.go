package interpolate

import (
	"fmt"
	"sort"
)

// searcher maps an x value onto the index of the tabulated interval that
// contains it. It has a uniform-grid fast path and a binary-search slow
// path for non-uniform tables.
type searcher struct {
	xs      []float64
	x0, dx  float64
	n       int
	uniform bool
}

func (s *searcher) init(xs []float64) {
	if len(xs) < 2 {
		panic(fmt.Sprintf("searcher given table of length %d.", len(xs)))
	}
	for i := 0; i < len(xs)-1; i++ {
		if xs[i+1] <= xs[i] {
			panic("searcher given a table that is not strictly increasing.")
		}
	}
	s.xs = xs
	s.n = len(xs)
	s.uniform = false
}

func (s *searcher) unifInit(x0, dx float64, n int) {
	if n < 2 {
		panic(fmt.Sprintf("searcher given table of length %d.", n))
	} else if dx <= 0 {
		panic("searcher given non-positive grid spacing.")
	}
	s.x0, s.dx, s.n = x0, dx, n
	s.uniform = true
}

// search returns the index i such that val(i) <= x <= val(i+1). It panics
// if x is outside the tabulated range.
func (s *searcher) search(x float64) int {
	if x < s.min() || x > s.max() {
		panic(fmt.Sprintf(
			"Point %g is outside the tabulated range [%g, %g].",
			x, s.min(), s.max(),
		))
	}

	var i int
	if s.uniform {
		i = int((x - s.x0) / s.dx)
	} else {
		// sort.SearchFloat64s returns the insertion index, which is one
		// past the interval start for interior points.
		i = sort.SearchFloat64s(s.xs, x)
		if i > 0 && (i == s.n || s.xs[i] != x) {
			i--
		}
	}
	if i == s.n-1 {
		i--
	}
	return i
}

func (s *searcher) val(i int) float64 {
	if s.uniform {
		return s.x0 + s.dx*float64(i)
	}
	return s.xs[i]
}

func (s *searcher) min() float64 { return s.val(0) }
func (s *searcher) max() float64 { return s.val(s.n - 1) }
