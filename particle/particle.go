/*package particle maintains the particle arrays that the samplers, the
relaxation solver, and the stream injector operate on.

A Set stores particles as parallel arrays indexed from 0. Dead slots are
marked with a negative smoothing length and recycled by AddOrUpdate, which
is the only insertion primitive the injector uses. The relaxation solver
instead compacts with Kill, which swaps the last particle into the freed
slot. The two schemes must not be mixed on the same Set at the same time:
each phase of the pipeline is the sole owner of the Set it mutates.
*/
package particle

import (
	"fmt"

	"github.com/tajjankovic/phantom/geom"
)

// Kind labels a particle's role in the simulation.
type Kind uint8

const (
	Gas Kind = iota
	Shell
	nKinds
)

// Set is a pool of particles stored as parallel arrays.
type Set struct {
	Xs, Vs []geom.Vec
	Hs, Us []float64
	Kinds  []Kind

	// Mass is shared by every particle in the set.
	Mass float64

	// Partitions is the number of domain-decomposition partitions the
	// set is split across. Everything in this package assumes 1; the
	// relaxation solver refuses to run on anything else.
	Partitions int

	counts [nKinds]int
	free   []int
}

// New returns an empty Set whose particles all carry the given mass.
func New(mass float64) *Set {
	return &Set{Mass: mass, Partitions: 1}
}

// N returns the number of slots in the set, live or dead.
func (s *Set) N() int { return len(s.Hs) }

// Live returns the number of live particles.
func (s *Set) Live() int { return len(s.Hs) - len(s.free) }

// Count returns the number of live particles of the given kind.
func (s *Set) Count(kind Kind) int { return s.counts[kind] }

// Alive reports whether slot i holds a live particle.
func (s *Set) Alive(i int) bool { return s.Hs[i] > 0 }

// Append adds a particle to the end of the set.
func (s *Set) Append(kind Kind, x, v geom.Vec, h, u float64) {
	if h <= 0 {
		panic(fmt.Sprintf("Appended particle has h = %g.", h))
	}
	s.Xs = append(s.Xs, x)
	s.Vs = append(s.Vs, v)
	s.Hs = append(s.Hs, h)
	s.Us = append(s.Us, u)
	s.Kinds = append(s.Kinds, kind)
	s.counts[kind]++
}

// Kill removes particle i by swapping the last particle into its slot and
// truncating. Index order is not preserved. Kill cannot be used while the
// set has tombstoned slots.
func (s *Set) Kill(i int) {
	if len(s.free) != 0 {
		panic("Kill called on a Set with tombstoned slots.")
	}
	last := len(s.Hs) - 1
	s.counts[s.Kinds[i]]--
	s.Xs[i], s.Vs[i] = s.Xs[last], s.Vs[last]
	s.Hs[i], s.Us[i] = s.Hs[last], s.Us[last]
	s.Kinds[i] = s.Kinds[last]
	s.Xs = s.Xs[:last]
	s.Vs = s.Vs[:last]
	s.Hs = s.Hs[:last]
	s.Us = s.Us[:last]
	s.Kinds = s.Kinds[:last]
}

// Free tombstones slot i so AddOrUpdate can reuse it. Index order is
// preserved.
func (s *Set) Free(i int) {
	if !s.Alive(i) {
		panic(fmt.Sprintf("Free called on dead slot %d.", i))
	}
	s.counts[s.Kinds[i]]--
	s.Hs[i] = -s.Hs[i]
	s.free = append(s.free, i)
}

// AddOrUpdate inserts a particle, reusing the hinted slot if it is dead,
// otherwise reusing any freed slot, otherwise appending. It returns the
// live particle count after the insertion.
func (s *Set) AddOrUpdate(
	kind Kind, x, v geom.Vec, h, u float64, slotHint int,
) int {
	if h <= 0 {
		panic(fmt.Sprintf("Inserted particle has h = %g.", h))
	}

	slot := -1
	if slotHint >= 0 && slotHint < len(s.Hs) && !s.Alive(slotHint) {
		slot = slotHint
		for j, f := range s.free {
			if f == slotHint {
				s.free = append(s.free[:j], s.free[j+1:]...)
				break
			}
		}
	} else if n := len(s.free); n > 0 {
		slot = s.free[n-1]
		s.free = s.free[:n-1]
	}

	if slot == -1 {
		s.Append(kind, x, v, h, u)
	} else {
		s.Xs[slot], s.Vs[slot] = x, v
		s.Hs[slot], s.Us[slot] = h, u
		s.Kinds[slot] = kind
		s.counts[kind]++
	}
	return s.Live()
}
