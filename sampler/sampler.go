/*package sampler places particles pseudo-randomly inside cylinders and
annular shells.

Particles are placed in mirrored pairs: for every accepted position
(x, y, z) the mirror (-x, -y, z) is placed as well, which suppresses the
net momentum and center-of-mass bias of small samples. Callers can
subsample the stream through an inclusion predicate without perturbing
the random sequence.
*/
package sampler

import (
	"fmt"
	"math"

	"github.com/tajjankovic/phantom/geom"
	"github.com/tajjankovic/phantom/math/rand"
	"github.com/tajjankovic/phantom/particle"
)

// DefaultHFact is the ratio of smoothing length to mean interparticle
// spacing used when none is configured.
const DefaultHFact = 1.2

// Params configures a Monte Carlo placement run.
type Params struct {
	Cyl geom.Cylinder

	// N is the requested particle count.
	N int

	// Capacity is the largest number of particles the caller can store.
	// Zero means no limit beyond N.
	Capacity int

	// HFact scales the mean interparticle spacing into the initial
	// smoothing length. Zero means DefaultHFact.
	HFact float64

	// H fixes the smoothing length of every placed particle. Zero
	// derives it from the cylinder volume and the requested count.
	H float64

	// U0 seeds the specific thermal energy. The relaxation solver
	// rescales it, so only its positivity matters there.
	U0 float64

	// Included subsamples the candidate stream by global candidate
	// index. Nil accepts everything. Rejection does not perturb the
	// random sequence.
	Included func(globalIndex int) bool

	Gen *rand.Generator
}

func (p *Params) defaults() error {
	if p.Cyl.Radius <= 0 || p.Cyl.HalfHeight <= 0 {
		return fmt.Errorf(
			"Sampling volume has radius %g and half-height %g.",
			p.Cyl.Radius, p.Cyl.HalfHeight,
		)
	}
	if p.N <= 0 {
		return fmt.Errorf("Requested particle count is %d.", p.N)
	}
	if p.HFact == 0 {
		p.HFact = DefaultHFact
	}
	if p.Gen == nil {
		p.Gen = rand.NewTimeSeed(rand.Xorshift)
	}
	return nil
}

// SmoothingLength returns hfact times the mean interparticle spacing of n
// particles filling the cylinder.
func SmoothingLength(cyl geom.Cylinder, n int, hfact float64) float64 {
	return hfact * math.Cbrt(cyl.Volume()/float64(n))
}

// Cylinder appends up to p.N particles uniformly sampled over the
// cylinder volume to set and returns the accepted count. Radii are drawn
// as R*sqrt(U) so the transverse distribution is uniform in area.
func Cylinder(set *particle.Set, kind particle.Kind, p Params) (int, error) {
	if err := p.defaults(); err != nil {
		return 0, err
	}
	radius := func(u float64) float64 {
		return p.Cyl.Radius * math.Sqrt(u)
	}
	return place(set, kind, &p, radius)
}

// Shell appends up to p.N particles sampled over the annulus [r1, r2]
// surrounding the cylinder; radii are drawn as r1 + (r2-r1)*sqrt(U).
// Shell particles share the cylinder's axial extent; set p.H so their
// smoothing length matches the particles they buffer.
func Shell(
	set *particle.Set, kind particle.Kind, r1, r2 float64, p Params,
) (int, error) {
	if err := p.defaults(); err != nil {
		return 0, err
	}
	if r2 <= r1 || r1 < 0 {
		return 0, fmt.Errorf("Shell has radial range [%g, %g].", r1, r2)
	}
	radius := func(u float64) float64 {
		return r1 + (r2-r1)*math.Sqrt(u)
	}
	return place(set, kind, &p, radius)
}

func place(
	set *particle.Set, kind particle.Kind,
	p *Params, radius func(u float64) float64,
) (int, error) {
	h := p.H
	if h == 0 {
		h = SmoothingLength(p.Cyl, p.N, p.HFact)
	}
	limit := p.Capacity
	if limit == 0 {
		limit = p.N
	}

	accepted, global := 0, 0
	for accepted < p.N {
		phi := p.Gen.Uniform(0, 2*math.Pi)
		r := radius(p.Gen.Uniform(0, 1))
		z := p.Gen.Uniform(-p.Cyl.HalfHeight, p.Cyl.HalfHeight)

		pos := geom.FromCylindrical(r, phi, z)
		mirror := geom.Vec{-pos[0], -pos[1], pos[2]}

		for _, x := range [2]geom.Vec{pos, mirror} {
			if accepted == p.N {
				break // odd leftover: drop the mirror
			}
			if p.Included != nil && !p.Included(global) {
				global++
				continue
			}
			global++
			if accepted == limit {
				return accepted, fmt.Errorf(
					"Accepted particle count exceeds the storage "+
						"capacity of %d. Increase the capacity or lower "+
						"the requested count.", limit,
				)
			}
			set.Append(kind, x, geom.Vec{}, h, p.U0)
			accepted++
		}
	}
	return accepted, nil
}
