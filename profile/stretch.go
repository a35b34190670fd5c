package profile

import (
	"math"

	"github.com/tajjankovic/phantom/geom"
	"github.com/tajjankovic/phantom/math/interpolate"
)

// Stretcher remaps uniformly sampled radial positions onto a target
// density profile with a monotone transport map between cumulative mass
// fractions. Azimuth and axial coordinate are untouched, so the map is
// mass-conservative by construction.
type Stretcher struct {
	p   *DensityProfile
	inv *interpolate.Linear
}

// NewStretcher builds the inverse cumulative-mass table for p.
func NewStretcher(p *DensityProfile) *Stretcher {
	// Cumulative mass fraction on the profile grid. The axial extent
	// cancels in the fraction.
	fracs := make([]float64, len(p.Rs))
	for i := 1; i < len(p.Rs); i++ {
		dr := p.Rs[i] - p.Rs[i-1]
		fracs[i] = fracs[i-1] +
			0.5*(p.Rhos[i-1]*p.Rs[i-1]+p.Rhos[i]*p.Rs[i])*dr
	}
	total := fracs[len(fracs)-1]
	for i := range fracs {
		fracs[i] /= total
	}
	// Positive density makes fracs strictly increasing, which is what the
	// interpolator needs for the inversion.
	return &Stretcher{p, interpolate.NewLinear(fracs, p.Rs)}
}

// Apply remaps one position. The uniformly sampled cumulative area
// fraction (r/R)^2 is pushed through the inverse target cumulative mass
// profile.
func (st *Stretcher) Apply(v geom.Vec) geom.Vec {
	r := v.CylinderRadius()
	if r == 0 {
		return v
	}
	frac := (r / st.p.Radius) * (r / st.p.Radius)
	if frac > 1 {
		frac = 1
	}
	rNew := st.inv.Eval(frac)
	phi := math.Atan2(v[1], v[0])
	return geom.FromCylindrical(rNew, phi, v[2])
}

// ApplyAll remaps every position in place.
func (st *Stretcher) ApplyAll(vs []geom.Vec) {
	for i := range vs {
		vs[i] = st.Apply(vs[i])
	}
}
