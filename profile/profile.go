/*package profile builds the 1D transverse density profiles that cylinder
initial conditions are sampled from and relaxed toward.

A profile is tabulated once on a fixed radial grid covering [0, R] and is
immutable afterwards. The relaxation solver reads it back through Interp
and the Monte Carlo placer remaps uniformly sampled radii onto it through
Stretch.
*/
package profile

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/table"

	"github.com/tajjankovic/phantom/geom"
	"github.com/tajjankovic/phantom/math/interpolate"
)

// Bins is the resolution of the tabulated radial grid.
const Bins = 256

// Kind selects the functional form of a density profile.
type Kind int

const (
	Uniform Kind = iota
	Gaussian
	Table
)

// ParseKind converts a config-file profile name into a Kind.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "Uniform":
		return Uniform, nil
	case "Gaussian":
		return Gaussian, nil
	case "Table":
		return Table, nil
	}
	return 0, fmt.Errorf(
		"Unknown profile kind '%s'. Must be one of "+
			"[ Uniform | Gaussian | Table ].", name,
	)
}

// DensityProfile is a tabulated transverse density profile. Rs is strictly
// increasing and covers [0, Radius]; Rhos holds the matching densities.
type DensityProfile struct {
	Rs, Rhos []float64

	// Rho0 is the analytically derived central density.
	Rho0 float64

	Radius, Mass float64

	intr *interpolate.Linear
}

// NewUniform tabulates a flat profile with density M / (pi R^2 Z).
func NewUniform(cyl geom.Cylinder, mass float64) (*DensityProfile, error) {
	if err := checkGeometry(cyl, mass); err != nil {
		return nil, err
	}

	rho0 := mass / (math.Pi * cyl.Radius * cyl.Radius * cyl.Height())
	p := newGrid(cyl.Radius, mass, rho0)
	for i := range p.Rhos {
		p.Rhos[i] = rho0
	}
	return p, nil
}

// NewGaussian tabulates rho(r) = rho0 * exp(-r^2 / sigma^2), with the
// central density solved from the mass normalization over the cylinder,
// rho0 = M / (pi Z sigma^2 (1 - exp(-R^2/sigma^2))).
func NewGaussian(
	cyl geom.Cylinder, mass, sigma float64,
) (*DensityProfile, error) {
	if err := checkGeometry(cyl, mass); err != nil {
		return nil, err
	}
	if sigma <= 0 {
		return nil, fmt.Errorf(
			"Gaussian profile needs a positive shape parameter, but "+
				"sigma = %g.", sigma,
		)
	}

	s2 := sigma * sigma
	r2 := cyl.Radius * cyl.Radius
	rho0 := mass / (math.Pi * cyl.Height() * s2 * (1 - math.Exp(-r2/s2)))

	p := newGrid(cyl.Radius, mass, rho0)
	for i, r := range p.Rs {
		p.Rhos[i] = rho0 * math.Exp(-r*r/s2)
	}
	return p, nil
}

// NewTable reads an ASCII profile table with radius in column 0 and density
// in column 1, rescales it onto the standard radial grid, and renormalizes
// it so the cylinder encloses the configured mass.
func NewTable(
	cyl geom.Cylinder, mass float64, path string,
) (*DensityProfile, error) {
	if err := checkGeometry(cyl, mass); err != nil {
		return nil, err
	}

	cols, err := table.ReadTable(path, []int{0, 1}, nil)
	if err != nil {
		return nil, fmt.Errorf("Cannot read profile table '%s': %s",
			path, err.Error())
	}
	rs, rhos := cols[0], cols[1]
	if len(rs) < 2 {
		return nil, fmt.Errorf(
			"Profile table '%s' has only %d rows.", path, len(rs),
		)
	}
	for i := 0; i < len(rs)-1; i++ {
		if rs[i+1] <= rs[i] {
			return nil, fmt.Errorf(
				"Profile table '%s' radii are not strictly increasing "+
					"at row %d.", path, i+1,
			)
		}
	}

	// Rescale the tabulated radii onto [0, R] and resample onto the
	// standard grid.
	span := rs[len(rs)-1] - rs[0]
	scaled := make([]float64, len(rs))
	for i := range rs {
		scaled[i] = (rs[i] - rs[0]) / span * cyl.Radius
	}
	intr := interpolate.NewLinear(scaled, rhos)

	p := newGrid(cyl.Radius, mass, 0)
	intr.EvalAll(p.Rs, p.Rhos)

	// Renormalize so the enclosed mass matches the configured mass.
	enclosed := 2 * math.Pi * cyl.Height() * trapezoidMoment(p.Rs, p.Rhos)
	if enclosed <= 0 {
		return nil, fmt.Errorf(
			"Profile table '%s' encloses non-positive mass.", path,
		)
	}
	fac := mass / enclosed
	for i := range p.Rhos {
		p.Rhos[i] *= fac
	}
	p.Rho0 = p.Rhos[0]

	return p, nil
}

func checkGeometry(cyl geom.Cylinder, mass float64) error {
	if cyl.Radius <= 0 {
		return fmt.Errorf(
			"Cylinder radius must be positive, but is %g.", cyl.Radius,
		)
	} else if cyl.HalfHeight <= 0 {
		return fmt.Errorf(
			"Cylinder half-height must be positive, but is %g.",
			cyl.HalfHeight,
		)
	} else if mass < 0 {
		return fmt.Errorf(
			"Cylinder mass must be non-negative, but is %g.", mass,
		)
	}
	return nil
}

func newGrid(radius, mass, rho0 float64) *DensityProfile {
	p := &DensityProfile{
		Rs:     make([]float64, Bins),
		Rhos:   make([]float64, Bins),
		Rho0:   rho0,
		Radius: radius,
		Mass:   mass,
	}
	dr := radius / float64(Bins-1)
	for i := range p.Rs {
		p.Rs[i] = dr * float64(i)
	}
	p.Rs[Bins-1] = radius
	return p
}

// Interp returns a linear interpolator over the tabulated profile. The
// interpolator is built once and shared; the profile is immutable after
// construction.
func (p *DensityProfile) Interp() *interpolate.Linear {
	if p.intr == nil {
		p.intr = interpolate.NewLinear(p.Rs, p.Rhos)
	}
	return p.intr
}

// Eval returns the tabulated density at radius r. Radii beyond the grid
// edge clamp to the outermost bin.
func (p *DensityProfile) Eval(r float64) float64 {
	if r >= p.Radius {
		return p.Rhos[len(p.Rhos)-1]
	}
	return p.Interp().Eval(r)
}

// trapezoidMoment integrates rho(r) * r over the tabulated grid.
func trapezoidMoment(rs, rhos []float64) float64 {
	sum := 0.0
	for i := 0; i < len(rs)-1; i++ {
		sum += 0.5 * (rhos[i]*rs[i] + rhos[i+1]*rs[i+1]) * (rs[i+1] - rs[i])
	}
	return sum
}
