/*package inject advances two cylindrical particle reservoirs past an
injection plane and copies the particles that cross it into the live
simulation pool, modeling two colliding streams fed from finite,
cyclically reused reservoirs.

Reservoir axial coordinates are kept plane-relative in [y0, y0+span).
Every step each coordinate is shifted downstream by vinj*dt; coordinates
that would drop below the plane wrap back to the far end of the cylinder
and the particle is injected, so a reservoir acts as a quasi-infinite
particle source whose count never changes.

A Scheduler is an explicit per-run context: construct it once at
simulation start, call Step once per timestep, and drop it at the end of
the run. It must not be shared between simulation instances.
*/
package inject

import (
	"fmt"
	"math"

	"github.com/tajjankovic/phantom/geom"
	"github.com/tajjankovic/phantom/particle"
	"github.com/tajjankovic/phantom/reservoir"
)

// Config collects the per-run stream parameters. It is usually filled
// from the [Injection] section of a config file.
type Config struct {
	// Gamma is the adiabatic index used for the injected thermal energy.
	Gamma float64

	// Vinj1, Vinj2 are the injection speeds of the two streams.
	Vinj1, Vinj2 float64

	// Radius1, Radius2 and Height1, Height2 are the stream cylinder
	// geometries. Height is the axial span the reservoir cycles over.
	Radius1, Radius2 float64
	Height1, Height2 float64

	// Inclination is the angle between the two streams in degrees.
	Inclination float64

	// Shift translates both streams transversally.
	Shift float64

	// Offset separates the two streams along z in units of the stream
	// radius.
	Offset float64

	// Cadence is the largest timestep injection tolerates. The caller
	// caps its timestep with MaxStep.
	Cadence float64

	// Mach sets the injected thermal energy through
	// u = (vinj/Mach)^2 / (gamma (gamma-1)). Zero selects 100.
	Mach float64

	// Source1, Source2 are the reservoir record file paths.
	Source1, Source2 string

	// HeaderLines is the record file header skip count. Zero selects
	// the count written by the reservoir store.
	HeaderLines int
}

// stream is one reservoir plus its plane geometry and per-step scratch.
type stream struct {
	res  *reservoir.Reservoir
	vinj float64
	// radius of the stream cylinder; the inter-stream offset scales
	// with it.
	radius float64
	// y0 is the injection plane coordinate, span the cylinder extent.
	y0, span float64
	// sign is +1 for the upper stream and -1 for the lower one.
	sign float64

	// Per-step injection list and matching plane overshoots. Rebuilt
	// from scratch every step; appended one element at a time since the
	// crossing count is not known in advance (append grows the backing
	// array geometrically, and the buffer is reused across steps).
	list []int
	over []float64
}

// Scheduler is the per-run injection context.
type Scheduler struct {
	conf  Config
	pool  *particle.Set
	upper *stream
	lower *stream

	// identical is set when both streams share a source file, speed and
	// radius; then one reservoir is advanced once per step and injected
	// as both mirrored streams.
	identical bool

	initialized bool
}

// New loads both reservoirs and builds the scheduler. A missing source
// file is fatal.
func New(conf Config, pool *particle.Set) (*Scheduler, error) {
	if conf.Gamma <= 1 {
		return nil, fmt.Errorf(
			"Injection needs an adiabatic index > 1, but gamma = %g.",
			conf.Gamma,
		)
	}
	if conf.Vinj1 <= 0 || conf.Vinj2 <= 0 {
		return nil, fmt.Errorf(
			"Injection speeds must be positive, but are %g and %g.",
			conf.Vinj1, conf.Vinj2,
		)
	}
	if conf.Radius1 <= 0 || conf.Radius2 <= 0 ||
		conf.Height1 <= 0 || conf.Height2 <= 0 {
		return nil, fmt.Errorf(
			"Stream cylinders must have positive radius and height, but "+
				"are %g x %g and %g x %g.",
			conf.Radius1, conf.Height1, conf.Radius2, conf.Height2,
		)
	}
	if conf.Mach == 0 {
		conf.Mach = 100
	}
	if conf.HeaderLines == 0 {
		conf.HeaderLines = reservoir.DefaultHeaderLines
	}

	sch := &Scheduler{conf: conf, pool: pool}
	sch.identical = conf.Source1 == conf.Source2 &&
		conf.Vinj1 == conf.Vinj2 && conf.Radius1 == conf.Radius2

	res1, err := reservoir.Load(conf.Source1, conf.HeaderLines)
	if err != nil {
		return nil, err
	}
	sch.upper = newStream(res1, conf.Vinj1, conf.Radius1, conf.Height1, +1)

	if sch.identical {
		sch.lower = &stream{
			res: res1, vinj: conf.Vinj2, radius: conf.Radius2,
			y0: sch.upper.y0, span: sch.upper.span, sign: -1,
		}
	} else {
		res2, err := reservoir.Load(conf.Source2, conf.HeaderLines)
		if err != nil {
			return nil, err
		}
		sch.lower = newStream(res2, conf.Vinj2, conf.Radius2, conf.Height2, -1)
	}
	return sch, nil
}

// newStream normalizes the reservoir's axial coordinates from
// cylinder-centered to plane-relative [y0, y0+span).
func newStream(
	res *reservoir.Reservoir, vinj, radius, height float64, sign float64,
) *stream {
	st := &stream{
		res: res, vinj: vinj, radius: radius,
		y0: 0, span: height, sign: sign,
	}
	for i := range res.Ys {
		y := res.Ys[i] + height/2
		// Guard against edge records sitting exactly on the far face.
		if y >= st.y0+st.span {
			y = st.y0
		}
		res.Ys[i] = y
	}
	return st
}

// MaxStep caps a candidate timestep with the injection cadence.
func (sch *Scheduler) MaxStep(dt float64) float64 {
	if sch.conf.Cadence > 0 && dt > sch.conf.Cadence {
		return sch.conf.Cadence
	}
	return dt
}

// Step advances both streams by dtmax and injects every particle that
// crossed the plane, returning the number of live particles added.
//
// incoming is the particle count carried over from a restart dump. On the
// first call of a run with incoming > 0, the reservoirs are first rewound
// to the position the cyclic stream would have reached by the current
// simulation time.
func (sch *Scheduler) Step(time, dtmax float64, incoming int) int {
	if !sch.initialized {
		if incoming > 0 {
			sch.upper.rewind(time)
			if !sch.identical {
				sch.lower.rewind(time)
			}
		}
		sch.initialized = true
	}

	added := 0
	sch.upper.advance(dtmax)
	if sch.identical {
		// One advance, two mirrored injections.
		for k, i := range sch.upper.list {
			added += sch.injectOne(sch.upper, i, sch.upper.over[k], +1)
			added += sch.injectOne(sch.upper, i, sch.upper.over[k], -1)
		}
		return added
	}

	sch.lower.advance(dtmax)
	for k, i := range sch.upper.list {
		added += sch.injectOne(sch.upper, i, sch.upper.over[k], +1)
	}
	for k, i := range sch.lower.list {
		added += sch.injectOne(sch.lower, i, sch.lower.over[k], -1)
	}
	return added
}

// rewind retroactively shifts the axial coordinates by vinj*time modulo
// the cylinder span, reproducing the position the cyclic stream would
// have reached by the current simulation time.
func (st *stream) rewind(time float64) {
	shift := math.Mod(st.vinj*time, st.span)
	for i, y := range st.res.Ys {
		if y-shift < st.y0 {
			st.res.Ys[i] = st.y0 + st.span -
				math.Mod(st.span-(y-shift), st.span)
		} else {
			st.res.Ys[i] = y - shift
		}
	}
}

// advance shifts every axial coordinate downstream by vinj*dt, wraps the
// ones that crossed the plane, and rebuilds the injection list. No index
// appears twice: a wrapped coordinate lands back inside [y0, y0+span) and
// cannot cross again until the stream cycles a full span.
func (st *stream) advance(dt float64) {
	st.list = st.list[:0]
	st.over = st.over[:0]
	for i, y := range st.res.Ys {
		yNew := y - st.vinj*dt
		if yNew >= st.y0 {
			st.res.Ys[i] = yNew
			continue
		}
		tCross := (y - st.y0) / st.vinj
		st.res.Ys[i] = st.y0 + st.span - st.vinj*math.Abs(dt-tCross)
		st.list = append(st.list, i)
		st.over = append(st.over, st.vinj*(dt-tCross))
	}
}

// injectOne copies reservoir particle i into the live pool as a member of
// the stream with the given sign. The particle is translated by half the
// stream offset, rotated into the collision plane by half the opening
// angle, and sent traveling back along y toward the collision point.
func (sch *Scheduler) injectOne(
	st *stream, i int, over float64, sign float64,
) int {
	theta := sign * (math.Pi/2 - sch.conf.Inclination*math.Pi/360)

	pos := geom.Vec{
		st.res.Xs[i] + sch.conf.Shift,
		sign * -over,
		st.res.Zs[i] + sign*0.5*sch.conf.Offset*st.radius,
	}
	vel := geom.Vec{0, sign * -st.vinj, 0}

	pos = pos.RotateZ(theta)
	vel = vel.RotateZ(theta)

	mach := sch.conf.Mach
	gamma := sch.conf.Gamma
	u := (st.vinj / mach) * (st.vinj / mach) / (gamma * (gamma - 1))

	before := sch.pool.Live()
	sch.pool.AddOrUpdate(particle.Gas, pos, vel, st.res.Hs[i], u, -1)
	return sch.pool.Live() - before
}
