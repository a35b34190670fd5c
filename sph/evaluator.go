package sph

import (
	"runtime"

	"github.com/tajjankovic/phantom/geom"
	"github.com/tajjankovic/phantom/particle"
)

// Evaluator computes smoothed densities and pressure-gradient
// accelerations for a particle set. It keeps its results in its own
// buffers, so Derivatives can be called repeatedly with no side effects
// on the set beyond what the caller applies itself.
type Evaluator struct {
	opts    Options
	workers int

	rho, cs []float64
	acc     []geom.Vec
}

// NewEvaluator returns an evaluator running under the given options.
// workers <= 0 means one worker per logical core.
func NewEvaluator(opts Options, workers int) *Evaluator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Evaluator{opts: opts, workers: workers}
}

// Options returns the current physics settings.
func (ev *Evaluator) Options() Options { return ev.opts }

// SetOptions replaces the physics settings.
func (ev *Evaluator) SetOptions(opts Options) { ev.opts = opts }

// Density returns the smoothed density of particle i from the last
// Derivatives call.
func (ev *Evaluator) Density(i int) float64 { return ev.rho[i] }

// SoundSpeed returns the sound speed of particle i from the last
// Derivatives call.
func (ev *Evaluator) SoundSpeed(i int) float64 { return ev.cs[i] }

// Accel returns the acceleration of particle i from the last Derivatives
// call.
func (ev *Evaluator) Accel(i int) geom.Vec { return ev.acc[i] }

// Derivatives recomputes the density, sound speed, and acceleration of
// every live particle in s. Work is split across workers by strided index
// ranges; each worker writes only its own indices, so the result is
// independent of scheduling order.
func (ev *Evaluator) Derivatives(s *particle.Set) {
	n := s.N()
	if len(ev.rho) != n {
		ev.rho = make([]float64, n)
		ev.cs = make([]float64, n)
		ev.acc = make([]geom.Vec, n)
	}

	workers := ev.workers
	if workers > n {
		workers = 1
	}

	out := make(chan int, workers)
	for id := 0; id < workers-1; id++ {
		go ev.chanDensity(s, id, workers, out)
	}
	ev.chanDensity(s, workers-1, workers, out)
	for i := 0; i < workers; i++ {
		<-out
	}

	for id := 0; id < workers-1; id++ {
		go ev.chanAccel(s, id, workers, out)
	}
	ev.chanAccel(s, workers-1, workers, out)
	for i := 0; i < workers; i++ {
		<-out
	}
}

// chanDensity is a worker which computes smoothed densities and sound
// speeds over the strided index range of the given worker ID.
func (ev *Evaluator) chanDensity(
	s *particle.Set, id, workers int, out chan<- int,
) {
	gamma := ev.opts.Gamma
	for i := id; i < s.N(); i += workers {
		if !s.Alive(i) {
			ev.rho[i], ev.cs[i] = 0, 0
			continue
		}
		hi := s.Hs[i]
		sum := 0.0
		for j := 0; j < s.N(); j++ {
			if !s.Alive(j) {
				continue
			}
			r := s.Xs[i].Sub(s.Xs[j]).Norm()
			if r < KernelRadius*hi {
				sum += W(r, hi)
			}
		}
		ev.rho[i] = s.Mass * sum
		ev.cs[i] = SoundSpeed(gamma, s.Us[i])
	}
	out <- id
}

// chanAccel is a worker which computes the symmetric pressure-gradient
// acceleration over the strided index range of the given worker ID.
// chanDensity must have completed first.
func (ev *Evaluator) chanAccel(
	s *particle.Set, id, workers int, out chan<- int,
) {
	gamma := ev.opts.Gamma
	for i := id; i < s.N(); i += workers {
		if !s.Alive(i) {
			ev.acc[i] = geom.Vec{}
			continue
		}
		pi := Pressure(gamma, ev.rho[i], s.Us[i])
		termI := pi / (ev.rho[i] * ev.rho[i])

		acc := geom.Vec{}
		for j := 0; j < s.N(); j++ {
			if j == i || !s.Alive(j) {
				continue
			}
			dx := s.Xs[i].Sub(s.Xs[j])
			r := dx.Norm()
			h := 0.5 * (s.Hs[i] + s.Hs[j])
			if r >= KernelRadius*h || r == 0 {
				continue
			}
			pj := Pressure(gamma, ev.rho[j], s.Us[j])
			termJ := pj / (ev.rho[j] * ev.rho[j])
			grad := GradW(r, h) / r
			acc = acc.Add(dx.Scale(-s.Mass * (termI + termJ) * grad))
		}

		if ev.opts.Damp != 0 {
			acc = acc.Sub(s.Vs[i].Scale(ev.opts.Damp))
		}
		ev.acc[i] = acc
	}
	out <- id
}

// KineticEnergy returns the total kinetic energy of the live particles.
func KineticEnergy(s *particle.Set) float64 {
	sum := 0.0
	for i := 0; i < s.N(); i++ {
		if !s.Alive(i) {
			continue
		}
		sum += 0.5 * s.Mass * s.Vs[i].Dot(s.Vs[i])
	}
	return sum
}

// ThermalEnergy returns the total thermal energy of the live particles.
func ThermalEnergy(s *particle.Set) float64 {
	sum := 0.0
	for i := 0; i < s.N(); i++ {
		if !s.Alive(i) {
			continue
		}
		sum += s.Mass * s.Us[i]
	}
	return sum
}
