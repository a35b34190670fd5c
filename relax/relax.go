/*package relax iteratively shifts a sampled particle distribution toward
hydrostatic equilibrium with a target transverse density profile.

Each iteration evaluates inter-particle forces, moves every particle by
half a local Courant step squared times its acceleration, and damps the
thermal energy toward the value implied by the target density. The run
ends when the RMS density error drops below tolerance or the iteration
budget runs out; in the second case the best available distribution is
kept and the caller decides whether to accept it.

A temporary shell of extra particles is placed in an annulus just outside
the cylinder to stabilize the boundary forces. The shell is removed again
before the solver returns.
*/
package relax

import (
	"fmt"
	"log"
	"math"
	"runtime"

	"github.com/tajjankovic/phantom/geom"
	"github.com/tajjankovic/phantom/math/rand"
	"github.com/tajjankovic/phantom/particle"
	"github.com/tajjankovic/phantom/profile"
	"github.com/tajjankovic/phantom/sampler"
	"github.com/tajjankovic/phantom/sph"
)

// courantFac scales the local h/cs estimate into the pseudo-timestep.
const courantFac = 0.3

// Status reports how a relaxation run ended.
type Status int

const (
	// Converged means the RMS density error dropped below tolerance.
	Converged Status = iota
	// MaxIterExceeded means the iteration budget ran out first. The
	// particle set still holds the best-effort distribution.
	MaxIterExceeded
)

func (st Status) String() string {
	switch st {
	case Converged:
		return "Converged"
	case MaxIterExceeded:
		return "MaxIterExceeded"
	}
	return fmt.Sprintf("Status(%d)", int(st))
}

// Evaluator is the force and derivative collaborator the solver drives.
// Derivatives must be callable repeatedly with no side effects beyond the
// evaluator's own buffers.
type Evaluator interface {
	Derivatives(s *particle.Set)
	Density(i int) float64
	SoundSpeed(i int) float64
	Accel(i int) geom.Vec
	Options() sph.Options
	SetOptions(opts sph.Options)
}

// Params configures a relaxation run.
type Params struct {
	// Cyl is the physical cylinder being relaxed.
	Cyl geom.Cylinder

	// Tol is the RMS density error below which the run converges.
	Tol float64

	// MaxIters is the iteration budget.
	MaxIters int

	// Gamma and Damp are the relaxation-friendly physics options the
	// evaluator is switched to for the duration of the run. Zero values
	// select 5/3 and 0.05.
	Gamma, Damp float64

	// ShellN is the number of boundary shell particles. Zero selects a
	// tenth of the physical particle count.
	ShellN int

	// CheckpointDir enables periodic snapshots and restart detection
	// when non-empty.
	CheckpointDir string

	// CheckpointEvery is the snapshot cadence in iterations. Zero
	// selects 10.
	CheckpointEvery int

	// Workers is the number of shift workers. Zero selects the number
	// of logical cores.
	Workers int

	// Gen drives the shell placement. Nil selects a time-seeded
	// generator.
	Gen *rand.Generator
}

// State carries the per-iteration diagnostics of a run.
type State struct {
	Iter      int
	RMSErr    float64
	Kinetic   float64
	Thermal   float64
	Clamped   int
	Converged bool
}

func (p *Params) defaults(n int) {
	if p.Gamma == 0 {
		p.Gamma = 5.0 / 3
	}
	if p.Damp == 0 {
		p.Damp = 0.05
	}
	if p.ShellN == 0 {
		p.ShellN = n / 10
	}
	if p.CheckpointEvery == 0 {
		p.CheckpointEvery = 10
	}
	if p.Workers <= 0 {
		p.Workers = runtime.NumCPU()
	}
	if p.Gen == nil {
		p.Gen = rand.NewTimeSeed(rand.Xorshift)
	}
}

// Relax drives set toward the target profile. On return the evaluator's
// physics options are restored and every shell particle has been removed,
// regardless of how the run ended. A nil error accompanies both Converged
// and MaxIterExceeded; errors are reserved for the fatal setup conditions.
func Relax(
	set *particle.Set, prof *profile.DensityProfile,
	ev Evaluator, p Params,
) (State, Status, error) {
	if set.Partitions != 1 {
		return State{}, 0, fmt.Errorf(
			"Relaxation requires a single-partition particle set, but "+
				"the set is split across %d partitions.", set.Partitions,
		)
	}
	if err := checkSetup(set); err != nil {
		return State{}, 0, err
	}
	p.defaults(set.N())

	// Boundary shell just outside the cylinder. It is appended at the
	// tail, which is what lets removeShell compact cheaply later. Shell
	// particles take the mean gas smoothing length so the buffer forces
	// act on the same kernel scale as the particles they stabilize.
	n0 := set.N()
	hBar := meanH(set)
	if p.ShellN > 0 {
		_, err := sampler.Shell(
			set, particle.Shell,
			p.Cyl.Radius, p.Cyl.Radius+2*sph.KernelRadius*hBar,
			sampler.Params{
				Cyl: p.Cyl, N: p.ShellN, Capacity: p.ShellN,
				H: hBar, U0: meanU(set), Gen: p.Gen,
			},
		)
		if err != nil {
			return State{}, 0, err
		}
	}
	defer removeShell(set, n0)

	// Scoped physics override: snapshot the evaluator's options and
	// restore them on every exit path.
	prev := ev.Options()
	defer ev.SetOptions(prev)
	ev.SetOptions(sph.Options{Gamma: p.Gamma, Damp: p.Damp})

	startIter := 0
	state := State{}
	if p.CheckpointDir != "" {
		iter, rms, found, err := resume(p.CheckpointDir, set)
		if err != nil {
			return State{}, 0, err
		}
		if found {
			log.Printf("relax: resuming from iteration %d (rms %.3e)", iter, rms)
			state.Iter, state.RMSErr = iter, rms
			state.Kinetic = sph.KineticEnergy(set)
			state.Thermal = sph.ThermalEnergy(set)
			// A snapshot written at convergence ends the run here; there
			// is nothing left to iterate.
			if rms < p.Tol {
				state.Converged = true
				return state, Converged, nil
			}
			startIter = iter + 1
		}
	}

	intr := prof.Interp()
	for iter := startIter; iter < p.MaxIters; iter++ {
		ev.Derivatives(set)

		state = p.step(set, prof, intr, ev)
		state.Iter = iter
		state.Converged = state.RMSErr < p.Tol && state.Kinetic > 0

		if iter%p.CheckpointEvery == 0 {
			log.Printf(
				"relax: iter %4d rms %.3e clamped %4d ekin %.3e etherm %.3e",
				iter, state.RMSErr, state.Clamped,
				state.Kinetic, state.Thermal,
			)
		}
		checkpointDue := state.Converged ||
			(iter > 0 && iter%p.CheckpointEvery == 0)
		if p.CheckpointDir != "" && checkpointDue {
			err := snapshot(p.CheckpointDir, set, iter, state.RMSErr)
			if err != nil {
				return state, 0, err
			}
		}
		if state.Converged {
			return state, Converged, nil
		}
	}

	log.Printf(
		"relax: iteration budget of %d exhausted with rms %.3e > tol %.3e; "+
			"keeping best-effort distribution",
		p.MaxIters, state.RMSErr, p.Tol,
	)
	return state, MaxIterExceeded, nil
}

// step shifts every particle once and damps its thermal energy toward the
// target, returning the iteration diagnostics. The shift is parallel over
// strided index ranges; the clamp counter and RMS accumulator are merged
// per worker, so the result does not depend on scheduling order.
func (p *Params) step(
	set *particle.Set, prof *profile.DensityProfile,
	intr interpEvaler, ev Evaluator,
) State {
	workers := p.Workers
	if workers > set.N() {
		workers = 1
	}
	clamped := make([]int, workers)
	errSums := make([]float64, workers)
	nGas := make([]int, workers)

	out := make(chan int, workers)
	worker := func(id int) {
		for i := id; i < set.N(); i += workers {
			cs := ev.SoundSpeed(i)
			if cs <= 0 {
				continue
			}
			dt := courantFac * set.Hs[i] / cs
			dx := ev.Accel(i).Scale(0.5 * dt * dt)

			// Clamp large excursions to one smoothing length.
			if norm := dx.Norm(); norm > set.Hs[i] {
				dx = dx.Scale(set.Hs[i] / norm)
				clamped[id]++
			}
			set.Xs[i] = set.Xs[i].Add(dx)
			// Fake velocity: it only drives the convergence diagnostic
			// and the damping force, it is not a physical velocity.
			set.Vs[i] = dx.Scale(1 / dt)

			r := set.Xs[i].CylinderRadius()
			rhoT := edgeClampEval(intr, prof, r)
			rho := ev.Density(i)
			if rho > 0 && rhoT > 0 {
				// Square-root damping toward the target pressure rather
				// than a hard reset. Treat this as a tunable relaxation
				// scheme, not derived physics.
				set.Us[i] *= math.Sqrt(rhoT / rho)
			}
			if set.Kinds[i] == particle.Gas {
				dev := (rho - rhoT) / prof.Rho0
				errSums[id] += dev * dev
				nGas[id]++
			}
		}
		out <- id
	}
	for id := 0; id < workers-1; id++ {
		go worker(id)
	}
	worker(workers - 1)
	for i := 0; i < workers; i++ {
		<-out
	}

	st := State{}
	sum, n := 0.0, 0
	for id := 0; id < workers; id++ {
		st.Clamped += clamped[id]
		sum += errSums[id]
		n += nGas[id]
	}
	if n > 0 {
		st.RMSErr = math.Sqrt(sum / float64(n))
	}
	st.Kinetic = sph.KineticEnergy(set)
	st.Thermal = sph.ThermalEnergy(set)
	return st
}

type interpEvaler interface {
	Eval(x float64) float64
	Max() float64
}

// edgeClampEval looks up the target density at radius r, clamping shell
// radii beyond the profile edge to the outermost bin.
func edgeClampEval(intr interpEvaler, prof *profile.DensityProfile, r float64) float64 {
	if r >= intr.Max() {
		return prof.Rhos[len(prof.Rhos)-1]
	}
	return intr.Eval(r)
}

// removeShell deletes the appended shell range [n0, N) by alternating
// between its low and high ends. The range is contiguous at the tail, so
// every swap-with-last deletion moves another shell particle and the
// physical particles below n0 never move.
func removeShell(set *particle.Set, n0 int) {
	fromLow := true
	for set.N() > n0 {
		if fromLow {
			set.Kill(n0)
		} else {
			set.Kill(set.N() - 1)
		}
		fromLow = !fromLow
	}
}

// checkSetup runs the structural sanity checks on the initial particle
// set. Any failure here is fatal.
func checkSetup(set *particle.Set) error {
	if set.N() == 0 {
		return fmt.Errorf("Relaxation requested for an empty particle set.")
	}
	if set.Mass <= 0 {
		return fmt.Errorf(
			"Relaxation requires a positive particle mass, but mass = %g.",
			set.Mass,
		)
	}
	for i := 0; i < set.N(); i++ {
		if !set.Alive(i) {
			return fmt.Errorf(
				"Initial particle set has a dead slot at index %d.", i,
			)
		}
		for k := 0; k < 3; k++ {
			if math.IsNaN(set.Xs[i][k]) || math.IsInf(set.Xs[i][k], 0) {
				return fmt.Errorf(
					"Particle %d has a non-finite position.", i,
				)
			}
		}
		if set.Us[i] <= 0 {
			return fmt.Errorf(
				"Particle %d has non-positive thermal energy %g.",
				i, set.Us[i],
			)
		}
	}
	return nil
}

func meanU(set *particle.Set) float64 {
	sum := 0.0
	for i := 0; i < set.N(); i++ {
		sum += set.Us[i]
	}
	return sum / float64(set.N())
}

func meanH(set *particle.Set) float64 {
	sum := 0.0
	for i := 0; i < set.N(); i++ {
		sum += set.Hs[i]
	}
	return sum / float64(set.N())
}
