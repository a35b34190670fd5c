package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"runtime"

	"github.com/tajjankovic/phantom/geom"
	"github.com/tajjankovic/phantom/inject"
	"github.com/tajjankovic/phantom/io"
	"github.com/tajjankovic/phantom/particle"
	"github.com/tajjankovic/phantom/profile"
	"github.com/tajjankovic/phantom/relax"
	"github.com/tajjankovic/phantom/reservoir"
	"github.com/tajjankovic/phantom/sampler"
	"github.com/tajjankovic/phantom/sph"

	"github.com/tajjankovic/phantom/math/rand"
)

// initialThermal seeds the specific thermal energy of freshly sampled
// particles. The relaxation solver rescales it, so only the scale of the
// first few pseudo-timesteps depends on it.
const initialThermal = 0.05

func main() {
	var (
		cylinderStr, injectStr, exampleConfig string
		threads                               int
	)

	flag.IntVar(
		&threads, "Threads", runtime.NumCPU(),
		"Number of threads used. Default is the number of logical cores.",
	)
	flag.StringVar(
		&cylinderStr, "Cylinder", "",
		"Configuration file for [Cylinder] mode: sample a cylinder, relax "+
			"it against its target profile, and write the reservoir file.",
	)
	flag.StringVar(
		&injectStr, "Inject", "",
		"Configuration file for [Injection] mode: cycle both stream "+
			"reservoirs through one full period as a dry run and report "+
			"injection statistics.",
	)
	flag.StringVar(
		&exampleConfig, "ExampleConfig", "",
		"Prints an example configuration file of the given type. Must be "+
			"one of [ Cylinder | Injection ].",
	)
	flag.Parse()

	switch {
	case exampleConfig != "":
		if err := exampleConfigMain(exampleConfig); err != nil {
			log.Fatal(err.Error())
		}
	case cylinderStr != "":
		if err := cylinderMain(cylinderStr, threads); err != nil {
			log.Fatal(err.Error())
		}
	case injectStr != "":
		if err := injectMain(injectStr); err != nil {
			log.Fatal(err.Error())
		}
	default:
		fmt.Fprintf(
			os.Stderr,
			"Specify a mode: -Cylinder config, -Inject config, or "+
				"-ExampleConfig name.\n",
		)
		flag.PrintDefaults()
		os.Exit(1)
	}
}

func exampleConfigMain(name string) error {
	switch name {
	case "Cylinder":
		fmt.Println(io.ExampleCylinderFile)
	case "Injection":
		fmt.Println(io.ExampleInjectionFile)
	default:
		return fmt.Errorf(
			"Unrecognized config type '%s'. Must be one of "+
				"[ Cylinder | Injection ].", name,
		)
	}
	return nil
}

func cylinderMain(fname string, threads int) error {
	con, err := io.ReadCylinderConfig(fname)
	if err != nil {
		return err
	}

	cyl := geom.Cylinder{Radius: con.Radius, HalfHeight: con.HalfHeight}
	prof, err := buildProfile(con, cyl)
	if err != nil {
		return err
	}

	gen := rand.NewTimeSeed(rand.Xorshift)
	if con.Seed != 0 {
		gen = rand.New(rand.Xorshift, uint64(con.Seed))
	}

	set := particle.New(con.Mass / float64(con.Particles))
	n, err := sampler.Cylinder(set, particle.Gas, sampler.Params{
		Cyl: cyl, N: con.Particles, Capacity: con.Particles,
		HFact: con.HFact, U0: initialThermal, Gen: gen,
	})
	if err != nil {
		return err
	}
	log.Printf("cylinder: sampled %d particles of mass %.6g", n, set.Mass)

	profile.NewStretcher(prof).ApplyAll(set.Xs)

	ev := sph.NewEvaluator(sph.Options{Gamma: 5.0 / 3}, threads)
	state, status, err := relax.Relax(set, prof, ev, relax.Params{
		Cyl: cyl, Tol: con.Tolerance, MaxIters: con.MaxIterations,
		CheckpointDir: con.CheckpointDir, Workers: threads, Gen: gen,
	})
	if err != nil {
		return err
	}
	log.Printf("cylinder: relaxation ended with status %s after "+
		"%d iterations (rms %.3e)", status, state.Iter+1, state.RMSErr)

	// Final derivatives pass for the density column of the record file.
	ev.Derivatives(set)
	rhos := make([]float64, set.N())
	for i := range rhos {
		rhos[i] = ev.Density(i)
	}

	rot := con.Rotation * math.Pi / 180
	shift := geom.Vec{con.ShiftX, con.ShiftY, con.ShiftZ}
	for i := 0; i < set.N(); i++ {
		set.Xs[i] = set.Xs[i].RotateZ(rot).Add(shift)
		set.Vs[i] = set.Vs[i].RotateZ(rot)
	}

	res := reservoir.FromSet(set, rhos)
	if err := res.Write(con.Output); err != nil {
		return err
	}
	log.Printf("cylinder: wrote %d particles to %s", res.N(), con.Output)
	return nil
}

// injectMain dry-runs an injection setup: both reservoirs are cycled
// through one full wraparound period so a bad config or record file fails
// here instead of hours into a simulation.
func injectMain(fname string) error {
	con, err := io.ReadInjectionConfig(fname)
	if err != nil {
		return err
	}

	pool := particle.New(0)
	sch, err := inject.New(inject.Config{
		Gamma: con.Gamma,
		Vinj1: con.Vinj1, Vinj2: con.Vinj2,
		Radius1: con.Radius1, Radius2: con.Radius2,
		Height1: con.Height1, Height2: con.Height2,
		Inclination: con.Inclination,
		Shift:       con.Shift, Offset: con.Offset,
		Cadence: con.Cadence, Mach: con.Mach,
		Source1: con.Source1, Source2: con.Source2,
		HeaderLines: con.HeaderLines,
	}, pool)
	if err != nil {
		return err
	}

	period := con.Height1 / con.Vinj1
	if p2 := con.Height2 / con.Vinj2; p2 > period {
		period = p2
	}
	dt := sch.MaxStep(period / 1000)

	total, peak := 0, 0
	time := 0.0
	for time < period {
		added := sch.Step(time, dt, 0)
		total += added
		if added > peak {
			peak = added
		}
		time += dt
	}

	log.Printf(
		"inject: dry run over one period (%.6g) with dt %.6g: "+
			"%d particles injected, peak %d per step, pool holds %d",
		period, dt, total, peak, pool.Live(),
	)
	if pool.Live() > con.Particles {
		return fmt.Errorf(
			"Injection would exceed the particle budget: %d live particles "+
				"against a budget of %d.", pool.Live(), con.Particles,
		)
	}
	return nil
}

func buildProfile(
	con *io.CylinderConfig, cyl geom.Cylinder,
) (*profile.DensityProfile, error) {
	kind, err := profile.ParseKind(con.Profile)
	if err != nil {
		return nil, err
	}
	switch kind {
	case profile.Uniform:
		return profile.NewUniform(cyl, con.Mass)
	case profile.Gaussian:
		return profile.NewGaussian(cyl, con.Mass, con.Sigma)
	default:
		return profile.NewTable(cyl, con.Mass, con.ProfileFile)
	}
}
