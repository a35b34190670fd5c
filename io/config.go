/*package io reads the gcfg configuration files that drive cylinder
generation and stream injection.
*/
package io

import (
	"fmt"

	"gopkg.in/gcfg.v1"
)

const (
	ExampleCylinderFile = `[Cylinder]

#######################
# Required Parameters #
#######################

# Cylinder geometry and total mass, in code units.
Radius = 1.0
HalfHeight = 1.0
Mass = 2.0

# Requested particle count.
Particles = 1000

# Transverse density profile. Must be one of [ Uniform | Gaussian | Table ].
Profile = Uniform

# Relaxation stops when the RMS density error drops below Tolerance or
# after MaxIterations iterations, whichever comes first.
Tolerance = 0.01
MaxIterations = 500

# File the relaxed reservoir is written to.
Output = path/to/cylinder.dat

#######################
# Optional Parameters #
#######################

# Shape parameter of the Gaussian profile. Required when Profile = Gaussian.
# Sigma = 0.5

# ASCII table with radius and density columns. Required when
# Profile = Table.
# ProfileFile = path/to/profile.txt

# Rigid transform applied to the relaxed cylinder before it is written:
# rotation about the axis in degrees, then a translation.
# Rotation = 0
# ShiftX = 0
# ShiftY = 0
# ShiftZ = 0

# Ratio of smoothing length to mean interparticle spacing.
# HFact = 1.2

# Directory for relaxation checkpoints. Restartable runs need this.
# CheckpointDir = path/to/checkpoints

# Seed for the Monte Carlo placer. 0 seeds from the clock.
# Seed = 0

# Unit mode. Must be one of [ Code | CGS ].
# UnitMode = Code`

	ExampleInjectionFile = `[Injection]

#######################
# Required Parameters #
#######################

# Live pool particle budget.
Particles = 1000000

# Adiabatic index.
Gamma = 1.66667

# Injection speed, radius and height of each stream cylinder.
Vinj1 = 1.0
Vinj2 = 1.0
Radius1 = 1.0
Radius2 = 1.0
Height1 = 2.0
Height2 = 2.0

# Angle between the two streams in degrees.
Inclination = 180

# Reservoir record files. Identical sources with identical speeds and
# radii are advanced once and injected as two mirrored streams.
Source1 = path/to/cylinder1.dat
Source2 = path/to/cylinder2.dat

#######################
# Optional Parameters #
#######################

# Transverse shift of both streams.
# Shift = 0

# Inter-stream offset in units of the stream radius.
# Offset = 0

# Largest timestep injection tolerates.
# Cadence = 0.01

# Mach number setting the injected thermal energy.
# Mach = 100

# Header lines to skip in the reservoir record files.
# HeaderLines = 2`
)

// CylinderConfig is the [Cylinder] section: one cylinder to sample,
// relax, and persist. Read-only during generation.
type CylinderConfig struct {
	// Required
	Radius, HalfHeight, Mass float64
	Particles                int
	Profile                  string
	Tolerance                float64
	MaxIterations            int
	Output                   string

	// Optional
	Sigma                  float64
	ProfileFile            string
	Rotation               float64
	ShiftX, ShiftY, ShiftZ float64
	HFact                  float64
	CheckpointDir          string
	Seed                   int
	UnitMode               string
}

type CylinderWrapper struct {
	Cylinder CylinderConfig
}

func DefaultCylinderWrapper() *CylinderWrapper {
	con := CylinderConfig{}
	con.HFact = 1.2
	con.UnitMode = "Code"
	return &CylinderWrapper{con}
}

// ReadCylinderConfig reads and validates a [Cylinder] config file.
func ReadCylinderConfig(fname string) (*CylinderConfig, error) {
	wrap := DefaultCylinderWrapper()
	if err := gcfg.ReadFileInto(wrap, fname); err != nil {
		return nil, fmt.Errorf(
			"Cannot read config file '%s': %s", fname, err.Error(),
		)
	}
	con := &wrap.Cylinder
	if err := con.Check(); err != nil {
		return nil, fmt.Errorf("Config file '%s': %s", fname, err.Error())
	}
	return con, nil
}

// Check validates the section. Missing required keys show up here as
// their zero values.
func (con *CylinderConfig) Check() error {
	if con.Radius <= 0 {
		return fmt.Errorf("Need a positive Radius, but got %g.", con.Radius)
	} else if con.HalfHeight <= 0 {
		return fmt.Errorf(
			"Need a positive HalfHeight, but got %g.", con.HalfHeight,
		)
	} else if con.Mass <= 0 {
		return fmt.Errorf("Need a positive Mass, but got %g.", con.Mass)
	} else if con.Particles <= 0 {
		return fmt.Errorf(
			"Need a positive particle count, but got %d.", con.Particles,
		)
	} else if con.Tolerance <= 0 {
		return fmt.Errorf(
			"Need a positive Tolerance, but got %g.", con.Tolerance,
		)
	} else if con.MaxIterations <= 0 {
		return fmt.Errorf(
			"Need a positive MaxIterations, but got %d.", con.MaxIterations,
		)
	} else if con.Output == "" {
		return fmt.Errorf("Need to specify Output.")
	}

	switch con.Profile {
	case "Uniform":
	case "Gaussian":
		if con.Sigma <= 0 {
			return fmt.Errorf(
				"Gaussian profile needs a positive Sigma, but got %g.",
				con.Sigma,
			)
		}
	case "Table":
		if con.ProfileFile == "" {
			return fmt.Errorf("Table profile needs ProfileFile.")
		}
	default:
		return fmt.Errorf(
			"Profile must be one of [ Uniform | Gaussian | Table ], "+
				"but is '%s'.", con.Profile,
		)
	}

	if con.UnitMode != "Code" && con.UnitMode != "CGS" {
		return fmt.Errorf(
			"UnitMode must be one of [ Code | CGS ], but is '%s'.",
			con.UnitMode,
		)
	}
	return nil
}

// InjectionConfig is the [Injection] section: the per-run stream setup
// the injection scheduler consumes.
type InjectionConfig struct {
	// Required
	Particles        int
	Gamma            float64
	Vinj1, Vinj2     float64
	Radius1, Radius2 float64
	Height1, Height2 float64
	Inclination      float64
	Source1, Source2 string

	// Optional
	Shift, Offset float64
	Cadence       float64
	Mach          float64
	HeaderLines   int
}

type InjectionWrapper struct {
	Injection InjectionConfig
}

func DefaultInjectionWrapper() *InjectionWrapper {
	con := InjectionConfig{}
	con.Mach = 100
	return &InjectionWrapper{con}
}

// ReadInjectionConfig reads and validates an [Injection] config file.
func ReadInjectionConfig(fname string) (*InjectionConfig, error) {
	wrap := DefaultInjectionWrapper()
	if err := gcfg.ReadFileInto(wrap, fname); err != nil {
		return nil, fmt.Errorf(
			"Cannot read config file '%s': %s", fname, err.Error(),
		)
	}
	con := &wrap.Injection
	if err := con.Check(); err != nil {
		return nil, fmt.Errorf("Config file '%s': %s", fname, err.Error())
	}
	return con, nil
}

func (con *InjectionConfig) Check() error {
	if con.Particles <= 0 {
		return fmt.Errorf(
			"Need a positive particle count, but got %d.", con.Particles,
		)
	} else if con.Gamma <= 1 {
		return fmt.Errorf("Need Gamma > 1, but got %g.", con.Gamma)
	} else if con.Vinj1 <= 0 || con.Vinj2 <= 0 {
		return fmt.Errorf(
			"Need positive injection speeds, but got %g and %g.",
			con.Vinj1, con.Vinj2,
		)
	} else if con.Radius1 <= 0 || con.Radius2 <= 0 {
		return fmt.Errorf(
			"Need positive stream radii, but got %g and %g.",
			con.Radius1, con.Radius2,
		)
	} else if con.Height1 <= 0 || con.Height2 <= 0 {
		return fmt.Errorf(
			"Need positive stream heights, but got %g and %g.",
			con.Height1, con.Height2,
		)
	} else if con.Inclination < 0 || con.Inclination > 360 {
		return fmt.Errorf(
			"Inclination must be in [0, 360] degrees, but is %g.",
			con.Inclination,
		)
	} else if con.Source1 == "" || con.Source2 == "" {
		return fmt.Errorf("Need to specify Source1 and Source2.")
	}
	return nil
}
