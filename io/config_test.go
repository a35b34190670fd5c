package io

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeConfig(t *testing.T, text string) string {
	path := filepath.Join(t.TempDir(), "test.config")
	assert.NoError(t, os.WriteFile(path, []byte(text), 0644))
	return path
}

func TestReadCylinderConfig(t *testing.T) {
	path := writeConfig(t, `[Cylinder]
Radius = 1.5
HalfHeight = 0.5
Mass = 2.0
Particles = 5000
Profile = Gaussian
Sigma = 0.4
Tolerance = 0.01
MaxIterations = 200
Output = out.dat
Rotation = 45
ShiftY = -1.0
Seed = 17
`)
	con, err := ReadCylinderConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, 1.5, con.Radius)
	assert.Equal(t, 0.5, con.HalfHeight)
	assert.Equal(t, 2.0, con.Mass)
	assert.Equal(t, 5000, con.Particles)
	assert.Equal(t, "Gaussian", con.Profile)
	assert.Equal(t, 0.4, con.Sigma)
	assert.Equal(t, 45.0, con.Rotation)
	assert.Equal(t, -1.0, con.ShiftY)
	assert.Equal(t, 17, con.Seed)

	// Optional keys keep their defaults.
	assert.Equal(t, 1.2, con.HFact)
	assert.Equal(t, "Code", con.UnitMode)
	assert.Equal(t, "", con.CheckpointDir)
}

func TestCylinderConfigErrors(t *testing.T) {
	base := func() CylinderConfig {
		return CylinderConfig{
			Radius: 1, HalfHeight: 1, Mass: 1, Particles: 100,
			Profile: "Uniform", Tolerance: 0.01, MaxIterations: 10,
			Output: "out.dat", HFact: 1.2, UnitMode: "Code",
		}
	}
	valid := base()
	assert.NoError(t, valid.Check())

	tests := []struct {
		name string
		mod  func(*CylinderConfig)
	}{
		{"radius", func(c *CylinderConfig) { c.Radius = 0 }},
		{"half height", func(c *CylinderConfig) { c.HalfHeight = -1 }},
		{"mass", func(c *CylinderConfig) { c.Mass = 0 }},
		{"particles", func(c *CylinderConfig) { c.Particles = 0 }},
		{"tolerance", func(c *CylinderConfig) { c.Tolerance = 0 }},
		{"max iterations", func(c *CylinderConfig) { c.MaxIterations = 0 }},
		{"output", func(c *CylinderConfig) { c.Output = "" }},
		{"unknown profile", func(c *CylinderConfig) { c.Profile = "Exponential" }},
		{"gaussian without sigma", func(c *CylinderConfig) {
			c.Profile = "Gaussian"
			c.Sigma = 0
		}},
		{"table without file", func(c *CylinderConfig) {
			c.Profile = "Table"
			c.ProfileFile = ""
		}},
		{"unit mode", func(c *CylinderConfig) { c.UnitMode = "SI" }},
	}
	for _, test := range tests {
		con := base()
		test.mod(&con)
		assert.Error(t, con.Check(), test.name)
	}
}

func TestCylinderConfigMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.config")
	_, err := ReadCylinderConfig(missing)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), missing)
}

func TestCylinderConfigMissingRequiredKey(t *testing.T) {
	// Tolerance omitted: its zero value fails validation.
	path := writeConfig(t, `[Cylinder]
Radius = 1
HalfHeight = 1
Mass = 1
Particles = 100
Profile = Uniform
MaxIterations = 10
Output = out.dat
`)
	_, err := ReadCylinderConfig(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Tolerance")
}

func TestExampleCylinderConfigIsValid(t *testing.T) {
	path := writeConfig(t, ExampleCylinderFile)
	con, err := ReadCylinderConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, "Uniform", con.Profile)
	assert.Equal(t, 1000, con.Particles)
}

func TestReadInjectionConfig(t *testing.T) {
	path := writeConfig(t, `[Injection]
Particles = 100000
Gamma = 1.4
Vinj1 = 2.0
Vinj2 = 2.0
Radius1 = 1.0
Radius2 = 1.0
Height1 = 4.0
Height2 = 4.0
Inclination = 160
Source1 = a.dat
Source2 = b.dat
Offset = 0.5
Cadence = 0.01
`)
	con, err := ReadInjectionConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, 100000, con.Particles)
	assert.Equal(t, 1.4, con.Gamma)
	assert.Equal(t, 2.0, con.Vinj1)
	assert.Equal(t, 160.0, con.Inclination)
	assert.Equal(t, "a.dat", con.Source1)
	assert.Equal(t, 0.5, con.Offset)
	assert.Equal(t, 0.01, con.Cadence)

	// Optional keys keep their defaults.
	assert.Equal(t, 100.0, con.Mach)
	assert.Equal(t, 0, con.HeaderLines)
	assert.Equal(t, 0.0, con.Shift)
}

func TestInjectionConfigErrors(t *testing.T) {
	base := func() InjectionConfig {
		return InjectionConfig{
			Particles: 1000, Gamma: 5.0 / 3,
			Vinj1: 1, Vinj2: 1, Radius1: 1, Radius2: 1,
			Height1: 2, Height2: 2, Inclination: 180,
			Source1: "a.dat", Source2: "b.dat", Mach: 100,
		}
	}
	con := base()
	assert.NoError(t, con.Check())

	tests := []struct {
		name string
		mod  func(*InjectionConfig)
	}{
		{"particles", func(c *InjectionConfig) { c.Particles = 0 }},
		{"gamma", func(c *InjectionConfig) { c.Gamma = 1 }},
		{"speed", func(c *InjectionConfig) { c.Vinj2 = 0 }},
		{"radius", func(c *InjectionConfig) { c.Radius1 = -1 }},
		{"height", func(c *InjectionConfig) { c.Height2 = 0 }},
		{"inclination", func(c *InjectionConfig) { c.Inclination = 400 }},
		{"source", func(c *InjectionConfig) { c.Source2 = "" }},
	}
	for _, test := range tests {
		con := base()
		test.mod(&con)
		assert.Error(t, con.Check(), test.name)
	}
}

func TestExampleInjectionConfigIsValid(t *testing.T) {
	path := writeConfig(t, ExampleInjectionFile)
	con, err := ReadInjectionConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, 180.0, con.Inclination)
}
