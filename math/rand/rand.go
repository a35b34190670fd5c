/*package rand provides the pseudo random number generators used by the
Monte Carlo particle placers.

	// Generate a single value
	gen := rand.New(rand.Xorshift, 1337)
	x := gen.Uniform(3, 7)

	// Multiple random floats (faster)
	xs := make([]float64, 100)
	gen.UniformAt(3, 7, xs)

	// Use the time as a seed
	gen2 := rand.NewTimeSeed(rand.Xorshift)

Two backends are provided. Xorshift is very fast and is what the samplers
default to. Golang wraps the standard library generator and exists mainly
so tests can cross-check distributions against a known implementation.
*/
package rand

import (
	"math"
	"time"
)

// generatorBackend supplies the raw uniform stream that the exported
// Generator methods are built on top of.
type generatorBackend interface {
	Init(seed uint64)
	Next() float64
	NextSequence(target []float64)
}

// Generator is a seeded random number generator.
type Generator struct {
	backend generatorBackend
}

// GeneratorType is a flag indicating the desired backend algorithm.
type GeneratorType uint8

const (
	Xorshift GeneratorType = iota
	Golang
)

// New returns a new random number generator with the given seed.
func New(gt GeneratorType, seed uint64) *Generator {
	var backend generatorBackend

	switch gt {
	case Xorshift:
		backend = new(xorshiftGenerator)
	case Golang:
		backend = new(golangGenerator)
	default:
		panic("Unrecognized GeneratorType")
	}

	backend.Init(seed)
	return &Generator{backend}
}

// NewTimeSeed returns a new random number generator seeded with the
// current time.
func NewTimeSeed(gt GeneratorType) *Generator {
	return New(gt, uint64(time.Now().UnixNano()))
}

// Uniform returns a float uniformly at random within the range [low, high).
func (gen *Generator) Uniform(low, high float64) float64 {
	if low == 0.0 && high == 1.0 {
		return gen.backend.Next()
	}
	return gen.backend.Next()*(high-low) + low
}

// UniformAt writes floats generated uniformly at random in the range
// [low, high) to every element of a target slice. This is generally faster
// than calling Uniform the corresponding number of times.
func (gen *Generator) UniformAt(low, high float64, target []float64) {
	gen.backend.NextSequence(target)
	if low == 0.0 && high == 1.0 {
		return
	}
	for i := range target {
		target[i] = target[i]*(high-low) + low
	}
}

// UniformInt returns an integer uniformly at random within the
// range [low, high).
func (gen *Generator) UniformInt(low, high int) int {
	f := gen.backend.Next()
	return int(math.Floor(float64(high-low)*f + float64(low)))
}
