package sph

import (
	"math"
)

// Options are the global physics settings the evaluator runs under. The
// relaxation solver overrides them for the duration of a run and restores
// the previous values afterwards.
type Options struct {
	// Gamma is the adiabatic index of the equation of state.
	Gamma float64

	// Damp is the velocity damping coefficient. Zero disables damping.
	Damp float64
}

// Pressure returns the adiabatic gas pressure (gamma - 1) * rho * u.
func Pressure(gamma, rho, u float64) float64 {
	return (gamma - 1) * rho * u
}

// SoundSpeed returns the adiabatic sound speed sqrt(gamma * P / rho),
// which reduces to sqrt(gamma * (gamma-1) * u).
func SoundSpeed(gamma, u float64) float64 {
	return math.Sqrt(gamma * (gamma - 1) * u)
}
