/*package sph provides the force and derivative evaluator that the
relaxation solver drives: an M4 cubic-spline kernel, smoothed density
summation, and a symmetric pressure-gradient acceleration with an
adiabatic equation of state.
*/
package sph

import (
	"math"
)

// KernelRadius is the compact support radius of the M4 kernel in units of
// the smoothing length.
const KernelRadius = 2.0

// W evaluates the M4 cubic-spline kernel at separation r for smoothing
// length h.
func W(r, h float64) float64 {
	sigma := 1 / (math.Pi * h * h * h)
	q := r / h
	switch {
	case q < 1:
		return sigma * (1 - 1.5*q*q + 0.75*q*q*q)
	case q < 2:
		d := 2 - q
		return sigma * 0.25 * d * d * d
	}
	return 0
}

// GradW evaluates dW/dr at separation r for smoothing length h.
func GradW(r, h float64) float64 {
	sigma := 1 / (math.Pi * h * h * h)
	q := r / h
	switch {
	case q < 1:
		return sigma / h * (-3*q + 2.25*q*q)
	case q < 2:
		d := 2 - q
		return sigma / h * (-0.75 * d * d)
	}
	return 0
}
