package qsim

import (
	"fmt"
	"math"
)

/*
Complex is an amplitude value. It is a plain value type: every operation
returns a fresh Complex and leaves both operands untouched, so amplitudes can
be combined in any order without one calculation leaking into another.
*/
type Complex struct {
	Real float64
	Imag float64
}

var (
	zero = Complex{}
	one  = Complex{Real: 1}
)

// NewComplex builds a Complex from its parts.
func NewComplex(real, imag float64) Complex {
	return Complex{Real: real, Imag: imag}
}

// FromComplex128 converts a builtin complex number.
func FromComplex128(c complex128) Complex {
	return Complex{Real: real(c), Imag: imag(c)}
}

// Complex128 converts to the builtin complex type.
func (c Complex) Complex128() complex128 {
	return complex(c.Real, c.Imag)
}

func (c Complex) Add(b Complex) Complex {
	return Complex{Real: c.Real + b.Real, Imag: c.Imag + b.Imag}
}

func (c Complex) Sub(b Complex) Complex {
	return Complex{Real: c.Real - b.Real, Imag: c.Imag - b.Imag}
}

// Mul is (a+bi)(c+di) = (ac-bd) + (ad+bc)i.
func (c Complex) Mul(b Complex) Complex {
	return Complex{
		Real: c.Real*b.Real - c.Imag*b.Imag,
		Imag: c.Real*b.Imag + c.Imag*b.Real,
	}
}

// Scale multiplies both parts by a real factor.
func (c Complex) Scale(k float64) Complex {
	return Complex{Real: c.Real * k, Imag: c.Imag * k}
}

func (c Complex) Conj() Complex {
	return Complex{Real: c.Real, Imag: -c.Imag}
}

// Magnitude is sqrt(re^2 + im^2).
func (c Complex) Magnitude() float64 {
	return math.Hypot(c.Real, c.Imag)
}

// Norm is the squared magnitude, the probability weight of an amplitude.
func (c Complex) Norm() float64 {
	return c.Real*c.Real + c.Imag*c.Imag
}

func (c Complex) IsZero() bool {
	return c.Real == 0 && c.Imag == 0
}

// Equal compares both parts exactly.
func (c Complex) Equal(b Complex) bool {
	return c.Real == b.Real && c.Imag == b.Imag
}

// ApproxEqual compares both parts within an absolute tolerance.
func (c Complex) ApproxEqual(b Complex, tol float64) bool {
	return math.Abs(c.Real-b.Real) <= tol && math.Abs(c.Imag-b.Imag) <= tol
}

func (c Complex) String() string {
	if c.Imag < 0 {
		return fmt.Sprintf("%g - %gi", c.Real, -c.Imag)
	}

	return fmt.Sprintf("%g + %gi", c.Real, c.Imag)
}
