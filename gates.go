package qsim

import (
	"fmt"
	"math"
)

/*
Gate is a single-qubit operator: a 2×2 complex matrix and a real factor that is
applied to every amplitude once the expanded operator has been multiplied in.
The factor lets Hadamard keep its integer matrix {{1,1},{1,-1}} and pick up the
1/√2 afterwards.
*/
type Gate struct {
	Name   string
	matrix *Matrix
	scale  float64
}

var invSqrt2 = 1 / math.Sqrt2

var (
	// Identity leaves the qubit untouched.
	Identity = mustGate("I", [][]Complex{
		{one, zero},
		{zero, one},
	}, 1)

	// PauliX flips |0⟩ and |1⟩.
	PauliX = mustGate("X", [][]Complex{
		{zero, one},
		{one, zero},
	}, 1)

	// PauliY is {{0, -i}, {i, 0}} and needs full complex arithmetic.
	PauliY = mustGate("Y", [][]Complex{
		{zero, NewComplex(0, -1)},
		{NewComplex(0, 1), zero},
	}, 1)

	// PauliZ flips the phase of |1⟩.
	PauliZ = mustGate("Z", [][]Complex{
		{one, zero},
		{zero, NewComplex(-1, 0)},
	}, 1)

	// Hadamard uses the unnormalized matrix and a 1/√2 post-scale.
	Hadamard = mustGate("H", [][]Complex{
		{one, one},
		{one, NewComplex(-1, 0)},
	}, invSqrt2)
)

func mustGate(name string, rows [][]Complex, scale float64) Gate {
	m, err := NewMatrixFrom(rows)
	if err != nil {
		panic(fmt.Sprintf("qsim: gate %s: %v", name, err))
	}

	return Gate{Name: name, matrix: m, scale: scale}
}

/*
NewGate builds a custom single-qubit gate from a 2×2 matrix and its post-scale.
scale²·G†G must equal the identity within DefaultTolerance, otherwise the gate
is rejected with ErrNotUnitary.
*/
func NewGate(name string, m *Matrix, scale float64) (Gate, error) {
	if m == nil || m.Rows() != 2 || m.Cols() != 2 {
		return Gate{}, fmt.Errorf("NewGate(%s): %w", name, ErrDimensionMismatch)
	}

	if !isUnitary(m, scale, DefaultTolerance) {
		return Gate{}, fmt.Errorf("NewGate(%s): %w", name, ErrNotUnitary)
	}

	return Gate{Name: name, matrix: m.Clone(), scale: scale}, nil
}

// isUnitary checks scale²·(m†m) against the identity entry by entry.
func isUnitary(m *Matrix, scale, tol float64) bool {
	n := m.Rows()
	k2 := scale * scale

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var sum Complex
			for k := 0; k < n; k++ {
				a, _ := m.At(k, i)
				b, _ := m.At(k, j)
				sum = sum.Add(a.Conj().Mul(b))
			}

			want := zero
			if i == j {
				want = one
			}

			if !sum.Scale(k2).ApproxEqual(want, tol) {
				return false
			}
		}
	}

	return true
}

// Matrix returns a copy of the 2×2 gate matrix.
func (g Gate) Matrix() *Matrix {
	return g.matrix.Clone()
}

// Scale is the factor applied after the operator multiply.
func (g Gate) Scale() float64 {
	return g.scale
}

/*
factors lists the per-qubit matrices of the expanded operator from the most
significant qubit (size-1) down to qubit 0, which is the least significant bit
of a state index.
*/
func (g Gate) factors(size, bit int) []*Matrix {
	out := make([]*Matrix, size)

	for q := size - 1; q >= 0; q-- {
		if q == bit {
			out[size-1-q] = g.matrix
			continue
		}
		out[size-1-q] = Identity.matrix
	}

	return out
}

/*
Expand builds the full 2^size × 2^size operator for this gate acting on bit.
Registers up to denseQubits get a materialized matrix; larger ones get a
KronOperator that produces the same rows on demand.
*/
func (g Gate) Expand(size, bit, denseQubits int) (Operator, error) {
	if size < 1 {
		return nil, fmt.Errorf("Expand(%s): %w", g.Name, ErrInvalidSize)
	}
	if bit < 0 || bit >= size {
		return nil, fmt.Errorf("Expand(%s): qubit %d of %d: %w", g.Name, bit, size, ErrQubitOutOfRange)
	}

	op, err := NewKronOperator(g.factors(size, bit)...)
	if err != nil {
		return nil, err
	}

	if size > denseQubits {
		return op, nil
	}

	dense, err := op.Materialize()
	if err != nil {
		return nil, err
	}

	return dense, nil
}
