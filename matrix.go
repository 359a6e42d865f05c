package qsim

import (
	"fmt"
	"strings"
)

/*
Operator is a square linear operator that can hand out one row at a time.
Gate application only ever needs row i of the operator to produce amplitude i,
so both a materialized matrix and a lazily expanded tensor product satisfy it.
*/
type Operator interface {
	// Dim is the number of rows (and columns).
	Dim() int

	// Row writes row i into dst, which must have length Dim().
	Row(i int, dst []Complex)
}

/*
Matrix is a dense, row-major complex matrix with bounds-checked accessors.
*/
type Matrix struct {
	r, c int
	data []Complex
}

// NewMatrix allocates a zero matrix.
func NewMatrix(rows, cols int) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("NewMatrix(%d, %d): %w", rows, cols, ErrInvalidShape)
	}

	return &Matrix{r: rows, c: cols, data: make([]Complex, rows*cols)}, nil
}

// NewMatrixFrom copies a rectangular slice of rows.
func NewMatrixFrom(rows [][]Complex) (*Matrix, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("NewMatrixFrom: %w", ErrInvalidShape)
	}

	m, err := NewMatrix(len(rows), len(rows[0]))
	if err != nil {
		return nil, err
	}

	for i, row := range rows {
		if len(row) != m.c {
			return nil, fmt.Errorf("NewMatrixFrom: row %d has %d columns, want %d: %w", i, len(row), m.c, ErrInvalidShape)
		}
		copy(m.data[i*m.c:(i+1)*m.c], row)
	}

	return m, nil
}

// NewIdentityMatrix returns the n×n identity.
func NewIdentityMatrix(n int) (*Matrix, error) {
	m, err := NewMatrix(n, n)
	if err != nil {
		return nil, err
	}

	for i := 0; i < n; i++ {
		m.data[i*n+i] = one
	}

	return m, nil
}

func (m *Matrix) Rows() int { return m.r }
func (m *Matrix) Cols() int { return m.c }

// Dim satisfies Operator. It is only meaningful for square matrices.
func (m *Matrix) Dim() int { return m.r }

func (m *Matrix) indexOf(row, col int) (int, error) {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return 0, fmt.Errorf("index (%d, %d) in %dx%d: %w", row, col, m.r, m.c, ErrOutOfRange)
	}

	return row*m.c + col, nil
}

func (m *Matrix) At(row, col int) (Complex, error) {
	idx, err := m.indexOf(row, col)
	if err != nil {
		return zero, err
	}

	return m.data[idx], nil
}

func (m *Matrix) Set(row, col int, v Complex) error {
	idx, err := m.indexOf(row, col)
	if err != nil {
		return err
	}

	m.data[idx] = v
	return nil
}

// Row copies row i into dst.
func (m *Matrix) Row(i int, dst []Complex) {
	copy(dst, m.data[i*m.c:(i+1)*m.c])
}

// Clone returns an independent copy.
func (m *Matrix) Clone() *Matrix {
	data := make([]Complex, len(m.data))
	copy(data, m.data)
	return &Matrix{r: m.r, c: m.c, data: data}
}

func (m *Matrix) String() string {
	var sb strings.Builder

	for i := 0; i < m.r; i++ {
		sb.WriteString("[")
		for j := 0; j < m.c; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(m.data[i*m.c+j].String())
		}
		sb.WriteString("]\n")
	}

	return sb.String()
}

/*
Kron returns the Kronecker product a ⊗ b:

	K[i][j] = a[i / b.r][j / b.c] * b[i % b.r][j % b.c]

In a ⊗ b the factor a selects the high-order part of the row and column index,
so when single-qubit factors are combined a acts on the more significant qubit.
*/
func Kron(a, b *Matrix) (*Matrix, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("Kron: nil operand: %w", ErrInvalidShape)
	}

	k, err := NewMatrix(a.r*b.r, a.c*b.c)
	if err != nil {
		return nil, err
	}

	for ra := 0; ra < a.r; ra++ {
		for ca := 0; ca < a.c; ca++ {
			av := a.data[ra*a.c+ca]
			if av.IsZero() {
				continue
			}

			for rb := 0; rb < b.r; rb++ {
				base := (ra*b.r+rb)*k.c + ca*b.c
				for cb := 0; cb < b.c; cb++ {
					k.data[base+cb] = av.Mul(b.data[rb*b.c+cb])
				}
			}
		}
	}

	return k, nil
}

/*
MatVec computes y = op · x using full complex arithmetic. Rows are pulled one
at a time, so the operator never has to be materialized by the caller.
*/
func MatVec(op Operator, x []Complex) ([]Complex, error) {
	n := op.Dim()
	if len(x) != n {
		return nil, fmt.Errorf("MatVec: vector length %d, operator dim %d: %w", len(x), n, ErrDimensionMismatch)
	}

	y := make([]Complex, n)
	row := make([]Complex, n)

	for i := 0; i < n; i++ {
		op.Row(i, row)

		var acc Complex
		for j, v := range row {
			if v.IsZero() || x[j].IsZero() {
				continue
			}
			acc = acc.Add(v.Mul(x[j]))
		}

		y[i] = acc
	}

	return y, nil
}

/*
KronOperator is the tensor product of square factors, listed from the most
significant to the least significant. It produces each row of the full product
on demand, which keeps memory at O(dim) while the entries stay identical to the
materialized Kronecker product.
*/
type KronOperator struct {
	factors []*Matrix
	dim     int
}

// NewKronOperator validates that every factor is square.
func NewKronOperator(factors ...*Matrix) (*KronOperator, error) {
	if len(factors) == 0 {
		return nil, fmt.Errorf("NewKronOperator: no factors: %w", ErrInvalidShape)
	}

	dim := 1
	for i, f := range factors {
		if f == nil || f.r != f.c {
			return nil, fmt.Errorf("NewKronOperator: factor %d is not square: %w", i, ErrDimensionMismatch)
		}
		dim *= f.r
	}

	return &KronOperator{factors: factors, dim: dim}, nil
}

func (k *KronOperator) Dim() int { return k.dim }

// Row expands row i in place inside dst, least significant factor first.
func (k *KronOperator) Row(i int, dst []Complex) {
	dst[0] = one
	length := 1

	for f := len(k.factors) - 1; f >= 0; f-- {
		factor := k.factors[f]
		d := factor.r
		sub := i % d
		i /= d

		row := factor.data[sub*d : (sub+1)*d]

		// Walk backwards so dst[0:length] is read before it is overwritten.
		for a := d - 1; a >= 0; a-- {
			for b := length - 1; b >= 0; b-- {
				dst[a*length+b] = row[a].Mul(dst[b])
			}
		}

		length *= d
	}
}

// Materialize folds the factors into one dense matrix.
func (k *KronOperator) Materialize() (*Matrix, error) {
	out := k.factors[0].Clone()

	for _, f := range k.factors[1:] {
		next, err := Kron(out, f)
		if err != nil {
			return nil, err
		}
		out = next
	}

	return out, nil
}
