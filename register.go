package qsim

import (
	"fmt"
	"math"

	"github.com/charmbracelet/log"
)

/*
Register is the joint state of size qubits: 2^size complex amplitudes indexed by
basis state, plus the bit table that maps each state to its classical qubit
values. Qubit 0 is the least significant bit of a state index everywhere: gate
expansion, the bit table and both measurements.

Every mutating call builds a new amplitude vector and swaps it in, and accessors
only hand out copies. A Register is not safe for concurrent use; parallel
simulations use one Register each.
*/
type Register struct {
	size       int
	numStates  int
	amplitudes []Complex
	bits       BitTable
	source     RandomSource
	settings   registerSettings
}

/*
NewRegister allocates a register of size qubits in the |0…0⟩ state, bound to
source for measurement draws. The amplitude vector and bit table are built
before the register is returned, so a partially constructed register is never
observable.
*/
func NewRegister(size int, source RandomSource, opts ...RegisterOption) (*Register, error) {
	settings := defaultRegisterSettings()
	for _, opt := range opts {
		opt(&settings)
	}

	if size < 1 {
		return nil, fmt.Errorf("NewRegister(%d): %w", size, ErrInvalidSize)
	}

	if size > settings.maxQubits || size > HardMaxQubits {
		return nil, fmt.Errorf("NewRegister(%d): limit is %d: %w", size, settings.maxQubits, ErrRegisterTooLarge)
	}

	if source == nil {
		return nil, ErrNilSource
	}

	numStates := 1 << size
	amplitudes := make([]Complex, numStates)
	amplitudes[0] = one

	log.Debug("register allocated", "qubits", size, "states", numStates)

	return &Register{
		size:       size,
		numStates:  numStates,
		amplitudes: amplitudes,
		bits:       newBitTable(size, numStates),
		source:     source,
		settings:   settings,
	}, nil
}

// Size is the number of qubits.
func (r *Register) Size() int {
	return r.size
}

// NumStates is 2^Size().
func (r *Register) NumStates() int {
	return r.numStates
}

// Bits exposes the read-only bit table.
func (r *Register) Bits() BitTable {
	return r.bits
}

// Weighting reports the MeasureBit weighting in use.
func (r *Register) Weighting() Weighting {
	return r.settings.weighting
}

// State returns the amplitude of basis state index.
func (r *Register) State(index int) (Complex, error) {
	if err := r.checkState(index); err != nil {
		return zero, err
	}

	return r.amplitudes[index], nil
}

// Probability returns |amplitude|² of basis state index.
func (r *Register) Probability(index int) (float64, error) {
	if err := r.checkState(index); err != nil {
		return 0, err
	}

	return r.amplitudes[index].Norm(), nil
}

// Amplitudes returns a copy of the amplitude vector.
func (r *Register) Amplitudes() []Complex {
	out := make([]Complex, r.numStates)
	copy(out, r.amplitudes)
	return out
}

// TotalProbability is Σ|a_i|², 1 for a normalized register.
func (r *Register) TotalProbability() float64 {
	return sumNorms(r.amplitudes)
}

// IsNormalized reports whether the total probability is within tolerance of 1.
func (r *Register) IsNormalized() bool {
	return math.Abs(r.TotalProbability()-1) <= r.settings.tolerance
}

/*
Normalize rescales every amplitude by 1/√(Σ|a|²). It is the recovery path for
floating-point drift that builds up over long gate sequences.
*/
func (r *Register) Normalize() error {
	total := r.TotalProbability()

	if total == 0 {
		return ErrZeroNorm
	}

	if drift := math.Abs(total - 1); drift > r.settings.tolerance {
		log.Warn("normalizing drift", "drift", drift)
	}

	r.amplitudes = scaled(r.amplitudes, 1/math.Sqrt(total))
	return nil
}

// SetState replaces the amplitudes with a copy of amps and normalizes it.
func (r *Register) SetState(amps []Complex) error {
	if len(amps) != r.numStates {
		return fmt.Errorf("SetState: got %d amplitudes, want %d: %w", len(amps), r.numStates, ErrStateLength)
	}

	total := sumNorms(amps)
	if total == 0 {
		return fmt.Errorf("SetState: %w", ErrZeroNorm)
	}

	r.amplitudes = scaled(amps, 1/math.Sqrt(total))
	return nil
}

// SetAverage puts the register in an equal superposition of |0⟩ through |n⟩
// inclusive.
func (r *Register) SetAverage(n int) error {
	if err := r.checkState(n); err != nil {
		return fmt.Errorf("SetAverage: %w", err)
	}

	amp := Complex{Real: 1 / math.Sqrt(float64(n+1))}
	next := make([]Complex, r.numStates)

	for i := 0; i <= n; i++ {
		next[i] = amp
	}

	r.amplitudes = next
	return nil
}

// Clone deep-copies the register and binds the copy to source. A nil source
// keeps the original one.
func (r *Register) Clone(source RandomSource) *Register {
	if source == nil {
		source = r.source
	}

	return &Register{
		size:       r.size,
		numStates:  r.numStates,
		amplitudes: r.Amplitudes(),
		bits:       r.bits,
		source:     source,
		settings:   r.settings,
	}
}

/*
Apply expands g onto qubit bit and multiplies the resulting operator into the
amplitude vector. An out-of-range qubit is an error; the vector is left as it
was.
*/
func (r *Register) Apply(g Gate, bit int) error {
	if err := r.checkQubit(bit); err != nil {
		return fmt.Errorf("apply %s: %w", g.Name, err)
	}

	op, err := g.Expand(r.size, bit, r.settings.denseQubits)
	if err != nil {
		return err
	}

	next, err := MatVec(op, r.amplitudes)
	if err != nil {
		return err
	}

	if g.scale != 1 {
		next = scaled(next, g.scale)
	}

	r.amplitudes = next
	return nil
}

/*
ApplyOperator multiplies a caller-built 2^size × 2^size operator into the state.
Unitarity of op is the caller's responsibility. If the total probability of the
result moved beyond the register tolerance the call fails with ErrNotUnitary
and the vector is left as it was.
*/
func (r *Register) ApplyOperator(op Operator) error {
	if op == nil || op.Dim() != r.numStates {
		return fmt.Errorf("ApplyOperator: want dim %d: %w", r.numStates, ErrDimensionMismatch)
	}

	next, err := MatVec(op, r.amplitudes)
	if err != nil {
		return err
	}

	if before, after := r.TotalProbability(), sumNorms(next); math.Abs(after-before) > r.settings.tolerance {
		return fmt.Errorf("ApplyOperator: total probability %g became %g: %w", before, after, ErrNotUnitary)
	}

	r.amplitudes = next
	return nil
}

func (r *Register) ApplyIdentity(bit int) error { return r.Apply(Identity, bit) }
func (r *Register) ApplyX(bit int) error        { return r.Apply(PauliX, bit) }
func (r *Register) ApplyY(bit int) error        { return r.Apply(PauliY, bit) }
func (r *Register) ApplyZ(bit int) error        { return r.Apply(PauliZ, bit) }
func (r *Register) ApplyHadamard(bit int) error { return r.Apply(Hadamard, bit) }

/*
ApplyCNOT flips target when the classical control value is 1. The control is a
plain integer supplied by the caller, typically an earlier measurement result,
not another qubit of the register. The target is validated either way.
*/
func (r *Register) ApplyCNOT(target, control int) error {
	if err := r.checkQubit(target); err != nil {
		return fmt.Errorf("apply CNOT: %w", err)
	}

	if control != 1 {
		return nil
	}

	return r.ApplyX(target)
}

// ApplyToffoli flips target when both classical control values are 1.
func (r *Register) ApplyToffoli(target, control1, control2 int) error {
	if err := r.checkQubit(target); err != nil {
		return fmt.Errorf("apply Toffoli: %w", err)
	}

	if control1 != 1 || control2 != 1 {
		return nil
	}

	return r.ApplyX(target)
}

func (r *Register) checkQubit(bit int) error {
	if bit < 0 || bit >= r.size {
		return fmt.Errorf("qubit %d of %d: %w", bit, r.size, ErrQubitOutOfRange)
	}
	return nil
}

func (r *Register) checkState(index int) error {
	if index < 0 || index >= r.numStates {
		return fmt.Errorf("state %d of %d: %w", index, r.numStates, ErrStateOutOfRange)
	}
	return nil
}

func sumNorms(amps []Complex) float64 {
	var total float64
	for _, a := range amps {
		total += a.Norm()
	}
	return total
}

func scaled(amps []Complex, k float64) []Complex {
	out := make([]Complex, len(amps))
	for i, a := range amps {
		out[i] = a.Scale(k)
	}
	return out
}
