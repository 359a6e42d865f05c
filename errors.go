package qsim

import "errors"

/*
Sentinel errors returned by the register, the matrix helpers and the sampler.
Callers match them with errors.Is; context is attached with %w at the point of
failure, so the sentinel always survives wrapping.
*/
var (
	// ErrInvalidSize is returned when a register is asked for fewer than one qubit.
	ErrInvalidSize = errors.New("qsim: register size must be at least 1")

	// ErrRegisterTooLarge is returned when 2^size would exceed the configured
	// qubit ceiling. The register is never silently truncated.
	ErrRegisterTooLarge = errors.New("qsim: register size exceeds qubit limit")

	// ErrNilSource is returned when a register is built without a random source.
	ErrNilSource = errors.New("qsim: nil random source")

	// ErrQubitOutOfRange is returned by gate and measurement calls whose qubit
	// index does not exist in the register.
	ErrQubitOutOfRange = errors.New("qsim: qubit index out of range")

	// ErrStateOutOfRange is returned when a basis state index is >= 2^size.
	ErrStateOutOfRange = errors.New("qsim: state index out of range")

	// ErrStateLength is returned by SetState when the vector is not 2^size long.
	ErrStateLength = errors.New("qsim: state vector length mismatch")

	// ErrZeroNorm is returned when a vector with no weight would have to be
	// normalized or measured.
	ErrZeroNorm = errors.New("qsim: state vector has zero norm")

	// ErrInvalidShape is returned for matrices with non-positive dimensions.
	ErrInvalidShape = errors.New("qsim: invalid matrix shape")

	// ErrOutOfRange is returned by matrix indexers.
	ErrOutOfRange = errors.New("qsim: matrix index out of range")

	// ErrDimensionMismatch is returned when operand dimensions do not line up.
	ErrDimensionMismatch = errors.New("qsim: dimension mismatch")

	// ErrNotUnitary is returned for gates and operators that would not keep
	// the total probability at 1.
	ErrNotUnitary = errors.New("qsim: operator is not unitary")

	// ErrInvalidShots is returned by the sampler for a non-positive shot count.
	ErrInvalidShots = errors.New("qsim: shot count must be at least 1")

	// ErrUnknownWeighting is returned when a weighting name cannot be parsed.
	ErrUnknownWeighting = errors.New("qsim: unknown measurement weighting")
)
