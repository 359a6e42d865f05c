package qsim

import (
	"fmt"
	"strings"
)

const (
	// HardMaxQubits bounds every register regardless of configuration;
	// 2^30 amplitudes already take 16 GiB.
	HardMaxQubits = 30

	DefaultMaxQubits           = 24
	DefaultDenseOperatorQubits = 10
	DefaultTolerance           = 1e-9
)

/*
Weighting selects how MeasureBit turns amplitudes into branch weights.
MagnitudeWeighting sums |a| over each branch, which is how the register has
always behaved. ProbabilityWeighting sums |a|², the textbook Born rule.
DecimalMeasure always uses |a|².
*/
type Weighting int

const (
	MagnitudeWeighting Weighting = iota
	ProbabilityWeighting
)

func (w Weighting) String() string {
	switch w {
	case MagnitudeWeighting:
		return "magnitude"
	case ProbabilityWeighting:
		return "probability"
	default:
		return fmt.Sprintf("weighting(%d)", int(w))
	}
}

// ParseWeighting accepts "magnitude" or "probability" in any case.
func ParseWeighting(s string) (Weighting, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "magnitude":
		return MagnitudeWeighting, nil
	case "probability", "born":
		return ProbabilityWeighting, nil
	default:
		return MagnitudeWeighting, fmt.Errorf("%q: %w", s, ErrUnknownWeighting)
	}
}

type registerSettings struct {
	maxQubits   int
	denseQubits int
	weighting   Weighting
	tolerance   float64
}

func defaultRegisterSettings() registerSettings {
	return registerSettings{
		maxQubits:   DefaultMaxQubits,
		denseQubits: DefaultDenseOperatorQubits,
		weighting:   MagnitudeWeighting,
		tolerance:   DefaultTolerance,
	}
}

// RegisterOption is a function type for configuring registers
type RegisterOption func(*registerSettings)

// WithMaxQubits caps the register size. Values above HardMaxQubits are clamped
// to it.
func WithMaxQubits(n int) RegisterOption {
	return func(s *registerSettings) {
		s.maxQubits = min(n, HardMaxQubits)
	}
}

// WithDenseOperatorQubits sets the largest register whose gate operators are
// fully materialized before the multiply.
func WithDenseOperatorQubits(n int) RegisterOption {
	return func(s *registerSettings) {
		s.denseQubits = n
	}
}

// WithWeighting selects the MeasureBit branch weighting.
func WithWeighting(w Weighting) RegisterOption {
	return func(s *registerSettings) {
		s.weighting = w
	}
}

// WithTolerance sets the normalization drift accepted by IsNormalized.
func WithTolerance(tol float64) RegisterOption {
	return func(s *registerSettings) {
		if tol > 0 {
			s.tolerance = tol
		}
	}
}
