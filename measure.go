package qsim

import (
	"fmt"
	"math"
)

/*
MeasureBit measures a single qubit. The weight of each outcome is summed over
the bit table using the register's Weighting, the two weights are scaled to sum
to 1 and one draw r decides: 0 when p0 >= r, otherwise 1. Amplitudes that
disagree with the outcome are zeroed and the survivors renormalized.

An outcome with zero weight is never selected, so a draw of exactly 0 cannot
collapse the register onto an empty branch.
*/
func (r *Register) MeasureBit(bit int) (int, error) {
	if err := r.checkQubit(bit); err != nil {
		return 0, fmt.Errorf("MeasureBit: %w", err)
	}

	var w0, w1 float64

	for i, a := range r.amplitudes {
		w := r.weight(a)

		if r.bits.At(i, bit) == 0 {
			w0 += w
			continue
		}

		w1 += w
	}

	total := w0 + w1
	if total == 0 {
		return 0, fmt.Errorf("MeasureBit: %w", ErrZeroNorm)
	}

	draw := r.source.NextUniform()
	p0 := w0 / total

	var outcome int

	switch {
	case w0 == 0:
		outcome = 1
	case w1 == 0:
		outcome = 0
	case p0 >= draw:
		outcome = 0
	default:
		outcome = 1
	}

	next := make([]Complex, r.numStates)
	var kept float64

	for i, a := range r.amplitudes {
		if int(r.bits.At(i, bit)) != outcome {
			continue
		}

		next[i] = a
		kept += a.Norm()
	}

	// Magnitude weighting can pick a branch whose |a|² underflowed to 0.
	if kept == 0 {
		return 0, fmt.Errorf("MeasureBit: branch %d: %w", outcome, ErrZeroNorm)
	}

	r.amplitudes = scaled(next, 1/math.Sqrt(kept))
	return outcome, nil
}

/*
DecimalMeasure measures the whole register at once. It walks the basis states
accumulating |a_i|² and picks the first index whose running total exceeds the
draw, then collapses onto that basis state. When rounding leaves the total at
or below the draw, the last state with nonzero probability is picked.
*/
func (r *Register) DecimalMeasure() (int, error) {
	last := -1

	for i, a := range r.amplitudes {
		if a.Norm() > 0 {
			last = i
		}
	}

	if last < 0 {
		return 0, fmt.Errorf("DecimalMeasure: %w", ErrZeroNorm)
	}

	draw := r.source.NextUniform()
	chosen := last

	var cumulative float64

	for i, a := range r.amplitudes {
		cumulative += a.Norm()

		if cumulative > draw {
			chosen = i
			break
		}
	}

	next := make([]Complex, r.numStates)
	next[chosen] = one

	r.amplitudes = next
	return chosen, nil
}

func (r *Register) weight(a Complex) float64 {
	if r.settings.weighting == ProbabilityWeighting {
		return a.Norm()
	}

	return a.Magnitude()
}
