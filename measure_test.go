package qsim

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMeasureBit(t *testing.T) {
	Convey("Given a qubit in |+⟩", t, func() {
		source := NewSequenceSource(0.3)
		r, err := NewRegister(1, source)
		So(err, ShouldBeNil)
		So(r.ApplyHadamard(0), ShouldBeNil)

		Convey("A draw of 0.3 collapses it to 0", func() {
			outcome, err := r.MeasureBit(0)
			So(err, ShouldBeNil)
			So(outcome, ShouldEqual, 0)
			So(r.Amplitudes(), shouldMatchAmplitudes, []Complex{one, zero})
			So(source.Consumed(), ShouldEqual, 1)
		})

		Convey("A draw of 0.7 collapses it to 1", func() {
			r = r.Clone(NewSequenceSource(0.7))

			outcome, err := r.MeasureBit(0)
			So(err, ShouldBeNil)
			So(outcome, ShouldEqual, 1)
			So(r.Amplitudes(), shouldMatchAmplitudes, []Complex{zero, one})
		})
	})

	Convey("Given two qubits in uniform superposition", t, func() {
		r, err := NewRegister(2, NewSequenceSource(0.3))
		So(err, ShouldBeNil)
		So(r.ApplyHadamard(0), ShouldBeNil)
		So(r.ApplyHadamard(1), ShouldBeNil)

		Convey("Measuring qubit 1 keeps only the matching half", func() {
			outcome, err := r.MeasureBit(1)
			So(err, ShouldBeNil)
			So(outcome, ShouldEqual, 0)

			for i, want := range []float64{0.5, 0.5, 0, 0} {
				p, _ := r.Probability(i)
				So(p, ShouldAlmostEqual, want, 1e-9)
			}

			So(r.TotalProbability(), ShouldAlmostEqual, 1.0, 1e-9)
		})
	})
}

func TestMeasureBitNeverPicksAnEmptyBranch(t *testing.T) {
	Convey("Given a qubit in |1⟩ and a draw of exactly 0", t, func() {
		r, err := NewRegister(1, NewSequenceSource(0))
		So(err, ShouldBeNil)
		So(r.ApplyX(0), ShouldBeNil)

		outcome, err := r.MeasureBit(0)
		So(err, ShouldBeNil)
		So(outcome, ShouldEqual, 1)
		So(r.IsNormalized(), ShouldBeTrue)
	})
}

func TestMeasureBitWeighting(t *testing.T) {
	Convey("Given the unbalanced state (3|0⟩ + |1⟩)/√10 and a draw of 0.8", t, func() {
		amps := []Complex{NewComplex(3, 0), NewComplex(1, 0)}

		Convey("Magnitude weighting gives p0 = 0.75 and picks 1", func() {
			r, err := NewRegister(1, NewSequenceSource(0.8))
			So(err, ShouldBeNil)
			So(r.Weighting(), ShouldEqual, MagnitudeWeighting)
			So(r.SetState(amps), ShouldBeNil)

			outcome, err := r.MeasureBit(0)
			So(err, ShouldBeNil)
			So(outcome, ShouldEqual, 1)
		})

		Convey("Probability weighting gives p0 = 0.9 and picks 0", func() {
			r, err := NewRegister(1, NewSequenceSource(0.8), WithWeighting(ProbabilityWeighting))
			So(err, ShouldBeNil)
			So(r.SetState(amps), ShouldBeNil)

			outcome, err := r.MeasureBit(0)
			So(err, ShouldBeNil)
			So(outcome, ShouldEqual, 0)
		})
	})
}

func TestDecimalMeasure(t *testing.T) {
	Convey("Given two qubits in uniform superposition", t, func() {
		source := NewSequenceSource(0.6)
		r, err := NewRegister(2, source)
		So(err, ShouldBeNil)
		So(r.SetAverage(3), ShouldBeNil)

		Convey("A draw of 0.6 lands on state 2", func() {
			outcome, err := r.DecimalMeasure()
			So(err, ShouldBeNil)
			So(outcome, ShouldEqual, 2)
			So(r.Amplitudes(), shouldMatchAmplitudes, []Complex{zero, zero, one, zero})
			So(source.Consumed(), ShouldEqual, 1)
		})
	})

	Convey("Given a state whose probabilities sum to slightly less than 1", t, func() {
		r, err := NewRegister(2, NewSequenceSource(0.95))
		So(err, ShouldBeNil)

		half := 0.5 * math.Sqrt(0.9)
		r.amplitudes = []Complex{NewComplex(half, 0), NewComplex(0, half), zero, zero}

		Convey("The last state with nonzero probability is picked", func() {
			outcome, err := r.DecimalMeasure()
			So(err, ShouldBeNil)
			So(outcome, ShouldEqual, 1)
			So(r.IsNormalized(), ShouldBeTrue)
		})
	})

	Convey("Given an all-zero vector", t, func() {
		r, err := NewRegister(1, NewSequenceSource(0.5))
		So(err, ShouldBeNil)
		r.amplitudes = make([]Complex, 2)

		_, err = r.DecimalMeasure()
		So(err, ShouldWrap, ErrZeroNorm)

		_, err = r.MeasureBit(0)
		So(err, ShouldWrap, ErrZeroNorm)
	})
}

func TestMeasurementIsDeterministic(t *testing.T) {
	Convey("Given two registers drawing from identically seeded sources", t, func() {
		run := func() []int {
			r, err := NewRegister(3, NewSeededSource(42))
			So(err, ShouldBeNil)

			var outcomes []int

			for round := 0; round < 25; round++ {
				for bit := 0; bit < 3; bit++ {
					So(r.ApplyHadamard(bit), ShouldBeNil)
				}

				m, err := r.MeasureBit(round % 3)
				So(err, ShouldBeNil)
				outcomes = append(outcomes, m)

				d, err := r.DecimalMeasure()
				So(err, ShouldBeNil)
				outcomes = append(outcomes, d)

				So(r.TotalProbability(), ShouldAlmostEqual, 1.0, 1e-9)
			}

			return outcomes
		}

		So(run(), ShouldResemble, run())
	})
}
