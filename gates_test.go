package qsim

import (
	"math"
	"math/rand/v2"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func newTestRegister(size int, opts ...RegisterOption) *Register {
	r, err := NewRegister(size, NewSequenceSource(0.5), opts...)
	So(err, ShouldBeNil)
	return r
}

func shouldMatchAmplitudes(actual any, expected ...any) string {
	got := actual.([]Complex)
	want := expected[0].([]Complex)

	if len(got) != len(want) {
		return ShouldEqual(len(got), len(want))
	}

	for i := range want {
		if !got[i].ApproxEqual(want[i], 1e-9) {
			return ShouldResemble(got, want)
		}
	}

	return ""
}

func TestSingleQubitGates(t *testing.T) {
	Convey("Given a one-qubit register in |0⟩", t, func() {
		r := newTestRegister(1)

		Convey("X moves it to |1⟩", func() {
			So(r.ApplyX(0), ShouldBeNil)
			So(r.Amplitudes(), shouldMatchAmplitudes, []Complex{zero, one})
		})

		Convey("X applied twice is the identity", func() {
			So(r.ApplyX(0), ShouldBeNil)
			So(r.ApplyX(0), ShouldBeNil)
			So(r.Amplitudes(), shouldMatchAmplitudes, []Complex{one, zero})
		})

		Convey("H gives the equal superposition", func() {
			So(r.ApplyHadamard(0), ShouldBeNil)

			amp := NewComplex(1/math.Sqrt2, 0)
			So(r.Amplitudes(), shouldMatchAmplitudes, []Complex{amp, amp})
			So(r.TotalProbability(), ShouldAlmostEqual, 1.0, 1e-9)
		})

		Convey("H applied twice is the identity", func() {
			So(r.ApplyHadamard(0), ShouldBeNil)
			So(r.ApplyHadamard(0), ShouldBeNil)
			So(r.Amplitudes(), shouldMatchAmplitudes, []Complex{one, zero})
		})

		Convey("Y keeps the imaginary cross term", func() {
			So(r.ApplyY(0), ShouldBeNil)
			So(r.Amplitudes(), shouldMatchAmplitudes, []Complex{zero, NewComplex(0, 1)})
		})

		Convey("Z flips the phase of |1⟩ only", func() {
			So(r.ApplyHadamard(0), ShouldBeNil)
			So(r.ApplyZ(0), ShouldBeNil)

			amp := 1 / math.Sqrt2
			So(r.Amplitudes(), shouldMatchAmplitudes, []Complex{NewComplex(amp, 0), NewComplex(-amp, 0)})
		})

		Convey("Identity changes nothing", func() {
			So(r.ApplyIdentity(0), ShouldBeNil)
			So(r.Amplitudes(), shouldMatchAmplitudes, []Complex{one, zero})
		})
	})
}

func randomState(rng *rand.Rand, size int) []Complex {
	amps := make([]Complex, 1<<size)
	for i := range amps {
		amps[i] = NewComplex(rng.NormFloat64(), rng.NormFloat64())
	}
	return amps
}

func TestGatesAreSelfInverseOnAnyState(t *testing.T) {
	rng := rand.New(rand.NewPCG(17, 29))
	gates := []Gate{PauliX, PauliY, PauliZ, Hadamard}

	Convey("Given random states on registers of one to five qubits", t, func() {
		for size := 1; size <= 5; size++ {
			for _, dense := range []int{DefaultDenseOperatorQubits, 0} {
				for trial := 0; trial < 5; trial++ {
					r := newTestRegister(size, WithDenseOperatorQubits(dense))
					So(r.SetState(randomState(rng, size)), ShouldBeNil)

					start := r.Amplitudes()

					for _, g := range gates {
						for bit := 0; bit < size; bit++ {
							So(r.Apply(g, bit), ShouldBeNil)
							So(r.IsNormalized(), ShouldBeTrue)

							So(r.Apply(g, bit), ShouldBeNil)
							So(r.IsNormalized(), ShouldBeTrue)

							So(r.Amplitudes(), shouldMatchAmplitudes, start)
						}
					}

					_, err := r.MeasureBit(rng.IntN(size))
					So(err, ShouldBeNil)
					So(r.TotalProbability(), ShouldAlmostEqual, 1.0, 1e-9)
				}
			}
		}
	})
}

func TestGateTargetsLeastSignificantBit(t *testing.T) {
	Convey("Given a three-qubit register", t, func() {
		r := newTestRegister(3)

		Convey("X on qubit 0 sets state 1", func() {
			So(r.ApplyX(0), ShouldBeNil)

			p, err := r.Probability(1)
			So(err, ShouldBeNil)
			So(p, ShouldAlmostEqual, 1.0, 1e-12)
		})

		Convey("X on qubit 2 sets state 4", func() {
			So(r.ApplyX(2), ShouldBeNil)

			p, err := r.Probability(4)
			So(err, ShouldBeNil)
			So(p, ShouldAlmostEqual, 1.0, 1e-12)
			So(r.Bits().Label(4), ShouldEqual, "100")
		})
	})
}

func TestDenseAndStreamedOperatorsAgree(t *testing.T) {
	Convey("Given the same gate sequence on a dense and a streamed register", t, func() {
		dense := newTestRegister(4, WithDenseOperatorQubits(10))
		streamed := newTestRegister(4, WithDenseOperatorQubits(0))

		sequence := []struct {
			gate Gate
			bit  int
		}{
			{Hadamard, 0}, {PauliY, 1}, {Hadamard, 3}, {PauliX, 2}, {PauliZ, 0}, {Hadamard, 1},
		}

		for _, step := range sequence {
			So(dense.Apply(step.gate, step.bit), ShouldBeNil)
			So(streamed.Apply(step.gate, step.bit), ShouldBeNil)
		}

		Convey("The amplitudes match", func() {
			So(streamed.Amplitudes(), shouldMatchAmplitudes, dense.Amplitudes())
			So(streamed.IsNormalized(), ShouldBeTrue)
		})

		Convey("Expand picks the representation by size", func() {
			op, err := Hadamard.Expand(4, 1, 0)
			So(err, ShouldBeNil)
			_, isStreamed := op.(*KronOperator)
			So(isStreamed, ShouldBeTrue)

			op, err = Hadamard.Expand(4, 1, 10)
			So(err, ShouldBeNil)
			_, isDense := op.(*Matrix)
			So(isDense, ShouldBeTrue)
		})
	})
}

func TestExpandValidation(t *testing.T) {
	Convey("Given an invalid expansion request", t, func() {
		_, err := PauliX.Expand(0, 0, 10)
		So(err, ShouldWrap, ErrInvalidSize)

		_, err = PauliX.Expand(2, 2, 10)
		So(err, ShouldWrap, ErrQubitOutOfRange)
	})
}

func TestCustomGate(t *testing.T) {
	Convey("Given a phase gate built with NewGate", t, func() {
		m, err := NewMatrixFrom([][]Complex{{one, zero}, {zero, NewComplex(0, 1)}})
		So(err, ShouldBeNil)

		s, err := NewGate("S", m, 1)
		So(err, ShouldBeNil)

		r := newTestRegister(1)
		So(r.ApplyX(0), ShouldBeNil)
		So(r.Apply(s, 0), ShouldBeNil)

		So(r.Amplitudes(), shouldMatchAmplitudes, []Complex{zero, NewComplex(0, 1)})

		Convey("Non 2x2 matrices are rejected", func() {
			big, err := NewIdentityMatrix(4)
			So(err, ShouldBeNil)

			_, err = NewGate("big", big, 1)
			So(err, ShouldWrap, ErrDimensionMismatch)
		})

		Convey("A zero scale is rejected", func() {
			_, err := NewGate("S0", m, 0)
			So(err, ShouldWrap, ErrNotUnitary)
		})

		Convey("A matrix that does not preserve the norm is rejected", func() {
			squash, err := NewMatrixFrom([][]Complex{{one, one}, {zero, one}})
			So(err, ShouldBeNil)

			_, err = NewGate("squash", squash, 1)
			So(err, ShouldWrap, ErrNotUnitary)
		})

		Convey("The unnormalized Hadamard matrix passes with its 1/√2 scale", func() {
			h, err := NewGate("H2", Hadamard.Matrix(), Hadamard.Scale())
			So(err, ShouldBeNil)

			_, err = NewGate("H2", Hadamard.Matrix(), 1)
			So(err, ShouldWrap, ErrNotUnitary)

			r := newTestRegister(1)
			So(r.Apply(h, 0), ShouldBeNil)
			So(r.IsNormalized(), ShouldBeTrue)
		})
	})
}
