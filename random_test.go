package qsim

import (
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSeededSource(t *testing.T) {
	Convey("Given two sources with the same seed", t, func() {
		a := NewSeededSource(7)
		b := NewSeededSource(7)

		Convey("They produce the same draws in [0, 1)", func() {
			for i := 0; i < 100; i++ {
				x, y := a.NextUniform(), b.NextUniform()
				So(x, ShouldEqual, y)
				So(x, ShouldBeGreaterThanOrEqualTo, 0.0)
				So(x, ShouldBeLessThan, 1.0)
			}
		})

		Convey("Neighbouring seeds diverge", func() {
			c := NewSeededSource(8)
			So(a.NextUniform(), ShouldNotEqual, c.NextUniform())
		})

		Convey("A reseed takes effect on the next draw", func() {
			a.NextUniform()
			a.Reseed(99)
			So(a.Seed(), ShouldEqual, uint64(99))

			fresh := NewSeededSource(99)
			So(a.NextUniform(), ShouldEqual, fresh.NextUniform())
			So(a.NextUniform(), ShouldEqual, fresh.NextUniform())
		})

		Convey("Each reseed is consumed by exactly one draw", func() {
			fresh := NewSeededSource(42)
			want := make([]float64, 16)
			for i := range want {
				want[i] = fresh.NextUniform()
			}

			for round := 0; round < 3; round++ {
				a.Reseed(42)
				for i := range want {
					got := a.NextUniform()
					So(got, ShouldEqual, want[i])
					if i > 0 {
						So(got, ShouldNotEqual, want[i-1])
					}
				}
			}
		})
	})
}

func TestSeededSourceConcurrentReseed(t *testing.T) {
	Convey("Given a source drawn from while another goroutine reseeds it", t, func() {
		source := NewSeededSource(1)

		var wg sync.WaitGroup
		wg.Add(2)

		go func() {
			defer wg.Done()
			for i := uint64(0); i < 500; i++ {
				source.Reseed(i)
			}
		}()

		draws := make([]float64, 0, 500)

		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				draws = append(draws, source.NextUniform())
			}
		}()

		wg.Wait()

		Convey("Every draw is still a valid uniform value", func() {
			So(len(draws), ShouldEqual, 500)
			for _, d := range draws {
				So(d, ShouldBeGreaterThanOrEqualTo, 0.0)
				So(d, ShouldBeLessThan, 1.0)
			}
			So(source.Seed(), ShouldEqual, uint64(499))
		})

		Convey("The last reseed is applied once and then the generator runs on", func() {
			fresh := NewSeededSource(499)
			first, second := source.NextUniform(), source.NextUniform()
			if first == fresh.NextUniform() {
				So(second, ShouldEqual, fresh.NextUniform())
			}
			So(second, ShouldNotEqual, first)
		})
	})
}

func TestSequenceSource(t *testing.T) {
	Convey("Given a sequence of draws", t, func() {
		source := NewSequenceSource(0.1, 0.2)

		Convey("It replays them in order and wraps", func() {
			So(source.NextUniform(), ShouldEqual, 0.1)
			So(source.NextUniform(), ShouldEqual, 0.2)
			So(source.NextUniform(), ShouldEqual, 0.1)
			So(source.Consumed(), ShouldEqual, 3)
		})

		Convey("An empty sequence yields 0", func() {
			So(NewSequenceSource().NextUniform(), ShouldEqual, 0.0)
		})
	})
}
