package qsim

import (
	"math/rand/v2"
	"sync"
	"sync/atomic"
)

/*
RandomSource supplies the uniform draws that drive measurement. Registers call
NextUniform exactly once per measurement and never own the source.
*/
type RandomSource interface {
	// NextUniform returns a value in [0, 1).
	NextUniform() float64
}

/*
SeededSource is a PCG generator that can be reseeded from another goroutine
while registers keep drawing from it. A reseed publishes the new seed through a
single pointer; the next draw swaps it out and builds a generator from it. A
draw therefore sees either the previous seed or the complete new one, and each
reseed is consumed exactly once.
*/
type SeededSource struct {
	mu   sync.Mutex
	rng  *rand.Rand
	next atomic.Pointer[uint64]
	seed atomic.Uint64
}

// NewSeededSource returns a source seeded with seed.
func NewSeededSource(seed uint64) *SeededSource {
	s := &SeededSource{rng: newPCG(seed)}
	s.seed.Store(seed)
	return s
}

func (s *SeededSource) NextUniform() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p := s.next.Swap(nil); p != nil {
		s.rng = newPCG(*p)
	}

	return s.rng.Float64()
}

// Reseed schedules seed for the next draw. Safe for concurrent use.
func (s *SeededSource) Reseed(seed uint64) {
	s.seed.Store(seed)
	s.next.Store(&seed)
}

// Seed reports the most recently requested seed.
func (s *SeededSource) Seed() uint64 {
	return s.seed.Load()
}

func newPCG(seed uint64) *rand.Rand {
	hi := splitmix64(seed ^ 0x9e3779b97f4a7c15)
	lo := splitmix64(seed ^ 0xda942042e4dd58b5)
	return rand.New(rand.NewPCG(hi, lo))
}

// splitmix64 spreads nearby seeds (shot indices, device counters) across the
// whole PCG state space.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

/*
SequenceSource replays a fixed list of draws, wrapping around at the end. It
makes measurement outcomes reproducible in tests and in recorded replays.
*/
type SequenceSource struct {
	mu    sync.Mutex
	draws []float64
	next  int
}

// NewSequenceSource copies draws; an empty list always yields 0.
func NewSequenceSource(draws ...float64) *SequenceSource {
	d := make([]float64, len(draws))
	copy(d, draws)
	return &SequenceSource{draws: d}
}

func (s *SequenceSource) NextUniform() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.draws) == 0 {
		return 0
	}

	v := s.draws[s.next%len(s.draws)]
	s.next++
	return v
}

// Consumed is the number of draws handed out so far.
func (s *SequenceSource) Consumed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}
