package qsim

import "sort"

// Histogram counts how often each classical outcome came out of a sampling run.
type Histogram struct {
	Shots  int
	counts map[int]int
}

func newHistogram(outcomes []int) *Histogram {
	h := &Histogram{
		Shots:  len(outcomes),
		counts: make(map[int]int),
	}

	for _, o := range outcomes {
		h.counts[o]++
	}

	return h
}

// Count is the number of shots that produced outcome.
func (h *Histogram) Count(outcome int) int {
	return h.counts[outcome]
}

// Frequency is Count(outcome) / Shots.
func (h *Histogram) Frequency(outcome int) float64 {
	if h.Shots == 0 {
		return 0
	}

	return float64(h.counts[outcome]) / float64(h.Shots)
}

// Outcomes lists every observed outcome in ascending order.
func (h *Histogram) Outcomes() []int {
	out := make([]int, 0, len(h.counts))

	for o := range h.counts {
		out = append(out, o)
	}

	sort.Ints(out)
	return out
}
