package entropy

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// Reseeder accepts a new seed for a random source.
type Reseeder interface {
	Reseed(seed uint64)
}

/*
Feed forwards hardware seeds to a random source. Every interval it polls the
provider and reseeds the target, but only when the seed differs from the one
it forwarded last.
*/
type Feed struct {
	provider SeedProvider
	target   Reseeder
	interval time.Duration
	logger   *log.Logger

	mu      sync.Mutex
	last    uint32
	hasLast bool
	reseeds atomic.Uint64
}

func NewFeed(provider SeedProvider, target Reseeder, interval time.Duration, logger *log.Logger) *Feed {
	if interval <= 0 {
		interval = 5 * time.Second
	}

	if logger == nil {
		logger = log.Default().WithPrefix("entropy")
	}

	return &Feed{
		provider: provider,
		target:   target,
		interval: interval,
		logger:   logger,
	}
}

// Poll checks the provider once and reports whether the target was reseeded.
func (f *Feed) Poll() bool {
	seed, ok := f.provider.Seed()
	if !ok {
		return false
	}

	f.mu.Lock()
	if f.hasLast && seed == f.last {
		f.mu.Unlock()
		return false
	}
	f.last = seed
	f.hasLast = true
	f.mu.Unlock()

	f.target.Reseed(uint64(seed))
	f.reseeds.Add(1)
	f.logger.Info("Updated seed", "seed", seed)

	return true
}

// Run polls right away and then once per interval until ctx is done.
func (f *Feed) Run(ctx context.Context) error {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	f.Poll()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			f.Poll()
		}
	}
}

// Reseeds counts the seeds forwarded so far.
func (f *Feed) Reseeds() uint64 {
	return f.reseeds.Load()
}

// Current is the last forwarded seed.
func (f *Feed) Current() (uint64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return uint64(f.last), f.hasLast
}
