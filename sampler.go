package qsim

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/theapemachine/errnie"
	"golang.org/x/sync/errgroup"
)

// Program prepares and measures one register and returns the classical outcome.
type Program func(*Register) (int, error)

// shot is one independent run of a Program on a fresh register.
type shot struct {
	Index     int
	Seed      uint64
	StartTime time.Time
}

/*
Sampler runs a Program over many independent registers in parallel and
aggregates the classical outcomes into a Histogram. Every shot gets its own
Register and its own SeededSource, seeded from the base seed plus the shot
index, so a run is reproducible regardless of how shots are scheduled.
*/
type Sampler struct {
	workers      int
	registerOpts []RegisterOption
	metrics      *Metrics
}

// SamplerOption is a function type for configuring samplers
type SamplerOption func(*Sampler)

// WithWorkers caps the number of shots running at once.
func WithWorkers(n int) SamplerOption {
	return func(s *Sampler) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithRegisterOptions appends options used for every shot's register.
func WithRegisterOptions(opts ...RegisterOption) SamplerOption {
	return func(s *Sampler) {
		s.registerOpts = append(s.registerOpts, opts...)
	}
}

// NewSampler builds a sampler from config, which may be nil for defaults.
func NewSampler(config *Config, opts ...SamplerOption) *Sampler {
	if config == nil {
		config = NewConfig()
	}

	s := &Sampler{
		workers:      config.Sampler.Workers,
		registerOpts: config.RegisterOptions(),
		metrics:      newMetrics(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.workers < 1 {
		s.workers = runtime.GOMAXPROCS(0)
	}

	s.metrics.mu.Lock()
	s.metrics.Workers = s.workers
	s.metrics.mu.Unlock()

	return s
}

// Workers is the concurrency limit in effect.
func (s *Sampler) Workers() int {
	return s.workers
}

// Metrics exposes the shot counters accumulated over every Run.
func (s *Sampler) Metrics() *Metrics {
	return s.metrics
}

/*
Run executes program once per shot on a size-qubit register. The first failing
shot cancels the rest and its error is returned with the shot index attached.
*/
func (s *Sampler) Run(ctx context.Context, size, shots int, seed uint64, program Program) (*Histogram, error) {
	if shots < 1 {
		return nil, fmt.Errorf("Run(%d shots): %w", shots, ErrInvalidShots)
	}

	errnie.Info("qsim: sampling %d shots on %d qubits with %d workers", shots, size, s.workers)

	outcomes := make([]int, shots)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i := 0; i < shots; i++ {
		if gctx.Err() != nil {
			break
		}

		job := shot{Index: i, Seed: seed + uint64(i)}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			job.StartTime = time.Now()

			outcome, err := s.runShot(size, job, program)
			s.metrics.recordShot(job.StartTime, err == nil)

			if err != nil {
				return fmt.Errorf("shot %d: %w", job.Index, err)
			}

			outcomes[job.Index] = outcome
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Warn("sampling stopped", "err", err)
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return newHistogram(outcomes), nil
}

func (s *Sampler) runShot(size int, job shot, program Program) (int, error) {
	register, err := NewRegister(size, NewSeededSource(job.Seed), s.registerOpts...)
	if err != nil {
		return 0, err
	}

	return program(register)
}
