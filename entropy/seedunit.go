package entropy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// SeedProvider hands out the most recent hardware seed, if there is one yet.
type SeedProvider interface {
	Seed() (uint32, bool)
}

// Options configures a SeedUnit. Zero fields fall back to a USB seed board
// at 9600 baud read one byte per second.
type Options struct {
	DeviceDir      string
	DevicePrefixes []string
	DeviceMatch    string
	BaudRate       int

	// ReadInterval paces reads; a negative value disables pacing.
	ReadInterval time.Duration

	MaxFailures  int
	ResetTimeout time.Duration
	Backoff      RetryStrategy
	Logger       *log.Logger
}

func (o Options) withDefaults() Options {
	if o.DeviceDir == "" {
		o.DeviceDir = "/dev"
	}
	if len(o.DevicePrefixes) == 0 {
		o.DevicePrefixes = []string{"tty.", "cu."}
	}
	if o.DeviceMatch == "" {
		o.DeviceMatch = "/dev/cu.usbmodem14"
	}
	if o.BaudRate == 0 {
		o.BaudRate = 9600
	}
	if o.ReadInterval == 0 {
		o.ReadInterval = time.Second
	}
	if o.MaxFailures == 0 {
		o.MaxFailures = 3
	}
	if o.ResetTimeout == 0 {
		o.ResetTimeout = 5 * time.Second
	}
	if o.Backoff == nil {
		o.Backoff = &ExponentialBackoff{Initial: time.Second, Max: 30 * time.Second}
	}
	if o.Logger == nil {
		o.Logger = log.Default().WithPrefix("entropy")
	}
	return o
}

// Stats counts what a SeedUnit has done since it was created.
type Stats struct {
	Device     string
	BytesRead  uint64
	Seeds      uint64
	ReadErrors uint64
	Reconnects uint64
	Breaker    BreakerState
}

/*
SeedUnit reads the hardware random seed device. Its Run loop pulls one byte at
a time off the serial line, assembles every four data bytes into a 32-bit seed
and publishes it atomically, so Seed can be called from any goroutine while
Run is reading.

Repeated read failures open the breaker; the unit then closes the port and
reconnects to the same device path with exponential backoff until it succeeds
or the context ends.
*/
type SeedUnit struct {
	opts    Options
	logger  *log.Logger
	breaker *Breaker
	limiter *rate.Limiter
	open    func(path string, baud int) (io.ReadCloser, error)

	mu     sync.Mutex
	port   io.ReadCloser
	device string

	assembler Assembler
	seed      atomic.Uint32
	hasSeed   atomic.Bool
	connected atomic.Bool

	bytesRead  atomic.Uint64
	seeds      atomic.Uint64
	readErrors atomic.Uint64
	reconnects atomic.Uint64
}

func NewSeedUnit(opts Options) *SeedUnit {
	opts = opts.withDefaults()

	limit := rate.Inf
	if opts.ReadInterval > 0 {
		limit = rate.Every(opts.ReadInterval)
	}

	return &SeedUnit{
		opts:    opts,
		logger:  opts.Logger,
		breaker: NewBreaker(opts.MaxFailures, opts.ResetTimeout, 1, opts.Logger),
		limiter: rate.NewLimiter(limit, 1),
		open:    openSerial,
	}
}

// Devices lists the serial device candidates in the configured directory.
func (u *SeedUnit) Devices() ([]string, error) {
	return ListDevices(u.opts.DeviceDir, u.opts.DevicePrefixes)
}

// Connect opens the first device matching the configured prefix.
func (u *SeedUnit) Connect() error {
	candidates, err := u.Devices()
	if err != nil {
		return err
	}

	path, err := MatchDevice(candidates, u.opts.DeviceMatch)
	if err != nil {
		return err
	}

	port, err := u.open(path, u.opts.BaudRate)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	u.mu.Lock()
	u.device = path
	u.mu.Unlock()

	u.Attach(port)
	u.logger.Info("seed unit connected", "device", path, "baud", u.opts.BaudRate)

	return nil
}

// Attach makes port the byte source, replacing and closing any previous one.
func (u *SeedUnit) Attach(port io.ReadCloser) {
	u.mu.Lock()
	previous := u.port
	u.port = port
	u.mu.Unlock()

	if previous != nil && previous != port {
		previous.Close()
	}

	u.assembler.Reset()
	u.breaker.Reset()
	u.connected.Store(port != nil)
}

// Connected reports whether a port is attached.
func (u *SeedUnit) Connected() bool {
	return u.connected.Load()
}

// Seed returns the latest complete seed; ok is false until the first one.
func (u *SeedUnit) Seed() (uint32, bool) {
	if !u.hasSeed.Load() {
		return 0, false
	}
	return u.seed.Load(), true
}

func (u *SeedUnit) Stats() Stats {
	u.mu.Lock()
	device := u.device
	u.mu.Unlock()

	return Stats{
		Device:     device,
		BytesRead:  u.bytesRead.Load(),
		Seeds:      u.seeds.Load(),
		ReadErrors: u.readErrors.Load(),
		Reconnects: u.reconnects.Load(),
		Breaker:    u.breaker.State(),
	}
}

// Close closes the port. Run returns once its pending read is interrupted.
func (u *SeedUnit) Close() error {
	u.mu.Lock()
	port := u.port
	u.port = nil
	u.mu.Unlock()

	u.connected.Store(false)

	if port == nil {
		return nil
	}

	return port.Close()
}

/*
Run reads until ctx is done and then returns nil. It fails with
ErrNotConnected when no port is attached, or when the breaker opens on a port
that was attached directly and has no device path to reconnect to.
*/
func (u *SeedUnit) Run(ctx context.Context) error {
	if u.currentPort() == nil {
		return ErrNotConnected
	}

	stop := context.AfterFunc(ctx, func() {
		u.Close()
	})
	defer stop()

	buf := make([]byte, 1)

	for {
		if err := u.limiter.Wait(ctx); err != nil {
			return nil
		}

		port := u.currentPort()
		if port == nil {
			if ctx.Err() != nil {
				return nil
			}

			return ErrNotConnected
		}

		n, err := port.Read(buf)

		if ctx.Err() != nil {
			return nil
		}

		if n == 1 {
			u.consume(buf[0])
		}

		if err == nil {
			u.breaker.RecordSuccess()
			continue
		}

		u.readErrors.Add(1)
		u.breaker.RecordFailure()
		u.logger.Warn("seed read failed", "err", err)

		if u.breaker.Allow() {
			continue
		}

		if err := u.reconnect(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}

			return err
		}
	}
}

func (u *SeedUnit) consume(b byte) {
	u.bytesRead.Add(1)

	seed, ok := u.assembler.Feed(b)
	if !ok {
		return
	}

	u.seed.Store(seed)
	u.hasSeed.Store(true)
	u.seeds.Add(1)
	u.logger.Debug("seed assembled", "seed", seed)
}

func (u *SeedUnit) currentPort() io.ReadCloser {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.port
}

func (u *SeedUnit) reconnect(ctx context.Context) error {
	u.Close()

	u.mu.Lock()
	device := u.device
	u.mu.Unlock()

	if device == "" {
		return fmt.Errorf("reconnect: %w: %w", ErrBreakerOpen, ErrNotConnected)
	}

	for attempt := 1; ; attempt++ {
		delay := u.opts.Backoff.NextDelay(attempt)
		u.logger.Info("reconnecting seed unit", "device", device, "attempt", attempt, "delay", delay)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		port, err := u.open(device, u.opts.BaudRate)
		if err != nil {
			u.logger.Warn("reconnect failed", "device", device, "err", err)
			continue
		}

		u.Attach(port)

		// The cancel hook may have fired between the open and the attach.
		if ctx.Err() != nil {
			u.Close()
			return ctx.Err()
		}

		u.reconnects.Add(1)
		u.logger.Info("seed unit reconnected", "device", device)

		return nil
	}
}
