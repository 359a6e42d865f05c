package entropy

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

/*
BreakerState is the operating mode of a Breaker.
*/
type BreakerState int

const (
	BreakerClosed   BreakerState = iota // reads flow normally
	BreakerOpen                         // device considered gone, reads rejected
	BreakerHalfOpen                     // probing a reconnected device
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

/*
Breaker guards the seed unit's serial reads. Consecutive read failures open
it, which is the unit's signal to drop the port and reconnect. After the reset
timeout it lets a limited number of probe reads through; enough successes
close it again and a single failure reopens it.
*/
type Breaker struct {
	mu               sync.Mutex
	maxFailures      int
	resetTimeout     time.Duration
	halfOpenMax      int
	failureCount     int
	state            BreakerState
	openTime         time.Time
	halfOpenAttempts int
	logger           *log.Logger
	now              func() time.Time
}

/*
NewBreaker returns a closed breaker that opens after maxFailures consecutive
failures and needs halfOpenMax successes in the half-open state to close.
*/
func NewBreaker(maxFailures int, resetTimeout time.Duration, halfOpenMax int, logger *log.Logger) *Breaker {
	if logger == nil {
		logger = log.Default()
	}

	return &Breaker{
		maxFailures:  max(maxFailures, 1),
		resetTimeout: resetTimeout,
		halfOpenMax:  max(halfOpenMax, 1),
		state:        BreakerClosed,
		logger:       logger,
		now:          time.Now,
	}
}

// State reports the current mode without triggering the open to half-open
// transition.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failureCount++

	switch b.state {
	case BreakerHalfOpen:
		b.trip()
		b.logger.Warn("breaker reopened from half-open", "failures", b.failureCount)
	case BreakerClosed:
		if b.failureCount >= b.maxFailures {
			b.trip()
			b.logger.Warn("breaker opened", "failures", b.failureCount)
		}
	}
}

func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerHalfOpen:
		b.halfOpenAttempts++
		if b.halfOpenAttempts >= b.halfOpenMax {
			b.state = BreakerClosed
			b.failureCount = 0
			b.halfOpenAttempts = 0
			b.logger.Info("breaker closed from half-open")
		}
	case BreakerClosed:
		b.failureCount = 0
	}
}

/*
Allow reports whether a read may go ahead. An open breaker moves to half-open
once the reset timeout has passed; the check and the transition happen under
one lock.
*/
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerClosed:
		return true
	case BreakerOpen:
		if b.now().Sub(b.openTime) >= b.resetTimeout {
			b.state = BreakerHalfOpen
			b.halfOpenAttempts = 0
			b.logger.Debug("breaker half-open")
			return true
		}
		return false
	case BreakerHalfOpen:
		return b.halfOpenAttempts < b.halfOpenMax
	default:
		return false
	}
}

// Reset closes the breaker and clears its counters.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.state = BreakerClosed
	b.failureCount = 0
	b.halfOpenAttempts = 0
}

func (b *Breaker) trip() {
	b.state = BreakerOpen
	b.openTime = b.now()
	b.halfOpenAttempts = 0
}
