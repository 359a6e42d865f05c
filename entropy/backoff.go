package entropy

import (
	"math"
	"time"
)

// RetryStrategy yields the delay before reconnect attempt n, counting from 1.
type RetryStrategy interface {
	NextDelay(attempt int) time.Duration
}

// ExponentialBackoff doubles Initial on every attempt, capped at Max when Max
// is set.
type ExponentialBackoff struct {
	Initial time.Duration
	Max     time.Duration
}

func (eb *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	delay := eb.Initial * time.Duration(math.Pow(2, float64(min(attempt-1, 32))))

	if eb.Max > 0 && (delay > eb.Max || delay <= 0) {
		return eb.Max
	}

	return delay
}
