package entropy

import "errors"

var (
	// ErrNoDevice means no serial device matched the configured prefix.
	ErrNoDevice = errors.New("entropy: no matching seed device")

	// ErrNotConnected means the unit has no open port to read from.
	ErrNotConnected = errors.New("entropy: seed unit not connected")

	// ErrUnsupportedPlatform means serial setup is not available on this OS.
	ErrUnsupportedPlatform = errors.New("entropy: serial ports are not supported on this platform")

	// ErrUnsupportedBaud means the baud rate has no termios speed constant.
	ErrUnsupportedBaud = errors.New("entropy: unsupported baud rate")

	// ErrBreakerOpen means reads are suspended after repeated failures.
	ErrBreakerOpen = errors.New("entropy: read breaker open")
)
