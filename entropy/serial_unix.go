//go:build linux || darwin

package entropy

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

/*
openSerial opens path as a raw 8N1 serial line at baud with no flow control.
The descriptor stays non-blocking so the runtime poller owns it and a Close
from another goroutine interrupts a pending Read.
*/
func openSerial(path string, baud int) (io.ReadCloser, error) {
	f, err := os.OpenFile(path, os.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, err
	}

	raw, err := f.SyscallConn()
	if err != nil {
		f.Close()
		return nil, err
	}

	var setupErr error

	if err := raw.Control(func(fd uintptr) {
		setupErr = configureTermios(int(fd), baud)
	}); err != nil {
		f.Close()
		return nil, err
	}

	if setupErr != nil {
		f.Close()
		return nil, fmt.Errorf("configure %s: %w", path, setupErr)
	}

	return f, nil
}
