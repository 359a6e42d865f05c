//go:build !linux && !darwin

package entropy

import "io"

func openSerial(path string, baud int) (io.ReadCloser, error) {
	return nil, ErrUnsupportedPlatform
}
