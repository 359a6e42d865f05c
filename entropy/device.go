package entropy

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ListDevices returns the entries of dir whose names start with one of
// prefixes, as full paths in lexical order.
func ListDevices(dir string, prefixes []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list devices in %s: %w", dir, err)
	}

	var out []string

	for _, entry := range entries {
		for _, prefix := range prefixes {
			if strings.HasPrefix(entry.Name(), prefix) {
				out = append(out, filepath.Join(dir, entry.Name()))
				break
			}
		}
	}

	sort.Strings(out)
	return out, nil
}

// MatchDevice picks the first candidate whose path starts with match.
func MatchDevice(candidates []string, match string) (string, error) {
	for _, path := range candidates {
		if strings.HasPrefix(path, match) {
			return path, nil
		}
	}

	return "", fmt.Errorf("%s: %w", match, ErrNoDevice)
}
