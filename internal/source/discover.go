package source

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ppiankov/crimeetl/internal/model"
)

// Discover lists the files under dir matching a doublestar pattern, in
// natural order so that crime_25471_50000.csv sorts before
// crime_100001_125000.csv. Returned paths are relative to dir.
func Discover(dir, pattern string) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern: %s", pattern)
	}

	matches, err := doublestar.Glob(os.DirFS(dir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob error: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match %s in %s: %w", pattern, dir, model.ErrNoPartitions)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return naturalLess(matches[i], matches[j])
	})
	return matches, nil
}

// naturalLess compares strings treating runs of digits as numbers
func naturalLess(a, b string) bool {
	for a != "" && b != "" {
		ca, restA := chunk(a)
		cb, restB := chunk(b)
		if ca != cb {
			na, errA := strconv.ParseUint(ca, 10, 64)
			nb, errB := strconv.ParseUint(cb, 10, 64)
			if errA == nil && errB == nil && na != nb {
				return na < nb
			}
			return ca < cb
		}
		a, b = restA, restB
	}
	return len(a) < len(b)
}

func chunk(s string) (string, string) {
	digit := isDigit(s[0])
	i := 1
	for i < len(s) && isDigit(s[i]) == digit {
		i++
	}
	return s[:i], s[i:]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
