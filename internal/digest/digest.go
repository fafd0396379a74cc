// Package digest compares files by content.
package digest

import (
	"fmt"
	"io"
	"os"

	"github.com/OneOfOne/xxhash"
	"github.com/obentoo/bentoo-agents/internal/common/logger"
)

// File returns the 64-bit xxHash of the file at path
func File(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	h := xxhash.New64()
	if _, err := io.Copy(h, f); err != nil {
		return 0, fmt.Errorf("hashing %s: %w", path, err)
	}
	return h.Sum64(), nil
}

// Equal reports whether files a and b have identical content.
// Both files must exist.
func Equal(a, b string) (bool, error) {
	infoA, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	infoB, err := os.Stat(b)
	if err != nil {
		return false, err
	}
	if infoA.Size() != infoB.Size() {
		return false, nil
	}

	sumA, err := File(a)
	if err != nil {
		return false, err
	}
	sumB, err := File(b)
	if err != nil {
		return false, err
	}
	logger.Debug("digest %s=%s %s=%s", a, Hex(sumA), b, Hex(sumB))
	return sumA == sumB, nil
}

// Hex formats a digest for log output
func Hex(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}
