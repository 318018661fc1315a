package crypto

import (
	"crypto/rand"
	"fmt"
	"io"
)

// DefaultRand is the process-wide secure RNG used to generate nonces and
// salts when a caller doesn't supply them. It is safe for concurrent
// use (the platform guarantee crypto/rand.Reader makes); swapping it is
// a process-wide decision for tests, not something a single stream
// should do.
var DefaultRand io.Reader = rand.Reader

// RandomBytes reads n cryptographically random bytes from r.
func RandomBytes(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("crypto: read %d random bytes: %w", n, err)
	}
	return buf, nil
}
