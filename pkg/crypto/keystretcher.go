package crypto

import (
	"crypto/sha1" //nolint:gosec // RFC 2898 / PKCS#5 default HMAC for wire compatibility; see DESIGN.md.
	"errors"
	"fmt"
	"hash"

	"golang.org/x/crypto/pbkdf2"
)

// DefaultIterations is the PBKDF2 iteration count used unless a caller
// overrides it with WithIterations.
const DefaultIterations = 10000

// MinSaltLength is the shortest salt KeyStretcher will accept or
// generate.
const MinSaltLength = 8

// DefaultSaltLength is the salt length generated when none is supplied.
const DefaultSaltLength = 16

// ErrSaltTooShort is returned when a supplied salt is shorter than
// MinSaltLength.
var ErrSaltTooShort = errors.New("crypto: salt must be at least 8 bytes")

// KeyStretcher derives a symmetric key from a password and salt via
// PBKDF2. It is carried only long enough to call GetKey; it does not
// zeroize the password (the platform secure-string equivalent this spec
// defers to is out of scope, per spec.md §1).
type KeyStretcher struct {
	password   []byte
	salt       []byte
	iterations int
	newHash    func() hash.Hash
}

// KeyStretcherOption configures a KeyStretcher at construction.
type KeyStretcherOption func(*KeyStretcher)

// WithSalt supplies an explicit salt instead of generating one.
func WithSalt(salt []byte) KeyStretcherOption {
	return func(k *KeyStretcher) { k.salt = append([]byte(nil), salt...) }
}

// WithIterations overrides the PBKDF2 iteration count.
func WithIterations(n int) KeyStretcherOption {
	return func(k *KeyStretcher) { k.iterations = n }
}

// WithHash overrides the HMAC hash PBKDF2 iterates. The default is
// SHA-1, matching RFC 2898 and keeping existing Confuzzle-format files
// decryptable; this is additive, not a wire-format change (see
// DESIGN.md Open Question 1).
func WithHash(newHash func() hash.Hash) KeyStretcherOption {
	return func(k *KeyStretcher) { k.newHash = newHash }
}

// NewKeyStretcher builds a KeyStretcher for password. If no salt is
// supplied via WithSalt, one of DefaultSaltLength bytes is generated
// from rnd. password must be non-empty.
func NewKeyStretcher(password []byte, rnd randomSource, opts ...KeyStretcherOption) (*KeyStretcher, error) {
	if len(password) == 0 {
		return nil, fmt.Errorf("crypto: password must not be empty")
	}

	k := &KeyStretcher{
		password:   append([]byte(nil), password...),
		iterations: DefaultIterations,
		newHash:    sha1.New,
	}
	for _, opt := range opts {
		opt(k)
	}

	if k.salt == nil {
		salt, err := RandomBytes(rnd, DefaultSaltLength)
		if err != nil {
			return nil, fmt.Errorf("crypto: generate salt: %w", err)
		}
		k.salt = salt
	}
	if len(k.salt) < MinSaltLength {
		return nil, fmt.Errorf("%w: got %d", ErrSaltTooShort, len(k.salt))
	}

	return k, nil
}

// randomSource is the minimal interface NewKeyStretcher needs from an
// RNG; io.Reader satisfies it directly.
type randomSource interface {
	Read(p []byte) (n int, err error)
}

// Salt returns a copy of the salt in use.
func (k *KeyStretcher) Salt() []byte {
	return append([]byte(nil), k.salt...)
}

// GetKey derives a key for spec, choosing the largest legal key size not
// exceeding maxKeyBits (a non-positive maxKeyBits means no cap).
func (k *KeyStretcher) GetKey(spec CipherSpec, maxKeyBits int) ([]byte, error) {
	bits, err := spec.KeySizes.LargestAtMost(maxKeyBits)
	if err != nil {
		return nil, err
	}
	if bits%8 != 0 {
		return nil, fmt.Errorf("%w: %d bits is not a multiple of 8", ErrInvalidKeySize, bits)
	}
	return pbkdf2.Key(k.password, k.salt, k.iterations, bits/8, k.newHash), nil
}
