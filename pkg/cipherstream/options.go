package cipherstream

import (
	"fmt"
	"hash"

	"github.com/Benrnz/Confuzzle/pkg/crypto"
)

type config struct {
	factory    crypto.CipherFactory
	nonce      []byte
	salt       []byte
	maxKeyBits int
	iterations int
	hash       func() hash.Hash
}

func newConfig(opts []Option) config {
	cfg := config{
		factory:    crypto.DefaultCipherFactory(),
		iterations: crypto.DefaultIterations,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Option configures Create or Open.
type Option func(*config)

// WithFactory selects the cipher/hash factory. Defaults to AES + SHA-256.
func WithFactory(f crypto.CipherFactory) Option {
	return func(c *config) { c.factory = f }
}

// WithNonce supplies an explicit nonce instead of generating one
// (Create only; Open always reads the nonce from the header).
func WithNonce(nonce []byte) Option {
	return func(c *config) { c.nonce = append([]byte(nil), nonce...) }
}

// WithSalt supplies an explicit salt for the header instead of generating
// one (Create only; Open always reads the salt from the header). With
// Password key material the key is derived from it; with Key key material
// it is only written to the header.
func WithSalt(salt []byte) Option {
	return func(c *config) { c.salt = append([]byte(nil), salt...) }
}

// WithMaxKeyBits caps the key size the stretcher will choose from the
// cipher's key-size ladder (Password key material only). Zero means no
// cap.
func WithMaxKeyBits(bits int) Option {
	return func(c *config) { c.maxKeyBits = bits }
}

// WithIterations overrides the PBKDF2 iteration count (Password key
// material only). Defaults to crypto.DefaultIterations.
func WithIterations(n int) Option {
	return func(c *config) { c.iterations = n }
}

// WithPasswordHash overrides the HMAC hash PBKDF2 iterates (Password key
// material only). Defaults to SHA-1 for wire compatibility; see
// pkg/crypto.WithHash.
func WithPasswordHash(newHash func() hash.Hash) Option {
	return func(c *config) { c.hash = newHash }
}

func resolveKeyForCreate(key KeyMaterial, cfg config, factory crypto.CipherFactory) (keyBytes, salt []byte, err error) {
	switch km := key.(type) {
	case passwordKey:
		stretcherOpts := []crypto.KeyStretcherOption{crypto.WithIterations(cfg.iterations)}
		if cfg.hash != nil {
			stretcherOpts = append(stretcherOpts, crypto.WithHash(cfg.hash))
		}
		if cfg.salt != nil {
			stretcherOpts = append(stretcherOpts, crypto.WithSalt(cfg.salt))
		}
		ks, kerr := crypto.NewKeyStretcher([]byte(km), crypto.DefaultRand, stretcherOpts...)
		if kerr != nil {
			return nil, nil, kerr
		}
		keyBytes, kerr = ks.GetKey(factory.Spec, cfg.maxKeyBits)
		if kerr != nil {
			return nil, nil, kerr
		}
		return keyBytes, ks.Salt(), nil

	case rawKey:
		salt = cfg.salt
		if salt == nil {
			var serr error
			salt, serr = crypto.RandomBytes(crypto.DefaultRand, crypto.DefaultSaltLength)
			if serr != nil {
				return nil, nil, fmt.Errorf("cipherstream: generate salt: %w", serr)
			}
		}
		if len(salt) < crypto.MinSaltLength {
			return nil, nil, crypto.ErrSaltTooShort
		}
		return []byte(km), salt, nil

	default:
		return nil, nil, fmt.Errorf("cipherstream: unknown key material type %T", key)
	}
}

func resolveKeyForOpen(key KeyMaterial, saltFromHeader []byte, cfg config, factory crypto.CipherFactory) ([]byte, error) {
	switch km := key.(type) {
	case passwordKey:
		stretcherOpts := []crypto.KeyStretcherOption{
			crypto.WithSalt(saltFromHeader),
			crypto.WithIterations(cfg.iterations),
		}
		if cfg.hash != nil {
			stretcherOpts = append(stretcherOpts, crypto.WithHash(cfg.hash))
		}
		ks, err := crypto.NewKeyStretcher([]byte(km), crypto.DefaultRand, stretcherOpts...)
		if err != nil {
			return nil, err
		}
		return ks.GetKey(factory.Spec, cfg.maxKeyBits)

	case rawKey:
		return []byte(km), nil

	default:
		return nil, fmt.Errorf("cipherstream: unknown key material type %T", key)
	}
}
