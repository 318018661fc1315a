// Package cipherstream provides Stream, a filter over an arbitrary byte
// stream that transparently encrypts on Write and decrypts on Read using
// a password-derived CTR keystream (pkg/crypto.CTR). A self-describing
// header carrying the nonce and password salt is written once at
// construction, ahead of the ciphertext.
//
// Stream is single-threaded cooperative, like the keystream generator it
// drives: one owner at a time, no internal locking.
package cipherstream

import (
	"errors"
	"fmt"
	"io"

	"github.com/Benrnz/Confuzzle/pkg/crypto"
)

// ErrDisposed is returned by any operation on a Stream after Close.
var ErrDisposed = errors.New("cipherstream: stream is closed")

// ErrSeekNotSupported is returned by Seek and Length when the underlying
// stream doesn't implement io.Seeker.
var ErrSeekNotSupported = errors.New("cipherstream: underlying stream does not support seeking")

// ErrSetLengthNotSupported is returned by SetLength when the underlying
// stream has no Truncate(int64) error method.
var ErrSetLengthNotSupported = errors.New("cipherstream: underlying stream does not support SetLength")

// truncater is satisfied by *os.File and anything else that can resize
// itself, e.g. for SetLength.
type truncater interface {
	Truncate(int64) error
}

// flusher is satisfied by *bufio.Writer and similar buffered writers.
type flusher interface {
	Flush() error
}

// KeyMaterial is the sum type spec.md §9 asks for in place of a
// tagged/nullable "key or password" argument: either a Password or an
// already-derived Key.
type KeyMaterial interface {
	isKeyMaterial()
}

type passwordKey []byte

func (passwordKey) isKeyMaterial() {}

// Password wraps a UTF-8 (or raw) password to be stretched into a key
// via PBKDF2 at stream construction.
func Password(p []byte) KeyMaterial {
	return passwordKey(append([]byte(nil), p...))
}

type rawKey []byte

func (rawKey) isKeyMaterial() {}

// Key wraps an already-derived symmetric key, bypassing the key
// stretcher entirely.
func Key(k []byte) KeyMaterial {
	return rawKey(append([]byte(nil), k...))
}

// Stream is the cipher stream filter (C5 in the spec): plaintext-
// addressed Read/Write/Seek/Length over a ciphertext-carrying
// underlying stream.
type Stream struct {
	underlying io.ReadWriter
	seeker     io.Seeker
	closer     io.Closer
	trunc      truncater

	ctr       *crypto.CTR
	nonce     []byte
	salt      []byte
	blockSize int

	startPosition int64
	position      int64
	closed        bool
}

// Nonce returns a copy of the stream's nonce.
func (s *Stream) Nonce() []byte { return append([]byte(nil), s.nonce...) }

// PasswordSalt returns a copy of the stream's password salt.
func (s *Stream) PasswordSalt() []byte { return append([]byte(nil), s.salt...) }

// BlockLength is B, the cipher's block size in bytes.
func (s *Stream) BlockLength() int { return s.blockSize }

// MinNonceLength is B/2.
func (s *Stream) MinNonceLength() int { return s.blockSize / 2 }

// MaxNonceLength is B.
func (s *Stream) MaxNonceLength() int { return s.blockSize }

// Create writes a fresh header to underlying (generating any missing
// nonce/salt) and returns a Stream positioned at plaintext offset 0.
func Create(underlying io.ReadWriter, key KeyMaterial, opts ...Option) (*Stream, error) {
	cfg := newConfig(opts)
	factory := cfg.factory
	blockSize := factory.BlockSize()

	keyBytes, salt, err := resolveKeyForCreate(key, cfg, factory)
	if err != nil {
		return nil, err
	}

	nonce := cfg.nonce
	if nonce == nil {
		nonceLen := blockSize
		if maxLen := 0xFFFF - (len(salt) + HeaderOverhead); maxLen < nonceLen {
			nonceLen = maxLen
		}
		nonce, err = crypto.RandomBytes(crypto.DefaultRand, nonceLen)
		if err != nil {
			return nil, fmt.Errorf("cipherstream: generate nonce: %w", err)
		}
	}
	if len(nonce) < blockSize/2 || len(nonce) > blockSize {
		return nil, fmt.Errorf("%w: got %d, want [%d, %d]", ErrNonceLengthOutOfRange, len(nonce), blockSize/2, blockSize)
	}
	if HeaderOverhead+len(nonce)+len(salt) > 0xFFFF {
		return nil, ErrSaltTooLarge
	}

	if _, err := writeHeader(underlying, nonce, salt); err != nil {
		return nil, err
	}

	return newStream(underlying, keyBytes, nonce, salt, factory)
}

// Open reads and validates the header from underlying, deriving the key
// from it (for Password key material) or using the supplied key
// directly (for Key key material), and returns a Stream positioned at
// plaintext offset 0.
//
// On any header validation failure, Open attempts to restore the
// underlying's position to where the read began (if seekable) before
// surfacing the error.
func Open(underlying io.ReadWriter, key KeyMaterial, opts ...Option) (*Stream, error) {
	cfg := newConfig(opts)
	factory := cfg.factory
	blockSize := factory.BlockSize()

	var readStart int64
	var seeker io.Seeker
	if sk, ok := underlying.(io.Seeker); ok {
		seeker = sk
		readStart, _ = seeker.Seek(0, io.SeekCurrent)
	}

	nonce, salt, err := readHeader(underlying, blockSize)
	if err != nil {
		if seeker != nil {
			_, _ = seeker.Seek(readStart, io.SeekStart)
		}
		return nil, err
	}

	keyBytes, err := resolveKeyForOpen(key, salt, cfg, factory)
	if err != nil {
		if seeker != nil {
			_, _ = seeker.Seek(readStart, io.SeekStart)
		}
		return nil, err
	}

	return newStream(underlying, keyBytes, nonce, salt, factory)
}

func newStream(underlying io.ReadWriter, keyBytes, nonce, salt []byte, factory crypto.CipherFactory) (*Stream, error) {
	block, err := factory.CreateBlock(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("cipherstream: create block cipher: %w", err)
	}
	ctr, err := crypto.NewCTR(block, nonce, salt, factory.NewHash)
	if err != nil {
		return nil, err
	}

	s := &Stream{
		underlying: underlying,
		ctr:        ctr,
		nonce:      append([]byte(nil), nonce...),
		salt:       append([]byte(nil), salt...),
		blockSize:  factory.BlockSize(),
	}
	if sk, ok := underlying.(io.Seeker); ok {
		s.seeker = sk
		s.startPosition, _ = sk.Seek(0, io.SeekCurrent)
	}
	if cl, ok := underlying.(io.Closer); ok {
		s.closer = cl
	}
	if tr, ok := underlying.(truncater); ok {
		s.trunc = tr
	}

	return s, nil
}

// Read reads up to len(p) ciphertext bytes from the underlying stream
// and decrypts them in place.
func (s *Stream) Read(p []byte) (int, error) {
	if s.closed {
		return 0, ErrDisposed
	}
	n, err := s.underlying.Read(p)
	if n > 0 {
		if terr := s.ctr.Transform(s.position, p[:n]); terr != nil {
			return n, terr
		}
		s.position += int64(n)
	}
	return n, err
}

// Write encrypts a defensive copy of p and writes it to the underlying
// stream; the caller's buffer is left untouched.
func (s *Stream) Write(p []byte) (int, error) {
	if s.closed {
		return 0, ErrDisposed
	}
	buf := append([]byte(nil), p...)
	if err := s.ctr.Transform(s.position, buf); err != nil {
		return 0, err
	}
	n, err := s.underlying.Write(buf)
	s.position += int64(n)
	return n, err
}

// Seek repositions the plaintext cursor. For io.SeekStart, offset is
// relative to the plaintext origin (immediately after the header); the
// result is clamped so the underlying position never moves before that
// origin.
func (s *Stream) Seek(offset int64, whence int) (int64, error) {
	if s.closed {
		return 0, ErrDisposed
	}
	if s.seeker == nil {
		return 0, ErrSeekNotSupported
	}

	var newPos int64
	var err error
	if whence == io.SeekStart {
		newPos, err = s.seeker.Seek(s.startPosition+offset, io.SeekStart)
	} else {
		newPos, err = s.seeker.Seek(offset, whence)
	}
	if err != nil {
		return 0, fmt.Errorf("cipherstream: seek: %w", err)
	}

	if newPos < s.startPosition {
		newPos, err = s.seeker.Seek(s.startPosition, io.SeekStart)
		if err != nil {
			return 0, fmt.Errorf("cipherstream: seek clamp: %w", err)
		}
	}

	s.position = newPos - s.startPosition
	return s.position, nil
}

// Position returns the current plaintext-addressed position.
func (s *Stream) Position() int64 { return s.position }

// Length returns the plaintext length: the underlying stream's length
// minus the underlying offset where the plaintext begins (just after the
// header).
func (s *Stream) Length() (int64, error) {
	if s.closed {
		return 0, ErrDisposed
	}
	if s.seeker == nil {
		return 0, ErrSeekNotSupported
	}
	cur, err := s.seeker.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("cipherstream: length: %w", err)
	}
	end, err := s.seeker.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("cipherstream: length: %w", err)
	}
	if _, err := s.seeker.Seek(cur, io.SeekStart); err != nil {
		return 0, fmt.Errorf("cipherstream: length: restore position: %w", err)
	}
	return end - s.startPosition, nil
}

// SetLength resizes the underlying stream so its plaintext length is v.
func (s *Stream) SetLength(v int64) error {
	if s.closed {
		return ErrDisposed
	}
	if s.trunc == nil {
		return ErrSetLengthNotSupported
	}
	return s.trunc.Truncate(s.startPosition + v)
}

// Flush flushes the underlying stream, if it supports flushing.
func (s *Stream) Flush() error {
	if s.closed {
		return ErrDisposed
	}
	if f, ok := s.underlying.(flusher); ok {
		return f.Flush()
	}
	return nil
}

// Close zeroes the keystream generator's pad buffer and closes the
// underlying stream, if it supports closing. Close is idempotent.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.ctr.Close()
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
