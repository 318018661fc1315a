package cipherstream

import (
	"errors"
	"fmt"
	"io"

	"github.com/Benrnz/Confuzzle/pkg/wire"
)

// HeaderOverhead is H_OV: the two 16-bit length fields (headerLength,
// nonceLength) counted as overhead in the headerLength value. The
// saltLength field is not counted, so a header occupies
// HeaderOverhead+2+len(nonce)+len(salt) bytes on the wire. See spec §3
// for the exact layout.
const HeaderOverhead = 4

// ErrHeaderTooShort is returned when the declared header length can't
// possibly hold a valid nonce.
var ErrHeaderTooShort = errors.New("cipherstream: header too short")

// ErrHeaderLengthMismatch is returned when the header's own length
// field doesn't match H_OV + nonceLength + saltLength.
var ErrHeaderLengthMismatch = errors.New("cipherstream: header length mismatch")

// ErrNonceLengthOutOfRange is returned when a nonce (from the header or
// supplied by the caller) falls outside [blockSize/2, blockSize].
var ErrNonceLengthOutOfRange = errors.New("cipherstream: nonce length out of range")

// ErrSaltTooLarge is returned when H_OV + nonceLength + saltLength would
// overflow the 16-bit headerLength field.
var ErrSaltTooLarge = errors.New("cipherstream: salt too large")

// writeHeader writes the wire-format header (spec §3) for nonce and
// salt to w, returning the number of bytes written.
//
//	offset  size  field
//	0       2     headerLength (big-endian u16) = H_OV + len(nonce) + len(salt)
//	2       2     nonceLength  (big-endian u16)
//	4       N     nonce
//	4+N     2     saltLength   (big-endian u16)
//	6+N     S     salt
func writeHeader(w io.Writer, nonce, salt []byte) (int, error) {
	headerLength := HeaderOverhead + len(nonce) + len(salt)
	if headerLength > 0xFFFF {
		return 0, fmt.Errorf("%w: header would be %d bytes", ErrSaltTooLarge, headerLength)
	}

	total := 0
	if err := wire.WriteUint16BE(w, uint16(headerLength)); err != nil {
		return total, err
	}
	total += 2

	if err := wire.WriteUint16BE(w, uint16(len(nonce))); err != nil {
		return total, err
	}
	total += 2

	n, err := w.Write(nonce)
	total += n
	if err != nil {
		return total, fmt.Errorf("cipherstream: write nonce: %w", err)
	}

	if err := wire.WriteUint16BE(w, uint16(len(salt))); err != nil {
		return total, err
	}
	total += 2

	n, err = w.Write(salt)
	total += n
	if err != nil {
		return total, fmt.Errorf("cipherstream: write salt: %w", err)
	}

	return total, nil
}

// readHeader reads and validates the wire-format header from r. blockSize
// is the target cipher's block size (B), used to bound the legal nonce
// length [B/2, B].
func readHeader(r io.Reader, blockSize int) (nonce, salt []byte, err error) {
	headerLength, err := wire.ReadUint16BE(r)
	if err != nil {
		return nil, nil, fmt.Errorf("cipherstream: read header length: %w", err)
	}
	if int(headerLength) < HeaderOverhead+blockSize/2 {
		return nil, nil, fmt.Errorf("%w: headerLength=%d", ErrHeaderTooShort, headerLength)
	}

	nonceLength, err := wire.ReadUint16BE(r)
	if err != nil {
		return nil, nil, fmt.Errorf("cipherstream: read nonce length: %w", err)
	}
	if int(nonceLength) < blockSize/2 || int(nonceLength) > blockSize {
		return nil, nil, fmt.Errorf("%w: nonceLength=%d, want [%d, %d]", ErrNonceLengthOutOfRange, nonceLength, blockSize/2, blockSize)
	}
	if HeaderOverhead/2+int(nonceLength) > int(headerLength) {
		return nil, nil, fmt.Errorf("%w: nonceLength=%d exceeds headerLength=%d", ErrHeaderLengthMismatch, nonceLength, headerLength)
	}

	nonce, err = wire.ReadExact(r, int(nonceLength))
	if err != nil {
		return nil, nil, fmt.Errorf("cipherstream: read nonce: %w", err)
	}

	saltLength, err := wire.ReadUint16BE(r)
	if err != nil {
		return nil, nil, fmt.Errorf("cipherstream: read salt length: %w", err)
	}

	salt, err = wire.ReadExact(r, int(saltLength))
	if err != nil {
		return nil, nil, fmt.Errorf("cipherstream: read salt: %w", err)
	}

	if HeaderOverhead+int(nonceLength)+int(saltLength) != int(headerLength) {
		return nil, nil, fmt.Errorf("%w: headerLength=%d, nonceLength=%d, saltLength=%d", ErrHeaderLengthMismatch, headerLength, nonceLength, saltLength)
	}

	return nonce, salt, nil
}
