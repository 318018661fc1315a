// Package wire provides the small binary framing helpers shared by the
// Confuzzle header codec and keystream generator: big-endian u16
// read/write, exact-length reads, and pattern tiling.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrShortRead is returned when fewer bytes were available than requested.
var ErrShortRead = errors.New("wire: short read")

// ReadUint16BE reads exactly two bytes from r and decodes them as a
// big-endian uint16.
func ReadUint16BE(r io.Reader) (uint16, error) {
	buf, err := ReadExact(r, 2)
	if err != nil {
		return 0, fmt.Errorf("read uint16: %w", err)
	}
	return binary.BigEndian.Uint16(buf), nil
}

// WriteUint16BE writes v to w as two big-endian bytes.
func WriteUint16BE(w io.Writer, v uint16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	n, err := w.Write(buf[:])
	if err != nil {
		return fmt.Errorf("write uint16: %w", err)
	}
	if n != len(buf) {
		return fmt.Errorf("write uint16: %w: wrote %d of %d bytes", ErrShortRead, n, len(buf))
	}
	return nil
}

// ReadExact reads exactly n bytes from r, failing with ErrShortRead if
// the stream is exhausted before n bytes are read.
func ReadExact(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("read %d bytes: %w: %w", n, ErrShortRead, err)
	}
	return buf, nil
}

// Fill tiles pattern across dst. If pattern is shorter than dst, later
// copies use the bytes already written to dst as their source, doubling
// the filled region each pass, so the result is a periodic repetition of
// pattern across the whole of dst. If pattern is longer than dst, only
// its prefix is used.
func Fill(dst []byte, pattern []byte) {
	if len(dst) == 0 {
		return
	}
	n := copy(dst, pattern)
	for n < len(dst) {
		n += copy(dst[n:], dst[:n])
	}
}
