package cipherstream

import (
	"fmt"
	"io"
)

// memStream is a minimal in-memory io.ReadWriteSeeker with Truncate and
// Close, standing in for an *os.File in tests without touching disk.
type memStream struct {
	buf    []byte
	pos    int64
	closed bool
}

func (m *memStream) Read(p []byte) (int, error) {
	if m.closed {
		return 0, fmt.Errorf("memstream: closed")
	}
	if m.pos >= int64(len(m.buf)) {
		return 0, io.EOF
	}
	n := copy(p, m.buf[m.pos:])
	m.pos += int64(n)
	return n, nil
}

func (m *memStream) Write(p []byte) (int, error) {
	if m.closed {
		return 0, fmt.Errorf("memstream: closed")
	}
	end := m.pos + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	n := copy(m.buf[m.pos:end], p)
	m.pos += int64(n)
	return n, nil
}

func (m *memStream) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = m.pos + offset
	case io.SeekEnd:
		target = int64(len(m.buf)) + offset
	default:
		return 0, fmt.Errorf("memstream: invalid whence %d", whence)
	}
	if target < 0 {
		return 0, fmt.Errorf("memstream: negative position")
	}
	m.pos = target
	return m.pos, nil
}

func (m *memStream) Truncate(size int64) error {
	if size <= int64(len(m.buf)) {
		m.buf = m.buf[:size]
		return nil
	}
	grown := make([]byte, size)
	copy(grown, m.buf)
	m.buf = grown
	return nil
}

func (m *memStream) Close() error {
	m.closed = true
	return nil
}
