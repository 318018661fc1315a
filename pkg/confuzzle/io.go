package confuzzle

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// readSeekCloser is the underlying-stream shape cipherstream.Open/Create
// want: read, write, seek, and close, though a given source only ever
// exercises the directions its operation needs.
type readSeekCloser interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("confuzzle: read %s: %w", path, err)
	}
	return data, nil
}

func openFile(path string) (readSeekCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("confuzzle: open %s: %w", path, err)
	}
	return f, nil
}

func createFile(path string) (readSeekCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("confuzzle: create %s: %w", path, err)
	}
	return f, nil
}

// byteReader adapts a read-only byte slice to readSeekCloser. Write
// returns an error, never called by Decrypt's one-shot operations.
type byteReader struct {
	*bytes.Reader
}

func newByteReader(b []byte) *byteReader {
	return &byteReader{Reader: bytes.NewReader(b)}
}

func (*byteReader) Write([]byte) (int, error) {
	return 0, fmt.Errorf("confuzzle: byte source is read-only")
}

func (*byteReader) Close() error { return nil }

// byteWriter adapts a growable in-memory buffer to readSeekCloser for
// Encrypt's IntoByteSlice destination. Seeking isn't needed for a
// write-only destination that's read back via Bytes() after Close.
type byteWriter struct {
	bytes.Buffer
}

func (*byteWriter) Seek(int64, int) (int64, error) {
	return 0, fmt.Errorf("confuzzle: byte destination does not support seeking")
}

func (*byteWriter) Close() error { return nil }
