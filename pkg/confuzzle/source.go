package confuzzle

// plaintextSource is the sum type spec.md §9 asks for in place of a
// tag field plus null-checked variants: a plaintext comes from exactly
// one of a file, a raw byte slice, or a UTF-8 string.
type plaintextSource interface {
	isPlaintextSource()
	read() ([]byte, error)
}

type filePlaintext string

func (filePlaintext) isPlaintextSource() {}

func (p filePlaintext) read() ([]byte, error) {
	return readFile(string(p))
}

type bytesPlaintext []byte

func (bytesPlaintext) isPlaintextSource() {}

func (p bytesPlaintext) read() ([]byte, error) {
	return []byte(p), nil
}

type stringPlaintext string

func (stringPlaintext) isPlaintextSource() {}

func (p stringPlaintext) read() ([]byte, error) {
	return []byte(p), nil
}

// ciphertextSource mirrors plaintextSource for the decrypt side: a
// ciphertext comes from a file or a raw byte slice (spec.md §6 doesn't
// offer a ciphertext-from-string entry point, since ciphertext isn't
// valid UTF-8 in general).
type ciphertextSource interface {
	isCiphertextSource()
	open() (readSeekCloser, error)
}

type fileCiphertext string

func (fileCiphertext) isCiphertextSource() {}

func (c fileCiphertext) open() (readSeekCloser, error) {
	return openFile(string(c))
}

type bytesCiphertext []byte

func (bytesCiphertext) isCiphertextSource() {}

func (c bytesCiphertext) open() (readSeekCloser, error) {
	return newByteReader(c), nil
}
