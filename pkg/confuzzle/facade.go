// Package confuzzle is a thin fluent façade over pkg/cipherstream for
// the common case of encrypting or decrypting a whole file or byte
// slice in one call, mirroring the staged builder surface described
// for this project: pick a source, supply a password, pick a
// destination.
package confuzzle

import (
	"fmt"
	"io"

	"github.com/Benrnz/Confuzzle/pkg/cipherstream"
)

// EncryptSourceBuilder holds a plaintext source awaiting a password.
type EncryptSourceBuilder struct {
	source plaintextSource
}

// EncryptFile starts an encrypt pipeline reading plaintext from path.
func EncryptFile(path string) *EncryptSourceBuilder {
	return &EncryptSourceBuilder{source: filePlaintext(path)}
}

// EncryptString starts an encrypt pipeline over a UTF-8 string's bytes.
func EncryptString(s string) *EncryptSourceBuilder {
	return &EncryptSourceBuilder{source: stringPlaintext(s)}
}

// EncryptBytes starts an encrypt pipeline over a raw byte slice.
func EncryptBytes(b []byte) *EncryptSourceBuilder {
	return &EncryptSourceBuilder{source: bytesPlaintext(append([]byte(nil), b...))}
}

// WithPassword supplies the password the destination will be encrypted
// under and returns a builder awaiting a destination.
func (b *EncryptSourceBuilder) WithPassword(password string) *EncryptPasswordBuilder {
	return &EncryptPasswordBuilder{source: b.source, password: password}
}

// EncryptPasswordBuilder holds a plaintext source and password, awaiting
// a destination.
type EncryptPasswordBuilder struct {
	source   plaintextSource
	password string
}

// IntoFile encrypts the source into a newly created file at path.
func (b *EncryptPasswordBuilder) IntoFile(path string) error {
	plaintext, err := b.source.read()
	if err != nil {
		return err
	}
	dst, err := createFile(path)
	if err != nil {
		return err
	}
	return encryptInto(dst, plaintext, b.password)
}

// IntoByteSlice encrypts the source and returns the ciphertext bytes,
// header included.
func (b *EncryptPasswordBuilder) IntoByteSlice() ([]byte, error) {
	plaintext, err := b.source.read()
	if err != nil {
		return nil, err
	}
	dst := &byteWriter{}
	if err := encryptInto(dst, plaintext, b.password); err != nil {
		return nil, err
	}
	return dst.Bytes(), nil
}

func encryptInto(dst readSeekCloser, plaintext []byte, password string) error {
	s, err := cipherstream.Create(dst, cipherstream.Password([]byte(password)))
	if err != nil {
		_ = dst.Close()
		return fmt.Errorf("confuzzle: create stream: %w", err)
	}
	if _, err := s.Write(plaintext); err != nil {
		_ = s.Close()
		return fmt.Errorf("confuzzle: encrypt: %w", err)
	}
	if err := s.Close(); err != nil {
		return fmt.Errorf("confuzzle: close: %w", err)
	}
	return nil
}

// DecryptSourceBuilder holds a ciphertext source awaiting a password.
type DecryptSourceBuilder struct {
	source ciphertextSource
}

// DecryptFile starts a decrypt pipeline reading ciphertext from path.
func DecryptFile(path string) *DecryptSourceBuilder {
	return &DecryptSourceBuilder{source: fileCiphertext(path)}
}

// DecryptBytes starts a decrypt pipeline over a raw ciphertext slice.
func DecryptBytes(b []byte) *DecryptSourceBuilder {
	return &DecryptSourceBuilder{source: bytesCiphertext(append([]byte(nil), b...))}
}

// WithPassword supplies the password the source was encrypted under
// and returns a builder awaiting a destination.
func (b *DecryptSourceBuilder) WithPassword(password string) *DecryptPasswordBuilder {
	return &DecryptPasswordBuilder{source: b.source, password: password}
}

// DecryptPasswordBuilder holds a ciphertext source and password,
// awaiting a destination.
type DecryptPasswordBuilder struct {
	source   ciphertextSource
	password string
}

// IntoFile decrypts the source into a newly created file at path.
func (b *DecryptPasswordBuilder) IntoFile(path string) error {
	plaintext, err := b.decryptAll()
	if err != nil {
		return err
	}
	dst, err := createFile(path)
	if err != nil {
		return err
	}
	defer dst.Close()
	if _, err := dst.Write(plaintext); err != nil {
		return fmt.Errorf("confuzzle: write %s: %w", path, err)
	}
	return nil
}

// IntoString decrypts the source and returns it as a string.
func (b *DecryptPasswordBuilder) IntoString() (string, error) {
	plaintext, err := b.decryptAll()
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

func (b *DecryptPasswordBuilder) decryptAll() ([]byte, error) {
	src, err := b.source.open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	s, err := cipherstream.Open(src, cipherstream.Password([]byte(b.password)))
	if err != nil {
		return nil, fmt.Errorf("confuzzle: open stream: %w", err)
	}
	defer s.Close()

	plaintext, err := io.ReadAll(s)
	if err != nil {
		return nil, fmt.Errorf("confuzzle: decrypt: %w", err)
	}
	return plaintext, nil
}
