package cipherstream

import (
	"bytes"
	"errors"
	"testing"
)

func TestHeaderRoundTrip(t *testing.T) {
	nonce := []byte("0123456789ab") // 12 bytes, within [8,16] for AES
	salt := []byte("saltsaltsaltsalt")

	var buf bytes.Buffer
	n, err := writeHeader(&buf, nonce, salt)
	if err != nil {
		t.Fatalf("writeHeader: %v", err)
	}
	if n != buf.Len() {
		t.Errorf("writeHeader returned %d, buffer has %d bytes", n, buf.Len())
	}

	gotNonce, gotSalt, err := readHeader(&buf, 16)
	if err != nil {
		t.Fatalf("readHeader: %v", err)
	}
	if !bytes.Equal(gotNonce, nonce) {
		t.Errorf("nonce = %x, want %x", gotNonce, nonce)
	}
	if !bytes.Equal(gotSalt, salt) {
		t.Errorf("salt = %x, want %x", gotSalt, salt)
	}
}

func TestHeaderSelfConsistency(t *testing.T) {
	nonce := []byte("noncenonce12")
	salt := []byte("0123456789abcdef")

	var buf bytes.Buffer
	if _, err := writeHeader(&buf, nonce, salt); err != nil {
		t.Fatalf("writeHeader: %v", err)
	}
	data := buf.Bytes()

	headerLength := int(data[0])<<8 | int(data[1])
	nonceLength := int(data[2])<<8 | int(data[3])
	if headerLength != HeaderOverhead+len(nonce)+len(salt) {
		t.Errorf("headerLength = %d, want %d", headerLength, HeaderOverhead+len(nonce)+len(salt))
	}
	if nonceLength != len(nonce) {
		t.Errorf("nonceLength = %d, want %d", nonceLength, len(nonce))
	}
}

func TestHeaderTruncatedFails(t *testing.T) {
	nonce := []byte("noncenonce12")
	salt := []byte("0123456789abcdef")

	var buf bytes.Buffer
	if _, err := writeHeader(&buf, nonce, salt); err != nil {
		t.Fatalf("writeHeader: %v", err)
	}
	full := buf.Bytes()

	for cut := 1; cut < len(full); cut++ {
		_, _, err := readHeader(bytes.NewReader(full[:len(full)-cut]), 16)
		if err == nil {
			t.Errorf("truncating last %d bytes: expected error, got none", cut)
		}
	}
}

func TestHeaderCorruptedHeaderLengthFails(t *testing.T) {
	nonce := []byte("noncenonce12")
	salt := []byte("0123456789abcdef")

	var buf bytes.Buffer
	if _, err := writeHeader(&buf, nonce, salt); err != nil {
		t.Fatalf("writeHeader: %v", err)
	}
	data := buf.Bytes()
	data[0], data[1] = 0, 1 // headerLength = 1, far too short

	_, _, err := readHeader(bytes.NewReader(data), 16)
	if !errors.Is(err, ErrHeaderTooShort) {
		t.Errorf("err = %v, want ErrHeaderTooShort", err)
	}
}

func TestHeaderCorruptedNonceLengthFails(t *testing.T) {
	nonce := []byte("noncenonce12")
	salt := []byte("0123456789abcdef")

	var buf bytes.Buffer
	if _, err := writeHeader(&buf, nonce, salt); err != nil {
		t.Fatalf("writeHeader: %v", err)
	}
	data := buf.Bytes()
	data[2], data[3] = 0, 2 // nonceLength = 2, outside [8,16]

	_, _, err := readHeader(bytes.NewReader(data), 16)
	if !errors.Is(err, ErrNonceLengthOutOfRange) {
		t.Errorf("err = %v, want ErrNonceLengthOutOfRange", err)
	}
}

func TestHeaderCorruptedSaltLengthFails(t *testing.T) {
	nonce := []byte("noncenonce12")
	salt := []byte("0123456789abcdef")

	var buf bytes.Buffer
	if _, err := writeHeader(&buf, nonce, salt); err != nil {
		t.Fatalf("writeHeader: %v", err)
	}
	data := buf.Bytes()
	saltLenOffset := 4 + len(nonce)
	data[saltLenOffset], data[saltLenOffset+1] = 0, 99 // claims 99-byte salt, inconsistent with headerLength

	_, _, err := readHeader(bytes.NewReader(data), 16)
	if err == nil {
		t.Error("expected error for inconsistent salt length")
	}
}

func TestWriteHeaderRejectsOversizedSalt(t *testing.T) {
	nonce := make([]byte, 16)
	salt := make([]byte, 0xFFFF) // way past the 16-bit header length budget

	var buf bytes.Buffer
	_, err := writeHeader(&buf, nonce, salt)
	if !errors.Is(err, ErrSaltTooLarge) {
		t.Errorf("err = %v, want ErrSaltTooLarge", err)
	}
}
