package crypto

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"
)

func TestKeyStretcherGeneratesSalt(t *testing.T) {
	k, err := NewKeyStretcher([]byte("MyPassword123"), rand.Reader)
	if err != nil {
		t.Fatalf("NewKeyStretcher: %v", err)
	}
	if len(k.Salt()) != DefaultSaltLength {
		t.Errorf("generated salt length = %d, want %d", len(k.Salt()), DefaultSaltLength)
	}
}

func TestKeyStretcherRejectsEmptyPassword(t *testing.T) {
	if _, err := NewKeyStretcher(nil, rand.Reader); err == nil {
		t.Error("expected error for empty password")
	}
}

func TestKeyStretcherRejectsShortSalt(t *testing.T) {
	_, err := NewKeyStretcher([]byte("pw"), rand.Reader, WithSalt([]byte("short")))
	if !errors.Is(err, ErrSaltTooShort) {
		t.Errorf("err = %v, want ErrSaltTooShort", err)
	}
}

func TestKeyStretcherDeterministic(t *testing.T) {
	salt := []byte("0123456789abcdef")
	k1, err := NewKeyStretcher([]byte("MyPassword123"), rand.Reader, WithSalt(salt))
	if err != nil {
		t.Fatalf("NewKeyStretcher: %v", err)
	}
	k2, err := NewKeyStretcher([]byte("MyPassword123"), rand.Reader, WithSalt(salt))
	if err != nil {
		t.Fatalf("NewKeyStretcher: %v", err)
	}

	key1, err := k1.GetKey(AES, 0)
	if err != nil {
		t.Fatalf("GetKey: %v", err)
	}
	key2, err := k2.GetKey(AES, 0)
	if err != nil {
		t.Fatalf("GetKey: %v", err)
	}
	if !bytes.Equal(key1, key2) {
		t.Error("same password+salt produced different keys")
	}
	if len(key1) != 32 {
		t.Errorf("default key length = %d, want 32 (AES-256, no cap)", len(key1))
	}
}

func TestKeyStretcherRespectsCap(t *testing.T) {
	k, err := NewKeyStretcher([]byte("MyPassword123"), rand.Reader, WithSalt([]byte("0123456789abcdef")))
	if err != nil {
		t.Fatalf("NewKeyStretcher: %v", err)
	}

	key, err := k.GetKey(AES, 128)
	if err != nil {
		t.Fatalf("GetKey: %v", err)
	}
	if len(key) != 16 {
		t.Errorf("capped key length = %d, want 16 (AES-128)", len(key))
	}

	if _, err := k.GetKey(AES, 1); err == nil {
		t.Error("expected error when no legal key size fits the cap")
	}
}

func TestKeyStretcherDifferentSaltsDifferentKeys(t *testing.T) {
	k1, _ := NewKeyStretcher([]byte("MyPassword123"), rand.Reader, WithSalt([]byte("aaaaaaaaaaaaaaaa")))
	k2, _ := NewKeyStretcher([]byte("MyPassword123"), rand.Reader, WithSalt([]byte("bbbbbbbbbbbbbbbb")))

	key1, _ := k1.GetKey(AES, 0)
	key2, _ := k2.GetKey(AES, 0)
	if bytes.Equal(key1, key2) {
		t.Error("different salts produced the same key")
	}
}
