package cryptox

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPassword_Deterministic(t *testing.T) {
	password := []byte("secret-password")
	salt := []byte("fixed-salt")

	key1 := HashPassword(password, salt)
	key2 := HashPassword(password, salt)

	if !bytes.Equal(key1, key2) {
		t.Errorf("expected same result for same inputs, got different")
	}

	expectedHex := "9290403300158e19f27e48e7087f7383b03065bf5b25ef23ebc40229616cd8b3"
	if hex.EncodeToString(key1) != expectedHex {
		t.Errorf("expected %s, got %s", expectedHex, hex.EncodeToString(key1))
	}
}

func TestHashPassword_DifferentSalts(t *testing.T) {
	password := []byte("secret-password")

	key1 := HashPassword(password, []byte("salt-1"))
	key2 := HashPassword(password, []byte("salt-2"))

	if bytes.Equal(key1, key2) {
		t.Errorf("expected different results for different salts")
	}
	assert.Len(t, key1, 32)
}

func TestVerifyPassword(t *testing.T) {
	salt := NewSalt()
	assert.Len(t, salt, SaltSize)

	hash := HashPassword([]byte("password123"), salt)

	assert.True(t, VerifyPassword([]byte("password123"), salt, hash))
	assert.False(t, VerifyPassword([]byte("password124"), salt, hash))
	assert.False(t, VerifyPassword([]byte("password123"), NewSalt(), hash))
}
