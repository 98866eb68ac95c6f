// Package security holds the credential encryption contract and the log
// redactor that keeps decrypted secrets out of sinks.
package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// Authenticated symmetric encryption with a per-record random salt and IV.
// The key is derived from the secret plus the salt with PBKDF2-SHA256, and
// the GCM tag is serialized as its own field: salt:iv:tag:encrypted, each
// base64. Stored credentials written by the upstream application use exactly
// this layout.
const (
	saltLength = 16
	ivLength   = 12
	tagLength  = 16
	keyLength  = 32
	iterations = 100_000
)

// Encrypt seals plaintext under a key derived from secret.
func Encrypt(plaintext, secret string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}
	iv := make([]byte, ivLength)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("generating iv: %w", err)
	}

	gcm, err := newGCM(secret, salt)
	if err != nil {
		return "", err
	}

	sealed := gcm.Seal(nil, iv, []byte(plaintext), nil)
	encrypted := sealed[:len(sealed)-tagLength]
	tag := sealed[len(sealed)-tagLength:]

	enc := base64.StdEncoding.EncodeToString
	return strings.Join([]string{enc(salt), enc(iv), enc(tag), enc(encrypted)}, ":"), nil
}

// Decrypt opens a ciphertext produced by Encrypt. Any input that does not
// split into exactly four colon-separated fields is rejected before any
// cryptographic work.
func Decrypt(ciphertext, secret string) (string, error) {
	parts := strings.Split(ciphertext, ":")
	if len(parts) != 4 {
		return "", fmt.Errorf("invalid ciphertext format: expected salt:iv:tag:encrypted, got %d fields", len(parts))
	}

	fields := make([][]byte, 4)
	for i, part := range parts {
		decoded, err := base64.StdEncoding.DecodeString(part)
		if err != nil {
			return "", fmt.Errorf("decoding ciphertext field %d: %w", i+1, err)
		}
		fields[i] = decoded
	}
	salt, iv, tag, encrypted := fields[0], fields[1], fields[2], fields[3]
	if len(salt) != saltLength || len(iv) != ivLength || len(tag) != tagLength {
		return "", fmt.Errorf("invalid ciphertext format: unexpected field lengths")
	}

	gcm, err := newGCM(secret, salt)
	if err != nil {
		return "", err
	}

	plaintext, err := gcm.Open(nil, iv, append(encrypted, tag...), nil)
	if err != nil {
		return "", fmt.Errorf("decrypting credential: %w", err)
	}
	return string(plaintext), nil
}

// IsEncrypted reports whether a stored value carries the four-field
// ciphertext layout.
func IsEncrypted(value string) bool {
	return strings.Count(value, ":") == 3
}

func newGCM(secret string, salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(secret), salt, iterations, keyLength, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating gcm: %w", err)
	}
	return gcm, nil
}
