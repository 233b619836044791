package gdpr

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/blake2b"
)

// defaultSalt salts argon2 digests when no registry secret is configured.
var defaultSalt = []byte("gdpr.anonymize.v1")

// Argon2Params configures the argon2 anonymizer.
type Argon2Params struct {
	Time    uint32 // Number of iterations
	Memory  uint32 // Memory usage in KiB
	Threads uint8  // Parallelism factor
	KeyLen  uint32 // Output key length
}

// DefaultArgon2Params returns Argon2id parameters suited to pseudonymizing
// short identifiers. Based on OWASP recommendations for password hashing.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Time:    1,
		Memory:  64 * 1024, // 64 MiB
		Threads: 4,
		KeyLen:  32,
	}
}

// digestFunc turns plaintext into a deterministic digest string.
type digestFunc func(plaintext []byte) (string, error)

// sha256Digest returns the hex-encoded SHA-256 of plaintext.
func sha256Digest(plaintext []byte) (string, error) {
	sum := sha256.Sum256(plaintext)
	return hex.EncodeToString(sum[:]), nil
}

// sha512Digest returns the hex-encoded SHA-512 of plaintext.
func sha512Digest(plaintext []byte) (string, error) {
	sum := sha512.Sum512(plaintext)
	return hex.EncodeToString(sum[:]), nil
}

// blake2bDigest returns a keyed BLAKE2b-256 digest. An empty key is unkeyed.
func blake2bDigest(key []byte) digestFunc {
	return func(plaintext []byte) (string, error) {
		h, err := blake2b.New256(key)
		if err != nil {
			return "", fmt.Errorf("blake2b: %w", err)
		}
		h.Write(plaintext)
		return hex.EncodeToString(h.Sum(nil)), nil
	}
}

// argon2Digest returns an encoded Argon2id key using salt, so equal inputs
// produce equal outputs under the same salt.
func argon2Digest(p Argon2Params, salt []byte) digestFunc {
	if len(salt) == 0 {
		salt = defaultSalt
	}
	return func(plaintext []byte) (string, error) {
		key := argon2.IDKey(plaintext, salt, p.Time, p.Memory, p.Threads, p.KeyLen)
		return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s",
			argon2.Version,
			p.Memory,
			p.Time,
			p.Threads,
			base64.RawStdEncoding.EncodeToString(key),
		), nil
	}
}
