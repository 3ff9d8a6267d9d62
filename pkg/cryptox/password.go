package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/scrypt"
)

// scrypt parameters. These must stay in sync with the parameters used when
// the stored credentials were created; changing them invalidates every
// password hash in the user table.
const (
	scryptN    = 16384
	scryptR    = 8
	scryptP    = 1
	keyLength  = 64
	saltLength = 16
)

// ErrPasswordMismatch is returned when a password does not match the stored
// derived key. Callers must not surface this distinctly from "user not
// found" conditions.
var ErrPasswordMismatch = errors.New("cryptox: password does not match")

// HashPassword derives a key from the password with a fresh random salt and
// returns both hex-encoded.
func HashPassword(password string) (hexKey, salt string, err error) {
	rawSalt := make([]byte, saltLength)
	if _, err := rand.Read(rawSalt); err != nil {
		return "", "", fmt.Errorf("cryptox: generate salt: %w", err)
	}
	salt = hex.EncodeToString(rawSalt)

	key, err := scrypt.Key([]byte(password), []byte(salt), scryptN, scryptR, scryptP, keyLength)
	if err != nil {
		return "", "", fmt.Errorf("cryptox: derive key: %w", err)
	}
	return hex.EncodeToString(key), salt, nil
}

// VerifyPassword derives a key from the candidate password using the stored
// salt and compares it against the stored hex-encoded key in constant time.
func VerifyPassword(password, storedHexKey, salt string) error {
	stored, err := hex.DecodeString(storedHexKey)
	if err != nil {
		return fmt.Errorf("cryptox: malformed stored key: %w", err)
	}

	derived, err := scrypt.Key([]byte(password), []byte(salt), scryptN, scryptR, scryptP, len(stored))
	if err != nil {
		return fmt.Errorf("cryptox: derive key: %w", err)
	}

	if subtle.ConstantTimeCompare(derived, stored) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}
