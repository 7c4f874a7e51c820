package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

// GenerateVerificationCode returns a random 5-digit code. The first digit is
// never zero so the code survives numeric round-trips intact.
func GenerateVerificationCode() (string, error) {
	first, err := rand.Int(rand.Reader, big.NewInt(9))
	if err != nil {
		return "", err
	}

	rest, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%d%04d", first.Int64()+1, rest.Int64()), nil
}

// SpaceDigits separates each digit with a space, for text-to-speech readout.
func SpaceDigits(code string) string {
	return strings.Join(strings.Split(code, ""), " ")
}

// GenerateResetToken returns a random token and its sha256 hex digest. Only
// the digest is ever persisted; the plaintext goes into the emailed link.
func GenerateResetToken() (plain string, digest string, err error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}

	plain = hex.EncodeToString(buf)
	return plain, HashToken(plain), nil
}

// HashToken returns the sha256 hex digest of a plaintext reset token.
func HashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
