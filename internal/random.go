package internal

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"math/big"
	"strings"
)

// SessionID is the raw opaque identifier carried by the session cookie.
// Only its base64url form ever leaves the process.
type SessionID [16]byte

const resetTokenSize = 32

// HashedCodePrefix marks a stored verification code as a SHA-256 digest.
// Records without the prefix hold the plaintext code; comparison stays
// prefix-aware so both generations of records remain verifiable.
const HashedCodePrefix = "sha256:"

func NewSessionID() (SessionID, error) {
	var sid SessionID
	_, err := rand.Read(sid[:])
	return sid, err
}

func (s SessionID) String() string {
	// base64url, no padding, compact
	return base64.RawURLEncoding.EncodeToString(s[:])
}

func ParseSessionID(token string) (SessionID, error) {
	var sid SessionID

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return sid, err
	}
	if len(raw) != len(sid) {
		return sid, errors.New("invalid session id size")
	}

	copy(sid[:], raw)
	return sid, nil
}

// NewOTP returns a fixed-length decimal code with each digit drawn
// independently and uniformly from 0-9.
func NewOTP(digits int) (string, error) {
	if digits < 4 || digits > 10 {
		return "", errors.New("invalid otp digits")
	}

	var b strings.Builder
	b.Grow(digits)

	max := big.NewInt(10)
	for i := 0; i < digits; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}

	return b.String(), nil
}

// NewResetToken returns a 64-character random hex token. At 256 bits of
// entropy, guessing is infeasible within any attempt ceiling and TTL.
func NewResetToken() (string, error) {
	var raw [resetTokenSize]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw[:]), nil
}

// HashResetToken returns the hex SHA-256 of a presented reset token. Only
// the digest is persisted on the account record.
func HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// HashCode returns the stored form of a verification code under hashed
// storage.
func HashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return HashedCodePrefix + hex.EncodeToString(sum[:])
}

// CodesMatch compares a candidate code against its stored form. Stored
// digests are compared digest-to-digest; stored plaintext is compared in
// constant time.
func CodesMatch(stored, candidate string) bool {
	if strings.HasPrefix(stored, HashedCodePrefix) {
		sum := sha256.Sum256([]byte(candidate))
		want, err := hex.DecodeString(strings.TrimPrefix(stored, HashedCodePrefix))
		if err != nil || len(want) != len(sum) {
			return false
		}
		return subtle.ConstantTimeCompare(sum[:], want) == 1
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}
