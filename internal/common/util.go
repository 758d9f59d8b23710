package common

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateRandByteArray returns size bytes read from the OS CSPRNG.
// It returns ErrEntropyUnavailable if the random source fails; callers must
// treat that as fatal for the current operation rather than fall back to a
// weaker source.
func GenerateRandByteArray(size int) ([]byte, error) {
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEntropyUnavailable, err)
	}
	return buf, nil
}

// MakeRandHexString returns a hex string encoding size random bytes
// (so the result is 2*size characters long).
func MakeRandHexString(size int) (string, error) {
	buf, err := GenerateRandByteArray(size)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// WipeByteArray zeroes the buffer in place. Safe to call with nil.
func WipeByteArray(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}
