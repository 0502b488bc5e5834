package utils

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// GenerateCode returns a 6-digit, zero-padded verification code. A 24-bit
// value from crypto/rand is reduced modulo 1,000,000; the non-uniformity near
// the modulus boundary is about 0.0042%.
func GenerateCode() (string, error) {
	var buf [3]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	n := uint32(buf[0])<<16 | uint32(buf[1])<<8 | uint32(buf[2])
	return fmt.Sprintf("%06d", n%1_000_000), nil
}

// NormalizeEmail lowercases and trims an address before lookups and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
