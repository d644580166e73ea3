package canonical

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content hashes.
// The version suffix allows the encoding to change without colliding with old hashes.
const (
	DomainQuery     = "nosqlcore/query/v1"
	DomainDelete    = "nosqlcore/delete/v1"
	DomainCondition = "nosqlcore/condition/v1"
	DomainCapture   = "nosqlcore/capture/v1"
)

// Hash computes SHA-256 over domain + 0x00 + canonical JSON of v.
// The null separator prevents domain/data boundary ambiguity.
func Hash(domain string, v any) (string, error) {
	data, err := Marshal(v)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", domain, err)
	}

	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// MustHash is like Hash but panics on error.
// Use only in tests or when v is known to be encodable.
func MustHash(domain string, v any) string {
	h, err := Hash(domain, v)
	if err != nil {
		panic(err)
	}
	return h
}
