package core

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash is a hex-encoded content fingerprint
type Hash string

// NewHash computes the SHA-256 fingerprint of data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// Short returns the first 12 characters, for logs and filenames
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

// String returns the full hex representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is unset
func (h Hash) IsEmpty() bool {
	return h == ""
}
