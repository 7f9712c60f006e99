package core

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// Hash is a hex-encoded SHA-256 digest, used to fingerprint input files so a
// stored run can be traced back to the exact counts it was computed from.
type Hash string

// NewHash creates a hash from raw data.
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// HashFile computes the hash of a file's contents.
func HashFile(path string) (Hash, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return Hash(hex.EncodeToString(h.Sum(nil))), nil
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}
