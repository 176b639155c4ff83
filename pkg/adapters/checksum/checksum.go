// Package checksum verifies file digests.
package checksum

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"
)

// ErrUnsupportedAlgorithm is returned for algorithms the verifier does not know.
var ErrUnsupportedAlgorithm = errors.New("unsupported hash algorithm")

// Supported hash algorithms.
const (
	AlgorithmMD5    = "md5"
	AlgorithmSHA1   = "sha1"
	AlgorithmSHA256 = "sha256"
	AlgorithmSHA512 = "sha512"
)

var factories = map[string]func() hash.Hash{
	AlgorithmMD5:    md5.New,
	AlgorithmSHA1:   sha1.New,
	AlgorithmSHA256: sha256.New,
	AlgorithmSHA512: sha512.New,
}

// Verifier implements ports.Checksummer.
type Verifier struct{}

// New returns a Verifier.
func New() Verifier {
	return Verifier{}
}

// normalize maps "SHA-256" style names to the canonical lowercase form.
func normalize(algorithm string) string {
	return strings.ReplaceAll(strings.ToLower(algorithm), "-", "")
}

// Sum computes the hex digest of path.
func (Verifier) Sum(path, algorithm string) (string, error) {
	newHash, ok := factories[normalize(algorithm)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, algorithm)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := newHash()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Verify compares the digest of path with expectedHex, ignoring case and surrounding
// whitespace.
func (v Verifier) Verify(path, algorithm, expectedHex string) (bool, error) {
	sum, err := v.Sum(path, algorithm)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(sum, strings.TrimSpace(expectedHex)), nil
}
