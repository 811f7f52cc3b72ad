package proofset

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
)

// Algorithm selects the digest primitive used by a proofset.
// All hashes within one proofset use the same algorithm; it is never
// declared in the artifacts, only inferred from hex digest length.
type Algorithm int

const (
	// SHA256 produces 64-character hex digests.
	SHA256 Algorithm = iota
	// SHA512 produces 128-character hex digests.
	SHA512
)

// Hex digest lengths for the supported algorithms.
const (
	hexLenSHA256 = sha256.Size * 2
	hexLenSHA512 = sha512.Size * 2
)

// ErrInvalidHashLength indicates a hex string whose length matches neither
// SHA-256 (64) nor SHA-512 (128), so no algorithm can be inferred.
var ErrInvalidHashLength = errors.New("invalid hash length: cannot infer algorithm")

func (a Algorithm) String() string {
	switch a {
	case SHA256:
		return "SHA-256"
	case SHA512:
		return "SHA-512"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

// Sum computes the digest of data and returns it as lowercase hex.
func Sum(data []byte, algo Algorithm) string {
	switch algo {
	case SHA512:
		d := sha512.Sum512(data)
		return hex.EncodeToString(d[:])
	default:
		d := sha256.Sum256(data)
		return hex.EncodeToString(d[:])
	}
}

// SumString computes the digest of the UTF-8 bytes of s.
func SumString(s string, algo Algorithm) string {
	return Sum([]byte(s), algo)
}

// InferAlgorithm determines the algorithm that produced a hex digest from
// its length: 64 characters means SHA-256, 128 means SHA-512.
func InferAlgorithm(hexDigest string) (Algorithm, error) {
	switch len(hexDigest) {
	case hexLenSHA256:
		return SHA256, nil
	case hexLenSHA512:
		return SHA512, nil
	default:
		return 0, fmt.Errorf("%w: got %d characters", ErrInvalidHashLength, len(hexDigest))
	}
}

// isHex reports whether s is non-empty and consists only of hex digits.
// Both cases are accepted; legacy artifacts contain uppercase digests.
func isHex(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// isHexDigest reports whether s is a well-formed digest for either
// supported algorithm.
func isHexDigest(s string) bool {
	return (len(s) == hexLenSHA256 || len(s) == hexLenSHA512) && isHex(s)
}
