// Package digest selects the fixed-output hash used for message integrity
// checks. The digest is unkeyed: it detects corruption in transit but does
// not authenticate the sender.
package digest

import (
	"crypto/sha512"
	"crypto/subtle"
	"errors"
	"fmt"
	"hash"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Algorithm names a 512-bit hash function.
type Algorithm string

const (
	SHA512     Algorithm = "sha512"
	SHA3_512   Algorithm = "sha3-512"
	BLAKE2b512 Algorithm = "blake2b-512"

	// Size is the output size of every supported algorithm.
	Size = 64
)

var ErrUnknownAlgorithm = errors.New("digest: unknown algorithm")

// Default is the algorithm used when none is configured.
const Default = SHA512

// Parse returns the algorithm named s. An empty string selects Default.
func Parse(s string) (Algorithm, error) {
	switch a := Algorithm(s); a {
	case "":
		return Default, nil
	case SHA512, SHA3_512, BLAKE2b512:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
	}
}

// New returns a fresh hash.Hash for a.
func (a Algorithm) New() (hash.Hash, error) {
	switch a {
	case SHA512, "":
		return sha512.New(), nil
	case SHA3_512:
		return sha3.New512(), nil
	case BLAKE2b512:
		return blake2b.New512(nil)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, string(a))
	}
}

// Sum hashes data with a.
func (a Algorithm) Sum(data []byte) ([]byte, error) {
	h, err := a.New()
	if err != nil {
		return nil, err
	}
	h.Write(data)
	return h.Sum(nil), nil
}

// Equal compares two digests in constant time.
func Equal(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

func (a Algorithm) String() string { return string(a) }
