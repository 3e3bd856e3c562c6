package object

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"

	"golang.org/x/crypto/blake2b"
)

// Algorithm names the digest used to derive object ids. A repository picks
// one at init time and never mixes them.
type Algorithm string

const (
	SHA1    Algorithm = "sha1"
	SHA256  Algorithm = "sha256"
	BLAKE2b Algorithm = "blake2b"

	DefaultAlgorithm = SHA1
)

// ParseAlgorithm validates an algorithm name. The empty string selects
// DefaultAlgorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch a := Algorithm(s); a {
	case "":
		return DefaultAlgorithm, nil
	case SHA1, SHA256, BLAKE2b:
		return a, nil
	default:
		return "", fmt.Errorf("unsupported object format %q", s)
	}
}

// HexLen is the length of a Hash produced by a.
func (a Algorithm) HexLen() int {
	if a == SHA1 {
		return sha1.Size * 2
	}
	return 64
}

func (a Algorithm) newHash() hash.Hash {
	switch a {
	case SHA256:
		return sha256.New()
	case BLAKE2b:
		// Only fails for an oversized key; none is used.
		h, _ := blake2b.New256(nil)
		return h
	default:
		return sha1.New()
	}
}

// HashObject computes the digest of the envelope "type\0content" and returns
// it as a lowercase hex Hash.
func HashObject(a Algorithm, objType ObjectType, data []byte) Hash {
	h := a.newHash()
	h.Write([]byte(objType))
	h.Write([]byte{0})
	h.Write(data)
	return Hash(hex.EncodeToString(h.Sum(nil)))
}

// IsHash reports whether s looks like an object id produced by a.
func (a Algorithm) IsHash(s string) bool {
	if len(s) != a.HexLen() {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
