// Package hashing computes the SHA-256 digests shown on the hashing, mining
// and Merkle pages, in hex and in bit-string form.
package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"hash"
	"strings"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // HASH160 is defined in terms of RIPEMD-160
)

// ErrCryptoUnavailable is returned by a Hasher that has no digest primitive.
var ErrCryptoUnavailable = errors.New("hashing: no secure digest primitive available")

// Size is the length of a SHA-256 digest in bytes.
const Size = sha256.Size

// Digest is a SHA-256 result in the three forms the pages use.
type Digest struct {
	Sum    [Size]byte
	Hex    string // 64 lowercase hex characters
	Binary string // 256 '0'/'1' characters, most significant bit first
}

// Hasher wraps the digest primitive. The zero value has none and fails with
// ErrCryptoUnavailable; use New for a SHA-256 hasher.
type Hasher struct {
	newHash func() hash.Hash
}

// New returns a SHA-256 hasher.
func New() *Hasher {
	return &Hasher{newHash: sha256.New}
}

// NewWith returns a hasher backed by fn. A nil fn models an environment
// without a secure digest primitive.
func NewWith(fn func() hash.Hash) *Hasher {
	return &Hasher{newHash: fn}
}

// Available reports whether the hasher can produce digests.
func (h *Hasher) Available() bool {
	return h != nil && h.newHash != nil
}

func (h *Hasher) sum(data []byte) (out [Size]byte, err error) {
	if !h.Available() {
		return out, ErrCryptoUnavailable
	}
	w := h.newHash()
	w.Write(data)
	copy(out[:], w.Sum(nil))
	return out, nil
}

func newDigest(sum [Size]byte) Digest {
	d := Digest{Sum: sum, Hex: hex.EncodeToString(sum[:])}
	d.Binary = HexToBinary(d.Hex)
	return d
}

// Sum digests the UTF-8 bytes of message.
func (h *Hasher) Sum(message string) (Digest, error) {
	sum, err := h.sum([]byte(message))
	if err != nil {
		return Digest{}, err
	}
	return newDigest(sum), nil
}

// DoubleSum digests message twice, as Bitcoin hashes block headers and
// transactions. The second pass hashes the raw 32 bytes of the first.
func (h *Hasher) DoubleSum(message string) (Digest, error) {
	first, err := h.sum([]byte(message))
	if err != nil {
		return Digest{}, err
	}
	second, err := h.sum(first[:])
	if err != nil {
		return Digest{}, err
	}
	return newDigest(second), nil
}

var defaultHasher = New()

// Sum digests message with SHA-256.
func Sum(message string) Digest {
	d, _ := defaultHasher.Sum(message)
	return d
}

var nibbleBits = [16]string{
	"0000", "0001", "0010", "0011", "0100", "0101", "0110", "0111",
	"1000", "1001", "1010", "1011", "1100", "1101", "1110", "1111",
}

// HexToBinary expands every hex nibble into four bit characters. Characters
// that are not hex digits are skipped.
func HexToBinary(h string) string {
	var b strings.Builder
	b.Grow(len(h) * 4)
	for i := 0; i < len(h); i++ {
		if v, ok := nibble(h[i]); ok {
			b.WriteString(nibbleBits[v])
		}
	}
	return b.String()
}

func nibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// LeadingZeroBits counts the zero bits at the start of the digest.
func (d Digest) LeadingZeroBits() int {
	return len(d.Binary) - len(strings.TrimLeft(d.Binary, "0"))
}

// ErrorDigest renders err in the digest shape so that a page can display it
// in place of a hash.
func ErrorDigest(err error) Digest {
	return Digest{Hex: "Error: " + err.Error()}
}

// Hash160 is RIPEMD-160(SHA-256(data)), the hash inside P2PKH addresses.
func Hash160(data []byte) []byte {
	sum := sha256.Sum256(data)
	r := ripemd160.New()
	r.Write(sum[:])
	return r.Sum(nil)
}
