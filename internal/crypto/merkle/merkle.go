// Package merkle builds binary hash trees over hex-encoded leaf hashes.
//
// Nodes are hashed as SHA-256 of the concatenated hex strings of their
// children, left then right. A level of odd length pairs its last node with
// itself, as Bitcoin does.
package merkle

import (
	"errors"

	"github.com/smallyu/go-btc-visual/internal/crypto/hashing"
)

var ErrIndexOutOfRange = errors.New("merkle: leaf index out of range")

// Builder reduces levels with a fixed hasher.
type Builder struct {
	h *hashing.Hasher
}

// NewBuilder returns a builder using h. A nil h selects SHA-256.
func NewBuilder(h *hashing.Hasher) *Builder {
	if h == nil {
		h = hashing.New()
	}
	return &Builder{h: h}
}

func (b *Builder) node(left, right string) (string, error) {
	d, err := b.h.Sum(left + right)
	if err != nil {
		return "", err
	}
	return d.Hex, nil
}

// PairAndHash returns the next level up: ceil(len(level)/2) hashes.
func (b *Builder) PairAndHash(level []string) ([]string, error) {
	next := make([]string, 0, (len(level)+1)/2)
	for i := 0; i < len(level); i += 2 {
		left := level[i]
		right := left
		if i+1 < len(level) {
			right = level[i+1]
		}
		n, err := b.node(left, right)
		if err != nil {
			return nil, err
		}
		next = append(next, n)
	}
	return next, nil
}

// Root reduces leaves to a single hash. No leaves give "", one leaf is its
// own root.
func (b *Builder) Root(leaves []string) (string, error) {
	if len(leaves) == 0 {
		return "", nil
	}
	level := leaves
	for len(level) > 1 {
		var err error
		if level, err = b.PairAndHash(level); err != nil {
			return "", err
		}
	}
	return level[0], nil
}

// Tree returns every level, leaves first and the root level last. No leaves
// give an empty tree.
func (b *Builder) Tree(leaves []string) ([][]string, error) {
	if len(leaves) == 0 {
		return [][]string{}, nil
	}
	levels := [][]string{append([]string(nil), leaves...)}
	for level := levels[0]; len(level) > 1; {
		var err error
		if level, err = b.PairAndHash(level); err != nil {
			return nil, err
		}
		levels = append(levels, level)
	}
	return levels, nil
}
