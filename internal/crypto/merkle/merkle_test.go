package merkle

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallyu/go-btc-visual/internal/crypto/hashing"
)

func leaves(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = hashing.Sum(fmt.Sprintf("tx-%d", i)).Hex
	}
	return out
}

func h(s string) string {
	return hashing.Sum(s).Hex
}

func TestRootEdgeCases(t *testing.T) {
	b := NewBuilder(nil)

	root, err := b.Root(nil)
	require.NoError(t, err)
	assert.Equal(t, "", root)

	l := leaves(1)
	root, err = b.Root(l)
	require.NoError(t, err)
	assert.Equal(t, l[0], root)
}

func TestRootOddDuplicatesLast(t *testing.T) {
	b := NewBuilder(nil)
	l := leaves(3)

	root, err := b.Root(l)
	require.NoError(t, err)

	want := h(h(l[0]+l[1]) + h(l[2]+l[2]))
	assert.Equal(t, want, root)
}

func TestPairAndHash(t *testing.T) {
	b := NewBuilder(nil)
	l := leaves(5)

	next, err := b.PairAndHash(l)
	require.NoError(t, err)
	assert.Equal(t, []string{h(l[0] + l[1]), h(l[2] + l[3]), h(l[4] + l[4])}, next)

	empty, err := b.PairAndHash(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestTreeShape(t *testing.T) {
	b := NewBuilder(nil)

	tree, err := b.Tree(nil)
	require.NoError(t, err)
	assert.Empty(t, tree)

	for n := 1; n <= 17; n++ {
		l := leaves(n)
		tree, err := b.Tree(l)
		require.NoError(t, err)

		assert.Equal(t, l, tree[0], "n=%d", n)
		assert.Len(t, tree[len(tree)-1], 1, "n=%d", n)
		assert.Equal(t, int(math.Ceil(math.Log2(float64(n))))+1, len(tree), "n=%d", n)

		root, err := b.Root(l)
		require.NoError(t, err)
		assert.Equal(t, root, tree[len(tree)-1][0])
	}
}

func TestTreeDoesNotAliasInput(t *testing.T) {
	b := NewBuilder(nil)
	l := leaves(2)
	tree, err := b.Tree(l)
	require.NoError(t, err)

	tree[0][0] = "mutated"
	assert.NotEqual(t, "mutated", l[0])
}

func TestUnavailableHasher(t *testing.T) {
	b := NewBuilder(hashing.NewWith(nil))
	l := leaves(2)

	_, err := b.PairAndHash(l)
	assert.ErrorIs(t, err, hashing.ErrCryptoUnavailable)
	_, err = b.Root(l)
	assert.ErrorIs(t, err, hashing.ErrCryptoUnavailable)
	_, err = b.Tree(l)
	assert.ErrorIs(t, err, hashing.ErrCryptoUnavailable)

	// a single leaf needs no hashing
	root, err := b.Root(l[:1])
	require.NoError(t, err)
	assert.Equal(t, l[0], root)
}

func TestProofRoundTrip(t *testing.T) {
	b := NewBuilder(nil)
	for _, n := range []int{1, 2, 3, 4, 5, 7, 8, 11} {
		l := leaves(n)
		root, err := b.Root(l)
		require.NoError(t, err)

		for i := range l {
			steps, err := b.Proof(l, i)
			require.NoError(t, err)

			ok, err := b.VerifyProof(l[i], steps, root)
			require.NoError(t, err)
			assert.True(t, ok, "n=%d i=%d", n, i)

			ok, err = b.VerifyProof(h("forged"), steps, root)
			require.NoError(t, err)
			assert.False(t, ok, "n=%d i=%d forged leaf accepted", n, i)
		}
	}
}

func TestProofIndexOutOfRange(t *testing.T) {
	b := NewBuilder(nil)
	_, err := b.Proof(leaves(3), 3)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = b.Proof(leaves(3), -1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = b.Proof(nil, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}
