package curves

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupByName(t *testing.T) {
	g, err := GroupByName("secp256k1")
	require.NoError(t, err)
	assert.Equal(t, "secp256k1", g.Name())

	g, err = GroupByName(" Ed25519 ")
	require.NoError(t, err)
	assert.Equal(t, "ed25519", g.Name())

	_, err = GroupByName("p256")
	assert.ErrorIs(t, err, ErrUnknownCurve)
}

func TestSecp256k1PublicKey(t *testing.T) {
	g := &Secp256k1Group{}

	// 1·G is the generator itself
	pub, err := PublicKey(g, big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t,
		"0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798",
		hex.EncodeToString(pub))

	_, err = PublicKey(g, big.NewInt(0))
	assert.ErrorIs(t, err, ErrInvalidScalar)
	_, err = PublicKey(g, g.Order())
	assert.ErrorIs(t, err, ErrInvalidScalar)
}

func TestSecp256k1GroupArithmetic(t *testing.T) {
	g := &Secp256k1Group{}
	base := g.BasePoint()
	two := g.NewScalarFromBigInt(big.NewInt(2))

	assert.Equal(t, base.Add(base).Bytes(), base.ScalarMult(two).Bytes())

	parsed, err := g.NewElementFromBytes(base.Bytes())
	require.NoError(t, err)
	assert.Equal(t, base.Bytes(), parsed.Bytes())

	s, err := g.NewScalar()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1), s.Mul(s.Invert()).BigInt())
}

func TestSecp256k1BigIntMatchesGroup(t *testing.T) {
	c := NewSecp256k1()
	g := &Secp256k1Group{}
	k := big.NewInt(424242)

	x, y := c.ScalarBaseMult(k)
	viaGroup, err := PublicKey(g, k)
	require.NoError(t, err)

	parsed, err := g.NewElementFromBytes(viaGroup)
	require.NoError(t, err)
	expected := g.BasePoint().ScalarMult(g.NewScalarFromBigInt(k))
	assert.Equal(t, expected.Bytes(), parsed.Bytes())

	// recompute through Add: k·G + G == (k+1)·G
	gx, gy := c.Params().Gx, c.Params().Gy
	sx, sy := c.Add(x, y, gx, gy)
	ex, ey := c.ScalarBaseMult(new(big.Int).Add(k, big.NewInt(1)))
	assert.Equal(t, 0, sx.Cmp(ex))
	assert.Equal(t, 0, sy.Cmp(ey))
}

func TestEd25519PublicKey(t *testing.T) {
	g := &Ed25519Curve{}
	pub, err := PublicKey(g, big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, g.BasePoint().Bytes(), pub)
	assert.Len(t, pub, 32)
}
