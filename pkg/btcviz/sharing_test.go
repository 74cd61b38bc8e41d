package btcviz

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitAndReconstruct(t *testing.T) {
	v := New()
	shares, err := v.SplitSecret("c0ffee", 3, 5)
	require.NoError(t, err)
	require.Len(t, shares, 5)

	want := "0000000000000000000000000000000000000000000000000000000000c0ffee"
	for _, pick := range [][]int{{0, 1, 2}, {4, 2, 0}, {1, 3, 4}} {
		subset := []SecretShare{shares[pick[0]], shares[pick[1]], shares[pick[2]]}
		got, err := v.ReconstructSecret(subset)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	got, err := v.ReconstructSecret(shares[:2])
	require.NoError(t, err)
	assert.NotEqual(t, want, got)
}

func TestSplitSecretInputErrors(t *testing.T) {
	v := New()
	var ie *InputError

	_, err := v.SplitSecret("01", 4, 3)
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "threshold", ie.Field)

	_, err = v.SplitSecret("01", 1, MaxShares+1)
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "n", ie.Field)

	// the secp256k1 order itself is out of range
	_, err = v.SplitSecret("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141", 2, 3)
	assert.ErrorIs(t, err, ErrInvalidScalar)

	_, err = v.ReconstructSecret([]SecretShare{{Index: 1, Value: "01"}, {Index: 1, Value: "02"}})
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "shares", ie.Field)
}
