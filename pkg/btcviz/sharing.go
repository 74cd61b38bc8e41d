package btcviz

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/smallyu/go-btc-visual/internal/crypto/curves"
	"github.com/smallyu/go-btc-visual/internal/crypto/polynomial"
)

// MaxShares bounds n for SplitSecret.
const MaxShares = 255

// SecretShare is one Shamir share with a hex value.
type SecretShare struct {
	Index int    `json:"index"`
	Value string `json:"value"`
}

var secp = curves.NewSecp256k1()

// SplitSecret deals n shares of a hex secret below the secp256k1 order, any
// threshold of which recover it.
func (v *Visualizer) SplitSecret(secretHex string, threshold, n int) ([]SecretShare, error) {
	if n < 1 || n > MaxShares {
		return nil, NewInputError("splitSecret", "n", fmt.Errorf("must be in [1, %d]", MaxShares))
	}
	raw, err := decodeHex("splitSecret", "secret", secretHex)
	if err != nil {
		return nil, err
	}
	secret := new(big.Int).SetBytes(raw)
	if secret.Cmp(secp.Params().N) >= 0 {
		return nil, NewInputError("splitSecret", "secret", ErrInvalidScalar)
	}

	shares, _, err := polynomial.Split(secp, secret, threshold, n)
	if err != nil {
		if errors.Is(err, polynomial.ErrThreshold) {
			return nil, NewInputError("splitSecret", "threshold", err)
		}
		return nil, err
	}
	out := make([]SecretShare, len(shares))
	for i, s := range shares {
		out[i] = SecretShare{Index: s.Index, Value: scalarHex(s.Value)}
	}
	v.logger.Debug("secret_split", "threshold", threshold, "n", n)
	return out, nil
}

// ReconstructSecret interpolates the secret from the given shares. Fewer
// than threshold shares give a wrong but well-formed answer.
func (v *Visualizer) ReconstructSecret(shares []SecretShare) (string, error) {
	in := make([]polynomial.Share, len(shares))
	for i, s := range shares {
		raw, err := decodeHex("reconstructSecret", "shares", s.Value)
		if err != nil {
			return "", err
		}
		in[i] = polynomial.Share{Index: s.Index, Value: new(big.Int).SetBytes(raw)}
	}
	secret, err := polynomial.Reconstruct(secp, in)
	if err != nil {
		return "", NewInputError("reconstructSecret", "shares", err)
	}
	return scalarHex(secret), nil
}
