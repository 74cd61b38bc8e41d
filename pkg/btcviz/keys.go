package btcviz

import (
	"encoding/hex"
	"errors"
	"math/big"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/smallyu/go-btc-visual/internal/crypto/curves"
	"github.com/smallyu/go-btc-visual/internal/crypto/hashing"
	"github.com/smallyu/go-btc-visual/internal/crypto/schnorr"
)

// Key is a derived public key. Hash160 is only set on secp256k1, where it is
// the payload of a P2PKH address.
type Key struct {
	Curve     string `json:"curve"`
	PublicKey string `json:"public_key"`
	Hash160   string `json:"hash160,omitempty"`
}

// SchnorrSignature is a signature together with the signer's key, all
// compressed and hex encoded.
type SchnorrSignature struct {
	PublicKey string `json:"public_key"`
	R         string `json:"r"`
	S         string `json:"s"`
}

func decodeHex(op, field, s string) ([]byte, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil {
		return nil, NewInputError(op, field, err)
	}
	if len(raw) == 0 {
		return nil, NewInputError(op, field, errors.New("empty"))
	}
	return raw, nil
}

func scalarHex(k *big.Int) string {
	return hex.EncodeToString(k.FillBytes(make([]byte, 32)))
}

// PublicKey derives the compressed public key for a hex private key on a
// real curve ("secp256k1" or "ed25519").
func (v *Visualizer) PublicKey(curve, privHex string) (Key, error) {
	g, err := curves.GroupByName(curve)
	if err != nil {
		return Key{}, NewInputError("publicKey", "curve", err)
	}
	raw, err := decodeHex("publicKey", "private key", privHex)
	if err != nil {
		return Key{}, err
	}
	pub, err := curves.PublicKey(g, new(big.Int).SetBytes(raw))
	if err != nil {
		return Key{}, NewInputError("publicKey", "private key", err)
	}

	k := Key{Curve: g.Name(), PublicKey: hex.EncodeToString(pub)}
	if g.Name() == "secp256k1" {
		k.Hash160 = hex.EncodeToString(hashing.Hash160(pub))
	}
	return k, nil
}

func compressed(p *secp256k1.JacobianPoint) string {
	a := *p
	a.ToAffine()
	return hex.EncodeToString(secp256k1.NewPublicKey(&a.X, &a.Y).SerializeCompressed())
}

func parsePoint(op, field, s string) (*secp256k1.JacobianPoint, error) {
	raw, err := decodeHex(op, field, s)
	if err != nil {
		return nil, err
	}
	pk, err := secp256k1.ParsePubKey(raw)
	if err != nil {
		return nil, NewInputError(op, field, err)
	}
	var p secp256k1.JacobianPoint
	pk.AsJacobian(&p)
	return &p, nil
}

// SchnorrSign signs message with a hex secp256k1 private key.
func (v *Visualizer) SchnorrSign(privHex, message string) (SchnorrSignature, error) {
	raw, err := decodeHex("schnorrSign", "private key", privHex)
	if err != nil {
		return SchnorrSignature{}, err
	}
	x := new(big.Int).SetBytes(raw)
	sig, err := schnorr.Sign(x, []byte(message))
	if err != nil {
		if errors.Is(err, schnorr.ErrInvalidKey) {
			return SchnorrSignature{}, NewInputError("schnorrSign", "private key", ErrInvalidScalar)
		}
		return SchnorrSignature{}, err
	}
	X, err := schnorr.PublicKey(x)
	if err != nil {
		return SchnorrSignature{}, err
	}
	return SchnorrSignature{
		PublicKey: compressed(X),
		R:         compressed(sig.R),
		S:         scalarHex(sig.S),
	}, nil
}

// SchnorrVerify checks sig over message. Malformed encodings are input
// errors; a well-formed signature that does not verify is (false, nil).
func (v *Visualizer) SchnorrVerify(sig SchnorrSignature, message string) (bool, error) {
	X, err := parsePoint("schnorrVerify", "public_key", sig.PublicKey)
	if err != nil {
		return false, err
	}
	R, err := parsePoint("schnorrVerify", "r", sig.R)
	if err != nil {
		return false, err
	}
	s, err := decodeHex("schnorrVerify", "s", sig.S)
	if err != nil {
		return false, err
	}
	return (&schnorr.Signature{R: R, S: new(big.Int).SetBytes(s)}).Verify(X, []byte(message)), nil
}
