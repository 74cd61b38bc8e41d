package schnorr

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

func newKey(t *testing.T) (*big.Int, *secp256k1.JacobianPoint) {
	t.Helper()
	x, err := rand.Int(rand.Reader, secp256k1.S256().N)
	if err != nil {
		t.Fatalf("Failed to generate secret: %v", err)
	}
	x.Add(x, big.NewInt(1)).Mod(x, secp256k1.S256().N)
	X, err := PublicKey(x)
	if err != nil {
		t.Fatalf("PublicKey failed: %v", err)
	}
	return x, X
}

func TestSignVerify(t *testing.T) {
	x, X := newKey(t)
	msg := []byte("pay 1 BTC to Bob")

	sig, err := Sign(x, msg)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if !sig.Verify(X, msg) {
		t.Fatal("Verify failed for valid signature")
	}
}

func TestVerifyRejectsTampering(t *testing.T) {
	x, X := newKey(t)
	msg := []byte("pay 1 BTC to Bob")
	sig, _ := Sign(x, msg)

	if sig.Verify(X, []byte("pay 9 BTC to Bob")) {
		t.Fatal("Verify passed for a different message")
	}

	_, other := newKey(t)
	if sig.Verify(other, msg) {
		t.Fatal("Verify passed for a different key")
	}

	sig.S.Add(sig.S, big.NewInt(1))
	if sig.Verify(X, msg) {
		t.Fatal("Verify passed for tampered s")
	}
	sig.S.Sub(sig.S, big.NewInt(1))

	secp256k1.DoubleNonConst(sig.R, sig.R)
	if sig.Verify(X, msg) {
		t.Fatal("Verify passed for tampered R")
	}
}

func TestInvalidInputs(t *testing.T) {
	if _, err := Sign(big.NewInt(0), []byte("m")); err != ErrInvalidKey {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
	if _, err := PublicKey(secp256k1.S256().N); err != ErrInvalidKey {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
	var sig *Signature
	if sig.Verify(nil, nil) {
		t.Fatal("nil signature verified")
	}
}
