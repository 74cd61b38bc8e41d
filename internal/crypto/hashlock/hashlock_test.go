package hashlock

import (
	"bytes"
	"testing"
)

func TestClaim(t *testing.T) {
	secret, err := NewSecret()
	if err != nil {
		t.Fatalf("NewSecret failed: %v", err)
	}
	if len(secret) != SecretSize {
		t.Fatalf("Expected secret length %d, got %d", SecretSize, len(secret))
	}

	c := New(secret, 100)
	if err := c.Claim([]byte("guess"), 10); err != ErrWrongPreimage {
		t.Fatalf("Expected ErrWrongPreimage, got %v", err)
	}
	if err := c.Claim(secret, 10); err != nil {
		t.Fatalf("Claim failed: %v", err)
	}
	if c.State != Claimed || !bytes.Equal(c.Preimage, secret) {
		t.Fatalf("Unexpected state after claim: %s", c.State)
	}
	if err := c.Refund(200); err != ErrSettled {
		t.Fatalf("Expected ErrSettled, got %v", err)
	}
}

func TestClaimAfterExpiry(t *testing.T) {
	secret, _ := NewSecret()
	c := New(secret, 100)
	if err := c.Claim(secret, 100); err == nil {
		t.Fatal("Claim succeeded at expiry height")
	}
}

func TestRefund(t *testing.T) {
	secret, _ := NewSecret()
	c := New(secret, 100)

	if err := c.Refund(99); err == nil {
		t.Fatal("Refund succeeded before expiry")
	}
	if err := c.Refund(100); err != nil {
		t.Fatalf("Refund failed: %v", err)
	}
	if c.State != Refunded {
		t.Fatalf("Expected refunded, got %s", c.State)
	}
	if err := c.Claim(secret, 1); err != ErrSettled {
		t.Fatalf("Expected ErrSettled, got %v", err)
	}
}

func TestAtomicSwap(t *testing.T) {
	// Alice locks BTC to Bob with her secret; Bob locks LTC to Alice with the
	// same hash and a shorter timeout.
	secret, _ := NewSecret()
	btc := New(secret, 48)
	ltc := NewFromHash(btc.Hash, 24)

	if err := ltc.Claim(secret, 10); err != nil {
		t.Fatalf("Alice claim failed: %v", err)
	}
	// Bob learns the secret from Alice's claim.
	if err := btc.Claim(ltc.Preimage, 12); err != nil {
		t.Fatalf("Bob claim failed: %v", err)
	}
}

func TestParseState(t *testing.T) {
	for _, st := range []State{Locked, Claimed, Refunded} {
		got, err := ParseState(st.String())
		if err != nil || got != st {
			t.Fatalf("ParseState(%q) = %v, %v", st.String(), got, err)
		}
	}
	if _, err := ParseState("spent"); err == nil {
		t.Fatal("Expected error for unknown state")
	}
}
