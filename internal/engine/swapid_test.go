package engine

import (
	"testing"
)

func TestDeriveSwapIDDeterministic(t *testing.T) {
	hashlock := SecretHash("secret1")

	a := DeriveSwapID("alice", "bob", hashlock, 1700000000, 42)
	b := DeriveSwapID("alice", "bob", hashlock, 1700000000, 42)

	if a != b {
		t.Errorf("identical inputs derived different IDs: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("swap ID length = %d, want 64", len(a))
	}
	if !ValidHashlock(a) {
		t.Errorf("swap ID is not hex: %s", a)
	}
}

func TestDeriveSwapIDFieldSensitivity(t *testing.T) {
	hashlock := SecretHash("secret1")
	base := DeriveSwapID("alice", "bob", hashlock, 1700000000, 42)

	variants := map[string]string{
		"initiator":   DeriveSwapID("alicf", "bob", hashlock, 1700000000, 42),
		"participant": DeriveSwapID("alice", "bub", hashlock, 1700000000, 42),
		"hashlock":    DeriveSwapID("alice", "bob", SecretHash("secret2"), 1700000000, 42),
		"timelock":    DeriveSwapID("alice", "bob", hashlock, 1700000001, 42),
		"height":      DeriveSwapID("alice", "bob", hashlock, 1700000000, 43),
	}

	seen := map[string]string{base: "base"}
	for field, id := range variants {
		if id == base {
			t.Errorf("changing %s did not change the swap ID", field)
		}
		if prev, dup := seen[id]; dup {
			t.Errorf("variants %s and %s collided", field, prev)
		}
		seen[id] = field
	}
}
