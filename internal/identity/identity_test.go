package identity

import (
	"errors"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

// encodeAddress builds a well-formed bech32 address from 20 raw bytes, the
// way Cosmos-family chains derive account addresses.
func encodeAddress(t *testing.T, hrp string, seed byte) string {
	t.Helper()
	raw := make([]byte, 20)
	for i := range raw {
		raw[i] = seed + byte(i)
	}
	data, err := bech32.ConvertBits(raw, 8, 5, true)
	if err != nil {
		t.Fatalf("ConvertBits() error = %v", err)
	}
	addr, err := bech32.Encode(hrp, data)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	return addr
}

func TestValidate(t *testing.T) {
	v := New("juno")
	valid := encodeAddress(t, "juno", 1)

	if err := v.Validate(valid); err != nil {
		t.Errorf("Validate(%q) error = %v", valid, err)
	}

	t.Run("empty", func(t *testing.T) {
		if err := v.Validate(""); !errors.Is(err, ErrEmptyAddress) {
			t.Errorf("error = %v, want ErrEmptyAddress", err)
		}
	})

	t.Run("mixed case", func(t *testing.T) {
		mixed := strings.ToUpper(valid[:4]) + valid[4:]
		if err := v.Validate(mixed); !errors.Is(err, ErrMixedCase) {
			t.Errorf("error = %v, want ErrMixedCase", err)
		}
	})

	t.Run("corrupted checksum", func(t *testing.T) {
		// Flip the last data character to another charset member.
		last := valid[len(valid)-1]
		flip := byte('q')
		if last == flip {
			flip = 'p'
		}
		corrupted := valid[:len(valid)-1] + string(flip)
		if err := v.Validate(corrupted); !errors.Is(err, ErrNotBech32) {
			t.Errorf("error = %v, want ErrNotBech32", err)
		}
	})

	t.Run("no separator", func(t *testing.T) {
		if err := v.Validate("junoaddress"); !errors.Is(err, ErrNotBech32) {
			t.Errorf("error = %v, want ErrNotBech32", err)
		}
	})

	t.Run("wrong prefix", func(t *testing.T) {
		other := encodeAddress(t, "osmo", 1)
		if err := v.Validate(other); !errors.Is(err, ErrWrongPrefix) {
			t.Errorf("error = %v, want ErrWrongPrefix", err)
		}
	})

	t.Run("empty data part", func(t *testing.T) {
		bare, err := bech32.Encode("juno", nil)
		if err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		if err := v.Validate(bare); !errors.Is(err, ErrEmptyDataPart) {
			t.Errorf("error = %v, want ErrEmptyDataPart", err)
		}
	})
}

func TestValidateAnyPrefix(t *testing.T) {
	v := New("")

	for _, hrp := range []string{"juno", "osmo", "cosmos"} {
		addr := encodeAddress(t, hrp, 3)
		if err := v.Validate(addr); err != nil {
			t.Errorf("Validate(%q) error = %v", addr, err)
		}
	}

	// Structural checks still apply without a pinned prefix.
	if err := v.Validate("not-bech32"); !errors.Is(err, ErrNotBech32) {
		t.Errorf("error = %v, want ErrNotBech32", err)
	}
}
