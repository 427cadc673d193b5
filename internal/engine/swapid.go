// Package engine - deterministic swap ID derivation.
package engine

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// DeriveSwapID produces the swap identifier from the creation parameters:
// SHA-256 over initiator, participant and hashlock bytes followed by the
// timelock and call height as big-endian 8-byte integers. No randomness;
// identical inputs always yield the same ID.
func DeriveSwapID(initiator, participant, hashlock string, timelock, height int64) string {
	h := sha256.New()
	h.Write([]byte(initiator))
	h.Write([]byte(participant))
	h.Write([]byte(hashlock))

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(timelock))
	h.Write(buf[:])
	binary.BigEndian.PutUint64(buf[:], uint64(height))
	h.Write(buf[:])

	return hex.EncodeToString(h.Sum(nil))
}
