package core

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// Deterministic job ids. An id is a pure function of the unit's logical
// identity, so creating a job twice for the same unit is a no-op. The
// same scheme keys vector records, which makes existence checks cheap.

// FieldJobID returns the id for a single embeddable column of a row.
func FieldJobID(rowID, column string) string {
	return "field:" + rowID + ":" + column
}

// CycleJobID returns the id for a work cycle's combined plan/review text.
func CycleJobID(cycleID string) string {
	return "cycle:" + cycleID
}

// SessionJobID returns the id for a session's summarized snapshot.
func SessionJobID(sessionID string) string {
	return "session:" + sessionID
}

// ContentHash generates a deterministic 64-bit hash of text using BLAKE2b.
// Stored alongside jobs and vector records, it detects whether a unit's
// text changed since it was last embedded.
func ContentHash(text string) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}
