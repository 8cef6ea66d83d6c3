// Package checksum provides the streaming 64-bit framing checksum and the
// 128-bit content digest stone uses for integrity verification (spec §4.1).
//
// Both are XXH3: no dependency in the retrieved example pack implements
// XXH3 specifically (cespare/xxhash/v2, used transitively elsewhere in the
// pack, implements only XXH64/32), so this wraps the real upstream
// implementation, github.com/zeebo/xxh3.
package checksum

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"
)

// Size64 is the width, in bytes, of a framing checksum on the wire.
const Size64 = 8

// Size128 is the width, in bytes, of a content digest on the wire.
const Size128 = 16

// Hasher64 accumulates a streaming XXH3-64 checksum over a payload's stored
// (possibly compressed) body, per spec §4.1.
type Hasher64 struct {
	h *xxh3.Hasher
}

// NewHasher64 returns a fresh streaming 64-bit checksum accumulator.
func NewHasher64() *Hasher64 {
	return &Hasher64{h: xxh3.New()}
}

// Write feeds stored bytes into the accumulator. It never returns an error.
func (h *Hasher64) Write(p []byte) (int, error) {
	return h.h.Write(p)
}

// Sum returns the finalized 8-byte big-endian checksum, matching the wire
// layout of a payload header's checksum field (spec §3).
func (h *Hasher64) Sum() [Size64]byte {
	var out [Size64]byte
	binary.BigEndian.PutUint64(out[:], h.h.Sum64())
	return out
}

// Hasher128 accumulates a streaming XXH3-128 content digest over a payload's
// decompressed bytes, used to identify regular-file blobs inside the
// content payload (spec §3, §4.1).
type Hasher128 struct {
	h *xxh3.Hasher
}

// NewHasher128 returns a fresh streaming 128-bit digest accumulator.
func NewHasher128() *Hasher128 {
	return &Hasher128{h: xxh3.New()}
}

// Write feeds plain bytes into the accumulator. It never returns an error.
func (h *Hasher128) Write(p []byte) (int, error) {
	return h.h.Write(p)
}

// Sum returns the finalized 16-byte big-endian digest.
func (h *Hasher128) Sum() [Size128]byte {
	u := h.h.Sum128()
	var out [Size128]byte
	binary.BigEndian.PutUint64(out[:8], u.Hi)
	binary.BigEndian.PutUint64(out[8:], u.Lo)
	return out
}

// Sum128 computes the XXH3-128 digest of b in one call, for callers that
// already hold a content chunk entirely in memory. The Writer does not call
// it; layout hashes and index digests are supplied by the caller.
func Sum128(b []byte) [Size128]byte {
	h := NewHasher128()
	_, _ = h.Write(b)
	return h.Sum()
}

// Sum64 computes the XXH3-64 framing checksum of b in one call, used by the
// Writer, which buffers each payload's stored bytes before emitting its
// header.
func Sum64(b []byte) [Size64]byte {
	h := NewHasher64()
	_, _ = h.Write(b)
	return h.Sum()
}
