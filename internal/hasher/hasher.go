// Package hasher computes the two-tier content fingerprint used by
// ExactDetector (spec.md §4.3).
//
// Below the large-file threshold the fingerprint is a plain SHA-256 of the
// full content. Above it, hashing is bounded to a fixed amount of work
// regardless of file size: first chunk + last chunk + size, trading a small,
// documented chance of collision (identical-size files with identical
// head/tail bytes but differing middles) for throughput on large files.
package hasher

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

const (
	// largeFileThreshold is T in spec.md §4.3: files at or below this size
	// are hashed in full.
	largeFileThreshold = 10 * 1024 * 1024 // 10 MiB

	// probeChunkSize is C in spec.md §4.3: the size of the head/tail probe
	// hashed for files above largeFileThreshold.
	probeChunkSize = 1 * 1024 * 1024 // 1 MiB
)

// Hash computes the content fingerprint of content, in hex.
//
// Deterministic: Hash(x) always equals Hash(x). Below the threshold, two
// distinct inputs collide only with cryptographic (SHA-256) improbability.
// Above the threshold, same-size files with identical C-byte prefixes and
// suffixes collide by construction — this is the documented trade-off from
// spec.md §4.3, not a bug.
func Hash(content []byte) string {
	size := len(content)
	if size <= largeFileThreshold {
		sum := sha256.Sum256(content)
		return hex.EncodeToString(sum[:])
	}

	h := sha256.New()
	h.Write(content[:probeChunkSize])
	h.Write(content[size-probeChunkSize:])
	h.Write([]byte(strconv.Itoa(size)))
	return hex.EncodeToString(h.Sum(nil))
}
