package hasher

import (
	"bytes"
	"strings"
	"testing"
)

// =============================================================================
// Section 1: Small-file (full SHA-256) behavior
// =============================================================================

func TestHashDeterministic(t *testing.T) {
	content := []byte("the quick brown fox")
	if Hash(content) != Hash(content) {
		t.Errorf("Hash is not deterministic for the same input")
	}
}

func TestHashDistinctSmallInputsDiffer(t *testing.T) {
	a := []byte("alpha")
	b := []byte("bravo")
	if Hash(a) == Hash(b) {
		t.Errorf("expected distinct hashes for distinct small inputs")
	}
}

func TestHashIsHex(t *testing.T) {
	h := Hash([]byte("hello"))
	if len(h) != 64 {
		t.Errorf("expected 64 hex chars (sha256), got %d: %q", len(h), h)
	}
}

// =============================================================================
// Section 2: Large-file (two-tier) behavior — spec.md §4.3, S2
// =============================================================================

func TestHashLargeFileSameHeadTailSizeCollides(t *testing.T) {
	// Two 20 MiB files, identical first and last MiB, identical size,
	// differing middle bytes. Per spec.md S2, these must collide under the
	// optimized hash — this is a documented, intentional trade-off.
	const size = 20 * 1024 * 1024
	head := bytes.Repeat([]byte{0xAA}, probeChunkSize)
	tail := bytes.Repeat([]byte{0xBB}, probeChunkSize)
	middleSize := size - 2*probeChunkSize

	a := append(append(append([]byte{}, head...), bytes.Repeat([]byte{0x01}, middleSize)...), tail...)
	b := append(append(append([]byte{}, head...), bytes.Repeat([]byte{0x02}, middleSize)...), tail...)

	if len(a) != size || len(b) != size {
		t.Fatalf("test setup error: got sizes %d, %d want %d", len(a), len(b), size)
	}

	if Hash(a) != Hash(b) {
		t.Errorf("expected optimized hash collision for same-size files with identical head/tail")
	}
}

func TestHashLargeFileDifferentSizeDoesNotCollide(t *testing.T) {
	head := bytes.Repeat([]byte{0xAA}, probeChunkSize)
	tail := bytes.Repeat([]byte{0xBB}, probeChunkSize)

	a := append(append(append([]byte{}, head...), bytes.Repeat([]byte{0x01}, 2*1024*1024)...), tail...)
	b := append(append(append([]byte{}, head...), bytes.Repeat([]byte{0x01}, 3*1024*1024)...), tail...)

	if Hash(a) == Hash(b) {
		t.Errorf("expected different hashes for differently-sized large files")
	}
}

func TestHashBoundaryAtThreshold(t *testing.T) {
	exact := bytes.Repeat([]byte{0x7}, largeFileThreshold)
	justOver := bytes.Repeat([]byte{0x7}, largeFileThreshold+1)

	if strings.Compare(Hash(exact), Hash(justOver)) == 0 {
		t.Errorf("boundary-size and just-over-boundary content should hash differently")
	}
}
