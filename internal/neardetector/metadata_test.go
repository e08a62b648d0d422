package neardetector

import (
	"testing"
	"time"

	"github.com/cloudscan/dupescan/internal/model"
)

// =============================================================================
// Section 1: size-ratio banding
// =============================================================================

func TestMetadataSimilaritySizeBands(t *testing.T) {
	cases := []struct {
		name       string
		sizeA      int64
		sizeB      int64
		wantAtLeast float64
	}{
		{"within 10%", 1000, 950, 0.5},
		{"within 20%", 1000, 850, 0.3},
		{"far apart", 1000, 100, 0.0},
	}
	for _, c := range cases {
		a := &model.File{Size: c.sizeA}
		b := &model.File{Size: c.sizeB}
		got := metadataSimilarity(a, b)
		if got < c.wantAtLeast {
			t.Errorf("%s: metadataSimilarity(%d, %d) = %v, want >= %v", c.name, c.sizeA, c.sizeB, got, c.wantAtLeast)
		}
	}
}

// =============================================================================
// Section 2: date banding
// =============================================================================

func TestMetadataSimilaritySameDay(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	a := &model.File{LastModified: now}
	b := &model.File{LastModified: now.Add(2 * time.Hour)}
	if got := metadataSimilarity(a, b); got < 0.3 {
		t.Errorf("same-day files should score >= 0.3, got %v", got)
	}
}

func TestMetadataSimilarityCappedAtOne(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	a := &model.File{Size: 1000, MimeType: "text/plain", LastModified: now}
	b := &model.File{Size: 1000, MimeType: "text/plain", LastModified: now}
	if got := metadataSimilarity(a, b); got > 1.0 {
		t.Errorf("metadataSimilarity should be capped at 1.0, got %v", got)
	}
}

func TestMetadataSimilarityMimeMatch(t *testing.T) {
	a := &model.File{MimeType: "application/pdf"}
	b := &model.File{MimeType: "application/pdf"}
	if got := metadataSimilarity(a, b); got < 0.2 {
		t.Errorf("matching mime types should add 0.2, got %v", got)
	}
}

func TestMetadataSimilarityZeroForEmptyFiles(t *testing.T) {
	a := &model.File{}
	b := &model.File{}
	if got := metadataSimilarity(a, b); got != 0.0 {
		t.Errorf("expected 0.0 for two files with no comparable metadata, got %v", got)
	}
}
