package supersetdetector

import (
	"strings"
	"testing"
	"time"

	"github.com/cloudscan/dupescan/internal/embedding"
	"github.com/cloudscan/dupescan/internal/model"
)

func longText(sentence string, repeats int) string {
	var b strings.Builder
	for i := 0; i < repeats; i++ {
		b.WriteString(sentence)
		b.WriteString(". ")
	}
	return b.String()
}

// =============================================================================
// Section 1: containment detection, S3-style scenario
// =============================================================================

func TestFindDetectsSupersetOfIdenticalRepeatedContent(t *testing.T) {
	base := longText("the quarterly report covers revenue and expenses", 30)
	smallerText := base
	largerText := base + longText("an appendix with additional notes follows here", 10)

	smaller := &model.File{
		ID: "small", Name: "report.txt", Size: int64(len(smallerText)),
		LastModified: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Text:         smallerText, HasText: true,
	}
	larger := &model.File{
		ID: "large", Name: "report_v2.txt", Size: int64(len(largerText)),
		LastModified: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Text:         largerText, HasText: true,
	}

	groups := Find([]*model.File{smaller, larger}, embedding.NewFallbackModel())
	if len(groups) != 1 {
		t.Fatalf("expected 1 superset group, got %d", len(groups))
	}

	g := groups[0]
	if g.Kind != model.KindSupersetSubset {
		t.Errorf("expected KindSupersetSubset, got %v", g.Kind)
	}
	if g.Primary.ID != "large" {
		t.Errorf("expected primary to be the larger file, got %s", g.Primary.ID)
	}
	if len(g.Duplicates) != 1 || g.Duplicates[0].ID != "small" {
		t.Errorf("expected duplicate to be the smaller file, got %v", g.Duplicates)
	}
	if g.ContainmentScore < aggregateContainmentThreshold {
		t.Errorf("expected containment >= %v, got %v", aggregateContainmentThreshold, g.ContainmentScore)
	}
}

// =============================================================================
// Section 2: exclusion rules
// =============================================================================

func TestFindSkipsFilesWithoutEnoughText(t *testing.T) {
	a := &model.File{ID: "a", Size: 10, Text: "too short", HasText: true}
	b := &model.File{ID: "b", Size: 20, Text: "also too short", HasText: true}

	groups := Find([]*model.File{a, b}, embedding.NewFallbackModel())
	if len(groups) != 0 {
		t.Errorf("expected no groups for short texts, got %d", len(groups))
	}
}

func TestFindSkipsEqualSizedFiles(t *testing.T) {
	text := longText("identical content for both files here", 30)
	a := &model.File{ID: "a", Size: int64(len(text)), Text: text, HasText: true, LastModified: time.Now()}
	b := &model.File{ID: "b", Size: int64(len(text)), Text: text, HasText: true, LastModified: time.Now()}

	groups := Find([]*model.File{a, b}, embedding.NewFallbackModel())
	if len(groups) != 0 {
		t.Errorf("expected equal-sized files to be skipped, got %d groups", len(groups))
	}
}

func TestFindSkipsWhenSizeRatioTooSmall(t *testing.T) {
	base := longText("some shared sentence content appears here", 30)
	smaller := &model.File{
		ID: "s", Size: int64(len(base)), Text: base, HasText: true,
		LastModified: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	// Only 2% bigger: below the 10% size-ratio threshold.
	largerText := base + "xx"
	larger := &model.File{
		ID: "l", Size: int64(len(largerText)), Text: largerText, HasText: true,
		LastModified: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}

	groups := Find([]*model.File{smaller, larger}, embedding.NewFallbackModel())
	if len(groups) != 0 {
		t.Errorf("expected no group when size ratio below threshold, got %d", len(groups))
	}
}

func TestFindSkipsWhenLargerFileIsOlder(t *testing.T) {
	base := longText("content shared between an old big file and new small one", 30)
	smaller := &model.File{
		ID: "s", Size: int64(len(base)), Text: base, HasText: true,
		LastModified: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	largerText := base + longText("extra padding content to grow the file size", 10)
	larger := &model.File{
		ID: "l", Size: int64(len(largerText)), Text: largerText, HasText: true,
		LastModified: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), // older than smaller
	}

	groups := Find([]*model.File{smaller, larger}, embedding.NewFallbackModel())
	if len(groups) != 0 {
		t.Errorf("expected no group when larger file predates smaller, got %d", len(groups))
	}
}

func TestFindIgnoresFilesWithoutText(t *testing.T) {
	a := &model.File{ID: "a", Size: 100, HasText: false}
	b := &model.File{ID: "b", Size: 200, HasText: false}
	groups := Find([]*model.File{a, b}, embedding.NewFallbackModel())
	if len(groups) != 0 {
		t.Errorf("expected files without text to be ignored, got %d groups", len(groups))
	}
}
