package neardetector

import (
	"strings"
	"time"

	"github.com/cloudscan/dupescan/internal/model"
)

// metadataSimilarity scores two files' non-content metadata: size
// closeness, modification-date closeness, and MIME-type match. The weights
// and bands mirror spec.md §4.5's scoring table exactly.
func metadataSimilarity(a, b *model.File) float64 {
	score := 0.0

	if a.Size > 0 && b.Size > 0 {
		smaller, larger := a.Size, b.Size
		if smaller > larger {
			smaller, larger = larger, smaller
		}
		ratio := float64(smaller) / float64(larger)
		switch {
		case ratio >= 0.9:
			score += 0.5
		case ratio >= 0.8:
			score += 0.3
		}
	}

	if !a.LastModified.IsZero() && !b.LastModified.IsZero() {
		days := daysApart(a.LastModified, b.LastModified)
		switch {
		case days == 0:
			score += 0.3
		case days <= 7:
			score += 0.2
		case days <= 30:
			score += 0.1
		}
	}

	if a.MimeType != "" && b.MimeType != "" && strings.EqualFold(a.MimeType, b.MimeType) {
		score += 0.2
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

func daysApart(a, b time.Time) int {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return int(diff.Hours() / 24)
}
