package supersetdetector

import (
	"strings"

	"github.com/cloudscan/dupescan/internal/embedding"
	"github.com/cloudscan/dupescan/internal/model"
	"github.com/cloudscan/dupescan/internal/textextract"
)

const (
	// chunkContainmentThreshold is the minimum per-chunk similarity for a
	// smaller-file chunk to count as "contained" in the larger file.
	chunkContainmentThreshold = 0.98

	// aggregateContainmentThreshold is the minimum fraction of the smaller
	// file's chunks that must be contained for the pair to qualify.
	aggregateContainmentThreshold = 0.95

	// sizeRatioThreshold requires the larger file to be at least 10% bigger.
	sizeRatioThreshold = 1.10

	// minTextLength excludes files too short for containment comparison to
	// be meaningful.
	minTextLength = 100
)

// Find detects superset/subset pairs among files with extracted text: a
// larger, newer file whose content almost entirely contains a smaller,
// older file's content. Every qualifying pair becomes its own Group with the
// larger file as primary (it is the one worth keeping) and the smaller file
// as the sole duplicate.
func Find(files []*model.File, sim embedding.Model) []*model.Group {
	candidates := textBearing(files)
	if len(candidates) < 2 {
		return nil
	}

	var groups []*model.Group
	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			g := evaluatePair(candidates[i], candidates[j], sim)
			if g != nil {
				groups = append(groups, g)
			}
		}
	}
	return groups
}

func textBearing(files []*model.File) []*model.File {
	var out []*model.File
	for _, f := range files {
		if f.HasText && len(strings.TrimSpace(f.Text)) > minTextLength {
			out = append(out, f)
		}
	}
	return out
}

func evaluatePair(a, b *model.File, sim embedding.Model) *model.Group {
	var smaller, larger *model.File
	switch {
	case a.Size < b.Size:
		smaller, larger = a, b
	case b.Size < a.Size:
		smaller, larger = b, a
	default:
		return nil // identical size: not a superset/subset relationship
	}

	if smaller.Size == 0 {
		return nil
	}
	if float64(larger.Size)/float64(smaller.Size) < sizeRatioThreshold {
		return nil
	}
	if larger.LastModified.Before(smaller.LastModified) {
		return nil // larger file is older: not the expected direction
	}

	smallerChunks := Chunk(textextract.Normalize(smaller.Text))
	largerChunks := Chunk(textextract.Normalize(larger.Text))
	if len(smallerChunks) == 0 || len(largerChunks) == 0 {
		return nil
	}

	containment := containmentScore(smallerChunks, largerChunks, sim)
	if containment < aggregateContainmentThreshold {
		return nil
	}

	g := &model.Group{
		Kind:             model.KindSupersetSubset,
		Primary:          larger,
		Duplicates:       []*model.File{smaller},
		SimilarityScore:  containment,
		ContainmentScore: containment,
	}
	g.SavingsBytes = g.Savings()
	return g
}

// containmentScore reports what fraction of smallerChunks has a
// best-matching chunk in largerChunks scoring at or above the per-chunk
// threshold. Every chunk from both files is embedded exactly once, in a
// single batch call, and every pairwise score is then a cosine similarity
// over the resulting vectors — never a second embedding call per pair.
func containmentScore(smallerChunks, largerChunks []string, sim embedding.Model) float64 {
	if len(smallerChunks) == 0 {
		return 0.0
	}

	all := make([]string, 0, len(smallerChunks)+len(largerChunks))
	all = append(all, smallerChunks...)
	all = append(all, largerChunks...)

	vectors, ok := sim.Embed(all)
	if ok && len(vectors) == len(all) {
		smallVecs := vectors[:len(smallerChunks)]
		largeVecs := vectors[len(smallerChunks):]

		contained := 0
		for _, small := range smallVecs {
			best := 0.0
			for _, large := range largeVecs {
				if s := embedding.CosineSimilarity(small, large); s > best {
					best = s
				}
			}
			if best >= chunkContainmentThreshold {
				contained++
			}
		}
		return float64(contained) / float64(len(smallerChunks))
	}

	// No real embeddings available (fallback model, or inference failure):
	// score pairwise with the model's own text-level similarity instead.
	contained := 0
	for _, small := range smallerChunks {
		best := 0.0
		for _, large := range largerChunks {
			if s := sim.Similarity(small, large); s > best {
				best = s
			}
		}
		if best >= chunkContainmentThreshold {
			contained++
		}
	}
	return float64(contained) / float64(len(smallerChunks))
}
