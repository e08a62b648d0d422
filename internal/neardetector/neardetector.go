// Package neardetector finds near-duplicate files using a weighted blend of
// content, filename, and metadata similarity, per spec.md §4.5.
package neardetector

import (
	"github.com/cloudscan/dupescan/internal/embedding"
	"github.com/cloudscan/dupescan/internal/model"
	"github.com/cloudscan/dupescan/internal/textextract"
)

const (
	// textThreshold is the combined-score cutoff for files with extracted
	// text, where content similarity dominates the score.
	textThreshold = 0.75

	// noTextThreshold is the higher cutoff used for files with no text,
	// where the combined score relies solely on filename and metadata.
	noTextThreshold = 0.85

	// metadataPrefilterFloor skips the expensive content/filename
	// similarity computation entirely when metadata alone already looks
	// very different.
	metadataPrefilterFloor = 0.3
)

// Find clusters files into near-duplicate groups. sim provides (possibly
// embedding-backed) similarity scoring for the clustering pass; a plain
// fallback scorer is always used when recomputing a group's reported
// average score, matching the asymmetric behavior of the original scanner
// (embeddings during search, plain text similarity when reporting).
func Find(files []*model.File, sim embedding.Model) []*model.Group {
	var withText, withoutText []*model.File
	for _, f := range files {
		if f.HasText && textextract.Normalize(f.Text) != "" {
			withText = append(withText, f)
		} else {
			withoutText = append(withoutText, f)
		}
	}

	plain := embedding.NewFallbackModel()

	var groups []*model.Group
	groups = append(groups, clusterWithText(withText, sim, plain)...)
	groups = append(groups, clusterWithoutText(withoutText)...)
	return groups
}

func clusterWithText(files []*model.File, sim embedding.Model, plain embedding.Model) []*model.Group {
	processed := make(map[string]bool)
	var groups []*model.Group

	for i, primary := range files {
		if processed[primary.ID] {
			continue
		}
		primaryText := textextract.Normalize(primary.Text)

		var members []*model.File
		for _, candidate := range files[i+1:] {
			if processed[candidate.ID] {
				continue
			}

			metaSim := metadataSimilarity(primary, candidate)
			if metaSim < metadataPrefilterFloor {
				continue
			}

			filenameSim := sim.FilenameSimilarity(primary.Name, candidate.Name)
			candidateText := textextract.Normalize(candidate.Text)

			contentSim := 0.0
			if primaryText != "" && candidateText != "" {
				contentSim = sim.Similarity(primaryText, candidateText)
			}

			combined := combinedTextScore(contentSim, filenameSim, metaSim)
			if combined >= textThreshold {
				members = append(members, candidate)
				processed[candidate.ID] = true
			}
		}

		if len(members) == 0 {
			continue
		}
		processed[primary.ID] = true

		method := model.MethodFilenameMetadata
		if primaryText != "" {
			method = model.MethodContentBased
		}

		g := &model.Group{
			Kind:            model.KindNear,
			Primary:         primary,
			Duplicates:      members,
			SimilarityScore: averageScore(primary, members, plain),
			Method:          method,
		}
		g.SavingsBytes = g.Savings()
		groups = append(groups, g)
	}
	return groups
}

func clusterWithoutText(files []*model.File) []*model.Group {
	processed := make(map[string]bool)
	plain := embedding.NewFallbackModel()
	var groups []*model.Group

	for i, primary := range files {
		if processed[primary.ID] {
			continue
		}

		var members []*model.File
		for _, candidate := range files[i+1:] {
			if processed[candidate.ID] {
				continue
			}

			filenameSim := plain.FilenameSimilarity(primary.Name, candidate.Name)
			metaSim := metadataSimilarity(primary, candidate)
			combined := 0.6*filenameSim + 0.4*metaSim

			if combined >= noTextThreshold {
				members = append(members, candidate)
				processed[candidate.ID] = true
			}
		}

		if len(members) == 0 {
			continue
		}
		processed[primary.ID] = true

		g := &model.Group{
			Kind:            model.KindNear,
			Primary:         primary,
			Duplicates:      members,
			SimilarityScore: noTextThreshold,
			Method:          model.MethodFilenameMetadata,
		}
		g.SavingsBytes = g.Savings()
		groups = append(groups, g)
	}
	return groups
}

// combinedTextScore weights content similarity over filename and metadata
// when content is available; otherwise it relies on filename + metadata
// alone, exactly as the original scanner does.
func combinedTextScore(contentSim, filenameSim, metaSim float64) float64 {
	if contentSim > 0 {
		return 0.5*contentSim + 0.3*filenameSim + 0.2*metaSim
	}
	return 0.6*filenameSim + 0.4*metaSim
}

// averageScore recomputes the group's reported similarity using the plain
// (non-embedding) filename similarity, matching the original scanner's
// reporting-time computation.
func averageScore(primary *model.File, members []*model.File, plain embedding.Model) float64 {
	if len(members) == 0 {
		return 0.0
	}
	primaryText := textextract.Normalize(primary.Text)

	total := 0.0
	for _, m := range members {
		filenameSim := plain.FilenameSimilarity(primary.Name, m.Name)
		metaSim := metadataSimilarity(primary, m)

		memberText := textextract.Normalize(m.Text)
		contentSim := 0.0
		if primaryText != "" && memberText != "" {
			contentSim = plain.Similarity(primaryText, memberText)
		}

		total += combinedTextScore(contentSim, filenameSim, metaSim)
	}
	return total / float64(len(members))
}
