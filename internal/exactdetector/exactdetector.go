// Package exactdetector groups files that share an identical content
// fingerprint, per spec.md §4.3.
package exactdetector

import (
	"github.com/cloudscan/dupescan/internal/model"
)

// Find groups files by Fingerprint. Within each group of two or more files,
// the primary is the one with the earliest (LastModified, Name) — matching
// the original scanner's sort key — and every other file in the group is a
// duplicate. Files with an empty Fingerprint are ignored: they either failed
// hashing or were never processed.
func Find(files []*model.File) []*model.Group {
	byHash := make(map[string][]*model.File)
	for _, f := range files {
		if f.Fingerprint == "" {
			continue
		}
		byHash[f.Fingerprint] = append(byHash[f.Fingerprint], f)
	}

	var groups []*model.Group
	for _, bucket := range byHash {
		if len(bucket) < 2 {
			continue
		}
		sorted := model.NewSorted(bucket, sortKey)
		items := sorted.Items()

		g := &model.Group{
			Kind:            model.KindExact,
			Primary:         items[0],
			Duplicates:      items[1:],
			SimilarityScore: 1.0,
		}
		g.SavingsBytes = g.Savings()
		groups = append(groups, g)
	}
	return groups
}

// sortKey combines last-modified time and name into a single string so a
// single cmp.Ordered key can drive the sort, matching the tuple
// (last_modified, name) ordering in the original scanner.
func sortKey(f *model.File) string {
	return f.LastModified.UTC().Format("20060102150405.000000000") + "\x00" + f.Name
}
