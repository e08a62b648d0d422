package pipeline

import "github.com/cloudscan/dupescan/internal/model"

// reconcile implements spec.md §4.8's cross-detector reconciliation: files
// already claimed by an exact or superset_subset group are removed from
// near groups; a near group emptied of duplicates this way is dropped
// entirely.
func reconcile(exact, superset, near []*model.Group) []*model.Group {
	claimed := make(map[string]bool)
	for _, g := range append(append([]*model.Group{}, exact...), superset...) {
		claimed[g.Primary.ID] = true
		for _, d := range g.Duplicates {
			claimed[d.ID] = true
		}
	}

	var kept []*model.Group
	for _, g := range near {
		if claimed[g.Primary.ID] {
			continue
		}

		var survivors []*model.File
		for _, d := range g.Duplicates {
			if !claimed[d.ID] {
				survivors = append(survivors, d)
			}
		}
		if len(survivors) == 0 {
			continue
		}

		g.Duplicates = survivors
		g.SavingsBytes = g.Savings()
		kept = append(kept, g)
	}
	return kept
}
