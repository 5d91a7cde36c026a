// ABOUTME: Set-difference helper for membership updates.
// ABOUTME: Used by packs to compute category removals and additions.

package core

import "sort"

// StringSetDiff returns the elements present in prev but not next (removed)
// and present in next but not prev (added). Both results are sorted so
// callers issue deterministic request sequences.
func StringSetDiff(prev, next []string) (removed, added []string) {
	prevSet := make(map[string]bool, len(prev))
	for _, v := range prev {
		prevSet[v] = true
	}
	nextSet := make(map[string]bool, len(next))
	for _, v := range next {
		nextSet[v] = true
	}

	for v := range prevSet {
		if !nextSet[v] {
			removed = append(removed, v)
		}
	}
	for v := range nextSet {
		if !prevSet[v] {
			added = append(added, v)
		}
	}

	sort.Strings(removed)
	sort.Strings(added)
	return removed, added
}
