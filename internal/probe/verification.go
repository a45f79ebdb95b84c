package probe

import (
	"fmt"
)

// VerifyRanking checks one similarity response: at most k entries, ranks
// numbered from 1, similarity within [0,1] and never increasing, ids unique.
func VerifyRanking(entries []Entry, k int) error {
	if k > 0 && len(entries) > k {
		return fmt.Errorf("%w: %d entries for k=%d", ErrOrdering, len(entries), k)
	}
	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		if e.Rank != i+1 {
			return fmt.Errorf("%w: entry %d has rank %d", ErrOrdering, i, e.Rank)
		}
		if e.Similarity < 0 || e.Similarity > 1 {
			return fmt.Errorf("%w: similarity %v out of range", ErrOrdering, e.Similarity)
		}
		if i > 0 && e.Similarity > entries[i-1].Similarity {
			return fmt.Errorf("%w: entry %d (%.6f) above entry %d (%.6f)",
				ErrOrdering, i, e.Similarity, i-1, entries[i-1].Similarity)
		}
		if _, dup := seen[e.ID]; dup {
			return fmt.Errorf("%w: id %s returned twice", ErrOrdering, e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	return nil
}

// VerifyCells checks that cells partition records properties and are ordered
// by count, then id.
func VerifyCells(cells []Cell, records int) error {
	total := 0
	for i, c := range cells {
		total += c.PropertyCount
		if c.PropertyCount <= 0 {
			return fmt.Errorf("%w: empty cell %s", ErrConservation, c.CellID)
		}
		if c.MinPrice > c.AveragePrice || c.AveragePrice > c.MaxPrice {
			return fmt.Errorf("%w: cell %s average %.2f outside [%.2f, %.2f]",
				ErrConservation, c.CellID, c.AveragePrice, c.MinPrice, c.MaxPrice)
		}
		if i == 0 {
			continue
		}
		prev := cells[i-1]
		if c.PropertyCount > prev.PropertyCount ||
			(c.PropertyCount == prev.PropertyCount && c.CellID <= prev.CellID) {
			return fmt.Errorf("%w: cell %s out of order after %s", ErrOrdering, c.CellID, prev.CellID)
		}
	}
	if total != records {
		return fmt.Errorf("%w: cells hold %d properties, dataset has %d", ErrConservation, total, records)
	}
	return nil
}
