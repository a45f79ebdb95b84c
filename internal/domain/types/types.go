// Package types contains the read shapes returned to API clients.
package types

import "github.com/arijit3111w/estateai/internal/domain/model"

// Entry is one row of a ranked list.
type Entry struct {
	Rank int `json:"rank"`
	model.ScoredCandidate
}

// Entries numbers scored candidates 1..n in their given order.
func Entries(scored []model.ScoredCandidate) []Entry {
	out := make([]Entry, len(scored))
	for i, c := range scored {
		out[i] = Entry{Rank: i + 1, ScoredCandidate: c}
	}
	return out
}

// Page is a window over the dataset in load order.
type Page struct {
	Total   int                    `json:"total"`
	Offset  int                    `json:"offset"`
	Limit   int                    `json:"limit"`
	Records []model.PropertyRecord `json:"records"`
}
