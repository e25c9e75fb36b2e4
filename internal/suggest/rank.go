package suggest

import (
	"sort"
	"strings"
)

// Candidate is one distinct commit message offered to the user.
type Candidate struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// RankCandidates normalizes raw completion choices into full messages and
// orders the distinct ones by how often the model produced them.
//
// Each choice loses one trailing quote (the model closing the -m argument)
// and gains the prefix. Duplicates are matched exactly. Messages with equal
// counts keep the order in which they first appeared.
func RankCandidates(prefix string, rawChoices []string) []Candidate {
	ranked := make([]Candidate, 0, len(rawChoices))
	index := make(map[string]int, len(rawChoices))

	for _, raw := range rawChoices {
		label := prefix + strings.TrimSuffix(raw, `"`)
		if i, ok := index[label]; ok {
			ranked[i].Count++
			continue
		}
		index[label] = len(ranked)
		ranked = append(ranked, Candidate{Label: label, Count: 1})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	return ranked
}

// Labels returns the labels of candidates in order.
func Labels(candidates []Candidate) []string {
	labels := make([]string, len(candidates))
	for i, c := range candidates {
		labels[i] = c.Label
	}
	return labels
}
