package tokenizer

import (
	"sort"
)

// KindCount is one line of a summary.
type KindCount struct {
	Kind  TokenKind `json:"kind" yaml:"kind"`
	Count int       `json:"count" yaml:"count"`
}

// Summary counts tokens by kind, in order of each kind's first appearance.
type Summary []KindCount

// Summarize counts the tokens of a stream.
func Summarize(tokens []Token) Summary {
	index := make(map[TokenKind]int)
	var summary Summary
	for _, token := range tokens {
		i, ok := index[token.Kind]
		if !ok {
			i = len(summary)
			index[token.Kind] = i
			summary = append(summary, KindCount{Kind: token.Kind})
		}
		summary[i].Count++
	}
	return summary
}

// Count returns the number of tokens of kind.
func (s Summary) Count(kind TokenKind) int {
	for _, kc := range s {
		if kc.Kind == kind {
			return kc.Count
		}
	}
	return 0
}

// Total returns the number of tokens counted.
func (s Summary) Total() int {
	total := 0
	for _, kc := range s {
		total += kc.Count
	}
	return total
}

// ByCount returns a copy ordered by count, largest first. Equal counts keep
// their first-appearance order.
func (s Summary) ByCount() Summary {
	sorted := append(Summary(nil), s...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})
	return sorted
}
