package tokenizer

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Position represents a line and column position in the source text.
// Both are 1-based and columns count characters, not bytes.
type Position struct {
	Line int `json:"line"`
	Col  int `json:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// LineIndex maps byte offsets to positions. Tokens only carry offsets so
// that segments can be scanned without knowing the lines before them.
type LineIndex struct {
	text       string
	lineStarts []int
}

// NewLineIndex records where each line of text begins.
func NewLineIndex(text string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{text: text, lineStarts: starts}
}

// Locate returns the position of offset. Offsets past the end are clamped.
func (x *LineIndex) Locate(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(x.text) {
		offset = len(x.text)
	}
	line := sort.Search(len(x.lineStarts), func(i int) bool {
		return x.lineStarts[i] > offset
	}) - 1
	col := utf8.RuneCountInString(x.text[x.lineStarts[line]:offset]) + 1
	return Position{Line: line + 1, Col: col}
}
