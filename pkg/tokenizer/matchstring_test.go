package tokenizer

import (
	"testing"
)

func TestQuotedStringMatcher(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		offset int
		length int
		ok     bool
	}{
		{"Double quotes", `"abc" rest`, 0, 5, true},
		{"Single quotes", `'abc'`, 0, 5, true},
		{"Backticks", "`abc`", 0, 5, true},
		{"Guillemets", "«hi»", 0, len("«hi»"), true},
		{"Empty string", `""`, 0, 2, true},
		{"Escaped quote", `'a\'b'`, 0, 6, true},
		{"Escaped backslash", `"a\\" b"`, 0, 5, true},
		{"At an offset", `x = "y"`, 4, 3, true},
		{"Unterminated", `"abc`, 0, 0, false},
		{"Line break", "\"ab\ncd\"", 0, 0, false},
		{"Escaped line break", "\"ab\\\ncd\"", 0, 0, false},
		{"Trailing backslash", `"ab\`, 0, 0, false},
		{"Triple quotes", `"""doc"""`, 0, 0, false},
		{"Mismatched quotes", `"abc'`, 0, 0, false},
		{"Not a quote", "abc", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := QuotedStringMatcher(tt.text, tt.offset)
			if ok != tt.ok {
				t.Fatalf("Expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && n != tt.length {
				t.Errorf("Expected length %d, got %d", tt.length, n)
			}
		})
	}
}
