package tokenizer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// RuleClass says what the engine does with a rule's matches.
type RuleClass string

const (
	ClassToken      RuleClass = "token"      // always kept
	ClassWhitespace RuleClass = "whitespace" // dropped when whitespace is elided
	ClassComment    RuleClass = "comment"    // dropped when comments are elided
)

func (c RuleClass) valid() bool {
	return c == ClassToken || c == ClassWhitespace || c == ClassComment
}

// Matcher reports how many bytes of text match at offset. Matching is
// anchored: a matcher never searches ahead for a later match. Matchers must
// be pure so that a table can be shared between goroutines.
type Matcher func(text string, offset int) (int, bool)

// Rule is one entry of a RuleTable.
type Rule struct {
	Kind  TokenKind
	Class RuleClass
	Match Matcher
}

// Match is the result of a successful table lookup.
type Match struct {
	Kind  TokenKind
	Class RuleClass
	Text  string
}

// RuleTable is an ordered, immutable list of rules. Order is priority: the
// first rule to match wins, so specific shapes must precede general ones.
type RuleTable struct {
	rules []Rule
}

// NewRuleTable builds a table from rules in priority order.
func NewRuleTable(rules ...Rule) (*RuleTable, error) {
	table := &RuleTable{rules: make([]Rule, 0, len(rules))}
	for i, rule := range rules {
		if rule.Kind == "" {
			return nil, fmt.Errorf("%w: rule %d has no kind", ErrInvalidRule, i)
		}
		if rule.Kind == ErrorKind {
			return nil, fmt.Errorf("%w: rule %d uses reserved kind %s", ErrInvalidRule, i, ErrorKind)
		}
		if rule.Match == nil {
			return nil, fmt.Errorf("%w: rule %d (%s) has no matcher", ErrInvalidRule, i, rule.Kind)
		}
		if rule.Class == "" {
			rule.Class = ClassToken
		}
		if !rule.Class.valid() {
			return nil, fmt.Errorf("%w: rule %d (%s) has unknown class '%s'", ErrInvalidRule, i, rule.Kind, rule.Class)
		}
		table.rules = append(table.rules, rule)
	}
	return table, nil
}

// FirstMatch returns the first rule, in priority order, that matches a
// non-empty span starting exactly at offset.
func (rt *RuleTable) FirstMatch(text string, offset int) (Match, bool) {
	m, ok, _ := rt.firstMatch(text, offset)
	return m, ok
}

// firstMatch also reports whether some rule was passed over because it
// matched the empty string.
func (rt *RuleTable) firstMatch(text string, offset int) (Match, bool, bool) {
	if offset < 0 || offset >= len(text) {
		return Match{}, false, false
	}
	sawEmpty := false
	for _, rule := range rt.rules {
		n, ok := rule.Match(text, offset)
		if !ok {
			continue
		}
		if n <= 0 || n > len(text)-offset {
			// An empty match would stall the cursor.
			sawEmpty = true
			continue
		}
		return Match{Kind: rule.Kind, Class: rule.Class, Text: text[offset : offset+n]}, true, false
	}
	return Match{}, false, sawEmpty
}

// Len returns the number of rules.
func (rt *RuleTable) Len() int {
	return len(rt.rules)
}

// Rules returns a copy of the rules in priority order.
func (rt *RuleTable) Rules() []Rule {
	return append([]Rule(nil), rt.rules...)
}

// Kinds returns each kind the table can produce, in order of first use.
func (rt *RuleTable) Kinds() []TokenKind {
	seen := make(map[TokenKind]bool)
	var kinds []TokenKind
	for _, rule := range rt.rules {
		if !seen[rule.Kind] {
			seen[rule.Kind] = true
			kinds = append(kinds, rule.Kind)
		}
	}
	return kinds
}

// PatternMatcher compiles a regular expression into a matcher anchored at
// the cursor. The expression is compiled once, here.
func PatternMatcher(pattern string) (Matcher, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return nil, err
	}
	return func(text string, offset int) (int, bool) {
		loc := re.FindStringIndex(text[offset:])
		if loc == nil {
			return 0, false
		}
		return loc[1], true
	}, nil
}

// LiteralMatcher matches any of the given strings, longest first.
func LiteralMatcher(literals ...string) Matcher {
	sorted := append([]string(nil), literals...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})
	return func(text string, offset int) (int, bool) {
		rest := text[offset:]
		for _, literal := range sorted {
			if literal != "" && strings.HasPrefix(rest, literal) {
				return len(literal), true
			}
		}
		return 0, false
	}
}

// builtinMatchers are hand-written matchers that rules files can refer to
// by name.
var builtinMatchers = map[string]Matcher{
	"quoted-string": QuotedStringMatcher,
}

// BuiltinMatcher looks up a hand-written matcher by name.
func BuiltinMatcher(name string) (Matcher, bool) {
	m, ok := builtinMatchers[name]
	return m, ok
}
