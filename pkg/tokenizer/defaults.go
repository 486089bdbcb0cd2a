package tokenizer

import (
	"fmt"
	"sync"
)

// DefaultRuleSpecs returns the reference rule catalogue in priority order:
// reserved words, numeric subtypes from most to least specific, quoted
// literals, comments, multi-character operators ahead of single-character
// ones, punctuation, whitespace and finally the catch-all symbols.
func DefaultRuleSpecs() []RuleSpec {
	return []RuleSpec{
		{Kind: KeywordsKind, Pattern: `\b(?:def|if|elif|else|for|while|return|class|try|except|finally|raise|import|from|as|continue|break|and|or|not|in|pass|lambda|yield|del|global|nonlocal|assert|with|is|None|True|False)\b`},
		{Kind: BooleanKind, Pattern: `\b(?:true|false)\b`},
		{Kind: NullKind, Pattern: `\bnull\b`},

		{Kind: HexNumberKind, Pattern: `0[xX][0-9A-Fa-f]+`},
		{Kind: BinaryNumberKind, Pattern: `0[bB][01]+`},
		{Kind: FloatKind, Pattern: `\d+\.\d+(?:[eE][+-]?\d+)?`},
		{Kind: NumberKind, Pattern: `\d+`},

		{Kind: IdentifierKind, Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},

		{Kind: CharacterKind, Pattern: `'(?:\\.|[^'\\\n])'`},
		{Kind: StringKind, Builtin: "quoted-string"},

		{Kind: CommentMultiKind, Class: ClassComment, Pattern: `"""[\s\S]*?"""|'''[\s\S]*?'''`},
		{Kind: CommentSingleKind, Class: ClassComment, Pattern: `#[^\n]*`},

		{Kind: OperatorKind, Literals: []string{
			"**=", "//=", "<<=", ">>=",
			"**", "//", "==", "!=", "<=", ">=", "+=", "-=", "*=", "/=", "%=",
			"&=", "|=", "^=", "&&", "||", "<<", ">>", "++", "--", "->", ":=",
		}},
		{Kind: OperatorKind, Pattern: `[+\-*/%=<>!&|^~]`},

		{Kind: PunctuationKind, Pattern: `[.,;:()]`},
		{Kind: BracketsKind, Pattern: `[\[\]{}]`},

		{Kind: WhitespaceKind, Class: ClassWhitespace, Pattern: `\s+`},

		{Kind: EscapeSequenceKind, Pattern: `\\[abfnrtv\\"'0-9]`},
		{Kind: SpecialKind, Pattern: `[$?]`},
	}
}

var defaultRules = sync.OnceValue(func() *RuleTable {
	table, err := CompileRules(DefaultRuleSpecs())
	if err != nil {
		// Default rules should never fail to compile.
		panic(fmt.Sprintf("Invalid default rules: %v", err))
	}
	return table
})

// DefaultRules returns the compiled reference table. The table is immutable
// and shared.
func DefaultRules() *RuleTable {
	return defaultRules()
}
