package tokenizer

// TokenKind names a lexical category.
type TokenKind string

const (
	// Reserved words and literal constants
	KeywordsKind TokenKind = "KEYWORDS"
	BooleanKind  TokenKind = "BOOLEAN"
	NullKind     TokenKind = "NULL"

	// Numeric literal subtypes, most specific first
	HexNumberKind    TokenKind = "HEX_NUMBER"
	BinaryNumberKind TokenKind = "BINARY_NUMBER"
	FloatKind        TokenKind = "FLOAT"
	NumberKind       TokenKind = "NUMBER"

	IdentifierKind TokenKind = "IDENTIFIER"

	// Quoted literals
	CharacterKind TokenKind = "CHARACTER"
	StringKind    TokenKind = "STRING"

	// Comments
	CommentMultiKind  TokenKind = "COMMENT_MULTI"
	CommentSingleKind TokenKind = "COMMENT_SINGLE"

	// Operators and punctuation
	OperatorKind    TokenKind = "OPERATOR"
	PunctuationKind TokenKind = "PUNCTUATION"
	BracketsKind    TokenKind = "BRACKETS"

	WhitespaceKind     TokenKind = "WHITESPACE"
	EscapeSequenceKind TokenKind = "ESCAPE_SEQUENCE"
	SpecialKind        TokenKind = "SPECIAL"

	// ErrorKind marks a single character that no rule matched. It is reserved
	// and cannot be used by a rule.
	ErrorKind TokenKind = "ERROR"
)

// Reasons recorded on error tokens.
const (
	ReasonUnmatched  = "unmatched character"
	ReasonEmptyMatch = "empty match rejected"
)

// Token is a classified, positioned slice of the source text. Start and End
// are byte offsets, End is exclusive.
type Token struct {
	Kind   TokenKind `json:"kind"`
	Lexeme string    `json:"lexeme"`
	Start  int       `json:"start"`
	End    int       `json:"end"`

	// Reason is only set on error tokens.
	Reason string `json:"reason,omitempty"`
}

// NewToken creates a token for lexeme found at offset start.
func NewToken(kind TokenKind, lexeme string, start int) Token {
	return Token{
		Kind:   kind,
		Lexeme: lexeme,
		Start:  start,
		End:    start + len(lexeme),
	}
}

// NewErrorToken creates an error token covering one character.
func NewErrorToken(char string, start int, reason string) Token {
	token := NewToken(ErrorKind, char, start)
	token.Reason = reason
	return token
}

// IsError reports whether the token records an unmatched character.
func (t Token) IsError() bool {
	return t.Kind == ErrorKind
}

// shift returns the token moved delta bytes to the right.
func (t Token) shift(delta int) Token {
	t.Start += delta
	t.End += delta
	return t
}
