// Package report renders token streams for people: a per-kind summary, a
// token listing and the source text with every token styled by kind.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/JoeySoprano420/PySys/pkg/tokenizer"
	"github.com/charmbracelet/lipgloss"
)

// Renderer writes reports, styled or plain.
type Renderer struct {
	color  bool
	header lipgloss.Style
	kinds  map[tokenizer.TokenKind]lipgloss.Style
}

// New creates a renderer. With color false every style is skipped and the
// output is plain text.
func New(color bool) *Renderer {
	keyword := lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	literal := lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
	number := lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	text := lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	comment := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	operator := lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	punct := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))

	return &Renderer{
		color:  color,
		header: lipgloss.NewStyle().Bold(true).Underline(true),
		kinds: map[tokenizer.TokenKind]lipgloss.Style{
			tokenizer.KeywordsKind:       keyword,
			tokenizer.BooleanKind:        literal,
			tokenizer.NullKind:           literal,
			tokenizer.HexNumberKind:      number,
			tokenizer.BinaryNumberKind:   number,
			tokenizer.FloatKind:          number,
			tokenizer.NumberKind:         number,
			tokenizer.IdentifierKind:     lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
			tokenizer.CharacterKind:      text,
			tokenizer.StringKind:         text,
			tokenizer.CommentMultiKind:   comment,
			tokenizer.CommentSingleKind:  comment,
			tokenizer.OperatorKind:       operator,
			tokenizer.PunctuationKind:    punct,
			tokenizer.BracketsKind:       punct,
			tokenizer.EscapeSequenceKind: literal,
			tokenizer.ErrorKind: lipgloss.NewStyle().
				Foreground(lipgloss.Color("231")).
				Background(lipgloss.Color("196")).
				Bold(true),
		},
	}
}

// style renders s with the style for kind. Multi-line text is styled line
// by line so that lipgloss does not pad the lines to a common width.
func (r *Renderer) style(kind tokenizer.TokenKind, s string) string {
	st, ok := r.kinds[kind]
	if !r.color || !ok {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = st.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) heading(s string) string {
	if !r.color {
		return s
	}
	return r.header.Render(s)
}

// Summary writes one line per kind.
func (r *Renderer) Summary(w io.Writer, summary tokenizer.Summary) error {
	if _, err := fmt.Fprintln(w, r.heading("Token Summary Report:")); err != nil {
		return err
	}
	for _, kc := range summary {
		if _, err := fmt.Fprintf(w, "%s: %d instances\n", r.style(kc.Kind, string(kc.Kind)), kc.Count); err != nil {
			return err
		}
	}
	return nil
}

// Tokens writes one line per token.
func (r *Renderer) Tokens(w io.Writer, tokens []tokenizer.Token) error {
	for _, token := range tokens {
		_, err := fmt.Fprintf(w, "%s: %s\n", r.style(token.Kind, string(token.Kind)), displayLexeme(token.Lexeme))
		if err != nil {
			return err
		}
	}
	return nil
}

// Full writes the summary followed by the token listing.
func (r *Renderer) Full(w io.Writer, tokens []tokenizer.Token, summary tokenizer.Summary) error {
	if err := r.Summary(w, summary); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\n%s\n", r.heading("Full Token List:")); err != nil {
		return err
	}
	return r.Tokens(w, tokens)
}

// Highlight writes text with each token styled by its kind. Text between
// tokens, which is elided whitespace, is written unchanged. Plain output is
// therefore identical to text.
func (r *Renderer) Highlight(w io.Writer, text string, tokens []tokenizer.Token) error {
	var sb strings.Builder
	cursor := 0
	for _, token := range tokens {
		if token.Start < cursor || token.End > len(text) {
			return fmt.Errorf("token %s at [%d, %d) does not fit the text", token.Kind, token.Start, token.End)
		}
		sb.WriteString(text[cursor:token.Start])
		sb.WriteString(r.style(token.Kind, text[token.Start:token.End]))
		cursor = token.End
	}
	sb.WriteString(text[cursor:])
	_, err := io.WriteString(w, sb.String())
	return err
}

// displayLexeme quotes lexemes that would not read well on one line.
func displayLexeme(s string) string {
	for _, r := range s {
		if r == unicode.ReplacementChar || !unicode.IsPrint(r) {
			return strconv.Quote(s)
		}
	}
	return s
}
