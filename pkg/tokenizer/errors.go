package tokenizer

import (
	"errors"
	"fmt"
)

var (
	ErrUnmatchedCharacter     = errors.New("unmatched character")
	ErrEmptyMatchRejected     = errors.New("empty match rejected")
	ErrInvalidSegmentBoundary = errors.New("invalid segment boundary")
	ErrBoundaryStraddle       = errors.New("token straddles segment boundary")
	ErrInvalidRule            = errors.New("invalid rule")
)

// LexError describes one error token in terms a person can find in the source.
type LexError struct {
	Err      error
	Offset   int
	Position Position
	Char     string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("tokenisation error at line %d, column %d: %v %q",
		e.Position.Line, e.Position.Col, e.Err, e.Char)
}

func (e *LexError) Unwrap() error {
	return e.Err
}

// SegmentError reports a parallel run that could not be carried out.
type SegmentError struct {
	Err      error
	Index    int // segment index, -1 when the configuration as a whole is wrong
	Boundary int
	Offset   int
	Detail   string
}

func (e *SegmentError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%v: %s", e.Err, e.Detail)
	}
	return fmt.Sprintf("%v: segment %d at offset %d: %s", e.Err, e.Index, e.Boundary, e.Detail)
}

func (e *SegmentError) Unwrap() error {
	return e.Err
}

// Diagnose converts the error tokens of a stream into LexErrors, in stream
// order. The text must be the one the tokens were produced from.
func Diagnose(text string, tokens []Token) []*LexError {
	var errs []*LexError
	var index *LineIndex
	for _, token := range tokens {
		if !token.IsError() {
			continue
		}
		if index == nil {
			index = NewLineIndex(text)
		}
		err := ErrUnmatchedCharacter
		if token.Reason == ReasonEmptyMatch {
			err = ErrEmptyMatchRejected
		}
		errs = append(errs, &LexError{
			Err:      err,
			Offset:   token.Start,
			Position: index.Locate(token.Start),
			Char:     token.Lexeme,
		})
	}
	return errs
}
