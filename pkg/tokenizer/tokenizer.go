package tokenizer

import (
	"context"
	"fmt"
	"unicode/utf8"
)

// StraddlePolicy decides what a parallel run does when a token crosses a
// segment boundary and the next segment's speculative scan cannot be
// spliced on directly.
type StraddlePolicy string

const (
	// StraddleResync rescans from the end of the straddling token until the
	// scan lines up with the next segment again.
	StraddleResync StraddlePolicy = "resync"
	// StraddleReject fails the run with ErrBoundaryStraddle.
	StraddleReject StraddlePolicy = "reject"
)

// Options controls elision and the parallel scan.
type Options struct {
	ElideWhitespace bool
	ElideComments   bool

	Parallel     bool
	SegmentCount int   // used when Boundaries is empty
	Boundaries   []int // explicit interior cut points, ascending
	Workers      int
	Straddle     StraddlePolicy
}

// DefaultOptions returns whitespace elision on and a sequential scan.
func DefaultOptions() Options {
	return Options{
		ElideWhitespace: true,
		ElideComments:   false,
		Parallel:        false,
		SegmentCount:    4,
		Workers:         4,
		Straddle:        StraddleResync,
	}
}

// Validate checks the options that do not depend on the text.
func (o Options) Validate() error {
	if len(o.Boundaries) == 0 && o.SegmentCount < 1 {
		return &SegmentError{
			Err:    ErrInvalidSegmentBoundary,
			Index:  -1,
			Detail: fmt.Sprintf("segment count must be at least 1, got %d", o.SegmentCount),
		}
	}
	for i, b := range o.Boundaries {
		if b < 0 || (i > 0 && b < o.Boundaries[i-1]) {
			return &SegmentError{
				Err:      ErrInvalidSegmentBoundary,
				Index:    -1,
				Boundary: b,
				Detail:   fmt.Sprintf("boundaries must be non-negative and ascending, got %v", o.Boundaries),
			}
		}
	}
	if o.Workers < 1 {
		return fmt.Errorf("worker count must be at least 1, got %d", o.Workers)
	}
	if o.Straddle != StraddleResync && o.Straddle != StraddleReject {
		return fmt.Errorf("unknown straddle policy '%s'", o.Straddle)
	}
	return nil
}

// Tokenizer turns text into tokens using a rule table. It keeps no state
// between calls and may be used from several goroutines at once.
type Tokenizer struct {
	rules *RuleTable
	opts  Options
}

// NewTokenizer creates a tokenizer with the default rules and options.
func NewTokenizer() *Tokenizer {
	return NewTokenizerWithRules(DefaultRules(), DefaultOptions())
}

// NewTokenizerWithRules creates a tokenizer with custom rules and options.
func NewTokenizerWithRules(rules *RuleTable, opts Options) *Tokenizer {
	return &Tokenizer{rules: rules, opts: opts}
}

// Rules returns the table the tokenizer scans with.
func (t *Tokenizer) Rules() *RuleTable {
	return t.rules
}

// Options returns the tokenizer's options.
func (t *Tokenizer) Options() Options {
	return t.opts
}

// Tokenize processes text and returns its tokens, scanning in parallel if
// the options ask for it. Unmatched characters never cause an error; they
// become error tokens. The error is only for a parallel configuration that
// cannot be applied to text.
func (t *Tokenizer) Tokenize(text string) ([]Token, error) {
	if t.opts.Parallel {
		return t.TokenizeParallel(context.Background(), text)
	}
	return t.TokenizeSequential(text), nil
}

// TokenizeSequential scans text from start to end on the calling goroutine.
func (t *Tokenizer) TokenizeSequential(text string) []Token {
	s := t.newScan(text, len(text), false)
	s.run(0)
	return s.tokens
}

// elides reports whether matches of class are dropped from the output.
func (t *Tokenizer) elides(class RuleClass) bool {
	switch class {
	case ClassWhitespace:
		return t.opts.ElideWhitespace
	case ClassComment:
		return t.opts.ElideComments
	}
	return false
}

// scan is the state of one pass over a text. Offsets are relative to text.
type scan struct {
	t     *Tokenizer
	text  string
	limit int // the scan stops once the cursor reaches or passes limit

	tokens []Token

	// landings holds every cursor position at which a step began, plus the
	// final position, in ascending order. Only kept for segment scans.
	record   bool
	landings []int
	stop     int
}

func (t *Tokenizer) newScan(text string, limit int, record bool) *scan {
	return &scan{t: t, text: text, limit: limit, record: record}
}

// run scans from cursor until the limit is reached.
func (s *scan) run(cursor int) {
	for cursor < s.limit {
		cursor = s.step(cursor)
	}
	s.finish(cursor)
}

// runContext is run with a cancellation check every so often.
func (s *scan) runContext(ctx context.Context, cursor int) error {
	const checkEvery = 1024
	for steps := 0; cursor < s.limit; steps++ {
		if steps%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		cursor = s.step(cursor)
	}
	s.finish(cursor)
	return nil
}

func (s *scan) finish(cursor int) {
	if s.record {
		s.landings = append(s.landings, cursor)
	}
	s.stop = cursor
}

// step consumes one match, or one unmatched character, at cursor and
// returns the new cursor. It always advances.
func (s *scan) step(cursor int) int {
	if s.record {
		s.landings = append(s.landings, cursor)
	}

	m, ok, sawEmpty := s.t.rules.firstMatch(s.text, cursor)
	if ok {
		if !s.t.elides(m.Class) {
			s.tokens = append(s.tokens, NewToken(m.Kind, m.Text, cursor))
		}
		return cursor + len(m.Text)
	}

	// If nothing matches, record a single character as an error
	_, size := utf8.DecodeRuneInString(s.text[cursor:])
	reason := ReasonUnmatched
	if sawEmpty {
		reason = ReasonEmptyMatch
	}
	s.tokens = append(s.tokens, NewErrorToken(s.text[cursor:cursor+size], cursor, reason))
	return cursor + size
}
