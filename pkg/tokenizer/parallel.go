package tokenizer

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"golang.org/x/sync/errgroup"
)

// segment is a half-open byte range [start, end) of the text.
type segment struct {
	start, end int
}

// segments partitions text according to the options. Boundaries are taken
// as given; they are not moved to token edges.
func (t *Tokenizer) segments(text string) ([]segment, error) {
	if err := t.opts.Validate(); err != nil {
		return nil, err
	}

	cuts := t.opts.Boundaries
	if len(cuts) == 0 {
		k := t.opts.SegmentCount
		cuts = make([]int, 0, k-1)
		for i := 1; i < k; i++ {
			cuts = append(cuts, i*len(text)/k)
		}
	}

	segs := make([]segment, 0, len(cuts)+1)
	start := 0
	for i, cut := range cuts {
		if cut > len(text) {
			return nil, &SegmentError{
				Err:      ErrInvalidSegmentBoundary,
				Index:    i + 1,
				Boundary: cut,
				Detail:   fmt.Sprintf("boundary lies outside [0, %d]", len(text)),
			}
		}
		segs = append(segs, segment{start: start, end: cut})
		start = cut
	}
	return append(segs, segment{start: start, end: len(text)}), nil
}

// TokenizeParallel scans each segment of text on a worker pool and merges
// the results in segment order. The output is the same as a sequential scan:
// when a token runs over a segment boundary, the following segment is
// spliced on at the first position both scans agree on (or, under
// StraddleReject, the run fails instead of rescanning).
//
// Cancelling ctx abandons the run; no partial stream is returned.
func (t *Tokenizer) TokenizeParallel(ctx context.Context, text string) ([]Token, error) {
	segs, err := t.segments(text)
	if err != nil {
		return nil, err
	}

	scans := make([]*scan, len(segs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.opts.Workers)
	for i, seg := range segs {
		i, seg := i, seg
		g.Go(func() error {
			// Each segment sees the rest of the text so that its last token
			// can run past the segment end.
			s := t.newScan(text[seg.start:], seg.end-seg.start, true)
			if err := s.runContext(gctx, 0); err != nil {
				return err
			}
			scans[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("parallel tokenize canceled: %w", err)
	}

	return t.merge(text, segs, scans)
}

// merge concatenates the segment scans in index order. p is the offset the
// merged stream has reached; it is always a position a sequential scan
// would stop at.
func (t *Tokenizer) merge(text string, segs []segment, scans []*scan) ([]Token, error) {
	var out []Token
	p := 0
	for i, seg := range segs {
		s := scans[i]
		local := p - seg.start

		if s.landedAt(local) {
			out = append(out, s.tail(local, seg.start)...)
			p = seg.start + s.stop
			continue
		}

		if p >= seg.end {
			// The previous token swallowed this whole segment.
			continue
		}

		if t.opts.Straddle == StraddleReject {
			return nil, &SegmentError{
				Err:      ErrBoundaryStraddle,
				Index:    i,
				Boundary: seg.start,
				Offset:   p,
				Detail:   fmt.Sprintf("token ending at offset %d splits a token of this segment", p),
			}
		}

		r := t.newScan(text, seg.end, false)
		c := p
		for {
			if s.landedAt(c - seg.start) {
				out = append(out, r.tokens...)
				out = append(out, s.tail(c-seg.start, seg.start)...)
				p = seg.start + s.stop
				break
			}
			if c >= seg.end {
				out = append(out, r.tokens...)
				p = c
				break
			}
			c = r.step(c)
		}
	}
	return out, nil
}

// landedAt reports whether the scan's cursor ever stood at local.
func (s *scan) landedAt(local int) bool {
	_, found := slices.BinarySearch(s.landings, local)
	return found
}

// tail returns the scan's tokens that start at or after local, moved by
// delta into text coordinates.
func (s *scan) tail(local, delta int) []Token {
	i := sort.Search(len(s.tokens), func(i int) bool {
		return s.tokens[i].Start >= local
	})
	out := make([]Token, 0, len(s.tokens)-i)
	for _, token := range s.tokens[i:] {
		out = append(out, token.shift(delta))
	}
	return out
}
