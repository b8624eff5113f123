package lexer

import "github.com/softfault/loom/internal/token"

// Stream is a small buffered-lookahead window over a fully-tokenized file,
// the way the teacher's parser peeks arbitrarily far ahead to disambiguate
// generic-call `<` from comparison.
type Stream struct {
	toks   []token.Token
	pos    int
	lastAdvanced token.Token
}

// NewStream tokenizes src and wraps it in a Stream.
func NewStream(src string) (*Stream, []string) {
	l := New(src)
	var toks []token.Token
	for {
		t := l.nextRaw()
		toks = append(toks, t)
		if t.Type == token.EOF {
			break
		}
	}
	return &Stream{toks: toks}, l.Errors()
}

// Peek returns the token n places ahead of the cursor (n==0 is the current
// token). Peeking past EOF keeps returning the EOF token.
func (s *Stream) Peek(n int) token.Token {
	idx := s.pos + n
	if idx >= len(s.toks) {
		return s.toks[len(s.toks)-1]
	}
	return s.toks[idx]
}

// PeekN returns up to n tokens starting at the cursor, for lookahead scans
// that need to inspect a run rather than one token at a time.
func (s *Stream) PeekN(n int) []token.Token {
	end := s.pos + n
	if end > len(s.toks) {
		end = len(s.toks)
	}
	return s.toks[s.pos:end]
}

// Advance returns the current token and moves the cursor forward one slot.
func (s *Stream) Advance() token.Token {
	t := s.Peek(0)
	if s.pos < len(s.toks)-1 {
		s.pos++
	}
	s.lastAdvanced = t
	return t
}

// LastAdvanced returns the most recently consumed token, used to form the
// end of a Span when a production's rightmost token has already been
// consumed by the time the caller wants to close the span.
func (s *Stream) LastAdvanced() token.Token { return s.lastAdvanced }
