package token

// Stream yields tokens front-to-back. It reverses its input once and pops
// from the tail, so Next and Peek are O(1).
type Stream struct {
	tokens []Token
}

// NewStream creates a stream over a copy of tokens.
func NewStream(tokens []Token) *Stream {
	reversed := make([]Token, len(tokens))
	for i, tok := range tokens {
		reversed[len(tokens)-1-i] = tok
	}
	return &Stream{tokens: reversed}
}

// Next removes and returns the next token. ok is false when the stream is
// exhausted.
func (s *Stream) Next() (Token, bool) {
	n := len(s.tokens)
	if n == 0 {
		return Token{}, false
	}
	tok := s.tokens[n-1]
	s.tokens = s.tokens[:n-1]
	return tok, true
}

// Peek returns the next token without removing it.
func (s *Stream) Peek() (Token, bool) {
	n := len(s.tokens)
	if n == 0 {
		return Token{}, false
	}
	return s.tokens[n-1], true
}

// Len returns the number of tokens left.
func (s *Stream) Len() int {
	return len(s.tokens)
}
