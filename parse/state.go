package parse

import "errors"

// ErrInvalidPosition is returned when a position outside the piece list is accessed
var ErrInvalidPosition = errors.New("invalid position")

// State is the cursor over the ordered argument pieces of one parse. Each
// element of the original vector stays one atomic piece, embedded whitespace
// included.
type State struct {
	pos    int
	pieces []string
}

// NewState creates a State positioned before the first piece
func NewState(pieces []string) *State {
	return &State{
		pos:    -1,
		pieces: pieces,
	}
}

// Pos returns the current position
func (s *State) Pos() int {
	return s.pos
}

// Len returns the number of pieces
func (s *State) Len() int {
	return len(s.pieces)
}

// Args returns the entire piece list
func (s *State) Args() []string {
	return s.pieces
}

// CurrentArg returns the piece under the cursor or "" when out of range
func (s *State) CurrentArg() string {
	if s.pos < 0 || s.pos >= len(s.pieces) {
		return ""
	}

	return s.pieces[s.pos]
}

// Advance moves to the next piece, returning false at end of input
func (s *State) Advance() bool {
	if s.pos+1 < len(s.pieces) {
		s.pos++
		return true
	}

	return false
}

// HasNext reports whether a piece follows the cursor
func (s *State) HasNext() bool {
	return s.pos+1 < len(s.pieces)
}

// Peek returns the next piece without advancing. The empty string is
// ambiguous at end of input - check HasNext when it matters.
func (s *State) Peek() string {
	if s.pos+1 < len(s.pieces) {
		return s.pieces[s.pos+1]
	}

	return ""
}

// ArgAt returns the piece at pos
func (s *State) ArgAt(pos int) (string, error) {
	if pos < 0 || pos >= len(s.pieces) {
		return "", ErrInvalidPosition
	}

	return s.pieces[pos], nil
}
