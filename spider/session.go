package spider

import (
	"errors"
	"fmt"

	"spider-cipher/deck"
)

// ErrShortBuffer is returned when the destination cannot hold the output.
var ErrShortBuffer = errors.New("spider: destination shorter than source")

// Session carries one direction of a keyed stream: the working deck and
// the spare deck Advance writes through. A Session is not safe for
// concurrent use.
type Session struct {
	work  deck.Deck
	spare deck.Deck
}

// NewSession starts a session from a copy of key.
func NewSession(key *deck.Deck) *Session {
	s := &Session{}
	s.Reset(key)
	return s
}

// Reset rewinds the session to a copy of key.
func (s *Session) Reset(key *deck.Deck) {
	s.work = *key
	s.spare.Init()
}

// Scramble scrambles one clear card and advances the deck.
func (s *Session) Scramble(clear deck.Card) deck.Card {
	out := Scramble(&s.work, clear)
	Advance(&s.work, clear, &s.spare)
	return out
}

// Unscramble recovers one clear card and advances the deck.
func (s *Session) Unscramble(scrambled deck.Card) deck.Card {
	clear := Unscramble(&s.work, scrambled)
	Advance(&s.work, clear, &s.spare)
	return clear
}

// ScrambleCards scrambles src into dst. Cards are validated before the deck
// moves, so on error the session is unchanged. It returns len(src).
func (s *Session) ScrambleCards(dst, src []deck.Card) (int, error) {
	if err := checkCards(dst, src); err != nil {
		return 0, err
	}
	for i, c := range src {
		dst[i] = s.Scramble(c)
	}
	return len(src), nil
}

// UnscrambleCards recovers the clear cards of src into dst.
func (s *Session) UnscrambleCards(dst, src []deck.Card) (int, error) {
	if err := checkCards(dst, src); err != nil {
		return 0, err
	}
	for i, c := range src {
		dst[i] = s.Unscramble(c)
	}
	return len(src), nil
}

// Deck returns a copy of the current working deck.
func (s *Session) Deck() deck.Deck {
	return s.work
}

// Clear zeroes the session's key material.
func (s *Session) Clear() {
	s.work.Clear()
	s.spare.Clear()
}

func checkCards(dst, src []deck.Card) error {
	if len(dst) < len(src) {
		return fmt.Errorf("%w: len(dst)=%d len(src)=%d", ErrShortBuffer, len(dst), len(src))
	}
	for i, c := range src {
		if c >= deck.Cards {
			return fmt.Errorf("spider: card %d: %w (%d)", i, deck.ErrCardRange, c)
		}
	}
	return nil
}
