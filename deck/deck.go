package deck

import (
	"errors"
	"fmt"
	"strings"
)

// Cards is the number of cards in a deck. Cards are numbered 0..Cards-1.
const Cards = 40

// unset marks a card whose position is not yet known while keying.
const unset = Cards

// Card is a deck symbol in [0,Cards).
type Card uint8

var (
	// ErrKeying is returned when a deck cannot be keyed from the supplied cards.
	ErrKeying = errors.New("deck: keying failed")
	// ErrCardRange reports a card value outside [0,Cards).
	ErrCardRange = errors.New("card out of range")
	// ErrDuplicateCard reports a card assigned to more than one position.
	ErrDuplicateCard = errors.New("duplicate card")
)

// Deck tracks a permutation of the cards together with its inverse:
//
//	cards[ats[card]] == card
//	ats[cards[at]] == at
//
// so that both "which card is at position p" and "where is card c" are
// constant time. The zero value is not a valid deck; use Init, InitBy or
// FromCards.
type Deck struct {
	cards [Cards]Card
	ats   [Cards]uint8
}

// New returns the identity deck.
func New() Deck {
	var d Deck
	d.Init()
	return d
}

// Init sets the deck to the identity permutation 00..39.
func (d *Deck) Init() {
	for i := 0; i < Cards; i++ {
		d.cards[i] = Card(i)
		d.ats[i] = uint8(i)
	}
}

// InitBy keys the deck from a generator: position at receives f(at).
// The generator must produce a permutation of 0..39; an out of range or
// repeated card fails with ErrKeying and leaves the deck cleared.
func (d *Deck) InitBy(f func(at int) Card) error {
	for c := 0; c < Cards; c++ {
		d.ats[c] = unset
	}
	for at := 0; at < Cards; at++ {
		card := f(at)
		if card >= Cards {
			d.Clear()
			return fmt.Errorf("%w: position %d: %w (%d)", ErrKeying, at, ErrCardRange, card)
		}
		if d.ats[card] != unset {
			d.Clear()
			return fmt.Errorf("%w: position %d: %w (%d)", ErrKeying, at, ErrDuplicateCard, card)
		}
		d.cards[at] = card
		d.ats[card] = uint8(at)
	}
	return nil
}

// FromCards keys a deck from an explicit position -> card listing.
func FromCards(cards []Card) (Deck, error) {
	var d Deck
	if len(cards) != Cards {
		return d, fmt.Errorf("%w: len(cards)=%d want %d", ErrKeying, len(cards), Cards)
	}
	if err := d.InitBy(func(at int) Card { return cards[at] }); err != nil {
		return Deck{}, err
	}
	return d, nil
}

// At returns the card at position at.
func (d *Deck) At(at int) Card {
	return d.cards[at]
}

// Find returns the position of card.
func (d *Deck) Find(card Card) int {
	return int(d.ats[card])
}

// Cards returns a copy of the position -> card listing.
func (d *Deck) Cards() [Cards]Card {
	return d.cards
}

// Swap exchanges the cards at positions i and j.
func (d *Deck) Swap(i, j int) {
	a := d.cards[i]
	b := d.cards[j]
	d.cards[i] = b
	d.cards[j] = a
	d.ats[a] = uint8(j)
	d.ats[b] = uint8(i)
}

// Check verifies the deck invariant.
func (d *Deck) Check() error {
	for i := 0; i < Cards; i++ {
		if d.cards[i] >= Cards {
			return fmt.Errorf("position %d: %w (%d)", i, ErrCardRange, d.cards[i])
		}
		if d.ats[i] >= Cards {
			return fmt.Errorf("card %d: position %d out of range", i, d.ats[i])
		}
	}
	for i := 0; i < Cards; i++ {
		if d.cards[d.ats[i]] != Card(i) {
			return fmt.Errorf("card %d: cards[ats[%d]]=%d", i, i, d.cards[d.ats[i]])
		}
		if int(d.ats[d.cards[i]]) != i {
			return fmt.Errorf("position %d: ats[cards[%d]]=%d", i, i, d.ats[d.cards[i]])
		}
	}
	return nil
}

// Clear zeroes the deck. A cleared deck is not valid until re-keyed.
func (d *Deck) Clear() {
	for i := 0; i < Cards; i++ {
		d.cards[i] = 0
		d.ats[i] = 0
	}
}

// Equal reports whether both decks hold the same arrangement.
func Equal(a, b *Deck) bool {
	return a.cards == b.cards
}

func (d *Deck) String() string {
	var sb strings.Builder
	for i, c := range d.cards {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02d", c)
	}
	return sb.String()
}

// rebuild recomputes ats from cards.
func (d *Deck) rebuild() {
	for at := 0; at < Cards; at++ {
		d.ats[d.cards[at]] = uint8(at)
	}
}

func mustNotAlias(in, out *Deck) {
	if in == out {
		panic("deck: input and output decks must be distinct")
	}
}
