// Package spider implements the per-card step of the spider cipher.
//
// For every card of a packet the sender scrambles the clear card with the
// noise card of the current deck and then advances the deck with the clear
// card; the receiver unscrambles with the same noise card and advances with
// the clear card it recovered, so both decks stay in step:
//
//	for each clear card:
//	    scrambled = (clear + noise(deck)) mod 40
//	    cutCard   = (shuffled[0] + clear) mod 40
//	    deck      = cut(backFrontShuffle(deck), cutCard)
package spider

import (
	"spider-cipher/deck"
)

const (
	// CutZeroPosition is the position whose card offsets the cut card.
	CutZeroPosition = 0
	// TagZeroPosition is the position whose card selects the tag card.
	TagZeroPosition = 2
	// TagOffset is added to the card at TagZeroPosition (-1 mod 40).
	TagOffset = deck.Cards - 1
)

// TagCard is the card one less (mod 40) than the card at TagZeroPosition.
func TagCard(d *deck.Deck) deck.Card {
	return (d.At(TagZeroPosition) + TagOffset) % deck.Cards
}

// NoiseCard is the card following the tag card, wrapping at the bottom.
func NoiseCard(d *deck.Deck) deck.Card {
	return d.At((d.Find(TagCard(d)) + 1) % deck.Cards)
}

// CutCard ties the next cut to the top card and the clear card.
func CutCard(d *deck.Deck, clear deck.Card) deck.Card {
	return (d.At(CutZeroPosition) + clear) % deck.Cards
}

// Scramble returns (clear + noise) mod 40.
func Scramble(d *deck.Deck, clear deck.Card) deck.Card {
	return (clear + NoiseCard(d)) % deck.Cards
}

// Unscramble returns (scrambled - noise) mod 40.
func Unscramble(d *deck.Deck, scrambled deck.Card) deck.Card {
	return (scrambled + (deck.Cards - NoiseCard(d))) % deck.Cards
}

// Advance moves d to the deck used for the next card: d is back-front
// shuffled into spare, which is then cut at CutCard(spare, clear) back into
// d. It must be called once per card with the clear card, after that card
// was scrambled or unscrambled.
func Advance(d *deck.Deck, clear deck.Card, spare *deck.Deck) {
	deck.BackFrontShuffle(d, spare)
	deck.Cut(spare, CutCard(spare, clear), d)
}
