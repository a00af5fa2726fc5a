// Package decktest provides deck fixtures shared by the cipher tests.
package decktest

import (
	"testing"

	"spider-cipher/deck"
)

// Sample returns the permutation at -> (a*at+b) mod 41 with the value 40
// skipped. Because 41 is prime every a in [1,40], b in [0,40] yields a
// permutation of 0..39, giving 40*41 fixtures.
func Sample(a, b int) []deck.Card {
	p := make([]deck.Card, deck.Cards)
	skip := 0
	for at := 0; at <= deck.Cards; at++ {
		x := (a*at + b) % 41
		if x == deck.Cards {
			skip = 1
			continue
		}
		p[at-skip] = deck.Card(x)
	}
	return p
}

// SampleDuplicate returns Sample(a, b) with one card repeated.
func SampleDuplicate(a, b int) []deck.Card {
	p := Sample(a, b)
	p[p[1]] = p[p[2]]
	return p
}

// SampleOutOfRange returns Sample(a, b) with one card pushed past the deck.
func SampleOutOfRange(a, b int) []deck.Card {
	p := Sample(a, b)
	p[p[1]] = p[2] + deck.Cards
	return p
}

// Deck keys a deck from Sample(a, b).
func Deck(t testing.TB, a, b int) deck.Deck {
	t.Helper()
	d, err := deck.FromCards(Sample(a, b))
	if err != nil {
		t.Fatalf("sample deck a=%d b=%d: %v", a, b, err)
	}
	return d
}

// ForEach calls f with every sampled deck.
func ForEach(t testing.TB, f func(a, b int, d *deck.Deck)) {
	t.Helper()
	for a := 1; a <= deck.Cards; a++ {
		for b := 0; b <= deck.Cards; b++ {
			d := Deck(t, a, b)
			f(a, b, &d)
		}
	}
}

// MustOK fails the test when d breaks the deck invariant.
func MustOK(t testing.TB, d *deck.Deck) {
	t.Helper()
	if err := d.Check(); err != nil {
		t.Fatalf("invalid deck %v: %v", d, err)
	}
}
