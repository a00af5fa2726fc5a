package bench

import (
	"testing"

	"spider-cipher/deck"
	"spider-cipher/deck/decktest"
	"spider-cipher/keying"
	"spider-cipher/spider"
)

func BenchmarkBackFrontShuffle(b *testing.B) {
	d := decktest.Deck(b, 7, 3)
	var out deck.Deck
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		deck.BackFrontShuffle(&d, &out)
	}
}

func BenchmarkAdvance(b *testing.B) {
	d := decktest.Deck(b, 7, 3)
	var spare deck.Deck
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		spider.Advance(&d, deck.Card(i%deck.Cards), &spare)
	}
}

func BenchmarkSessionScrambleCards(b *testing.B) {
	key := decktest.Deck(b, 11, 5)
	src := make([]deck.Card, 1024)
	for i := range src {
		src[i] = deck.Card(i % deck.Cards)
	}
	dst := make([]deck.Card, len(src))
	s := spider.NewSession(&key)
	b.SetBytes(int64(len(src)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Reset(&key)
		if _, err := s.ScrambleCards(dst, src); err != nil {
			b.Fatal(err)
		}
	}
}

func benchmarkRandomize(b *testing.B, width int) {
	src, randMax, err := keying.NewKeyedSource([]byte("bench"), width)
	if err != nil {
		b.Fatal(err)
	}
	var d deck.Deck
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := keying.Randomize(&d, src, randMax); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRandomizeBytes(b *testing.B) { benchmarkRandomize(b, 1) }
func BenchmarkRandomizeWords(b *testing.B) { benchmarkRandomize(b, 4) }
