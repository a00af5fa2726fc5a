// Package keying derives uniformly random decks from a bounded random
// source without modulo bias.
package keying

import (
	"errors"
	"fmt"

	"spider-cipher/deck"
	"spider-cipher/spider"
)

// qBound is the minimum combined draw range: a combined draw must be able
// to address every count n <= Cards, and Cards*Cards keeps the rejected
// tail below 1/Cards of the range.
const qBound = deck.Cards * deck.Cards

var (
	// ErrSourceRange reports a draw outside [0, randMax].
	ErrSourceRange = errors.New("keying: source value out of range")
	// ErrRandMax reports a source range that cannot be sampled.
	ErrRandMax = errors.New("keying: randMax must be >= 1")
)

// Source returns integers that must lie in [0, randMax] for the randMax it
// is paired with. Sources may block.
type Source func() (int64, error)

// sampler combines nr digits of base rangeSize into one draw in [0, qMax).
type sampler struct {
	src       Source
	randMax   int64
	rangeSize uint64
	qMax      uint64
	nr        int
}

func newSampler(src Source, randMax int64) (*sampler, error) {
	if src == nil {
		return nil, fmt.Errorf("keying: nil source")
	}
	if randMax < 1 {
		return nil, fmt.Errorf("%w (got %d)", ErrRandMax, randMax)
	}
	s := &sampler{src: src, randMax: randMax, rangeSize: uint64(randMax) + 1, qMax: 1}
	// qMax < qBound before each step, so the product stays far below 2^64.
	for s.qMax < qBound {
		s.qMax *= s.rangeSize
		s.nr++
	}
	return s, nil
}

// threshold is the largest multiple of n not above qMax; draws at or past
// it are rejected so that q mod n is exactly uniform.
func (s *sampler) threshold(n uint64) uint64 {
	return s.qMax - s.qMax%n
}

// draw returns an unbiased value in [0, n).
func (s *sampler) draw(n uint64) (uint64, error) {
	limit := s.threshold(n)
	for {
		var q uint64
		for k := 0; k < s.nr; k++ {
			r, err := s.src()
			if err != nil {
				return 0, fmt.Errorf("keying: source: %w", err)
			}
			if r < 0 || r > s.randMax {
				return 0, fmt.Errorf("%w: %d not in [0,%d]", ErrSourceRange, r, s.randMax)
			}
			q = q*s.rangeSize + uint64(r)
		}
		if q < limit {
			return q % n, nil
		}
	}
}

func (s *sampler) clear() {
	s.src = nil
	s.randMax, s.rangeSize, s.qMax, s.nr = 0, 0, 0, 0
}

// Randomize replaces d with a uniformly random deck drawn from src, whose
// values must lie in [0, randMax].
//
// A working pool is first shuffled with a Fisher-Yates pass driven by
// rejection-sampled draws. Forty mixing rounds follow: each draws a card,
// advances the pool with it, and advances a second mixing deck with the
// draw offset by the mixing deck's own noise card. The result is the pool
// read through the mixing deck. Each pool advance is a bijection for a
// given draw and the mixing deck depends only on the draws, so the result
// stays uniform.
//
// On error d is not written and the caller must not treat it as keyed.
// Scratch decks and counters are zeroed on every return.
func Randomize(d *deck.Deck, src Source, randMax int64) error {
	s, err := newSampler(src, randMax)
	if err != nil {
		return err
	}

	var pool, mix, spare deck.Deck
	var q uint64
	var card deck.Card
	defer func() {
		pool.Clear()
		mix.Clear()
		spare.Clear()
		q, card = 0, 0
		s.clear()
	}()

	pool.Init()
	for i := 0; i < deck.Cards-1; i++ {
		n := uint64(deck.Cards - i)
		if q, err = s.draw(n); err != nil {
			return err
		}
		pool.Swap(i, i+int(q))
	}

	mix.Init()
	for i := 0; i < deck.Cards; i++ {
		if q, err = s.draw(deck.Cards); err != nil {
			return err
		}
		card = deck.Card(q)
		spider.Advance(&pool, card, &spare)
		card = (card + spider.NoiseCard(&mix)) % deck.Cards
		spider.Advance(&mix, card, &spare)
	}

	deck.Permute(&pool, &mix, d)
	return nil
}
