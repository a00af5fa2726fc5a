// Package uniformity measures how evenly sampled decks spread cards over
// positions.
package uniformity

import (
	"math"
	"sort"

	"spider-cipher/deck"
)

// Table counts, for every position, how often each card landed there.
type Table struct {
	Runs   int                            `json:"runs"`
	Counts [deck.Cards][deck.Cards]uint32 `json:"counts"` // [position][card]
}

// Add records one deck.
func (t *Table) Add(d *deck.Deck) {
	for at := 0; at < deck.Cards; at++ {
		t.Counts[at][d.At(at)]++
	}
	t.Runs++
}

// Position returns the per-card counts observed at position at.
func (t *Table) Position(at int) []int {
	out := make([]int, deck.Cards)
	for c, n := range t.Counts[at] {
		out[c] = int(n)
	}
	return out
}

// ChiSquares returns Pearson's statistic for every position against a
// uniform card distribution (deck.Cards-1 degrees of freedom each).
func (t *Table) ChiSquares() []float64 {
	out := make([]float64, deck.Cards)
	for at := range out {
		out[at] = ChiSquare(t.Position(at))
	}
	return out
}

// ChiSquare returns Pearson's statistic of counts against equal expected
// frequencies. It returns 0 for empty input.
func ChiSquare(counts []int) float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 || len(counts) == 0 {
		return 0
	}
	expected := float64(total) / float64(len(counts))
	var chi float64
	for _, c := range counts {
		d := float64(c) - expected
		chi += d * d / expected
	}
	return chi
}

// Critical approximates the chi-square quantile for dof degrees of freedom
// at standard normal score z (Wilson-Hilferty).
func Critical(dof int, z float64) float64 {
	k := float64(dof)
	a := 2.0 / (9.0 * k)
	return k * math.Pow(1-a+z*math.Sqrt(a), 3)
}

// Summary holds descriptive statistics of a sample.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// Summarize computes Summary for x.
func Summarize(x []float64) Summary {
	n := len(x)
	if n == 0 {
		return Summary{}
	}
	cp := append([]float64(nil), x...)
	sort.Float64s(cp)
	var m float64
	for _, v := range x {
		m += v
	}
	m /= float64(n)
	var m2 float64
	for _, v := range x {
		d := v - m
		m2 += d * d
	}
	var std float64
	if n > 1 {
		std = math.Sqrt(m2 / float64(n-1))
	}
	return Summary{
		Count:  n,
		Mean:   m,
		Std:    std,
		Min:    cp[0],
		Q1:     quantileSorted(cp, 0.25),
		Median: quantileSorted(cp, 0.5),
		Q3:     quantileSorted(cp, 0.75),
		Max:    cp[n-1],
	}
}

func quantileSorted(sorted []float64, p float64) float64 {
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := p * float64(len(sorted)-1)
	l := int(math.Floor(pos))
	r := int(math.Ceil(pos))
	if l == r {
		return sorted[l]
	}
	w := pos - float64(l)
	return sorted[l]*(1-w) + sorted[r]*w
}
