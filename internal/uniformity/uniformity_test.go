package uniformity

import (
	"math"
	"testing"

	"spider-cipher/deck"
)

func TestChiSquare(t *testing.T) {
	if got := ChiSquare([]int{10, 10, 10, 10}); got != 0 {
		t.Fatalf("flat counts: got=%v want 0", got)
	}
	// expected 10 per bin: 36/10 + 3*4/10
	got := ChiSquare([]int{16, 8, 8, 8})
	if math.Abs(got-4.8) > 1e-9 {
		t.Fatalf("got=%v want 4.8", got)
	}
	if got := ChiSquare(nil); got != 0 {
		t.Fatalf("empty counts: got=%v", got)
	}
}

func TestCritical(t *testing.T) {
	// chi-square 39 dof, upper 0.1% point is about 72.05.
	got := Critical(39, 3.0902)
	if math.Abs(got-72.05) > 0.5 {
		t.Fatalf("critical(39, z=3.09)=%v want ~72.05", got)
	}
}

func TestTableAdd(t *testing.T) {
	var tab Table
	id := deck.New()
	for i := 0; i < 5; i++ {
		tab.Add(&id)
	}
	if tab.Runs != 5 {
		t.Fatalf("runs=%d want 5", tab.Runs)
	}
	for at := 0; at < deck.Cards; at++ {
		pos := tab.Position(at)
		if pos[at] != 5 {
			t.Fatalf("position %d card %d count=%d want 5", at, at, pos[at])
		}
	}
	chis := tab.ChiSquares()
	// all mass in one of 40 bins: chi = 39 * runs
	if math.Abs(chis[0]-39*5) > 1e-9 {
		t.Fatalf("chi[0]=%v want %v", chis[0], 39*5)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{1, 2, 3, 4, 5})
	if s.Count != 5 || s.Mean != 3 || s.Median != 3 || s.Min != 1 || s.Max != 5 {
		t.Fatalf("unexpected summary %+v", s)
	}
	if math.Abs(s.Std-math.Sqrt(2.5)) > 1e-12 {
		t.Fatalf("std=%v want %v", s.Std, math.Sqrt(2.5))
	}
	if s.Q1 != 2 || s.Q3 != 4 {
		t.Fatalf("quartiles %v %v", s.Q1, s.Q3)
	}
	if (Summarize(nil) != Summary{}) {
		t.Fatalf("empty summary should be zero")
	}
}
