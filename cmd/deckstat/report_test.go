package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"spider-cipher/deck"
	"spider-cipher/internal/uniformity"
	"spider-cipher/keying"
	"spider-cipher/prof"
)

func sampleTable(t *testing.T, runs int) *uniformity.Table {
	t.Helper()
	src, randMax, err := keying.NewKeyedSource([]byte("deckstat-test"), 2)
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	var tab uniformity.Table
	var d deck.Deck
	for i := 0; i < runs; i++ {
		if err := keying.Randomize(&d, src, randMax); err != nil {
			t.Fatalf("randomize: %v", err)
		}
		tab.Add(&d)
	}
	return &tab
}

func TestNewReport(t *testing.T) {
	tab := sampleTable(t, 200)
	r := newReport("keyed", 2, tab, prof.Summarize([]prof.Entry{{Label: "randomize", Dur: time.Millisecond}}))
	if r.Runs != 200 || len(r.ChiSquares) != deck.Cards {
		t.Fatalf("runs=%d chis=%d", r.Runs, len(r.ChiSquares))
	}
	if r.ChiSummary.Count != deck.Cards {
		t.Fatalf("summary count=%d want %d", r.ChiSummary.Count, deck.Cards)
	}
	for _, at := range r.Exceeding {
		if r.ChiSquares[at] <= r.Critical {
			t.Fatalf("position %d listed but chi=%.2f <= %.2f", at, r.ChiSquares[at], r.Critical)
		}
	}

	path := filepath.Join(t.TempDir(), "stats.json")
	if err := saveJSON(path, r); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var back report
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back.Table == nil || back.Table.Runs != 200 || back.Source != "keyed" {
		t.Fatalf("decoded report %+v", back)
	}
}

func TestRenderPage(t *testing.T) {
	r := newReport("keyed", 2, sampleTable(t, 50), nil)
	var buf bytes.Buffer
	if err := renderPage(&buf, r); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := buf.String()
	for _, want := range []string{"chi-square per position", "cards at position 0", "cards at position 39"} {
		if !strings.Contains(html, want) {
			t.Fatalf("page missing %q", want)
		}
	}
}
