package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"spider-cipher/deck"
	"spider-cipher/internal/config"
	"spider-cipher/internal/uniformity"
	"spider-cipher/keying"
	"spider-cipher/prof"
	"spider-cipher/spider"
)

const spiderTagPosition = spider.TagZeroPosition

func main() {
	cfgPath := flag.String("config", "", "JSON settings file")
	runs := flag.Int("runs", 0, "number of decks to randomize (default from config)")
	source := flag.String("source", "", "keying source kind (default from config)")
	secret := flag.String("secret", "deckstat", "secret for keyed sources")
	width := flag.Int("width", 0, "bytes per source draw (default from config)")
	outDir := flag.String("out", "", "output directory for reports (default from config)")
	flag.Parse()

	cfg, err := config.LoadFromFile(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *runs != 0 {
		cfg.Runs = *runs
	}
	if *source != "" {
		cfg.Source = *source
	}
	if *width != 0 {
		cfg.SourceWidth = *width
	}
	if *outDir != "" {
		cfg.ReportDir = *outDir
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := os.MkdirAll(cfg.ReportDir, 0o755); err != nil {
		log.Fatalf("mkdir out: %v", err)
	}

	src, randMax, err := keying.NewSource(cfg.Source, []byte(*secret), cfg.SourceWidth)
	if err != nil {
		log.Fatalf("source: %v", err)
	}

	prof.SnapshotAndReset()
	var tab uniformity.Table
	var d deck.Deck
	start := time.Now()
	for i := 0; i < cfg.Runs; i++ {
		t0 := time.Now()
		if err := keying.Randomize(&d, src, randMax); err != nil {
			log.Fatalf("run %d: %v", i, err)
		}
		prof.Track(t0, "randomize")
		tab.Add(&d)
		if (i+1)%10000 == 0 {
			log.Printf("[deckstat] %d/%d decks", i+1, cfg.Runs)
		}
	}
	d.Clear()
	prof.Track(start, "total")

	r := newReport(cfg.Source, cfg.SourceWidth, &tab, prof.Summarize(prof.SnapshotAndReset()))
	for _, st := range r.Timings {
		log.Printf("[deckstat] %-10s n=%d mean=%v total=%v", st.Label, st.Count, st.Mean(), st.Total)
	}
	if len(r.Exceeding) > 0 {
		log.Printf("[deckstat] %d positions above chi-square bound %.2f: %v", len(r.Exceeding), r.Critical, r.Exceeding)
	}

	ts := time.Now().Format("20060102_150405")
	jsonPath := filepath.Join(cfg.ReportDir, fmt.Sprintf("deck_stats_%s.json", ts))
	if err := saveJSON(jsonPath, r); err != nil {
		log.Printf("warn: save stats: %v", err)
	}
	htmlPath := filepath.Join(cfg.ReportDir, fmt.Sprintf("deck_histograms_%s.html", ts))
	f, err := os.Create(htmlPath)
	if err != nil {
		log.Fatalf("create html: %v", err)
	}
	defer f.Close()
	if err := renderPage(f, r); err != nil {
		log.Fatalf("render html: %v", err)
	}
	fmt.Println("Histogram page:", htmlPath)
	fmt.Println("Stats JSON:", jsonPath)
}
