package prof

import (
	"testing"
	"time"
)

func TestTrackSnapshot(t *testing.T) {
	SnapshotAndReset()
	Track(time.Now().Add(-time.Millisecond), "randomize")
	Track(time.Now(), "report")
	got := SnapshotAndReset()
	if len(got) != 2 {
		t.Fatalf("entries=%d want 2", len(got))
	}
	if got[0].Label != "randomize" || got[0].Dur < time.Millisecond {
		t.Fatalf("unexpected first entry %+v", got[0])
	}
	if again := SnapshotAndReset(); len(again) != 0 {
		t.Fatalf("reset left %d entries", len(again))
	}
}

func TestSummarize(t *testing.T) {
	stats := Summarize([]Entry{
		{"a", 1 * time.Millisecond},
		{"b", 10 * time.Millisecond},
		{"a", 3 * time.Millisecond},
	})
	if len(stats) != 2 {
		t.Fatalf("stats=%d want 2", len(stats))
	}
	if stats[0].Label != "b" {
		t.Fatalf("first label=%s want b", stats[0].Label)
	}
	a := stats[1]
	if a.Count != 2 || a.Total != 4*time.Millisecond || a.Min != time.Millisecond || a.Max != 3*time.Millisecond {
		t.Fatalf("unexpected stat %+v", a)
	}
	if a.Mean() != 2*time.Millisecond {
		t.Fatalf("mean=%v want 2ms", a.Mean())
	}
	if (Stat{}).Mean() != 0 {
		t.Fatalf("empty mean nonzero")
	}
}
