package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/N7DR/drscp/internal/config"
	"github.com/N7DR/drscp/internal/contest"
	"github.com/N7DR/drscp/internal/scp"
)

// The synthetic corpus exercises the whole chain: A5A runs on 14050 and is
// worked correctly by K2CD while K9GH logs the bust A5B; W9NOT is heard by
// two entrants and survives the cutoff; K1AB and K3EF are heard once each
// and do not.
func writeCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	logs := map[string]string{
		"a5a.log": `QSO: 14050 CW 2023-01-28 2159 A5A 599 001 K1AB 599 001
QSO: 14050 CW 2023-01-28 2200 A5A 599 002 K2CD 599 002
QSO: 14050 CW 2023-01-28 2201 A5A 599 003 K3EF 599 003
`,
		"k2cd.log": `QSO: 14050 CW 2023-01-28 2200 K2CD 599 001 A5A 599 002
QSO: 14100 CW 2023-01-29 0200 K2CD 599 002 W9NOT 599 004
`,
		"k9gh.log": `QSO: 14050 CW 2023-01-28 2200 K9GH 599 001 A5B 599 001
QSO: 14100 CW 2023-01-29 0200 K9GH 599 002 W9NOT 599 005
`,
	}
	for name, content := range logs {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func testContest(dir string) contest.Contest {
	return contest.Contest{
		Dir:   dir,
		Start: time.Date(2023, 1, 28, 12, 0, 0, 0, time.UTC),
		Hours: 48,
	}
}

func TestRun(t *testing.T) {
	dir := writeCorpus(t)

	counts, stats, err := Run(context.Background(), testContest(dir), config.Default(), nil, NullSink{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := scp.CallCounts{"A5A": 1, "K2CD": 1, "W9NOT": 2}
	if !reflect.DeepEqual(counts, want) {
		t.Errorf("counts = %v, want %v", counts, want)
	}

	// A5B is a bust of a running station; K1AB and K3EF fall to the cutoff;
	// K9GH submitted a log but appears in no other one
	for _, call := range []string{"A5B", "K1AB", "K3EF", "K9GH"} {
		if _, ok := counts[call]; ok {
			t.Errorf("%s must not be in the output", call)
		}
	}

	if stats == nil || stats.QSOs != 7 {
		t.Errorf("stats = %+v, want 7 QSOs", stats)
	}
}

func TestRunIdempotent(t *testing.T) {
	dir := writeCorpus(t)

	first, _, err := Run(context.Background(), testContest(dir), config.Default(), nil, NullSink{})
	if err != nil {
		t.Fatal(err)
	}
	second, _, err := Run(context.Background(), testContest(dir), config.Default(), nil, NullSink{})
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("two runs over the same corpus differ: %v vs %v", first, second)
	}
}

func TestRunEmitsEvents(t *testing.T) {
	dir := writeCorpus(t)

	ch := make(chan Event, 64)
	_, _, err := Run(context.Background(), testContest(dir), config.Default(), nil, ChannelSink{Ch: ch})
	if err != nil {
		t.Fatal(err)
	}
	close(ch)

	seen := make(map[Stage]bool)
	for evt := range ch {
		if evt.Dir != dir {
			t.Errorf("event dir = %q, want %q", evt.Dir, dir)
		}
		if evt.Status == StatusDone {
			seen[evt.Stage] = true
		}
	}
	for _, stage := range []Stage{StageIngest, StageClassify, StagePrune, StageMerge} {
		if !seen[stage] {
			t.Errorf("no done event for stage %s", stage)
		}
	}
}

func TestSplitBands(t *testing.T) {
	dir := writeCorpus(t)

	counts, stats, err := Run(context.Background(), testContest(dir), config.Default(), nil, NullSink{})
	if err != nil {
		t.Fatal(err)
	}
	_ = counts

	// every QSO in the corpus is on 20m
	if len(stats.PerBand) != 1 {
		t.Fatalf("bands = %v, want only 20m", stats.PerBand)
	}
	if stats.PerBand[20].AllQSOs != 7 {
		t.Errorf("20m AllQSOs = %d, want 7", stats.PerBand[20].AllQSOs)
	}
}
