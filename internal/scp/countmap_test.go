package scp

import (
	"bytes"
	"strings"
	"testing"
)

func TestMerge(t *testing.T) {
	a := CallCounts{"N7DR": 2, "W1AW": 1}
	b := CallCounts{"W1AW": 3, "K5ZD": 1}

	a.Merge(b)

	if a["N7DR"] != 2 || a["W1AW"] != 4 || a["K5ZD"] != 1 {
		t.Errorf("merged = %v", a)
	}
}

// Counts {X:100, Y:50, Z:50, W:1} at 80%: the mass target is 161; the count
// class 50 is taken whole, so all of X, Y, Z survive and W goes.
func TestTopPercentNeverSplitsTies(t *testing.T) {
	cc := CallCounts{"X1X": 100, "Y2Y": 50, "Z3Z": 50, "W4W": 1}

	got := cc.TopPercent(80)

	if len(got) != 3 || got["X1X"] != 100 || got["Y2Y"] != 50 || got["Z3Z"] != 50 {
		t.Errorf("TopPercent(80) = %v, want X, Y, Z", got)
	}
	if _, ok := got["W4W"]; ok {
		t.Error("W must be dropped")
	}
}

func TestTopPercentFull(t *testing.T) {
	cc := CallCounts{"X1X": 5, "Y2Y": 1}

	got := cc.TopPercent(100)

	if len(got) != 2 {
		t.Errorf("TopPercent(100) dropped calls: %v", got)
	}
}

func TestTopPercentTiePropertyHolds(t *testing.T) {
	cc := CallCounts{"A1A": 7, "B2B": 7, "C3C": 7, "D4D": 3, "E5E": 1}

	got := cc.TopPercent(50)

	// if any call with count k is emitted, every call with count >= k is
	for call, n := range cc {
		if _, ok := got[call]; !ok {
			continue
		}
		for other, m := range cc {
			if m >= n {
				if _, ok := got[other]; !ok {
					t.Errorf("tie split: %s (count %d) emitted but %s (count %d) not", call, n, other, m)
				}
			}
		}
	}
}

func TestSortedUsesCallOrder(t *testing.T) {
	cc := CallCounts{"N7DR": 1, "W1AW": 2, "K7ABC": 3}

	got := cc.Sorted()
	want := []string{"W1AW", "K7ABC", "N7DR"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Sorted = %v, want %v", got, want)
		}
	}
}

func TestWriteSCPAndXSCP(t *testing.T) {
	cc := CallCounts{"N7DR": 2, "W1AW": 5}

	var scp, xscp bytes.Buffer
	if err := WriteSCP(&scp, cc); err != nil {
		t.Fatal(err)
	}
	if err := WriteXSCP(&xscp, cc); err != nil {
		t.Fatal(err)
	}

	if got := scp.String(); got != "W1AW\nN7DR\n" {
		t.Errorf("SCP = %q", got)
	}
	if got := xscp.String(); got != "W1AW 5\nN7DR 2\n" {
		t.Errorf("XSCP = %q", got)
	}
}

func TestWriteCSV(t *testing.T) {
	cc := CallCounts{"N7DR": 2}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, cc); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || lines[0] != "call,count" || lines[1] != "N7DR,2" {
		t.Errorf("CSV = %q", buf.String())
	}
}
