package prune

import (
	"testing"

	"github.com/N7DR/drscp/internal/config"
	"github.com/N7DR/drscp/internal/qso"
)

func q(tcall, rcall string, mins, qrg int) qso.QSO {
	return qso.QSO{
		ID:      qso.NextID(),
		TCall:   tcall,
		RCall:   rcall,
		Band:    qso.MustBandFromQRG(qrg),
		QRG:     qrg,
		RelMins: mins,
	}
}

func byTCall(qsos ...qso.QSO) map[string][]qso.QSO {
	rv := make(map[string][]qso.QSO)
	for _, one := range qsos {
		rv[one.TCall] = append(rv[one.TCall], one)
	}
	for tcall := range rv {
		qso.SortChrono(rv[tcall])
	}
	return rv
}

func input(all map[string][]qso.QSO) Input {
	pruned := make(map[string][]qso.QSO, len(all))
	for tcall, qsos := range all {
		pruned[tcall] = append([]qso.QSO(nil), qsos...)
	}
	return Input{
		Band:       qso.Band20,
		Pruned:     pruned,
		All:        all,
		NoFreq:     map[string]bool{},
		PoorFreq:   map[string]bool{},
		MaxRelMins: 24*60 - 1,
		Cfg:        config.Default(),
	}
}

// Cross-log bust: K5ZD logs W1AW correctly both ways; W9XYZ busts W1AW as
// W1AX at the same time and frequency while W1AW logged W9XYZ. The busted
// QSO goes; the good ones stay (the cutoff is disabled so only the bust
// passes decide).
func TestBandRemovesCrossLogBust(t *testing.T) {
	all := byTCall(
		q("K5ZD", "W1AW", 100, 14050),
		q("K5ZD", "W1AW", 300, 14060),
		q("W1AW", "K5ZD", 100, 14050),
		q("W1AW", "K5ZD", 300, 14060),
		q("W1AW", "W9XYZ", 200, 14020),
		q("W9XYZ", "W1AX", 200, 14020), // bust of W1AW
		q("W9XYZ", "K5ZD", 301, 14060),
		q("K5ZD", "W9XYZ", 300, 14060),
	)

	in := input(all)
	in.Cfg.CutoffLimit = 0 // keep single appearances; this test targets pass A

	got := Band(in)

	if got["W1AX"] {
		t.Error("W1AX is a corroborated bust and should have been pruned")
	}
	if !got["W1AW"] {
		t.Error("W1AW should survive")
	}
}

// Scenario: A5A runs on 14050; log B works A5A there; log C logs A5B (a
// bust) at the same time and frequency. The A5B QSO is removed by the
// running-station pass.
func TestBandRemovesBustOfRunningStation(t *testing.T) {
	all := byTCall(
		// A5A is running: its own log shows QSOs on 14050 at minute 600
		q("A5A", "K1AB", 599, 14050),
		q("A5A", "K2CD", 600, 14050),
		q("A5A", "K3EF", 601, 14050),
		// log B works A5A, corroborating
		q("K2CD", "A5A", 600, 14050),
		q("K2CD", "A5A", 840, 14100),
		// log C busts A5A as A5B
		q("K9GH", "A5B", 600, 14050),
		q("K9GH", "K2CD", 700, 14200),
		q("K2CD", "K9GH", 700, 14200),
	)

	in := input(all)
	in.Cfg.CutoffLimit = 0

	got := Band(in)

	if got["A5B"] {
		t.Error("A5B is a bust of running station A5A and should have been pruned")
	}
	if !got["A5A"] {
		t.Error("A5A should survive")
	}
}

// The cutoff compares with <=, not <: a call with exactly CutoffLimit
// surviving occurrences is dropped, one more and it survives.
func TestBandCutoffBoundary(t *testing.T) {
	mk := func(n int, rcall string) []qso.QSO {
		var qsos []qso.QSO
		for i := 0; i < n; i++ {
			qsos = append(qsos, q("AA1A", rcall, 10+i*100, 14050+i))
		}
		return qsos
	}

	all := map[string][]qso.QSO{"AA1A": append(mk(1, "DD4D"), mk(2, "EE5E")...)}
	qso.SortChrono(all["AA1A"])

	in := input(all)
	in.Cfg.CutoffLimit = 1

	got := Band(in)

	if got["DD4D"] {
		t.Error("a single appearance is <= cutoff 1 and must be dropped")
	}
	if !got["EE5E"] {
		t.Error("two appearances exceed cutoff 1 and must survive")
	}
}

func TestBandEmptyInput(t *testing.T) {
	if got := Band(input(map[string][]qso.QSO{})); len(got) != 0 {
		t.Errorf("Band on empty input = %v, want empty", got)
	}
}

// A station with no frequency info is lenient-matched in pass A.
func TestFreqMatchLenient(t *testing.T) {
	st := &state{Input: Input{
		NoFreq:   map[string]bool{"NOF1X": true},
		PoorFreq: map[string]bool{},
	}}

	a := qso.QSO{TCall: "NOF1X", QRG: 14000}
	b := qso.QSO{TCall: "AA1A", QRG: 14300}

	if !st.freqMatch(a, b, true) {
		t.Error("lenient match should succeed when one side has no frequency info")
	}
	if st.freqMatch(a, b, false) {
		t.Error("strict match must fail when one side has no frequency info")
	}

	c := qso.QSO{TCall: "BB2B", QRG: 14301}
	if !st.freqMatch(b, c, false) {
		t.Error("strict match should succeed within 2 kHz for trusted senders")
	}
}
