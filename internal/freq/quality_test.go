package freq

import (
	"testing"

	"github.com/N7DR/drscp/internal/qso"
)

func mk(tcall, rcall string, mins, qrg int) qso.QSO {
	return qso.QSO{
		ID:      qso.NextID(),
		TCall:   tcall,
		RCall:   rcall,
		Band:    qso.MustBandFromQRG(qrg),
		QRG:     qrg,
		RelMins: mins,
	}
}

func TestNoInfo(t *testing.T) {
	byTCall := map[string][]qso.QSO{
		"A1AA": {mk("A1AA", "B2BB", 0, 14000), mk("A1AA", "C3CC", 5, 21000)},
		"B2BB": {mk("B2BB", "A1AA", 0, 14000), mk("B2BB", "C3CC", 9, 14027)},
		"C3CC": {mk("C3CC", "A1AA", 5, 21002)},
	}

	noInfo := NoInfo(byTCall)

	if !noInfo["A1AA"] {
		t.Error("A1AA logs only band-edge defaults and should have no frequency info")
	}
	if noInfo["B2BB"] || noInfo["C3CC"] {
		t.Error("senders with at least one real frequency should not be in the no-info set")
	}
}

func TestPoorInfo(t *testing.T) {
	// A and B work each other ten times; B's logged frequencies agree with
	// A's only twice, so B (and, reciprocally, A) fall below 0.9.
	byTCall := map[string][]qso.QSO{}
	for i := 0; i < 10; i++ {
		fa := 14020
		fb := 14020
		if i >= 2 {
			fb = 14100 + i // way off
		}
		byTCall["A1AA"] = append(byTCall["A1AA"], mk("A1AA", "B2BB", i*10, fa))
		byTCall["B2BB"] = append(byTCall["B2BB"], mk("B2BB", "A1AA", i*10, fb))
	}

	entrants := map[string]bool{"A1AA": true, "B2BB": true}

	poor := PoorInfo(byTCall, entrants, map[string]bool{})

	if !poor["B2BB"] || !poor["A1AA"] {
		t.Errorf("poor = %v, want both A1AA and B2BB flagged", poor)
	}
}

func TestPoorInfoAgreementPasses(t *testing.T) {
	byTCall := map[string][]qso.QSO{}
	for i := 0; i < 10; i++ {
		byTCall["A1AA"] = append(byTCall["A1AA"], mk("A1AA", "B2BB", i*10, 14020))
		byTCall["B2BB"] = append(byTCall["B2BB"], mk("B2BB", "A1AA", i*10, 14021))
	}

	entrants := map[string]bool{"A1AA": true, "B2BB": true}

	if poor := PoorInfo(byTCall, entrants, map[string]bool{}); len(poor) != 0 {
		t.Errorf("poor = %v, want empty (frequencies agree within 2 kHz)", poor)
	}
}

func TestPoorInfoIgnoresNoInfoSenders(t *testing.T) {
	byTCall := map[string][]qso.QSO{
		"A1AA": {mk("A1AA", "B2BB", 0, 14000)},
		"B2BB": {mk("B2BB", "A1AA", 0, 14250)},
	}

	entrants := map[string]bool{"A1AA": true, "B2BB": true}
	noInfo := map[string]bool{"A1AA": true}

	if poor := PoorInfo(byTCall, entrants, noInfo); len(poor) != 0 {
		t.Errorf("poor = %v, want empty (A1AA excluded on both sides)", poor)
	}
}
