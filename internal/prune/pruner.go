// Package prune removes apparent busts from one band's QSOs. Four passes run
// in order on a working copy of the band's QSOs: cross-log bust matching
// between entrants, busts of running entrants, busts of running
// non-entrants, and finally the appearance-count cutoff. What survives is
// the band's contribution to the SCP dictionary.
package prune

import (
	"sort"

	"github.com/apex/log"

	"github.com/N7DR/drscp/internal/callsign"
	"github.com/N7DR/drscp/internal/config"
	"github.com/N7DR/drscp/internal/qso"
)

const (
	// ClockSkew is the maximum clock disagreement between two logs, in
	// minutes.
	ClockSkew = 2
	// FreqSkew is the maximum frequency disagreement between two logs, in
	// kHz.
	FreqSkew = 2
	// RunTimeRange is the half-width of the window used when looking for a
	// run, in minutes.
	RunTimeRange = 5
)

// Input carries one band's share of a pipeline invocation. All fields other
// than Pruned are read-only and may be shared across concurrent pruners.
type Input struct {
	Band       qso.Band
	Pruned     map[string][]qso.QSO // working copy, per sender
	All        map[string][]qso.QSO // never modified
	NoFreq     map[string]bool
	PoorFreq   map[string]bool
	MaxRelMins int
	Cfg        config.Config
}

type state struct {
	Input
	allVec    []qso.QSO
	allMap    []int
	allTCalls map[string]bool
	log       *log.Entry
}

// Band runs the four pruning passes and returns the set of received calls
// validated for this band.
func Band(in Input) map[string]bool {
	prunedVec := flatten(in.Pruned)
	allVec := flatten(in.All)

	if len(prunedVec) == 0 || len(allVec) == 0 {
		return nil
	}

	st := &state{
		Input:     in,
		allVec:    allVec,
		allMap:    timeMap(allVec, in.MaxRelMins),
		allTCalls: make(map[string]bool, len(in.All)),
		log:       log.WithField("band", in.Band.String()),
	}
	for tcall := range in.All {
		st.allTCalls[tcall] = true
	}

	prunedVec = st.passA(prunedVec)
	prunedVec = st.passB(prunedVec)
	prunedVec = st.passC(prunedVec)
	prunedVec = st.passD(prunedVec)

	rv := make(map[string]bool)
	for _, q := range prunedVec {
		rv[q.RCall] = true
	}

	st.log.Debugf("final number of SCP calls = %d", len(rv))

	return rv
}

// flatten merges per-sender QSO slices into a single chronological vector.
func flatten(byTCall map[string][]qso.QSO) []qso.QSO {
	n := 0
	for _, qsos := range byTCall {
		n += len(qsos)
	}

	rv := make([]qso.QSO, 0, n)
	for _, qsos := range byTCall {
		rv = append(rv, qsos...)
	}
	qso.SortChrono(rv)

	return rv
}

// freqMatch reports whether two QSOs are roughly on the same frequency. In
// lenient mode a participant with unusable frequency information counts as a
// match; in strict mode a participant with no frequency information defeats
// the match outright. Senders with only partially-reliable frequencies keep
// their strict-mode say: mistrusting them entirely would mischaracterise
// QSOs near the band edge.
func (s *state) freqMatch(q1, q2 qso.QSO, lenient bool) bool {
	if lenient {
		return s.NoFreq[q1.TCall] || s.NoFreq[q2.TCall] ||
			s.PoorFreq[q1.TCall] || s.PoorFreq[q2.TCall] ||
			abs(q1.QRG-q2.QRG) <= FreqSkew
	}
	return !s.NoFreq[q1.TCall] && !s.NoFreq[q2.TCall] && abs(q1.QRG-q2.QRG) <= FreqSkew
}

// passA marks QSOs whose rcall is a bust corroborated by another entrant's
// log at the same time and frequency: either the other side logged the
// reverse contact correctly while this one busted them, or both sides
// busted each other.
func (s *state) passA(prunedVec []qso.QSO) []qso.QSO {
	prunedMap := timeMap(prunedVec, s.MaxRelMins)
	remove := make(map[int64]bool)

	for m := 0; m <= s.MaxRelMins; m++ {
		lo := max(m-ClockSkew, 0)
		hi := min(m+ClockSkew, s.MaxRelMins)

		for _, rq := range prunedVec[prunedMap[m]:prunedMap[m+1]] {
			for _, tq := range s.allVec[s.allMap[lo]:s.allMap[hi+1]] {
				if !s.freqMatch(tq, rq, true) {
					continue
				}
				if (callsign.IsBust(tq.TCall, rq.RCall) && tq.RCall == rq.TCall) ||
					(callsign.IsBust(rq.TCall, tq.RCall) && callsign.IsBust(tq.TCall, rq.RCall)) {
					remove[rq.ID] = true
					s.trace(rq.RCall, "marked for removal (cross-log bust): %s; matching QSO: %s", rq, tq)
					break
				}
			}
		}
	}

	s.log.Debugf("cross-log bust pass: removing %d QSOs", len(remove))

	return compact(prunedVec, remove)
}

// passB marks QSOs whose rcall is a bust of an entrant that was running at
// that time and frequency.
func (s *state) passB(prunedVec []qso.QSO) []qso.QSO {
	tcalls := make([]string, 0, len(s.allTCalls))
	for tcall := range s.allTCalls {
		tcalls = append(tcalls, tcall)
	}
	sort.Strings(tcalls)

	remove := make(map[int64]bool)

	for _, rq := range prunedVec {
		for _, tcall := range tcalls {
			if !callsign.IsBust(tcall, rq.RCall) {
				continue
			}
			if s.isStnRunning(tcall, rq.RelMins, rq.QRG, rq.TCall) {
				remove[rq.ID] = true
				s.trace(rq.RCall, "marked for removal (bust of running station %s): %s", tcall, rq)
				break
			}
		}
	}

	if len(remove) > 0 {
		s.log.Debugf("removing %d QSOs for stations determined to be running", len(remove))
	}

	return compact(prunedVec, remove)
}

// isStnRunning reports whether call appears to hold frequency f around
// minute t. A station with trustworthy frequencies is running if its own log
// shows activity there; otherwise some other entrant (not ignoreCall) must
// have logged working it there.
func (s *state) isStnRunning(call string, t, f int, ignoreCall string) bool {
	if !s.allTCalls[call] {
		return false
	}

	if !s.NoFreq[call] && !s.PoorFreq[call] {
		own := s.All[call]
		lo, hi := bounds(t, 0, s.MaxRelMins, ClockSkew, own)
		for _, q := range own[lo:hi] {
			if abs(f-q.QRG) <= FreqSkew {
				return true
			}
		}
		return false
	}

	// can't trust call's own frequencies; does someone else say they worked
	// him here?
	lo := max(t-ClockSkew, 0)
	hi := min(t+ClockSkew, s.MaxRelMins)
	for _, q := range s.allVec[s.allMap[lo]:s.allMap[hi+1]] {
		if q.TCall != ignoreCall && q.RCall == call && abs(f-q.QRG) <= FreqSkew {
			return true
		}
	}
	return false
}

// passC looks for busts of non-entrant runners: an rcall whose QSOs sit
// inside the run of a different (possibly busted) rcall on the same
// frequency. Rare, since non-entrants typically do not run.
func (s *state) passC(prunedVec []qso.QSO) []qso.QSO {
	rcallLogs := make(map[string][]qso.QSO)
	for _, q := range prunedVec {
		rcallLogs[q.RCall] = append(rcallLogs[q.RCall], q)
	}

	rcalls := make([]string, 0, len(rcallLogs))
	for rcall := range rcallLogs {
		rcalls = append(rcalls, rcall)
	}

	possible := callsign.PossibleBusts(rcalls)

	// examine rcalls in descending order of appearance count
	counts := make(map[string]int, len(rcallLogs))
	for rcall, qsos := range rcallLogs {
		counts[rcall] = len(qsos)
	}
	sort.Slice(rcalls, func(i, j int) bool {
		if counts[rcalls[i]] != counts[rcalls[j]] {
			return counts[rcalls[i]] > counts[rcalls[j]]
		}
		return callsign.Less(rcalls[i], rcalls[j])
	})

	remove := make(map[int64]bool)

	for _, rcall := range rcalls {
		combined := append([]qso.QSO(nil), rcallLogs[rcall]...)
		for bust := range possible[rcall] {
			combined = append(combined, rcallLogs[bust]...)
		}
		qso.SortChrono(combined)

		for _, rq := range rcallLogs[rcall] {
			lo, hi := bounds(rq.RelMins, 0, s.MaxRelMins, RunTimeRange, combined)
			for _, q := range combined[lo:hi] {
				if q.RCall == rcall {
					continue
				}
				if s.freqMatch(q, rq, false) {
					remove[rq.ID] = true
					s.trace(rcall, "marked for removal (inside run of %s): %s", q.RCall, rq)
					break
				}
			}
		}
	}

	s.log.Debugf("non-entrant run pass: removing %d QSOs", len(remove))

	return compact(prunedVec, remove)
}

// passD drops every rcall whose surviving appearance count is at or below
// the cutoff.
func (s *state) passD(prunedVec []qso.QSO) []qso.QSO {
	counts := make(map[string]int)
	for _, q := range prunedVec {
		counts[q.RCall]++
	}

	remove := make(map[int64]bool)
	for _, q := range prunedVec {
		if counts[q.RCall] <= s.Cfg.CutoffLimit {
			remove[q.ID] = true
			s.trace(q.RCall, "erased at cutoff (count %d <= %d): %s", counts[q.RCall], s.Cfg.CutoffLimit, q)
		}
	}

	s.log.Debugf("cutoff pass: removing %d QSOs", len(remove))

	return compact(prunedVec, remove)
}

// compact removes the marked ids in a single pass, preserving order.
func compact(vec []qso.QSO, remove map[int64]bool) []qso.QSO {
	if len(remove) == 0 {
		return vec
	}
	out := vec[:0]
	for _, q := range vec {
		if !remove[q.ID] {
			out = append(out, q)
		}
	}
	return out
}

// trace logs a pipeline event for the traced call.
func (s *state) trace(rcall, format string, args ...interface{}) {
	if s.Cfg.TraceCall != "" && rcall == s.Cfg.TraceCall {
		s.log.WithField("call", rcall).Infof(format, args...)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
