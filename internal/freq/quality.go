// Package freq partitions log senders by the quality of their logged
// frequency information. Senders that log only band-edge default frequencies
// carry no information; senders whose frequencies disagree with their QSO
// partners' logs are untrustworthy.
package freq

import (
	"github.com/N7DR/drscp/internal/qso"
)

// Cross-check constants; shared with the pruner's contract.
const (
	// FreqSkew bounds the frequency disagreement, in kHz: two logs agree
	// when their frequencies differ by strictly less than FreqSkew.
	FreqSkew = 2
	// RunTimeRange is the half-width, in minutes, of the window used to pair
	// reciprocal QSOs.
	RunTimeRange = 5
	// goodRatio is the minimum good/total agreement for a sender's
	// frequencies to be trusted.
	goodRatio = 0.9
)

// NoInfo returns the senders for which every logged frequency is a band-edge
// default.
func NoInfo(byTCall map[string][]qso.QSO) map[string]bool {
	rv := make(map[string]bool)

	for tcall, qsos := range byTCall {
		all := true
		for _, q := range qsos {
			if !qso.DefaultEdgeFrequencies[q.QRG] {
				all = false
				break
			}
		}
		if all && len(qsos) > 0 {
			rv[tcall] = true
		}
	}

	return rv
}

// bandTimeFreq is one logged contact as seen from one side: the band, the
// relative minute and the logged frequency.
type bandTimeFreq struct {
	band qso.Band
	mins int
	qrg  int
}

// PoorInfo returns the entrants whose logged frequencies agree with their
// partners' logs less than 90% of the time. Senders in noInfo are excluded
// from the cross-check on both sides.
func PoorInfo(byTCall map[string][]qso.QSO, entrants, noInfo map[string]bool) map[string]bool {
	// cross-index every logged QSO between entrants with usable frequencies
	worked := make(map[string]map[string][]bandTimeFreq)

	for tcall, qsos := range byTCall {
		if !entrants[tcall] || noInfo[tcall] {
			continue
		}

		byRCall := make(map[string][]bandTimeFreq)
		for _, q := range qsos {
			rcall := q.RCall
			if noInfo[rcall] || !entrants[rcall] {
				continue
			}
			if _, ok := byTCall[rcall]; !ok {
				continue
			}
			byRCall[rcall] = append(byRCall[rcall], bandTimeFreq{band: q.Band, mins: q.RelMins, qrg: q.QRG})
		}
		worked[tcall] = byRCall
	}

	rv := make(map[string]bool)

	for tcall, byRCall := range worked {
		var total, good int

		for rcall, btfs := range byRCall {
			reverse, ok := worked[rcall]
			if !ok {
				continue
			}
			mine, ok := reverse[tcall]
			if !ok {
				continue
			}

			for _, t := range btfs {
				for _, r := range mine {
					if t.band != r.band {
						continue
					}
					if abs(t.mins-r.mins) < RunTimeRange {
						total++
						if abs(t.qrg-r.qrg) < FreqSkew {
							good++
						}
					}
				}
			}
		}

		if total != 0 && float64(good)/float64(total) < goodRatio {
			rv[tcall] = true
		}
	}

	return rv
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
