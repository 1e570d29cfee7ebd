// Package pipeline runs the whole validation chain for one contest
// directory: ingest, frequency-quality classification, per-band pruning in
// parallel, and the final call→count accumulation.
package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/apex/log"
	"golang.org/x/sync/errgroup"

	"github.com/N7DR/drscp/internal/config"
	"github.com/N7DR/drscp/internal/contest"
	"github.com/N7DR/drscp/internal/freq"
	"github.com/N7DR/drscp/internal/ingest"
	"github.com/N7DR/drscp/internal/observ"
	"github.com/N7DR/drscp/internal/prune"
	"github.com/N7DR/drscp/internal/qso"
	"github.com/N7DR/drscp/internal/scp"
)

// Stats carries per-contest figures for the optional HTML report.
type Stats struct {
	Dir     string
	QSOs    int
	PerBand map[qso.Band]BandCounts
}

// BandCounts is the accepted and surviving call volume on one band.
type BandCounts struct {
	AllQSOs        int
	ValidatedCalls int
}

// Run processes one contest directory and returns its call→count map.
func Run(ctx context.Context, cst contest.Contest, cfg config.Config, cache *ingest.Cache, sink ProgressSink) (scp.CallCounts, *Stats, error) {
	timer := observ.NewTimer(cst.Dir)
	logger := log.WithField("dir", cst.Dir)

	// (a) ingest, via the cache when possible
	emit(sink, Event{Dir: cst.Dir, Stage: StageIngest, Status: StatusWorking})
	ph := timer.Begin("ingest")

	corpus := cache.Load(cst, cfg)
	if corpus == nil {
		var err error
		corpus, err = ingest.Directory(ctx, cst, cfg, os.Stderr)
		if err != nil {
			emit(sink, Event{Dir: cst.Dir, Stage: StageIngest, Status: StatusError, Err: err})
			return nil, nil, err
		}
		cache.Store(ctx, cst, cfg, corpus)
	}

	nQSOs := 0
	for _, qsos := range corpus.ByTCall {
		nQSOs += len(qsos)
	}
	timer.End(ph, fmt.Sprintf("%d logs, %d QSOs", corpus.NValidLogs, nQSOs))
	emit(sink, Event{Dir: cst.Dir, Stage: StageIngest, Status: StatusDone, QSOs: nQSOs})

	counts := make(scp.CallCounts)

	// (c) seed the pruned projection; QSOs whose rcall already is an
	// entrant are counted and dropped immediately. (d) senders whose whole
	// log is consumed this way disappear from the pruned projection.
	pruned := make(map[string][]qso.QSO, len(corpus.ByTCall))
	for tcall, qsos := range corpus.ByTCall {
		kept := make([]qso.QSO, 0, len(qsos))
		for _, q := range qsos {
			if corpus.Entrants[q.RCall] {
				counts.Add(q.RCall)
			} else {
				kept = append(kept, q)
			}
		}
		if len(kept) > 0 {
			pruned[tcall] = kept
		}
	}

	// (e) frequency quality
	emit(sink, Event{Dir: cst.Dir, Stage: StageClassify, Status: StatusWorking})
	ph = timer.Begin("classify")

	noFreq := freq.NoInfo(corpus.ByTCall)
	poorFreq := freq.PoorInfo(corpus.ByTCall, corpus.Entrants, noFreq)

	timer.End(ph, fmt.Sprintf("%d no-freq, %d poor-freq", len(noFreq), len(poorFreq)))
	emit(sink, Event{Dir: cst.Dir, Stage: StageClassify, Status: StatusDone})

	logger.Debugf("senders with no frequency info: %d", len(noFreq))
	logger.Debugf("senders with unreliable frequency info: %d", len(poorFreq))

	// (f) per-band projections
	allPerBand := splitBands(corpus.ByTCall)
	prunedPerBand := splitBands(pruned)

	// (g) one pruner per band, concurrently
	emit(sink, Event{Dir: cst.Dir, Stage: StagePrune, Status: StatusWorking})
	ph = timer.Begin("prune")

	bands := make([]qso.Band, 0, 6)
	for _, b := range qso.Bands() {
		if len(prunedPerBand[b]) > 0 && len(allPerBand[b]) > 0 {
			bands = append(bands, b)
		}
	}

	results := make([]map[string]bool, len(bands))
	g, gctx := errgroup.WithContext(ctx)
	for i, b := range bands {
		i, b := i, b
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			results[i] = prune.Band(prune.Input{
				Band:       b,
				Pruned:     prunedPerBand[b],
				All:        allPerBand[b],
				NoFreq:     noFreq,
				PoorFreq:   poorFreq,
				MaxRelMins: cst.MaxRelMins(),
				Cfg:        cfg,
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		emit(sink, Event{Dir: cst.Dir, Stage: StagePrune, Status: StatusError, Err: err})
		return nil, nil, err
	}

	timer.End(ph, fmt.Sprintf("%d bands", len(bands)))
	emit(sink, Event{Dir: cst.Dir, Stage: StagePrune, Status: StatusDone})

	// (h) union the band results
	returned := make(map[string]bool)
	stats := &Stats{Dir: cst.Dir, QSOs: nQSOs, PerBand: make(map[qso.Band]BandCounts)}
	for i, b := range bands {
		for call := range results[i] {
			returned[call] = true
		}
		nAll := 0
		for _, qsos := range allPerBand[b] {
			nAll += len(qsos)
		}
		stats.PerBand[b] = BandCounts{AllQSOs: nAll, ValidatedCalls: len(results[i])}
	}

	logger.Debugf("total number of SCP calls = %d", len(returned))
	if cfg.Tracing() {
		verdict := "IS NOT"
		if returned[cfg.TraceCall] {
			verdict = "IS"
		}
		logger.WithField("call", cfg.TraceCall).Infof("call %s in validated band results", verdict)
	}

	// (i) every appearance of a validated call counts
	emit(sink, Event{Dir: cst.Dir, Stage: StageMerge, Status: StatusWorking})
	for _, qsos := range corpus.ByTCall {
		for _, q := range qsos {
			if returned[q.RCall] {
				counts.Add(q.RCall)
			}
		}
	}
	emit(sink, Event{Dir: cst.Dir, Stage: StageMerge, Status: StatusDone})

	if cfg.Timings {
		fmt.Fprint(os.Stderr, timer.Summary())
	}

	logger.Debugf("finished processing directory")

	return counts, stats, nil
}

// splitBands projects a per-sender log map into per-band log maps.
func splitBands(byTCall map[string][]qso.QSO) map[qso.Band]map[string][]qso.QSO {
	rv := make(map[qso.Band]map[string][]qso.QSO)

	for tcall, qsos := range byTCall {
		for _, q := range qsos {
			m := rv[q.Band]
			if m == nil {
				m = make(map[string][]qso.QSO)
				rv[q.Band] = m
			}
			m[tcall] = append(m[tcall], q)
		}
	}

	return rv
}
