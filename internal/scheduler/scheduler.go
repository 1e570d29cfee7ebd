// Package scheduler runs one pipeline per contest, up to the configured
// parallelism, and merges the results into the global call→count map.
package scheduler

import (
	"context"
	"sync"

	"github.com/apex/log"
	"golang.org/x/sync/errgroup"

	"github.com/N7DR/drscp/internal/config"
	"github.com/N7DR/drscp/internal/contest"
	"github.com/N7DR/drscp/internal/ingest"
	"github.com/N7DR/drscp/internal/pipeline"
	"github.com/N7DR/drscp/internal/scp"
)

// Result is the merged outcome of a whole run.
type Result struct {
	Counts scp.CallCounts
	Stats  []*pipeline.Stats
}

// Run processes all contests with at most cfg.MaxParallel pipelines in
// flight. The first pipeline error cancels the rest and is returned. After
// the pool drains the XSCP top-percent truncation is applied.
func Run(ctx context.Context, contests []contest.Contest, cfg config.Config, sink pipeline.ProgressSink) (*Result, error) {
	cache, err := ingest.OpenCache(cfg.CacheDir)
	if err != nil {
		return nil, err
	}

	merged := make(scp.CallCounts)
	var stats []*pipeline.Stats
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	limit := cfg.MaxParallel
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for _, cst := range contests {
		cst := cst
		log.WithField("dir", cst.Dir).Debug("queued for processing")

		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			counts, st, err := pipeline.Run(gctx, cst, cfg, cache, sink)
			if err != nil {
				return err
			}

			mu.Lock()
			merged.Merge(counts)
			stats = append(stats, st)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if cfg.XSCPPercent < 100 {
		before := len(merged)
		merged = merged.TopPercent(cfg.XSCPPercent)
		log.Debugf("top-percent truncation: %d of %d calls retained", len(merged), before)
	}

	return &Result{Counts: merged, Stats: stats}, nil
}
