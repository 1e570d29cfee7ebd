// Package ingest turns one directory of Cabrillo logs into per-sender QSO
// sets, filtered to the contest window.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/apex/log"

	"github.com/N7DR/drscp/internal/config"
	"github.com/N7DR/drscp/internal/contest"
	"github.com/N7DR/drscp/internal/qso"
)

// ErrNoValidLogs reports a directory in which no file produced a single
// accepted QSO.
var ErrNoValidLogs = errors.New("no valid received logs")

// Corpus is the parsed content of one contest directory.
type Corpus struct {
	// ByTCall maps each sender to its QSOs, chronological after ingest.
	ByTCall map[string][]qso.QSO
	// Entrants are the senders auto-included in the dictionary (TL gate).
	Entrants map[string]bool
	// NValidLogs counts the files that produced at least one accepted QSO.
	NValidLogs int
}

// Directory reads every log file in the contest directory (one level,
// symlinks followed) and returns the corpus. diag receives rejected QSO
// lines, in their normalized form, when cfg.ShowBadQSOs is set; pass nil to
// discard them.
func Directory(ctx context.Context, cst contest.Contest, cfg config.Config, diag io.Writer) (*Corpus, error) {
	entries, err := os.ReadDir(cst.Dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", cst.Dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	corpus := &Corpus{
		ByTCall:  make(map[string][]qso.QSO),
		Entrants: make(map[string]bool),
	}
	logger := log.WithField("dir", cst.Dir)

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(cst.Dir, name)
		info, err := os.Stat(path) // follows symlinks
		if err != nil || info.IsDir() {
			continue
		}

		if err := corpus.readLog(path, cst, cfg, diag, logger); err != nil {
			return nil, err
		}
	}

	if corpus.NValidLogs == 0 {
		return nil, fmt.Errorf("%s: %w", cst.Dir, ErrNoValidLogs)
	}

	logger.Debugf("total number of logs with valid QSOs = %d", corpus.NValidLogs)
	logger.Debugf("number of entrants = %d", len(corpus.Entrants))

	for tcall := range corpus.ByTCall {
		qso.SortChrono(corpus.ByTCall[tcall])
	}

	return corpus, nil
}

// readLog parses one file and merges its accepted QSOs into the corpus.
func (c *Corpus) readLog(path string, cst contest.Contest, cfg config.Config, diag io.Writer, logger *log.Entry) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	// do not assume the tcall is constant within one file
	fileQSOs := make(map[string][]qso.QSO)

	for _, line := range strings.Split(string(data), "\n") {
		line = normalize(line)
		if !strings.HasPrefix(line, "QSO:") {
			continue
		}

		q, err := qso.ParseLine(line)
		if err != nil {
			if cfg.ShowBadQSOs && diag != nil {
				fmt.Fprintln(diag, line)
			}
			continue
		}

		if !cst.Contains(q.Time) {
			continue
		}
		q.RelMins = cst.RelMinutes(q.Time)

		if cfg.Tracing() && q.RCall == cfg.TraceCall {
			logger.WithField("call", cfg.TraceCall).Infof("read traced call from %s: %s", filepath.Base(path), q)
		}

		fileQSOs[q.TCall] = append(fileQSOs[q.TCall], q)
	}

	if len(fileQSOs) == 0 {
		return nil
	}
	c.NValidLogs++

	for tcall, qsos := range fileQSOs {
		c.ByTCall[tcall] = append(c.ByTCall[tcall], qsos...)

		if len(qsos) >= cfg.TLLimit {
			c.Entrants[tcall] = true
		} else {
			logger.Debugf("%s: log size too small for tcall %s", filepath.Base(path), tcall)
		}
	}

	return nil
}

// normalize prepares one raw log line for parsing: tabs become spaces,
// whitespace runs collapse to a single space, and the line is uppercased.
func normalize(line string) string {
	return strings.ToUpper(strings.Join(strings.Fields(line), " "))
}
