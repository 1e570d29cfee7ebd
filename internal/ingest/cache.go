package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/apex/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/N7DR/drscp/internal/config"
	"github.com/N7DR/drscp/internal/contest"
	"github.com/N7DR/drscp/internal/qso"
)

// Current schema version - increment when cachePayload format changes.
const cacheSchemaVersion uint16 = 1

// cachePayload is the msgpack snapshot of a parsed corpus. QSO ids are not
// cached; fresh ids are assigned on load so process-wide uniqueness holds.
type cachePayload struct {
	Schema     uint16
	QSOs       []cachedQSO
	Entrants   []string
	NValidLogs int
}

type cachedQSO struct {
	TCall   string
	RCall   string
	QRG     int
	Unix    int64
	RelMins int
}

// Cache is a directory of corpus snapshots keyed by a digest of the log
// directory's shape and the contest parameters.
type Cache struct {
	dir string
}

// OpenCache returns a cache rooted at dir, creating it if needed. An empty
// dir disables caching and returns nil.
func OpenCache(dir string) (*Cache, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// key digests everything that can change the parse result: the directory's
// file names, sizes and mtimes, the contest window, and the TL gate.
func (c *Cache) key(cst contest.Contest, cfg config.Config) (string, error) {
	entries, err := os.ReadDir(cst.Dir)
	if err != nil {
		return "", err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	h := sha256.New()
	var buf [8]byte

	writeInt := func(n int64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(n))
		h.Write(buf[:])
	}

	writeInt(int64(cacheSchemaVersion))
	io.WriteString(h, cst.Dir)
	writeInt(cst.Start.Unix())
	writeInt(int64(cst.Hours))
	writeInt(int64(cfg.TLLimit))

	for _, name := range names {
		info, err := os.Stat(filepath.Join(cst.Dir, name))
		if err != nil || info.IsDir() {
			continue
		}
		io.WriteString(h, name)
		writeInt(info.Size())
		writeInt(info.ModTime().UnixNano())
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

func (c *Cache) pathFor(key string) string {
	return filepath.Join(c.dir, key+".mp")
}

// Load returns the cached corpus for this contest, or nil on any miss or
// decode failure; parsing is always the fallback.
func (c *Cache) Load(cst contest.Contest, cfg config.Config) *Corpus {
	if c == nil {
		return nil
	}

	key, err := c.key(cst, cfg)
	if err != nil {
		return nil
	}

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		return nil
	}

	var payload cachePayload
	if err := msgpack.Unmarshal(data, &payload); err != nil || payload.Schema != cacheSchemaVersion {
		log.WithField("dir", cst.Dir).Debug("ingest cache entry unusable; reparsing")
		return nil
	}

	corpus := &Corpus{
		ByTCall:    make(map[string][]qso.QSO),
		Entrants:   make(map[string]bool, len(payload.Entrants)),
		NValidLogs: payload.NValidLogs,
	}
	for _, tcall := range payload.Entrants {
		corpus.Entrants[tcall] = true
	}
	for _, cq := range payload.QSOs {
		corpus.ByTCall[cq.TCall] = append(corpus.ByTCall[cq.TCall], qso.QSO{
			ID:      qso.NextID(),
			TCall:   cq.TCall,
			RCall:   cq.RCall,
			Band:    qso.MustBandFromQRG(cq.QRG),
			QRG:     cq.QRG,
			Time:    time.Unix(cq.Unix, 0).UTC(),
			RelMins: cq.RelMins,
		})
	}

	log.WithField("dir", cst.Dir).Debug("ingest cache hit")
	return corpus
}

// Store writes a snapshot of corpus for this contest. Failures are logged
// and otherwise ignored; the cache is advisory.
func (c *Cache) Store(ctx context.Context, cst contest.Contest, cfg config.Config, corpus *Corpus) {
	if c == nil || corpus == nil {
		return
	}
	if err := ctx.Err(); err != nil {
		return
	}

	payload := cachePayload{
		Schema:     cacheSchemaVersion,
		NValidLogs: corpus.NValidLogs,
	}
	for tcall := range corpus.Entrants {
		payload.Entrants = append(payload.Entrants, tcall)
	}
	sort.Strings(payload.Entrants)

	tcalls := make([]string, 0, len(corpus.ByTCall))
	for tcall := range corpus.ByTCall {
		tcalls = append(tcalls, tcall)
	}
	sort.Strings(tcalls)
	for _, tcall := range tcalls {
		for _, q := range corpus.ByTCall[tcall] {
			payload.QSOs = append(payload.QSOs, cachedQSO{
				TCall:   q.TCall,
				RCall:   q.RCall,
				QRG:     q.QRG,
				Unix:    q.Time.Unix(),
				RelMins: q.RelMins,
			})
		}
	}

	key, err := c.key(cst, cfg)
	if err != nil {
		return
	}

	data, err := msgpack.Marshal(&payload)
	if err != nil {
		return
	}

	tmp := c.pathFor(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		log.WithError(err).Debug("ingest cache write failed")
		return
	}
	if err := os.Rename(tmp, c.pathFor(key)); err != nil {
		log.WithError(err).Debug("ingest cache rename failed")
	}
}
