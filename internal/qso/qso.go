// Package qso holds the immutable record of one logged contact and its
// construction from a Cabrillo QSO line.
package qso

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"fortio.org/safecast"
)

// Parse rejection reasons. Rejected QSOs are dropped at the ingest boundary;
// callers may echo the line when bad-QSO display is on.
var (
	ErrShortLine = errors.New("fewer than nine fields")
	ErrBadFreq   = errors.New("frequency outside contest bands")
	ErrBadTime   = errors.New("unparseable date or time")
	ErrBadCall   = errors.New("invalid callsign")
	ErrSelfQSO   = errors.New("station worked itself")
)

// nextID is the process-wide QSO counter; ids are never reused.
var nextID atomic.Int64

// NextID returns a fresh unique QSO id.
func NextID() int64 { return nextID.Add(1) }

// QSO is one logged contact. Immutable once parsed, except for the one-time
// assignment of RelMins when the QSO is accepted into a contest.
type QSO struct {
	ID      int64
	TCall   string // the logging station's own call
	RCall   string // the call the logging station copied
	Band    Band
	QRG     int       // kHz
	Time    time.Time // UTC
	RelMins int       // minutes from contest start; set on acceptance
}

func (q QSO) String() string {
	return fmt.Sprintf("id %d, t+%dm, %s, %d kHz, %s de %s", q.ID, q.RelMins, q.Band, q.QRG, q.RCall, q.TCall)
}

// Before is the canonical QSO order: time, then id.
func (q QSO) Before(other QSO) bool {
	if !q.Time.Equal(other.Time) {
		return q.Time.Before(other.Time)
	}
	return q.ID < other.ID
}

// SortChrono sorts qsos in place into canonical order.
func SortChrono(qsos []QSO) {
	sort.Slice(qsos, func(i, j int) bool { return qsos[i].Before(qsos[j]) })
}

const legalCallChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789/"

// validCall reports whether call is plausible: at least three characters,
// only [A-Z0-9/], and at least one letter and one digit.
func validCall(call string) bool {
	if len(call) < 3 {
		return false
	}

	var hasLetter, hasDigit bool
	for i := 0; i < len(call); i++ {
		c := call[i]
		switch {
		case c >= 'A' && c <= 'Z':
			hasLetter = true
		case c >= '0' && c <= '9':
			hasDigit = true
		case c == '/':
		default:
			return false
		}
	}
	return hasLetter && hasDigit
}

// stripQRP removes the /QRP and /QRPP suffixes some operators append.
func stripQRP(call string) string {
	call = strings.TrimSuffix(call, "/QRP")
	return strings.TrimSuffix(call, "/QRPP")
}

// ParseLine constructs a QSO from a Cabrillo QSO line that has already been
// uppercased and whitespace-squashed. Field 1 is the frequency in kHz, 3 the
// date (YYYY-MM-DD), 4 the UTC time (HHMM), 5 the sender's call and 8 the
// received call.
func ParseLine(line string) (QSO, error) {
	fields := strings.Split(line, " ")
	if len(fields) < 9 {
		return QSO{}, ErrShortLine
	}

	raw, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return QSO{}, fmt.Errorf("%w: %q", ErrBadFreq, fields[1])
	}
	qrg, err := safecast.Conv[int](raw)
	if err != nil {
		return QSO{}, fmt.Errorf("%w: %q", ErrBadFreq, fields[1])
	}

	band, ok := BandFromQRG(qrg)
	if !ok {
		return QSO{}, fmt.Errorf("%w: %d kHz", ErrBadFreq, qrg)
	}

	when, err := time.Parse("2006-01-02 1504", fields[3]+" "+fields[4])
	if err != nil {
		return QSO{}, fmt.Errorf("%w: %q %q", ErrBadTime, fields[3], fields[4])
	}

	tcall := stripQRP(fields[5])
	rcall := stripQRP(fields[8])

	if !validCall(tcall) || !validCall(rcall) {
		return QSO{}, ErrBadCall
	}
	if tcall == rcall {
		// some operators "work themselves" to void a QSO while keeping
		// serial numbers intact
		return QSO{}, ErrSelfQSO
	}

	return QSO{
		ID:    NextID(),
		TCall: tcall,
		RCall: rcall,
		Band:  band,
		QRG:   qrg,
		Time:  when.UTC(),
	}, nil
}
