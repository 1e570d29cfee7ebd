// Package contest defines the parameters of one contest (directory, start
// time, duration) and the resolution of the -dir argument into a list of
// contests to process.
package contest

import (
	"fmt"
	"time"
)

// Contest names one directory of logs together with the contest window.
type Contest struct {
	Dir   string
	Start time.Time // UTC
	Hours int
}

// End returns the exclusive end of the contest period.
func (c Contest) End() time.Time { return c.Start.Add(time.Duration(c.Hours) * time.Hour) }

// Contains reports whether t lies inside the half-open contest period
// [Start, Start+Hours).
func (c Contest) Contains(t time.Time) bool {
	return !t.Before(c.Start) && t.Before(c.End())
}

// RelMinutes converts an in-period time to whole minutes from contest start.
func (c Contest) RelMinutes(t time.Time) int {
	return int(t.Sub(c.Start) / time.Minute)
}

// MaxRelMins is the largest valid relative minute.
func (c Contest) MaxRelMins() int { return c.Hours*60 - 1 }

func (c Contest) String() string {
	return fmt.Sprintf("%s [%s +%dh]", c.Dir, c.Start.Format("2006-01-02T15:04:05"), c.Hours)
}

// startLayouts are the accepted forms of a contest start timestamp, most
// specific first.
var startLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15",
	"2006-01-02",
}

// ParseStart parses a contest start timestamp (UTC). Accepted forms are
// YYYY-MM-DD optionally followed by THH, THH:MM or THH:MM:SS.
func ParseStart(s string) (time.Time, error) {
	for _, layout := range startLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid start timestamp %q", s)
}
