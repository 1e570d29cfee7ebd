// Package observ collects wall-clock timings for the stages of a pipeline
// run, for the --timings flag.
package observ

import (
	"fmt"
	"strings"
	"time"
)

// Phase records the duration and metadata of one pipeline stage.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer tracks the stages of one contest pipeline. Not safe for concurrent
// use; each pipeline owns its Timer.
type Timer struct {
	label  string
	phases []Phase
}

// NewTimer creates an empty Timer labelled with the contest directory.
func NewTimer(label string) *Timer {
	return &Timer{label: label, phases: make([]Phase, 0, 8)}
}

// Begin starts a new phase and returns its index.
func (t *Timer) Begin(name string) int {
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End finishes a phase by its index.
func (t *Timer) End(idx int, note string) {
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// Summary returns a human-readable report of all tracked phases.
func (t *Timer) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "timings for %s:\n", t.label)
	for _, p := range t.phases {
		fmt.Fprintf(&b, "  %-12s %8.2f ms", p.Name, float64(p.Dur)/float64(time.Millisecond))
		if p.Note != "" {
			b.WriteString("  // " + p.Note)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
