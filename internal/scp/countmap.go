// Package scp accumulates validated callsigns with their appearance counts
// and writes the SCP, XSCP and CSV output forms.
package scp

import (
	"sort"

	"github.com/N7DR/drscp/internal/callsign"
)

// CallCounts maps each validated call to the number of times it was heard
// across the corpus.
type CallCounts map[string]int

// Add counts one appearance of call.
func (cc CallCounts) Add(call string) { cc[call]++ }

// Merge sums other into cc.
func (cc CallCounts) Merge(other CallCounts) {
	for call, n := range other {
		cc[call] += n
	}
}

// Total returns the sum of all counts.
func (cc CallCounts) Total() int {
	total := 0
	for _, n := range cc {
		total += n
	}
	return total
}

// Sorted returns the calls in output order.
func (cc CallCounts) Sorted() []string {
	calls := make([]string, 0, len(cc))
	for call := range cc {
		calls = append(calls, call)
	}
	sort.Slice(calls, func(i, j int) bool { return callsign.Less(calls[i], calls[j]) })
	return calls
}

// TopPercent returns the calls carrying at least pc percent of the total
// count mass. Whole count-classes are taken in descending order until the
// mass threshold is reached; ties are never split. pc >= 100 returns cc
// unchanged.
func (cc CallCounts) TopPercent(pc int) CallCounts {
	if pc >= 100 || len(cc) == 0 {
		return cc
	}
	if pc <= 0 {
		return CallCounts{}
	}

	counts := make([]int, 0, len(cc))
	seen := make(map[int]bool)
	for _, n := range cc {
		if !seen[n] {
			seen[n] = true
			counts = append(counts, n)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(counts)))

	classMass := make(map[int]int)
	for _, n := range cc {
		classMass[n] += n
	}

	// the count class at which the cumulative mass of the classes taken so
	// far first reaches the mass target
	need := (cc.Total()*pc + 99) / 100
	mass := 0
	threshold := counts[0]
	for _, n := range counts {
		mass += classMass[n]
		threshold = n
		if mass >= need {
			break
		}
	}

	rv := make(CallCounts)
	for call, n := range cc {
		if n >= threshold {
			rv[call] = n
		}
	}
	return rv
}
