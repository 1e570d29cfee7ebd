// Package callsign implements edit-distance reasoning over amateur-radio
// callsigns: deciding whether one call is a plausible mis-copy ("bust") of
// another, and the total order used for SCP output.
package callsign

import "strings"

// IsBust reports whether copied is a plausible bust of call. The relation is
// symmetric and irreflexive. A bust differs from the true call by a single
// insertion, deletion, substitution, or adjacent transposition; calls whose
// lengths differ by two or more are never busts of each other.
func IsBust(call, copied string) bool {
	if call == copied || call == "" || copied == "" {
		return false
	}

	diff := len(call) - len(copied)
	if diff < -1 || diff > 1 {
		return false
	}

	if diff != 0 {
		longer, shorter := call, copied
		if len(copied) > len(call) {
			longer, shorter = copied, call
		}

		if strings.Contains(longer, shorter) {
			return true
		}

		// an extra (or missing) character somewhere inside the call
		for posn := 1; posn < len(longer)-1; posn++ {
			if longer[:posn]+longer[posn+1:] == shorter {
				return true
			}
		}

		return false
	}

	// same length; exactly one differing character?
	differences := 0
	for posn := 0; posn < len(call); posn++ {
		if call[posn] != copied[posn] {
			differences++
		}
	}
	if differences == 1 {
		return true
	}

	// adjacent transposition?
	for posn := 0; posn < len(call)-1; posn++ {
		tmp := []byte(call)
		tmp[posn], tmp[posn+1] = tmp[posn+1], tmp[posn]
		if string(tmp) == copied {
			return true
		}
	}

	return false
}

// PossibleBusts builds, for each call in calls, the set of other calls from
// the same container that are busts of it. The mapping is symmetric: if B is
// recorded as a bust of A, A is recorded as a bust of B. Calls with no busts
// have no entry.
func PossibleBusts(calls []string) map[string]map[string]bool {
	rv := make(map[string]map[string]bool)

	add := func(a, b string) {
		m := rv[a]
		if m == nil {
			m = make(map[string]bool)
			rv[a] = m
		}
		m[b] = true
	}

	for i, call1 := range calls {
		for _, call2 := range calls[i+1:] {
			if IsBust(call1, call2) {
				add(call1, call2)
				add(call2, call1)
			}
		}
	}

	return rv
}
