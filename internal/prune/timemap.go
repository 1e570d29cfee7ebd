package prune

import (
	"sort"

	"github.com/N7DR/drscp/internal/qso"
)

// timeMap builds, for a chronologically-sorted QSO vector, an index array of
// length maxRelMins+2 where entry k is the index of the first QSO whose
// relative minute is >= k. Entry maxRelMins+1 is len(vec), so the QSOs of
// minute k are exactly vec[m[k]:m[k+1]].
func timeMap(vec []qso.QSO, maxRelMins int) []int {
	rv := make([]int, maxRelMins+2)

	i := 0
	for k := 0; k <= maxRelMins; k++ {
		for i < len(vec) && vec[i].RelMins < k {
			i++
		}
		rv[k] = i
	}
	rv[maxRelMins+1] = len(vec)

	return rv
}

// bounds returns the half-open index range of vec covering relative minutes
// [max(t-skew, tmin), min(t+skew, tmax)], by binary search.
func bounds(t, tmin, tmax, skew int, vec []qso.QSO) (int, int) {
	lo := max(t-skew, tmin)
	hi := min(t+skew, tmax)

	first := sort.Search(len(vec), func(k int) bool { return vec[k].RelMins >= lo })
	last := sort.Search(len(vec), func(k int) bool { return vec[k].RelMins > hi })

	return first, last
}
