package qso

import "strconv"

// Band identifies a contest HF band by its wavelength in metres. BandBad is
// the sentinel for a frequency outside every contest band.
type Band int

const (
	BandBad Band = 0
	Band160 Band = 160
	Band80  Band = 80
	Band40  Band = 40
	Band20  Band = 20
	Band15  Band = 15
	Band10  Band = 10
)

// bandEdges maps each band to its inclusive kHz range.
var bandEdges = map[Band][2]int{
	Band160: {1800, 2000},
	Band80:  {3500, 4000},
	Band40:  {7000, 7300},
	Band20:  {14000, 14350},
	Band15:  {21000, 21450},
	Band10:  {28000, 29700},
}

// DefaultEdgeFrequencies are the lower band edges that loggers without real
// frequency data report for every QSO.
var DefaultEdgeFrequencies = map[int]bool{
	1800: true, 3500: true, 7000: true, 14000: true, 21000: true, 28000: true,
}

// Bands returns the contest bands in descending wavelength order.
func Bands() []Band {
	return []Band{Band160, Band80, Band40, Band20, Band15, Band10}
}

// BandFromQRG maps a frequency in kHz to its contest band. ok is false when
// the frequency lies outside every band.
func BandFromQRG(qrg int) (Band, bool) {
	for _, b := range Bands() {
		edges := bandEdges[b]
		if qrg >= edges[0] && qrg <= edges[1] {
			return b, true
		}
	}
	return BandBad, false
}

// MustBandFromQRG is BandFromQRG for frequencies that have already passed
// validation; an out-of-range frequency here is a programmer error.
func MustBandFromQRG(qrg int) Band {
	b, ok := BandFromQRG(qrg)
	if !ok {
		panic("qso: invalid frequency escaped validation: " + strconv.Itoa(qrg))
	}
	return b
}

func (b Band) String() string {
	if b == BandBad {
		return "BADm"
	}
	return strconv.Itoa(int(b)) + "m"
}
