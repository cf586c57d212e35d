package stats

import "github.com/martin2250/hit-sim/internal/result"

// Summary condenses one result into the figures printed per scene.
// Angles are in mrad, energies in MeV.
type Summary struct {
	Rows       int
	ValidRows  int
	EnergyMean float64
	EnergyStd  float64
	EnergyLo   float64 // 1st percentile
	EnergyHi   float64 // maximum
	AngleMean  float64
	AngleStd   float64
	AngleLo    float64 // 0.5th percentile
	AngleHi    float64 // 99.5th percentile
}

// Summarize fails with ErrNoValidData when no row passes the mask.
func Summarize(r *result.Result) (Summary, error) {
	s := Summary{Rows: r.Len(), ValidRows: r.ValidCount()}

	energy := r.EnergySeries()
	angle := r.AngleSeries().Scale(1e3)

	var err error
	if s.EnergyMean, s.EnergyStd, err = MeanStd(energy); err != nil {
		return s, err
	}
	ep, err := Percentiles(energy, 1, 100)
	if err != nil {
		return s, err
	}
	s.EnergyLo, s.EnergyHi = ep[0], ep[1]

	if s.AngleMean, s.AngleStd, err = MeanStd(angle); err != nil {
		return s, err
	}
	ap, err := Percentiles(angle, 0.5, 99.5)
	if err != nil {
		return s, err
	}
	s.AngleLo, s.AngleHi = ap[0], ap[1]
	return s, nil
}

// Histogram windows: the percentile range of the valid values widened by a
// fixed pad on both sides.
const (
	EnergyPad = 0.3 // MeV
	AnglePad  = 5.0 // mrad
)

// EnergyWindow spans the 1st percentile to the maximum energy, padded.
func EnergyWindow(r *result.Result) (lo, hi float64, err error) {
	return Range(r.EnergySeries(), 1, 100, EnergyPad)
}

// AngleWindow spans the 0.5th to 99.5th percentile of the angle in mrad,
// padded.
func AngleWindow(r *result.Result) (lo, hi float64, err error) {
	return Range(r.AngleSeries().Scale(1e3), 0.5, 99.5, AnglePad)
}
