// Package stats computes summary statistics over masked result columns.
// Every function reads values through result.Masked and ignores entries
// whose validity flag is false.
package stats

import (
	"errors"
	"math"
	"sort"

	"github.com/martin2250/hit-sim/internal/result"
)

// ErrNoValidData is returned when every entry of a column is masked.
var ErrNoValidData = errors.New("stats: no valid entries")

// Percentile returns the q-th percentile (0..100) of the valid values,
// interpolating linearly between closest ranks.
func Percentile(m result.Masked, q float64) (float64, error) {
	vals := m.Compressed()
	if len(vals) == 0 {
		return math.NaN(), ErrNoValidData
	}
	sort.Float64s(vals)
	return percentileSorted(vals, q), nil
}

// Percentiles is Percentile for several q at once, sorting only once.
func Percentiles(m result.Masked, qs ...float64) ([]float64, error) {
	vals := m.Compressed()
	if len(vals) == 0 {
		return nil, ErrNoValidData
	}
	sort.Float64s(vals)
	out := make([]float64, len(qs))
	for i, q := range qs {
		out[i] = percentileSorted(vals, q)
	}
	return out, nil
}

func percentileSorted(vals []float64, q float64) float64 {
	q = math.Max(0, math.Min(100, q))
	pos := q / 100 * float64(len(vals)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return vals[lo]
	}
	frac := pos - float64(lo)
	return vals[lo]*(1-frac) + vals[hi]*frac
}

// MeanStd returns the mean and population standard deviation.
func MeanStd(m result.Masked) (mean, std float64, err error) {
	n := 0
	sum := 0.0
	for i, v := range m.Values {
		if m.Valid[i] {
			sum += v
			n++
		}
	}
	if n == 0 {
		return math.NaN(), math.NaN(), ErrNoValidData
	}
	mean = sum / float64(n)

	ss := 0.0
	for i, v := range m.Values {
		if m.Valid[i] {
			d := v - mean
			ss += d * d
		}
	}
	return mean, math.Sqrt(ss / float64(n)), nil
}

// Histogram holds counts for equal-width bins over [Lo, Hi].
type Histogram struct {
	Lo, Hi float64
	Counts []int
}

func (h Histogram) BinWidth() float64 {
	return (h.Hi - h.Lo) / float64(len(h.Counts))
}

// Center returns the midpoint of bin i.
func (h Histogram) Center(i int) float64 {
	return h.Lo + (float64(i)+0.5)*h.BinWidth()
}

// Floats returns the counts as float64, the form plotting code expects.
func (h Histogram) Floats() []float64 {
	out := make([]float64, len(h.Counts))
	for i, c := range h.Counts {
		out[i] = float64(c)
	}
	return out
}

// NewHistogram bins the valid values into n bins over [lo, hi]. Values
// outside the range are dropped; hi itself falls into the last bin.
func NewHistogram(m result.Masked, n int, lo, hi float64) (Histogram, error) {
	if n < 1 || !(hi > lo) {
		return Histogram{}, errors.New("stats: invalid histogram range")
	}
	h := Histogram{Lo: lo, Hi: hi, Counts: make([]int, n)}
	width := h.BinWidth()
	for i, v := range m.Values {
		if !m.Valid[i] || v < lo || v > hi {
			continue
		}
		bin := int((v - lo) / width)
		if bin >= n {
			bin = n - 1
		}
		h.Counts[bin]++
	}
	return h, nil
}

// Range returns [Percentile(qlo)-pad, Percentile(qhi)+pad], the plotting
// window used for energy and angle distributions.
func Range(m result.Masked, qlo, qhi, pad float64) (float64, float64, error) {
	p, err := Percentiles(m, qlo, qhi)
	if err != nil {
		return 0, 0, err
	}
	return p[0] - pad, p[1] + pad, nil
}
