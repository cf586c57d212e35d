package stats

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martin2250/hit-sim/internal/result"
)

func masked(vals []float64, valid []bool) result.Masked {
	return result.Masked{Values: vals, Valid: valid}
}

func TestPercentile_IgnoresMasked(t *testing.T) {
	m := masked(
		[]float64{1, 1000, 2, 3, -500, 4},
		[]bool{true, false, true, true, false, true},
	)

	tests := []struct {
		q    float64
		want float64
	}{
		{0, 1},
		{100, 4},
		{50, 2.5},
		{25, 1.75},
	}
	for _, tt := range tests {
		got, err := Percentile(m, tt.q)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-12, "q=%v", tt.q)
	}
}

func TestPercentile_NoValid(t *testing.T) {
	_, err := Percentile(masked([]float64{1, 2}, []bool{false, false}), 50)
	assert.ErrorIs(t, err, ErrNoValidData)

	_, err = Percentiles(masked(nil, nil), 50)
	assert.ErrorIs(t, err, ErrNoValidData)
}

func TestMeanStd(t *testing.T) {
	m := masked([]float64{2, 4, 99, 4, 4, 5, 5, 7, 9}, []bool{true, true, false, true, true, true, true, true, true})
	mean, std, err := MeanStd(m)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, mean, 1e-12)
	assert.InDelta(t, 2.0, std, 1e-12)

	_, _, err = MeanStd(masked([]float64{1}, []bool{false}))
	assert.ErrorIs(t, err, ErrNoValidData)
}

func TestHistogram(t *testing.T) {
	m := masked(
		[]float64{0, 0.5, 1, 1.5, 2, 2, 5, -1, 1.2},
		[]bool{true, true, true, true, true, true, true, true, false},
	)
	h, err := NewHistogram(m, 4, 0, 2)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 1, 1, 3}, h.Counts)
	assert.InDelta(t, 0.5, h.BinWidth(), 1e-12)
	assert.InDelta(t, 0.25, h.Center(0), 1e-12)
	assert.Equal(t, []float64{1, 1, 1, 3}, h.Floats())

	_, err = NewHistogram(m, 0, 0, 1)
	assert.Error(t, err)
	_, err = NewHistogram(m, 3, 1, 1)
	assert.Error(t, err)
}

func TestRange(t *testing.T) {
	m := masked([]float64{10, 20, 30}, []bool{true, true, true})
	lo, hi, err := Range(m, 0, 100, 0.3)
	require.NoError(t, err)
	assert.InDelta(t, 9.7, lo, 1e-12)
	assert.InDelta(t, 30.3, hi, 1e-12)
}

func TestSummarize(t *testing.T) {
	input := `0 0 0 0.001 0 1 90 proton
0 0 0 -0.001 0 1 95 proton
0 0 0 0 0 1 2 proton
0 0 0 5 0 1 99 e-
`
	res, err := result.ParseReader(strings.NewReader(input), "s")
	require.NoError(t, err)

	s, err := Summarize(res)
	require.NoError(t, err)
	assert.Equal(t, 4, s.Rows)
	assert.Equal(t, 2, s.ValidRows)
	assert.InDelta(t, 92.5, s.EnergyMean, 1e-12)
	assert.InDelta(t, 95, s.EnergyHi, 1e-12)
	assert.InDelta(t, 0, s.AngleMean, 1e-9)
	// two valid angles +-a: the 99.5th percentile interpolates to 0.99a
	assert.InDelta(t, 0.99*1e3*math.Atan2(0.001, 1), s.AngleHi, 1e-9)
}

func TestWindows(t *testing.T) {
	input := `0 0 0 0.001 0 1 90 proton
0 0 0 -0.001 0 1 95 proton
0 0 0 5 0 1 200 e-
`
	res, err := result.ParseReader(strings.NewReader(input), "s")
	require.NoError(t, err)

	lo, hi, err := EnergyWindow(res)
	require.NoError(t, err)
	assert.InDelta(t, 90.05-0.3, lo, 1e-9)
	assert.InDelta(t, 95.3, hi, 1e-9)

	a := 1e3 * math.Atan2(0.001, 1)
	lo, hi, err = AngleWindow(res)
	require.NoError(t, err)
	assert.InDelta(t, -0.99*a-5, lo, 1e-9)
	assert.InDelta(t, 0.99*a+5, hi, 1e-9)
}

func TestSummarize_AllMasked(t *testing.T) {
	res, err := result.ParseReader(strings.NewReader("0 0 0 0 0 1 1 proton\n"), "s")
	require.NoError(t, err)

	_, err = Summarize(res)
	assert.ErrorIs(t, err, ErrNoValidData)
}
