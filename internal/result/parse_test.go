package result

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const threeRows = `0.000 0.000 0.000 0.000 0.000 100.000 100.000 proton
0.000 0.000 0.000 0.000 0.000 100.000 3.000 proton
0.000 0.000 0.000 0.000 0.000 100.000 100.000 e-
`

func TestParse_MaskScenario(t *testing.T) {
	res, err := ParseReader(strings.NewReader(threeRows), "three")
	require.NoError(t, err)

	assert.Equal(t, []bool{true, false, false}, res.Valid)
	assert.Equal(t, []string{"proton", "proton", "e-"}, res.Species)
	assert.Equal(t, []float64{100, 3, 100}, res.Energy)
	assert.Equal(t, 1, res.ValidCount())
}

func TestParse_RowAlignment(t *testing.T) {
	input := `1.5 -2.0 3.25 0.1 -0.2 99.0 95.5 proton

-1.0 0.5 3.25 -0.3 0.0 98.0 4.0 proton
0.0 0.0 3.25 0.0 0.1 0.5 0.2 neutron
`
	res, err := ParseReader(strings.NewReader(input), "mixed")
	require.NoError(t, err)

	n := res.Len()
	assert.Equal(t, 3, n)
	assert.Len(t, res.Position, n)
	assert.Len(t, res.Momentum, n)
	assert.Len(t, res.Species, n)
	assert.Len(t, res.AngleX, n)
	assert.Len(t, res.Valid, n)

	assert.Equal(t, Vec3{1.5, -2.0, 3.25}, res.Position[0])
	assert.Equal(t, Vec3{0.1, -0.2, 99.0}, res.Momentum[0])
}

func TestParse_Angle(t *testing.T) {
	input := "0 0 0 1 0 1 50 proton\n0 0 0 -0.01 0 10 50 proton\n"
	res, err := ParseReader(strings.NewReader(input), "angles")
	require.NoError(t, err)

	assert.InDelta(t, math.Pi/4, res.AngleX[0], 1e-12)
	assert.InDelta(t, math.Atan2(-0.01, 10), res.AngleX[1], 1e-12)
}

func TestParse_MaskMatchesFilter(t *testing.T) {
	input := `0 0 0 0 0 1 5.0 proton
0 0 0 0 0 1 5.001 proton
0 0 0 0 0 1 200 "proton"
0 0 0 0 0 1 200 gamma
`
	res, err := ParseReader(strings.NewReader(input), "edge")
	require.NoError(t, err)

	for i := range res.Valid {
		want := res.Species[i] == TargetSpecies && res.Energy[i] > EnergyFloor
		assert.Equal(t, want, res.Valid[i], "row %d", i)
	}
	assert.Equal(t, []bool{false, true, true, false}, res.Valid)
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{"empty", "", 0},
		{"blank lines only", "\n\n  \n", 0},
		{"missing column", "0 0 0 0 0 1 100\n", 1},
		{"extra column", "0 0 0 0 0 1 100 proton x\n", 1},
		{"bad float", "0 0 0 0 0 1 100 proton\n0 0 zero 0 0 1 100 proton\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ParseReader(strings.NewReader(tt.input), tt.name)
			assert.Nil(t, res)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed))

			var mErr *MalformedResultError
			require.True(t, errors.As(err, &mErr))
			assert.Equal(t, tt.line, mErr.Line)
			assert.Equal(t, tt.name, mErr.Path)
		})
	}
}

func TestParse_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hit_sim_abc.txt")
	require.NoError(t, os.WriteFile(path, []byte(threeRows), 0644))

	res, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Len())

	_, err = Parse(filepath.Join(t.TempDir(), "missing.txt"))
	assert.True(t, os.IsNotExist(err) || errors.Is(err, os.ErrNotExist))
}

func TestParseWith_CustomFilter(t *testing.T) {
	res, err := ParseWith(strings.NewReader(threeRows), "three", Filter{Species: "e-", EnergyFloor: 0})
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false, true}, res.Valid)

	res.Refilter(DefaultFilter())
	assert.Equal(t, []bool{true, false, false}, res.Valid)
}

func TestMasked(t *testing.T) {
	m := Masked{
		Values: []float64{1, 2, 3, 4},
		Valid:  []bool{true, false, true, false},
	}

	assert.Equal(t, 4, m.Len())
	assert.Equal(t, 2, m.Count())
	assert.Equal(t, []float64{1, 3}, m.Compressed())

	scaled := m.Scale(1e3)
	assert.Equal(t, []float64{1000, 2000, 3000, 4000}, scaled.Values)
	assert.Equal(t, m.Valid, scaled.Valid)
	assert.Equal(t, 1.0, m.Values[0], "scale must not modify the source")
}

func TestClone(t *testing.T) {
	res, err := ParseReader(strings.NewReader(threeRows), "three")
	require.NoError(t, err)

	c := res.Clone()
	assert.Equal(t, res, c)

	c.Valid[0] = false
	c.Energy[0] = 1
	assert.True(t, res.Valid[0])
	assert.Equal(t, 100.0, res.Energy[0])
}
