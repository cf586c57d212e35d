// Package export writes parsed results in formats other tools can read.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/martin2250/hit-sim/internal/params"
	"github.com/martin2250/hit-sim/internal/result"
	"github.com/martin2250/hit-sim/internal/stats"
)

type Data struct {
	Key     params.Key         `json:"key"`
	Name    string             `json:"name,omitempty"`
	Params  *params.Parameters `json:"params,omitempty"`
	Rows    int                `json:"rows"`
	Summary *stats.Summary     `json:"summary,omitempty"`
	Energy  []float64          `json:"energy"`
	AngleX  []float64          `json:"angle_x"`
	Species []string           `json:"species"`
	Valid   []bool             `json:"valid"`
}

// NewData collects the per-row columns of res. p may be nil when the
// parameters are unknown (artifact without sidecar).
func NewData(key params.Key, name string, p *params.Parameters, res *result.Result) Data {
	d := Data{
		Key:     key,
		Name:    name,
		Params:  p,
		Rows:    res.Len(),
		Energy:  res.Energy,
		AngleX:  res.AngleX,
		Species: res.Species,
		Valid:   res.Valid,
	}
	if s, err := stats.Summarize(res); err == nil {
		d.Summary = &s
	}
	return d
}

func JSON(w io.Writer, d Data) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// CSV writes one row per particle with positions, momenta, energy,
// species, angle (rad) and the validity flag.
func CSV(w io.Writer, res *result.Result) error {
	cw := csv.NewWriter(w)
	header := []string{"x", "y", "z", "px", "py", "pz", "energy", "species", "angle_x", "valid"}
	if err := cw.Write(header); err != nil {
		return err
	}

	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for i := 0; i < res.Len(); i++ {
		pos, mom := res.Position[i], res.Momentum[i]
		record := []string{
			f(pos[0]), f(pos[1]), f(pos[2]),
			f(mom[0]), f(mom[1]), f(mom[2]),
			f(res.Energy[i]),
			res.Species[i],
			f(res.AngleX[i]),
			strconv.FormatBool(res.Valid[i]),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
