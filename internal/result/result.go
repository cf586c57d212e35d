package result

import "math"

const (
	// TargetSpecies is the primary beam particle.
	TargetSpecies = "proton"
	// EnergyFloor in MeV; particles at or below it are considered stopped.
	EnergyFloor = 5.0
)

type Vec3 [3]float64

func (v Vec3) X() float64 { return v[0] }
func (v Vec3) Y() float64 { return v[1] }
func (v Vec3) Z() float64 { return v[2] }

// Filter selects which rows count towards statistics.
type Filter struct {
	Species     string
	EnergyFloor float64
}

// DefaultFilter keeps primary protons above the absorption floor.
func DefaultFilter() Filter {
	return Filter{Species: TargetSpecies, EnergyFloor: EnergyFloor}
}

func (f Filter) Accept(species string, energy float64) bool {
	return species == f.Species && energy > f.EnergyFloor
}

// Result is one parsed artifact. All slices have one entry per row.
type Result struct {
	Position []Vec3
	Momentum []Vec3
	Energy   []float64
	Species  []string
	AngleX   []float64
	Valid    []bool
}

// Masked is a value column paired with its validity flags.
type Masked struct {
	Values []float64
	Valid  []bool
}

func (m Masked) Len() int { return len(m.Values) }

// Count returns the number of valid entries.
func (m Masked) Count() int {
	n := 0
	for _, ok := range m.Valid {
		if ok {
			n++
		}
	}
	return n
}

// Compressed returns the valid values in row order.
func (m Masked) Compressed() []float64 {
	out := make([]float64, 0, m.Count())
	for i, v := range m.Values {
		if m.Valid[i] {
			out = append(out, v)
		}
	}
	return out
}

// Scale returns a copy with every value multiplied by f, e.g. rad to mrad.
func (m Masked) Scale(f float64) Masked {
	vals := make([]float64, len(m.Values))
	for i, v := range m.Values {
		vals[i] = v * f
	}
	return Masked{Values: vals, Valid: m.Valid}
}

func (r *Result) Len() int { return len(r.Energy) }

func (r *Result) EnergySeries() Masked {
	return Masked{Values: r.Energy, Valid: r.Valid}
}

func (r *Result) AngleSeries() Masked {
	return Masked{Values: r.AngleX, Valid: r.Valid}
}

// ValidCount returns how many rows pass the filter.
func (r *Result) ValidCount() int {
	return r.AngleSeries().Count()
}

// Refilter recomputes the validity flags for another species or floor.
func (r *Result) Refilter(f Filter) {
	for i := range r.Valid {
		r.Valid[i] = f.Accept(r.Species[i], r.Energy[i])
	}
}

func (r *Result) append(pos, mom Vec3, energy float64, species string, f Filter) {
	r.Position = append(r.Position, pos)
	r.Momentum = append(r.Momentum, mom)
	r.Energy = append(r.Energy, energy)
	r.Species = append(r.Species, species)
	r.AngleX = append(r.AngleX, math.Atan2(mom[0], mom[2]))
	r.Valid = append(r.Valid, f.Accept(species, energy))
}

// Clone returns a deep copy, so that scenes sharing one artifact do not
// share mutable slices.
func (r *Result) Clone() *Result {
	return &Result{
		Position: append([]Vec3(nil), r.Position...),
		Momentum: append([]Vec3(nil), r.Momentum...),
		Energy:   append([]float64(nil), r.Energy...),
		Species:  append([]string(nil), r.Species...),
		AngleX:   append([]float64(nil), r.AngleX...),
		Valid:    append([]bool(nil), r.Valid...),
	}
}
