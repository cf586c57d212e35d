package params

import (
	"fmt"
	"math"
	"strings"
)

const (
	DefaultGapWidth              = 0.1
	DefaultGapPosition           = 0.0
	DefaultChipThickness         = 0.1
	DefaultBackplateThickness    = 0.2
	DefaultParticleEnergy        = 100.0
	DefaultParticleCount         = 40000
	DefaultDetectorVariant       = "chip_backplate_pcb"
	DefaultPCBCopperThickness    = 0.018
	DefaultPCBPolyimideThickness = 0.091
	DefaultPCBTraceSpacing       = 0.4
	DefaultPCBTraceFill          = 0.5
)

// Detector components recognised by hit_sim. A variant is any name that
// contains at least one of them, e.g. "chip_backplate_pcb".
var variantParts = []string{"backplate", "chip", "pcb", "water"}

// Parameters is one simulation configuration. Lengths are in mm, energies
// in MeV. Treat values as immutable; the With* helpers return copies.
type Parameters struct {
	GapWidth              float64 `json:"gap_width" yaml:"gap_width"`
	GapPosition           float64 `json:"gap_position" yaml:"gap_position"`
	ChipThickness         float64 `json:"chip_thickness" yaml:"chip_thickness"`
	BackplateThickness    float64 `json:"backplate_thickness" yaml:"backplate_thickness"`
	ParticleEnergy        float64 `json:"particle_energy" yaml:"particle_energy"`
	ParticleCount         int     `json:"particle_count" yaml:"particle_count"`
	DetectorVariant       string  `json:"detector_variant" yaml:"detector_variant"`
	PCBCopperThickness    float64 `json:"pcb_copper_thickness" yaml:"pcb_copper_thickness"`
	PCBPolyimideThickness float64 `json:"pcb_polyimide_thickness" yaml:"pcb_polyimide_thickness"`
	PCBTraceSpacing       float64 `json:"pcb_trace_spacing" yaml:"pcb_trace_spacing"`
	PCBTraceFill          float64 `json:"pcb_trace_fill" yaml:"pcb_trace_fill"`
}

// Default returns the reference configuration: two silicon chips with a
// 0.1 mm gap on a CFRP backplate under a flex PCB, hit by 100 MeV protons.
func Default() Parameters {
	return Parameters{
		GapWidth:              DefaultGapWidth,
		GapPosition:           DefaultGapPosition,
		ChipThickness:         DefaultChipThickness,
		BackplateThickness:    DefaultBackplateThickness,
		ParticleEnergy:        DefaultParticleEnergy,
		ParticleCount:         DefaultParticleCount,
		DetectorVariant:       DefaultDetectorVariant,
		PCBCopperThickness:    DefaultPCBCopperThickness,
		PCBPolyimideThickness: DefaultPCBPolyimideThickness,
		PCBTraceSpacing:       DefaultPCBTraceSpacing,
		PCBTraceFill:          DefaultPCBTraceFill,
	}
}

func (p Parameters) WithGapWidth(v float64) Parameters           { p.GapWidth = v; return p }
func (p Parameters) WithGapPosition(v float64) Parameters        { p.GapPosition = v; return p }
func (p Parameters) WithChipThickness(v float64) Parameters      { p.ChipThickness = v; return p }
func (p Parameters) WithBackplateThickness(v float64) Parameters { p.BackplateThickness = v; return p }
func (p Parameters) WithParticleEnergy(v float64) Parameters     { p.ParticleEnergy = v; return p }
func (p Parameters) WithParticleCount(n int) Parameters          { p.ParticleCount = n; return p }
func (p Parameters) WithDetectorVariant(v string) Parameters     { p.DetectorVariant = v; return p }

// Set assigns a numeric field by its yaml/json name. Used by sweep axes.
func (p *Parameters) Set(name string, value float64) error {
	switch name {
	case "gap_width":
		p.GapWidth = value
	case "gap_position":
		p.GapPosition = value
	case "chip_thickness":
		p.ChipThickness = value
	case "backplate_thickness":
		p.BackplateThickness = value
	case "particle_energy":
		p.ParticleEnergy = value
	case "particle_count":
		p.ParticleCount = int(value)
	case "pcb_copper_thickness":
		p.PCBCopperThickness = value
	case "pcb_polyimide_thickness":
		p.PCBPolyimideThickness = value
	case "pcb_trace_spacing":
		p.PCBTraceSpacing = value
	case "pcb_trace_fill":
		p.PCBTraceFill = value
	default:
		return &ConfigurationError{Field: name, Reason: "unknown parameter"}
	}
	return nil
}

// Validate reports the first field that hit_sim would reject or silently
// misinterpret.
func (p Parameters) Validate() error {
	type field struct {
		name string
		v    float64
	}
	lengths := []field{
		{"gap_width", p.GapWidth},
		{"chip_thickness", p.ChipThickness},
		{"backplate_thickness", p.BackplateThickness},
		{"pcb_copper_thickness", p.PCBCopperThickness},
		{"pcb_polyimide_thickness", p.PCBPolyimideThickness},
		{"pcb_trace_spacing", p.PCBTraceSpacing},
		{"pcb_trace_fill", p.PCBTraceFill},
	}
	numeric := append([]field{
		{"gap_position", p.GapPosition},
		{"particle_energy", p.ParticleEnergy},
	}, lengths...)
	for _, f := range numeric {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return &ConfigurationError{Field: f.name, Reason: fmt.Sprintf("not a finite number: %g", f.v)}
		}
	}
	for _, f := range lengths {
		if f.v < 0 {
			return &ConfigurationError{Field: f.name, Reason: fmt.Sprintf("negative value %g", f.v)}
		}
	}
	if p.ParticleEnergy <= 0 {
		return &ConfigurationError{Field: "particle_energy", Reason: "must be positive"}
	}
	if p.ParticleCount <= 0 {
		return &ConfigurationError{Field: "particle_count", Reason: "must be positive"}
	}
	if !knownVariant(p.DetectorVariant) {
		return &ConfigurationError{Field: "detector_variant", Reason: fmt.Sprintf("unknown variant %q", p.DetectorVariant)}
	}
	return nil
}

func knownVariant(v string) bool {
	if strings.ContainsAny(v, " \t\n") {
		return false
	}
	for _, part := range variantParts {
		if strings.Contains(v, part) {
			return true
		}
	}
	return false
}
