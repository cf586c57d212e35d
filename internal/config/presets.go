package config

import (
	"sort"

	"github.com/martin2250/hit-sim/internal/params"
)

// Presets reproduce the detector study: the chip gap moved across the
// beam, a water phantom behind the backplate, and the stack without PCB.
var Presets = map[string]*Config{
	"gap_offsets": {
		Sweeps: []SweepConfig{gapOffsets},
	},
	"water": {
		Scenes: []SceneConfig{water},
	},
	"without_pcb": {
		Scenes: []SceneConfig{withoutPCB},
	},
	"study": {
		Scenes: []SceneConfig{water, withoutPCB},
		Sweeps: []SweepConfig{gapOffsets},
	},
}

var (
	gapOffsets = SweepConfig{
		Name: "gap_offset",
		Base: SceneConfig{Params: params.Default()},
		Axes: []AxisConfig{{
			Name:     "gap_position",
			Linspace: &LinspaceConfig{Start: 0, Stop: 1, N: 3},
		}},
	}
	water = SceneConfig{
		Name: "1 mm water",
		Params: params.Default().
			WithDetectorVariant("backplate_water").
			WithBackplateThickness(1),
	}
	withoutPCB = SceneConfig{
		Name:   "without PCB",
		Params: params.Default().WithDetectorVariant("backplate_chips"),
	}
)

// GetPreset returns a copy of the named preset merged over base, or nil.
func GetPreset(name string, base *Config) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *base
	cfg.Scenes = append([]SceneConfig(nil), p.Scenes...)
	cfg.Sweeps = append([]SweepConfig(nil), p.Sweeps...)
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
