// Package macro renders a parameter set as a hit_sim command script.
package macro

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"github.com/martin2250/hit-sim/internal/params"
)

// Build returns the directives for one batch run, in execution order.
// Geometry setters come first, then the output file, initialisation,
// beamOn and finally file_close, which flushes the artifact.
func Build(p params.Parameters, artifactPath string) []string {
	return []string{
		"/hit_sim/set_gap_width " + mm(p.GapWidth),
		"/hit_sim/set_chip_thickness " + mm(p.ChipThickness),
		"/hit_sim/set_particle_energy " + num(p.ParticleEnergy) + " MeV",
		"/hit_sim/set_detector_variant " + p.DetectorVariant,
		fmt.Sprintf("/hit_sim/set_gap_position %0.2f mm", p.GapPosition),
		"/hit_sim/set_backplate_thickness " + mm(p.BackplateThickness),
		"/hit_sim/set_pcb_copper_thickness " + mm(p.PCBCopperThickness),
		"/hit_sim/set_pcb_polyimide_thickness " + mm(p.PCBPolyimideThickness),
		"/hit_sim/set_pcb_trace_spacing " + mm(p.PCBTraceSpacing),
		"/hit_sim/set_pcb_trace_fill " + mm(p.PCBTraceFill),
		"/hit_sim/file_open " + artifactPath,
		"/run/initialize",
		"/run/beamOn " + strconv.Itoa(p.ParticleCount),
		"/hit_sim/file_close",
	}
}

// Write stores lines at path, one directive per line.
func Write(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := w.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func mm(v float64) string {
	return num(v) + " mm"
}
