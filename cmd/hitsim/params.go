package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/martin2250/hit-sim/internal/config"
	"github.com/martin2250/hit-sim/internal/macro"
	"github.com/martin2250/hit-sim/internal/params"
)

// addParamFlags binds one flag per parameter, defaulting to params.Default().
func addParamFlags(cmd *cobra.Command, p *params.Parameters) {
	*p = params.Default()
	f := cmd.Flags()
	f.Float64Var(&p.GapWidth, "gap-width", p.GapWidth, "gap between chips (mm)")
	f.Float64Var(&p.GapPosition, "gap-position", p.GapPosition, "gap offset relative to the beam (mm)")
	f.Float64Var(&p.ChipThickness, "chip-thickness", p.ChipThickness, "chip thickness (mm)")
	f.Float64Var(&p.BackplateThickness, "backplate-thickness", p.BackplateThickness, "backplate thickness (mm)")
	f.Float64Var(&p.ParticleEnergy, "energy", p.ParticleEnergy, "beam energy (MeV)")
	f.IntVarP(&p.ParticleCount, "count", "n", p.ParticleCount, "number of primaries")
	f.StringVar(&p.DetectorVariant, "variant", p.DetectorVariant, "detector geometry variant")
	f.Float64Var(&p.PCBCopperThickness, "pcb-copper", p.PCBCopperThickness, "PCB copper thickness (mm)")
	f.Float64Var(&p.PCBPolyimideThickness, "pcb-polyimide", p.PCBPolyimideThickness, "PCB polyimide thickness (mm)")
	f.Float64Var(&p.PCBTraceSpacing, "pcb-trace-spacing", p.PCBTraceSpacing, "PCB trace pitch (mm)")
	f.Float64Var(&p.PCBTraceFill, "pcb-trace-fill", p.PCBTraceFill, "copper fill fraction of the trace layer")
}

func scriptCmd() *cobra.Command {
	var p params.Parameters

	cmd := &cobra.Command{
		Use:   "script",
		Short: "Print the hit_sim command script for a parameter set",
		Long: `Script prints the command script run would write for a parameter set.
Every invocation writes to its own partial file next to the artifact, so the
file_open path here carries a fresh attempt id and ends in .partial; run
renames it to the artifact once hit_sim exits cleanly.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := p.Validate(); err != nil {
				return err
			}
			_, store, err := openStore(cmd)
			if err != nil {
				return err
			}
			attempt := store.NewAttempt(params.Fingerprint(p))
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(macro.Build(p, attempt.Partial), "\n"))
			return nil
		},
	}
	addParamFlags(cmd, &p)
	return cmd
}

func fingerprintCmd() *cobra.Command {
	var (
		p     params.Parameters
		short bool
	)

	cmd := &cobra.Command{
		Use:   "fingerprint",
		Short: "Print the cache key of a parameter set",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := p.Validate(); err != nil {
				return err
			}
			key := params.Fingerprint(p)
			if short {
				fmt.Println(key.Short())
				return nil
			}
			_, store, err := openStore(cmd)
			if err != nil {
				return err
			}
			cached, err := store.Exists(key)
			if err != nil {
				return err
			}
			fmt.Printf("%s\tcached=%t\n", key, cached)
			return nil
		},
	}
	addParamFlags(cmd, &p)
	cmd.Flags().BoolVar(&short, "short", false, "print only the short key")
	return cmd
}

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, store, err := openStore(cmd)
			if err != nil {
				return err
			}
			for _, name := range config.ListPresets() {
				scenes, err := config.GetPreset(name, base).BuildScenes()
				if err != nil {
					return err
				}
				fmt.Printf("%s  (%d scenes)\n", name, len(scenes))
				for _, sc := range scenes {
					fmt.Printf("    %-28s %s  %s\n", sc.Name, sc.Key().Short(), store.ArtifactPath(sc.Key()))
				}
			}
			return nil
		},
	}
}
