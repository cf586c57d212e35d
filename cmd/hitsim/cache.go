package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/martin2250/hit-sim/internal/config"
	"github.com/martin2250/hit-sim/internal/export"
	"github.com/martin2250/hit-sim/internal/params"
	"github.com/martin2250/hit-sim/internal/result"
	"github.com/martin2250/hit-sim/internal/runner"
	"github.com/martin2250/hit-sim/internal/stats"
	"github.com/martin2250/hit-sim/internal/storage"
	"github.com/martin2250/hit-sim/internal/viz"
)

const histogramBins = 60

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := openStore(cmd)
			if err != nil {
				return err
			}
			entries, err := store.List()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No cached artifacts in", store.Dir())
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tNAME\tVARIANT\tGAP POS\tENERGY\tCOUNT\tSIZE\tCREATED")
			for _, e := range entries {
				name, variant, gap, energy, count := "-", "-", "-", "-", "-"
				if e.Meta != nil {
					p := e.Meta.Params
					if e.Meta.Name != "" {
						name = e.Meta.Name
					}
					variant = p.DetectorVariant
					gap = fmt.Sprintf("%.2f", p.GapPosition)
					energy = fmt.Sprintf("%g", p.ParticleEnergy)
					count = fmt.Sprintf("%d", p.ParticleCount)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
					e.Key.Short(), name, variant, gap, energy, count, e.Size,
					e.ModTime.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
}

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary <key-prefix|preset>",
		Short: "Show distributions of cached results",
		Long: `Summary prints percentiles and histograms of the accepted protons'
deflection angle and energy. The argument is either a cache key prefix or a
preset name; a preset only shows scenes that are already cached.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := openStore(cmd)
			if err != nil {
				return err
			}

			if preset := config.GetPreset(args[0], cfg); preset != nil {
				return summarizePreset(preset, store)
			}

			key, err := store.Resolve(args[0])
			if err != nil {
				return err
			}
			res, err := result.Parse(store.ArtifactPath(key))
			if err != nil {
				return err
			}
			title := key.Short()
			if meta, err := store.LoadMetadata(key); err == nil && meta.Name != "" {
				title = meta.Name + " " + title
			}
			printSummary(title, res)
			return nil
		},
	}
}

func summarizePreset(cfg *config.Config, store *storage.Store) error {
	scenes, err := cfg.BuildScenes()
	if err != nil {
		return err
	}
	r := runner.New(runner.Config{Simulator: cfg.Simulator}, store, runner.WithLogger(logger))
	for _, sc := range scenes {
		if err := sc.Load(r); err != nil {
			if errors.Is(err, runner.ErrNotCached) {
				fmt.Println(viz.Subtle.Render(fmt.Sprintf("%s: not cached (%s)", sc.Name, sc.Key().Short())))
				continue
			}
			return err
		}
		printSummary(sc.Name+" "+sc.Key().Short(), sc.Result)
	}
	return nil
}

func printSummary(title string, res *result.Result) {
	s, err := stats.Summarize(res)
	fmt.Println(viz.SummaryPanel(title, s))
	if err != nil {
		fmt.Println(viz.ErrorStyle.Render(err.Error()))
		return
	}

	angle := res.AngleSeries().Scale(1e3)
	if lo, hi, err := stats.AngleWindow(res); err == nil {
		if h, err := stats.NewHistogram(angle, histogramBins, lo, hi); err == nil {
			fmt.Println(viz.Histogram(h, "angle (mrad)"))
		}
	}
	if lo, hi, err := stats.EnergyWindow(res); err == nil {
		if h, err := stats.NewHistogram(res.EnergySeries(), histogramBins, lo, hi); err == nil {
			fmt.Println(viz.Histogram(h, "energy (MeV)"))
		}
	}
	fmt.Println()
}

func pruneCmd() *cobra.Command {
	var age time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove partial artifacts left by interrupted runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := openStore(cmd)
			if err != nil {
				return err
			}
			removed, err := store.Prune(age)
			for _, path := range removed {
				logger.Info("removed partial artifact", zap.String("path", path))
			}
			if err != nil {
				return err
			}
			fmt.Printf("Removed %d partial artifacts\n", len(removed))
			return nil
		},
	}
	cmd.Flags().DurationVar(&age, "older-than", time.Hour, "only remove partials older than this")
	return cmd
}

func exportCmd() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export <key-prefix>",
		Short: "Export a cached result as JSON or CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := openStore(cmd)
			if err != nil {
				return err
			}
			key, err := store.Resolve(args[0])
			if err != nil {
				return err
			}
			res, err := result.Parse(store.ArtifactPath(key))
			if err != nil {
				return err
			}

			w := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			switch format {
			case "csv":
				return export.CSV(w, res)
			case "json":
				var (
					name string
					p    *params.Parameters
				)
				if meta, err := store.LoadMetadata(key); err == nil {
					name, p = meta.Name, &meta.Params
				}
				return export.JSON(w, export.NewData(key, name, p, res))
			default:
				return fmt.Errorf("unknown format %q (json or csv)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "json or csv")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}
