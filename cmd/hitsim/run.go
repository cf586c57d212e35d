package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/martin2250/hit-sim/internal/config"
	"github.com/martin2250/hit-sim/internal/metrics"
	"github.com/martin2250/hit-sim/internal/runner"
	"github.com/martin2250/hit-sim/internal/storage"
	"github.com/martin2250/hit-sim/internal/sweep"
	"github.com/martin2250/hit-sim/internal/toolenv"
	"github.com/martin2250/hit-sim/internal/viz"
)

func runCmd() *cobra.Command {
	var (
		tui         bool
		metricsFile string
	)

	cmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "Run every scene of a preset or config file",
		Long: `Run builds the scenes of a preset (or of --config), starts hit_sim for
each parameter set that is not cached yet and prints a summary table.
Scenes with identical parameters share one simulation.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg = config.GetPreset(args[0], cfg)
				if cfg == nil {
					return fmt.Errorf("unknown preset %q (available: %v)", args[0], config.ListPresets())
				}
			}

			scenes, err := cfg.BuildScenes()
			if err != nil {
				return err
			}
			if len(scenes) == 0 {
				return fmt.Errorf("nothing to run: pass a preset or a config with scenes")
			}

			env, err := toolenv.Load(cfg.EnvGlobs...)
			if err != nil {
				return fmt.Errorf("toolchain environment: %w", err)
			}
			for k, v := range cfg.Env {
				env[k] = v
			}
			if len(env) == 0 {
				logger.Warn("no G4 variables found; hit_sim may fail to locate its data",
					zap.Strings("globs", cfg.EnvGlobs))
			}

			store := storage.New(cfg.ScratchDir)
			m := metrics.NewRun()
			r := runner.New(runner.Config{
				Simulator:  cfg.Simulator,
				Env:        env,
				IsolateEnv: cfg.IsolateEnv,
			}, store, runner.WithLogger(logger), runner.WithMetrics(m))

			// An interrupt stops new scenes; running ones are left to finish.
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			start := time.Now()
			runAll := func(report func(sweep.Progress)) error {
				opts := []sweep.SchedulerOption{
					sweep.WithLogger(logger),
					sweep.WithMetrics(m),
				}
				if report != nil {
					opts = append(opts, sweep.WithProgress(report))
				}
				return sweep.NewScheduler(r, cfg.Workers, opts...).RunAll(ctx, scenes)
			}

			if tui {
				err = viz.RunWithProgress(len(scenes), runAll)
			} else {
				err = runAll(func(p sweep.Progress) {
					status := viz.OKStyle.Render("ok")
					if p.Err != nil {
						status = viz.ErrorStyle.Render("failed")
					}
					fmt.Fprintf(os.Stderr, "[%d/%d] %s %s\n", p.Done, p.Total, status, p.Scene.Name)
				})
			}

			if metricsFile != "" {
				if werr := m.WriteTextfile(metricsFile); werr != nil {
					logger.Warn("failed to write metrics", zap.String("path", metricsFile), zap.Error(werr))
				}
			}
			if err != nil {
				return err
			}

			fmt.Println(viz.SceneTable(scenes))
			fmt.Println(viz.Subtle.Render(fmt.Sprintf("%d scenes, %d simulator runs, %s",
				len(scenes), r.Invocations(), time.Since(start).Round(time.Millisecond))))
			return nil
		},
	}

	cmd.Flags().BoolVar(&tui, "tui", false, "show a live progress view")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus textfile metrics here")
	return cmd
}
