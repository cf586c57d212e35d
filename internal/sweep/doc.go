// Package sweep runs many parameter sets through a runner.
//
// A [Scene] pairs one parameter set with its parsed result. [Grid] expands
// parameter axes into scenes and [Scheduler] executes them on a fixed
// number of workers:
//
//	scenes, _ := sweep.Grid(params.Default(), sweep.Axis{
//	    Name:   "gap_position",
//	    Values: sweep.Linspace(0, 1, 3),
//	})
//	err := sweep.NewScheduler(r, 6).RunAll(ctx, scenes)
//
// Scenes are updated in place. Read results only after RunAll returns.
package sweep
