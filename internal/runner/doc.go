// Package runner executes hit_sim for one parameter set, or reuses the
// artifact a previous execution left in the scratch directory.
//
// # Cache Decision
//
// [Runner.Execute] fingerprints the parameters and looks for the artifact
// named after the key. When it exists the simulator is not started and the
// artifact is parsed directly. Otherwise a command script is written and
// the simulator runs as
//
//	<simulator> <script>
//
// with stdout discarded. Each invocation gets its own script and its own
// ".partial" output file, which is renamed to the artifact name only after
// a zero exit, so a crashed run never leaves something that looks like a
// cache hit. A name attached with [storage.WithRunName] is recorded in the
// artifact's sidecar.
//
// # Failures
//
// A nonzero exit is returned as [*ExitError] carrying the code. Nothing is
// retried; the caller is expected to stop the batch.
//
// # Thread Safety
//
// A Runner may be shared by many goroutines. Concurrent calls for the same
// key are coalesced into one simulator process. Separate processes sharing
// a scratch directory are not coordinated: two of them can still run the
// same key at the same time. Both succeed and the last rename wins.
package runner
