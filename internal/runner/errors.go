package runner

import (
	"errors"
	"fmt"

	"github.com/martin2250/hit-sim/internal/params"
)

var (
	// ErrNotCached is returned by Load when no artifact exists for the key.
	ErrNotCached = errors.New("runner: no cached artifact")

	// ErrSimulatorNotFound indicates the simulator executable could not be started.
	ErrSimulatorNotFound = errors.New("runner: simulator executable not found")

	// ErrNoArtifact indicates the simulator exited cleanly without writing output.
	ErrNoArtifact = errors.New("runner: simulator exited without writing an artifact")
)

// ExitError reports a simulator process that exited with a nonzero status.
type ExitError struct {
	Code   int
	Key    params.Key
	Stderr string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("hit_sim: nonzero exit code %d (key %s)", e.Code, e.Key.Short())
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// ExitCode returns the status the orchestrating process should exit with.
func (e *ExitError) ExitCode() int {
	if e.Code <= 0 {
		// killed by a signal
		return 1
	}
	return e.Code
}
