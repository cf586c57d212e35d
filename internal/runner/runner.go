package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/martin2250/hit-sim/internal/logging"
	"github.com/martin2250/hit-sim/internal/macro"
	"github.com/martin2250/hit-sim/internal/metrics"
	"github.com/martin2250/hit-sim/internal/params"
	"github.com/martin2250/hit-sim/internal/result"
	"github.com/martin2250/hit-sim/internal/storage"
)

const stderrTail = 4096

// Config describes how to start the simulator.
type Config struct {
	// Simulator is the path of the hit_sim executable.
	Simulator string
	// Env holds toolchain variables (G4*) added to the child environment.
	Env map[string]string
	// IsolateEnv starts the child with Env only instead of inheriting.
	IsolateEnv bool
	// WorkDir is the child's working directory; empty inherits ours.
	WorkDir string
}

type Runner struct {
	cfg     Config
	store   *storage.Store
	log     *zap.Logger
	metrics *metrics.Run

	group       singleflight.Group
	invocations atomic.Int64
}

type Option func(*Runner)

func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) { r.log = logging.OrNop(l) }
}

func WithMetrics(m *metrics.Run) Option {
	return func(r *Runner) { r.metrics = m }
}

func New(cfg Config, store *storage.Store, opts ...Option) *Runner {
	r := &Runner{
		cfg:   cfg,
		store: store,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) Store() *storage.Store { return r.store }

// Invocations returns how many simulator processes this Runner started.
func (r *Runner) Invocations() int64 { return r.invocations.Load() }

// Execute returns the parsed result for p, running the simulator only if
// no artifact exists for its key.
func (r *Runner) Execute(ctx context.Context, p params.Parameters) (*result.Result, error) {
	key := params.Fingerprint(p)

	v, err, shared := r.group.Do(string(key), func() (interface{}, error) {
		return r.execute(ctx, key, p)
	})
	if err != nil {
		return nil, err
	}

	res := v.(*result.Result)
	if shared {
		res = res.Clone()
	}
	return res, nil
}

// Load parses the cached artifact for p without ever starting the simulator.
func (r *Runner) Load(p params.Parameters) (*result.Result, error) {
	key := params.Fingerprint(p)
	ok, err := r.store.Exists(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotCached, key.Short())
	}
	return r.parse(key)
}

func (r *Runner) execute(ctx context.Context, key params.Key, p params.Parameters) (*result.Result, error) {
	artifact := r.store.ArtifactPath(key)
	log := r.log.With(zap.String("key", key.Short()))

	cached, err := r.store.Exists(key)
	if err != nil {
		return nil, err
	}
	if cached {
		r.metrics.CacheHit()
		log.Info("using cached result", zap.String("artifact", artifact))
		return r.parse(key)
	}
	r.metrics.CacheMiss()

	// Running processes are never interrupted, but a cancelled batch does
	// not start new ones.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.store.Init(); err != nil {
		return nil, fmt.Errorf("creating scratch dir: %w", err)
	}

	attempt := r.store.NewAttempt(key)
	if err := macro.Write(attempt.Script, macro.Build(p, attempt.Partial)); err != nil {
		return nil, fmt.Errorf("writing command script: %w", err)
	}

	log.Info("running sim", zap.String("artifact", artifact), zap.String("attempt", attempt.ID))
	start := time.Now()
	runErr := r.run(key, attempt.Script)
	elapsed := time.Since(start)
	r.metrics.Executed(elapsed, runErr == nil)

	if runErr != nil {
		if err := r.store.Discard(attempt); err != nil {
			log.Warn("failed to remove partial artifact", zap.Error(err))
		}
		var exitErr *ExitError
		if errors.As(runErr, &exitErr) {
			log.Error("hit_sim: nonzero exit code", zap.Int("exit_code", exitErr.Code), zap.Duration("duration", elapsed))
		}
		return nil, runErr
	}

	if _, err := os.Stat(attempt.Partial); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoArtifact, key.Short())
	}
	if err := r.store.Commit(attempt); err != nil {
		return nil, err
	}

	meta := storage.RunMetadata{
		Key:        key,
		Name:       storage.RunName(ctx),
		Timestamp:  start,
		DurationMs: elapsed.Milliseconds(),
		Params:     p,
	}
	if err := r.store.SaveMetadata(meta); err != nil {
		log.Warn("failed to write run metadata", zap.Error(err))
	}
	log.Info("sim finished", zap.Duration("duration", elapsed))

	return r.parse(key)
}

func (r *Runner) run(key params.Key, script string) error {
	r.invocations.Add(1)

	cmd := exec.Command(r.cfg.Simulator, script)
	cmd.Dir = r.cfg.WorkDir
	cmd.Env = r.environ()
	cmd.Stdout = nil // discarded
	stderr := &tailBuffer{max: stderrTail}
	cmd.Stderr = stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Code: exitErr.ExitCode(), Key: key, Stderr: stderr.String()}
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("%w: %s: %v", ErrSimulatorNotFound, r.cfg.Simulator, err)
	}
	return fmt.Errorf("starting simulator: %w", err)
}

func (r *Runner) parse(key params.Key) (*result.Result, error) {
	res, err := result.Parse(r.store.ArtifactPath(key))
	if err != nil {
		r.metrics.ParseFailed()
		if errors.Is(err, result.ErrMalformed) {
			r.log.Error("artifact is malformed; delete it to force a re-run",
				zap.String("key", key.Short()), zap.Error(err))
		}
		return nil, err
	}
	r.metrics.Parsed(res.Len())
	return res, nil
}
