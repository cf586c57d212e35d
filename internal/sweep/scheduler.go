package sweep

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/martin2250/hit-sim/internal/logging"
	"github.com/martin2250/hit-sim/internal/metrics"
)

const DefaultWorkers = 6

// Progress is reported once per finished scene, in completion order.
type Progress struct {
	Scene    *Scene
	Done     int
	Total    int
	Duration time.Duration
	Err      error
}

// Scheduler runs scenes on a bounded number of workers.
type Scheduler struct {
	exec    Executor
	workers int
	log     *zap.Logger
	metrics *metrics.Run
	onDone  func(Progress)
}

type SchedulerOption func(*Scheduler)

func WithLogger(l *zap.Logger) SchedulerOption {
	return func(s *Scheduler) { s.log = logging.OrNop(l) }
}

func WithMetrics(m *metrics.Run) SchedulerOption {
	return func(s *Scheduler) { s.metrics = m }
}

// WithProgress registers fn to be called after each scene. Calls are
// serialised.
func WithProgress(fn func(Progress)) SchedulerOption {
	return func(s *Scheduler) { s.onDone = fn }
}

func NewScheduler(exec Executor, workers int, opts ...SchedulerOption) *Scheduler {
	if workers < 1 {
		workers = DefaultWorkers
	}
	s := &Scheduler{
		exec:    exec,
		workers: workers,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scheduler) Workers() int { return s.workers }

// RunAll executes every scene and fills in its Result. It returns after
// all started scenes have finished. The first error stops new scenes from
// starting and is returned; scenes already running are not interrupted.
func (s *Scheduler) RunAll(ctx context.Context, scenes []*Scene) error {
	for _, sc := range scenes {
		if err := sc.Params.Validate(); err != nil {
			return fmt.Errorf("scene %q: %w", sc.Name, err)
		}
	}

	batch := uuid.NewString()
	log := s.log.With(zap.String("batch", batch))
	log.Info("starting batch",
		zap.Int("scenes", len(scenes)),
		zap.Int("distinct", len(Dedupe(scenes))),
		zap.Int("workers", s.workers))

	var (
		mu   sync.Mutex
		done int
	)
	report := func(p Progress) {
		mu.Lock()
		defer mu.Unlock()
		done++
		p.Done = done
		p.Total = len(scenes)
		if s.onDone != nil {
			s.onDone(p)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	start := time.Now()
	for _, sc := range scenes {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			s.metrics.SceneStarted()
			defer s.metrics.SceneDone()

			t0 := time.Now()
			err := sc.Run(gctx, s.exec)
			elapsed := time.Since(t0)
			report(Progress{Scene: sc, Duration: elapsed, Err: err})

			if err != nil {
				log.Error("scene failed", zap.String("scene", sc.Name), zap.String("key", sc.Key().Short()), zap.Error(err))
				return fmt.Errorf("scene %q: %w", sc.Name, err)
			}
			log.Debug("scene done", zap.String("scene", sc.Name), zap.Int("rows", sc.Result.Len()), zap.Duration("duration", elapsed))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	log.Info("batch complete", zap.Duration("duration", time.Since(start)))
	return nil
}
