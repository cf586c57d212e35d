package sweep

import (
	"context"

	"github.com/martin2250/hit-sim/internal/params"
	"github.com/martin2250/hit-sim/internal/result"
	"github.com/martin2250/hit-sim/internal/storage"
)

// Executor produces the result for one parameter set. *runner.Runner
// implements it.
type Executor interface {
	Execute(ctx context.Context, p params.Parameters) (*result.Result, error)
}

// Loader reads an existing result without running anything.
type Loader interface {
	Load(p params.Parameters) (*result.Result, error)
}

type Scene struct {
	Name   string
	Params params.Parameters
	Result *result.Result
}

func NewScene(name string, p params.Parameters) *Scene {
	return &Scene{Name: name, Params: p}
}

func (s *Scene) Key() params.Key {
	return params.Fingerprint(s.Params)
}

// Run executes the scene and stores its result.
func (s *Scene) Run(ctx context.Context, exec Executor) error {
	res, err := exec.Execute(storage.WithRunName(ctx, s.Name), s.Params)
	if err != nil {
		return err
	}
	s.Result = res
	return nil
}

// Load populates the result from an existing artifact.
func (s *Scene) Load(l Loader) error {
	res, err := l.Load(s.Params)
	if err != nil {
		return err
	}
	s.Result = res
	return nil
}

// Dedupe returns the first scene for every distinct fingerprint, in input
// order.
func Dedupe(scenes []*Scene) []*Scene {
	seen := make(map[params.Key]bool, len(scenes))
	out := make([]*Scene, 0, len(scenes))
	for _, s := range scenes {
		k := s.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, s)
	}
	return out
}
