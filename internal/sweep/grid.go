package sweep

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/martin2250/hit-sim/internal/params"
)

// Axis is one swept parameter, named by its yaml key.
type Axis struct {
	Name   string    `yaml:"name"`
	Values []float64 `yaml:"values"`
}

// Linspace returns n evenly spaced values from start to stop inclusive.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{start}
	}
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}

// Grid returns one scene per point of the cartesian product of axes, with
// base supplying every field not swept. The first axis varies slowest.
func Grid(base params.Parameters, axes ...Axis) ([]*Scene, error) {
	for _, a := range axes {
		probe := base
		if err := probe.Set(a.Name, 0); err != nil {
			return nil, err
		}
		if len(a.Values) == 0 {
			return nil, fmt.Errorf("axis %s has no values", a.Name)
		}
	}

	scenes := make([]*Scene, 0)
	var walk func(depth int, current params.Parameters, labels []string)
	walk = func(depth int, current params.Parameters, labels []string) {
		if depth == len(axes) {
			scenes = append(scenes, NewScene(strings.Join(labels, ","), current))
			return
		}
		axis := axes[depth]
		for _, v := range axis.Values {
			next := current
			_ = next.Set(axis.Name, v)
			label := axis.Name + "=" + strconv.FormatFloat(v, 'g', 4, 64)
			walk(depth+1, next, append(labels[:len(labels):len(labels)], label))
		}
	}
	walk(0, base, nil)

	return scenes, nil
}
