package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/martin2250/hit-sim/internal/params"
	"github.com/martin2250/hit-sim/internal/sweep"
)

const (
	DefaultScratchDir = "/tmp"
	DefaultSimulator  = "./release/hit_sim"
	DefaultWorkers    = sweep.DefaultWorkers
	DefaultEnvGlob    = "/etc/profile.d/geant4*.sh"
	DefaultLogLevel   = "info"
)

type Config struct {
	ScratchDir string            `yaml:"scratch_dir"`
	Simulator  string            `yaml:"simulator"`
	Workers    int               `yaml:"workers"`
	EnvGlobs   []string          `yaml:"env_globs"`
	Env        map[string]string `yaml:"env,omitempty"`
	IsolateEnv bool              `yaml:"isolate_env"`
	LogLevel   string            `yaml:"log_level"`
	Scenes     []SceneConfig     `yaml:"scenes,omitempty"`
	Sweeps     []SweepConfig     `yaml:"sweeps,omitempty"`
}

// SceneConfig is a named parameter set. Fields left out of the YAML keep
// their defaults.
type SceneConfig struct {
	Name   string            `yaml:"name"`
	Params params.Parameters `yaml:",inline"`
}

func (s *SceneConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain SceneConfig
	p := plain{Params: params.Default()}
	if err := value.Decode(&p); err != nil {
		return err
	}
	*s = SceneConfig(p)
	return nil
}

// SweepConfig expands into one scene per grid point.
type SweepConfig struct {
	Name string       `yaml:"name"`
	Base SceneConfig  `yaml:"base"`
	Axes []AxisConfig `yaml:"axes"`
}

func (s *SweepConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain SweepConfig
	p := plain{Base: SceneConfig{Params: params.Default()}}
	if err := value.Decode(&p); err != nil {
		return err
	}
	*s = SweepConfig(p)
	return nil
}

// AxisConfig lists values explicitly or as a linspace.
type AxisConfig struct {
	Name     string          `yaml:"name"`
	Values   []float64       `yaml:"values,omitempty"`
	Linspace *LinspaceConfig `yaml:"linspace,omitempty"`
}

type LinspaceConfig struct {
	Start float64 `yaml:"start"`
	Stop  float64 `yaml:"stop"`
	N     int     `yaml:"n"`
}

func (a AxisConfig) Axis() sweep.Axis {
	values := append([]float64(nil), a.Values...)
	if a.Linspace != nil {
		values = append(values, sweep.Linspace(a.Linspace.Start, a.Linspace.Stop, a.Linspace.N)...)
	}
	return sweep.Axis{Name: a.Name, Values: values}
}

func DefaultConfig() *Config {
	return &Config{
		ScratchDir: DefaultScratchDir,
		Simulator:  DefaultSimulator,
		Workers:    DefaultWorkers,
		EnvGlobs:   []string{DefaultEnvGlob},
		LogLevel:   DefaultLogLevel,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnvOverrides lets HITSIM_SIMULATOR, HITSIM_SCRATCH and
// HITSIM_WORKERS replace file values.
func (c *Config) ApplyEnvOverrides() error {
	if v := os.Getenv("HITSIM_SIMULATOR"); v != "" {
		c.Simulator = v
	}
	if v := os.Getenv("HITSIM_SCRATCH"); v != "" {
		c.ScratchDir = v
	}
	if v := os.Getenv("HITSIM_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("HITSIM_WORKERS: %w", err)
		}
		c.Workers = n
	}
	return nil
}

// BuildScenes returns the configured scenes followed by every sweep's grid.
// Sweep scenes are named "<sweep>/<axis=value,...>".
func (c *Config) BuildScenes() ([]*sweep.Scene, error) {
	scenes := make([]*sweep.Scene, 0, len(c.Scenes))
	for i, sc := range c.Scenes {
		name := sc.Name
		if name == "" {
			name = fmt.Sprintf("scene%d", i)
		}
		scenes = append(scenes, sweep.NewScene(name, sc.Params))
	}

	for _, sw := range c.Sweeps {
		axes := make([]sweep.Axis, len(sw.Axes))
		for i, a := range sw.Axes {
			axes[i] = a.Axis()
		}
		grid, err := sweep.Grid(sw.Base.Params, axes...)
		if err != nil {
			return nil, fmt.Errorf("sweep %q: %w", sw.Name, err)
		}
		for _, sc := range grid {
			sc.Name = sw.Name + "/" + sc.Name
		}
		scenes = append(scenes, grid...)
	}
	return scenes, nil
}
