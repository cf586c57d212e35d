package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/martin2250/hit-sim/internal/params"
	"github.com/martin2250/hit-sim/internal/runner"
	"github.com/martin2250/hit-sim/internal/storage"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"simulator exit", &runner.ExitError{Code: 7}, 7},
		{"wrapped simulator exit", fmt.Errorf("scene %q: %w", "water", &runner.ExitError{Code: 3}), 3},
		{"killed by signal", &runner.ExitError{Code: -1}, 1},
		{"other", errors.New("boom"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func TestLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hitsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\n"), 0644))

	execute(t, "fingerprint", "--short")
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))

	execute(t, "--config", path, "fingerprint", "--short")
	assert.True(t, logger.Core().Enabled(zap.DebugLevel), "log_level from the config file")

	execute(t, "--config", path, "--log-level", "warn", "fingerprint", "--short")
	assert.False(t, logger.Core().Enabled(zap.InfoLevel), "flag overrides the config file")
}

func TestScriptTargetsPartialFile(t *testing.T) {
	dir := t.TempDir()
	out := execute(t, "--scratch", dir, "script", "--gap-position", "0.5")

	p := params.Default().WithGapPosition(0.5)
	artifact := storage.New(dir).ArtifactPath(params.Fingerprint(p))

	var fileOpen string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "/hit_sim/file_open ") {
			fileOpen = strings.TrimPrefix(line, "/hit_sim/file_open ")
		}
	}
	assert.True(t, strings.HasPrefix(fileOpen, artifact+"."), "file_open %q", fileOpen)
	assert.True(t, strings.HasSuffix(fileOpen, ".partial"), "file_open %q", fileOpen)
	assert.Contains(t, out, "/hit_sim/set_gap_position 0.50 mm\n")
}
