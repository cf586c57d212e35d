// Package toolenv collects Geant4 toolchain variables from the shell
// profile scripts a Geant4 installation drops into /etc/profile.d.
//
// Only plain "export G4NAME=value" lines are understood; nothing is
// executed. The result is handed to the runner explicitly, so the
// orchestrator's own environment is never modified.
package toolenv

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Prefix selects which exported variables are collected.
const Prefix = "G4"

// Load reads every file matching the globs, in sorted order; later files
// override earlier ones. A glob that matches nothing is not an error.
func Load(globs ...string) (map[string]string, error) {
	env := make(map[string]string)
	for _, pattern := range globs {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad glob %q: %w", pattern, err)
		}
		sort.Strings(matches)
		for _, path := range matches {
			if err := loadFile(path, env); err != nil {
				return nil, err
			}
		}
	}
	return env, nil
}

func loadFile(path string, env map[string]string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := Parse(f, env); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Parse adds the G4 exports found in r to env.
func Parse(r io.Reader, env map[string]string) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		rest, ok := strings.CutPrefix(line, "export ")
		if !ok {
			continue
		}
		rest = strings.TrimSpace(rest)
		if !strings.HasPrefix(rest, Prefix) {
			continue
		}
		name, value, found := strings.Cut(rest, "=")
		if !found || name == "" {
			continue
		}
		env[name] = unquote(value)
	}
	return sc.Err()
}

func unquote(v string) string {
	if len(v) >= 2 {
		if (v[0] == '"' && v[len(v)-1] == '"') || (v[0] == '\'' && v[len(v)-1] == '\'') {
			return v[1 : len(v)-1]
		}
	}
	return v
}
