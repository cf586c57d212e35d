package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/martin2250/hit-sim/internal/params"
)

const (
	filePrefix      = "hit_sim_"
	artifactSuffix  = ".txt"
	scriptSuffix    = ".mac"
	metadataSuffix  = ".json"
	partialSuffix   = ".partial"
	DefaultScratch  = "/tmp"
	metadataVersion = 1
)

var (
	ErrNotFound  = errors.New("storage: no cached run matches")
	ErrAmbiguous = errors.New("storage: key prefix matches several runs")
)

// Store is the scratch directory shared by every run. An artifact named
// after a key is the only signal that the run for that key has completed.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	if baseDir == "" {
		baseDir = DefaultScratch
	}
	return &Store{baseDir: baseDir}
}

func (s *Store) Dir() string { return s.baseDir }

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) stem(key params.Key) string {
	return filepath.Join(s.baseDir, filePrefix+string(key))
}

// ArtifactPath is where the result table for key lives.
func (s *Store) ArtifactPath(key params.Key) string {
	return s.stem(key) + artifactSuffix
}

// Attempt is one simulator invocation for a key. Every attempt owns its
// script and partial file, so invocations of the same key (possibly from
// other processes) never write to a shared path.
type Attempt struct {
	Key     params.Key
	ID      string
	Script  string
	Partial string
}

func (s *Store) NewAttempt(key params.Key) Attempt {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return Attempt{
		Key:     key,
		ID:      id,
		Script:  s.stem(key) + "." + id + scriptSuffix,
		Partial: s.ArtifactPath(key) + "." + id + partialSuffix,
	}
}

func (s *Store) MetadataPath(key params.Key) string {
	return s.stem(key) + metadataSuffix
}

// Exists reports whether the artifact for key is present.
func (s *Store) Exists(key params.Key) (bool, error) {
	_, err := os.Stat(s.ArtifactPath(key))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("checking artifact: %w", err)
}

// Commit publishes a finished partial artifact under its final name. When
// two attempts of one key finish, the later rename replaces the earlier
// artifact; readers holding the old file keep a complete copy.
func (s *Store) Commit(a Attempt) error {
	if err := os.Rename(a.Partial, s.ArtifactPath(a.Key)); err != nil {
		return fmt.Errorf("committing artifact: %w", err)
	}
	return nil
}

// Discard removes a partial artifact left by a failed run.
func (s *Store) Discard(a Attempt) error {
	err := os.Remove(a.Partial)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// RunMetadata is the informational sidecar written next to an artifact.
// It is never consulted for cache decisions.
type RunMetadata struct {
	Version    int               `json:"version"`
	Key        params.Key        `json:"key"`
	Name       string            `json:"name,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
	DurationMs int64             `json:"duration_ms"`
	Params     params.Parameters `json:"params"`
}

// SaveMetadata writes the sidecar through a temporary file so concurrent
// attempts of one key never leave an interleaved document.
func (s *Store) SaveMetadata(meta RunMetadata) error {
	meta.Version = metadataVersion
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}

	f, err := os.CreateTemp(s.baseDir, filepath.Base(s.MetadataPath(meta.Key))+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return err
	}
	return os.Rename(f.Name(), s.MetadataPath(meta.Key))
}

func (s *Store) LoadMetadata(key params.Key) (*RunMetadata, error) {
	data, err := os.ReadFile(s.MetadataPath(key))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// Entry is one cached artifact found in the scratch directory.
type Entry struct {
	Key     params.Key
	Size    int64
	ModTime time.Time
	Meta    *RunMetadata
}

// List returns the cached artifacts, newest first. Artifacts without a
// sidecar (e.g. produced by an older driver) are listed with nil Meta.
func (s *Store) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, err
	}

	entries := make([]Entry, 0)
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, artifactSuffix) {
			continue
		}

		info, err := de.Info()
		if err != nil {
			continue
		}

		key := params.Key(strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), artifactSuffix))
		entry := Entry{Key: key, Size: info.Size(), ModTime: info.ModTime()}
		if meta, err := s.LoadMetadata(key); err == nil {
			entry.Meta = meta
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ModTime.After(entries[j].ModTime)
	})
	return entries, nil
}

// Resolve expands a key prefix to the single cached key it names.
func (s *Store) Resolve(prefix string) (params.Key, error) {
	entries, err := s.List()
	if err != nil {
		return "", err
	}

	var match params.Key
	for _, e := range entries {
		if !strings.HasPrefix(string(e.Key), prefix) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("%w: %s", ErrAmbiguous, prefix)
		}
		match = e.Key
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, prefix)
	}
	return match, nil
}

// Prune removes partial artifacts older than age. Completed artifacts are
// never removed.
func (s *Store) Prune(age time.Duration) ([]string, error) {
	dirEntries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	cutoff := time.Now().Add(-age)
	removed := make([]string, 0)
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, partialSuffix) {
			continue
		}
		info, err := de.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(s.baseDir, name)
		if err := os.Remove(path); err != nil {
			return removed, err
		}
		removed = append(removed, path)
	}
	return removed, nil
}

type runNameKey struct{}

// WithRunName attaches the name recorded in the sidecar of a run started
// under ctx.
func WithRunName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, runNameKey{}, name)
}

func RunName(ctx context.Context) string {
	name, _ := ctx.Value(runNameKey{}).(string)
	return name
}
