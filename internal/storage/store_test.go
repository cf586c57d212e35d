package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/martin2250/hit-sim/internal/params"
)

func TestStorePaths(t *testing.T) {
	st := New("/scratch")
	key := params.Key("abc123")

	if got := st.ArtifactPath(key); got != "/scratch/hit_sim_abc123.txt" {
		t.Errorf("artifact path = %s", got)
	}
	if got := st.MetadataPath(key); got != "/scratch/hit_sim_abc123.json" {
		t.Errorf("metadata path = %s", got)
	}

	if New("").Dir() != DefaultScratch {
		t.Error("empty base dir should fall back to the default scratch dir")
	}
}

func TestStoreAttemptsAreDistinct(t *testing.T) {
	st := New("/scratch")
	key := params.Key("abc123")

	a, b := st.NewAttempt(key), st.NewAttempt(key)
	if a.ID == b.ID || a.Script == b.Script || a.Partial == b.Partial {
		t.Fatalf("attempts share paths: %+v %+v", a, b)
	}
	if !strings.HasPrefix(a.Partial, "/scratch/hit_sim_abc123.txt."+a.ID) || !strings.HasSuffix(a.Partial, ".partial") {
		t.Errorf("partial path = %s", a.Partial)
	}
	if a.Script != "/scratch/hit_sim_abc123."+a.ID+".mac" {
		t.Errorf("script path = %s", a.Script)
	}
}

func TestStoreCommitLastWins(t *testing.T) {
	st := New(t.TempDir())
	key := params.Key("k")
	first, second := st.NewAttempt(key), st.NewAttempt(key)

	if err := os.WriteFile(first.Partial, []byte("first\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(second.Partial, []byte("second\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := st.Commit(first); err != nil {
		t.Fatalf("first commit failed: %v", err)
	}
	if err := st.Commit(second); err != nil {
		t.Fatalf("second commit failed: %v", err)
	}

	data, err := os.ReadFile(st.ArtifactPath(key))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "second\n" {
		t.Errorf("artifact = %q, want the later commit", data)
	}
}

func TestStoreExistsCommit(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	key := params.Fingerprint(params.Default())

	ok, err := st.Exists(key)
	if err != nil || ok {
		t.Fatalf("expected miss, got %v %v", ok, err)
	}

	attempt := st.NewAttempt(key)
	if err := os.WriteFile(attempt.Partial, []byte("0 0 0 0 0 1 10 proton\n"), 0644); err != nil {
		t.Fatal(err)
	}
	ok, _ = st.Exists(key)
	if ok {
		t.Error("a partial artifact must not count as a hit")
	}

	if err := st.Commit(attempt); err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	ok, err = st.Exists(key)
	if err != nil || !ok {
		t.Fatalf("expected hit after commit, got %v %v", ok, err)
	}
	if _, err := os.Stat(attempt.Partial); !os.IsNotExist(err) {
		t.Error("partial file should be gone after commit")
	}
}

func TestStoreDiscard(t *testing.T) {
	st := New(t.TempDir())
	attempt := st.NewAttempt(params.Key("k"))

	if err := st.Discard(attempt); err != nil {
		t.Errorf("discarding a missing partial should succeed: %v", err)
	}
	if err := os.WriteFile(attempt.Partial, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := st.Discard(attempt); err != nil {
		t.Fatalf("discard failed: %v", err)
	}
	if _, err := os.Stat(attempt.Partial); !os.IsNotExist(err) {
		t.Error("partial file still present")
	}
}

func TestStoreListResolve(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	entries, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected 0 entries, got %d", len(entries))
	}

	p := params.Default()
	key := params.Fingerprint(p)
	if err := os.WriteFile(st.ArtifactPath(key), []byte("0 0 0 0 0 1 10 proton\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := st.SaveMetadata(RunMetadata{Key: key, Name: "base", Params: p, Timestamp: time.Now()}); err != nil {
		t.Fatalf("save metadata failed: %v", err)
	}
	// unrelated files are ignored
	os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("x"), 0644)
	os.WriteFile(st.NewAttempt(key).Script, []byte("/run/initialize\n"), 0644)

	entries, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Key != key {
		t.Errorf("listed key %s, want %s", entries[0].Key, key)
	}
	if entries[0].Meta == nil || entries[0].Meta.Name != "base" || entries[0].Meta.Params != p {
		t.Errorf("metadata not loaded: %+v", entries[0].Meta)
	}

	got, err := st.Resolve(string(key[:8]))
	if err != nil || got != key {
		t.Errorf("resolve = %s, %v", got, err)
	}

	_, err = st.Resolve("zzzz")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreResolveAmbiguous(t *testing.T) {
	st := New(t.TempDir())
	for _, k := range []params.Key{"aa11", "aa22"} {
		if err := os.WriteFile(st.ArtifactPath(k), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	_, err := st.Resolve("aa")
	if !errors.Is(err, ErrAmbiguous) {
		t.Errorf("expected ErrAmbiguous, got %v", err)
	}
}

func TestStorePrune(t *testing.T) {
	st := New(t.TempDir())
	old := st.NewAttempt(params.Key("old"))
	fresh := st.NewAttempt(params.Key("fresh"))

	for _, a := range []Attempt{old, fresh} {
		if err := os.WriteFile(a.Partial, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(st.ArtifactPath(old.Key), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-2 * time.Hour)
	os.Chtimes(old.Partial, past, past)
	os.Chtimes(st.ArtifactPath(old.Key), past, past)

	removed, err := st.Prune(time.Hour)
	if err != nil {
		t.Fatalf("prune failed: %v", err)
	}
	if len(removed) != 1 || removed[0] != old.Partial {
		t.Errorf("unexpected removals: %v", removed)
	}
	if _, err := os.Stat(st.ArtifactPath(old.Key)); err != nil {
		t.Error("prune must never remove completed artifacts")
	}
	if _, err := os.Stat(fresh.Partial); err != nil {
		t.Error("fresh partial should survive")
	}
}
