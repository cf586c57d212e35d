package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRunCounters(t *testing.T) {
	m := NewRun()

	m.CacheHit()
	m.CacheMiss()
	m.CacheMiss()
	m.Executed(2*time.Second, true)
	m.Executed(time.Second, false)
	m.Parsed(40)
	m.ParseFailed()

	if got := testutil.ToFloat64(m.cacheLookups.WithLabelValues("hit")); got != 1 {
		t.Errorf("expected 1 hit, got %v", got)
	}
	if got := testutil.ToFloat64(m.cacheLookups.WithLabelValues("miss")); got != 2 {
		t.Errorf("expected 2 misses, got %v", got)
	}
	if got := testutil.ToFloat64(m.executions.WithLabelValues("failed")); got != 1 {
		t.Errorf("expected 1 failed run, got %v", got)
	}
	if got := testutil.ToFloat64(m.rowsParsed); got != 40 {
		t.Errorf("expected 40 rows, got %v", got)
	}
}

func TestRunNilReceiver(t *testing.T) {
	var m *Run
	m.CacheHit()
	m.CacheMiss()
	m.Executed(time.Second, true)
	m.Parsed(1)
	m.ParseFailed()
	m.SceneStarted()
	m.SceneDone()
}

func TestWriteTextfile(t *testing.T) {
	m := NewRun()
	m.CacheHit()

	path := filepath.Join(t.TempDir(), "hitsim.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `hitsim_cache_lookups_total{outcome="hit"} 1`) {
		t.Errorf("textfile missing counter:\n%s", data)
	}
}
