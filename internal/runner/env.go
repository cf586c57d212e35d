package runner

import (
	"os"
	"sort"
	"strings"
)

// environ builds the child environment: the parent's variables (unless
// isolated) overlaid with the configured ones in key order.
func environ(base []string, extra map[string]string, isolate bool) []string {
	merged := make(map[string]string)
	if !isolate {
		for _, kv := range base {
			k, v, ok := strings.Cut(kv, "=")
			if ok {
				merged[k] = v
			}
		}
	}
	for k, v := range extra {
		merged[k] = v
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+merged[k])
	}
	return env
}

func (r *Runner) environ() []string {
	return environ(os.Environ(), r.cfg.Env, r.cfg.IsolateEnv)
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	max int
	buf []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = t.buf[over:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	return strings.TrimSpace(string(t.buf))
}
