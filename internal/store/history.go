package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leapbridge/pkg/core"
)

// historyLimit caps the retained query-performance samples; the oldest
// entries are evicted once the cap is exceeded.
const historyLimit = 200

// slowQueryThreshold triggers the EXPLAIN suggestion.
const slowQueryThreshold = time.Second

// largeResultThreshold triggers the missing-WHERE suggestion.
const largeResultThreshold = 1000

// History is the capped, YAML-persisted query-performance log.
type History struct {
	mu      sync.Mutex
	path    string
	logger  *slog.Logger
	samples []core.QuerySample
}

// NewHistory opens (or creates) the history file at path.
func NewHistory(path string, logger *slog.Logger) (*History, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	h := &History{path: path, logger: logger}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return h, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &h.samples); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return h, nil
}

// Record appends a sample, generates optimization suggestions, evicts
// beyond the retention cap, and persists synchronously.
func (h *History) Record(sample core.QuerySample) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	sample.ID = uuid.New().String()
	if sample.ExecutedAt.IsZero() {
		sample.ExecutedAt = time.Now().UTC()
	}
	sample.Suggestions = suggest(sample)

	h.samples = append(h.samples, sample)
	if len(h.samples) > historyLimit {
		h.samples = h.samples[len(h.samples)-historyLimit:]
	}

	return h.save()
}

// List returns the retained samples, newest last.
func (h *History) List() []core.QuerySample {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]core.QuerySample, len(h.samples))
	copy(out, h.samples)
	return out
}

func (h *History) save() error {
	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	data, err := yaml.Marshal(h.samples)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	tmp := h.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	return os.Rename(tmp, h.path)
}

// suggest derives simple optimization hints from a sample.
func suggest(sample core.QuerySample) []string {
	var out []string
	upper := strings.ToUpper(sample.SQL)

	if strings.Contains(upper, "SELECT *") {
		out = append(out, "select only the columns you need instead of SELECT *")
	}
	if sample.RowCount >= largeResultThreshold && !strings.Contains(upper, "WHERE") {
		out = append(out, "large result set without a WHERE clause; consider filtering or paginating")
	}
	if sample.Duration >= slowQueryThreshold {
		out = append(out, "query exceeded 1s; inspect the plan with EXPLAIN")
	}
	return out
}
