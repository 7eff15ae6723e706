package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/anmol3478/podverification/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t   testing.TB
	cfg *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Render.OutputDir = filepath.Join(base, "annotated")
	cfgVal.Reports.Dir = filepath.Join(base, "reports")
	cfgVal.Server.Bind = "127.0.0.1:0"

	builder := &configBuilder{t: t, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithDataset points the config at a dataset file.
func WithDataset(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Dataset.Path = path
	}
}

// WithThreshold overrides the scoring threshold.
func WithThreshold(v int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scoring.Threshold = v
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Reports.Dir)
}
