package testsupport

import (
	"path/filepath"
	"testing"

	"trackstrip/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose log, snapshot and script paths live in a
// unique temp directory per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogFile = filepath.Join(base, "app.log")
	cfgVal.Paths.Snapshot = filepath.Join(base, "media-inventory.db")
	cfgVal.Paths.Script = filepath.Join(base, "process-media-files.sh")

	builder := &configBuilder{t: t, baseDir: base, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}
	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return builder.cfg
}

// WithLanguages sets the default allow-list.
func WithLanguages(codes ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Selection.Languages = codes
	}
}

// WithWorkers sets the probe worker count.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Probe.Workers = n
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.Snapshot)
}
