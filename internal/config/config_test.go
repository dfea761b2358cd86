package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cppgraph/indexer/internal/config"
)

func TestApplyEnvOverridesFillsUnsetCompileDB(t *testing.T) {
	t.Setenv("INDEXER_COMPILE_DB", "/env/compile_commands.json")
	cfg := &config.Config{}
	config.ApplyEnvOverrides(cfg)
	require.Equal(t, "/env/compile_commands.json", cfg.CompileDB)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestApplyEnvOverridesLeavesExplicitFlagAlone(t *testing.T) {
	t.Setenv("INDEXER_COMPILE_DB", "/env/compile_commands.json")
	cfg := &config.Config{CompileDB: "/flag/compile_commands.json"}
	config.ApplyEnvOverrides(cfg)
	require.Equal(t, "/flag/compile_commands.json", cfg.CompileDB)
}

func TestApplyEnvOverridesReadsLogLevel(t *testing.T) {
	t.Setenv("INDEXER_LOG_LEVEL", "debug")
	cfg := &config.Config{}
	config.ApplyEnvOverrides(cfg)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestApplyEnvOverridesReadsCreatedAt(t *testing.T) {
	t.Setenv("INDEXER_CREATED_AT", "2026-01-01T00:00:00Z")
	cfg := &config.Config{}
	config.ApplyEnvOverrides(cfg)
	require.Equal(t, "2026-01-01T00:00:00Z", cfg.CreatedAt)
}

func TestApplyEnvOverridesLeavesExplicitCreatedAtAlone(t *testing.T) {
	t.Setenv("INDEXER_CREATED_AT", "2026-01-01T00:00:00Z")
	cfg := &config.Config{CreatedAt: "2026-06-15T00:00:00Z"}
	config.ApplyEnvOverrides(cfg)
	require.Equal(t, "2026-06-15T00:00:00Z", cfg.CreatedAt)
}

func TestValidateRequiresCompileDB(t *testing.T) {
	err := config.Validate(&config.Config{OutputDB: "out", Threads: 1, TUTimeout: time.Minute})
	require.Error(t, err)
}

func TestValidateRequiresOutputDB(t *testing.T) {
	err := config.Validate(&config.Config{CompileDB: "in.json", Threads: 1, TUTimeout: time.Minute})
	require.Error(t, err)
}

func TestValidateRejectsNonPositiveTimeout(t *testing.T) {
	err := config.Validate(&config.Config{CompileDB: "in.json", OutputDB: "out", Threads: 1})
	require.Error(t, err)
}

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	err := config.Validate(&config.Config{CompileDB: "in.json", OutputDB: "out", Threads: 4, TUTimeout: time.Minute})
	require.NoError(t, err)
}

func TestLoadEnvFileMissingPathIsNotAnError(t *testing.T) {
	require.NoError(t, config.LoadEnvFile(filepath.Join(t.TempDir(), "does-not-exist.env")))
}

func TestLoadEnvFileLoadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("INDEXER_LOG_LEVEL=debug\n"), 0o644))

	require.NoError(t, config.LoadEnvFile(path))
	t.Cleanup(func() { t.Setenv("INDEXER_LOG_LEVEL", "") })

	cfg := &config.Config{}
	config.ApplyEnvOverrides(cfg)
	require.Equal(t, "debug", cfg.LogLevel)
}
