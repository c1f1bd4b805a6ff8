package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/kotoba/internal/vocab"
)

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kotoba.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// isolate points the default lookup at an empty directory.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("KOTOBA_CONFIG", "")
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "public/data", cfg.DataDir)
	assert.Equal(t, []string{"N1", "N2", "N3"}, cfg.Levels)
	assert.Equal(t, "curation_report.txt", cfg.Report.Path)
	assert.Equal(t, 5, cfg.Repair.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.Repair.Delay)
	assert.Equal(t, 50, cfg.Augment.BatchSize)
	assert.Equal(t, 200*time.Millisecond, cfg.Augment.Delay)
	assert.Equal(t, "Traditional Chinese (Taiwan)", cfg.Augment.Language)
	assert.Equal(t, time.Second, cfg.Pipeline.LevelCooldown)
	assert.Equal(t, 1, cfg.LLM.Retry.MaxAttempts)
	assert.Equal(t, 120*time.Second, cfg.LLM.Timeout)
}

func TestLoad_YAMLAndEnvOverride(t *testing.T) {
	isolate(t)
	path := writeYAML(t, `
data_dir: fixtures
levels: [n3]
report:
  path: out/report.txt
repair:
  batch_size: 3
  delay: 0s
augment:
  language: English
llm:
  provider: mock
`)
	t.Setenv("KOTOBA_AUGMENT_BATCH_SIZE", "10")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fixtures", cfg.DataDir)
	assert.Equal(t, 3, cfg.Repair.BatchSize)
	assert.Equal(t, 10, cfg.Augment.BatchSize)
	assert.Equal(t, "English", cfg.Augment.Language)
	assert.Equal(t, "out/report.txt", cfg.Report.Path)
	assert.Equal(t, "mock", cfg.LLM.Provider)

	levels, err := cfg.ParsedLevels()
	require.NoError(t, err)
	assert.Equal(t, []vocab.Level{vocab.LevelN3}, levels)
}

func TestLoad_EnvConfigPath(t *testing.T) {
	isolate(t)
	t.Setenv("KOTOBA_CONFIG", writeYAML(t, "data_dir: from-env-path\n"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-env-path", cfg.DataDir)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_ValidationFails(t *testing.T) {
	isolate(t)
	_, err := Load(writeYAML(t, "levels: [N9]\nrepair:\n  batch_size: -1\n"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "unknown level")
	assert.ErrorContains(t, err, "repair.batch_size")
}

func TestParsedLevels_Dedup(t *testing.T) {
	cfg := Config{Levels: []string{"n2", " N2 ", "N1"}}
	levels, err := cfg.ParsedLevels()
	require.NoError(t, err)
	assert.Equal(t, []vocab.Level{vocab.LevelN2, vocab.LevelN1}, levels)

	_, err = Config{}.ParsedLevels()
	assert.Error(t, err)
}

func TestPassOptions(t *testing.T) {
	cfg := Config{
		Repair:  RepairConfig{BatchSize: 5, Delay: time.Second, MaxTokens: 100, Temperature: 0.3},
		Augment: AugmentConfig{BatchSize: 40, Delay: time.Millisecond, MaxTokens: 200, Language: "English"},
	}
	gen := cfg.Generation()
	assert.Equal(t, 100, gen.RepairMaxTokens)
	assert.Equal(t, 200, gen.GlossMaxTokens)
	assert.InDelta(t, 0.3, gen.Temperature, 1e-9)

	assert.Equal(t, 5, cfg.RepairOptions().BatchSize)
	assert.Equal(t, "English", cfg.AugmentOptions().Language)
	assert.Equal(t, 40, cfg.AugmentOptions().BatchSize)
}
