// Package config loads kotoba's settings from an optional YAML file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/kotoba/internal/curate"
	"github.com/abhisek/kotoba/internal/generation"
	"github.com/abhisek/kotoba/internal/llm"
	"github.com/abhisek/kotoba/internal/vocab"
)

// Config is the full application configuration.
type Config struct {
	DataDir  string         `yaml:"data_dir" env:"KOTOBA_DATA_DIR" env-default:"public/data"`
	Levels   []string       `yaml:"levels"   env:"KOTOBA_LEVELS"   env-default:"N1,N2,N3"`
	DBPath   string         `yaml:"db_path"  env:"KOTOBA_DB"`
	Report   ReportConfig   `yaml:"report"`
	Log      LogConfig      `yaml:"log"`
	Repair   RepairConfig   `yaml:"repair"`
	Augment  AugmentConfig  `yaml:"augment"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	LLM      llm.Config     `yaml:"llm"`
}

type ReportConfig struct {
	Path string `yaml:"path" env:"KOTOBA_REPORT_PATH" env-default:"curation_report.txt"`
}

type LogConfig struct {
	Mode  string `yaml:"mode"  env:"KOTOBA_LOG_MODE"  env-default:"dev"`
	Level string `yaml:"level" env:"KOTOBA_LOG_LEVEL" env-default:"info"`
}

// RepairConfig tunes the distractor repair pass.
type RepairConfig struct {
	BatchSize   int           `yaml:"batch_size"  env:"KOTOBA_REPAIR_BATCH_SIZE"  env-default:"5"`
	Delay       time.Duration `yaml:"delay"       env:"KOTOBA_REPAIR_DELAY"       env-default:"500ms"`
	MaxTokens   int           `yaml:"max_tokens"  env:"KOTOBA_REPAIR_MAX_TOKENS"  env-default:"4096"`
	Temperature float64       `yaml:"temperature" env:"KOTOBA_REPAIR_TEMPERATURE" env-default:"0.2"`
}

// AugmentConfig tunes the meaning augmentation pass.
type AugmentConfig struct {
	BatchSize int           `yaml:"batch_size" env:"KOTOBA_AUGMENT_BATCH_SIZE" env-default:"50"`
	Delay     time.Duration `yaml:"delay"      env:"KOTOBA_AUGMENT_DELAY"      env-default:"200ms"`
	MaxTokens int           `yaml:"max_tokens" env:"KOTOBA_AUGMENT_MAX_TOKENS" env-default:"8192"`
	Language  string        `yaml:"language"   env:"KOTOBA_AUGMENT_LANGUAGE"   env-default:"Traditional Chinese (Taiwan)"`
}

type PipelineConfig struct {
	// LevelCooldown is the pause between levels in a full run.
	LevelCooldown time.Duration `yaml:"level_cooldown" env:"KOTOBA_LEVEL_COOLDOWN" env-default:"1s"`
}

// Validate checks pass settings and levels. Provider keys are checked
// separately by commands that need a provider.
func (c Config) Validate() error {
	var errs []error
	if c.DataDir == "" {
		errs = append(errs, errors.New("data_dir is required"))
	}
	if _, err := c.ParsedLevels(); err != nil {
		errs = append(errs, err)
	}
	if c.Repair.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("repair.batch_size must be positive, got %d", c.Repair.BatchSize))
	}
	if c.Augment.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("augment.batch_size must be positive, got %d", c.Augment.BatchSize))
	}
	if c.Repair.Delay < 0 || c.Augment.Delay < 0 || c.Pipeline.LevelCooldown < 0 {
		errs = append(errs, errors.New("delays must not be negative"))
	}
	return errors.Join(errs...)
}

// ParsedLevels returns the configured levels in order, without repeats.
func (c Config) ParsedLevels() ([]vocab.Level, error) {
	if len(c.Levels) == 0 {
		return nil, errors.New("levels must not be empty")
	}
	out := make([]vocab.Level, 0, len(c.Levels))
	seen := make(map[vocab.Level]bool, len(c.Levels))
	for _, s := range c.Levels {
		l, err := vocab.ParseLevel(s)
		if err != nil {
			return nil, err
		}
		if seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out, nil
}

// Generation returns the client settings for both passes.
func (c Config) Generation() generation.Config {
	return generation.Config{
		RepairMaxTokens: c.Repair.MaxTokens,
		GlossMaxTokens:  c.Augment.MaxTokens,
		Temperature:     c.Repair.Temperature,
	}
}

func (c Config) RepairOptions() curate.RepairConfig {
	return curate.RepairConfig{BatchSize: c.Repair.BatchSize, Delay: c.Repair.Delay}
}

func (c Config) AugmentOptions() curate.AugmentConfig {
	return curate.AugmentConfig{
		BatchSize: c.Augment.BatchSize,
		Delay:     c.Augment.Delay,
		Language:  c.Augment.Language,
	}
}
