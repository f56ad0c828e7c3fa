// Package config loads lessonkit settings from a YAML file, a .env file and
// LESSONKIT_* environment variables, in increasing order of precedence.
// Command-line flags are applied on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up when none is given.
const DefaultFile = "lessonkit.yaml"

// Config is the merged configuration.
type Config struct {
	Lessons struct {
		Path           string `yaml:"path"`
		Format         string `yaml:"format"`
		Extension      string `yaml:"extension"`
		Recursive      bool   `yaml:"recursive"`
		Include        string `yaml:"include"`
		Manifest       string `yaml:"manifest"`
		ManageManifest bool   `yaml:"manage_manifest"`
	} `yaml:"lessons"`
	Locale        string `yaml:"locale"`
	KnowledgeBase string `yaml:"knowledge_base"`
	Backup        bool   `yaml:"backup"`
	Generator     struct {
		BestPractices  int `yaml:"best_practices"`
		CommonMistakes int `yaml:"common_mistakes"`
	} `yaml:"generator"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	cfg := &Config{
		Locale: "ko",
		Backup: true,
	}
	cfg.Lessons.Path = "."
	cfg.Lessons.Format = "literal"
	cfg.Generator.BestPractices = 5
	cfg.Generator.CommonMistakes = 5
	return cfg
}

// Load reads the config at path. A missing file is not an error: defaults and
// the environment still apply. A .env file next to the config is loaded first
// and never overrides variables already set.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultFile
	}

	// 1. Load .env if exists
	_ = godotenv.Load(filepath.Join(filepath.Dir(path), ".env"))

	// 2. Load YAML config over the defaults
	cfg := Default()
	file, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("invalid config %s: %w", path, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// 3. Override with environment variables if present
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	texts := map[string]*string{
		"LESSONKIT_PATH":           &c.Lessons.Path,
		"LESSONKIT_FORMAT":         &c.Lessons.Format,
		"LESSONKIT_EXTENSION":      &c.Lessons.Extension,
		"LESSONKIT_INCLUDE":        &c.Lessons.Include,
		"LESSONKIT_LOCALE":         &c.Locale,
		"LESSONKIT_KNOWLEDGE_BASE": &c.KnowledgeBase,
	}
	for key, dst := range texts {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"LESSONKIT_BACKUP":          &c.Backup,
		"LESSONKIT_RECURSIVE":       &c.Lessons.Recursive,
		"LESSONKIT_MANAGE_MANIFEST": &c.Lessons.ManageManifest,
	}
	for key, dst := range bools {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = b
	}
	return nil
}
