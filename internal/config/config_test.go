package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lessonkit/internal/config"
)

var envKeys = []string{
	"LESSONKIT_PATH", "LESSONKIT_FORMAT", "LESSONKIT_EXTENSION", "LESSONKIT_INCLUDE",
	"LESSONKIT_LOCALE", "LESSONKIT_KNOWLEDGE_BASE", "LESSONKIT_BACKUP",
	"LESSONKIT_RECURSIVE", "LESSONKIT_MANAGE_MANIFEST",
}

// clearEnv unsets every LESSONKIT_* variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load(filepath.Join(t.TempDir(), "lessonkit.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "lessonkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
lessons:
  path: ./src/lessons
  format: markdown
  recursive: true
  manage_manifest: true
locale: pt-BR
backup: false
generator:
  best_practices: 3
`), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "./src/lessons", cfg.Lessons.Path)
	assert.Equal(t, "markdown", cfg.Lessons.Format)
	assert.True(t, cfg.Lessons.Recursive)
	assert.True(t, cfg.Lessons.ManageManifest)
	assert.Equal(t, "pt-BR", cfg.Locale)
	assert.False(t, cfg.Backup)
	assert.Equal(t, 3, cfg.Generator.BestPractices)
	assert.Equal(t, 5, cfg.Generator.CommonMistakes, "unset keys keep defaults")
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "lessonkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("locale: pt-BR\nbackup: true\n"), 0644))

	t.Setenv("LESSONKIT_LOCALE", "ko")
	t.Setenv("LESSONKIT_BACKUP", "false")
	t.Setenv("LESSONKIT_FORMAT", "markdown")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ko", cfg.Locale)
	assert.False(t, cfg.Backup)
	assert.Equal(t, "markdown", cfg.Lessons.Format)
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LESSONKIT_PATH=./from-dotenv\n"), 0644))

	cfg, err := config.Load(filepath.Join(dir, "lessonkit.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "./from-dotenv", cfg.Lessons.Path)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("lessons: [not, a, map]\n"), 0644))
	_, err := config.Load(bad)
	assert.Error(t, err)

	t.Setenv("LESSONKIT_BACKUP", "sometimes")
	_, err = config.Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "LESSONKIT_BACKUP")
}
