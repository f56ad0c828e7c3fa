package fs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lessonkit/pkg/adapters/fs"
	"github.com/aretw0/lessonkit/pkg/core"
)

// setupRepo creates a repository over a temp directory seeded with files.
func setupRepo(t *testing.T, files map[string]string, opts ...func(*fs.Config)) (*fs.Repository, string) {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	cfg := fs.Config{Path: dir, SecondaryLocale: "ko"}
	for _, opt := range opts {
		opt(&cfg)
	}
	repo, err := fs.NewRepository(cfg)
	require.NoError(t, err)
	require.NoError(t, repo.Initialize(context.Background()))
	return repo, dir
}

func literalFiles(t *testing.T) map[string]string {
	return map[string]string{
		"express-routing.ts":        string(readFixture(t, "routing.ts")),
		"intro.js":                  string(readFixture(t, "default_ref.js")),
		"index.ts":                  "export * from './express-routing';\n",
		"express-routing.ts.backup": "old",
		"lessonkit-tmp-123":         "partial",
		"types.d.ts":                "export interface Lesson {}\n",
		"README.md":                 "# Lessons\n",
		"advanced/deep-dive.ts":     "export const deepDiveLesson = { id: 'deep-dive', title: 'Deep', contentPrimary: `x` };\nexport default deepDiveLesson;\n",
		"routing.test.ts":           "test('x', () => {});\n",
	}
}

func ids(entries []core.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestList(t *testing.T) {
	ctx := context.Background()

	t.Run("Excludes Manifest And Scratch Files", func(t *testing.T) {
		repo, _ := setupRepo(t, literalFiles(t))
		entries, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"express-routing", "intro"}, ids(entries))
	})

	t.Run("Recursive", func(t *testing.T) {
		repo, _ := setupRepo(t, literalFiles(t), func(c *fs.Config) { c.Recursive = true })
		entries, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"advanced/deep-dive", "express-routing", "intro"}, ids(entries))
	})

	t.Run("Include Pattern", func(t *testing.T) {
		repo, _ := setupRepo(t, literalFiles(t), func(c *fs.Config) {
			c.Recursive = true
			c.Include = "advanced/**"
		})
		entries, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"advanced/deep-dive"}, ids(entries))
	})
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	repo, dir := setupRepo(t, map[string]string{
		"lesson-1.ts": string(readFixture(t, "routing.ts")),
	})

	doc, err := repo.Get(ctx, "lesson-1")
	require.NoError(t, err)
	assert.Equal(t, "express-routing", doc.ID)
	assert.Equal(t, filepath.Join(dir, "lesson-1.ts"), doc.Source)

	// Falls back to the id field when no file carries the id as its name.
	doc, err = repo.Get(ctx, "express-routing")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "lesson-1.ts"), doc.Source)

	_, err = repo.Get(ctx, "missing")
	assert.True(t, errors.Is(err, core.ErrNotFound), "got %v", err)
}

func TestGet_StaysInsidePath(t *testing.T) {
	ctx := context.Background()
	_, root := setupRepo(t, map[string]string{
		"lessons/lesson-1.ts": string(readFixture(t, "routing.ts")),
		"outside.ts":          string(readFixture(t, "routing.ts")),
	})
	repo, err := fs.NewRepository(fs.Config{Path: filepath.Join(root, "lessons"), SecondaryLocale: "ko"})
	require.NoError(t, err)
	require.NoError(t, repo.Initialize(ctx))

	for _, id := range []string{"../outside", "sub/../../outside", filepath.Join(root, "outside")} {
		_, err := repo.Get(ctx, id)
		assert.ErrorIs(t, err, core.ErrNotFound, "id %q", id)
	}

	doc, err := repo.Get(ctx, "lesson-1")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "lessons", "lesson-1.ts"), doc.Source)
}

func TestSave_RejectsIDOutsidePath(t *testing.T) {
	ctx := context.Background()
	_, root := setupRepo(t, map[string]string{"lessons/.keep": ""})
	repo, err := fs.NewRepository(fs.Config{Path: filepath.Join(root, "lessons"), SecondaryLocale: "ko"})
	require.NoError(t, err)
	require.NoError(t, repo.Initialize(ctx))

	doc := core.Document{ID: "../escaped", Title: "Escaped", ContentPrimary: "# Escaped\n"}
	_, err = repo.Save(ctx, doc, core.SaveOptions{})
	assert.ErrorIs(t, err, core.ErrInvalidDocument)
	_, err = repo.Preview(ctx, doc)
	assert.ErrorIs(t, err, core.ErrInvalidDocument)

	_, statErr := os.Stat(filepath.Join(root, "escaped.ts"))
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "file written outside the lesson directory")
}

func TestSave_Backup(t *testing.T) {
	ctx := context.Background()
	repo, dir := setupRepo(t, literalFiles(t))
	path := filepath.Join(dir, "express-routing.ts")
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	doc, err := repo.Get(ctx, "express-routing")
	require.NoError(t, err)
	doc.ContentPrimary = "# Express Routing\n\n## Core Concepts\n\nRewritten.\n"
	doc.EstimatedTime = "45 min"

	report, err := repo.Save(ctx, doc, core.SaveOptions{Backup: true})
	require.NoError(t, err)
	assert.True(t, report.Valid, "missing: %v", report.Missing)
	assert.Equal(t, path, report.Path)
	assert.Equal(t, path+fs.BackupSuffix, report.BackupPath)

	backup, err := os.ReadFile(report.BackupPath)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(backup))

	reloaded, err := repo.Get(ctx, "express-routing")
	require.NoError(t, err)
	assert.Equal(t, doc.ContentPrimary, reloaded.ContentPrimary)
	assert.Equal(t, "45 min", reloaded.EstimatedTime)
	assert.Equal(t, doc.Extra, reloaded.Extra)

	state := repo.State().(fs.RepositoryState)
	assert.Equal(t, 1, state.Writes)
	assert.Equal(t, 1, state.Backups)
}

func TestSave_NoBackup(t *testing.T) {
	ctx := context.Background()
	repo, dir := setupRepo(t, map[string]string{"intro.js": string(readFixture(t, "default_ref.js"))})

	doc, err := repo.Get(ctx, "intro")
	require.NoError(t, err)
	report, err := repo.Save(ctx, doc, core.SaveOptions{})
	require.NoError(t, err)
	assert.Empty(t, report.BackupPath)
	assert.True(t, report.Valid)

	_, err = os.Stat(filepath.Join(dir, "intro.js"+fs.BackupSuffix))
	assert.True(t, os.IsNotExist(err))
}

func TestPreview_LeavesFilesUntouched(t *testing.T) {
	ctx := context.Background()
	repo, dir := setupRepo(t, literalFiles(t))
	path := filepath.Join(dir, "express-routing.ts")
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	doc, err := repo.Get(ctx, "express-routing")
	require.NoError(t, err)
	doc.ContentPrimary = "changed"

	report, err := repo.Preview(ctx, doc)
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.True(t, report.Valid)
	assert.Greater(t, report.Bytes, 0)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	backup, err := os.ReadFile(path + fs.BackupSuffix)
	require.NoError(t, err)
	assert.Equal(t, "old", string(backup), "preview must not touch backups")
}

func TestSave_ReadOnly(t *testing.T) {
	repo, _ := setupRepo(t, literalFiles(t), func(c *fs.Config) { c.ReadOnly = true })
	_, err := repo.Save(context.Background(), core.Document{ID: "x", ContentPrimary: "y"}, core.SaveOptions{})
	assert.ErrorIs(t, err, core.ErrReadOnly)
}

func TestSave_Manifest(t *testing.T) {
	ctx := context.Background()
	repo, dir := setupRepo(t, literalFiles(t), func(c *fs.Config) { c.ManageManifest = true })

	doc, err := repo.Get(ctx, "intro")
	require.NoError(t, err)
	_, err = repo.Save(ctx, doc, core.SaveOptions{})
	require.NoError(t, err)

	index, err := os.ReadFile(filepath.Join(dir, "index.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "import expressRoutingLesson from './express-routing';\n")
	assert.Contains(t, string(index), "import introJsLesson from './intro';\n")
	assert.Contains(t, string(index), "export default lessons;\n")

	entries, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"express-routing", "intro"}, ids(entries))
}

func TestNewRepository_Errors(t *testing.T) {
	_, err := fs.NewRepository(fs.Config{Path: t.TempDir(), Format: "docx"})
	assert.Error(t, err)

	_, err = fs.NewRepository(fs.Config{Path: t.TempDir(), Extension: ".md"})
	assert.Error(t, err)

	_, err = fs.NewRepository(fs.Config{Path: t.TempDir(), Include: "[unclosed"})
	assert.Error(t, err)
}
