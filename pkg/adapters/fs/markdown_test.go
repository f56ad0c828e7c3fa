package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lessonkit/pkg/adapters/fs"
	"github.com/aretw0/lessonkit/pkg/core"
)

const markdownLesson = `---
id: middleware
title: Middleware
difficulty: hard
estimated_time: 20 min
has_visualization: false
has_exercise: true
order: 4
---
# Middleware

## Core Concepts

Functions that run in order.
`

func TestMarkdown_ParseAndSerialize(t *testing.T) {
	s := fs.NewMarkdownSerializer("ko")
	doc, err := s.Parse("middleware.md", []byte(markdownLesson))
	require.NoError(t, err)

	assert.Equal(t, "middleware", doc.ID)
	assert.Equal(t, core.DifficultyHard, doc.Difficulty)
	assert.Equal(t, "20 min", doc.EstimatedTime)
	assert.True(t, doc.HasExercise)
	assert.Equal(t, "# Middleware\n\n## Core Concepts\n\nFunctions that run in order.\n", doc.ContentPrimary)
	assert.Equal(t, map[string]any{"order": 4}, doc.Extra)

	data, err := s.Serialize(doc)
	require.NoError(t, err)
	assert.Empty(t, s.Validate(data))

	again, err := s.Parse("middleware.md", data)
	require.NoError(t, err)
	if diff := cmp.Diff(doc, again); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMarkdown_Validate(t *testing.T) {
	s := fs.NewMarkdownSerializer("ko")
	assert.Equal(t,
		[]string{fs.MarkerFrontmatter, fs.MarkerID, fs.MarkerTitle, fs.MarkerContent},
		s.Validate([]byte("# just markdown\n")))
	assert.Equal(t,
		[]string{fs.MarkerTitle, fs.MarkerContent},
		s.Validate([]byte("---\nid: x\n---\n\n")))
}

func TestMarkdown_IsCompanion(t *testing.T) {
	s := fs.NewMarkdownSerializer("ko")
	assert.True(t, s.IsCompanion("routing.ko.md"))
	assert.True(t, s.IsCompanion("routing.pt-BR.md"))
	assert.False(t, s.IsCompanion("routing.md"))
	assert.False(t, s.IsCompanion("routing.setup.md"))
	assert.Equal(t, "routing.ko.md", s.CompanionName("routing.md"))
}

func TestMarkdownRepository_Companion(t *testing.T) {
	ctx := context.Background()
	repo, dir := setupRepo(t, map[string]string{
		"middleware.md": markdownLesson,
		"manifest.yaml": "version: 1\n",
	}, func(c *fs.Config) {
		c.Format = fs.FormatMarkdown
		c.ManageManifest = true
	})

	doc, err := repo.Get(ctx, "middleware")
	require.NoError(t, err)
	assert.Empty(t, doc.ContentSecondary)

	doc.TitleSecondary = "미들웨어"
	doc.ContentSecondary = "# 미들웨어\n\n## 핵심 개념\n\n순서대로 실행됩니다.\n"
	report, err := repo.Save(ctx, doc, core.SaveOptions{Backup: true})
	require.NoError(t, err)
	assert.True(t, report.Valid, "missing: %v", report.Missing)
	assert.Equal(t, filepath.Join(dir, "middleware.ko.md"), report.CompanionPath)

	backup, err := os.ReadFile(filepath.Join(dir, "middleware.md"+fs.BackupSuffix))
	require.NoError(t, err)
	assert.Equal(t, markdownLesson, string(backup))

	entries, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"middleware"}, ids(entries))

	reloaded, err := repo.Get(ctx, "middleware")
	require.NoError(t, err)
	if diff := cmp.Diff(doc, reloaded, cmpopts.IgnoreFields(core.Document{}, "Source")); diff != "" {
		t.Errorf("reload mismatch (-want +got):\n%s", diff)
	}

	manifest, err := os.ReadFile(filepath.Join(dir, "manifest.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(manifest), "id: middleware")
	assert.Contains(t, string(manifest), "file: middleware.md")
}
