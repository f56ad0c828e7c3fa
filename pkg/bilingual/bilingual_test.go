package bilingual_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/aretw0/lessonkit/pkg/bilingual"
	"github.com/aretw0/lessonkit/pkg/core"
	"github.com/aretw0/lessonkit/pkg/generator"
	"github.com/aretw0/lessonkit/pkg/knowledge"
	"github.com/aretw0/lessonkit/pkg/markdown"
)

func TestNew_Locales(t *testing.T) {
	tests := []struct {
		locale string
		want   language.Tag
		suffix string
	}{
		{"", language.Korean, "Ko"},
		{"ko", language.Korean, "Ko"},
		{"pt-BR", language.BrazilianPortuguese, "PtBR"},
	}
	for _, tt := range tests {
		m, err := bilingual.New(tt.locale)
		require.NoError(t, err, tt.locale)
		assert.Equal(t, tt.want, m.Locale())
		assert.Equal(t, tt.suffix, m.LocaleSuffix())
	}

	_, err := bilingual.New("fr")
	assert.Error(t, err)
	_, err = bilingual.New("not a tag!")
	assert.Error(t, err)
}

func TestGenerateSecondary_Parity(t *testing.T) {
	kb, err := knowledge.Default()
	require.NoError(t, err)
	primary := generator.New(kb).Generate("# Routing\n\nIntro.\n\n## Route Basics\n\nRoutes.\n", "express-routing", "10 min")

	m, err := bilingual.New("ko")
	require.NoError(t, err)
	res := m.GenerateSecondary(primary.FullText, "express-routing")

	assert.Empty(t, res.Unmapped)
	assert.Contains(t, res.Markdown, "## 프로젝트 구조\n")
	assert.Contains(t, res.Markdown, "## 관련 주제\n")
	assert.Contains(t, res.Markdown, "**이유:**")
	assert.Contains(t, res.Markdown, "Express 라우팅의 핵심 아이디어:")

	// Code is never translated.
	for _, block := range markdown.CodeBlocks(primary.FullText) {
		assert.Contains(t, res.Markdown, block.Content)
	}

	check := m.CheckContent(primary.FullText, res.Markdown)
	assert.True(t, check.IsValid, "warnings: %v", check.Warnings())
}

func TestGenerateSecondary_Unmapped(t *testing.T) {
	m, err := bilingual.New("pt-BR")
	require.NoError(t, err)

	res := m.GenerateSecondary("## Core Concepts\n\ntext\n\n## Route Parameters\n\nmore\n", "routing")
	assert.Equal(t, []string{"Route Parameters"}, res.Unmapped)
	assert.Equal(t, "## Conceitos Principais\n\ntext\n\n## Route Parameters\n\nmore\n", res.Markdown)
}

func TestGenerateSecondary_KeepsCodeHeadings(t *testing.T) {
	m, err := bilingual.New("ko")
	require.NoError(t, err)

	primary := "## Summary\n\n```bash\n# Summary\necho '**Why:**'\n```\n"
	res := m.GenerateSecondary(primary, "")
	assert.Equal(t, "## 요약\n\n```bash\n# Summary\necho '**Why:**'\n```\n", res.Markdown)
}

func TestCheckParity(t *testing.T) {
	m, err := bilingual.New("ko")
	require.NoError(t, err)

	long := strings.Repeat("route handlers ", 10)
	primary := []core.ContentSection{
		{Heading: "Core Concepts", Body: long, CodeBlockCount: 2},
		{Heading: "Best Practices", Body: long, CodeBlockCount: 1},
	}

	t.Run("parallel", func(t *testing.T) {
		secondary := []core.ContentSection{
			{Heading: "핵심 개념", Body: long, CodeBlockCount: 2},
			{Heading: "모범 사례", Body: long, CodeBlockCount: 1},
		}
		res := m.CheckParity(primary, secondary)
		assert.True(t, res.IsValid)
		assert.Empty(t, res.Warnings())
	})

	t.Run("code count differs", func(t *testing.T) {
		secondary := []core.ContentSection{
			{Heading: "핵심 개념", Body: long, CodeBlockCount: 1},
			{Heading: "모범 사례", Body: long, CodeBlockCount: 1},
		}
		res := m.CheckParity(primary, secondary)
		assert.False(t, res.IsValid)
		require.Len(t, res.StructureMismatches, 1)
		assert.Contains(t, res.StructureMismatches[0], "code blocks differ")
	})

	t.Run("missing section", func(t *testing.T) {
		secondary := []core.ContentSection{
			{Heading: "핵심 개념", Body: long, CodeBlockCount: 2},
		}
		res := m.CheckParity(primary, secondary)
		assert.False(t, res.IsValid)
		assert.Equal(t, []string{"Best Practices"}, res.MissingInSecondary)
		assert.Contains(t, res.StructureMismatches[0], "section count differs")
	})

	t.Run("length ratio", func(t *testing.T) {
		secondary := []core.ContentSection{
			{Heading: "핵심 개념", Body: "짧음", CodeBlockCount: 2},
			{Heading: "모범 사례", Body: strings.Repeat(long, 4), CodeBlockCount: 1},
		}
		res := m.CheckParity(primary, secondary)
		assert.False(t, res.IsValid)
		require.Len(t, res.StructureMismatches, 2)
		assert.Contains(t, res.StructureMismatches[0], "ratio")
		assert.Contains(t, res.StructureMismatches[1], "ratio")
	})
}

func TestPreserveIntro(t *testing.T) {
	generated := "# Routing\n\nGenerated intro.\n\n## 핵심 개념\n\nbody\n"

	got := bilingual.PreserveIntro(generated, "# 라우팅\n\n직접 쓴 소개.\n\n## 옛 섹션\n\nold\n")
	assert.Equal(t, "# 라우팅\n\n직접 쓴 소개.\n\n## 핵심 개념\n\nbody\n", got)

	assert.Equal(t, generated, bilingual.PreserveIntro(generated, ""))
	assert.Equal(t, generated, bilingual.PreserveIntro(generated, "## 옛 섹션\n\nold\n"))
}

func TestTopicName(t *testing.T) {
	ko, err := bilingual.New("ko")
	require.NoError(t, err)
	assert.Equal(t, "Express 라우팅", ko.TopicName("express-routing"))
	assert.Equal(t, "라우팅 기초", ko.TranslateTitle("Routing basics"))
}
