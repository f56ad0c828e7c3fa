package fs_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lessonkit/pkg/adapters/fs"
	"github.com/aretw0/lessonkit/pkg/core"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func TestLiteral_Parse(t *testing.T) {
	s := fs.NewLiteralSerializer("Ko")
	doc, err := s.Parse("routing.ts", readFixture(t, "routing.ts"))
	require.NoError(t, err)

	assert.Equal(t, "express-routing", doc.ID)
	assert.Equal(t, "Express Routing", doc.Title)
	assert.Equal(t, "Express 라우팅", doc.TitleSecondary)
	assert.Equal(t, core.DifficultyMedium, doc.Difficulty)
	assert.Equal(t, "30 min", doc.EstimatedTime)
	assert.True(t, doc.HasVisualization)
	assert.False(t, doc.HasExercise)
	assert.Equal(t, "routing.ts", doc.Source)

	assert.True(t, strings.HasPrefix(doc.ContentPrimary, "# Express Routing\n\n"))
	assert.Contains(t, doc.ContentPrimary, "Use `app.get()` to register a route.")
	assert.Contains(t, doc.ContentPrimary, "Placeholders like ${name} stay literal.")
	assert.Contains(t, doc.ContentPrimary, "```javascript\napp.get('/users/:id'")
	assert.Contains(t, doc.ContentPrimary, "res.send(`user ${req.params.id}`);")
	assert.True(t, strings.HasSuffix(doc.ContentPrimary, "A \"route\" pairs a method with a path: it's that simple.\n"))
	assert.Equal(t, "# Express 라우팅\n\n`app.get()`으로 라우트를 등록합니다.\n", doc.ContentSecondary)

	assert.Equal(t, map[string]any{
		"order": core.RawExpr("3"),
		"tags":  core.RawExpr("['express', 'http']"),
	}, doc.Extra)
}

func TestLiteral_ParseExportForms(t *testing.T) {
	s := fs.NewLiteralSerializer("")

	doc, err := s.Parse("default_object.ts", readFixture(t, "default_object.ts"))
	require.NoError(t, err)
	assert.Equal(t, "intro", doc.ID)
	assert.Equal(t, "Hello", doc.ContentPrimary)

	doc, err = s.Parse("default_ref.js", readFixture(t, "default_ref.js"))
	require.NoError(t, err)
	assert.Equal(t, "intro-js", doc.ID)
	assert.Equal(t, "Intro", doc.Title)
	assert.Equal(t, "Line one\nLine two", doc.ContentPrimary)
	assert.True(t, doc.HasExercise)
}

func TestLiteral_ParseErrors(t *testing.T) {
	s := fs.NewLiteralSerializer("")
	tests := []struct {
		file   string
		reason string
	}{
		{"no_export.ts", "no exported object literal"},
		{"missing_id.ts", "missing id"},
		{"spread.ts", "non-static object literal"},
		{"shorthand.ts", "non-static object literal"},
		{"method.ts", "non-static object literal"},
		{"substitution.ts", "non-static object literal"},
	}
	for _, tt := range tests {
		_, err := s.Parse(tt.file, readFixture(t, tt.file))
		var perr *core.ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("%s: expected ParseError, got %v", tt.file, err)
		}
		assert.Equal(t, tt.file, perr.Path)
		assert.Equal(t, tt.reason, perr.Reason)
	}
}

func TestLiteral_RoundTrip(t *testing.T) {
	s := fs.NewLiteralSerializer("Ko")
	original, err := s.Parse("routing.ts", readFixture(t, "routing.ts"))
	require.NoError(t, err)

	original.ContentPrimary += "\nBackslash \\ and `tick` and ${x} and \\${y}\n"
	data, err := s.Serialize(original)
	require.NoError(t, err)

	assert.Empty(t, s.Validate(data))
	assert.Contains(t, string(data), "export const expressRoutingLesson = {\n")
	assert.Contains(t, string(data), "export default expressRoutingLesson;\n")

	parsed, err := s.Parse("routing.ts", data)
	require.NoError(t, err)
	if diff := cmp.Diff(original, parsed); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLiteral_Validate(t *testing.T) {
	s := fs.NewLiteralSerializer("")
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"default reference only", string(readFixture(t, "default_ref.js")), []string{fs.MarkerExport}},
		{"default object only", string(readFixture(t, "default_object.ts")), []string{fs.MarkerExport}},
		{"empty id, no content", "export const x = { id: '', title: 'T' };\n", []string{fs.MarkerDefaultExport, fs.MarkerID, fs.MarkerContent}},
		{"not a lesson", "hello", []string{fs.MarkerExport, fs.MarkerDefaultExport, fs.MarkerID, fs.MarkerTitle, fs.MarkerContent}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Validate([]byte(tt.src)))
		})
	}
}

func TestExportIdentifier(t *testing.T) {
	tests := map[string]string{
		"express-routing":        "expressRoutingLesson",
		"organizing-controllers": "organizingControllersLesson",
		"01-intro":               "_01IntroLesson",
		"rest_api":               "restApiLesson",
		"":                       "lesson",
	}
	for id, want := range tests {
		if got := fs.ExportIdentifier(id); got != want {
			t.Errorf("ExportIdentifier(%q) = %q, want %q", id, got, want)
		}
	}
}
