package generator

import (
	"strings"
	"text/template"
)

var funcs = template.FuncMap{
	"comment": commentPrefix,
}

var bestPracticeTmpl = template.Must(template.New("best-practice").Funcs(funcs).Parse(
	"### {{.N}}. {{.Title}}\n\n" +
		"{{.Description}}\n\n" +
		"**Why:** {{.Reasoning}}\n\n" +
		"**Good:**\n\n" +
		"```{{.Lang}}\n{{comment .Lang}} Good: {{.Title}}\n```\n\n" +
		"**Avoid:**\n\n" +
		"```{{.Lang}}\n{{comment .Lang}} Avoid: code that ignores \"{{.Title}}\"\n```\n",
))

var mistakeTmpl = template.Must(template.New("mistake").Funcs(funcs).Parse(
	"### {{.N}}. {{.Mistake}}\n\n" +
		"**Why it happens:** {{.Why}}\n\n" +
		"**Incorrect:**\n\n" +
		"```{{.Lang}}\n{{comment .Lang}} Incorrect: {{.Mistake}}\n```\n\n" +
		"**Correct:**\n\n" +
		"```{{.Lang}}\n{{comment .Lang}} Correct: {{.CorrectApproach}}\n```\n\n" +
		"**Solution:** {{.CorrectApproach}}\n",
))

var testingTmpl = template.Must(template.New("testing").Funcs(funcs).Parse(
	"```{{.Lang}}\n" +
		"{{if .JS}}describe('{{.Topic}}', () => {\n" +
		"  it('handles the expected case', () => {\n" +
		"    // arrange, act, assert\n" +
		"  });\n\n" +
		"  it('rejects invalid input', () => {\n" +
		"    // arrange, act, assert\n" +
		"  });\n" +
		"});\n" +
		"{{else}}{{comment .Lang}} {{.Topic}}: test the expected case\n" +
		"{{comment .Lang}} {{.Topic}}: test invalid input\n" +
		"{{end}}```\n",
))

func commentPrefix(lang string) string {
	switch strings.ToLower(lang) {
	case "python", "py", "ruby", "rb", "bash", "sh", "shell", "yaml", "yml", "toml":
		return "#"
	case "sql", "lua", "haskell":
		return "--"
	default:
		return "//"
	}
}

func isJS(lang string) bool {
	switch strings.ToLower(lang) {
	case "javascript", "js", "typescript", "ts", "jsx", "tsx":
		return true
	}
	return false
}

func execute(t *template.Template, data any) string {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		// Templates are static and data is plain strings; a failure is a bug.
		panic(err)
	}
	return b.String()
}
