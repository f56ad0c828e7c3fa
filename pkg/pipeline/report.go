package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// Render writes the human readable summary: counts, one row per document,
// then failures and warnings.
func Render(w io.Writer, r *Report) error {
	var b strings.Builder

	mode := ""
	if r.DryRun {
		mode = " (dry run)"
	}
	b.WriteString(titleStyle.Render("Enhancement summary"+mode) + "\n")
	fmt.Fprintf(&b, "Run %s: %d total, %s, %s\n\n",
		r.RunID, r.Total,
		okStyle.Render(strconv.Itoa(r.Succeeded)+" succeeded"),
		failStyle.Render(strconv.Itoa(r.Failed)+" failed"))

	if rows := summaryRows(r); len(rows) > 0 {
		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(borderStyle).
			Headers("Lesson", "Time", "Code", "Completeness", "Parity", "Added").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return cellStyle
			})
		b.WriteString(t.String() + "\n")
	}

	if failures := r.Failures(); len(failures) > 0 {
		b.WriteString("\n" + failStyle.Render("Failures") + "\n")
		for _, f := range failures {
			fmt.Fprintf(&b, "  %s (%s) at %s: %s\n", f.ID, f.Path, f.Stage, f.Error)
		}
	}

	var warnings []string
	for _, res := range r.Results {
		for _, msg := range res.Warnings {
			warnings = append(warnings, res.ID+": "+msg)
		}
	}
	if len(warnings) > 0 {
		b.WriteString("\n" + warningStyle.Render("Warnings") + "\n")
		for _, msg := range warnings {
			b.WriteString("  " + msg + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func summaryRows(r *Report) [][]string {
	rows := make([][]string, 0, len(r.Results))
	for _, res := range r.Results {
		if !res.Succeeded() {
			continue
		}
		parity := "yes"
		if !res.Parity {
			parity = "no"
		}
		added := "-"
		if len(res.AddedSections) > 0 {
			added = strings.Join(res.AddedSections, ", ")
		}
		rows = append(rows, []string{
			res.ID,
			orDash(res.TimeBefore) + " → " + res.TimeAfter,
			fmt.Sprintf("%d → %d", res.CodeBefore, res.CodeAfter),
			fmt.Sprintf("%d%%", res.Completeness),
			parity,
			added,
		})
	}
	return rows
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
