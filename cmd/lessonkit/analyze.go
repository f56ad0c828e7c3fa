package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/aretw0/lessonkit"
	"github.com/aretw0/lessonkit/pkg/analyzer"
	"github.com/aretw0/lessonkit/pkg/core"
)

var (
	analyzeLesson string
	analyzeJSON   bool
)

type analysis struct {
	ID     string              `json:"id"`
	Path   string              `json:"path"`
	Report core.AnalysisReport `json:"report"`
}

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [dir]",
	Short: "Score lessons against the content rubric without changing them",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := append(lessonOptions(cmd), lessonkit.WithReadOnly(true))
		repo, err := lessonkit.Init(lessonDir(args), opts...)
		if err != nil {
			fatal("Failed to open lessons", err)
		}

		ctx := context.Background()
		ids := []string{analyzeLesson}
		if analyzeLesson == "" {
			entries, err := repo.List(ctx)
			if err != nil {
				fatal("Failed to list lessons", err)
			}
			ids = ids[:0]
			for _, e := range entries {
				ids = append(ids, e.ID)
			}
		}

		a := analyzer.New()
		var results []analysis
		for _, id := range ids {
			doc, err := repo.Get(ctx, id)
			if err != nil {
				slog.Error("cannot load lesson", "id", id, "error", err)
				continue
			}
			results = append(results, analysis{ID: doc.ID, Path: doc.Source, Report: a.Analyze(doc.ContentPrimary)})
		}

		if analyzeJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(results); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		rows := make([][]string, 0, len(results))
		for _, r := range results {
			rows = append(rows, []string{
				r.ID,
				fmt.Sprintf("%d%%", r.Report.Completeness),
				fmt.Sprint(r.Report.CodeExampleCount),
				string(r.Report.Depth),
				fmt.Sprint(len(r.Report.Gaps)),
				strings.Join(r.Report.MissingSections, ", "),
			})
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("Lesson", "Completeness", "Code", "Depth", "Gaps", "Missing").
			Rows(rows...)
		fmt.Println(t.String())
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	addLessonFlags(analyzeCmd)
	analyzeCmd.Flags().StringVar(&analyzeLesson, "lesson", "", "Analyze only the lesson with this ID")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Output in JSON format")
}
