package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/aretw0/lessonkit"
	"github.com/aretw0/lessonkit/pkg/pipeline"
)

var (
	dryRun         bool
	lessonID       string
	noBackup       bool
	jsonOutput     bool
	strict         bool
	manageManifest bool
)

// enhanceCmd represents the enhance command
var enhanceCmd = &cobra.Command{
	Use:   "enhance [dir]",
	Short: "Enhance every lesson in a directory",
	Long: `Runs each lesson through analysis, generation and the bilingual stage,
then rewrites it. The previous content is kept in "<file>.backup".`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := lessonOptions(cmd)
		if cmd.Flags().Changed("manage-manifest") {
			opts = append(opts, lessonkit.WithManageManifest(manageManifest))
		}

		d, err := lessonkit.New(lessonDir(args), opts...)
		if err != nil {
			fatal("Failed to initialize pipeline", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		report, runErr := d.Run(ctx, lessonkit.RunOptions{
			DryRun: dryRun,
			Lesson: lessonID,
			Backup: cfg.Backup && !noBackup,
		})

		if jsonOutput {
			err = pipeline.WriteJSON(os.Stdout, report)
		} else {
			err = pipeline.Render(os.Stdout, report)
		}
		if err != nil {
			fatal("Failed to write report", err)
		}
		dumpState(d)

		if runErr != nil {
			fatal("Run aborted", runErr)
		}
		if strict && report.Failed > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(enhanceCmd)
	addLessonFlags(enhanceCmd)
	enhanceCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run every stage but do not write files")
	enhanceCmd.Flags().StringVar(&lessonID, "lesson", "", "Process only the lesson with this ID")
	enhanceCmd.Flags().BoolVar(&noBackup, "no-backup", false, "Do not write .backup files")
	enhanceCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the report in JSON format")
	enhanceCmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero if any lesson failed")
	enhanceCmd.Flags().BoolVar(&manageManifest, "manage-manifest", false, "Rewrite the manifest after saving")
}
