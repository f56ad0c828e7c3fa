package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/lessonkit"
	lessonlifecycle "github.com/aretw0/lessonkit/pkg/adapters/lifecycle"
)

var watchNoBackup bool

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Re-enhance lessons whenever their files change",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := append(lessonOptions(cmd), lessonkit.WithWatcherErrorHandler(func(err error) {
			slog.Error("watcher error", "error", err)
		}))
		d, err := lessonkit.New(lessonDir(args), opts...)
		if err != nil {
			fatal("Failed to initialize pipeline", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		changes, err := d.Service().Watch(ctx)
		if err != nil {
			fatal("Failed to start watcher", err)
		}
		source := lessonlifecycle.NewSource(changes)
		if err := source.Start(ctx); err != nil {
			fatal("Failed to start event source", err)
		}
		slog.Info("watching for changes", "path", lessonDir(args))

		for ev := range source.Events() {
			change, ok := ev.(lessonlifecycle.ChangeEvent)
			if !ok {
				continue
			}
			slog.Debug("change detected", "event", ev.String())
			res := d.Process(ctx, change.ID, lessonkit.RunOptions{Backup: cfg.Backup && !watchNoBackup})
			if !res.Succeeded() {
				continue
			}
			slog.Info("lesson enhanced", "id", res.ID, "time", res.TimeAfter, "parity", res.Parity, "warnings", len(res.Warnings))
		}
		dumpState(d)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addLessonFlags(watchCmd)
	watchCmd.Flags().BoolVar(&watchNoBackup, "no-backup", false, "Do not write .backup files")
}
