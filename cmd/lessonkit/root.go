package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"

	"github.com/aretw0/lessonkit"
	"github.com/aretw0/lessonkit/internal/config"
)

var (
	verbose bool
	cfgFile string
	cfg     *config.Config
)

// Flags shared by the commands that open a lesson directory.
var (
	format    string
	extension string
	kbFile    string
	locale    string
	include   string
	recursive bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lessonkit",
	Short: "Analyze, expand and translate lesson documents in place",
	Long: `lessonkit reads a directory of lesson documents, scores them against a
content rubric, expands them from a knowledge base, derives the secondary
locale and rewrites each file with a backup.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)

		path := cfgFile
		if path == "" {
			path = lessonkit.FindConfig(".")
		}
		loaded, err := config.Load(path)
		if err != nil {
			fatal("Failed to load config", err)
		}
		cfg = loaded
		slog.Debug("config loaded", "path", path, "lessons", cfg.Lessons.Path, "format", cfg.Lessons.Format)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: lessonkit.yaml of the project)")
}

// addLessonFlags registers the flags that select and open a lesson directory.
func addLessonFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&format, "format", "", "Document format: literal or markdown")
	cmd.Flags().StringVar(&extension, "ext", "", "Extension for literal files (.ts or .js)")
	cmd.Flags().StringVar(&kbFile, "kb", "", "Knowledge base JSON file (default: embedded)")
	cmd.Flags().StringVar(&locale, "locale", "", "Secondary locale (e.g. ko, pt-BR)")
	cmd.Flags().StringVar(&include, "include", "", "Only process files matching this glob")
	cmd.Flags().BoolVar(&recursive, "recursive", false, "Scan subdirectories")
}

// lessonDir returns the directory argument or the configured path.
func lessonDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Lessons.Path
}

// lessonOptions merges the config with the flags the user actually set.
func lessonOptions(cmd *cobra.Command) []lessonkit.Option {
	c := *cfg
	flags := cmd.Flags()
	if flags.Changed("format") {
		c.Lessons.Format = format
	}
	if flags.Changed("ext") {
		c.Lessons.Extension = extension
	}
	if flags.Changed("kb") {
		c.KnowledgeBase = kbFile
	}
	if flags.Changed("locale") {
		c.Locale = locale
	}
	if flags.Changed("include") {
		c.Lessons.Include = include
	}
	if flags.Changed("recursive") {
		c.Lessons.Recursive = recursive
	}

	opts := []lessonkit.Option{
		lessonkit.WithLogger(slog.Default()),
		lessonkit.WithMustExist(true),
		lessonkit.WithFormat(c.Lessons.Format),
		lessonkit.WithExtension(c.Lessons.Extension),
		lessonkit.WithRecursive(c.Lessons.Recursive),
		lessonkit.WithInclude(c.Lessons.Include),
		lessonkit.WithManifest(c.Lessons.Manifest),
		lessonkit.WithManageManifest(c.Lessons.ManageManifest),
		lessonkit.WithLocale(c.Locale),
		lessonkit.WithBestPractices(c.Generator.BestPractices),
		lessonkit.WithCommonMistakes(c.Generator.CommonMistakes),
	}
	if c.KnowledgeBase != "" {
		opts = append(opts, lessonkit.WithKnowledgeBaseFile(c.KnowledgeBase))
	}
	return opts
}

// dumpState prints a component's introspection state when verbose.
func dumpState(intro introspection.Introspectable) {
	if !verbose {
		return
	}
	name := "component"
	if c, ok := intro.(introspection.Component); ok {
		name = c.ComponentType()
	}
	data, err := json.MarshalIndent(intro.State(), "", "  ")
	if err != nil {
		slog.Warn("cannot encode state", "component", name, "error", err)
		return
	}
	fmt.Fprintf(os.Stderr, "%s state:\n%s\n", name, data)
}
