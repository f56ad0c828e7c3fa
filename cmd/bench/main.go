package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/lessonkit"
)

const lessonTemplate = "export const lesson%[1]dLesson = {\n" +
	"  id: 'lesson-%[1]d',\n" +
	"  title: 'Benchmark Lesson %[1]d',\n" +
	"  difficulty: 'medium',\n" +
	"  estimatedTime: '10 min',\n" +
	"  contentPrimary: `# Benchmark Lesson %[1]d\n\nThis is a test lesson.\n\n## Core Concepts\n\n\\`\\`\\`js\nconsole.log(%[1]d);\n\\`\\`\\`\n`,\n" +
	"};\n\nexport default lesson%[1]dLesson;\n"

func main() {
	count := flag.Int("count", 200, "Number of lessons to generate")
	keep := flag.Bool("keep", false, "Keep the benchmark directory after running")
	flag.Parse()

	// 1. Setup lesson directory
	benchDir, err := os.MkdirTemp("", "lessonkit_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	fmt.Printf("Generating %d lessons in %s...\n", *count, benchDir)
	startGen := time.Now()
	for i := 0; i < *count; i++ {
		filename := filepath.Join(benchDir, fmt.Sprintf("lesson-%d.ts", i))
		if err := os.WriteFile(filename, []byte(fmt.Sprintf(lessonTemplate, i)), 0644); err != nil {
			panic(err)
		}
	}
	fmt.Printf("Generation took: %v\n", time.Since(startGen))

	// 2. Initialize pipeline
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	d, err := lessonkit.New(benchDir, lessonkit.WithLogger(logger), lessonkit.WithMustExist(true))
	if err != nil {
		panic(err)
	}
	ctx := context.TODO()

	// Run 1: dry run (parse, analyze, generate, render)
	fmt.Println("Running enhance (Run 1 - dry run)...")
	start := time.Now()
	dry, err := d.Run(ctx, lessonkit.RunOptions{DryRun: true})
	if err != nil {
		panic(err)
	}
	dryDuration := time.Since(start)
	fmt.Printf("Run 1 Result: %v (Succeeded: %d)\n", dryDuration, dry.Succeeded)

	// Run 2: real run with backups and atomic writes
	fmt.Println("Running enhance (Run 2 - write)...")
	start = time.Now()
	written, err := d.Run(ctx, lessonkit.RunOptions{Backup: true})
	if err != nil {
		panic(err)
	}
	writeDuration := time.Since(start)
	fmt.Printf("Run 2 Result: %v (Succeeded: %d)\n", writeDuration, written.Succeeded)

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d lessons):\n", *count)
	fmt.Printf("  Dry run: %v\n", dryDuration)
	fmt.Printf("  Write:   %v\n", writeDuration)
	fmt.Printf("--------------------------------------------------\n")
}
