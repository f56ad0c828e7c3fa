package lessonkit_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/aretw0/lessonkit"
	"github.com/aretw0/lessonkit/pkg/core"
)

const exampleLesson = "export const closuresLesson = {\n" +
	"  id: 'closures',\n" +
	"  title: 'Closures',\n" +
	"  difficulty: 'medium',\n" +
	"  estimatedTime: '15 min',\n" +
	"  contentPrimary: `# Closures\n\nA closure captures variables from its scope.\n`,\n" +
	"};\n\nexport default closuresLesson;\n"

// Example_dryRun enhances a lesson directory without touching any file.
func Example_dryRun() {
	tmpDir, err := os.MkdirTemp("", "lessonkit-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	if err := os.WriteFile(filepath.Join(tmpDir, "closures.ts"), []byte(exampleLesson), 0644); err != nil {
		log.Fatal(err)
	}

	d, err := lessonkit.New(tmpDir, lessonkit.WithMustExist(true))
	if err != nil {
		log.Fatal(err)
	}

	report, err := d.Run(context.Background(), lessonkit.RunOptions{DryRun: true})
	if err != nil {
		log.Fatal(err)
	}

	res := report.Results[0]
	grew := core.ParseMinutes(res.TimeAfter) >= 23
	fmt.Printf("%s: %s, %d sections added, estimate at least 1.5x: %v\n",
		res.ID, res.Status, len(res.AddedSections), grew)
	// Output:
	// closures: success, 10 sections added, estimate at least 1.5x: true
}

// ExampleInit lists the documents of a lesson directory.
func ExampleInit() {
	tmpDir, err := os.MkdirTemp("", "lessonkit-init-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	_ = os.WriteFile(filepath.Join(tmpDir, "closures.ts"), []byte(exampleLesson), 0644)
	_ = os.WriteFile(filepath.Join(tmpDir, "index.ts"), []byte("export * from './closures';\n"), 0644)

	repo, err := lessonkit.Init(tmpDir, lessonkit.WithReadOnly(true))
	if err != nil {
		log.Fatal(err)
	}

	entries, err := repo.List(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	for _, e := range entries {
		fmt.Println(e.ID)
	}
	// Output:
	// closures
}
