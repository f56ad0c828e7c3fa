// Package lessonkit is the Composition Root for the lesson enhancement
// pipeline.
//
// It connects the domain (analysis, generation, bilingual parity) with the
// storage adapters that read and rewrite lesson files, using the same
// hexagonal layout throughout: pkg/core holds the contracts, pkg/adapters/fs
// the filesystem implementation, pkg/pipeline the driver.
//
// Features:
//
//   - **Format Agnostic**: lessons stored as exported object literals (.ts, .js)
//     or as Markdown with YAML frontmatter, behind one core.Repository.
//   - **Real Parsing**: object literals are read with a TypeScript grammar
//     (tree-sitter), so nested backticks and quotes survive a round trip.
//   - **Safe Rewrites**: backups, atomic temp-file writes and post-write
//     validation. Dry runs render everything in memory.
//   - **Bilingual**: the secondary locale is derived from translation tables
//     and checked for structural parity.
//
// Usage:
//
//	d, err := lessonkit.New("./src/lessons",
//		lessonkit.WithLocale("ko"),
//		lessonkit.WithLogger(logger),
//	)
//
//	report, err := d.Run(ctx, lessonkit.RunOptions{DryRun: true})
package lessonkit
