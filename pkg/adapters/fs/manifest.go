package fs

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// manifestEntry is one document listed by the manifest.
type manifestEntry struct {
	ID            string `yaml:"id"`
	Title         string `yaml:"title,omitempty"`
	File          string `yaml:"file"`
	EstimatedTime string `yaml:"estimated_time,omitempty"`
	Difficulty    string `yaml:"difficulty,omitempty"`
	export        string
}

// manifest is the YAML form used by the markdown format.
type manifest struct {
	Version int             `yaml:"version"`
	Lessons []manifestEntry `yaml:"lessons"`
}

// collectManifest parses every listed document. Unparseable files are skipped
// and logged.
func (r *Repository) collectManifest(ctx context.Context) ([]manifestEntry, error) {
	entries, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]manifestEntry, 0, len(entries))
	for _, e := range entries {
		doc, err := r.load(e.Path)
		if err != nil {
			r.config.Logger.Debug("manifest skips unparseable file", "path", e.Path, "error", err)
			continue
		}
		rel, err := filepath.Rel(r.Path, e.Path)
		if err != nil {
			return nil, err
		}
		out = append(out, manifestEntry{
			ID:            doc.ID,
			Title:         doc.Title,
			File:          filepath.ToSlash(rel),
			EstimatedTime: doc.EstimatedTime,
			Difficulty:    string(doc.Difficulty),
			export:        ExportIdentifier(doc.ID),
		})
	}
	return out, nil
}

// renderManifest produces the manifest file for the configured format.
func (r *Repository) renderManifest(entries []manifestEntry) ([]byte, error) {
	if r.config.Format == FormatMarkdown {
		var buf bytes.Buffer
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(manifest{Version: 1, Lessons: entries}); err != nil {
			return nil, err
		}
		if err := encoder.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	var buf bytes.Buffer
	buf.WriteString("// Generated by lessonkit. Do not edit.\n\n")
	for _, e := range entries {
		module := "./" + strings.TrimSuffix(e.File, filepath.Ext(e.File))
		fmt.Fprintf(&buf, "import %s from %s;\n", e.export, quote(module))
	}
	if len(entries) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("export const lessons = [\n")
	for _, e := range entries {
		fmt.Fprintf(&buf, "  %s,\n", e.export)
	}
	buf.WriteString("];\n\nexport default lessons;\n")
	return buf.Bytes(), nil
}

// writeManifest regenerates the manifest from the documents on disk.
func (r *Repository) writeManifest(ctx context.Context) error {
	entries, err := r.collectManifest(ctx)
	if err != nil {
		return err
	}
	data, err := r.renderManifest(entries)
	if err != nil {
		return fmt.Errorf("failed to render manifest: %w", err)
	}
	path := filepath.Join(r.Path, r.manifestName())
	r.markOwnWrite(path)
	return writeFileAtomic(path, data, 0644)
}
