// Package core holds the lesson domain: documents, the analysis and generation
// results that flow between pipeline stages, and the storage contract.
package core

import (
	"fmt"
	"strings"
)

// Difficulty is the coarse level of a lesson.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the known levels.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Document is one lesson record with bilingual content and metadata.
// It is agnostic to storage format (object literal source, Markdown).
type Document struct {
	ID               string
	Title            string
	TitleSecondary   string
	Difficulty       Difficulty
	EstimatedTime    string
	ContentPrimary   string
	ContentSecondary string
	HasVisualization bool
	HasExercise      bool

	// Extra holds fields the pipeline does not interpret. They are written
	// back unchanged so a rewrite never drops them.
	Extra map[string]any

	// Source is the path the document was read from. Not serialized.
	Source string
}

// Validate checks the invariants every stored document must hold.
func (d Document) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("%w: id is empty", ErrInvalidDocument)
	}
	if strings.TrimSpace(d.ContentPrimary) == "" {
		return fmt.Errorf("%w: %s has no primary content", ErrInvalidDocument, d.ID)
	}
	if d.Difficulty != "" && !d.Difficulty.Valid() {
		return fmt.Errorf("%w: %s has unknown difficulty %q", ErrInvalidDocument, d.ID, d.Difficulty)
	}
	return nil
}

// RawExpr is a source expression kept verbatim, such as an object literal
// property the literal format does not interpret.
type RawExpr string

// ContentSection is a heading-delimited block of a markdown document.
type ContentSection struct {
	Heading        string `json:"heading"`
	Level          int    `json:"level"`
	Body           string `json:"body"`
	CodeBlockCount int    `json:"code_block_count"`
}

// Priority ranks a Gap.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Gap is a missing or underdeveloped aspect of a document's content.
type Gap struct {
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
}

// Depth classifies how thoroughly a document covers its topic.
type Depth string

const (
	DepthShallow       Depth = "shallow"
	DepthModerate      Depth = "moderate"
	DepthComprehensive Depth = "comprehensive"
)

// AnalysisReport is the pure, recomputable result of analyzing content.
type AnalysisReport struct {
	CurrentSections  []string `json:"current_sections"`
	MissingSections  []string `json:"missing_sections"`
	CodeExampleCount int      `json:"code_example_count"`
	Completeness     int      `json:"completeness"`
	Gaps             []Gap    `json:"gaps"`
	Depth            Depth    `json:"depth"`
}

// EnhancedContent is the output of the generator.
type EnhancedContent struct {
	Sections         []ContentSection `json:"sections"`
	FullText         string           `json:"-"`
	EstimatedTime    string           `json:"estimated_time"`
	CodeExampleCount int              `json:"code_example_count"`
	// AddedSections lists the skeleton sections the original lacked.
	AddedSections []string `json:"added_sections"`
	// Exemplar names the structure exemplar selected for the topic.
	Exemplar string `json:"exemplar"`
}

// ValidationResult is the outcome of a bilingual parity check.
type ValidationResult struct {
	IsValid             bool     `json:"is_valid"`
	MissingInSecondary  []string `json:"missing_in_secondary,omitempty"`
	StructureMismatches []string `json:"structure_mismatches,omitempty"`
	UnmappedHeadings    []string `json:"unmapped_headings,omitempty"`
}

// Warnings flattens every finding into human readable lines.
func (v ValidationResult) Warnings() []string {
	var out []string
	for _, h := range v.MissingInSecondary {
		out = append(out, "missing in secondary: "+h)
	}
	out = append(out, v.StructureMismatches...)
	for _, h := range v.UnmappedHeadings {
		out = append(out, "untranslated heading: "+h)
	}
	return out
}

// WriteReport describes a write (or a dry-run preview) and its validation.
type WriteReport struct {
	Path       string `json:"path"`
	BackupPath string `json:"backup_path,omitempty"`
	// CompanionPath is the secondary-locale file, for formats that split locales.
	CompanionPath string   `json:"companion_path,omitempty"`
	Bytes         int      `json:"bytes"`
	Missing       []string `json:"missing,omitempty"`
	Valid         bool     `json:"valid"`
	DryRun        bool     `json:"dry_run"`
}
