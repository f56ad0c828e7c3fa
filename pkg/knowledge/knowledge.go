// Package knowledge loads the curated reference data used to synthesize lesson
// sections: file-structure exemplars, best practices, common mistakes and
// per-topic section material.
package knowledge

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

//go:embed default.json
var defaultKB []byte

// GeneralTopic is the fallback topic key.
const GeneralTopic = "general"

// PathNote explains one path of an exemplar tree.
type PathNote struct {
	Path        string `json:"path"`
	Description string `json:"description"`
}

// Exemplar is a named file-structure example.
type Exemplar struct {
	Title string     `json:"title"`
	Tree  string     `json:"tree"`
	Paths []PathNote `json:"paths"`
}

// BestPractice is one recommended approach.
type BestPractice struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Reasoning   string   `json:"reasoning"`
	Topics      []string `json:"topics,omitempty"`
}

// CommonMistake is one frequent error and its fix.
type CommonMistake struct {
	Mistake         string   `json:"mistake"`
	Why             string   `json:"why"`
	CorrectApproach string   `json:"correctApproach"`
	Topics          []string `json:"topics,omitempty"`
}

// Topic holds section material for one topic.
type Topic struct {
	Concepts    []string `json:"concepts,omitempty"`
	Tips        []string `json:"tips,omitempty"`
	Advanced    []string `json:"advanced,omitempty"`
	Testing     []string `json:"testing,omitempty"`
	Performance []string `json:"performance,omitempty"`
	Security    []string `json:"security,omitempty"`
	Related     []string `json:"related,omitempty"`
}

// KnowledgeBase is loaded once per run and read-only afterwards.
type KnowledgeBase struct {
	Version         string              `json:"version"`
	Language        string              `json:"language"`
	DefaultExemplar string              `json:"defaultExemplar"`
	Exemplars       map[string]Exemplar `json:"exemplars"`
	StructureRules  []RuleSpec          `json:"structureRules,omitempty"`
	BestPractices   []BestPractice      `json:"bestPractices"`
	CommonMistakes  []CommonMistake     `json:"commonMistakes"`
	Topics          map[string]Topic    `json:"topics,omitempty"`
}

// Default returns the embedded knowledge base.
func Default() (*KnowledgeBase, error) {
	return Load(bytes.NewReader(defaultKB))
}

// LoadFile reads a knowledge base from a JSON file.
func LoadFile(path string) (*KnowledgeBase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open knowledge base: %w", err)
	}
	defer f.Close()

	kb, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return kb, nil
}

// Load decodes and validates a knowledge base.
func Load(r io.Reader) (*KnowledgeBase, error) {
	var kb KnowledgeBase
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&kb); err != nil {
		return nil, fmt.Errorf("invalid knowledge base: %w", err)
	}
	if err := kb.Validate(); err != nil {
		return nil, err
	}
	return &kb, nil
}

// Validate checks that every rule and the fallback point at known exemplars.
func (kb *KnowledgeBase) Validate() error {
	if len(kb.Exemplars) == 0 {
		return fmt.Errorf("knowledge base has no exemplars")
	}
	if kb.DefaultExemplar == "" {
		return fmt.Errorf("knowledge base has no default exemplar")
	}
	if _, ok := kb.Exemplars[kb.DefaultExemplar]; !ok {
		return fmt.Errorf("default exemplar %q is not defined", kb.DefaultExemplar)
	}
	for i, r := range kb.StructureRules {
		if _, ok := kb.Exemplars[r.Exemplar]; !ok {
			return fmt.Errorf("structure rule %d references unknown exemplar %q", i, r.Exemplar)
		}
		if len(r.Contains) == 0 {
			return fmt.Errorf("structure rule %d has no match terms", i)
		}
	}
	return nil
}

// Topic returns the section material for topicKey: the longest topic name
// contained in the key wins, falling back to GeneralTopic.
func (kb *KnowledgeBase) Topic(topicKey string) Topic {
	key := strings.ToLower(topicKey)
	names := make([]string, 0, len(kb.Topics))
	for name := range kb.Topics {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	for _, name := range names {
		if name != GeneralTopic && strings.Contains(key, strings.ToLower(name)) {
			return kb.Topics[name].withFallback(kb.Topics[GeneralTopic])
		}
	}
	return kb.Topics[GeneralTopic]
}

func (t Topic) withFallback(general Topic) Topic {
	pick := func(own, fallback []string) []string {
		if len(own) > 0 {
			return own
		}
		return fallback
	}
	return Topic{
		Concepts:    pick(t.Concepts, general.Concepts),
		Tips:        pick(t.Tips, general.Tips),
		Advanced:    pick(t.Advanced, general.Advanced),
		Testing:     pick(t.Testing, general.Testing),
		Performance: pick(t.Performance, general.Performance),
		Security:    pick(t.Security, general.Security),
		Related:     pick(t.Related, general.Related),
	}
}

// BestPracticesFor returns the first n entries matching topicKey, or the
// general entries when none match.
func (kb *KnowledgeBase) BestPracticesFor(topicKey string, n int) []BestPractice {
	var matched, general []BestPractice
	for _, bp := range kb.BestPractices {
		switch {
		case matchesTopic(bp.Topics, topicKey):
			matched = append(matched, bp)
		case isGeneral(bp.Topics):
			general = append(general, bp)
		}
	}
	if len(matched) == 0 {
		matched = general
	}
	return firstN(matched, n)
}

// CommonMistakesFor returns the first n mistakes matching topicKey, or the
// general entries when none match.
func (kb *KnowledgeBase) CommonMistakesFor(topicKey string, n int) []CommonMistake {
	var matched, general []CommonMistake
	for _, m := range kb.CommonMistakes {
		switch {
		case matchesTopic(m.Topics, topicKey):
			matched = append(matched, m)
		case isGeneral(m.Topics):
			general = append(general, m)
		}
	}
	if len(matched) == 0 {
		matched = general
	}
	return firstN(matched, n)
}

func matchesTopic(topics []string, topicKey string) bool {
	key := strings.ToLower(topicKey)
	for _, t := range topics {
		t = strings.ToLower(t)
		if t != GeneralTopic && t != "" && strings.Contains(key, t) {
			return true
		}
	}
	return false
}

func isGeneral(topics []string) bool {
	if len(topics) == 0 {
		return true
	}
	for _, t := range topics {
		if strings.EqualFold(t, GeneralTopic) {
			return true
		}
	}
	return false
}

func firstN[T any](items []T, n int) []T {
	if n >= 0 && len(items) > n {
		return items[:n]
	}
	return items
}
