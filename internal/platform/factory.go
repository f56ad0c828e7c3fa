package platform

import (
	"fmt"

	"github.com/aretw0/lessonkit/pkg/analyzer"
	"github.com/aretw0/lessonkit/pkg/bilingual"
	"github.com/aretw0/lessonkit/pkg/generator"
	"github.com/aretw0/lessonkit/pkg/knowledge"
	"github.com/aretw0/lessonkit/pkg/pipeline"
)

// New wires a ready-to-run pipeline over the lesson directory at uri.
//
//	d, err := platform.New("./src/lessons", platform.WithLocale("pt-BR"))
func New(uri string, opts ...Option) (*pipeline.Driver, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	// 1. Storage
	repo, err := initRepository(uri, o)
	if err != nil {
		return nil, err
	}

	// 2. Reference data, loaded once per run
	kb, err := loadKnowledge(o)
	if err != nil {
		return nil, err
	}

	// 3. Stages
	manager, err := bilingual.New(o.locale)
	if err != nil {
		return nil, err
	}
	a := analyzer.New()
	if len(o.rubric) > 0 {
		a.Rubric = o.rubric
	}
	genOpts := []generator.Option{generator.WithRubric(a.Rubric)}
	if o.bestPractices > 0 {
		genOpts = append(genOpts, generator.WithBestPractices(o.bestPractices))
	}
	if o.commonMistakes > 0 {
		genOpts = append(genOpts, generator.WithCommonMistakes(o.commonMistakes))
	}

	driverOpts := []pipeline.Option{
		pipeline.WithAnalyzer(a),
		pipeline.WithBilingual(manager),
		pipeline.WithGenerator(generator.New(kb, genOpts...)),
	}
	if o.logger != nil {
		driverOpts = append(driverOpts, pipeline.WithLogger(o.logger))
	}
	return pipeline.New(repo, kb, driverOpts...)
}

// LoadKnowledge returns the knowledge base selected by opts: an injected one,
// a JSON file, or the embedded default.
func LoadKnowledge(opts ...Option) (*knowledge.KnowledgeBase, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return loadKnowledge(o)
}

func loadKnowledge(o *options) (*knowledge.KnowledgeBase, error) {
	switch {
	case o.knowledgeBase != nil:
		return o.knowledgeBase, nil
	case o.knowledgePath != "":
		return knowledge.LoadFile(o.knowledgePath)
	default:
		kb, err := knowledge.Default()
		if err != nil {
			return nil, fmt.Errorf("embedded knowledge base: %w", err)
		}
		return kb, nil
	}
}
