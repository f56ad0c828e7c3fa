package analyzer

// Policy holds the completeness heuristic. The weights are a calibration
// choice, not a law: tune them here without touching the analyzer's flow.
type Policy struct {
	// SectionWeight is the share of the score earned by rubric coverage.
	SectionWeight float64
	// CodeWeight is the share earned by code examples, saturating at CodeTarget.
	CodeWeight float64
	CodeTarget int
	// GapPenalty is subtracted once per detected gap.
	GapPenalty int
	// MinExamples is the code example count below which a gap is reported.
	MinExamples int
	// ComprehensiveAt and ModerateAt are the satisfied-probe thresholds for depth.
	ComprehensiveAt int
	ModerateAt      int
}

// DefaultPolicy returns the weights the pipeline has always used.
func DefaultPolicy() Policy {
	return Policy{
		SectionWeight:   50,
		CodeWeight:      30,
		CodeTarget:      10,
		GapPenalty:      5,
		MinExamples:     5,
		ComprehensiveAt: 4,
		ModerateAt:      2,
	}
}
