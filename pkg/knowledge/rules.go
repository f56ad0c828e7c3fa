package knowledge

import (
	"fmt"
	"strings"
)

// Predicate decides whether a rule applies to a topic key.
type Predicate func(topicKey string) bool

// Contains matches topic keys containing any of the terms, case-insensitively.
func Contains(terms ...string) Predicate {
	return func(topicKey string) bool {
		key := strings.ToLower(topicKey)
		for _, t := range terms {
			if strings.Contains(key, strings.ToLower(t)) {
				return true
			}
		}
		return false
	}
}

// Always matches every topic.
func Always() Predicate {
	return func(string) bool { return true }
}

// Rule maps a predicate to an exemplar name. Rules are evaluated in order and
// the first match wins.
type Rule struct {
	Name     string
	When     Predicate
	Exemplar string
}

// RuleSpec is the JSON form of a structure rule.
type RuleSpec struct {
	Name     string   `json:"name,omitempty"`
	Contains []string `json:"contains"`
	Exemplar string   `json:"exemplar"`
}

// DefaultRules is the table used when a knowledge base declares none.
func DefaultRules() []RuleSpec {
	return []RuleSpec{
		{Name: "routing", Contains: []string{"routing"}, Exemplar: "routing"},
		{Name: "controller", Contains: []string{"controller"}, Exemplar: "controller"},
	}
}

// Rules returns the ordered rule table, ending with the fallback rule.
func (kb *KnowledgeBase) Rules() []Rule {
	specs := kb.StructureRules
	if len(specs) == 0 {
		for _, s := range DefaultRules() {
			if _, ok := kb.Exemplars[s.Exemplar]; ok {
				specs = append(specs, s)
			}
		}
	}

	rules := make([]Rule, 0, len(specs)+1)
	for i, s := range specs {
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("rule-%d", i+1)
		}
		rules = append(rules, Rule{Name: name, When: Contains(s.Contains...), Exemplar: s.Exemplar})
	}
	return append(rules, Rule{Name: "default", When: Always(), Exemplar: kb.DefaultExemplar})
}

// Select returns the first rule matching topicKey.
func Select(rules []Rule, topicKey string) (Rule, bool) {
	for _, r := range rules {
		if r.When != nil && r.When(topicKey) {
			return r, true
		}
	}
	return Rule{}, false
}

// SelectExemplar picks the structure exemplar for topicKey.
func (kb *KnowledgeBase) SelectExemplar(topicKey string) (string, Exemplar) {
	rule, ok := Select(kb.Rules(), topicKey)
	if !ok {
		return kb.DefaultExemplar, kb.Exemplars[kb.DefaultExemplar]
	}
	return rule.Exemplar, kb.Exemplars[rule.Exemplar]
}
