// CLAUDE:SUMMARY Loads the embedded YAML rule table (ordered patterns, vocab, prefixes, keywords) into immutable compiled form.
package fields

import (
	_ "embed"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var rulesYAML []byte

type rawRules struct {
	PatternRules []struct {
		Field    string   `yaml:"field"`
		Patterns []string `yaml:"patterns"`
	} `yaml:"pattern_rules"`
	VocabRules []struct {
		Field   string `yaml:"field"`
		Options []struct {
			Value   string `yaml:"value"`
			Pattern string `yaml:"pattern"`
		} `yaml:"options"`
	} `yaml:"vocab_rules"`
	HeaderPrefixes    []string            `yaml:"header_prefixes"`
	ObjectMarkers     []string            `yaml:"object_markers"`
	ObjectTerminators []string            `yaml:"object_terminators"`
	CategoryKeywords  map[string][]string `yaml:"category_keywords"`
}

// patternRule is one field with its ordered candidate patterns. Evaluation is
// first-match-wins, so slice order encodes precedence.
type patternRule struct {
	field    string
	patterns []*regexp.Regexp
}

// vocabOption maps a fixed value to the pattern that asserts it.
type vocabOption struct {
	value   string
	pattern *regexp.Regexp
}

type vocabRule struct {
	field   string
	options []vocabOption
}

type ruleTable struct {
	patterns          []patternRule
	vocab             []vocabRule
	headerPrefixes    []string
	objectMarkers     []*regexp.Regexp
	objectTerminators []*regexp.Regexp
	categoryKeywords  map[string][]string
}

// rules is decoded once at init and never mutated afterwards.
var rules = mustLoadRules()

func mustLoadRules() *ruleTable {
	var raw rawRules
	if err := yaml.Unmarshal(rulesYAML, &raw); err != nil {
		panic(fmt.Sprintf("fields: decode rules.yaml: %v", err))
	}

	t := &ruleTable{
		headerPrefixes:   raw.HeaderPrefixes,
		categoryKeywords: raw.CategoryKeywords,
	}
	for _, pr := range raw.PatternRules {
		rule := patternRule{field: pr.Field}
		for _, p := range pr.Patterns {
			rule.patterns = append(rule.patterns, regexp.MustCompile(p))
		}
		t.patterns = append(t.patterns, rule)
	}
	for _, vr := range raw.VocabRules {
		rule := vocabRule{field: vr.Field}
		for _, o := range vr.Options {
			rule.options = append(rule.options, vocabOption{
				value:   o.Value,
				pattern: regexp.MustCompile(o.Pattern),
			})
		}
		t.vocab = append(t.vocab, rule)
	}
	for _, m := range raw.ObjectMarkers {
		t.objectMarkers = append(t.objectMarkers, regexp.MustCompile(m))
	}
	for _, m := range raw.ObjectTerminators {
		t.objectTerminators = append(t.objectTerminators, regexp.MustCompile(m))
	}
	return t
}
