package tokenizer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RulesFile represents the structure of a YAML rules file.
type RulesFile struct {
	Rules   []RuleSpec   `yaml:"rules,omitempty"`
	Options *OptionsSpec `yaml:"options,omitempty"`
}

// RuleSpec is the serialisable form of a Rule. Exactly one of Pattern,
// Literals and Builtin must be set.
type RuleSpec struct {
	Kind     TokenKind `yaml:"kind"`
	Class    RuleClass `yaml:"class,omitempty"`
	Pattern  string    `yaml:"pattern,omitempty"`
	Literals []string  `yaml:"literals,omitempty,flow"`
	Builtin  string    `yaml:"builtin,omitempty"`
}

// OptionsSpec holds the options a rules file sets. Unset fields keep
// whatever value they are applied over.
type OptionsSpec struct {
	ElideWhitespace *bool           `yaml:"elide_whitespace,omitempty"`
	ElideComments   *bool           `yaml:"elide_comments,omitempty"`
	Parallel        *bool           `yaml:"parallel,omitempty"`
	SegmentCount    *int            `yaml:"segment_count,omitempty"`
	Boundaries      []int           `yaml:"boundaries,omitempty,flow"`
	Workers         *int            `yaml:"workers,omitempty"`
	Straddle        *StraddlePolicy `yaml:"straddle,omitempty"`
}

// Compile turns the entry into a Rule.
func (s RuleSpec) Compile() (Rule, error) {
	sources := 0
	if s.Pattern != "" {
		sources++
	}
	if len(s.Literals) > 0 {
		sources++
	}
	if s.Builtin != "" {
		sources++
	}
	if sources != 1 {
		return Rule{}, fmt.Errorf("%w: rule '%s' needs exactly one of pattern, literals or builtin", ErrInvalidRule, s.Kind)
	}

	rule := Rule{Kind: s.Kind, Class: s.Class}
	switch {
	case s.Pattern != "":
		m, err := PatternMatcher(s.Pattern)
		if err != nil {
			return Rule{}, fmt.Errorf("%w: rule '%s': %v", ErrInvalidRule, s.Kind, err)
		}
		rule.Match = m
	case len(s.Literals) > 0:
		for _, literal := range s.Literals {
			if literal == "" {
				return Rule{}, fmt.Errorf("%w: rule '%s' has an empty literal", ErrInvalidRule, s.Kind)
			}
		}
		rule.Match = LiteralMatcher(s.Literals...)
	default:
		m, ok := BuiltinMatcher(s.Builtin)
		if !ok {
			return Rule{}, fmt.Errorf("%w: rule '%s' refers to unknown builtin '%s'", ErrInvalidRule, s.Kind, s.Builtin)
		}
		rule.Match = m
	}
	return rule, nil
}

// CompileRules compiles specs into a table, keeping their order.
func CompileRules(specs []RuleSpec) (*RuleTable, error) {
	rules := make([]Rule, 0, len(specs))
	for i, spec := range specs {
		rule, err := spec.Compile()
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		rules = append(rules, rule)
	}
	return NewRuleTable(rules...)
}

// ApplyTo returns opts with every field set here overridden.
func (s *OptionsSpec) ApplyTo(opts Options) Options {
	if s == nil {
		return opts
	}
	if s.ElideWhitespace != nil {
		opts.ElideWhitespace = *s.ElideWhitespace
	}
	if s.ElideComments != nil {
		opts.ElideComments = *s.ElideComments
	}
	if s.Parallel != nil {
		opts.Parallel = *s.Parallel
	}
	if s.SegmentCount != nil {
		opts.SegmentCount = *s.SegmentCount
	}
	if s.Boundaries != nil {
		opts.Boundaries = append([]int(nil), s.Boundaries...)
	}
	if s.Workers != nil {
		opts.Workers = *s.Workers
	}
	if s.Straddle != nil {
		opts.Straddle = *s.Straddle
	}
	return opts
}

// LoadRulesFile loads and parses a YAML rules file.
func LoadRulesFile(filename string) (*RulesFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file '%s': %w", filename, err)
	}

	rules, err := ParseRulesFile(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML in rules file '%s': %w", filename, err)
	}
	return rules, nil
}

// ParseRulesFile parses the YAML text of a rules file.
func ParseRulesFile(data []byte) (*RulesFile, error) {
	var rules RulesFile
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, err
	}
	return &rules, nil
}

// ApplyRulesToDefaults builds a table and options from a rules file. A file
// that lists rules replaces the default table as a whole, because rule order
// is significant and cannot be merged meaningfully. Options override the
// defaults field by field.
func ApplyRulesToDefaults(rules *RulesFile) (*RuleTable, Options, error) {
	opts := DefaultOptions()
	if rules == nil {
		return DefaultRules(), opts, nil
	}

	table := DefaultRules()
	if len(rules.Rules) > 0 {
		var err error
		table, err = CompileRules(rules.Rules)
		if err != nil {
			return nil, Options{}, err
		}
	}

	opts = rules.Options.ApplyTo(opts)
	if err := opts.Validate(); err != nil {
		return nil, Options{}, err
	}
	return table, opts, nil
}

// MakeRulesFile returns the default configuration as a rules file.
func MakeRulesFile() *RulesFile {
	opts := DefaultOptions()
	return &RulesFile{
		Rules: DefaultRuleSpecs(),
		Options: &OptionsSpec{
			ElideWhitespace: &opts.ElideWhitespace,
			ElideComments:   &opts.ElideComments,
			Parallel:        &opts.Parallel,
			SegmentCount:    &opts.SegmentCount,
			Workers:         &opts.Workers,
			Straddle:        &opts.Straddle,
		},
	}
}

// Marshal renders the rules file as YAML.
func (rf *RulesFile) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(rf)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rules to YAML: %w", err)
	}
	return data, nil
}
