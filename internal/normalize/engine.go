package normalize

import (
	"fmt"
	"regexp"
	"sort"
	"unicode"
	"unicode/utf8"
)

// Rule is one normalization rule with one or more regex patterns. Rules with
// higher priority run first; equal priorities keep declaration order.
type Rule struct {
	Patterns    []string `json:"patterns"`
	Replacement string   `json:"replacement"`
	Priority    int      `json:"priority"`
}

// RuleReport records whether one rule fired during a single Normalize call.
// Confidence is 1 when any of the rule's patterns matched at least once.
type RuleReport struct {
	Replacement string   `json:"replacement"`
	Patterns    []string `json:"patterns"`
	Priority    int      `json:"priority"`
	Confidence  int      `json:"confidence"`
}

// InvalidRuleError reports a malformed pattern at engine construction time.
type InvalidRuleError struct {
	Pattern string
	Err     error
}

// Error formats the failing pattern with the compiler diagnostic.
func (e *InvalidRuleError) Error() string {
	return fmt.Sprintf("invalid normalization pattern %q: %v", e.Pattern, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As.
func (e *InvalidRuleError) Unwrap() error {
	return e.Err
}

// compiledRule pairs a rule with its precompiled case-insensitive patterns.
type compiledRule struct {
	rule     Rule
	patterns []*regexp.Regexp
}

// Engine applies regex-based normalization rules in descending priority order.
// The compiled rule set is immutable after construction and safe for
// concurrent use.
type Engine struct {
	rules []compiledRule
}

// NewEngine compiles the given rules, sorted descending by priority with a
// stable order for equal priorities. A malformed pattern fails construction
// with InvalidRuleError before any run can start.
func NewEngine(rules []Rule) (*Engine, error) {
	ordered := make([]Rule, len(rules))
	copy(ordered, rules)
	stableSortByPriority(ordered)

	compiled := make([]compiledRule, 0, len(ordered))
	for _, rule := range ordered {
		patterns := make([]*regexp.Regexp, 0, len(rule.Patterns))
		for _, pattern := range rule.Patterns {
			re, err := regexp.Compile("(?i)" + pattern)
			if err != nil {
				return nil, &InvalidRuleError{Pattern: pattern, Err: err}
			}
			patterns = append(patterns, re)
		}
		compiled = append(compiled, compiledRule{rule: rule, patterns: patterns})
	}

	return &Engine{rules: compiled}, nil
}

// Normalize rewrites text through every rule in priority order and returns
// the normalized text, the overall confidence in [0,1], and one report entry
// per rule. Substitution is sequential: later rules see the cumulative effect
// of earlier replacements.
func (e *Engine) Normalize(text string) (string, float64, []RuleReport) {
	out := text
	report := make([]RuleReport, 0, len(e.rules))

	matchedCount := 0
	for _, entry := range e.rules {
		matched := false
		for _, pattern := range entry.patterns {
			if pattern.MatchString(out) {
				matched = true
				out = pattern.ReplaceAllString(out, entry.rule.Replacement)
			}
		}

		confidence := 0
		if matched {
			confidence = 1
			matchedCount++
		}
		report = append(report, RuleReport{
			Replacement: entry.rule.Replacement,
			Patterns:    entry.rule.Patterns,
			Priority:    entry.rule.Priority,
			Confidence:  confidence,
		})
	}

	out = upperFirst(out)

	overall := 0.0
	if len(report) > 0 {
		overall = float64(matchedCount) / float64(len(report))
	}
	return out, overall, report
}

// BuildRules converts an ordered pattern list into prioritized rules.
// Earlier entries get higher priority so they are applied first.
func BuildRules(patterns []RulePattern) []Rule {
	total := len(patterns)
	rules := make([]Rule, 0, total)
	for i, p := range patterns {
		rules = append(rules, Rule{
			Patterns:    []string{p.Pattern},
			Replacement: p.Replacement,
			Priority:    total - i,
		})
	}
	return rules
}

// stableSortByPriority orders rules descending by priority, keeping the
// declaration order for equal priorities.
func stableSortByPriority(rules []Rule) {
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
}

// upperFirst upper-cases the first character of s, leaving the rest untouched.
func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return s
	}
	upper := unicode.ToUpper(r)
	if upper == r {
		return s
	}
	return string(upper) + s[size:]
}

// defaultEngine applies the built-in Kolokwa rule set. The table is static,
// so compilation cannot fail outside of a bad edit to rules.go.
var defaultEngine = mustEngine(BuildRules(KolokwaPatterns))

// mustEngine builds an engine from trusted rules, panicking on bad patterns.
func mustEngine(rules []Rule) *Engine {
	engine, err := NewEngine(rules)
	if err != nil {
		panic(err)
	}
	return engine
}

// DefaultEngine returns the shared engine for the built-in Kolokwa rules.
func DefaultEngine() *Engine {
	return defaultEngine
}

// Text normalizes text with the default engine and returns only the
// normalized string.
func Text(text string) string {
	out, _, _ := defaultEngine.Normalize(text)
	return out
}
