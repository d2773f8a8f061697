// Package taxonomy holds the rule tables used to classify job postings:
// functions, seniority tiers, signal axes, tools, and location vocabulary.
//
// A Taxonomy is built once (usually with Default) and never mutated afterwards,
// so it can be shared freely between goroutines.
package taxonomy

import (
	"fmt"
	"regexp"
)

// None is the sentinel value written when an axis or tool list has no match.
const None = "_none"

// Unknown is the label for a classification miss.
const Unknown = "unknown"

// Function labels.
const (
	FunctionEngineering = "engineering"
	FunctionData        = "data"
	FunctionProduct     = "product"
	FunctionSales       = "sales"
	FunctionMarketing   = "marketing"
	FunctionFinance     = "finance"
	FunctionPeople      = "people"
	FunctionLegal       = "legal"
	FunctionOperations  = "operations"
	FunctionConsulting  = "consulting"
)

// Seniority ladder, highest first.
const (
	SeniorityCSuite        = "c_suite"
	SeniorityVP            = "vp"
	SeniorityDirector      = "director"
	SeniorityHead          = "head"
	SenioritySeniorManager = "senior_manager"
	SeniorityManager       = "manager"
	SenioritySenior        = "senior"
	SeniorityMid           = "mid"
	SeniorityAssociate     = "associate"
	SeniorityEntry         = "entry"
)

// Ladder lists seniority tiers from highest to lowest.
var Ladder = []string{
	SeniorityCSuite, SeniorityVP, SeniorityDirector, SeniorityHead, SenioritySeniorManager,
	SeniorityManager, SenioritySenior, SeniorityMid, SeniorityAssociate, SeniorityEntry,
}

// Signal axes.
const (
	AxisHiring   = "hiring_signal"
	AxisTeam     = "team_structure"
	AxisComp     = "comp_signal"
	AxisSegment  = "segment"
	AxisMotion   = "motion"
	AxisGeoFocus = "geo_focus"
)

// Rule is an ordered (predicate, label) pair. Lists of rules are evaluated
// first-match-wins.
type Rule struct {
	Label   string
	Pattern *regexp.Regexp
}

// SignalRule marks a posting with Value on the Type axis when Pattern matches.
type SignalRule struct {
	Type    string
	Value   string
	Pattern *regexp.Regexp
}

// Tool is a named technology or product that postings mention.
type Tool struct {
	Name          string
	Category      string
	Aliases       []string
	CaseSensitive bool
}

// Taxonomy is the complete, read-only set of classification tables.
type Taxonomy struct {
	// Departments maps a lowercased board department name to a function.
	Departments          map[string]string
	TitleFunctions       []Rule
	DescriptionFunctions []Rule

	TitleSeniority       []Rule
	DescriptionSeniority []Rule

	AITerms        *regexp.Regexp
	AINativeTitles *regexp.Regexp

	Signals []SignalRule
	Tools   []Tool

	// Metros maps a lowercased city alias to its metro label.
	Metros map[string]string

	// USMetros holds the Metros labels located in the United States.
	USMetros map[string]bool

	// USQualifiers are lowercased country names that mean the United States.
	USQualifiers map[string]bool

	States map[string]bool

	RemoteTerms *regexp.Regexp
	HybridTerms *regexp.Regexp
	OnsiteTerms *regexp.Regexp

	// Shadows are phrases that claim text without producing a tool, so that
	// "go-to-market" is never read as the Go language.
	Shadows []string

	matcher *toolMatcher
}

// Default builds the canonical taxonomy.
func Default() *Taxonomy {
	t := &Taxonomy{
		Departments:          defaultDepartments(),
		TitleFunctions:       defaultTitleFunctions(),
		DescriptionFunctions: defaultDescriptionFunctions(),
		TitleSeniority:       defaultTitleSeniority(),
		DescriptionSeniority: defaultDescriptionSeniority(),
		AITerms:              aiTerms,
		AINativeTitles:       aiNativeTitles,
		Signals:              defaultSignals(),
		Tools:                defaultTools(),
		Metros:               defaultMetros(),
		USMetros:             defaultUSMetros(),
		States:               defaultStates(),
		USQualifiers:         defaultUSQualifiers(),
		RemoteTerms:          remoteTerms,
		HybridTerms:          hybridTerms,
		OnsiteTerms:          onsiteTerms,
		Shadows:              defaultShadows(),
	}
	t.matcher = newToolMatcher(t.Tools, t.Shadows)
	return t
}

// New returns a taxonomy built from custom tables. It is meant for tests that
// need a narrower rule set; missing tables fall back to the defaults.
func New(opts ...Option) *Taxonomy {
	t := Default()
	for _, opt := range opts {
		opt(t)
	}
	t.matcher = newToolMatcher(t.Tools, t.Shadows)
	return t
}

// Option customises a taxonomy built with New.
type Option func(*Taxonomy)

// WithTools replaces the tool dictionary.
func WithTools(tools []Tool) Option {
	return func(t *Taxonomy) { t.Tools = tools }
}

// WithSignals replaces the signal rules.
func WithSignals(rules []SignalRule) Option {
	return func(t *Taxonomy) { t.Signals = rules }
}

// WithTitleFunctions replaces the ordered title-to-function rules.
func WithTitleFunctions(rules []Rule) Option {
	return func(t *Taxonomy) { t.TitleFunctions = rules }
}

// SignalTypes returns the six signal axes in canonical order.
func (t *Taxonomy) SignalTypes() []string {
	return []string{AxisHiring, AxisTeam, AxisComp, AxisSegment, AxisMotion, AxisGeoFocus}
}

// Categories returns the tool categories in canonical order.
func (t *Taxonomy) Categories() []string {
	return append([]string(nil), categories...)
}

// Validate checks the structural invariants of the tables.
func (t *Taxonomy) Validate() error {
	known := make(map[string]bool, len(categories))
	for _, c := range categories {
		known[c] = true
	}

	seen := make(map[string]string, len(t.Tools))
	for _, tool := range t.Tools {
		if tool.Name == "" {
			return fmt.Errorf("tool with empty name in category %q", tool.Category)
		}
		if !known[tool.Category] {
			return fmt.Errorf("tool %q has unknown category %q", tool.Name, tool.Category)
		}
		if prev, ok := seen[tool.Name]; ok {
			return fmt.Errorf("tool %q listed in both %q and %q", tool.Name, prev, tool.Category)
		}
		seen[tool.Name] = tool.Category
		if len(tool.Aliases) == 0 {
			return fmt.Errorf("tool %q has no aliases", tool.Name)
		}
	}

	axes := make(map[string]bool)
	for _, axis := range t.SignalTypes() {
		axes[axis] = true
	}
	for _, rule := range t.Signals {
		if !axes[rule.Type] {
			return fmt.Errorf("signal %q has unknown type %q", rule.Value, rule.Type)
		}
		if rule.Pattern == nil {
			return fmt.Errorf("signal %s/%s has no pattern", rule.Type, rule.Value)
		}
		if rule.Value == None {
			return fmt.Errorf("signal value %q is reserved", None)
		}
	}

	for _, rules := range [][]Rule{t.TitleFunctions, t.DescriptionFunctions, t.TitleSeniority, t.DescriptionSeniority} {
		for _, r := range rules {
			if r.Pattern == nil || r.Label == "" {
				return fmt.Errorf("rule %q is incomplete", r.Label)
			}
		}
	}
	return nil
}

// MatchFirst returns the label of the first rule whose pattern matches text.
func MatchFirst(rules []Rule, text string) (string, bool) {
	for _, r := range rules {
		if r.Pattern.MatchString(text) {
			return r.Label, true
		}
	}
	return "", false
}

// rx compiles a case-insensitive pattern.
func rx(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + pattern)
}
