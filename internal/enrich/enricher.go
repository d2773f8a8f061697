// Package enrich turns a raw job posting into structured classification:
// function, seniority, AI mentions, signals, tools, location, and salary.
//
// Enrichment is a pure function of the posting and the taxonomy. It never
// fails; anything it cannot classify is labelled unknown.
package enrich

import (
	"sort"
	"strings"

	"github.com/jonathan/fieldwork/internal/taxonomy"
)

// PayRange is a structured salary range in whole currency units.
type PayRange struct {
	Min      float64
	Max      float64
	Currency string
}

// Posting is the input to enrichment.
type Posting struct {
	ExternalID   string
	Title        string
	Description  string
	Department   string
	LocationText string
	PayRanges    []PayRange
}

// Signal is one (type, value) observation.
type Signal struct {
	Type  string `json:"signal_type"`
	Value string `json:"signal_value"`
}

// Tool is one tool mention.
type Tool struct {
	Name     string `json:"tool_name"`
	Category string `json:"tool_category"`
}

// Result is the classification of one posting.
type Result struct {
	Function     string   `json:"function"`
	Seniority    string   `json:"seniority"`
	HasAIMention bool     `json:"has_ai_mention"`
	AITerms      []string `json:"ai_terms,omitempty"`
	IsAINative   bool     `json:"is_ai_native"`
	Signals      []Signal `json:"signals"`
	Tools        []Tool   `json:"tools"`
	Locations    []string `json:"locations"`
	WorkMode     string   `json:"work_mode"`
	IsRemote     bool     `json:"is_remote"`
	State        string   `json:"state,omitempty"`
	SalaryMin    *float64 `json:"salary_min,omitempty"`
	SalaryMax    *float64 `json:"salary_max,omitempty"`
	PlainText    string   `json:"-"`
}

// Enricher classifies postings against a fixed taxonomy.
type Enricher struct {
	tax *taxonomy.Taxonomy
}

// New creates an Enricher. A nil taxonomy means taxonomy.Default().
func New(tax *taxonomy.Taxonomy) *Enricher {
	if tax == nil {
		tax = taxonomy.Default()
	}
	return &Enricher{tax: tax}
}

// Taxonomy returns the rule tables this enricher uses.
func (e *Enricher) Taxonomy() *taxonomy.Taxonomy {
	return e.tax
}

// Enrich classifies a posting.
func (e *Enricher) Enrich(p Posting) Result {
	text := PlainText(p.Description)
	title := strings.TrimSpace(p.Title)
	combined := title + "\n" + text

	loc := e.parseLocation(p.LocationText, text)
	lo, hi := ExtractSalary(p.PayRanges, text)

	r := Result{
		Function:   e.function(p.Department, title, text),
		Seniority:  e.seniority(title, text),
		AITerms:    e.aiTerms(combined),
		IsAINative: e.tax.AINativeTitles.MatchString(title),
		Signals:    e.signals(strings.ToLower(combined)),
		Tools:      e.tools(combined),
		Locations:  loc.Places,
		WorkMode:   loc.WorkMode,
		IsRemote:   loc.WorkMode == WorkModeRemote,
		State:      loc.State,
		SalaryMin:  lo,
		SalaryMax:  hi,
		PlainText:  text,
	}
	r.HasAIMention = len(r.AITerms) > 0
	return r
}

func (e *Enricher) function(department, title, text string) string {
	if f, ok := e.tax.Departments[strings.ToLower(strings.TrimSpace(department))]; ok {
		return f
	}
	if f, ok := taxonomy.MatchFirst(e.tax.TitleFunctions, title); ok {
		return f
	}
	if f, ok := taxonomy.MatchFirst(e.tax.DescriptionFunctions, text); ok {
		return f
	}
	return taxonomy.Unknown
}

func (e *Enricher) seniority(title, text string) string {
	if s, ok := taxonomy.MatchFirst(e.tax.TitleSeniority, title); ok {
		return s
	}
	if s, ok := taxonomy.MatchFirst(e.tax.DescriptionSeniority, text); ok {
		return s
	}
	return taxonomy.Unknown
}

func (e *Enricher) aiTerms(text string) []string {
	found := make(map[string]bool)
	for _, m := range e.tax.AITerms.FindAllString(text, -1) {
		found[strings.ToLower(m)] = true
	}
	if len(found) == 0 {
		return nil
	}
	terms := make([]string, 0, len(found))
	for t := range found {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}

func (e *Enricher) signals(text string) []Signal {
	var out []Signal
	seen := make(map[Signal]bool)
	for _, rule := range e.tax.Signals {
		s := Signal{Type: rule.Type, Value: rule.Value}
		if seen[s] || !rule.Pattern.MatchString(text) {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func (e *Enricher) tools(text string) []Tool {
	matches := e.tax.MatchTools(text)
	out := make([]Tool, 0, len(matches))
	for _, m := range matches {
		out = append(out, Tool{Name: m.Name, Category: m.Category})
	}
	return out
}

// SignalRows returns the rows to persist for this result: every matched
// signal, plus a (type, "_none") row for each axis with no match.
func (r Result) SignalRows(tax *taxonomy.Taxonomy) []Signal {
	have := make(map[string]bool)
	for _, s := range r.Signals {
		have[s.Type] = true
	}
	rows := make([]Signal, 0, len(r.Signals)+len(tax.SignalTypes()))
	rows = append(rows, r.Signals...)
	for _, axis := range tax.SignalTypes() {
		if !have[axis] {
			rows = append(rows, Signal{Type: axis, Value: taxonomy.None})
		}
	}
	return rows
}

// ToolRows returns the tools to persist, or a single sentinel row when the
// posting mentions none.
func (r Result) ToolRows() []Tool {
	if len(r.Tools) == 0 {
		return []Tool{{Name: taxonomy.None, Category: taxonomy.None}}
	}
	return r.Tools
}
