package report

import (
	"fmt"
	"sort"

	"github.com/jonathan/fieldwork/internal/taxonomy"
)

// Aggression score weights.
const (
	weightRole       = 1
	weightGrowthHire = 2
	weightImmediate  = 3
)

// NotApplicable is rendered for a ratio whose denominator is zero.
const NotApplicable = "n/a"

// AggressionRow ranks a company by how hard it is hiring.
type AggressionRow struct {
	Rank       int    `json:"rank"`
	Company    string `json:"company"`
	Roles      int    `json:"roles"`
	GrowthHire int    `json:"growth_hire"`
	Immediate  int    `json:"immediate"`
	Score      int    `json:"score"`
}

// BuildRow shows how much of a company's hiring is building new teams.
type BuildRow struct {
	Company   string   `json:"company"`
	BuildTeam int      `json:"build_team"`
	FirstHire int      `json:"first_hire"`
	ReportsTo int      `json:"reports_to"`
	BuildPct  *float64 `json:"build_pct"`
	Display   string   `json:"display"`
}

// CompensationRow is one line of the compensation table.
type CompensationRow struct {
	Company       string   `json:"company"`
	Disclosed     int      `json:"disclosed"`
	DisclosurePct float64  `json:"disclosure_pct"`
	Min           *float64 `json:"min"`
	Max           *float64 `json:"max"`
	Median        *float64 `json:"median_midpoint"`
	Display       string   `json:"display"`
}

// RemoteRow is one line of the remote work table.
type RemoteRow struct {
	Company string `json:"company"`
	WorkModes
}

// GeographyRow lists a company's most common locations.
type GeographyRow struct {
	Company   string  `json:"company"`
	Locations []Share `json:"locations"`
}

// CompanyTools lists a company's most mentioned tools.
type CompanyTools struct {
	Company string      `json:"company"`
	Tools   []ToolShare `json:"tools"`
}

// TechStack is the tool table across companies.
type TechStack struct {
	PerCompany []CompanyTools `json:"per_company"`
	// Shared lists tools every company with postings mentions.
	Shared []string `json:"shared"`
}

// SignalCategoryRow counts, per axis, the postings carrying any signal on it.
type SignalCategoryRow struct {
	Company string         `json:"company"`
	Counts  map[string]int `json:"counts"`
}

// Comparison holds the side by side tables.
type Comparison struct {
	Aggression       []AggressionRow     `json:"aggression"`
	Build            []BuildRow          `json:"build"`
	Compensation     []CompensationRow   `json:"compensation"`
	Remote           []RemoteRow         `json:"remote"`
	Geography        []GeographyRow      `json:"geography"`
	TechStack        TechStack           `json:"tech_stack"`
	SignalCategories []SignalCategoryRow `json:"signal_categories"`
}

// AggressionScore weighs open roles against urgency signals.
func AggressionScore(roles, growthHire, immediate int) int {
	return weightRole*roles + weightGrowthHire*growthHire + weightImmediate*immediate
}

// BuildPct is build_team over all team structure signals that indicate who
// the hire builds or reports to. It returns nil when there are none.
func BuildPct(buildTeam, firstHire, reportsTo int) *float64 {
	denom := buildTeam + firstHire + reportsTo
	if denom == 0 {
		return nil
	}
	v := pct(buildTeam, denom)
	return &v
}

// FormatSalary renders a salary figure as whole dollars with thousands
// separators, or Undisclosed for nil.
func FormatSalary(v *float64) string {
	if v == nil {
		return UndisclosedLabel
	}
	n := int64(round0(*v))
	sign := ""
	if n < 0 {
		sign, n = "-", -n
	}
	s := fmt.Sprintf("%d", n)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return sign + "$" + s
}

func formatPct(v *float64) string {
	if v == nil {
		return NotApplicable
	}
	return fmt.Sprintf("%.1f%%", *v)
}

func compare(breakdowns []Breakdown, axes []string, topN int) Comparison {
	c := Comparison{
		Aggression:       make([]AggressionRow, 0, len(breakdowns)),
		Build:            make([]BuildRow, 0, len(breakdowns)),
		Compensation:     make([]CompensationRow, 0, len(breakdowns)),
		Remote:           make([]RemoteRow, 0, len(breakdowns)),
		Geography:        make([]GeographyRow, 0, len(breakdowns)),
		SignalCategories: make([]SignalCategoryRow, 0, len(breakdowns)),
		TechStack:        TechStack{PerCompany: make([]CompanyTools, 0, len(breakdowns)), Shared: []string{}},
	}

	for i := range breakdowns {
		b := &breakdowns[i]

		growth := b.signal(taxonomy.AxisHiring, "growth_hire")
		immediate := b.signal(taxonomy.AxisHiring, "immediate")
		c.Aggression = append(c.Aggression, AggressionRow{
			Company:    b.Company,
			Roles:      b.Total,
			GrowthHire: growth,
			Immediate:  immediate,
			Score:      AggressionScore(b.Total, growth, immediate),
		})

		build := b.signal(taxonomy.AxisTeam, "build_team")
		first := b.signal(taxonomy.AxisTeam, "first_hire")
		reports := b.signal(taxonomy.AxisTeam, "reports_cro") +
			b.signal(taxonomy.AxisTeam, "reports_ceo") +
			b.signal(taxonomy.AxisTeam, "reports_vp")
		buildPct := BuildPct(build, first, reports)
		c.Build = append(c.Build, BuildRow{
			Company:   b.Company,
			BuildTeam: build,
			FirstHire: first,
			ReportsTo: reports,
			BuildPct:  buildPct,
			Display:   formatPct(buildPct),
		})

		c.Compensation = append(c.Compensation, CompensationRow{
			Company:       b.Company,
			Disclosed:     b.Salary.Disclosed,
			DisclosurePct: b.Salary.DisclosurePct,
			Min:           b.Salary.Min,
			Max:           b.Salary.Max,
			Median:        b.Salary.MedianMidpt,
			Display:       FormatSalary(b.Salary.MedianMidpt),
		})

		c.Remote = append(c.Remote, RemoteRow{Company: b.Company, WorkModes: b.WorkModes})
		c.Geography = append(c.Geography, GeographyRow{Company: b.Company, Locations: top(b.Locations, topN)})
		c.TechStack.PerCompany = append(c.TechStack.PerCompany, CompanyTools{Company: b.Company, Tools: topTools(b.Tools, topN)})

		counts := map[string]int{}
		for _, axis := range axes {
			counts[axis] = b.axisCount(axis)
		}
		c.SignalCategories = append(c.SignalCategories, SignalCategoryRow{Company: b.Company, Counts: counts})
	}

	sort.SliceStable(c.Aggression, func(i, j int) bool {
		if c.Aggression[i].Score != c.Aggression[j].Score {
			return c.Aggression[i].Score > c.Aggression[j].Score
		}
		return c.Aggression[i].Company < c.Aggression[j].Company
	})
	for i := range c.Aggression {
		c.Aggression[i].Rank = i + 1
	}

	c.TechStack.Shared = sharedTools(breakdowns)
	return c
}

// sharedTools returns the tools mentioned by every company that has postings.
func sharedTools(breakdowns []Breakdown) []string {
	counts := map[string]int{}
	companies := 0
	for _, b := range breakdowns {
		if b.Total == 0 {
			continue
		}
		companies++
		for _, t := range b.Tools {
			counts[t.Name]++
		}
	}
	shared := []string{}
	if companies < 2 {
		return shared
	}
	for name, n := range counts {
		if n == companies {
			shared = append(shared, name)
		}
	}
	sort.Strings(shared)
	return shared
}

func top(s []Share, n int) []Share {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}

func topTools(s []ToolShare, n int) []ToolShare {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}
