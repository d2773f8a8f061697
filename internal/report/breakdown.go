package report

import (
	"math"
	"sort"

	"github.com/jonathan/fieldwork/internal/db"
	"github.com/jonathan/fieldwork/internal/enrich"
	"github.com/jonathan/fieldwork/internal/taxonomy"
)

// UndisclosedLabel is shown for a company with no salary data.
const UndisclosedLabel = "Undisclosed"

// Share is a label with its count and percentage of the company's postings.
type Share struct {
	Label string  `json:"label"`
	Count int     `json:"count"`
	Pct   float64 `json:"pct"`
}

// ToolShare is a tool with its category and how many postings mention it.
type ToolShare struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Pct      float64 `json:"pct"`
}

// SalaryStats summarizes postings that disclose a salary.
type SalaryStats struct {
	Disclosed     int      `json:"disclosed"`
	DisclosurePct float64  `json:"disclosure_pct"`
	Min           *float64 `json:"min"`
	Max           *float64 `json:"max"`
	MeanMidpoint  *float64 `json:"mean_midpoint"`
	MedianMidpt   *float64 `json:"median_midpoint"`
	Label         string   `json:"label,omitempty"`
}

// WorkModes counts postings per work mode.
type WorkModes struct {
	Remote    int     `json:"remote"`
	Hybrid    int     `json:"hybrid"`
	Onsite    int     `json:"onsite"`
	Unknown   int     `json:"unknown"`
	RemotePct float64 `json:"remote_pct"`
}

// Breakdown is the per-company view of its postings.
type Breakdown struct {
	Company      string             `json:"company"`
	Key          string             `json:"key"`
	Total        int                `json:"total"`
	Functions    []Share            `json:"functions"`
	Seniority    []Share            `json:"seniority"`
	Salary       SalaryStats        `json:"salary"`
	Signals      map[string][]Share `json:"signals"`
	Tools        []ToolShare        `json:"tools"`
	Locations    []Share            `json:"locations"`
	WorkModes    WorkModes          `json:"work_modes"`
	AIMentions   int                `json:"ai_mentions"`
	AIMentionPct float64            `json:"ai_mention_pct"`
	AINative     int                `json:"ai_native"`

	// signalCounts[axis][value] is the number of postings with that signal.
	signalCounts map[string]map[string]int
	// axisCounts[axis] is the number of postings with any signal on axis.
	axisCounts map[string]int
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(n) / float64(total) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round0(v float64) float64 {
	return math.Round(v)
}

func shares(counts map[string]int, total int) []Share {
	out := make([]Share, 0, len(counts))
	for label, n := range counts {
		out = append(out, Share{Label: label, Count: n, Pct: pct(n, total)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

func newBreakdown(display, key string, postings []db.Posting, axes []string) Breakdown {
	b := Breakdown{
		Company:      display,
		Key:          key,
		Total:        len(postings),
		Signals:      map[string][]Share{},
		signalCounts: map[string]map[string]int{},
		axisCounts:   map[string]int{},
	}

	functions := map[string]int{}
	seniority := map[string]int{}
	locations := map[string]int{}
	tools := map[string]int{}
	categories := map[string]string{}

	for _, p := range postings {
		functions[p.Function]++
		seniority[p.Seniority]++
		for _, l := range p.Locations {
			locations[l]++
		}

		switch p.WorkMode {
		case enrich.WorkModeRemote:
			b.WorkModes.Remote++
		case enrich.WorkModeHybrid:
			b.WorkModes.Hybrid++
		case enrich.WorkModeOnsite:
			b.WorkModes.Onsite++
		default:
			b.WorkModes.Unknown++
		}
		if p.HasAIMention {
			b.AIMentions++
		}
		if p.IsAINative {
			b.AINative++
		}

		seen := map[db.SignalRow]bool{}
		axes := map[string]bool{}
		for _, s := range p.Signals {
			if s.Value == taxonomy.None || seen[s] {
				continue
			}
			seen[s] = true
			if !axes[s.Type] {
				axes[s.Type] = true
				b.axisCounts[s.Type]++
			}
			if b.signalCounts[s.Type] == nil {
				b.signalCounts[s.Type] = map[string]int{}
			}
			b.signalCounts[s.Type][s.Value]++
		}
		for _, t := range p.Tools {
			if t.Name == taxonomy.None {
				continue
			}
			tools[t.Name]++
			categories[t.Name] = t.Category
		}
	}

	b.Functions = shares(functions, b.Total)
	b.Seniority = shares(seniority, b.Total)
	b.Locations = shares(locations, b.Total)
	b.WorkModes.RemotePct = pct(b.WorkModes.Remote, b.Total)
	b.AIMentionPct = pct(b.AIMentions, b.Total)
	for _, axis := range axes {
		b.Signals[axis] = shares(b.signalCounts[axis], b.Total)
	}

	b.Tools = make([]ToolShare, 0, len(tools))
	for name, n := range tools {
		b.Tools = append(b.Tools, ToolShare{Name: name, Category: categories[name], Count: n, Pct: pct(n, b.Total)})
	}
	sort.Slice(b.Tools, func(i, j int) bool {
		if b.Tools[i].Count != b.Tools[j].Count {
			return b.Tools[i].Count > b.Tools[j].Count
		}
		return b.Tools[i].Name < b.Tools[j].Name
	})

	b.Salary = salaryStats(postings)
	return b
}

// signal returns how many postings carry the (axis, value) signal.
func (b *Breakdown) signal(axis, value string) int {
	return b.signalCounts[axis][value]
}

// axisCount returns how many postings carry any real signal on axis.
func (b *Breakdown) axisCount(axis string) int {
	return b.axisCounts[axis]
}

func salaryStats(postings []db.Posting) SalaryStats {
	var s SalaryStats
	var mids []float64
	for _, p := range postings {
		lo, hi := p.SalaryMin, p.SalaryMax
		if lo == nil && hi == nil {
			continue
		}
		if lo == nil {
			lo = hi
		}
		if hi == nil {
			hi = lo
		}
		s.Disclosed++
		if s.Min == nil || *lo < *s.Min {
			v := *lo
			s.Min = &v
		}
		if s.Max == nil || *hi > *s.Max {
			v := *hi
			s.Max = &v
		}
		mids = append(mids, (*lo+*hi)/2)
	}
	s.DisclosurePct = pct(s.Disclosed, len(postings))
	if len(mids) == 0 {
		s.Label = UndisclosedLabel
		return s
	}

	sum := 0.0
	for _, m := range mids {
		sum += m
	}
	mean := round0(sum / float64(len(mids)))
	s.MeanMidpoint = &mean

	sort.Float64s(mids)
	var median float64
	if n := len(mids); n%2 == 1 {
		median = mids[n/2]
	} else {
		median = (mids[n/2-1] + mids[n/2]) / 2
	}
	median = round0(median)
	s.MedianMidpt = &median
	return s
}
