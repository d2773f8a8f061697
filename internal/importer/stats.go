package importer

import (
	"sort"

	"github.com/jonathan/fieldwork/internal/taxonomy"
)

const topN = 10

// Count is a label with the number of postings carrying it.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Stats summarizes the postings an import wrote.
type Stats struct {
	Postings        int     `json:"postings"`
	ByFunction      []Count `json:"by_function"`
	BySeniority     []Count `json:"by_seniority"`
	SalaryDisclosed int     `json:"salary_disclosed"`
	AIMentions      int     `json:"ai_mentions"`
	AINative        int     `json:"ai_native"`
	Remote          int     `json:"remote"`
	TopSignals      []Count `json:"top_signals"`
	TopTools        []Count `json:"top_tools"`
	TopLocations    []Count `json:"top_locations"`
}

func buildStats(items []enriched) Stats {
	st := Stats{Postings: len(items)}
	functions := map[string]int{}
	seniority := map[string]int{}
	signals := map[string]int{}
	tools := map[string]int{}
	locations := map[string]int{}

	for _, it := range items {
		p := it.posting
		functions[p.Function]++
		seniority[p.Seniority]++
		if p.SalaryMin != nil || p.SalaryMax != nil {
			st.SalaryDisclosed++
		}
		if p.HasAIMention {
			st.AIMentions++
		}
		if p.IsAINative {
			st.AINative++
		}
		if p.IsRemote {
			st.Remote++
		}
		for _, s := range p.Signals {
			if s.Value != taxonomy.None {
				signals[s.Type+":"+s.Value]++
			}
		}
		for _, t := range p.Tools {
			if t.Name != taxonomy.None {
				tools[t.Name]++
			}
		}
		for _, l := range p.Locations {
			locations[l]++
		}
	}

	st.ByFunction = sortedCounts(functions, 0)
	st.BySeniority = sortedCounts(seniority, 0)
	st.TopSignals = sortedCounts(signals, topN)
	st.TopTools = sortedCounts(tools, topN)
	st.TopLocations = sortedCounts(locations, topN)
	return st
}

// sortedCounts orders by count descending then label; limit <= 0 keeps all.
func sortedCounts(m map[string]int, limit int) []Count {
	out := make([]Count, 0, len(m))
	for label, n := range m {
		out = append(out, Count{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
