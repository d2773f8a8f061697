package enrich

import (
	"testing"

	"github.com/jonathan/fieldwork/internal/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrich_VPOfSalesScenario(t *testing.T) {
	e := New(nil)
	r := e.Enrich(Posting{
		Title:       "VP of Sales",
		Description: "We are building our first sales team, reporting to the CRO. Remote-first.",
	})

	assert.Equal(t, taxonomy.FunctionSales, r.Function)
	assert.Equal(t, taxonomy.SeniorityVP, r.Seniority)
	assert.True(t, r.IsRemote)
	assert.Equal(t, WorkModeRemote, r.WorkMode)
	assert.Equal(t, []string{RemoteLabel}, r.Locations)

	team := valuesFor(r.Signals, taxonomy.AxisTeam)
	assert.Subset(t, team, []string{"build_team", "first_hire", "reports_cro"})
}

func TestEnrich_Deterministic(t *testing.T) {
	e := New(nil)
	p := Posting{
		Title:        "Senior Machine Learning Engineer",
		Description:  "<p>Build LLM features with PyTorch on AWS.</p><ul><li>Python</li><li>Kubernetes</li></ul>",
		LocationText: "San Francisco, CA; New York, NY",
	}
	first := e.Enrich(p)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, e.Enrich(p))
	}
}

func TestEnrich_AIAndTools(t *testing.T) {
	e := New(nil)
	r := e.Enrich(Posting{
		Title:       "Senior Machine Learning Engineer",
		Description: "<p>Build LLM features with PyTorch on AWS.</p><ul><li>Python</li><li>Kubernetes</li></ul>",
	})

	assert.Equal(t, taxonomy.FunctionData, r.Function)
	assert.Equal(t, taxonomy.SenioritySenior, r.Seniority)
	assert.True(t, r.HasAIMention)
	assert.True(t, r.IsAINative)
	assert.Contains(t, r.AITerms, "llm")
	assert.Contains(t, r.AITerms, "machine learning")

	names := make([]string, 0, len(r.Tools))
	for _, tl := range r.Tools {
		names = append(names, tl.Name)
	}
	assert.ElementsMatch(t, []string{"PyTorch", "AWS", "Python", "Kubernetes"}, names)
}

func TestEnrich_UnknownFallbacks(t *testing.T) {
	e := New(nil)
	r := e.Enrich(Posting{Title: "Barista", Description: "Make great coffee."})

	assert.Equal(t, taxonomy.Unknown, r.Function)
	assert.Equal(t, taxonomy.Unknown, r.Seniority)
	assert.False(t, r.HasAIMention)
	assert.Empty(t, r.Signals)
	assert.Empty(t, r.Tools)
	assert.Equal(t, []string{taxonomy.Unknown}, r.Locations)
	assert.Equal(t, WorkModeUnknown, r.WorkMode)
	assert.Nil(t, r.SalaryMin)
	assert.Nil(t, r.SalaryMax)
}

func TestEnrich_DepartmentWinsOverTitle(t *testing.T) {
	e := New(nil)
	r := e.Enrich(Posting{Title: "Program Manager", Department: "Customer Success"})
	assert.Equal(t, taxonomy.FunctionOperations, r.Function)
}

func TestEnrich_DescriptionFallbackForFunction(t *testing.T) {
	e := New(nil)
	r := e.Enrich(Posting{Title: "Generalist", Description: "You will join our growing marketing team."})
	assert.Equal(t, taxonomy.FunctionMarketing, r.Function)
}

func TestEnrich_TitleSeniorityBeatsDescription(t *testing.T) {
	e := New(nil)
	r := e.Enrich(Posting{Title: "Account Executive Intern", Description: "Requires 10+ years of experience."})
	assert.Equal(t, taxonomy.SeniorityEntry, r.Seniority)

	r = e.Enrich(Posting{Title: "Account Executive", Description: "Requires 10+ years of experience."})
	assert.Equal(t, taxonomy.SenioritySenior, r.Seniority)
}

func TestSignalRows_SentinelPerAxis(t *testing.T) {
	e := New(nil)
	r := e.Enrich(Posting{Title: "Barista", Description: "Make great coffee."})

	rows := r.SignalRows(e.Taxonomy())
	require.Len(t, rows, 6)
	for _, row := range rows {
		assert.Equal(t, taxonomy.None, row.Value)
	}
}

func TestSignalRows_EveryAxisCovered(t *testing.T) {
	e := New(nil)
	r := e.Enrich(Posting{
		Title:       "Enterprise Account Executive",
		Description: "Uncapped commission. Sell to enterprise customers across EMEA.",
	})

	rows := r.SignalRows(e.Taxonomy())
	axes := make(map[string]int)
	for _, row := range rows {
		axes[row.Type]++
		if row.Value == taxonomy.None {
			assert.Empty(t, valuesFor(r.Signals, row.Type), "sentinel on axis %s that has matches", row.Type)
		}
	}
	for _, axis := range e.Taxonomy().SignalTypes() {
		assert.GreaterOrEqual(t, axes[axis], 1, "axis %s has no rows", axis)
	}
	assert.Contains(t, valuesFor(r.Signals, taxonomy.AxisComp), "uncapped")
	assert.Contains(t, valuesFor(r.Signals, taxonomy.AxisSegment), "enterprise")
	assert.Contains(t, valuesFor(r.Signals, taxonomy.AxisGeoFocus), "emea")
}

func TestToolRows_Sentinel(t *testing.T) {
	r := Result{}
	assert.Equal(t, []Tool{{Name: taxonomy.None, Category: taxonomy.None}}, r.ToolRows())

	r.Tools = []Tool{{Name: "Go", Category: taxonomy.CategoryLanguages}}
	assert.Equal(t, r.Tools, r.ToolRows())
}

func valuesFor(signals []Signal, axis string) []string {
	var out []string
	for _, s := range signals {
		if s.Type == axis {
			out = append(out, s.Value)
		}
	}
	return out
}
