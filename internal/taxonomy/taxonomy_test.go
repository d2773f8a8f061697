package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Validates(t *testing.T) {
	tax := Default()
	require.NoError(t, tax.Validate())
	assert.GreaterOrEqual(t, len(tax.Tools), 80)
	assert.Len(t, tax.Categories(), 12)
	assert.Len(t, tax.SignalTypes(), 6)
}

func TestDefault_EveryCategoryHasTools(t *testing.T) {
	tax := Default()
	counts := make(map[string]int)
	for _, tl := range tax.Tools {
		counts[tl.Category]++
	}
	for _, c := range tax.Categories() {
		assert.Positive(t, counts[c], "category %s has no tools", c)
	}
}

func TestValidate_DuplicateToolName(t *testing.T) {
	tax := New(WithTools([]Tool{
		tool(CategoryCRM, "Salesforce"),
		tool(CategoryAnalytics, "Salesforce"),
	}))
	err := tax.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listed in both")
}

func TestValidate_UnknownCategory(t *testing.T) {
	tax := New(WithTools([]Tool{tool("Gardening", "Trowel")}))
	require.Error(t, tax.Validate())
}

func TestValidate_ReservedSignalValue(t *testing.T) {
	tax := New(WithSignals([]SignalRule{{Type: AxisHiring, Value: None, Pattern: rx(`x`)}}))
	require.Error(t, tax.Validate())
}

func TestMatchFirst_TitleFunctions(t *testing.T) {
	tax := Default()
	tests := []struct {
		title string
		want  string
	}{
		{"VP of Sales", FunctionSales},
		{"Senior Software Engineer", FunctionEngineering},
		{"Sales Engineer", FunctionSales},
		{"Data Engineer", FunctionData},
		{"Senior Product Manager", FunctionProduct},
		{"Product Designer", FunctionProduct},
		{"Implementation Consultant", FunctionConsulting},
		{"Technical Recruiter", FunctionPeople},
		{"Corporate Counsel", FunctionLegal},
		{"Customer Success Manager", FunctionOperations},
		{"Demand Gen Manager", FunctionMarketing},
		{"Senior Accountant", FunctionFinance},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got, ok := MatchFirst(tax.TitleFunctions, tt.title)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchFirst_NoMatch(t *testing.T) {
	_, ok := MatchFirst(Default().TitleFunctions, "Barista")
	assert.False(t, ok)
}

func TestMatchFirst_TitleSeniority(t *testing.T) {
	tax := Default()
	tests := []struct {
		title string
		want  string
	}{
		{"Chief Revenue Officer", SeniorityCSuite},
		{"CFO", SeniorityCSuite},
		{"Chief of Staff", SeniorityDirector},
		{"VP of Sales", SeniorityVP},
		{"SVP, Engineering", SeniorityVP},
		{"Senior Director, Marketing", SeniorityDirector},
		{"Head of People", SeniorityHead},
		{"Senior Manager, Sales Operations", SenioritySeniorManager},
		{"Engineering Manager", SeniorityManager},
		{"Staff Engineer", SenioritySenior},
		{"Sr. Data Analyst", SenioritySenior},
		{"Software Engineer II", SeniorityMid},
		{"Associate Account Executive", SeniorityAssociate},
		{"Software Engineering Intern", SeniorityEntry},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got, ok := MatchFirst(tax.TitleSeniority, tt.title)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchTools_LongestMatchFirst(t *testing.T) {
	tax := Default()

	got := tax.MatchTools("We build mobile apps in React Native and ship Ruby on Rails services.")
	names := toolNames(got)
	assert.ElementsMatch(t, []string{"React Native", "Ruby on Rails"}, names)
}

func TestMatchTools_SpecialCharacters(t *testing.T) {
	tax := Default()
	got := toolNames(tax.MatchTools("Experience with C++, C#, .NET and Node.js."))
	assert.ElementsMatch(t, []string{"C++", "C#", ".NET", "Node.js"}, got)
}

func TestMatchTools_CaseSensitiveAndShadows(t *testing.T) {
	tax := Default()

	assert.Empty(t, tax.MatchTools("Own the go-to-market plan. Let's go."))
	assert.Empty(t, tax.MatchTools("Sessions on Google workspaces are cancelled"))
	assert.Equal(t, []string{"Go"}, toolNames(tax.MatchTools("Services are written in Go.")))
	assert.Equal(t, []string{"Go"}, toolNames(tax.MatchTools("golang experience")))
}

func TestMatchTools_WordBoundaries(t *testing.T) {
	tax := Default()
	got := toolNames(tax.MatchTools("JavaScript and PostgreSQL"))
	assert.ElementsMatch(t, []string{"JavaScript", "PostgreSQL"}, got)
}

func TestMatchTools_CategoriesAttached(t *testing.T) {
	tax := Default()
	got := tax.MatchTools("Pipeline lives in Salesforce; calls recorded in Gong.")
	require.Len(t, got, 2)
	assert.Equal(t, ToolMatch{Name: "Salesforce", Category: CategoryCRM}, got[0])
	assert.Equal(t, ToolMatch{Name: "Gong", Category: CategorySalesEngagement}, got[1])
}

func TestSignals_FirstSalesTeamScenario(t *testing.T) {
	tax := Default()
	text := "We are building our first sales team, reporting to the CRO. Remote-first."

	matched := make(map[string]bool)
	for _, rule := range tax.Signals {
		if rule.Type == AxisTeam && rule.Pattern.MatchString(text) {
			matched[rule.Value] = true
		}
	}
	assert.True(t, matched["build_team"])
	assert.True(t, matched["first_hire"])
	assert.True(t, matched["reports_cro"])
	assert.False(t, matched["reports_ceo"])
	assert.True(t, tax.RemoteTerms.MatchString(text))
}

func TestDisplayValue(t *testing.T) {
	assert.Equal(t, "Reports Cro", DisplayValue("reports_cro"))
	assert.Equal(t, "Enterprise", DisplayValue("enterprise"))
}

func TestIsRemoteOnly(t *testing.T) {
	assert.True(t, IsRemoteOnly("Remote"))
	assert.True(t, IsRemoteOnly("Remote - US"))
	assert.True(t, IsRemoteOnly("remote, usa"))
	assert.False(t, IsRemoteOnly("Remote or New York, NY"))
	assert.False(t, IsRemoteOnly("San Francisco, CA"))
}

func TestAITerms(t *testing.T) {
	tax := Default()
	assert.True(t, tax.AITerms.MatchString("You will fine-tune LLMs for support"))
	assert.True(t, tax.AITerms.MatchString("an AI-native company"))
	assert.False(t, tax.AITerms.MatchString("maintain the email campaigns"))
	assert.True(t, tax.AINativeTitles.MatchString("Senior ML Engineer"))
	assert.False(t, tax.AINativeTitles.MatchString("Account Executive"))
}

func toolNames(matches []ToolMatch) []string {
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Name)
	}
	return out
}
