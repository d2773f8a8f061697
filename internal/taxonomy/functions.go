package taxonomy

import "fmt"

func defaultDepartments() map[string]string {
	groups := map[string][]string{
		FunctionSales: {
			"account executive", "account management", "business development", "sales",
			"sales development", "sales operations", "sales enablement", "sales strategy",
			"sales strategy & operations", "revenue", "revenue operations", "partnerships",
		},
		FunctionEngineering: {
			"engineering", "engineering leadership", "infrastructure", "site reliability",
			"mobile", "information security & it", "business systems", "security", "it",
		},
		FunctionData:      {"data", "data & machine learning", "data science", "analytics", "machine learning"},
		FunctionProduct:   {"product", "design", "r&d operations", "product management", "product design"},
		FunctionMarketing: {"marketing", "brand marketing", "demand generation", "marketing operations", "product marketing", "communications"},
		FunctionFinance: {
			"finance", "strategic finance", "accounting", "treasury", "procurement", "tax", "valuations",
		},
		FunctionPeople: {"people", "human resources", "recruiting", "talent", "total rewards", "learning & development"},
		FunctionLegal:  {"legal", "compliance", "policy", "policy & strategy"},
		FunctionOperations: {
			"operations", "customer success", "customer support", "customer implementations",
			"delivery operations", "operations & underwriting", "strategy & business operations",
			"fund administration", "broker & market operations", "portfolio insights", "administrative",
			"real estate and workplace services", "liquidity", "executive assistant", "support",
		},
		FunctionConsulting: {"professional services", "consulting", "solutions", "advisory"},
	}

	out := make(map[string]string)
	for function, names := range groups {
		for _, name := range names {
			out[name] = function
		}
	}
	return out
}

// Ordered: the sales and data rules sit ahead of the generic engineering rule
// so that "Sales Engineer" and "Data Engineer" land in their own functions.
func defaultTitleFunctions() []Rule {
	return []Rule{
		{FunctionSales, rx(`\b(sales|solutions|pre-?sales) engineer`)},
		{FunctionConsulting, rx(`\b(consultant|consulting|professional services|engagement manager)\b`)},
		{FunctionData, rx(`\b(data scientist|data engineer|data analyst|machine learning|ml engineer|analytics|bi developer)\b`)},
		{FunctionEngineering, rx(`\b(engineer|engineering|developer|sre|devops|architect|infrastructure|programmer|security)\b`)},
		{FunctionProduct, rx(`\b(product manager|product lead|product director|product owner|product management|designer|ux|ui|design)\b`)},
		{FunctionSales, rx(`\b(account executive|ae|account manager|sales|sdr|bdr|business development|revenue|partnerships)\b`)},
		{FunctionMarketing, rx(`\b(marketing|demand gen|content|brand|growth|communications|pr)\b`)},
		{FunctionFinance, rx(`\b(finance|financial|accounting|accountant|controller|tax|treasury|fp&a|payroll)\b`)},
		{FunctionPeople, rx(`\b(recruiter|recruiting|talent|people|hr|human resources|hrbp)\b`)},
		{FunctionLegal, rx(`\b(legal|counsel|compliance|paralegal|attorney)\b`)},
		{FunctionOperations, rx(`\b(operations|support|success|implementation|onboarding|customer experience|chief of staff|office manager)\b`)},
	}
}

// Description fallback only looks at explicit team phrases; body text mentions
// other teams too often for bare keywords to be useful.
func defaultDescriptionFunctions() []Rule {
	teams := []struct {
		label string
		words string
	}{
		{FunctionEngineering, `engineering|platform|infrastructure|backend|frontend`},
		{FunctionData, `data|data science|analytics|machine learning`},
		{FunctionProduct, `product|design`},
		{FunctionSales, `sales|revenue|go-to-market|gtm`},
		{FunctionMarketing, `marketing|growth marketing|brand`},
		{FunctionFinance, `finance|accounting`},
		{FunctionPeople, `people|recruiting|talent|hr`},
		{FunctionLegal, `legal|compliance`},
		{FunctionOperations, `operations|support|customer success`},
		{FunctionConsulting, `professional services|consulting|solutions`},
	}

	rules := make([]Rule, 0, len(teams))
	for _, team := range teams {
		pattern := fmt.Sprintf(`\b(join|joining|on|to|of) (our|the) (growing |global |new )?(%s) (team|org|organization)\b`, team.words)
		rules = append(rules, Rule{Label: team.label, Pattern: rx(pattern)})
	}
	return rules
}

func defaultTitleSeniority() []Rule {
	return []Rule{
		{SeniorityDirector, rx(`\bchief of staff\b`)},
		{SeniorityCSuite, rx(`\b(chief|ceo|cto|cfo|coo|cpo|cro|cmo|ciso)\b`)},
		{SeniorityVP, rx(`\b(evp|svp|avp|vp|vice president|executive vice president|senior vice president)\b`)},
		{SeniorityDirector, rx(`\b(senior director|sr\.? director|director)\b`)},
		{SeniorityHead, rx(`\bhead of\b|\bhead,`)},
		{SenioritySeniorManager, rx(`\b(senior|sr\.?) manager\b`)},
		{SeniorityManager, rx(`\bmanager\b`)},
		{SenioritySenior, rx(`\b(staff|principal|lead|senior|sr)\b`)},
		{SeniorityMid, rx(`\b(mid[- ]level|intermediate|ii)\b`)},
		{SeniorityAssociate, rx(`\bassociate\b`)},
		{SeniorityEntry, rx(`\b(junior|jr|intern|internship|entry[- ]level|new grad|graduate|apprentice)\b`)},
	}
}

func defaultDescriptionSeniority() []Rule {
	return []Rule{
		{SeniorityVP, rx(`\bvp[- ]level\b|\bvice president level\b`)},
		{SeniorityDirector, rx(`\bdirector[- ]level\b`)},
		{SeniorityManager, rx(`\b(people manager|manage a team of|managing a team of)\b`)},
		{SenioritySenior, rx(`\bsenior[- ]level\b|\b([7-9]|1[0-9])\+? years\b`)},
		{SeniorityMid, rx(`\bmid[- ]level\b|\b[3-6]\+? years\b`)},
		{SeniorityEntry, rx(`\b(entry[- ]level|new grad|recent graduate|[0-2]\+? years)\b`)},
	}
}
