package report

import "fmt"

// Takeaway kinds.
const (
	TakeawayAggressive   = "most_aggressive"
	TakeawayHighestComp  = "highest_comp"
	TakeawayMostRemote   = "most_remote"
	TakeawayTeamBuilding = "most_team_building"
)

// Takeaway is one headline finding.
type Takeaway struct {
	Kind    string `json:"kind"`
	Company string `json:"company"`
	Text    string `json:"text"`
}

// takeaways fills the headline templates. A finding is left out when no
// company qualifies for it. Ties go to the company name that sorts first.
func takeaways(c Comparison) []Takeaway {
	out := []Takeaway{}

	if len(c.Aggression) > 0 && c.Aggression[0].Score > 0 {
		a := c.Aggression[0]
		out = append(out, Takeaway{
			Kind:    TakeawayAggressive,
			Company: a.Company,
			Text: fmt.Sprintf("%s is hiring most aggressively: %d open roles, %d growth hires and %d immediate openings (score %d).",
				a.Company, a.Roles, a.GrowthHire, a.Immediate, a.Score),
		})
	}

	var comp *CompensationRow
	for i := range c.Compensation {
		r := &c.Compensation[i]
		if r.Median == nil {
			continue
		}
		if comp == nil || *r.Median > *comp.Median || (*r.Median == *comp.Median && r.Company < comp.Company) {
			comp = r
		}
	}
	if comp != nil {
		out = append(out, Takeaway{
			Kind:    TakeawayHighestComp,
			Company: comp.Company,
			Text: fmt.Sprintf("%s pays the most, with a median salary midpoint of %s across %d disclosed postings.",
				comp.Company, FormatSalary(comp.Median), comp.Disclosed),
		})
	}

	var remote *RemoteRow
	for i := range c.Remote {
		r := &c.Remote[i]
		if r.Remote == 0 {
			continue
		}
		if remote == nil || r.RemotePct > remote.RemotePct || (r.RemotePct == remote.RemotePct && r.Company < remote.Company) {
			remote = r
		}
	}
	if remote != nil {
		out = append(out, Takeaway{
			Kind:    TakeawayMostRemote,
			Company: remote.Company,
			Text: fmt.Sprintf("%s is the most remote friendly: %.1f%% of its postings (%d) are remote.",
				remote.Company, remote.RemotePct, remote.Remote),
		})
	}

	var build *BuildRow
	for i := range c.Build {
		r := &c.Build[i]
		if r.BuildPct == nil || *r.BuildPct == 0 {
			continue
		}
		if build == nil || *r.BuildPct > *build.BuildPct || (*r.BuildPct == *build.BuildPct && r.Company < build.Company) {
			build = r
		}
	}
	if build != nil {
		out = append(out, Takeaway{
			Kind:    TakeawayTeamBuilding,
			Company: build.Company,
			Text: fmt.Sprintf("%s is building the most new teams: %s of its team structure signals are team building.",
				build.Company, build.Display),
		})
	}

	return out
}
