package taxonomy

import (
	"regexp"
	"strings"
)

var (
	aiTerms = rx(`\b(artificial intelligence|machine learning|deep learning|neural networks?|nlp|natural language processing|computer vision|llms?|large language models?|generative ai|genai|gpt|transformer models?|reinforcement learning|ai[ -]native|ai[ -]first|ai[ -]powered|ai/ml|ai)\b`)

	aiNativeTitles = rx(`\b(machine learning engineer|ml engineer|ai engineer|data scientist|deep learning|nlp engineer|computer vision engineer|ai researcher|research scientist|llm|prompt engineer|applied scientist)\b`)
)

// sentence bounds the gap between two halves of a phrase to one sentence.
const sentence = `[^.]{0,40}`

func defaultSignals() []SignalRule {
	return []SignalRule{
		{AxisHiring, "immediate", rx(`\b(immediate|immediately|asap|urgent|urgently|start right away)\b`)},
		{AxisHiring, "growth_hire", rx(`\b(growth|expansion|expanding|adding to (the |our )?team|new headcount|net[- ]new role)\b`)},
		{AxisHiring, "turnaround", rx(`\b(turnaround|transform|transformation|rebuild|rebuilding|restructure|restructuring)\b`)},
		{AxisHiring, "backfill", rx(`\b(backfill|replacement hire)\b`)},

		{AxisTeam, "first_hire", rx(`\bfirst\b[^.]{0,25}\b(hire|team|employee)\b|\bfounding\b|\bfrom scratch\b|\bground[- ]up\b|\bzero[- ]to[- ]one\b|\b0[- ]to[- ]1\b`)},
		{AxisTeam, "player_coach", rx(`\bplayer[- ]?coach\b|\bselling manager\b|\bcarry(ing)? (a |your own )?quota\b` + sentence + `\bmanag`)},
		{AxisTeam, "build_team", rx(`\b(build|builds|building|hire|hires|hiring|recruit|recruits|recruiting|grow|grows|growing|scale|scales|scaling)\b` + sentence + `\bteams?\b`)},
		{AxisTeam, "reports_cro", rx(`\breport(s|ing)?\b[^.]{0,30}\b(cro|chief revenue officer)\b`)},
		{AxisTeam, "reports_ceo", rx(`\breport(s|ing)?\b[^.]{0,30}\b(ceo|chief executive officer|founders?|co-founders?)\b`)},
		{AxisTeam, "reports_vp", rx(`\breport(s|ing)?\b[^.]{0,30}\b(vp|vice president)\b`)},

		{AxisComp, "equity", rx(`\b(equity|stock|stock options|rsus?|ownership stake|employee ownership)\b`)},
		{AxisComp, "uncapped", rx(`\b(uncapped|no cap|unlimited commission)`)},
		{AxisComp, "ote_mentioned", rx(`\bote\b|\bon[- ]target earnings\b`)},
		{AxisComp, "bonus", rx(`\b(bonus|bonuses|variable compensation|variable comp)\b`)},

		{AxisSegment, "smb", rx(`\bsmb\b|\bsmall business(es)?\b|\bsmall (and|&) medium`)},
		{AxisSegment, "mid_market", rx(`\bmid[- ]?market\b|\bmiddle market\b`)},
		{AxisSegment, "enterprise", rx(`\benterprise\b`)},

		{AxisMotion, "channel", rx(`\bchannel\b|\bpartner sales\b|\bresellers?\b`)},
		{AxisMotion, "plg", rx(`\bproduct[- ]led\b|\bplg\b|\bself[- ]serve\b|\bfreemium\b`)},
		{AxisMotion, "abm", rx(`\baccount[- ]based\b|\babm\b`)},
		{AxisMotion, "outbound", rx(`\boutbound\b|\bcold call`)},

		{AxisGeoFocus, "north_america", rx(`\bnorth america\b|\busa\b|\bunited states\b|\bus market\b`)},
		{AxisGeoFocus, "emea", rx(`\bemea\b|\beurope\b|\buk\b|\beuropean\b`)},
		{AxisGeoFocus, "apac", rx(`\bapac\b|\basia\b|\bpacific\b|\bjapan\b|\bchina\b|\bindia\b|\baustralia\b`)},
		{AxisGeoFocus, "latam", rx(`\blatam\b|\blatin america\b|\bbrazil\b|\bmexico\b`)},
		{AxisGeoFocus, "global", rx(`\bglobal\b|\bworldwide\b|\binternational\b`)},
	}
}

// DisplayValue turns a signal id such as "reports_cro" into "Reports Cro".
func DisplayValue(value string) string {
	words := strings.Split(value, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

var (
	remoteTerms = rx(`\bremote\b|\bwork from (home|anywhere)\b|\bwfh\b|\bfully distributed\b|\banywhere\b`)
	hybridTerms = rx(`\bhybrid\b`)
	onsiteTerms = rx(`\b(on[- ]?site|in[- ]office)\b`)
)

// remoteOnly matches location strings that carry no place at all.
var remoteOnly = regexp.MustCompile(`(?i)^\s*(remote|anywhere|work from home)\s*([-,(]\s*(us|usa|united states|north america|global|worldwide)\s*\)?)?\s*$`)

// IsRemoteOnly reports whether a location string names no place beyond "remote".
func IsRemoteOnly(location string) bool {
	return remoteOnly.MatchString(location)
}
