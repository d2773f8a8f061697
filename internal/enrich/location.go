package enrich

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jonathan/fieldwork/internal/taxonomy"
)

// Work modes.
const (
	WorkModeRemote  = "remote"
	WorkModeHybrid  = "hybrid"
	WorkModeOnsite  = "onsite"
	WorkModeUnknown = "unknown"
)

// RemoteLabel is the location recorded for remote postings that name no place.
const RemoteLabel = "Remote"

var (
	locationSeparators = regexp.MustCompile(`\s*(?:;|\||\n|\s/\s|\s+or\s+)\s*`)
	modeWords          = regexp.MustCompile(`(?i)\b(remote|hybrid|on[- ]?site|in[- ]office|work from home|anywhere)\b`)
	edgePunct          = " \t-–—()[]:,."
)

// Location is the normalized form of a posting's location text.
type Location struct {
	Places   []string
	WorkMode string
	State    string
}

func (e *Enricher) parseLocation(text, description string) Location {
	loc := Location{WorkMode: detectMode(e.tax, text)}
	if loc.WorkMode == WorkModeUnknown {
		loc.WorkMode = detectMode(e.tax, description)
	}

	seen := make(map[string]bool)
	if !taxonomy.IsRemoteOnly(text) {
		for _, part := range locationSeparators.Split(strings.TrimSpace(text), -1) {
			place, state := e.resolvePlace(part)
			if state != "" && loc.State == "" {
				loc.State = state
			}
			if place != "" && !seen[place] {
				seen[place] = true
				loc.Places = append(loc.Places, place)
			}
		}
	}

	if len(loc.Places) > 0 && loc.WorkMode == WorkModeUnknown {
		loc.WorkMode = WorkModeOnsite
	}
	if len(loc.Places) == 0 {
		if loc.WorkMode == WorkModeRemote {
			loc.Places = []string{RemoteLabel}
		} else {
			loc.Places = []string{taxonomy.Unknown}
		}
	}
	return loc
}

// detectMode checks hybrid before remote: "Hybrid (remote Fridays)" is hybrid.
func detectMode(tax *taxonomy.Taxonomy, text string) string {
	switch {
	case text == "":
		return WorkModeUnknown
	case tax.HybridTerms.MatchString(text):
		return WorkModeHybrid
	case tax.RemoteTerms.MatchString(text):
		return WorkModeRemote
	case tax.OnsiteTerms.MatchString(text):
		return WorkModeOnsite
	}
	return WorkModeUnknown
}

// resolvePlace maps one location fragment to a metro label or "City, ST".
// Fragments that resolve to neither are dropped. A qualifier naming another
// country keeps US metro aliases from matching.
func (e *Enricher) resolvePlace(part string) (place, state string) {
	part = strings.Trim(modeWords.ReplaceAllString(part, ""), edgePunct)
	if part == "" {
		return "", ""
	}

	pieces := strings.Split(part, ",")
	for i := range pieces {
		pieces[i] = strings.Trim(pieces[i], edgePunct)
	}

	usOnly := true
	for _, p := range pieces[1:] {
		if upper := strings.ToUpper(p); e.tax.States[upper] {
			state = upper
			usOnly = true
			break
		}
		if p != "" && !e.tax.USQualifiers[strings.ToLower(p)] {
			usOnly = false
		}
	}

	city := strings.ToLower(pieces[0])
	for _, key := range []string{city, strings.ToLower(part)} {
		metro, ok := e.tax.Metros[key]
		if !ok {
			continue
		}
		if !usOnly && e.tax.USMetros[metro] {
			return "", state
		}
		return metro, state
	}
	if state != "" && city != "" {
		return titleCase(city) + ", " + state, state
	}
	return "", state
}

// titleCase capitalizes each word of a lowercased city name. A Caser holds
// state, so each call builds its own.
func titleCase(s string) string {
	return cases.Title(language.Und).String(strings.Join(strings.Fields(s), " "))
}
