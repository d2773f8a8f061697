package history

import (
	"bytes"
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Snapshot formats as recorded on timeline points.
const (
	FormatLegacy = "legacy"
	FormatModern = "modern"
	FormatAPI    = "api"
)

// Page is a parsed board snapshot: either *LegacyMarkupPage or
// *ModernPayloadPage.
type Page interface {
	Format() string
	OpenRoles() int
	DepartmentCounts() map[string]int
}

// LegacyMarkupPage is a server-rendered board where every opening is a
// repeated element.
type LegacyMarkupPage struct {
	Openings    int
	Departments map[string]int
	// Empty is set when the page states that the board has no openings.
	Empty bool
}

func (p *LegacyMarkupPage) Format() string                   { return FormatLegacy }
func (p *LegacyMarkupPage) OpenRoles() int                   { return p.Openings }
func (p *LegacyMarkupPage) DepartmentCounts() map[string]int { return p.Departments }

// ModernPayloadPage is a client-rendered board whose postings live in an
// embedded JSON payload.
type ModernPayloadPage struct {
	JobIDs []string
	// Declared is the total the payload reports, when it reports one.
	Declared int
}

func (p *ModernPayloadPage) Format() string { return FormatModern }

func (p *ModernPayloadPage) OpenRoles() int {
	return max(len(p.JobIDs), p.Declared)
}

func (p *ModernPayloadPage) DepartmentCounts() map[string]int { return nil }

var (
	legacyOpenings = []string{"div.opening", `a[data-mapped="true"]`, ".gh-job-listing"}
	legacyMarkers  = "div.opening, a[data-mapped], .gh-job-listing, section.level-0, #main_fields, #app_body"
	emptyBoard     = regexp.MustCompile(`(?i)(no (current |open )?(openings|positions|job openings|jobs)|not currently hiring|there are no open)`)
	longID         = regexp.MustCompile(`"id"\s*:\s*"?(\d{7,})"?`)
)

// DetectPage decides which board format a snapshot is in and parses it.
// A page that matches neither format yields ErrUnrecognizedPage; a page that
// matches but whose count cannot be confirmed yields a *ParseError.
func DetectPage(body []byte) (Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &ParseError{Message: "invalid markup", Cause: err}
	}

	if payloads := embeddedPayloads(doc); len(payloads) > 0 {
		return parseModern(payloads)
	}
	if doc.Find(legacyMarkers).Length() > 0 || emptyBoard.MatchString(doc.Find("body").Text()) {
		return parseLegacy(doc)
	}
	return nil, ErrUnrecognizedPage
}

func parseLegacy(doc *goquery.Document) (*LegacyMarkupPage, error) {
	page := &LegacyMarkupPage{}
	var selector string
	for _, sel := range legacyOpenings {
		if n := doc.Find(sel).Length(); n > 0 {
			page.Openings = n
			selector = sel
			break
		}
	}

	if page.Openings == 0 {
		if emptyBoard.MatchString(doc.Find("body").Text()) {
			page.Empty = true
			return page, nil
		}
		return nil, &ParseError{Format: FormatLegacy, Message: "board markup without openings or empty-board message"}
	}

	page.Departments = legacyDepartments(doc, selector)
	return page, nil
}

// legacyDepartments counts openings under each top-level department section.
func legacyDepartments(doc *goquery.Document, selector string) map[string]int {
	depts := map[string]int{}
	doc.Find("section.level-0").Each(func(_ int, s *goquery.Selection) {
		name := strings.TrimSpace(s.Find("h1, h2, h3, h4").First().Text())
		if name == "" {
			return
		}
		if n := s.Find(selector).Length(); n > 0 {
			depts[name] += n
		}
	})
	if len(depts) == 0 {
		return nil
	}
	return depts
}

// embeddedPayloads decodes the JSON documents a client-rendered board embeds
// in script tags.
func embeddedPayloads(doc *goquery.Document) []any {
	var out []any
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		id, _ := s.Attr("id")
		typ, _ := s.Attr("type")

		var raw string
		switch {
		case id == "__NEXT_DATA__":
			raw = text
		case strings.Contains(text, "__remixContext"):
			raw = objectLiteral(text)
		case typ == "application/json" && (strings.Contains(text, "jobPosts") || strings.Contains(text, `"jobs"`)):
			raw = text
		default:
			return
		}

		var v any
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			out = append(out, v)
		}
	})
	return out
}

// objectLiteral returns the span from the first '{' to the last '}'.
func objectLiteral(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}

func parseModern(payloads []any) (*ModernPayloadPage, error) {
	page := &ModernPayloadPage{}
	ids := map[string]bool{}
	found := false
	anonymous := 0

	for _, p := range payloads {
		walkJobs(p, func(list []any, declared int) {
			found = true
			page.Declared = max(page.Declared, declared)
			for _, item := range list {
				obj, ok := item.(map[string]any)
				if !ok {
					continue
				}
				id := idString(obj["id"])
				if id == "" {
					anonymous++
					id = "#" + strconv.Itoa(anonymous)
				}
				ids[id] = true
			}
		})
	}

	if !found {
		for _, p := range payloads {
			encoded, err := json.Marshal(p)
			if err != nil {
				continue
			}
			for _, m := range longID.FindAllSubmatch(encoded, -1) {
				ids[string(m[1])] = true
			}
		}
		if len(ids) == 0 {
			return nil, &ParseError{Format: FormatModern, Message: "payload has no job list"}
		}
	}

	page.JobIDs = make([]string, 0, len(ids))
	for id := range ids {
		page.JobIDs = append(page.JobIDs, id)
	}
	sort.Strings(page.JobIDs)
	return page, nil
}

// walkJobs calls fn for every "jobPosts" or "jobs" list in v. A list may be
// wrapped in an object with a "data" array and a total.
func walkJobs(v any, fn func(list []any, declared int)) {
	switch t := v.(type) {
	case map[string]any:
		for key, child := range t {
			if key == "jobPosts" || key == "jobs" {
				if list, declared, ok := jobList(child); ok {
					fn(list, declared)
					continue
				}
			}
			walkJobs(child, fn)
		}
	case []any:
		for _, child := range t {
			walkJobs(child, fn)
		}
	}
}

func jobList(v any) ([]any, int, bool) {
	switch t := v.(type) {
	case []any:
		return t, 0, true
	case map[string]any:
		list, ok := t["data"].([]any)
		if !ok {
			return nil, 0, false
		}
		declared := 0
		for _, key := range []string{"total", "count", "total_count"} {
			if n, ok := t[key].(float64); ok {
				declared = int(n)
				break
			}
		}
		return list, declared, true
	}
	return nil, 0, false
}

func idString(v any) string {
	switch t := v.(type) {
	case float64:
		return strconv.FormatInt(int64(t), 10)
	case string:
		return t
	}
	return ""
}
