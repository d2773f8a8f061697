package enrich

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	minPlausibleSalary = 10_000
	maxPlausibleSalary = 10_000_000
	oteBaseShare       = 0.6
)

const amount = `(\d{1,3}(?:,\d{3})+|\d+(?:\.\d+)?)\s?([kK])?`

var (
	salaryRange = regexp.MustCompile(`\$\s?` + amount + `\s*(?:-|–|—|to)\s*\$?\s?` + amount)
	salaryOTE   = regexp.MustCompile(`(?i)\$\s?` + amount + `\s*(?:ote|on[- ]target earnings)\b`)
	hourly      = regexp.MustCompile(`(?i)^\s*(/\s*(hr|hour)|per hour|an hour|hourly)`)
	magnitude   = regexp.MustCompile(`(?i)^\s*(million|billion|mm|bn|m|b)\b`)
)

// ExtractSalary finds a base salary range. Structured pay ranges win over
// text; an OTE figure alone maps to a 60/40 base split.
func ExtractSalary(ranges []PayRange, text string) (lo, hi *float64) {
	if a, b, ok := fromPayRanges(ranges); ok {
		return &a, &b
	}
	if a, b, ok := fromText(text); ok {
		return &a, &b
	}
	return nil, nil
}

func fromPayRanges(ranges []PayRange) (float64, float64, bool) {
	var lo, hi float64
	found := false
	for _, r := range ranges {
		if r.Max <= 0 {
			continue
		}
		if !found || r.Min < lo {
			lo = r.Min
		}
		if !found || r.Max > hi {
			hi = r.Max
		}
		found = true
	}
	if !found || !plausible(lo, hi) {
		return 0, 0, false
	}
	return lo, hi, true
}

func fromText(text string) (float64, float64, bool) {
	for _, m := range salaryRange.FindAllStringSubmatchIndex(text, -1) {
		if rest := text[m[1]:]; hourly.MatchString(rest) || magnitude.MatchString(rest) {
			continue
		}
		lo := parseAmount(text[m[2]:m[3]], group(text, m, 2))
		hi := parseAmount(text[m[6]:m[7]], group(text, m, 4))
		lo, hi = scale(lo), scale(hi)
		if lo > hi {
			lo, hi = hi, lo
		}
		if plausible(lo, hi) {
			return lo, hi, true
		}
	}

	for _, m := range salaryOTE.FindAllStringSubmatchIndex(text, -1) {
		ote := scale(parseAmount(text[m[2]:m[3]], group(text, m, 2)))
		lo := math.Round(ote * oteBaseShare)
		if plausible(lo, ote) {
			return lo, ote, true
		}
	}
	return 0, 0, false
}

// group returns the n-th submatch (1-based) for an index slice, or "".
func group(text string, m []int, n int) string {
	if m[2*n] < 0 {
		return ""
	}
	return text[m[2*n]:m[2*n+1]]
}

func parseAmount(digits, unit string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(digits, ",", ""), 64)
	if err != nil {
		return 0
	}
	if unit != "" {
		v *= 1000
	}
	return v
}

// scale reads bare figures under 1000 as thousands ("$120 - $150").
func scale(v float64) float64 {
	if v > 0 && v < 1000 {
		return v * 1000
	}
	return v
}

func plausible(lo, hi float64) bool {
	return lo > 0 && hi >= lo && hi >= minPlausibleSalary && hi <= maxPlausibleSalary
}
