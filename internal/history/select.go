package history

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Frequency is the bucket size used to thin archive snapshots.
type Frequency string

const (
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
)

// ParseFrequency accepts "monthly" or "quarterly" in any case.
func ParseFrequency(s string) (Frequency, error) {
	switch f := Frequency(strings.ToLower(strings.TrimSpace(s))); f {
	case Monthly, Quarterly:
		return f, nil
	case "":
		return Monthly, nil
	default:
		return "", fmt.Errorf("unknown frequency %q (want monthly or quarterly)", s)
	}
}

// Era identifies which board URL generation a snapshot was captured from.
type Era int

const (
	EraLegacy Era = iota
	EraModern
)

func (e Era) String() string {
	if e == EraModern {
		return "modern"
	}
	return "legacy"
}

// Candidate is one archived capture of a board page.
type Candidate struct {
	Timestamp time.Time
	Raw       string
	URL       string
	Era       Era
	Length    int
}

// BucketStart returns the first instant of the bucket containing t.
func BucketStart(t time.Time, freq Frequency) time.Time {
	t = t.UTC()
	month := t.Month()
	if freq == Quarterly {
		month = time.Month((int(month)-1)/3*3 + 1)
	}
	return time.Date(t.Year(), month, 1, 0, 0, 0, 0, time.UTC)
}

// SelectSnapshots keeps one candidate per bucket: the capture closest to the
// bucket start, which is the earliest one. Equal timestamps prefer the legacy
// era, then the lower URL. The result is sorted by timestamp.
func SelectSnapshots(cands []Candidate, freq Frequency) []Candidate {
	best := make(map[time.Time]Candidate)
	for _, c := range cands {
		key := BucketStart(c.Timestamp, freq)
		cur, ok := best[key]
		if !ok || before(c, cur) {
			best[key] = c
		}
	}

	out := make([]Candidate, 0, len(best))
	for _, c := range best {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return before(out[i], out[j]) })
	return out
}

func before(a, b Candidate) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.Before(b.Timestamp)
	}
	if a.Era != b.Era {
		return a.Era < b.Era
	}
	return a.URL < b.URL
}

// InRange reports whether t falls on a date within [start, end], inclusive.
func InRange(t, start, end time.Time) bool {
	d := dateOf(t)
	if !start.IsZero() && d.Before(dateOf(start)) {
		return false
	}
	if !end.IsZero() && d.After(dateOf(end)) {
		return false
	}
	return true
}

func dateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
