// Package report compares the stored postings of several companies: per
// company breakdowns, side by side tables and headline takeaways.
package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/jonathan/fieldwork/internal/db"
	"github.com/jonathan/fieldwork/internal/taxonomy"
)

// DefaultTopN bounds the tool and location lists in the comparison tables.
const DefaultTopN = 10

// ErrNoCompanies is returned when no usable company name was given.
var ErrNoCompanies = errors.New("no companies to compare")

// Loader reads the postings of several companies from one consistent view.
// Keys are normalized company names.
type Loader interface {
	LoadPostings(ctx context.Context, companies []string) (map[string][]db.Posting, error)
}

// Filters narrows the postings a report covers.
type Filters struct {
	// Function keeps only postings classified into this function.
	Function string `json:"function,omitempty"`
	TopN     int    `json:"top_n"`
}

// Report is the exported comparison document.
type Report struct {
	GeneratedAt time.Time   `json:"generated_at"`
	Companies   []string    `json:"companies"`
	Filters     Filters     `json:"filters"`
	Breakdowns  []Breakdown `json:"breakdowns"`
	Comparison  Comparison  `json:"comparison"`
	Takeaways   []Takeaway  `json:"takeaways"`
}

// Aggregator builds reports. It only reads from the store.
type Aggregator struct {
	loader Loader
	axes   []string
	logger *slog.Logger
	now    func() time.Time
}

// New creates an Aggregator.
func New(loader Loader, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		loader: loader,
		axes:   taxonomy.Default().SignalTypes(),
		logger: logger.With("component", "report"),
		now:    time.Now,
	}
}

// Aggregate loads every named company and compares them. Names are
// normalized, de-duplicated and sorted first, so input order never changes
// the result.
func (a *Aggregator) Aggregate(ctx context.Context, companies []string, f Filters) (*Report, error) {
	keys := companyKeys(companies)
	if len(keys) == 0 {
		return nil, ErrNoCompanies
	}
	if f.TopN <= 0 {
		f.TopN = DefaultTopN
	}
	f.Function = strings.ToLower(strings.TrimSpace(f.Function))

	loaded, err := a.loader.LoadPostings(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to load postings: %w", err)
	}

	display := displayNames(companies)
	breakdowns := make([]Breakdown, 0, len(keys))
	for _, key := range keys {
		all := loaded[key]
		name := display[key]
		if len(all) == 0 {
			a.logger.WarnContext(ctx, "company has no postings", "company", key)
		} else if all[0].CompanyName != "" {
			name = all[0].CompanyName
		}
		postings := filter(all, f)
		breakdowns = append(breakdowns, newBreakdown(name, key, postings, a.axes))
	}

	cmp := compare(breakdowns, a.axes, f.TopN)
	r := &Report{
		GeneratedAt: a.now().UTC().Truncate(time.Second),
		Companies:   keys,
		Filters:     f,
		Breakdowns:  breakdowns,
		Comparison:  cmp,
		Takeaways:   takeaways(cmp),
	}
	a.logger.InfoContext(ctx, "report built", "companies", len(keys), "function", f.Function)
	return r, nil
}

func companyKeys(companies []string) []string {
	seen := map[string]bool{}
	var keys []string
	for _, c := range companies {
		key := db.NormalizeName(c)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// displayNames picks, for each company, the spelling that sorts first among
// those given, so argument order never changes the label.
func displayNames(companies []string) map[string]string {
	out := map[string]string{}
	for _, c := range companies {
		key := db.NormalizeName(c)
		if key == "" {
			continue
		}
		name := strings.TrimSpace(c)
		if cur, ok := out[key]; !ok || name < cur {
			out[key] = name
		}
	}
	return out
}

func filter(postings []db.Posting, f Filters) []db.Posting {
	if f.Function == "" {
		return postings
	}
	out := make([]db.Posting, 0, len(postings))
	for _, p := range postings {
		if p.Function == f.Function {
			out = append(out, p)
		}
	}
	return out
}
