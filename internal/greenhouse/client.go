// Package greenhouse reads public job boards from the Greenhouse job board API.
package greenhouse

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/fieldwork/internal/fetch"
)

// DefaultAPIBase is the public job board API.
const DefaultAPIBase = "https://" + APIHost

// DefaultPageSize is the per_page value requested from the API.
const DefaultPageSize = 500

const (
	maxPages               = 100
	maxConsecutiveBadPages = 3
)

// Job is one posting as returned by the jobs endpoint.
type Job struct {
	ID             int64           `json:"id"`
	Title          string          `json:"title"`
	AbsoluteURL    string          `json:"absolute_url"`
	UpdatedAt      string          `json:"updated_at"`
	FirstPublished string          `json:"first_published"`
	Content        string          `json:"content"`
	CompanyName    string          `json:"company_name"`
	Location       NamedEntity     `json:"location"`
	Departments    []NamedEntity   `json:"departments"`
	Offices        []NamedEntity   `json:"offices"`
	PayInputRanges []PayInputRange `json:"pay_input_ranges"`
}

// NamedEntity is the {"name": ...} shape used for locations and departments.
type NamedEntity struct {
	Name string `json:"name"`
}

// PayInputRange is a pay transparency range in cents.
type PayInputRange struct {
	MinCents     int64  `json:"min_cents"`
	MaxCents     int64  `json:"max_cents"`
	CurrencyType string `json:"currency_type"`
	Title        string `json:"title"`
}

// ExternalID is the board's own identifier for the job.
func (j Job) ExternalID() string {
	return strconv.FormatInt(j.ID, 10)
}

// Department returns the first department name, if any.
func (j Job) Department() string {
	if len(j.Departments) == 0 {
		return ""
	}
	return j.Departments[0].Name
}

// PostedAt returns the first publication time, falling back to the last
// update. Nil when neither parses.
func (j Job) PostedAt() *time.Time {
	for _, s := range []string{j.FirstPublished, j.UpdatedAt} {
		if s == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

type jobsPage struct {
	Jobs []Job `json:"jobs"`
	Meta struct {
		Total int `json:"total"`
	} `json:"meta"`
}

// Listing is the de-duplicated result of reading every page of a board.
type Listing struct {
	Board        string
	Jobs         []Job
	Total        int
	Pages        int
	SkippedPages []int
	Duplicates   int
}

// Config holds client settings.
type Config struct {
	APIBase  string
	PageSize int
}

// Client reads boards through a fetch.Getter.
type Client struct {
	getter   fetch.Getter
	base     string
	pageSize int
	logger   *slog.Logger
}

// NewClient creates a board client.
func NewClient(getter fetch.Getter, cfg Config, logger *slog.Logger) *Client {
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultAPIBase
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		getter:   getter,
		base:     strings.TrimRight(cfg.APIBase, "/"),
		pageSize: cfg.PageSize,
		logger:   logger,
	}
}

// ListJobs reads every page of a board. Pagination ends on an empty page, a
// short page, or once meta.total postings have been seen. A page whose body
// is not valid JSON is skipped and recorded; a transport failure aborts.
func (c *Client) ListJobs(ctx context.Context, slug string) (*Listing, error) {
	listing := &Listing{Board: slug}
	seen := make(map[int64]bool)
	bad := 0

	for p := 1; p <= maxPages; p++ {
		var page jobsPage
		err := fetch.GetJSON(ctx, c.getter, c.jobsURL(slug, true, c.pageSize, p), &page)
		if err != nil {
			if !fetch.IsDecode(err) {
				return nil, fmt.Errorf("failed to fetch page %d of board %s: %w", p, slug, err)
			}
			listing.SkippedPages = append(listing.SkippedPages, p)
			c.logger.WarnContext(ctx, "skipping malformed page", "board", slug, "page", p, "error", err)
			bad++
			if bad > maxConsecutiveBadPages {
				break
			}
			continue
		}
		bad = 0
		listing.Pages++
		if page.Meta.Total > 0 {
			listing.Total = page.Meta.Total
		}
		if len(page.Jobs) == 0 {
			break
		}

		for _, job := range page.Jobs {
			if seen[job.ID] {
				listing.Duplicates++
				continue
			}
			seen[job.ID] = true
			listing.Jobs = append(listing.Jobs, job)
		}

		if listing.Total > 0 && len(seen) >= listing.Total {
			break
		}
		if len(page.Jobs) < c.pageSize {
			break
		}
	}

	c.logger.DebugContext(ctx, "board listed",
		"board", slug, "jobs", len(listing.Jobs), "pages", listing.Pages,
		"duplicates", listing.Duplicates, "skipped_pages", len(listing.SkippedPages))
	return listing, nil
}

// CountJobs returns the number of open postings the board currently reports.
func (c *Client) CountJobs(ctx context.Context, slug string) (int, error) {
	var page jobsPage
	if err := fetch.GetJSON(ctx, c.getter, c.jobsURL(slug, false, 1, 0), &page); err != nil {
		return 0, fmt.Errorf("failed to count jobs on board %s: %w", slug, err)
	}
	if page.Meta.Total == 0 && len(page.Jobs) > 0 {
		return 0, &fetch.DecodeError{URL: c.jobsURL(slug, false, 1, 0), Cause: fmt.Errorf("response has jobs but no meta.total")}
	}
	return page.Meta.Total, nil
}

func (c *Client) jobsURL(slug string, content bool, perPage, page int) string {
	q := url.Values{}
	if content {
		q.Set("content", "true")
		q.Set("pay_transparency", "true")
	}
	q.Set("per_page", strconv.Itoa(perPage))
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	return fmt.Sprintf("%s/v1/boards/%s/jobs?%s", c.base, url.PathEscape(slug), q.Encode())
}
