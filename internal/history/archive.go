package history

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jonathan/fieldwork/internal/fetch"
	"github.com/jonathan/fieldwork/internal/greenhouse"
)

// Archive endpoints.
const (
	DefaultCDXURL = "https://web.archive.org/cdx/search/cdx"
	DefaultRawURL = "https://web.archive.org/web"
)

// Archive request pacing.
const (
	DefaultArchiveDelay = 1500 * time.Millisecond
	MinArchiveDelay     = time.Second
)

const timestampLayout = "20060102150405"

// minArchiveDelay is the enforced floor; tests lower it.
var minArchiveDelay = MinArchiveDelay

// ArchiveConfig holds archive endpoint settings.
type ArchiveConfig struct {
	CDXURL string
	RawURL string
	// Delay is the minimum gap between two archive requests. Values below
	// MinArchiveDelay are raised to it.
	Delay time.Duration
}

// ArchiveClient reads the Wayback Machine capture index and archived bodies.
// Every attempt, retries included, waits on one limiter spaced by the
// configured delay. Archived bodies never change, so they may also be served
// from a cache; the index is always read live.
type ArchiveClient struct {
	index     fetch.Getter
	snapshots fetch.Getter
	cdxURL    string
	rawURL    string
	delay     time.Duration
	logger    *slog.Logger
}

// NewArchiveClient creates an archive client whose requests use opts (nil
// means fetch.DefaultOptions) with the archive limiter installed. A nil cache
// disables body caching. Empty URLs use the defaults.
func NewArchiveClient(opts *fetch.Options, cache fetch.Cache, cfg ArchiveConfig, logger *slog.Logger) *ArchiveClient {
	if cfg.CDXURL == "" {
		cfg.CDXURL = DefaultCDXURL
	}
	if cfg.RawURL == "" {
		cfg.RawURL = DefaultRawURL
	}
	if cfg.Delay == 0 {
		cfg.Delay = DefaultArchiveDelay
	}
	cfg.Delay = max(cfg.Delay, minArchiveDelay)
	if logger == nil {
		logger = slog.Default()
	}
	if opts == nil {
		opts = fetch.DefaultOptions()
	}

	paced := *opts
	paced.Limiter = rate.NewLimiter(rate.Every(cfg.Delay), 1)
	getter := fetch.NewClient(&paced)

	snapshots := fetch.Getter(getter)
	if cache != nil {
		snapshots = fetch.NewCachedClient(getter, cache, logger)
	}
	return &ArchiveClient{
		index:     getter,
		snapshots: snapshots,
		cdxURL:    cfg.CDXURL,
		rawURL:    strings.TrimRight(cfg.RawURL, "/"),
		delay:     cfg.Delay,
		logger:    logger,
	}
}

// Delay is the enforced gap between two archive requests.
func (a *ArchiveClient) Delay() time.Duration {
	return a.delay
}

// IndexFailure records an era whose capture index could not be read.
type IndexFailure struct {
	URL string
	Err error
}

// Snapshots lists the successful captures of every board page era within
// [start, end], merged chronologically. An era whose index cannot be read is
// reported in failures; an error is returned only when every era failed.
func (a *ArchiveClient) Snapshots(ctx context.Context, slug string, start, end time.Time) ([]Candidate, []IndexFailure, error) {
	var all []Candidate
	var failures []IndexFailure
	pages := greenhouse.BoardPages(slug)

	for i, page := range pages {
		cands, err := a.readIndex(ctx, page, Era(i), start, end)
		if err != nil {
			a.logger.WarnContext(ctx, "archive index failed", "url", page, "error", err)
			failures = append(failures, IndexFailure{URL: page, Err: err})
			continue
		}
		all = append(all, cands...)
	}
	if len(failures) == len(pages) {
		return nil, failures, fmt.Errorf("failed to read archive index for board %s: %w", slug, failures[0].Err)
	}

	sort.SliceStable(all, func(i, j int) bool { return before(all[i], all[j]) })
	return all, failures, nil
}

func (a *ArchiveClient) readIndex(ctx context.Context, page string, era Era, start, end time.Time) ([]Candidate, error) {
	q := url.Values{}
	q.Set("url", page)
	q.Set("output", "json")
	q.Set("fl", "timestamp,statuscode,length")
	q.Set("matchType", "exact")
	q.Set("filter", "statuscode:200")
	if !start.IsZero() {
		q.Set("from", start.UTC().Format("20060102"))
	}
	if !end.IsZero() {
		q.Set("to", end.UTC().Format("20060102"))
	}

	indexURL := a.cdxURL + "?" + q.Encode()
	res, err := a.index.Get(ctx, indexURL)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(res.Body)) == 0 {
		return nil, nil
	}
	var rows [][]string
	if err := json.Unmarshal(res.Body, &rows); err != nil {
		return nil, &fetch.DecodeError{URL: indexURL, Cause: err}
	}
	return parseIndex(rows, page, era, start, end), nil
}

// parseIndex turns CDX JSON rows into candidates. The first row is the
// header; rows that are not status 200 or lack a 14 digit timestamp are dropped.
func parseIndex(rows [][]string, page string, era Era, start, end time.Time) []Candidate {
	if len(rows) == 0 {
		return nil
	}
	col := map[string]int{"timestamp": 0, "statuscode": 1, "length": 2}
	for i, name := range rows[0] {
		col[name] = i
	}

	var out []Candidate
	for _, row := range rows[1:] {
		raw := field(row, col["timestamp"])
		if len(raw) != len(timestampLayout) {
			continue
		}
		if status := field(row, col["statuscode"]); status != "" && status != "200" {
			continue
		}
		ts, err := time.Parse(timestampLayout, raw)
		if err != nil || !InRange(ts, start, end) {
			continue
		}
		length, _ := strconv.Atoi(field(row, col["length"]))
		out = append(out, Candidate{
			Timestamp: ts,
			Raw:       raw,
			URL:       "https://" + page,
			Era:       era,
			Length:    length,
		})
	}
	return out
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// SnapshotURL is the raw (unrewritten) archive location of a capture.
func (a *ArchiveClient) SnapshotURL(c Candidate) string {
	return fmt.Sprintf("%s/%sid_/%s", a.rawURL, c.Raw, c.URL)
}

// Fetch returns the archived body of a capture.
func (a *ArchiveClient) Fetch(ctx context.Context, c Candidate) ([]byte, error) {
	res, err := a.snapshots.Get(ctx, a.SnapshotURL(c))
	if err != nil {
		return nil, err
	}
	return res.Body, nil
}
