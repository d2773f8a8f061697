// Package importer pulls a company's job board, enriches every posting and
// writes the results to the store.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/fieldwork/internal/db"
	"github.com/jonathan/fieldwork/internal/enrich"
	"github.com/jonathan/fieldwork/internal/greenhouse"
	"github.com/jonathan/fieldwork/internal/taxonomy"
)

// Board lists the open postings of a job board.
type Board interface {
	ListJobs(ctx context.Context, slug string) (*greenhouse.Listing, error)
}

// Store is the subset of the database the importer writes through.
type Store interface {
	LockCompany(ctx context.Context, company string) (*db.CompanyLock, error)
	ExistingExternalIDs(ctx context.Context, company string) (map[string]bool, error)
	InsertPosting(ctx context.Context, p *db.Posting) error
	ReplaceCompanyPostings(ctx context.Context, company string, postings []*db.Posting) (*db.ReplaceResult, error)
	UpsertCompany(ctx context.Context, in db.CompanyInput) (*db.Company, error)
}

// Preview is a one-line view of an enriched posting.
type Preview struct {
	ExternalID string   `json:"external_id"`
	Title      string   `json:"title"`
	Function   string   `json:"function"`
	Seniority  string   `json:"seniority"`
	Locations  []string `json:"locations"`
	Signals    []string `json:"signals,omitempty"`
	Tools      []string `json:"tools,omitempty"`
}

// Summary reports what one import did.
type Summary struct {
	RunID           uuid.UUID `json:"run_id"`
	Board           string    `json:"board"`
	Company         string    `json:"company"`
	Fetched         int       `json:"fetched"`
	Duplicates      int       `json:"duplicates"`
	Inserted        int       `json:"inserted"`
	Skipped         int       `json:"skipped"`
	Deleted         int64     `json:"deleted"`
	Errored         int       `json:"errored"`
	Signals         int       `json:"signals"`
	Tools           int       `json:"tools"`
	SignalSentinels int       `json:"signal_sentinels"`
	ToolSentinels   int       `json:"tool_sentinels"`
	PagesSkipped    []int     `json:"pages_skipped,omitempty"`
	DryRun          bool      `json:"dry_run"`
	Reimport        bool      `json:"reimport"`
	Partial         bool      `json:"partial"`
	Duration        string    `json:"duration"`
	Stats           Stats     `json:"stats"`
	Postings        []Preview `json:"postings,omitempty"`
}

// Importer runs board imports.
type Importer struct {
	board    Board
	store    Store
	enricher *enrich.Enricher
	logger   *slog.Logger
	now      func() time.Time
}

// New creates an Importer. store may be nil, in which case only dry runs
// are possible.
func New(board Board, store Store, enricher *enrich.Enricher, logger *slog.Logger) *Importer {
	if enricher == nil {
		enricher = enrich.New(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		board:    board,
		store:    store,
		enricher: enricher,
		logger:   logger.With("component", "importer"),
		now:      time.Now,
	}
}

type enriched struct {
	posting *db.Posting
	result  enrich.Result
}

// Import fetches the board named by req, enriches every posting and writes
// them according to the request mode.
func (imp *Importer) Import(ctx context.Context, req Request) (*Summary, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	slug, err := greenhouse.ParseBoard(req.Board)
	if err != nil {
		return nil, &ValidationError{Field: "board", Message: err.Error(), Cause: err}
	}
	if imp.store == nil && !req.DryRun {
		return nil, &ValidationError{Field: "dry_run", Message: "a database is required unless dry_run is set"}
	}

	company := db.NormalizeName(req.Company)
	start := imp.now()
	summary := &Summary{
		RunID:    uuid.New(),
		Board:    slug,
		Company:  req.Company,
		DryRun:   req.DryRun,
		Reimport: req.Reimport,
	}
	logger := imp.logger.With("run_id", summary.RunID, "board", slug, "company", company)

	if !req.DryRun {
		lock, err := imp.store.LockCompany(ctx, company)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
				logger.WarnContext(ctx, "failed to release company lock", "error", err)
			}
		}()
	}

	listing, err := imp.board.ListJobs(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to import %s: %w", req.Company, err)
	}
	summary.Fetched = len(listing.Jobs)
	summary.Duplicates = listing.Duplicates
	summary.PagesSkipped = listing.SkippedPages
	logger.InfoContext(ctx, "board fetched", "jobs", summary.Fetched, "duplicates", summary.Duplicates)

	items := make([]enriched, 0, len(listing.Jobs))
	for _, job := range listing.Jobs {
		items = append(items, imp.enrichJob(req.Company, company, job))
	}

	var werr error
	switch {
	case req.DryRun:
		werr = imp.dryRun(ctx, company, req.Reimport, items, summary)
	case req.Reimport:
		werr = imp.replace(ctx, company, items, summary)
	default:
		werr = imp.insertNew(ctx, company, items, summary, logger)
	}

	summary.Duration = imp.now().Sub(start).Round(time.Millisecond).String()
	if werr != nil {
		return summary, werr
	}

	if !req.DryRun {
		_, err := imp.store.UpsertCompany(ctx, db.CompanyInput{
			Name:       req.Company,
			WebsiteURL: req.WebsiteURL,
			Industry:   req.Industry,
			BoardSlug:  slug,
		})
		if err != nil {
			return summary, &StoreError{Company: company, Message: "failed to upsert company", Cause: err}
		}
	}

	logger.InfoContext(ctx, "import finished",
		"inserted", summary.Inserted, "skipped", summary.Skipped, "deleted", summary.Deleted,
		"dry_run", summary.DryRun, "duration", summary.Duration)
	return summary, nil
}

// EnrichInput converts a board job into the enricher's input. Pay ranges are
// converted from cents.
func EnrichInput(job greenhouse.Job) enrich.Posting {
	in := enrich.Posting{
		ExternalID:   job.ExternalID(),
		Title:        job.Title,
		Description:  job.Content,
		Department:   job.Department(),
		LocationText: locationText(job),
	}
	for _, r := range job.PayInputRanges {
		in.PayRanges = append(in.PayRanges, enrich.PayRange{
			Min:      float64(r.MinCents) / 100,
			Max:      float64(r.MaxCents) / 100,
			Currency: r.CurrencyType,
		})
	}
	return in
}

func (imp *Importer) enrichJob(companyName, company string, job greenhouse.Job) enriched {
	in := EnrichInput(job)
	res := imp.enricher.Enrich(in)

	p := &db.Posting{
		Company:      company,
		CompanyName:  companyName,
		ExternalID:   in.ExternalID,
		Source:       db.SourceGreenhouse,
		SourceURL:    job.AbsoluteURL,
		Title:        strings.TrimSpace(job.Title),
		Description:  res.PlainText,
		Department:   in.Department,
		Location:     in.LocationText,
		Locations:    res.Locations,
		WorkMode:     res.WorkMode,
		IsRemote:     res.IsRemote,
		State:        res.State,
		SalaryMin:    res.SalaryMin,
		SalaryMax:    res.SalaryMax,
		Function:     res.Function,
		Seniority:    res.Seniority,
		HasAIMention: res.HasAIMention,
		AITerms:      res.AITerms,
		IsAINative:   res.IsAINative,
		PostedAt:     job.PostedAt(),
	}
	for _, s := range res.SignalRows(imp.enricher.Taxonomy()) {
		p.Signals = append(p.Signals, db.SignalRow(s))
	}
	for _, t := range res.ToolRows() {
		p.Tools = append(p.Tools, db.ToolRow(t))
	}
	return enriched{posting: p, result: res}
}

func locationText(job greenhouse.Job) string {
	if s := strings.TrimSpace(job.Location.Name); s != "" {
		return s
	}
	names := make([]string, 0, len(job.Offices))
	for _, o := range job.Offices {
		if s := strings.TrimSpace(o.Name); s != "" {
			names = append(names, s)
		}
	}
	return strings.Join(names, "; ")
}

func (imp *Importer) dryRun(ctx context.Context, company string, reimport bool, items []enriched, summary *Summary) error {
	existing := map[string]bool{}
	if imp.store != nil {
		ids, err := imp.store.ExistingExternalIDs(ctx, company)
		if err != nil {
			return &StoreError{Company: company, Message: "failed to read existing postings", Cause: err}
		}
		existing = ids
	}
	if reimport {
		summary.Deleted = int64(len(existing))
	}

	for _, it := range items {
		if !reimport && existing[it.posting.ExternalID] {
			summary.Skipped++
			continue
		}
		summary.Inserted++
		summary.count(it)
	}
	summary.Stats = buildStats(items)
	summary.Postings = previews(items)
	return nil
}

func (imp *Importer) replace(ctx context.Context, company string, items []enriched, summary *Summary) error {
	postings := make([]*db.Posting, len(items))
	for i, it := range items {
		postings[i] = it.posting
	}

	result, err := imp.store.ReplaceCompanyPostings(ctx, company, postings)
	if err != nil {
		summary.Errored = len(items)
		return &StoreError{Company: company, Message: "reimport rolled back", Cause: err}
	}
	summary.Deleted = result.Deleted
	summary.Inserted = result.Inserted
	summary.Skipped = result.Skipped
	for _, it := range items {
		summary.count(it)
	}
	summary.Stats = buildStats(items)
	return nil
}

func (imp *Importer) insertNew(ctx context.Context, company string, items []enriched, summary *Summary, logger *slog.Logger) error {
	existing, err := imp.store.ExistingExternalIDs(ctx, company)
	if err != nil {
		return &StoreError{Company: company, Message: "failed to read existing postings", Cause: err}
	}

	written := make([]enriched, 0, len(items))
	for i, it := range items {
		if existing[it.posting.ExternalID] {
			summary.Skipped++
			continue
		}
		if err := imp.store.InsertPosting(ctx, it.posting); err != nil {
			if errors.Is(err, db.ErrDuplicatePosting) {
				logger.DebugContext(ctx, "posting inserted concurrently", "external_id", it.posting.ExternalID)
				summary.Skipped++
				continue
			}
			summary.Errored = pending(items[i:], existing)
			summary.Partial = summary.Inserted > 0
			summary.Stats = buildStats(written)
			return &StoreError{
				Company:    company,
				ExternalID: it.posting.ExternalID,
				Message:    fmt.Sprintf("aborted after %d of %d postings", i, len(items)),
				Cause:      err,
			}
		}
		summary.Inserted++
		summary.count(it)
		written = append(written, it)
	}
	summary.Stats = buildStats(written)
	return nil
}

// pending counts the items that still needed inserting, leaving out those
// already stored.
func pending(items []enriched, existing map[string]bool) int {
	n := 0
	for _, it := range items {
		if !existing[it.posting.ExternalID] {
			n++
		}
	}
	return n
}

func (s *Summary) count(it enriched) {
	for _, row := range it.posting.Signals {
		if row.Value == taxonomy.None {
			s.SignalSentinels++
		} else {
			s.Signals++
		}
	}
	for _, row := range it.posting.Tools {
		if row.Name == taxonomy.None {
			s.ToolSentinels++
		} else {
			s.Tools++
		}
	}
}

func previews(items []enriched) []Preview {
	out := make([]Preview, 0, len(items))
	for _, it := range items {
		pv := Preview{
			ExternalID: it.posting.ExternalID,
			Title:      it.posting.Title,
			Function:   it.posting.Function,
			Seniority:  it.posting.Seniority,
			Locations:  it.posting.Locations,
		}
		for _, s := range it.result.Signals {
			pv.Signals = append(pv.Signals, s.Type+":"+s.Value)
		}
		for _, t := range it.result.Tools {
			pv.Tools = append(pv.Tools, t.Name)
		}
		out = append(out, pv)
	}
	return out
}
