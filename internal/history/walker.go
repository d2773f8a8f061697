// Package history rebuilds a board's open role count over time from archived
// snapshots of its public page.
package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonathan/fieldwork/internal/greenhouse"
)

const dateLayout = "2006-01-02"

// Archive lists and fetches archived captures of a board.
type Archive interface {
	Snapshots(ctx context.Context, slug string, start, end time.Time) ([]Candidate, []IndexFailure, error)
	SnapshotURL(c Candidate) string
	Fetch(ctx context.Context, c Candidate) ([]byte, error)
}

// LiveCounter reports the current number of open postings on a board.
type LiveCounter interface {
	CountJobs(ctx context.Context, slug string) (int, error)
}

// WalkRequest describes one timeline.
type WalkRequest struct {
	Board     string
	Start     time.Time
	End       time.Time
	Frequency Frequency
	// SkipLive leaves the live point off the timeline.
	SkipLive bool
}

// Walker builds timelines.
type Walker struct {
	archive Archive
	live    LiveCounter
	logger  *slog.Logger
	now     func() time.Time
}

// NewWalker creates a Walker. live may be nil, in which case no live point is
// added.
func NewWalker(archive Archive, live LiveCounter, logger *slog.Logger) *Walker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Walker{
		archive: archive,
		live:    live,
		logger:  logger.With("component", "history"),
		now:     time.Now,
	}
}

// Walk discovers captures of the board, keeps one per bucket, counts open
// roles on each and appends the live count. A capture whose count cannot be
// determined leaves its bucket out of the timeline.
func (w *Walker) Walk(ctx context.Context, req WalkRequest) (*Timeline, error) {
	slug, err := greenhouse.ParseBoard(req.Board)
	if err != nil {
		return nil, err
	}
	if req.Frequency == "" {
		req.Frequency = Monthly
	}
	if !req.Start.IsZero() && !req.End.IsZero() && req.End.Before(req.Start) {
		return nil, fmt.Errorf("end %s is before start %s", req.End.Format(dateLayout), req.Start.Format(dateLayout))
	}
	logger := w.logger.With("board", slug)

	tl := &Timeline{
		Board:       slug,
		GeneratedAt: w.now().UTC().Truncate(time.Second),
		Frequency:   req.Frequency,
		Points:      []Point{},
		Skipped:     []Skip{},
	}
	if !req.Start.IsZero() {
		tl.Start = req.Start.UTC().Format(dateLayout)
	}
	if !req.End.IsZero() {
		tl.End = req.End.UTC().Format(dateLayout)
	}

	cands, failures, err := w.archive.Snapshots(ctx, slug, req.Start, req.End)
	if err != nil {
		return nil, err
	}
	for _, f := range failures {
		tl.Skipped = append(tl.Skipped, Skip{URL: f.URL, Reason: "archive index: " + f.Err.Error()})
	}

	selected := SelectSnapshots(cands, req.Frequency)
	logger.InfoContext(ctx, "snapshots selected", "candidates", len(cands), "selected", len(selected))

	for _, c := range selected {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		point, err := w.count(ctx, c)
		if err != nil {
			logger.WarnContext(ctx, "snapshot excluded", "snapshot", c.Raw, "error", err)
			tl.Skipped = append(tl.Skipped, Skip{
				Date:      c.Timestamp.Format(dateLayout),
				Timestamp: c.Raw,
				URL:       w.archive.SnapshotURL(c),
				Reason:    err.Error(),
			})
			continue
		}
		tl.Points = append(tl.Points, point)
	}

	if w.live != nil && !req.SkipLive {
		today := w.now().UTC().Format(dateLayout)
		n, err := w.live.CountJobs(ctx, slug)
		if err != nil {
			logger.WarnContext(ctx, "live count failed", "error", err)
			tl.Skipped = append(tl.Skipped, Skip{Date: today, Timestamp: LiveTimestamp, Reason: err.Error()})
		} else {
			tl.Points = append(tl.Points, Point{
				Date:      today,
				Timestamp: LiveTimestamp,
				OpenRoles: n,
				Format:    FormatAPI,
			})
		}
	}

	tl.DataPoints = len(tl.Points)
	tl.Summary = Summarize(tl.Points)
	return tl, nil
}

func (w *Walker) count(ctx context.Context, c Candidate) (Point, error) {
	body, err := w.archive.Fetch(ctx, c)
	if err != nil {
		return Point{}, fmt.Errorf("fetch failed: %w", err)
	}
	page, err := DetectPage(body)
	if err != nil {
		if errors.Is(err, ErrUnrecognizedPage) {
			return Point{}, err
		}
		return Point{}, fmt.Errorf("count failed: %w", err)
	}
	return Point{
		Date:        c.Timestamp.Format(dateLayout),
		Timestamp:   c.Raw,
		OpenRoles:   page.OpenRoles(),
		Format:      page.Format(),
		PageSize:    len(body),
		URL:         c.URL,
		Departments: page.DepartmentCounts(),
	}, nil
}
