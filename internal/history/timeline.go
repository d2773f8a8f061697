package history

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/fieldwork/internal/schemas"
)

// LiveTimestamp marks the point counted from the live board API.
const LiveTimestamp = "live"

// Point is one open role count on the timeline.
type Point struct {
	Date        string         `json:"date"`
	Timestamp   string         `json:"timestamp"`
	OpenRoles   int            `json:"open_roles"`
	Format      string         `json:"format"`
	PageSize    int            `json:"page_size"`
	URL         string         `json:"url,omitempty"`
	Departments map[string]int `json:"departments,omitempty"`
}

// Skip records a bucket or era left out of the timeline and why.
type Skip struct {
	Date      string `json:"date,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	URL       string `json:"url,omitempty"`
	Reason    string `json:"reason"`
}

// Extreme is a notable point of the timeline.
type Extreme struct {
	Date      string `json:"date"`
	OpenRoles int    `json:"open_roles"`
}

// Summary describes the timeline at a glance.
type Summary struct {
	Peak             *Extreme `json:"peak"`
	Trough           *Extreme `json:"trough"`
	Current          *Extreme `json:"current"`
	CurrentVsPeakPct *float64 `json:"current_vs_peak_pct"`
}

// Timeline is the artifact produced by one walk.
type Timeline struct {
	Board       string    `json:"board"`
	GeneratedAt time.Time `json:"generated_at"`
	Frequency   Frequency `json:"frequency"`
	Start       string    `json:"start,omitempty"`
	End         string    `json:"end,omitempty"`
	DataPoints  int       `json:"data_points"`
	Points      []Point   `json:"timeline"`
	Skipped     []Skip    `json:"skipped"`
	Summary     Summary   `json:"summary"`
}

// Summarize computes peak, trough and current from the points. The earliest
// point wins ties for peak and trough; current is the last point.
func Summarize(points []Point) Summary {
	var s Summary
	if len(points) == 0 {
		return s
	}
	peak, trough := points[0], points[0]
	for _, p := range points[1:] {
		if p.OpenRoles > peak.OpenRoles {
			peak = p
		}
		if p.OpenRoles < trough.OpenRoles {
			trough = p
		}
	}
	current := points[len(points)-1]
	s.Peak = &Extreme{Date: peak.Date, OpenRoles: peak.OpenRoles}
	s.Trough = &Extreme{Date: trough.Date, OpenRoles: trough.OpenRoles}
	s.Current = &Extreme{Date: current.Date, OpenRoles: current.OpenRoles}
	if peak.OpenRoles > 0 {
		pct := math.Round(float64(current.OpenRoles-peak.OpenRoles)/float64(peak.OpenRoles)*1000) / 10
		s.CurrentVsPeakPct = &pct
	}
	return s
}

// Write validates the timeline against its schema and replaces the file at
// path with it.
func (t *Timeline) Write(path string) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal timeline: %w", err)
	}
	if err := schemas.ValidateArtifact(schemas.Timeline, data); err != nil {
		return fmt.Errorf("timeline failed schema validation: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write timeline: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace timeline: %w", err)
	}
	return nil
}
