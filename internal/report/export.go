package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jonathan/fieldwork/internal/schemas"
)

// CSV table file names.
const (
	ComparisonCSV   = "comparison.csv"
	CompensationCSV = "compensation.csv"
	ToolsCSV        = "tools.csv"
)

// JSON renders the report and checks it against the report schema.
func (r *Report) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := schemas.ValidateArtifact(schemas.Report, data); err != nil {
		return nil, fmt.Errorf("report failed schema validation: %w", err)
	}
	return data, nil
}

// WriteJSON writes the report document to path.
func (r *Report) WriteJSON(path string) error {
	data, err := r.JSON()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// WriteCSV writes the comparison, compensation and tool tables into dir and
// returns the paths written.
func (r *Report) WriteCSV(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	tables := []struct {
		name string
		rows [][]string
	}{
		{ComparisonCSV, r.comparisonRows()},
		{CompensationCSV, r.compensationRows()},
		{ToolsCSV, r.toolRows()},
	}

	paths := make([]string, 0, len(tables))
	for _, t := range tables {
		path := filepath.Join(dir, t.name)
		if err := writeCSV(path, t.rows); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func (r *Report) comparisonRows() [][]string {
	build := map[string]BuildRow{}
	for _, b := range r.Comparison.Build {
		build[b.Company] = b
	}
	remote := map[string]RemoteRow{}
	for _, rr := range r.Comparison.Remote {
		remote[rr.Company] = rr
	}

	rows := [][]string{{
		"rank", "company", "roles", "growth_hire", "immediate", "aggression_score",
		"build_pct", "remote", "hybrid", "onsite", "unknown", "remote_pct",
	}}
	for _, a := range r.Comparison.Aggression {
		rm := remote[a.Company]
		rows = append(rows, []string{
			strconv.Itoa(a.Rank), a.Company, strconv.Itoa(a.Roles), strconv.Itoa(a.GrowthHire),
			strconv.Itoa(a.Immediate), strconv.Itoa(a.Score), build[a.Company].Display,
			strconv.Itoa(rm.Remote), strconv.Itoa(rm.Hybrid), strconv.Itoa(rm.Onsite),
			strconv.Itoa(rm.Unknown), formatFloat(rm.RemotePct),
		})
	}
	return rows
}

func (r *Report) compensationRows() [][]string {
	rows := [][]string{{"company", "disclosed", "disclosure_pct", "min", "max", "median_midpoint"}}
	for _, c := range r.Comparison.Compensation {
		rows = append(rows, []string{
			c.Company, strconv.Itoa(c.Disclosed), formatFloat(c.DisclosurePct),
			optional(c.Min), optional(c.Max), c.Display,
		})
	}
	return rows
}

func (r *Report) toolRows() [][]string {
	rows := [][]string{{"company", "tool", "category", "postings", "pct"}}
	for _, b := range r.Breakdowns {
		for _, t := range b.Tools {
			rows = append(rows, []string{b.Company, t.Name, t.Category, strconv.Itoa(t.Count), formatFloat(t.Pct)})
		}
	}
	return rows
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func optional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
