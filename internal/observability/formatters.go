// Package observability provides the human-readable run summaries printed by
// the CLI, and error classification for logs.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/fieldwork/internal/history"
	"github.com/jonathan/fieldwork/internal/importer"
	"github.com/jonathan/fieldwork/internal/report"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted summary output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

// wrap splits text into lines of at most width runes at word boundaries.
func wrap(text string, width int) []string {
	var lines []string
	var line string
	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case utf8.RuneCountInString(line)+1+utf8.RuneCountInString(word) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

func writeCounts(sb *strings.Builder, title string, counts []importer.Count) {
	if len(counts) == 0 {
		return
	}
	sb.WriteString(title + ":\n")
	count := min(len(counts), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %-28s %5d\n", counts[i].Label, counts[i].Count))
	}
	if len(counts) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(counts)-maxItemsToShow))
	}
	sb.WriteString("\n")
}

func percent(n, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(n)/float64(total)*100)
}

// PrintImportSummary outputs what one import fetched and wrote.
func (p *Printer) PrintImportSummary(s *importer.Summary) {
	if s == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:  %s\n", s.Company))
	sb.WriteString(fmt.Sprintf("Board:    %s\n", s.Board))
	sb.WriteString(fmt.Sprintf("Run:      %s (%s)\n", s.RunID, s.Duration))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Fetched:     %d\n", s.Fetched))
	switch {
	case s.DryRun:
		sb.WriteString(fmt.Sprintf("Would insert: %d (dry run)\n", s.Inserted))
		sb.WriteString(fmt.Sprintf("Would skip:   %d\n", s.Duplicates))
	case s.Reimport:
		sb.WriteString(fmt.Sprintf("Deleted:     %d\n", s.Deleted))
		sb.WriteString(fmt.Sprintf("Inserted:    %d\n", s.Inserted))
		sb.WriteString(fmt.Sprintf("Skipped:     %d\n", s.Skipped))
	default:
		sb.WriteString(fmt.Sprintf("Inserted:    %d\n", s.Inserted))
		sb.WriteString(fmt.Sprintf("Duplicates:  %d\n", s.Duplicates))
	}
	if s.Errored > 0 {
		sb.WriteString(fmt.Sprintf("Errored:     %d\n", s.Errored))
	}
	sb.WriteString(fmt.Sprintf("Signals:     %d (+%d sentinel)\n", s.Signals, s.SignalSentinels))
	sb.WriteString(fmt.Sprintf("Tools:       %d (+%d sentinel)\n", s.Tools, s.ToolSentinels))
	if s.Partial {
		sb.WriteString(fmt.Sprintf("⚠ Partial listing, pages skipped: %v\n", s.PagesSkipped))
	}
	sb.WriteString("\n")

	st := s.Stats
	if st.Postings > 0 {
		sb.WriteString(fmt.Sprintf("Salary disclosed: %s\n", percent(st.SalaryDisclosed, st.Postings)))
		sb.WriteString(fmt.Sprintf("AI mentions:      %s (%d AI-native)\n", percent(st.AIMentions, st.Postings), st.AINative))
		sb.WriteString(fmt.Sprintf("Remote:           %d\n", st.Remote))
		sb.WriteString("\n")
	}
	writeCounts(&sb, "By function", st.ByFunction)
	writeCounts(&sb, "By seniority", st.BySeniority)
	writeCounts(&sb, "Top signals", st.TopSignals)
	writeCounts(&sb, "Top tools", st.TopTools)
	writeCounts(&sb, "Top locations", st.TopLocations)

	p.printBox("IMPORT SUMMARY", strings.TrimSuffix(sb.String(), "\n\n"))
}

// PrintBatch outputs one line per company of a batch import.
func (p *Printer) PrintBatch(results []importer.BatchResult) {
	if len(results) == 0 {
		return
	}

	var sb strings.Builder
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			sb.WriteString(fmt.Sprintf("✗ %s [%s]\n", r.Request.Company, Classify(r.Err)))
			sb.WriteString(fmt.Sprintf("  %s\n", r.Err.Error()))
			continue
		}
		if r.Summary == nil {
			continue
		}
		sb.WriteString(fmt.Sprintf("✓ %s: %d fetched, %d inserted, %d duplicates\n",
			r.Request.Company, r.Summary.Fetched, r.Summary.Inserted, r.Summary.Duplicates))
	}
	sb.WriteString(fmt.Sprintf("\n%d companies, %d failed", len(results), failed))

	p.printBox("BATCH IMPORT", sb.String())
}

// PrintTimeline outputs the points and summary of a timeline.
func (p *Printer) PrintTimeline(tl *history.Timeline) {
	if tl == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Board:      %s\n", tl.Board))
	sb.WriteString(fmt.Sprintf("Frequency:  %s\n", tl.Frequency))
	sb.WriteString(fmt.Sprintf("Points:     %d (%d skipped)\n", tl.DataPoints, len(tl.Skipped)))
	sb.WriteString("\n")

	for _, pt := range tl.Points {
		sb.WriteString(fmt.Sprintf("%s  %5d  %s\n", pt.Date, pt.OpenRoles, pt.Format))
	}

	if s := tl.Summary; s.Peak != nil {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("Peak:     %d on %s\n", s.Peak.OpenRoles, s.Peak.Date))
		sb.WriteString(fmt.Sprintf("Trough:   %d on %s\n", s.Trough.OpenRoles, s.Trough.Date))
		sb.WriteString(fmt.Sprintf("Current:  %d on %s\n", s.Current.OpenRoles, s.Current.Date))
		if s.CurrentVsPeakPct != nil {
			sb.WriteString(fmt.Sprintf("vs peak:  %+.1f%%\n", *s.CurrentVsPeakPct))
		}
	}

	p.printBox("HIRING TIMELINE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintReport outputs the aggression ranking, compensation and takeaways.
func (p *Printer) PrintReport(r *report.Report) {
	if r == nil {
		return
	}

	var sb strings.Builder
	if r.Filters.Function != "" {
		sb.WriteString(fmt.Sprintf("Function: %s\n\n", r.Filters.Function))
	}

	sb.WriteString("Hiring aggression:\n")
	for _, a := range r.Comparison.Aggression {
		sb.WriteString(fmt.Sprintf("  #%d %-24s %4d roles  score %d\n", a.Rank, a.Company, a.Roles, a.Score))
	}
	sb.WriteString("\n")

	sb.WriteString("Compensation (median midpoint):\n")
	for _, c := range r.Comparison.Compensation {
		sb.WriteString(fmt.Sprintf("  %-24s %s\n", c.Company, c.Display))
	}
	sb.WriteString("\n")

	sb.WriteString("Team building:\n")
	for _, b := range r.Comparison.Build {
		sb.WriteString(fmt.Sprintf("  %-24s %s\n", b.Company, b.Display))
	}

	if len(r.Takeaways) > 0 {
		sb.WriteString("\nTakeaways:\n")
		for _, t := range r.Takeaways {
			for i, line := range wrap(t.Text, boxWidth-8) {
				bullet := "•"
				if i > 0 {
					bullet = " "
				}
				sb.WriteString(fmt.Sprintf("  %s %s\n", bullet, line))
			}
		}
	}

	p.printBox("COMPANY COMPARISON", strings.TrimSuffix(sb.String(), "\n"))
}
