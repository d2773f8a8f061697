package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/fieldwork/internal/enrich"
	"github.com/jonathan/fieldwork/internal/greenhouse"
	"github.com/jonathan/fieldwork/internal/importer"
	"github.com/jonathan/fieldwork/internal/taxonomy"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich <file>",
	Short: "Classify postings from a local board API response",
	Long: "Read a Greenhouse job JSON file, either a single job or a jobs page " +
		"({\"jobs\": [...]}), and print the classification of every posting as JSON. " +
		"Nothing is fetched or stored.",
	Args: cobra.ExactArgs(1),
	RunE: runEnrich,
}

func init() {
	rootCmd.AddCommand(enrichCmd)
}

// EnrichedPosting is one line of enrich output.
type EnrichedPosting struct {
	ExternalID string        `json:"external_id"`
	Title      string        `json:"title"`
	Result     enrich.Result `json:"result"`
}

// readJobs accepts a jobs page or a single job.
func readJobs(path string) ([]greenhouse.Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var page struct {
		Jobs []greenhouse.Job `json:"jobs"`
	}
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("%s is not valid JSON: %w", path, err)
	}
	if page.Jobs != nil {
		return page.Jobs, nil
	}

	var job greenhouse.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("%s is not a job: %w", path, err)
	}
	if job.Title == "" && job.Content == "" {
		return nil, fmt.Errorf("%s has neither a jobs list nor a job title", path)
	}
	return []greenhouse.Job{job}, nil
}

func classifyJobs(e *enrich.Enricher, jobs []greenhouse.Job) []EnrichedPosting {
	out := make([]EnrichedPosting, 0, len(jobs))
	for _, job := range jobs {
		in := importer.EnrichInput(job)
		out = append(out, EnrichedPosting{
			ExternalID: in.ExternalID,
			Title:      in.Title,
			Result:     e.Enrich(in),
		})
	}
	return out
}

func runEnrich(_ *cobra.Command, args []string) error {
	jobs, err := readJobs(args[0])
	if err != nil {
		return err
	}
	tax := taxonomy.Default()
	if err := tax.Validate(); err != nil {
		return fmt.Errorf("invalid taxonomy: %w", err)
	}
	return printJSON(classifyJobs(enrich.New(tax), jobs))
}
