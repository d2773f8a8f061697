package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/fieldwork/internal/observability"
	"github.com/jonathan/fieldwork/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report <company> [company...]",
	Short: "Compare the stored postings of several companies",
	Long: "Build per-company breakdowns, comparison tables and takeaways from stored postings. " +
		"The report is written as a JSON document and, with --csv-dir, as CSV tables.",
	Args: cobra.MinimumNArgs(1),
	RunE: runReport,
}

var (
	reportFunction string
	reportTop      int
	reportOut      string
	reportCSVDir   string
	reportJSON     bool
)

func init() {
	reportCmd.Flags().StringVar(&reportFunction, "function", "", "Only include postings of this function (e.g. sales)")
	reportCmd.Flags().IntVar(&reportTop, "top", report.DefaultTopN, "Tools and locations listed per company")
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "Write the JSON report to this file")
	reportCmd.Flags().StringVar(&reportCSVDir, "csv-dir", "", "Write comparison, compensation and tools CSV files here")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "Print the JSON report instead of the summary")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := openStore(ctx, false)
	if err != nil {
		return err
	}
	defer store.Close()

	r, err := report.New(store, logger).Aggregate(ctx, args, report.Filters{
		Function: reportFunction,
		TopN:     reportTop,
	})
	if err != nil {
		return err
	}

	if reportOut != "" {
		if err := r.WriteJSON(reportOut); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Report: %s\n", reportOut)
	}
	if reportCSVDir != "" {
		files, err := r.WriteCSV(reportCSVDir)
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Fprintf(os.Stderr, "CSV: %s\n", f)
		}
	}

	if reportJSON {
		data, err := r.JSON()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	observability.NewPrinter(os.Stdout).PrintReport(r)
	return nil
}
