package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/fieldwork/internal/importer"
	"github.com/jonathan/fieldwork/internal/observability"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import one company's job board",
	Long: "Fetch every open posting of a Greenhouse board, classify it and store it. Existing " +
		"postings are skipped unless --reimport replaces the company's rows atomically.",
	RunE: runImport,
}

var (
	importBoard    string
	importCompany  string
	importWebsite  string
	importIndustry string
	importReimport bool
	importDryRun   bool
	importMigrate  bool
	importJSON     bool
)

func init() {
	importCmd.Flags().StringVarP(&importBoard, "board", "b", "", "Board slug or board URL (required)")
	importCmd.Flags().StringVarP(&importCompany, "company", "c", "", "Company name (required)")
	importCmd.Flags().StringVar(&importWebsite, "website", "", "Company website URL")
	importCmd.Flags().StringVar(&importIndustry, "industry", "", "Company industry")
	importCmd.Flags().BoolVar(&importReimport, "reimport", false, "Replace every stored posting of the company")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Fetch and classify without writing")
	importCmd.Flags().BoolVar(&importMigrate, "migrate", false, "Apply pending migrations first")
	importCmd.Flags().BoolVar(&importJSON, "json", false, "Print the summary as JSON")

	_ = importCmd.MarkFlagRequired("board")
	_ = importCmd.MarkFlagRequired("company")

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	imp, closeStore, err := newImporter(ctx, importDryRun, importMigrate)
	if err != nil {
		return err
	}
	defer closeStore()

	summary, err := imp.Import(ctx, importer.Request{
		Board:      importBoard,
		Company:    importCompany,
		WebsiteURL: importWebsite,
		Industry:   importIndustry,
		Reimport:   importReimport,
		DryRun:     importDryRun,
	})
	if err != nil {
		logger.Error("import failed", "company", importCompany, "class", observability.Classify(err), "error", err)
		if summary != nil && !importJSON {
			observability.NewPrinter(os.Stdout).PrintImportSummary(summary)
		}
		return fmt.Errorf("import of %s failed: %w", importCompany, err)
	}

	if importJSON {
		return printJSON(summary)
	}
	observability.NewPrinter(os.Stdout).PrintImportSummary(summary)
	return nil
}
