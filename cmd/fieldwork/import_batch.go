package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/fieldwork/internal/importer"
	"github.com/jonathan/fieldwork/internal/observability"
)

var importBatchCmd = &cobra.Command{
	Use:   "import-batch",
	Short: "Import every board listed in a manifest",
	Long: "Import the companies of a JSON manifest ({\"companies\": [{\"board\": ..., \"company\": ...}]}) " +
		"concurrently. One failing company does not stop the others.",
	RunE: runImportBatch,
}

var (
	batchManifest    string
	batchConcurrency int
	batchDryRun      bool
	batchMigrate     bool
	batchJSON        bool
)

func init() {
	importBatchCmd.Flags().StringVarP(&batchManifest, "manifest", "m", "", "Path to the manifest JSON (required)")
	importBatchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "Imports in flight (default FIELDWORK_CONCURRENCY)")
	importBatchCmd.Flags().BoolVar(&batchDryRun, "dry-run", false, "Fetch and classify without writing")
	importBatchCmd.Flags().BoolVar(&batchMigrate, "migrate", false, "Apply pending migrations first")
	importBatchCmd.Flags().BoolVar(&batchJSON, "json", false, "Print the results as JSON")

	_ = importBatchCmd.MarkFlagRequired("manifest")

	rootCmd.AddCommand(importBatchCmd)
}

// loadManifest reads the manifest and applies the dry run flag to every entry.
func loadManifest(path string, dryRun bool) (*importer.Manifest, error) {
	m, err := importer.LoadManifest(path)
	if err != nil {
		return nil, err
	}
	if dryRun {
		for i := range m.Companies {
			m.Companies[i].DryRun = true
		}
	}
	return m, nil
}

// allDryRun reports whether no entry of m writes to the store.
func allDryRun(m *importer.Manifest) bool {
	for _, r := range m.Companies {
		if !r.DryRun {
			return false
		}
	}
	return true
}

func runImportBatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	m, err := loadManifest(batchManifest, batchDryRun)
	if err != nil {
		return err
	}

	imp, closeStore, err := newImporter(ctx, allDryRun(m), batchMigrate)
	if err != nil {
		return err
	}
	defer closeStore()

	concurrency := batchConcurrency
	if concurrency <= 0 {
		concurrency = cfg.Concurrency
	}
	results, err := imp.RunBatch(ctx, m, concurrency)
	if err != nil {
		return err
	}

	if batchJSON {
		if err := printJSON(results); err != nil {
			return err
		}
	} else {
		observability.NewPrinter(os.Stdout).PrintBatch(results)
	}

	if failed := importer.Failed(results); failed > 0 {
		return fmt.Errorf("%d of %d imports failed", failed, len(results))
	}
	return nil
}
