package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/fieldwork/internal/importer"
	"github.com/jonathan/fieldwork/internal/scheduler"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-import a manifest on a cron schedule",
	Long: "Run import-batch for a manifest on a schedule (FIELDWORK_SCHEDULE or --schedule, " +
		"standard cron syntax or @every <duration>) until interrupted.",
	RunE: runWatch,
}

var (
	watchManifest string
	watchSchedule string
	watchRunNow   bool
	watchMigrate  bool
)

func init() {
	watchCmd.Flags().StringVarP(&watchManifest, "manifest", "m", "", "Path to the manifest JSON (required)")
	watchCmd.Flags().StringVar(&watchSchedule, "schedule", "", "Cron spec (default FIELDWORK_SCHEDULE)")
	watchCmd.Flags().BoolVar(&watchRunNow, "run-now", false, "Also run once at startup")
	watchCmd.Flags().BoolVar(&watchMigrate, "migrate", false, "Apply pending migrations first")

	_ = watchCmd.MarkFlagRequired("manifest")

	rootCmd.AddCommand(watchCmd)
}

// batchJob re-reads the manifest on every run so edits apply without a restart.
func batchJob(imp *importer.Importer, path string, concurrency int) scheduler.Job {
	return func(ctx context.Context) error {
		m, err := loadManifest(path, false)
		if err != nil {
			return err
		}
		results, err := imp.RunBatch(ctx, m, concurrency)
		if err != nil {
			return err
		}
		for _, r := range results {
			if r.Summary != nil && r.Err == nil {
				logger.InfoContext(ctx, "company imported", "company", r.Request.Company,
					"inserted", r.Summary.Inserted, "skipped", r.Summary.Skipped, "deleted", r.Summary.Deleted)
			}
		}
		if failed := importer.Failed(results); failed > 0 {
			return fmt.Errorf("%d of %d imports failed", failed, len(results))
		}
		return nil
	}
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	// fail fast on a broken manifest
	if _, err := loadManifest(watchManifest, false); err != nil {
		return err
	}

	spec := watchSchedule
	if spec == "" {
		spec = cfg.Schedule
	}

	imp, closeStore, err := newImporter(ctx, false, watchMigrate)
	if err != nil {
		return err
	}
	defer closeStore()

	s, err := scheduler.New(spec, batchJob(imp, watchManifest, cfg.Concurrency), logger)
	if err != nil {
		return err
	}
	return s.Start(ctx, watchRunNow)
}
