package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/fieldwork/internal/fetch"
	"github.com/jonathan/fieldwork/internal/greenhouse"
	"github.com/jonathan/fieldwork/internal/history"
	"github.com/jonathan/fieldwork/internal/observability"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Rebuild a board's open-role timeline from archived snapshots",
	Long: "Walk archived captures of a Greenhouse board, keep one capture per month or quarter, " +
		"count the open roles on each and append today's live count. The timeline is validated " +
		"against its schema and written as JSON.",
	RunE: runHistory,
}

var (
	historyBoard     string
	historyStart     string
	historyEnd       string
	historyFrequency string
	historyOut       string
	historyNoLive    bool
)

func init() {
	historyCmd.Flags().StringVarP(&historyBoard, "board", "b", "", "Board slug or board URL (required)")
	historyCmd.Flags().StringVar(&historyStart, "start", "", "First day to include (YYYY-MM-DD)")
	historyCmd.Flags().StringVar(&historyEnd, "end", "", "Last day to include (YYYY-MM-DD)")
	historyCmd.Flags().StringVarP(&historyFrequency, "frequency", "f", "monthly", "monthly or quarterly")
	historyCmd.Flags().StringVarP(&historyOut, "out", "o", "", "Output file (default <board>_timeline.json)")
	historyCmd.Flags().BoolVar(&historyNoLive, "no-live", false, "Leave the live count off the timeline")

	_ = historyCmd.MarkFlagRequired("board")

	rootCmd.AddCommand(historyCmd)
}

func parseDate(flag, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s must be YYYY-MM-DD: %w", flag, err)
	}
	return t, nil
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	freq, err := history.ParseFrequency(historyFrequency)
	if err != nil {
		return err
	}
	start, err := parseDate("start", historyStart)
	if err != nil {
		return err
	}
	end, err := parseDate("end", historyEnd)
	if err != nil {
		return err
	}
	slug, err := greenhouse.ParseBoard(historyBoard)
	if err != nil {
		return err
	}

	archive, closeCache, err := newArchive(ctx)
	if err != nil {
		return err
	}
	defer closeCache()

	live := greenhouse.NewClient(fetch.NewClient(fetchOptions()), greenhouse.Config{APIBase: cfg.GreenhouseAPIBase}, logger)
	walker := history.NewWalker(archive, live, logger)

	tl, err := walker.Walk(ctx, history.WalkRequest{
		Board:     slug,
		Start:     start,
		End:       end,
		Frequency: freq,
		SkipLive:  historyNoLive,
	})
	if err != nil {
		logger.Error("history walk failed", "board", slug, "class", observability.Classify(err), "error", err)
		return fmt.Errorf("history of %s failed: %w", slug, err)
	}

	out := historyOut
	if out == "" {
		out = filepath.Join(".", slug+"_timeline.json")
	}
	if err := tl.Write(out); err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintTimeline(tl)
	fmt.Fprintf(os.Stdout, "Timeline: %s\n", out)
	return nil
}
