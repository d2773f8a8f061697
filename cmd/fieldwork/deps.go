package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/fieldwork/internal/cache"
	"github.com/jonathan/fieldwork/internal/db"
	"github.com/jonathan/fieldwork/internal/enrich"
	"github.com/jonathan/fieldwork/internal/fetch"
	"github.com/jonathan/fieldwork/internal/greenhouse"
	"github.com/jonathan/fieldwork/internal/history"
	"github.com/jonathan/fieldwork/internal/importer"
	"github.com/jonathan/fieldwork/internal/taxonomy"
)

func fetchOptions() *fetch.Options {
	return &fetch.Options{
		Timeout:    cfg.HTTPTimeout,
		UserAgent:  cfg.UserAgent,
		MaxRetries: cfg.MaxRetries,
		Backoff:    cfg.RetryBackoff,
	}
}

func newBoardClient() *greenhouse.Client {
	return greenhouse.NewClient(fetch.NewClient(fetchOptions()), greenhouse.Config{
		APIBase:  cfg.GreenhouseAPIBase,
		PageSize: cfg.PageSize,
	}, logger)
}

// openStore connects to the database. With migrate set, pending migrations
// are applied first.
func openStore(ctx context.Context, migrate bool) (*db.DB, error) {
	if err := cfg.RequireDatabase(); err != nil {
		return nil, err
	}
	store, err := db.Connect(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, err
	}
	if migrate {
		applied, err := store.Migrate(ctx)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
		if len(applied) > 0 {
			logger.Info("migrations applied", "versions", applied)
		}
	}
	return store, nil
}

// newImporter builds an importer. Dry runs work without a database; when one
// is configured it is still read to report the insert and skip split. The
// returned close function is always safe to call.
func newImporter(ctx context.Context, dryRun, migrate bool) (*importer.Importer, func(), error) {
	var store importer.Store
	closeFn := func() {}

	if !dryRun || cfg.DatabaseURL != "" {
		d, err := openStore(ctx, migrate && !dryRun)
		if err != nil {
			return nil, nil, err
		}
		store = d
		closeFn = d.Close
	}

	tax := taxonomy.Default()
	if err := tax.Validate(); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("invalid taxonomy: %w", err)
	}
	return importer.New(newBoardClient(), store, enrich.New(tax), logger), closeFn, nil
}

// newArchive builds the archive client. Archived bodies go through Redis when
// a URL is configured.
func newArchive(ctx context.Context) (*history.ArchiveClient, func(), error) {
	var bodies fetch.Cache
	closeFn := func() {}
	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		bodies = cache.NewRedis(client, cfg.CacheTTL)
		closeFn = func() { _ = client.Close() }
	}

	archive := history.NewArchiveClient(fetchOptions(), bodies, history.ArchiveConfig{
		CDXURL: cfg.WaybackCDXURL,
		RawURL: cfg.WaybackRawURL,
		Delay:  cfg.ArchiveDelay,
	}, logger)
	return archive, closeFn, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
