// Package main provides the fieldwork command line: board imports, hiring
// timelines, cross-company reports and the read-only API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/fieldwork/internal/config"
	"github.com/jonathan/fieldwork/internal/logging"
)

var (
	cfg    *config.Config
	logger *slog.Logger

	dbURL     string
	redisURL  string
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "fieldwork",
	Short: "Hiring signal pipeline for public job boards",
	Long: "fieldwork imports Greenhouse job boards, classifies every posting into functions, " +
		"seniority, hiring signals and tools, rebuilds historical open-role timelines from " +
		"archived board snapshots, and compares companies side by side.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "db-url", "", "PostgreSQL URL (overrides FIELDWORK_DATABASE_URL)")
	rootCmd.PersistentFlags().StringVar(&redisURL, "redis-url", "", "Redis URL for the archive cache (overrides FIELDWORK_REDIS_URL)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "text or json")
}

// loadEnv loads .env when present. A missing file is not an error.
func loadEnv() error {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return fmt.Errorf("load .env file: %w", err)
		}
	}
	return nil
}

// setup loads configuration, applies flag overrides and builds the logger.
func setup(_ *cobra.Command, _ []string) error {
	if err := loadEnv(); err != nil {
		return err
	}
	loaded, err := config.Load()
	if err != nil {
		return err
	}
	if dbURL != "" {
		loaded.DatabaseURL = dbURL
	}
	if redisURL != "" {
		loaded.RedisURL = redisURL
	}
	if logLevel != "" {
		loaded.LogLevel = logLevel
	}
	if logFormat != "" {
		loaded.LogFormat = logFormat
	}
	loaded.Sanitize()
	if err := loaded.Validate(); err != nil {
		return err
	}

	cfg = loaded
	logger = logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	slog.SetDefault(logger)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
