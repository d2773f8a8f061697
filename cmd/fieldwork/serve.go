package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/fieldwork/internal/server"
	"github.com/jonathan/fieldwork/internal/server/ratelimit"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the read-only JSON API",
	Long:  `Start an HTTP server that exposes stored companies, postings and cross-company reports.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default FIELDWORK_SERVER_PORT)")
	rootCmd.AddCommand(serveCmd)
}

func rateLimitConfig(perMinute int, whitelist string) *ratelimit.Config {
	rl := ratelimit.DefaultConfig()
	if perMinute <= 0 {
		rl.Enabled = false
		return rl
	}
	rl.DefaultLimit = perMinute
	rl.DefaultWindow = time.Minute
	rl.Whitelist = ratelimit.ParseIPList(whitelist)
	return rl
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := openStore(ctx, false)
	if err != nil {
		return err
	}
	defer store.Close()

	port := servePort
	if port <= 0 {
		port = cfg.ServerPort
	}
	srv := server.New(server.Config{Port: port, RateLimit: rateLimitConfig(cfg.RateLimit, cfg.RateLimitWhitelist)}, store, logger)
	return srv.Start(ctx)
}
