// yourprime-mcp serves the coach over the Model Context Protocol on stdio.
//
// Two modes:
//   - local: loads config, connects to Postgres and computes answers in
//     process (default)
//   - remote: proxies every query to a running YourPrime server's REST API
//     (-remote http://yourprime:8080), so the binary can run on a laptop
//     while the data lives on the home server
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/rotnitxe/yourprime/internal/coach"
	"github.com/rotnitxe/yourprime/internal/config"
	"github.com/rotnitxe/yourprime/internal/mcp"
	"github.com/rotnitxe/yourprime/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (local mode)")
	remote := flag.String("remote", "", "base URL of a running YourPrime server; skips the local database")
	flag.Parse()

	// Log to stderr: stdout carries the MCP protocol stream.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds mcp.DataSource
	if *remote != "" {
		ds = mcp.NewHTTPClient(*remote)
		log.Info("mcp server starting", "mode", "remote", "url", *remote)
	} else {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		settings, err := cfg.Settings.EngineSettings()
		if err != nil {
			log.Error("invalid settings", "error", err)
			os.Exit(1)
		}

		ctx := context.Background()
		db, err := storage.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		c, err := coach.New(ctx, db, cfg.Recovery.EngineConfig(), settings)
		if err != nil {
			log.Error("failed to build coach", "error", err)
			os.Exit(1)
		}
		ds = c
		log.Info("mcp server starting", "mode", "local")
	}

	s := mcp.New(ds, Version, log)
	if err := mcpserver.ServeStdio(s); err != nil {
		log.Error("mcp server exited", "error", err)
		os.Exit(1)
	}
}
