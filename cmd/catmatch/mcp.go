package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/hazyhaar/catmatch/pkg/api"
	"github.com/mark3labs/mcp-go/server"
)

func cmdMCP(args []string) {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	cfg := loadConfig(*cfgPath)
	runMCP(cfg, newLogger(cfg.LogLevel))
}

// runMCP serves the tools on stdin/stdout; logs stay on stderr.
func runMCP(cfg config, logger *slog.Logger) {
	reg := openRegistry(cfg, logger)
	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	srv := server.NewMCPServer("catmatch", "1.0.0", server.WithToolCapabilities(false))
	api.RegisterMCPTools(srv, reg, api.Options{Logger: logger, Store: store})

	logger.Info("serving MCP over stdio")
	if err := server.ServeStdio(srv); err != nil {
		logger.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
