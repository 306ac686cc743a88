package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/hazyhaar/catmatch/pkg/api"
	"github.com/hazyhaar/catmatch/pkg/audit"
	"github.com/hazyhaar/catmatch/pkg/catalog"
	"github.com/hazyhaar/catmatch/pkg/metrics"
	"github.com/hazyhaar/catmatch/pkg/rank"
	"gopkg.in/yaml.v3"
)

type config struct {
	Addr         string `yaml:"addr"`
	CatalogDir   string `yaml:"catalog_dir"`
	Watch        bool   `yaml:"watch"`
	DefaultLimit int    `yaml:"default_limit"`
	Threshold    int    `yaml:"threshold"`
	AuditDB      string `yaml:"audit_db"`
	MCP          bool   `yaml:"mcp"`
	LogLevel     string `yaml:"log_level"`

	// SourceCheckInterval enables periodic HEAD checks of the manifest's
	// source URL, e.g. "6h". Zero disables them.
	SourceCheckInterval time.Duration `yaml:"source_check_interval"`

	// Scoring fans out over ParallelWorkers goroutines once the catalog
	// holds ParallelMinRecords records. Workers <= 1 scores sequentially.
	ParallelWorkers    int `yaml:"parallel_workers"`
	ParallelMinRecords int `yaml:"parallel_min_records"`
}

func defaultConfig() config {
	return config{
		Addr:         ":8430",
		DefaultLimit: rank.DefaultLimit,
		Threshold:    rank.DefaultThreshold,
		LogLevel:     "info",

		ParallelWorkers:    runtime.GOMAXPROCS(0),
		ParallelMinRecords: 512,
	}
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		cmdServe(os.Args[2:])
	case "mcp":
		cmdMCP(os.Args[2:])
	case "search":
		cmdSearch(os.Args[2:])
	case "snapshot":
		cmdSnapshot(os.Args[2:])
	case "fetch":
		cmdFetch(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: catmatch <command>

Commands:
  serve      Start the HTTP server
  mcp        Serve the MCP tools over stdio
  search     Rank the catalog for a query and print the matches
  snapshot   Write data.gob for a catalog directory
  fetch      Download a catalog's data file from a URL
`)
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	cfg := loadConfig(*cfgPath)
	logger := newLogger(cfg.LogLevel)
	if cfg.MCP {
		runMCP(cfg, logger)
		return
	}

	metrics.Register()
	reg := openRegistry(cfg, logger)

	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.NewRouter(reg, api.Options{Logger: logger, Store: store}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// SIGHUP: hot reload the catalog.
	// SIGINT/SIGTERM: graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	go func() {
		for range sighup {
			logger.Info("SIGHUP received, reloading catalog")
			err := reg.Reload()
			metrics.IncReload(err == nil)
			if err != nil {
				logger.Error("reload failed", "error", err)
				continue
			}
			logger.Info("catalog reloaded", "records", reg.Info().Records)
		}
	}()

	if cfg.Watch {
		w, err := rank.NewWatcher(reg, logger)
		if err != nil {
			logger.Error("catalog watcher disabled", "error", err)
		} else {
			w.OnReload = func(err error) { metrics.IncReload(err == nil) }
			defer w.Close()
			go w.Run(ctx)
			logger.Info("watching catalog", "dir", reg.Dir())
		}
	}

	if cfg.SourceCheckInterval > 0 && reg.Dir() != "" {
		checker := catalog.NewChecker(reg.Dir(), logger, cfg.SourceCheckInterval)
		checker.OnCheck = func(st catalog.SourceStatus) { metrics.SetSourceUp(st.OK()) }
		go checker.Start(ctx)
	}

	go func() {
		logger.Info("catmatch listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

// openRegistry loads the configured catalog or exits.
func openRegistry(cfg config, logger *slog.Logger) *rank.Registry {
	reg := rank.NewRegistry(cfg.CatalogDir, engineOptions(cfg)...)
	reg.OnLoad = func(e *rank.Engine) { metrics.SetCatalogRecords(e.Catalog().Len()) }
	if err := reg.Load(); err != nil {
		logger.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}
	info := reg.Info()
	logger.Info("catalog loaded", "id", info.ID, "version", info.Version,
		"records", info.Records, "synonyms", info.Synonyms, "source", info.Source)
	return reg
}

func engineOptions(cfg config) []rank.Option {
	opts := []rank.Option{
		rank.WithDefaultLimit(cfg.DefaultLimit),
		rank.WithThreshold(cfg.Threshold),
	}
	if cfg.ParallelWorkers > 1 {
		opts = append(opts, rank.WithParallelism(cfg.ParallelWorkers, cfg.ParallelMinRecords))
	}
	return opts
}

func openStore(cfg config, logger *slog.Logger) *audit.Store {
	if cfg.AuditDB == "" {
		return nil
	}
	store, err := audit.Open(cfg.AuditDB)
	if err != nil {
		logger.Error("failed to open search log", "path", cfg.AuditDB, "error", err)
		os.Exit(1)
	}
	logger.Info("search log enabled", "path", cfg.AuditDB)
	return store
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func loadConfig(path string) config {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg
		}
		fmt.Fprintf(os.Stderr, "read config: %v\n", err)
		os.Exit(1)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "parse config %s: %v\n", path, err)
		os.Exit(1)
	}
	return cfg
}
