package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/hazyhaar/catmatch/pkg/catalog"
	"github.com/hazyhaar/catmatch/pkg/rank"
)

func cmdSearch(args []string) {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	dir := fs.String("catalog", "", "catalog directory (empty = built-in catalog)")
	limit := fs.Int("limit", rank.DefaultLimit, "maximum number of results")
	explain := fs.String("explain", "", "show the rule breakdown for this category code")
	all := fs.Bool("all", false, "print the score of every record, admitted or not")
	fs.Parse(args)

	query := strings.Join(fs.Args(), " ")

	reg := rank.NewRegistry(*dir)
	if err := reg.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "load catalog: %v\n", err)
		os.Exit(1)
	}

	if *explain != "" {
		ex, ok := reg.Engine().Explain(query, *explain)
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown code %s\n", *explain)
			os.Exit(1)
		}
		printExplanation(ex)
		return
	}

	if *all {
		writeScores(os.Stdout, reg.Engine(), query)
		return
	}

	res := reg.Search(query, *limit)
	fmt.Println(res.Message())
	if len(res.Matches) == 0 {
		return
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for i, m := range res.Matches {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", i+1, m.Code, m.FullCategory, m.Score)
	}
	tw.Flush()
}

// writeScores lists every catalog record with its score for query, in
// catalog order, marking the ones that clear the threshold.
func writeScores(w io.Writer, e *rank.Engine, query string) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, rec := range e.Catalog().Records() {
		score := e.Score(query, rec)
		mark := ""
		if score >= e.Threshold() {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", rec.Code, rec.FullCategory(), score, mark)
	}
	tw.Flush()
}

func printExplanation(ex *rank.Explanation) {
	fmt.Printf("%s  %s  (query %q)\n", ex.Code, ex.Category, ex.Normalized)
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, s := range ex.Steps {
		mark := ""
		if s.Terminal {
			mark = "(terminal)"
		}
		fmt.Fprintf(tw, "  %s\t+%d\t%s\n", s.Rule, s.Points, mark)
	}
	tw.Flush()
	fmt.Printf("score %d, admitted %v\n", ex.Score, ex.Admitted)
}

func cmdSnapshot(args []string) {
	fs := flag.NewFlagSet("snapshot", flag.ExitOnError)
	dir := fs.String("catalog", "", "catalog directory holding manifest.yaml")
	export := fs.Bool("export-default", false, "write the built-in catalog to -catalog before snapshotting")
	fs.Parse(args)

	if *dir == "" {
		fmt.Fprintln(os.Stderr, "snapshot: -catalog is required")
		os.Exit(1)
	}

	if *export {
		if err := catalog.Export(catalog.Default(), *dir, "built-in"); err != nil {
			fmt.Fprintf(os.Stderr, "export: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("exported built-in catalog to %s\n", *dir)
	}

	n, err := catalog.Snapshot(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "snapshot: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote data.gob (%d records)\n", n)
}

func cmdFetch(args []string) {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	dir := fs.String("catalog", "", "catalog directory holding manifest.yaml")
	url := fs.String("url", "", "URL of the data file, in the manifest's format (default: the manifest's source)")
	timeout := fs.Duration("timeout", 10*time.Minute, "overall timeout")
	fs.Parse(args)

	if *dir == "" {
		fmt.Fprintln(os.Stderr, "fetch: -catalog is required")
		os.Exit(1)
	}
	if *url == "" {
		src, err := fetchURL(*dir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fetch: %v; pass -url\n", err)
			os.Exit(1)
		}
		*url = src
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	start := time.Now()
	n, err := catalog.Fetch(ctx, *url, *dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fetch: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("fetched %d records in %s\n", n, time.Since(start).Round(time.Millisecond))
	fmt.Println("send SIGHUP to a running server to reload")
}

// fetchURL returns the source URL declared in the catalog's manifest.
func fetchURL(dir string) (string, error) {
	m, err := catalog.LoadManifest(filepath.Join(dir, "manifest.yaml"))
	if err != nil {
		return "", err
	}
	u, ok := catalog.SourceURL(m)
	if !ok {
		return "", fmt.Errorf("catalog %s: %w", m.ID, catalog.ErrNoSourceURL)
	}
	return u, nil
}
