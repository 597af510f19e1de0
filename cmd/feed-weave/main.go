// Package main provides the CLI entry point for feed-weave.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	kongyaml "github.com/alecthomas/kong-yaml"

	"github.com/lepinkainen/feed-weave/internal/pipeline"
	"github.com/lepinkainen/feed-weave/internal/scheduler"
	"github.com/lepinkainen/feed-weave/pkg/config"
	"github.com/lepinkainen/feed-weave/pkg/feed"
	"github.com/lepinkainen/feed-weave/pkg/fetch"
	"github.com/lepinkainen/feed-weave/pkg/opengraph"
	"github.com/lepinkainen/feed-weave/pkg/preview"
)

// CLI structure
var CLI struct {
	Config  string `help:"Configuration file path" default:"config.yaml"`
	Sources string `help:"Source list file path (overrides config)"`
	Debug   bool   `help:"Enable debug logging" default:"false"`

	Generate struct {
		SourceID string `help:"Only process the source with this id"`
		HTMLFile string `help:"Use a local HTML file instead of fetching (single source only)"`
		DryRun   bool   `help:"Extract and merge without writing feed files"`
	} `cmd:"generate" help:"Generate RSS and Atom feeds for all configured sources."`

	Watch struct {
		Schedule string `help:"Cron schedule (overrides config)"`
	} `cmd:"watch" help:"Regenerate feeds periodically."`

	Preview struct {
		SourceID string `arg:"" help:"Source id to preview"`
	} `cmd:"preview" help:"Preview extracted records for one source."`

	ListSources struct{} `cmd:"list-sources" help:"List configured sources."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Configuration(kongyaml.Loader, "config.yaml", "~/.feed-weave/config.yaml"),
	)

	if CLI.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	} else {
		slog.SetLogLoggerLevel(slog.LevelInfo)
	}

	cfg, err := config.LoadConfig(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	sourcesPath := cfg.Sources
	if CLI.Sources != "" {
		sourcesPath = CLI.Sources
	}
	sources, err := config.LoadSources(sourcesPath)
	if err != nil {
		slog.Error("Failed to load sources", "path", sourcesPath, "error", err)
		os.Exit(1)
	}

	switch ctx.Command() {
	case "generate":
		sources = selectSources(sources, CLI.Generate.SourceID)
		os.Exit(runGenerate(cfg, sources))

	case "watch":
		schedule := cfg.Watch.Schedule
		if CLI.Watch.Schedule != "" {
			schedule = CLI.Watch.Schedule
		}
		err := scheduler.Run(schedule, func() {
			runGenerate(cfg, sources)
		})
		if err != nil {
			slog.Error("Watch mode failed", "error", err)
			os.Exit(1)
		}

	case "preview <source-id>":
		sources = selectSources(sources, CLI.Preview.SourceID)
		if err := runPreview(cfg, sources[0]); err != nil {
			slog.Error("Preview failed", "error", err)
			os.Exit(1)
		}

	case "list-sources":
		for _, source := range sources {
			fmt.Printf("%-20s %s\n", source.ID, source.URL)
		}

	default:
		panic(ctx.Command())
	}
}

// selectSources narrows the source list to a single id when requested
func selectSources(sources []*config.Source, sourceID string) []*config.Source {
	if sourceID == "" {
		return sources
	}
	for _, source := range sources {
		if source.ID == sourceID {
			return []*config.Source{source}
		}
	}
	slog.Error("Source id not found", "source", sourceID)
	os.Exit(1)
	return nil
}

// runGenerate processes the sources once and returns the exit code
func runGenerate(cfg *config.Config, sources []*config.Source) int {
	p, cleanup, err := buildPipeline(cfg, sources, CLI.Generate.DryRun)
	if err != nil {
		slog.Error("Failed to set up pipeline", "error", err)
		return 1
	}
	defer cleanup()

	ctx := context.Background()

	if CLI.Generate.HTMLFile != "" {
		if len(sources) != 1 {
			slog.Error("--html-file can only be used when processing one source")
			return 1
		}
		html, err := os.ReadFile(CLI.Generate.HTMLFile)
		if err != nil {
			slog.Error("Failed to read HTML file", "path", CLI.Generate.HTMLFile, "error", err)
			return 1
		}
		status := p.ProcessHTML(ctx, sources[0], string(html))
		if pipeline.Summarize([]pipeline.Status{status}) > 0 {
			return 1
		}
		return 0
	}

	statuses := p.Run(ctx, sources)
	if pipeline.Summarize(statuses) > 0 {
		return 1
	}
	return 0
}

// runPreview extracts one source's records and opens the TUI
func runPreview(cfg *config.Config, source *config.Source) error {
	p, cleanup, err := buildPipeline(cfg, []*config.Source{source}, true)
	if err != nil {
		return err
	}
	defer cleanup()

	client := newFetchClient(cfg)
	html, err := client.FetchPage(context.Background(), source.URL)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	items, mode, err := p.ExtractRecords(source, html)
	if err != nil {
		return err
	}
	slog.Info("Extraction done", "source", source.ID, "records", len(items), "mode", string(mode))

	feedConfig := feed.Config{
		Title:       source.FeedTitle,
		Link:        source.SiteURL,
		Description: source.FeedDescription,
	}
	return preview.Run(items, source.ID, feedConfig, time.Now())
}

// buildPipeline wires the fetcher, optional enricher and pipeline
func buildPipeline(cfg *config.Config, sources []*config.Source, dryRun bool) (*pipeline.Pipeline, func(), error) {
	client := newFetchClient(cfg)
	cleanup := func() {}

	opts := []pipeline.Option{pipeline.WithDryRun(dryRun)}

	if anyEnrichment(sources) {
		db, err := opengraph.NewDatabase(cfg.Enrich.CachePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open enrichment cache: %w", err)
		}
		cleanup = func() {
			if err := db.Close(); err != nil {
				slog.Warn("Error closing enrichment cache", "error", err)
			}
		}
		opts = append(opts, pipeline.WithEnricher(opengraph.NewEnricher(client, db)))
	}

	return pipeline.New(client, time.Now(), opts...), cleanup, nil
}

// anyEnrichment reports whether any source wants per-article enrichment
func anyEnrichment(sources []*config.Source) bool {
	for _, source := range sources {
		if source.Enrich {
			return true
		}
	}
	return false
}

// newFetchClient builds the page fetcher from app configuration
func newFetchClient(cfg *config.Config) *fetch.Client {
	clientConfig := fetch.DefaultConfig()
	if cfg.Fetch.UserAgent != "" {
		clientConfig.UserAgent = cfg.Fetch.UserAgent
	}
	if cfg.Fetch.TimeoutSeconds > 0 {
		clientConfig.Timeout = time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second
	}
	if cfg.Fetch.MaxRetries >= 0 {
		clientConfig.MaxRetries = cfg.Fetch.MaxRetries
	}
	return fetch.NewClient(clientConfig)
}
