// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/poiesic/qaembed/ai"
	"github.com/poiesic/qaembed/ai/ollama"
	"github.com/poiesic/qaembed/ai/openai"
	"github.com/poiesic/qaembed/config"
	"github.com/poiesic/qaembed/embed"
	"github.com/poiesic/qaembed/metrics"
	"github.com/poiesic/qaembed/pipeline"
	"github.com/poiesic/qaembed/source"
	"github.com/poiesic/qaembed/storage"
	"github.com/poiesic/qaembed/storage/badger"
	"github.com/poiesic/qaembed/storage/qdrant"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "qaembed",
		Usage: "Embed Q&A records, negotiating input length with the embedding endpoint",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Settings file (yaml, toml or json)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Embed every record of a CSV export and write the results",
				Action: runCommand,
				Flags:  runFlags(),
			},
			{
				Name:   "show",
				Usage:  "List results stored in a BadgerDB directory",
				Action: showCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "badger-dir",
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
				},
			},
		},
	}
}

// runFlags mirror the settings file. A flag overrides the file only when it
// is given explicitly.
func runFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "input",
			Aliases: []string{"i"},
			Usage:   "CSV file with one Q&A record per row",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "JSON file the embedded records are written to",
		},
		&cli.StringFlag{
			Name:  "backend",
			Usage: "Embedding backend (ollama, openai)",
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
		},
		&cli.IntFlag{
			Name:  "num-ctx",
			Usage: "Context size requested with every call (ollama only)",
		},
		&cli.IntFlag{
			Name:  "expected-dim",
			Usage: "Expected embedding dimension",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Timeout of a single embedding request",
		},
		&cli.IntFlag{
			Name:  "min-chars",
			Usage: "Shortest prefix the search may truncate to",
		},
		&cli.IntFlag{
			Name:  "max-tries",
			Usage: "Maximum attempts while shrinking",
		},
		&cli.IntFlag{
			Name:  "max-chars",
			Usage: "Cap on the first attempt",
		},
		&cli.StringFlag{
			Name:  "badger-dir",
			Usage: "Also store results in this BadgerDB directory",
		},
		&cli.StringFlag{
			Name:  "qdrant-host",
			Usage: "Also upsert results to this Qdrant host",
		},
		&cli.IntFlag{
			Name:  "qdrant-port",
			Usage: "Qdrant gRPC port",
		},
		&cli.StringFlag{
			Name:  "qdrant-collection",
			Usage: "Qdrant collection name",
		},
		&cli.StringFlag{
			Name:  "metrics-file",
			Usage: "Write Prometheus metrics to this file when the run ends",
		},
		&cli.IntFlag{
			Name:  "report-interval",
			Usage: "Report progress every N records",
		},
		&cli.BoolFlag{
			Name:  "progress",
			Usage: "Print a progress line to stderr",
		},
	}
}

// applyFlags copies explicitly set flags onto s.
func applyFlags(c *cli.Context, s *config.Settings) {
	setString := func(name string, dst *string) {
		if c.IsSet(name) {
			*dst = c.String(name)
		}
	}
	setInt := func(name string, dst *int) {
		if c.IsSet(name) {
			*dst = c.Int(name)
		}
	}

	setString("input", &s.Input)
	setString("output", &s.Output.Path)
	setString("backend", &s.Embedding.Backend)
	setString("embedding-host", &s.Embedding.Host)
	setString("embedding-model", &s.Embedding.Model)
	setInt("num-ctx", &s.Embedding.NumCtx)
	setInt("expected-dim", &s.Embedding.ExpectedDim)
	if c.IsSet("timeout") {
		s.Embedding.Timeout = c.Duration("timeout")
	}
	setInt("min-chars", &s.Search.MinChars)
	setInt("max-tries", &s.Search.MaxTries)
	setInt("max-chars", &s.Search.MaxChars)
	setString("badger-dir", &s.Output.BadgerDir)
	setString("qdrant-host", &s.Qdrant.Host)
	setInt("qdrant-port", &s.Qdrant.Port)
	setString("qdrant-collection", &s.Qdrant.Collection)
	setString("metrics-file", &s.MetricsFile)
	setInt("report-interval", &s.ReportInterval)
	setString("log-level", &s.LogLevel)
}

func runCommand(c *cli.Context) error {
	ctx := c.Context

	settings, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	applyFlags(c, settings)

	if !c.IsSet("log-level") && settings.LogLevel != "" {
		if err := installLogger(settings.LogLevel); err != nil {
			return err
		}
	}
	logger := slog.Default().With("run_id", uuid.NewString())

	if settings.Input == "" {
		return fmt.Errorf("input file is required")
	}
	if settings.Output.Path == "" {
		return fmt.Errorf("output path is required")
	}

	aiConfig := settings.AIConfig()
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}
	embedder, err := newEmbedder(aiConfig, logger)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	m := metrics.New()
	shot, err := embed.NewShot(embedder, settings.EmbedConfig(), embed.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("invalid search configuration: %w", err)
	}
	searcher, err := embed.NewSearcher(shot, embed.WithLogger(logger), embed.WithRecorder(m))
	if err != nil {
		return err
	}

	writer, err := openWriters(settings, logger)
	if err != nil {
		return err
	}
	defer writer.Close()

	records, err := source.LoadFile(settings.Input)
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}

	opts := []pipeline.Option{pipeline.WithLogger(logger), pipeline.WithRecorder(m)}
	if c.Bool("progress") {
		opts = append(opts, pipeline.WithProgress(c.App.ErrWriter))
	}
	p, err := pipeline.New(searcher, writer, &pipeline.Config{ReportInterval: settings.ReportInterval}, opts...)
	if err != nil {
		return err
	}

	out := c.App.ErrWriter
	printBanner(out, settings, len(records))

	summary, err := p.Run(ctx, records)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	fmt.Fprintf(out, "\nSaved %d of %d embedded examples to %s (%d truncated, %d failed, %d requests)\n",
		summary.Embedded, summary.Total, settings.Output.Path, summary.Truncated, summary.Failed, summary.Requests)

	if settings.MetricsFile != "" {
		if err := m.WriteFile(settings.MetricsFile); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}

func printBanner(w io.Writer, s *config.Settings, rows int) {
	fmt.Fprintf(w, "Loaded %d rows from %s\n", rows, s.Input)
	fmt.Fprintf(w, "Embedding model: %s (%s)\n", s.Embedding.Model, s.Embedding.Backend)
	fmt.Fprintf(w, "Initial cap (max chars): %d\n", s.Search.MaxChars)
	fmt.Fprintf(w, "Per-request num_ctx: %d\n\n", s.Embedding.NumCtx)
}

func newEmbedder(cfg *ai.Config, logger *slog.Logger) (ai.Embedder, error) {
	logger.Debug("creating embedder", "backend", cfg.Backend, "endpoint", cfg.Endpoint(), "model", cfg.EmbeddingModel)
	switch cfg.Backend {
	case ai.BackendOpenAI:
		return openai.NewEmbedder(cfg, openai.WithLogger(logger))
	default:
		return ollama.NewEmbedder(cfg, ollama.WithLogger(logger))
	}
}

func openWriters(s *config.Settings, logger *slog.Logger) (storage.ResultWriter, error) {
	writers := []storage.ResultWriter{storage.NewJSONFileWriter(s.Output.Path)}

	if s.Output.BadgerDir != "" {
		store, err := badger.OpenResultStore(s.Output.BadgerDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		writers = append(writers, store)
	}

	if qc, ok := s.QdrantConfig(); ok {
		w, err := qdrant.NewWriter(qc, logger)
		if err != nil {
			for _, w := range writers {
				w.Close()
			}
			return nil, err
		}
		writers = append(writers, w)
	}

	return storage.NewMultiWriter(writers...)
}

func showCommand(c *cli.Context) error {
	store, err := badger.OpenResultStore(c.String("badger-dir"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	records, err := store.All(c.Context)
	if err != nil {
		return err
	}

	out := c.App.Writer
	for _, r := range records {
		fmt.Fprintf(out, "%d\t%d\t%d\t%s\n", r.Id, r.UsedLength, len(r.Embedding), r.PostURL)
	}
	fmt.Fprintf(out, "%d records\n", len(records))
	return nil
}

func setupLogger(c *cli.Context) error {
	return installLogger(c.String("log-level"))
}

func installLogger(levelStr string) error {
	level, err := parseLevel(levelStr)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", strings.ToLower(s))
	}
}
