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
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/searchlight"
	"github.com/poiesic/searchlight/ai"
	"github.com/poiesic/searchlight/ingestion"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "searchlight",
		Usage: "Hybrid semantic and keyword search over an article corpus",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "seed",
				Usage:  "Ingest a JSON article feed into the archive",
				Action: seedCommand,
				Flags: append(archiveFlags(),
					&cli.StringFlag{
						Name:     "feed",
						Aliases:  []string{"f"},
						Usage:    "Path to the JSON article feed",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of articles to embed in each batch",
						Value: 16,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed embedding calls",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 500 * time.Millisecond,
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Search the stored corpus",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: append(archiveFlags(),
					&cli.IntFlag{
						Name:    "max-hits",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results to print",
						Value:   10,
					},
				),
			},
			{
				Name:   "reembed",
				Usage:  "Recompute every stored article vector",
				Action: reembedCommand,
				Flags: append(archiveFlags(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of articles to embed in each batch",
						Value: 16,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed embedding calls",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 500 * time.Millisecond,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// archiveFlags are shared by every command that opens the archive.
func archiveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "all-minilm",
		},
		&cli.IntFlag{
			Name:  "embedding-dims",
			Usage: "Expected embedding vector length",
			Value: ai.DefaultEmbeddingDims,
		},
	}
}

func openArchive(c *cli.Context) (*searchlight.Archive, error) {
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithEmbeddingDims(c.Int("embedding-dims")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	archive, err := searchlight.NewArchive(c.String("db"), searchlight.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	return archive, nil
}

func newPipeline(c *cli.Context, archive *searchlight.Archive) (*ingestion.Pipeline, error) {
	if c.Int("batch-size") <= 0 {
		return nil, fmt.Errorf("batch-size must be greater than 0")
	}
	if c.Int("max-retries") <= 0 {
		return nil, fmt.Errorf("max-retries must be greater than 0")
	}

	return archive.NewIngestionPipeline(
		ingestion.WithBatchSize(c.Int("batch-size")),
		ingestion.WithRetryPolicy(c.Int("max-retries"), c.Duration("retry-delay")),
	)
}

func seedCommand(c *cli.Context) error {
	ctx := context.Background()

	articles, err := ingestion.LoadFeed(c.String("feed"))
	if err != nil {
		return fmt.Errorf("failed to read feed: %w", err)
	}

	archive, err := openArchive(c)
	if err != nil {
		return err
	}
	defer archive.Close()

	pipeline, err := newPipeline(c, archive)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	stored, err := pipeline.Seed(ctx, articles)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Seeded %d of %d feed articles\n", len(stored), len(articles))
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query argument is required")
	}

	archive, err := openArchive(c)
	if err != nil {
		return err
	}
	defer archive.Close()

	corpus, err := archive.Corpus(ctx)
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}
	if len(corpus) == 0 {
		return fmt.Errorf("archive is empty; run seed first")
	}

	searcher, err := archive.NewSearcher(ctx)
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}
	defer searcher.Release()

	results, err := searcher.Search(ctx, query, corpus)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	maxHits := c.Int("max-hits")
	if maxHits > 0 && len(results) > maxHits {
		results = results[:maxHits]
	}

	if len(results) == 0 {
		fmt.Println("No results.")
		return nil
	}
	for i, result := range results {
		fmt.Printf("%2d. %-50s score=%6.1f", i+1, result.Article.Title, result.Score)
		if result.Similarity > 0 {
			fmt.Printf(" sim=%.2f", result.Similarity)
		}
		fmt.Printf("\n    %s\n", result.Article.URL)
	}
	return nil
}

func reembedCommand(c *cli.Context) error {
	ctx := context.Background()

	archive, err := openArchive(c)
	if err != nil {
		return err
	}
	defer archive.Close()

	pipeline, err := newPipeline(c, archive)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	count, err := pipeline.Reembed(ctx)
	if err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Re-embedded %d articles\n", count)
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
