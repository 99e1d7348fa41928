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
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/flowdex"
	"github.com/poiesic/flowdex/ai"
	"github.com/poiesic/flowdex/chunk"
	"github.com/poiesic/flowdex/core"
	"github.com/poiesic/flowdex/ingestion"
	"github.com/poiesic/flowdex/reindex"
	"github.com/poiesic/flowdex/tracker"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "flowdex",
		Usage: "Document indexing pipeline for vector search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "qdrant-url",
				Usage: "Qdrant server URL",
				Value: "http://localhost:6333",
			},
			&cli.StringFlag{
				Name:  "qdrant-api-key",
				Usage: "Qdrant API key (optional)",
			},
			&cli.StringFlag{
				Name:  "ollama-host",
				Usage: "Ollama server URL",
				Value: "http://localhost:11434",
			},
			&cli.StringFlag{
				Name:  "embedding-model",
				Usage: "Embedding model name",
				Value: "nomic-embed-text",
			},
			&cli.StringFlag{
				Name:  "vision-model",
				Usage: "Vision model name for image descriptions",
				Value: "llava:7b",
			},
			&cli.StringFlag{
				Name:    "user-id",
				Aliases: []string{"u"},
				Usage:   "User ID prefixed to collection names (optional)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Index a document and wait for completion",
				ArgsUsage: "FILE",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "flow-id",
						Aliases:  []string{"f"},
						Usage:    "Flow the document belongs to",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "file-name",
						Usage: "Display name stored with each chunk (defaults to the file's base name)",
					},
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Chunk size in bytes",
						Value: chunk.DefaultSize,
					},
					&cli.IntFlag{
						Name:  "chunk-overlap",
						Usage: "Overlap between consecutive chunks in bytes",
						Value: chunk.DefaultOverlap,
					},
					&cli.BoolFlag{
						Name:  "with-images",
						Usage: "Describe embedded images with the vision model",
					},
					&cli.DurationFlag{
						Name:  "poll-interval",
						Usage: "How often to poll for job progress",
						Value: 500 * time.Millisecond,
					},
				},
			},
			{
				Name:      "delete",
				Usage:     "Remove an indexed document's chunks from a flow",
				ArgsUsage: "FILE_PATH",
				Action:    deleteCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "flow-id",
						Aliases:  []string{"f"},
						Usage:    "Flow the document belongs to",
						Required: true,
					},
				},
			},
			{
				Name:   "files",
				Usage:  "List indexed documents in a flow",
				Action: filesCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "flow-id",
						Aliases:  []string{"f"},
						Usage:    "Flow to list",
						Required: true,
					},
				},
			},
			{
				Name:   "create-collection",
				Usage:  "Create the vector collection for a flow",
				Action: createCollectionCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "flow-id",
						Aliases:  []string{"f"},
						Usage:    "Flow to create a collection for",
						Required: true,
					},
				},
			},
			{
				Name:   "delete-collection",
				Usage:  "Delete the vector collection for a flow",
				Action: deleteCollectionCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "flow-id",
						Aliases:  []string{"f"},
						Usage:    "Flow to delete the collection of",
						Required: true,
					},
				},
			},
			{
				Name:   "reindex",
				Usage:  "Regenerate embeddings for every chunk in a flow",
				Action: reindexCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "flow-id",
						Aliases:  []string{"f"},
						Usage:    "Flow to reindex",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N chunks",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
			{
				Name:   "models",
				Usage:  "List models available on the Ollama server",
				Action: modelsCommand,
			},
			{
				Name:   "check",
				Usage:  "Verify connectivity to Ollama and Qdrant",
				Action: checkCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// newService builds a Service from the global flags.
func newService(c *cli.Context) (*flowdex.Service, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("ollama-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithVisionModel(c.String("vision-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model configuration: %w", err)
	}

	opts := []flowdex.ServiceOption{flowdex.WithAIConfig(aiConfig)}
	if key := c.String("qdrant-api-key"); key != "" {
		opts = append(opts, flowdex.WithQdrantAPIKey(key))
	}

	svc, err := flowdex.NewService(c.String("qdrant-url"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	return svc, nil
}

func scopeFromFlags(c *cli.Context) core.Scope {
	return core.Scope{
		UserID: c.String("user-id"),
		FlowID: c.String("flow-id"),
	}
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one FILE argument")
	}
	filePath := c.Args().First()

	svc, err := newService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	pipeline, err := svc.NewIngestionPipeline()
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	fileID, err := pipeline.Ingest(ctx, ingestion.Request{
		FilePath:      filePath,
		FileName:      c.String("file-name"),
		Scope:         scopeFromFlags(c),
		ChunkSize:     c.Int("chunk-size"),
		ChunkOverlap:  c.Int("chunk-overlap"),
		IncludeImages: c.Bool("with-images"),
	})
	if err != nil {
		return fmt.Errorf("ingestion rejected: %w", err)
	}

	fmt.Fprintf(os.Stderr, "File ID: %s\n", fileID)
	return waitForJob(pipeline, fileID, c.Duration("poll-interval"))
}

// waitForJob polls the tracker until the job either completes or fails,
// printing progress transitions along the way.
func waitForJob(pipeline *ingestion.Pipeline, fileID string, interval time.Duration) error {
	var lastStatus tracker.Status
	var lastChunk int
	for {
		entry, ok := pipeline.Status(fileID)
		if !ok {
			fmt.Fprintln(os.Stderr, "Done.")
			return nil
		}
		if entry.Status == tracker.StatusFailed {
			return fmt.Errorf("ingestion failed: %s", entry.Error)
		}
		if entry.Status != lastStatus || entry.CurrentChunk != lastChunk {
			lastStatus = entry.Status
			lastChunk = entry.CurrentChunk
			if entry.TotalChunks > 0 {
				fmt.Fprintf(os.Stderr, "%s (%d/%d chunks)\n", entry.Status, entry.CurrentChunk, entry.TotalChunks)
			} else {
				fmt.Fprintf(os.Stderr, "%s\n", entry.Status)
			}
		}
		time.Sleep(interval)
	}
}

func deleteCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one FILE_PATH argument")
	}
	filePath := c.Args().First()

	svc, err := newService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	pipeline, err := svc.NewIngestionPipeline()
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	res, err := pipeline.DeleteFile(ctx, scopeFromFlags(c), filePath)
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Deleted %d points\n", res.PointsDeleted)
	if res.FileDeleted {
		fmt.Fprintln(os.Stderr, "Removed source file")
	}
	return nil
}

func filesCommand(c *cli.Context) error {
	ctx := context.Background()

	svc, err := newService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	files, err := svc.Store().ListFiles(ctx, scopeFromFlags(c))
	if err != nil {
		return fmt.Errorf("failed to list files: %w", err)
	}

	if len(files) == 0 {
		fmt.Println("No files indexed.")
		return nil
	}
	for _, f := range files {
		images := ""
		if f.IncludesImages {
			images = " [images]"
		}
		fmt.Printf("%s  %s  %s (%d bytes)%s\n", f.FileID, f.FileType, f.FileName, f.FileSize, images)
	}
	return nil
}

func createCollectionCommand(c *cli.Context) error {
	ctx := context.Background()

	svc, err := newService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	pipeline, err := svc.NewIngestionPipeline()
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	scope := scopeFromFlags(c)
	created, size, err := pipeline.CreateCollection(ctx, scope)
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	if created {
		fmt.Fprintf(os.Stderr, "Created collection %q (vector size %d)\n", scope.CollectionName(), size)
	} else {
		fmt.Fprintf(os.Stderr, "Collection %q already exists (vector size %d)\n", scope.CollectionName(), size)
	}
	return nil
}

func deleteCollectionCommand(c *cli.Context) error {
	ctx := context.Background()

	svc, err := newService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	scope := scopeFromFlags(c)
	deleted, err := svc.Store().DeleteCollection(ctx, scope)
	if err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	if deleted {
		fmt.Fprintf(os.Stderr, "Deleted collection %q\n", scope.CollectionName())
	} else {
		fmt.Fprintf(os.Stderr, "Collection %q does not exist\n", scope.CollectionName())
	}
	return nil
}

func reindexCommand(c *cli.Context) error {
	ctx := context.Background()

	svc, err := newService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	config := &reindex.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}

	// Validate config
	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	scope := scopeFromFlags(c)
	reindexer := reindex.NewReindexer(svc.Store(), svc.Provider().Embedder(), config, os.Stderr)

	fmt.Fprintf(os.Stderr, "Collection: %s\n", scope.CollectionName())
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := reindexer.Run(ctx, scope); err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}
	return nil
}

func modelsCommand(c *cli.Context) error {
	ctx := context.Background()

	svc, err := newService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	models, err := svc.Provider().Models(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	printCatalog(os.Stdout, ai.Categorize(models))
	return nil
}

// printCatalog renders the categorized model list, omitting empty groups.
func printCatalog(w io.Writer, catalog ai.ModelCatalog) {
	printGroup := func(label string, names []string) {
		if len(names) == 0 {
			return
		}
		fmt.Fprintf(w, "%s:\n", label)
		for _, name := range names {
			fmt.Fprintf(w, "  %s\n", name)
		}
	}
	printGroup("Embedding models", catalog.Embedding)
	printGroup("Vision models", catalog.Vision)
	printGroup("Chat models", catalog.Chat)
}

func checkCommand(c *cli.Context) error {
	ctx := context.Background()

	svc, err := newService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	if !svc.Provider().CheckConnection(ctx) {
		return fmt.Errorf("cannot reach Ollama at %s", c.String("ollama-host"))
	}
	fmt.Fprintln(os.Stderr, "Ollama: ok")

	// Any well-formed response proves Qdrant is reachable
	if _, err := svc.Store().CollectionExists(ctx, core.Scope{FlowID: "healthcheck"}); err != nil {
		return fmt.Errorf("cannot reach Qdrant at %s: %w", c.String("qdrant-url"), err)
	}
	fmt.Fprintln(os.Stderr, "Qdrant: ok")
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
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

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
