// Copyright 2026 BharatRAG Authors
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

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/bharatrag/bharatrag"
	"github.com/bharatrag/bharatrag/config"
	"github.com/bharatrag/bharatrag/core"
	"github.com/bharatrag/bharatrag/ingest"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "bharatrag",
		Usage: "Retrieval-augmented document store with citation-backed answers",
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
				Usage:   "Path to YAML config file (defaults to ./bharatrag.yaml, then ~/.config/bharatrag/config.yaml)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:  "collection",
				Usage: "Manage collections",
				Subcommands: []*cli.Command{
					{
						Name:      "create",
						Usage:     "Create a named collection",
						ArgsUsage: "<name>",
						Action:    collectionCreateCommand,
					},
					{
						Name:   "list",
						Usage:  "List all collections",
						Action: collectionListCommand,
					},
				},
			},
			{
				Name:   "ingest",
				Usage:  "Ingest a source into a collection",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "collection",
						Usage:    "Target collection name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "type",
						Usage: "Source type (file, text, url)",
						Value: "file",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Source format (txt, md, pdf, html, ...)",
						Value: "txt",
					},
					&cli.StringFlag{
						Name:  "uri",
						Usage: "File path, URL, or raw text content",
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "Document title",
					},
					&cli.BoolFlag{
						Name:  "async",
						Usage: "Schedule ingestion and print the job immediately; shutdown still waits for it to finish",
					},
				},
			},
			{
				Name:  "jobs",
				Usage: "Inspect ingestion jobs",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List recent ingestion jobs, newest first",
						Action: jobsListCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "collection",
								Usage: "Only list jobs for this collection",
							},
							&cli.IntFlag{
								Name:  "limit",
								Usage: "Maximum number of jobs to show",
								Value: 20,
							},
						},
					},
					{
						Name:      "show",
						Usage:     "Show one ingestion job",
						ArgsUsage: "<job-id>",
						Action:    jobsShowCommand,
					},
				},
			},
			{
				Name:   "docs",
				Usage:  "List a collection's documents",
				Action: docsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "collection",
						Usage:    "Collection name",
						Required: true,
					},
				},
			},
			{
				Name:      "query",
				Usage:     "Retrieve the chunks most similar to a query",
				ArgsUsage: "<query>",
				Action:    queryCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "collection",
						Usage:    "Collection name",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of results (0 uses the configured default)",
					},
				},
			},
			{
				Name:      "answer",
				Usage:     "Compose a citation-backed answer to a question",
				ArgsUsage: "<question>",
				Action:    answerCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "collection",
						Usage:    "Collection name",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of context chunks (0 uses the configured default)",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// openService loads the config and builds the service.
func openService(c *cli.Context) (*bharatrag.Service, error) {
	var cfg *config.AppConfig
	var err error
	if path := c.String("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, _, err = config.LoadDefault()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return bharatrag.NewService(cfg)
}

// resolveCollection maps the --collection flag to a stored collection.
func resolveCollection(ctx context.Context, svc *bharatrag.Service, c *cli.Context) (*core.Collection, error) {
	name := c.String("collection")
	collection, err := svc.Collection(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("collection %q: %w", name, err)
	}
	return collection, nil
}

func collectionCreateCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: collection create <name>")
	}

	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	collection, err := svc.CreateCollection(context.Background(), c.Args().First())
	if err != nil {
		return err
	}
	fmt.Printf("created collection %s (%s)\n", collection.Name, collection.ID)
	return nil
}

func collectionListCommand(c *cli.Context) error {
	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	collections, err := svc.Collections(context.Background())
	if err != nil {
		return err
	}
	for _, collection := range collections {
		fmt.Printf("%s  %s\n", collection.ID, collection.Name)
	}
	return nil
}

func ingestCommand(c *cli.Context) error {
	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := context.Background()
	collection, err := resolveCollection(ctx, svc, c)
	if err != nil {
		return err
	}

	req := ingest.Request{
		CollectionID: collection.ID,
		SourceType:   core.SourceType(c.String("type")),
		Format:       c.String("format"),
		URI:          c.String("uri"),
		Title:        c.String("title"),
	}

	var job *core.IngestionJob
	if c.Bool("async") {
		job, err = svc.IngestAsync(ctx, req)
	} else {
		job, err = svc.Ingest(ctx, req)
	}
	if err != nil {
		return err
	}

	printJob(job)
	return nil
}

func jobsListCommand(c *cli.Context) error {
	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := context.Background()
	collectionID := uuid.Nil
	if c.String("collection") != "" {
		collection, err := resolveCollection(ctx, svc, c)
		if err != nil {
			return err
		}
		collectionID = collection.ID
	}

	jobs, err := svc.Jobs(ctx, collectionID, c.Int("limit"))
	if err != nil {
		return err
	}
	for _, job := range jobs {
		fmt.Printf("%s  %-9s  %s  chunks=%d\n",
			job.ID, job.Status, job.CreatedAt.Format("2006-01-02 15:04:05"), job.Progress.Chunks)
	}
	return nil
}

func jobsShowCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: jobs show <job-id>")
	}
	id, err := uuid.Parse(c.Args().First())
	if err != nil {
		return fmt.Errorf("invalid job ID: %w", err)
	}

	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	job, err := svc.Job(context.Background(), id)
	if err != nil {
		return err
	}
	printJob(job)
	return nil
}

func docsCommand(c *cli.Context) error {
	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := context.Background()
	collection, err := resolveCollection(ctx, svc, c)
	if err != nil {
		return err
	}

	docs, err := svc.Documents(ctx, collection.ID)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		title := doc.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("%s  %-6s  %-6s  %s\n", doc.ID, doc.SourceType, doc.Format, title)
	}
	return nil
}

func queryCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: query --collection <name> <query>")
	}

	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := context.Background()
	collection, err := resolveCollection(ctx, svc, c)
	if err != nil {
		return err
	}

	results, err := svc.Query(ctx, collection.ID, c.Args().First(), c.Int("top-k"))
	if err != nil {
		return err
	}
	for i, r := range results {
		fmt.Printf("%d. score=%.4f doc=%s chunk=%d\n", i+1, r.Score, r.Chunk.DocumentID, r.Chunk.Index)
		fmt.Printf("   %s\n", snippet(r.Chunk.Text, 160))
	}
	return nil
}

func answerCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: answer --collection <name> <question>")
	}

	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := context.Background()
	collection, err := resolveCollection(ctx, svc, c)
	if err != nil {
		return err
	}

	answer, err := svc.Answer(ctx, collection.ID, c.Args().First(), c.Int("top-k"))
	if err != nil {
		return err
	}

	fmt.Println(answer.Text)
	if len(answer.Citations) > 0 {
		fmt.Println("\nSources:")
		for i, citation := range answer.Citations {
			fmt.Printf("  [%d] document=%s chunk=%s index=%d\n",
				i+1, citation.DocumentID, citation.ChunkID, citation.ChunkIndex)
		}
	}
	return nil
}

func printJob(job *core.IngestionJob) {
	fmt.Printf("job:        %s\n", job.ID)
	fmt.Printf("status:     %s\n", job.Status)
	fmt.Printf("stage:      %s\n", job.Progress.Stage)
	fmt.Printf("document:   %s\n", job.DocumentID)
	fmt.Printf("units:      %d total, %d failed\n", job.Progress.UnitsTotal, job.Progress.UnitsFailed)
	fmt.Printf("chunks:     %d\n", job.Progress.Chunks)
	if job.ErrorSummary != "" {
		fmt.Printf("error:      %s\n", job.ErrorSummary)
	}
}

func snippet(text string, max int) string {
	text = strings.ReplaceAll(text, "\n", " ")
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
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
