// Copyright 2026 Baibhav Bista
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
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	workcycles "github.com/baibhavbista/gai-workcycles"
	"github.com/baibhavbista/gai-workcycles/ai"
	"github.com/baibhavbista/gai-workcycles/scheduler"
)

func main() {
	app := &cli.App{
		Name:  "gaiwc",
		Usage: "Embedding pipeline and semantic search for work session records",
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
				Name:   "serve",
				Usage:  "Run the background scheduler until interrupted",
				Action: serveCommand,
				Flags: append(engineFlags(),
					&cli.DurationFlag{
						Name:  "poll-interval",
						Usage: "How often the job queue is polled",
						Value: 30 * time.Second,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Maximum jobs pulled per processing cycle",
						Value: 50,
					},
				),
			},
			{
				Name:   "process",
				Usage:  "Run a single processing pass over pending jobs",
				Action: processCommand,
				Flags:  engineFlags(),
			},
			{
				Name:      "search",
				Usage:     "Search embedded work records",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: append(engineFlags(),
					&cli.IntFlag{
						Name:    "max-hits",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   10,
					},
				),
			},
			{
				Name:   "status",
				Usage:  "Show queue counts",
				Action: statusCommand,
				Flags:  engineFlags(),
			},
			{
				Name:   "backfill",
				Usage:  "Create jobs for recent sessions and cycles that were never embedded",
				Action: backfillCommand,
				Flags: append(engineFlags(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum sessions and cycles to scan",
						Value: 100,
					},
				),
			},
			{
				Name:   "cleanup",
				Usage:  "Sweep old terminal jobs from the queue",
				Action: cleanupCommand,
				Flags: append(engineFlags(),
					&cli.DurationFlag{
						Name:  "done-ttl",
						Usage: "Age after which done jobs are removed",
						Value: 7 * 24 * time.Hour,
					},
					&cli.DurationFlag{
						Name:  "error-ttl",
						Usage: "Age after which error jobs are removed",
						Value: 30 * 24 * time.Hour,
					},
				),
			},
			{
				Name:   "retry",
				Usage:  "Requeue failed jobs",
				Action: retryCommand,
				Flags: append(engineFlags(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum jobs to requeue",
						Value: 100,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func engineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "ai-host",
			Usage: "OpenAI-compatible service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
		&cli.StringFlag{
			Name:  "summarizer-model",
			Usage: "Summarizer model name",
			Value: "qwen2.5:3b",
		},
	}
}

func openEngine(c *cli.Context) (*workcycles.Engine, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("ai-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithSummarizerModel(c.String("summarizer-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	engine, err := workcycles.NewEngine(c.String("db"), workcycles.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return engine, nil
}

func serveCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	config := scheduler.DefaultConfig()
	config.PollInterval = c.Duration("poll-interval")
	config.BatchSize = c.Int("batch-size")

	sched := engine.NewScheduler(config)
	sched.Start()
	defer sched.Stop()

	fmt.Fprintf(os.Stderr, "scheduler running, poll interval %s\n", config.PollInterval)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	fmt.Fprintln(os.Stderr, "shutting down")
	return nil
}

func processCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	result, err := engine.NewScheduler(nil).ProcessOnce(context.Background())
	if err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}

	fmt.Printf("succeeded: %d, failed: %d\n", result.Succeeded, result.Failed)
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("a search query is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	searcher, err := engine.NewSearcher()
	if err != nil {
		return err
	}

	results, err := searcher.Search(context.Background(), query, c.Int("max-hits"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(results) == 0 {
		fmt.Println("no results")
		return nil
	}

	for _, r := range results {
		fmt.Printf("%2d. [%s] score=%.3f %s\n", r.Rank, r.Record.Level, r.CompositeScore, r.Record.Id)
		if r.Snippet != "" {
			fmt.Printf("    %s\n", r.Snippet)
		}
		if r.Context != nil && r.Context.SessionObjective != "" {
			fmt.Printf("    session: %s\n", r.Context.SessionObjective)
		}
	}
	return nil
}

func statusCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	counts, err := engine.JobStore().Counts(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read queue counts: %w", err)
	}

	fmt.Printf("pending:    %d\n", counts.Pending)
	fmt.Printf("processing: %d\n", counts.Processing)
	fmt.Printf("done:       %d\n", counts.Done)
	fmt.Printf("error:      %d\n", counts.Error)
	fmt.Printf("total:      %d\n", counts.Total)
	return nil
}

func backfillCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	result, err := engine.NewScheduler(nil).Backfill(context.Background(), c.Int("limit"))
	if err != nil {
		return fmt.Errorf("backfill failed: %w", err)
	}

	fmt.Printf("sessions: %d, cycles: %d, jobs created: %d\n",
		result.SessionsProcessed, result.CyclesProcessed, result.JobsCreated)
	return nil
}

func cleanupCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	config := scheduler.DefaultConfig()
	config.DoneTTL = c.Duration("done-ttl")
	config.ErrorTTL = c.Duration("error-ttl")

	removed, err := engine.NewScheduler(config).Cleanup(context.Background())
	if err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}

	fmt.Printf("removed %d jobs\n", removed)
	return nil
}

func retryCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	requeued, err := engine.NewScheduler(nil).RetryErrors(context.Background(), c.Int("limit"))
	if err != nil {
		return fmt.Errorf("retry failed: %w", err)
	}

	fmt.Printf("requeued %d jobs\n", requeued)
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
