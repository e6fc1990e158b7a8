// Copyright 2025 The Jiggasa Authors
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
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/banglabot/jiggasa"
	"github.com/banglabot/jiggasa/ai"
	"github.com/banglabot/jiggasa/ai/openai"
	"github.com/banglabot/jiggasa/reembed"
	"github.com/banglabot/jiggasa/storage/badger"
	"github.com/banglabot/jiggasa/websearch"
	"github.com/urfave/cli/v2"
)

func main() {
	dbFlag := &cli.StringFlag{
		Name:     "db",
		Aliases:  []string{"d"},
		Usage:    "Path to BadgerDB database directory",
		Required: true,
	}
	embeddingHostFlag := &cli.StringFlag{
		Name:  "embedding-host",
		Usage: "Embedding service host URL",
		Value: "http://localhost:11434/v1",
	}
	embeddingModelFlag := &cli.StringFlag{
		Name:  "embedding-model",
		Usage: "Embedding model name",
		Value: "embeddinggemma",
	}
	searxFlag := &cli.StringFlag{
		Name:  "searx-url",
		Usage: "SearXNG instance base URL (empty disables web search)",
	}
	userFlag := &cli.StringFlag{
		Name:    "user",
		Aliases: []string{"u"},
		Usage:   "User identifier for trust accounting",
		Value:   "cli",
	}

	app := &cli.App{
		Name:  "jiggasa",
		Usage: "Self-learning Bengali question answering engine",
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
				Name:      "ask",
				Usage:     "Ask a single question",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: []cli.Flag{
					dbFlag, embeddingHostFlag, embeddingModelFlag, searxFlag, userFlag,
					&cli.BoolFlag{
						Name:  "no-search",
						Usage: "Disable the web search tier for this question",
					},
				},
			},
			{
				Name:   "chat",
				Usage:  "Interactive question/answer session",
				Action: chatCommand,
				Flags: []cli.Flag{
					dbFlag, embeddingHostFlag, embeddingModelFlag, searxFlag, userFlag,
					&cli.BoolFlag{
						Name:  "no-search",
						Usage: "Disable the web search tier",
					},
				},
			},
			{
				Name:      "teach",
				Usage:     "Teach the engine a question/answer pair",
				ArgsUsage: "<question> <answer>",
				Action:    teachCommand,
				Flags:     []cli.Flag{dbFlag, embeddingHostFlag, embeddingModelFlag, userFlag},
			},
			{
				Name:   "undo",
				Usage:  "Roll back the most recent learned answer",
				Action: undoCommand,
				Flags:  []cli.Flag{dbFlag, userFlag},
			},
			{
				Name:   "trust",
				Usage:  "Show a user's trust score",
				Action: trustCommand,
				Flags:  []cli.Flag{dbFlag, userFlag},
			},
			{
				Name:   "stats",
				Usage:  "Show engine statistics",
				Action: statsCommand,
				Flags:  []cli.Flag{dbFlag, embeddingHostFlag, embeddingModelFlag},
			},
			{
				Name:   "reembed",
				Usage:  "Reembed all similarity records with new embeddings",
				Action: reembedCommand,
				Flags: []cli.Flag{
					dbFlag,
					embeddingHostFlag,
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N records",
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
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// openEngine assembles an Engine from the shared command flags.
func openEngine(c *cli.Context) (*jiggasa.Engine, error) {
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	opts := []jiggasa.Option{jiggasa.WithAIConfig(aiConfig)}
	if searxURL := c.String("searx-url"); searxURL != "" {
		opts = append(opts, jiggasa.WithSearchProvider(websearch.NewSearXNG(searxURL)))
	}

	return jiggasa.Open(c.String("db"), opts...)
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("question is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	allowSearch := !c.Bool("no-search") && c.String("searx-url") != ""
	resp := engine.Resolve(context.Background(), question, c.String("user"), allowSearch)

	fmt.Println(resp.Response)
	fmt.Fprintf(os.Stderr, "[%s]\n", resp.Type)
	for _, src := range resp.Sources {
		fmt.Fprintf(os.Stderr, "source: %s\n", src)
	}
	return nil
}

func chatCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	ctx := context.Background()
	userID := c.String("user")
	allowSearch := !c.Bool("no-search") && c.String("searx-url") != ""

	fmt.Println("জিজ্ঞাসা চ্যাট। প্রশ্ন লিখুন (বের হতে /quit):")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			break
		}
		if line == "/undo" {
			outcome, err := engine.Undo(ctx, userID)
			if err != nil {
				fmt.Fprintf(os.Stderr, "undo failed: %v\n", err)
				continue
			}
			fmt.Println(outcome.Message)
			continue
		}

		resp := engine.Resolve(ctx, line, userID, allowSearch)
		fmt.Printf("%s  [%s]\n", resp.Response, resp.Type)
	}
	return scanner.Err()
}

func teachCommand(c *cli.Context) error {
	if c.Args().Len() < 2 {
		return fmt.Errorf("usage: teach <question> <answer>")
	}
	question := c.Args().Get(0)
	answer := strings.Join(c.Args().Slice()[1:], " ")

	engine, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	result, err := engine.Teach(context.Background(), question, answer, c.String("user"))
	if err != nil {
		return fmt.Errorf("teach failed: %w", err)
	}

	fmt.Println(result.Message)
	if result.ExistingAnswer != "" {
		fmt.Printf("বর্তমান উত্তর: %s\n", result.ExistingAnswer)
	}
	return nil
}

func undoCommand(c *cli.Context) error {
	engine, err := jiggasa.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	outcome, err := engine.Undo(context.Background(), c.String("user"))
	if err != nil {
		return fmt.Errorf("undo failed: %w", err)
	}

	fmt.Println(outcome.Message)
	if outcome.Question != "" {
		fmt.Printf("প্রশ্ন: %s\n", outcome.Question)
	}
	return nil
}

func trustCommand(c *cli.Context) error {
	engine, err := jiggasa.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	score, err := engine.Trust(context.Background(), c.String("user"))
	if err != nil {
		return fmt.Errorf("failed to read trust score: %w", err)
	}

	fmt.Printf("%s: %d\n", c.String("user"), score)
	return nil
}

func statsCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	stats, err := engine.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read stats: %w", err)
	}

	fmt.Printf("total_learned:    %d\n", stats.TotalLearned)
	fmt.Printf("today_learned:    %d\n", stats.TodayLearned)
	fmt.Printf("total_logs:       %d\n", stats.TotalLogs)
	fmt.Printf("total_users:      %d\n", stats.TotalUsers)
	fmt.Printf("undo_available:   %d\n", stats.UndoAvailable)
	fmt.Printf("smart_knowledge:  %d\n", stats.SmartKnowledge)
	fmt.Printf("smart_uses:       %d\n", stats.SmartUses)
	fmt.Printf("unique_sources:   %d\n", stats.UniqueSources)
	fmt.Printf("cache_size:       %d\n", stats.CacheSize)
	fmt.Printf("search_count:     %d\n", stats.SearchUsed)
	fmt.Printf("search_remaining: %d\n", stats.SearchLeft)
	return nil
}

func reembedCommand(c *cli.Context) error {
	ctx := context.Background()

	dbPath := c.String("db")
	if dbPath == "" {
		return fmt.Errorf("database path is required")
	}

	backend, err := badger.OpenBackend(dbPath, false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo := badger.NewSimilarityRepository(backend)
	defer repo.Close()

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reembedder, err := reembed.NewReembedder(repo, embedder, reembedConfig, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to create reembedder: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", dbPath)
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := reembedder.Run(ctx); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
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
