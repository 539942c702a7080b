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
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/quickdex"
	"github.com/poiesic/quickdex/config"
	"github.com/poiesic/quickdex/core"
)

func main() {
	app := &cli.App{
		Name:  "quickdex",
		Usage: "Local fuzzy search and incremental indexing for launchable items",
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
				Usage:   "Path to config file",
				Value:   config.DefaultPath(),
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "index",
				Usage:  "Build or refresh the item index",
				Action: indexCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Indexing mode: full, smart or re",
						Value: "smart",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Query the index",
				ArgsUsage: "<query>",
				Action:    searchCommand,
			},
			{
				Name:   "watch",
				Usage:  "Run a smart index, then keep the index fresh from file-system changes",
				Action: watchCommand,
			},
			{
				Name:   "top",
				Usage:  "Show the most-used items",
				Action: topCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Number of items to show",
						Value: 10,
					},
				},
			},
			{
				Name:   "ls",
				Usage:  "List indexed items",
				Action: listCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "kind",
						Usage: "Filter by kind (application, file, folder, script, command, ...)",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openEngine(c *cli.Context) (*quickdex.Engine, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	engine, err := quickdex.NewEngine(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open engine: %w", err)
	}
	return engine, nil
}

func indexCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx := c.Context
	pipeline := engine.Pipeline()
	if err := pipeline.Load(ctx); err != nil {
		return err
	}

	switch c.String("mode") {
	case "full":
		err = pipeline.StartIndexing(ctx)
	case "smart":
		err = pipeline.SmartStartIndexing(ctx)
	case "re":
		err = pipeline.Reindex(ctx)
	default:
		return fmt.Errorf("unknown mode %q: must be full, smart or re", c.String("mode"))
	}
	if err != nil {
		return err
	}

	fmt.Printf("indexed %d items\n", pipeline.ItemCount())
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx := c.Context
	pipeline := engine.Pipeline()
	if err := pipeline.Load(ctx); err != nil {
		return err
	}

	results, err := pipeline.Search(ctx, query)
	if err != nil {
		return err
	}
	for _, r := range results {
		fmt.Printf("%6d  %-12s %-40s %s\n", r.Score, r.Kind, r.Name, r.Path)
	}
	return nil
}

func watchCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline := engine.Pipeline()
	if err := pipeline.Load(ctx); err != nil {
		return err
	}
	if err := pipeline.SmartStartIndexing(ctx); err != nil {
		return err
	}
	fmt.Printf("indexed %d items, watching for changes\n", pipeline.ItemCount())

	watcher, err := engine.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Start(); err != nil {
		watcher.Close()
		return err
	}
	defer watcher.Close()

	pipeline.Consume(ctx, watcher.Batches())
	return nil
}

func topCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	items, err := engine.ItemRepository().TopUsed(c.Context, c.Int("limit"))
	if err != nil {
		return err
	}
	for _, item := range items {
		fmt.Printf("%6d  %-40s %s\n", item.UseCount, item.Name, item.Path)
	}
	return nil
}

func listCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx := c.Context
	repo := engine.ItemRepository()

	var items []core.Item
	if kindName := c.String("kind"); kindName != "" {
		kind, err := kindFromName(kindName)
		if err != nil {
			return err
		}
		items, err = repo.ListByKind(ctx, kind)
		if err != nil {
			return err
		}
	} else {
		var err error
		items, err = repo.ListItems(ctx)
		if err != nil {
			return err
		}
	}

	for _, item := range items {
		fmt.Printf("%-12s %-40s %s\n", item.Kind, item.Name, item.Path)
	}
	return nil
}

func kindFromName(name string) (core.ItemKind, error) {
	for kind := core.KindApplication; kind <= core.KindStoreApp; kind++ {
		if strings.EqualFold(kind.String(), name) {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown kind %q", name)
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
