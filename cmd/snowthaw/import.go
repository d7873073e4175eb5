package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"snowthaw/internal/eventbus"
	"snowthaw/internal/ingest"
	"snowthaw/internal/store"
)

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Load text, markdown and html files into the cards database",
		ArgsUsage: "PATH...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "type",
				Usage: "Category given to the imported cards",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Keep running and re-import files as they change",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Files read in parallel (0 = one per CPU)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runImport(ctx, c)
		},
	}
}

func runImport(ctx context.Context, c *cli.Command) error {
	paths := c.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("at least one PATH is required")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	loader, err := ingest.NewLoader(c.String("type"), c.Int("workers"))
	if err != nil {
		return err
	}
	defer loader.Release()

	st, err := store.Open(cfg.Server.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	bus := eventbus.New()
	defer bus.Close()
	defer logEvents(bus, eventbus.EventCardsImported)()

	importer := ingest.NewImporter(st, loader, bus)
	names, err := importer.Import(ctx, paths)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d cards into %s\n", len(names), cfg.Server.DBPath)

	if !c.Bool("watch") {
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	fmt.Println("Watching for changes, press Ctrl+C to stop")
	return importer.Watch(ctx, paths, cfg.Client.Debounce.Duration)
}
