package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"snowthaw/internal/config"
	"snowthaw/internal/eventbus"
	"snowthaw/internal/log"
)

func main() {
	app := &cli.Command{
		Name:  "snowthaw",
		Usage: "Incremental search over the 雪绒镇 story archive",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Configuration file path",
				Value: config.DefaultPath(),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			tuiCommand(),
			searchCommand(),
			serveCommand(),
			importCommand(),
			initCommand(),
		},
		DefaultCommand: "tui",
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the file named by --config and applies --debug
func loadConfig(c *cli.Command) (*config.Config, error) {
	cfg, err := config.NewConfigService(c.String("config")).Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if c.Bool("debug") {
		cfg.Log.Debug = true
	}
	log.SetGlobalDebug(cfg.Log.Debug)
	return cfg, nil
}

// openLogFile sends all loggers to path. The caller closes the file.
func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	log.SetOutput(f)
	return f, nil
}

// logEvents writes every event of the given types to the "events" logger
func logEvents(bus eventbus.EventBus, types ...eventbus.EventType) func() {
	logger := log.ForService("events")
	var unsubscribe []func()
	for _, t := range types {
		unsubscribe = append(unsubscribe, bus.Subscribe(t, func(e eventbus.DomainEvent) {
			logger.Debugf("%s %+v", e.Type(), e)
		}))
	}
	return func() {
		for _, u := range unsubscribe {
			u()
		}
	}
}
