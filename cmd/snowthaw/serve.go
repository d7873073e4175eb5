package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"snowthaw/internal/api"
	"snowthaw/internal/eventbus"
	"snowthaw/internal/log"
	"snowthaw/internal/store"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the lookup service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Usage: "Address to listen on (overrides server.listen)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runServe(ctx, c)
		},
	}
}

func runServe(ctx context.Context, c *cli.Command) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.String("listen") != "" {
		cfg.Server.Listen = c.String("listen")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(cfg.Server.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	bus := eventbus.New()
	defer bus.Close()
	defer logEvents(bus, eventbus.EventCardsImported)()

	logger := log.ForService("serve")
	if cfg.Server.APIKey == "" {
		logger.Warnf("no api_key configured, admin routes are disabled")
	}
	logger.Infof("cards database %s", cfg.Server.DBPath)

	srv := api.NewServer(st, api.Options{
		APIKey:         cfg.Server.APIKey,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		SearchLimit:    cfg.Server.SearchLimit,
		SnippetWindow:  cfg.Server.SnippetWindow,
		MaxSnippets:    cfg.Server.MaxSnippets,
	}, bus)
	return srv.ListenAndServe(ctx, cfg.Server.Listen)
}
