package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"snowthaw/internal/domain"
	"snowthaw/internal/eventbus"
	"snowthaw/internal/gateway"
	"snowthaw/internal/log"
	"snowthaw/internal/search"
	"snowthaw/internal/ui"
)

func tuiCommand() *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Search interactively",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "query",
				Usage: "Initial keyword",
			},
			&cli.StringFlag{
				Name:  "types",
				Usage: "Initial categories, comma separated",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runTUI(ctx, c)
		},
	}
}

func runTUI(ctx context.Context, c *cli.Command) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	filters, err := domain.ParseFilterSet(c.String("types"))
	if err != nil {
		return err
	}

	// The terminal belongs to bubbletea from here on
	logFile, err := openLogFile(cfg.Log.File)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := log.ForService("tui")

	client, err := gateway.NewHTTPClient(cfg.Client.APIBase, gateway.Options{
		Timeout:           cfg.Client.RequestTimeout.Duration,
		RequestsPerSecond: cfg.Client.RequestsPerSecond,
	})
	if err != nil {
		return err
	}

	bus := eventbus.New()
	defer bus.Close()
	defer logEvents(bus, eventbus.SearchEvents...)()

	var program *tea.Program
	ctrl := search.New(client, search.Options{
		Delay:    cfg.Client.Debounce.Duration,
		PageSize: cfg.Client.PageSize,
		Bus:      bus,
		Post: func(msg tea.Msg) {
			program.Send(msg)
		},
	})
	defer ctrl.Close()

	model := ui.NewModel(ctrl, client, ui.Options{Query: c.String("query"), Filters: filters})
	program = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.SetProgram(program)

	logger.Infof("searching %s", cfg.Client.APIBase)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}
