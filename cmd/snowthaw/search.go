package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"snowthaw/internal/domain"
	"snowthaw/internal/gateway"
	"snowthaw/internal/highlight"
	"snowthaw/internal/paginate"
	"snowthaw/internal/ui/views"
)

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Run one search and print a page of hits",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "query",
				Usage:    "Keyword",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "types",
				Usage: "Categories, comma separated",
			},
			&cli.IntFlag{
				Name:  "page",
				Usage: "Page to print",
				Value: 1,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runSearch(ctx, c)
		},
	}
}

func runSearch(ctx context.Context, c *cli.Command) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	query := strings.TrimSpace(c.String("query"))
	if query == "" {
		return fmt.Errorf("query is required")
	}
	filters, err := domain.ParseFilterSet(c.String("types"))
	if err != nil {
		return err
	}

	client, err := gateway.NewHTTPClient(cfg.Client.APIBase, gateway.Options{
		Timeout:           cfg.Client.RequestTimeout.Duration,
		RequestsPerSecond: cfg.Client.RequestsPerSecond,
	})
	if err != nil {
		return err
	}

	resp, err := client.Search(ctx, query, filters)
	if err != nil {
		fmt.Fprintln(os.Stderr, views.FailedText)
		return err
	}

	printResults(os.Stdout, resp, query, c.Int("page"), cfg.Client.PageSize)
	return nil
}

// printResults writes the requested page of resp with the keyword highlighted
func printResults(w io.Writer, resp *gateway.Response, keyword string, requested, pageSize int) {
	if len(resp.Results) == 0 {
		fmt.Fprintln(w, views.NoMatchesText)
		return
	}

	styles := views.NewStyles()
	projector := highlight.NewProjector(1)
	page := paginate.Paginate(resp.Results, pageSize, requested)

	for _, hit := range page.Items {
		fmt.Fprintf(w, "%s  %s\n", styles.HitName.Render(hit.Name), styles.HitType.Render("["+hit.Type+"]"))
		fmt.Fprintf(w, "    %s\n\n", views.RenderHighlighted(projector, hit.Snippet, keyword, styles.Snippet, styles.Highlight))
	}
	fmt.Fprintf(w, "%s  (%d)\n", views.PageLabel(page.Current, page.Count), resp.Total)
}
