package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"posearch/internal/api"
	"posearch/internal/config"
	"posearch/internal/domain"
	"posearch/internal/eventbus"
	"posearch/internal/metrics"
	"posearch/internal/ui"
	"posearch/internal/ui/globalsearch"
	"posearch/internal/ui/services/search"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "posearch",
		Usage: "Search purchase orders, line items and vendors from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the config file",
				Value:   config.DefaultPath(),
			},
			&cli.StringFlag{
				Name:    "base-url",
				Usage:   "Backend base URL (overrides the config file)",
				EnvVars: []string{"POSEARCH_BASE_URL"},
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Write logs to this file (overrides the config file)",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "Serve Prometheus metrics on this address, e.g. :9090",
			},
		},
		Action: tuiCommand,
		Commands: []*cli.Command{
			{
				Name:   "tui",
				Usage:  "Run the interactive search (default)",
				Action: tuiCommand,
			},
			{
				Name:      "query",
				Usage:     "Run one search and print the grouped results",
				ArgsUsage: "<text>",
				Action:    queryCommand,
			},
			{
				Name:  "config",
				Usage: "Manage the config file",
				Subcommands: []*cli.Command{
					{
						Name:   "init",
						Usage:  "Write a config file with default values",
						Action: configInitCommand,
						Flags: []cli.Flag{
							&cli.BoolFlag{
								Name:  "force",
								Usage: "Overwrite an existing file",
							},
						},
					},
				},
			},
		},
	}
}

// runtime holds what every command needs once flags and config are read
type runtime struct {
	cfg     *config.Config
	bus     eventbus.EventBus
	metrics *metrics.Recorder
	client  *api.HTTPClient
	closeFn func()
}

func setup(c *cli.Context) (*runtime, error) {
	bus := eventbus.New()

	configSvc := config.NewConfigServiceWithBus(c.String("config"), bus)
	cfg, err := configSvc.Load()
	if err != nil {
		bus.Close()
		return nil, err
	}
	applyFlags(c, cfg)
	if err := cfg.Validate(); err != nil {
		bus.Close()
		return nil, err
	}

	// The TUI owns stdout, so logs go to a file
	closeLog := func() {}
	logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.SetOutput(io.Discard)
	} else {
		log.SetOutput(logFile)
		closeLog = func() { _ = logFile.Close() }
	}
	log.Printf("posearch starting, config %s, backend %s", configSvc.Path(), cfg.API.BaseURL)

	rec := metrics.New()
	client := api.NewHTTPClient(api.Options{
		BaseURL:        cfg.API.BaseURL,
		Timeout:        cfg.Timeout(),
		UserAgent:      cfg.API.UserAgent,
		MinQueryLength: cfg.Search.MinQueryLength,
		Metrics:        rec,
	})

	subscribeLogging(bus)

	return &runtime{
		cfg:     cfg,
		bus:     bus,
		metrics: rec,
		client:  client,
		closeFn: func() {
			bus.Close()
			closeLog()
		},
	}, nil
}

func applyFlags(c *cli.Context, cfg *config.Config) {
	if v := c.String("base-url"); v != "" {
		cfg.API.BaseURL = strings.TrimRight(v, "/")
	}
	if v := c.String("log-file"); v != "" {
		cfg.Log.File = v
	}
	if v := c.String("metrics-addr"); v != "" {
		cfg.Metrics.Listen = v
	}
}

func subscribeLogging(bus eventbus.EventBus) {
	bus.Subscribe(eventbus.EventConfigLoaded, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.ConfigLoadedEvent); ok {
			log.Printf("config loaded from %s", event.Path)
		}
	})
	bus.Subscribe(eventbus.EventPOPicked, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.POPickedEvent); ok {
			log.Printf("picked purchase order %s (id %s)", event.Pick.PONumber, event.Pick.ID)
		}
	})
	bus.Subscribe(eventbus.EventLinePicked, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.LinePickedEvent); ok {
			log.Printf("picked line %s of purchase order %s", event.Pick.LineID, event.Pick.POID)
		}
	})
	bus.Subscribe(eventbus.EventVendorSelected, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.VendorSelectedEvent); ok {
			log.Printf("vendor %s (id %s) selected, no action", event.Name, event.VendorID)
		}
	})
	bus.Subscribe(eventbus.EventSearchFailed, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.SearchFailedEvent); ok {
			log.Printf("search %q (token %d) failed: %v", event.Query, event.Token, event.Err)
		}
	})
}

func tuiCommand(c *cli.Context) error {
	rt, err := setup(c)
	if err != nil {
		return err
	}
	defer rt.closeFn()

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	model := ui.NewModel(rt.bus, rt.cfg, rt.client, rt.metrics)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.SetProgram(p)

	g, gctx := errgroup.WithContext(ctx)
	metricsCtx, stopMetrics := context.WithCancel(gctx)
	defer stopMetrics()

	if addr := rt.cfg.Metrics.Listen; addr != "" {
		g.Go(func() error {
			return rt.metrics.Serve(metricsCtx, addr)
		})
	}

	g.Go(func() error {
		defer stopMetrics()
		log.Printf("Starting UI...")
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("running program: %w", err)
		}
		log.Printf("UI exited normally")
		return nil
	})

	return g.Wait()
}

func queryCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return cli.Exit("usage: posearch query <text>", 2)
	}

	rt, err := setup(c)
	if err != nil {
		return err
	}
	defer rt.closeFn()

	ctx, cancel := context.WithTimeout(c.Context, rt.cfg.Timeout())
	defer cancel()

	res, err := rt.client.Search(ctx, query)
	if errors.Is(err, api.ErrQueryTooShort) {
		return cli.Exit(fmt.Sprintf("Query must be at least %d characters.", rt.cfg.Search.MinQueryLength), 1)
	}
	if err != nil {
		return cli.Exit(search.FailureMessage, 1)
	}

	writeResults(c.App.Writer, query, res)
	return nil
}

// writeResults prints results grouped the same way the overlay shows them
func writeResults(w io.Writer, query string, res *domain.SearchResults) {
	flat := search.Flatten(res)
	if len(flat) == 0 {
		fmt.Fprintf(w, "No results found for '%s'.\n", query)
		return
	}
	for i, item := range flat {
		if header, ok := search.HeaderBefore(flat, i); ok {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintln(w, header)
		}
		fmt.Fprintf(w, "  %s\n", globalsearch.Label(item))
	}
}

func configInitCommand(c *cli.Context) error {
	path := c.String("config")
	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return cli.Exit(fmt.Sprintf("config file %s already exists (use --force to overwrite)", path), 1)
	}

	cfg := config.DefaultConfig()
	applyFlags(c, cfg)
	if err := config.NewConfigService(path).Save(cfg); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "wrote %s\n", path)
	return nil
}
