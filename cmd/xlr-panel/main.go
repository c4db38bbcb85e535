// ABOUTME: Terminal control panel for the XLR mixer appliance
// ABOUTME: Usage: xlr-panel [-config path] [-server url]

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389/xlr-panel/internal/api"
	"github.com/2389/xlr-panel/internal/config"
	"github.com/2389/xlr-panel/internal/journal"
	"github.com/2389/xlr-panel/internal/logging"
	"github.com/2389/xlr-panel/internal/tui"
)

func main() {
	configPath := flag.String("config", config.Path(), "Config file path (yaml or toml)")
	server := flag.String("server", "", "Appliance URL, overrides server.url")
	flag.Parse()

	if err := run(*configPath, *server); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, server string) error {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if server != "" {
		cfg.Server.URL = server
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("validating config: %w", err)
		}
	}

	// The terminal belongs to the UI; without a log file, logs are dropped.
	logger, closeLog, err := logging.Setup(cfg.Logging, io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	client, err := api.New(cfg.Server.URL, logger)
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}
	if err := client.LoadSession(cfg.Session.Path); err != nil {
		logger.Warn("ignoring saved session", "path", cfg.Session.Path, "error", err)
	}

	opts := tui.Options{
		Interval: cfg.Polling.Interval,
		Timeout:  cfg.HTTP.Timeout,
		Flash:    cfg.Login.ErrorFlash,
		Palette:  cfg.Palette,
		Logger:   logger,
		OnLogin: func() error {
			return client.SaveSession(cfg.Session.Path)
		},
	}

	if cfg.Journal.Path != "" {
		j, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			return fmt.Errorf("opening journal: %w", err)
		}
		defer j.Close()
		opts.Recorder = j
	}

	logger.Info("starting xlr-panel", "config", configPath, "server", cfg.Server.URL)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer cancel()

	p := tea.NewProgram(tui.New(client, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}
