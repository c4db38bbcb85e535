// ABOUTME: cobra command tree for xlr-admin
// ABOUTME: Loads config, logger, and the appliance client before every subcommand

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/2389/xlr-panel/internal/api"
	"github.com/2389/xlr-panel/internal/config"
	"github.com/2389/xlr-panel/internal/logging"
)

type app struct {
	configPath string
	server     string

	cfg      *config.Config
	logger   *slog.Logger
	closeLog func() error
	client   *api.Client
}

// NewRoot builds the xlr-admin command tree.
func NewRoot() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "xlr-admin",
		Short:         "Control the XLR mixer appliance from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.closeLog != nil {
				return a.closeLog()
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", config.Path(), "Config file path (yaml or toml)")
	root.PersistentFlags().StringVar(&a.server, "server", "", "Appliance URL, overrides server.url")

	root.AddCommand(
		loginCmd(a),
		statusCmd(a),
		toggleCmd(a),
		allCmd(a, "mute"),
		allCmd(a, "unmute"),
		renameCmd(a),
		historyCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadOrDefault(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.server != "" {
		cfg.Server.URL = a.server
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("validating config: %w", err)
		}
	}
	a.cfg = cfg

	logger, closeLog, err := logging.Setup(cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.logger = logger
	a.closeLog = closeLog

	client, err := api.New(cfg.Server.URL, logger)
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}
	if err := client.LoadSession(cfg.Session.Path); err != nil {
		logger.Warn("ignoring saved session", "path", cfg.Session.Path, "error", err)
	}
	a.client = client
	return nil
}

// requestContext returns a request context bounded by http.timeout.
func (a *app) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), a.cfg.HTTP.Timeout)
}

// explain turns a missing session into an actionable message.
func explain(err error) error {
	if errors.Is(err, api.ErrUnauthenticated) {
		return fmt.Errorf("not logged in: run xlr-admin login")
	}
	return err
}

// readPIN prompts without echo on a terminal and reads one line otherwise.
func readPIN(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), "PIN: ")
		pin, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("reading PIN: %w", err)
		}
		return strings.TrimSpace(string(pin)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading PIN: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}
