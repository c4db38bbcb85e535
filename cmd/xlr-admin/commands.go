// ABOUTME: xlr-admin subcommands: login, status, toggle, mute, unmute, rename, history
// ABOUTME: Output follows the table style of the gateway admin tools

package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2389/xlr-panel/internal/channel"
	"github.com/2389/xlr-panel/internal/journal"
)

func loginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in with the appliance PIN and save the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pin, err := readPIN(cmd)
			if err != nil {
				return err
			}
			if pin == "" {
				return fmt.Errorf("PIN is required")
			}

			ctx, cancel := a.requestContext()
			defer cancel()
			ok, err := a.client.Login(ctx, pin)
			if err != nil {
				return fmt.Errorf("logging in: %w", err)
			}
			if !ok {
				return fmt.Errorf("PIN rejected")
			}

			if err := a.client.SaveSession(a.cfg.Session.Path); err != nil {
				return err
			}

			green := color.New(color.FgGreen)
			green.Fprint(cmd.OutOrStdout(), "✓ ")
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s\n", a.client.BaseURL())
			return nil
		},
	}
}

func statusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show hardware presence and every channel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.requestContext()
			defer cancel()
			st, err := a.client.Status(ctx)
			if err != nil {
				return explain(err)
			}

			out := cmd.OutOrStdout()
			if st.Hardware {
				fmt.Fprintln(out, "Hardware: connected")
			} else {
				color.New(color.FgYellow).Fprintln(out, "Hardware: not detected (demo mode)")
			}
			fmt.Fprintln(out)

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCOLOR\tSTATE")
			for _, c := range st.Channels {
				state := color.RedString("MUTED")
				if c.Active {
					state = color.GreenString("LIVE")
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", c.ID, c.Name, c.DisplayColor(), state)
			}
			return w.Flush()
		},
	}
}

func toggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Mute a live channel or unmute a muted one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := a.requestContext()
			defer cancel()
			if err := a.client.Toggle(ctx, id); err != nil {
				return explain(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Toggled channel %d\n", id)
			return nil
		},
	}
}

func allCmd(a *app, name string) *cobra.Command {
	action := channel.Action(name)
	short := "Mute every channel"
	if action == channel.Unmute {
		short = "Unmute every channel"
	}

	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.requestContext()
			defer cancel()
			if err := a.client.SetAll(ctx, action); err != nil {
				return explain(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "All channels: %s\n", name)
			return nil
		},
	}
}

func renameCmd(a *app) *cobra.Command {
	var newColor string

	cmd := &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a channel and optionally change its color",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			name := args[1]
			if name == "" {
				return fmt.Errorf("name is required")
			}

			ctx, cancel := a.requestContext()
			defer cancel()

			if newColor == "" {
				st, err := a.client.Status(ctx)
				if err != nil {
					return explain(err)
				}
				i := st.Channels.Index(id)
				if i < 0 {
					return fmt.Errorf("channel %d not found", id)
				}
				newColor = st.Channels[i].DisplayColor()
			} else if !inPalette(a.cfg.Palette, newColor) {
				return fmt.Errorf("color %s is not in the palette (%s)", newColor, strings.Join(a.cfg.Palette, " "))
			}

			if err := a.client.Update(ctx, id, name, newColor); err != nil {
				return explain(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Channel %d is now %q (%s)\n", id, name, newColor)
			return nil
		},
	}
	cmd.Flags().StringVar(&newColor, "color", "", "New color from the palette, e.g. #10b981")
	return cmd
}

func historyCmd(a *app) *cobra.Command {
	var (
		limit     int
		channelID int
		kind      string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded channel changes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Journal.Path == "" {
				return fmt.Errorf("journal.path is not configured")
			}
			j, err := journal.Open(a.cfg.Journal.Path)
			if err != nil {
				return fmt.Errorf("opening journal: %w", err)
			}
			defer j.Close()

			f := journal.Filter{Limit: limit}
			if cmd.Flags().Changed("channel") {
				f.ChannelID = &channelID
			}
			if kind != "" {
				k := journal.Kind(kind)
				f.Kind = &k
			}

			ctx, cancel := a.requestContext()
			defer cancel()
			events, err := j.List(ctx, f)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(events) == 0 {
				fmt.Fprintln(out, "No changes recorded")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tCHANNEL\tKIND\tDETAIL")
			for _, e := range events {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", formatTime(e.Timestamp), e.ChannelID, e.Kind, formatDetail(e.Detail))
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of events")
	cmd.Flags().IntVar(&channelID, "channel", 0, "Only show events for this channel id")
	cmd.Flags().StringVar(&kind, "kind", "", "Only show events of this kind")
	return cmd
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid channel id %q", s)
	}
	return id, nil
}

func inPalette(palette []string, c string) bool {
	for _, p := range palette {
		if p == c {
			return true
		}
	}
	return false
}

func formatDetail(d map[string]any) string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, d[k]))
	}
	return strings.Join(parts, " ")
}
