package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/CosmoTheDev/scamshield/internal/session"
	"github.com/CosmoTheDev/scamshield/internal/tui"
	"github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var uiLogFile string

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Launch the terminal UI",
	Long: `Opens the interactive terminal UI: scan values, report scammers, watch the
live report ticker, explore trends and review this session's history.

Logs are discarded unless --log-file is set.`,
	RunE: runUI,
}

func init() {
	uiCmd.Flags().StringVar(&uiLogFile, "log-file", "", "Write logs to this file while the UI is running")
}

func runUI(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, client, err := loadClient()
	if err != nil {
		return err
	}

	if uiLogFile != "" {
		f, err := tea.LogToFile(uiLogFile, "scamshield")
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
	} else {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	}

	store, err := session.Open(ctx, cfg.Session)
	if err != nil {
		return fmt.Errorf("opening session ledger: %w", err)
	}
	defer store.Close()

	app := tui.NewApp(ctx, cfg, client, store)
	return app.Run()
}
