package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/pnc/internal/api"
	"github.com/f3rmion/pnc/internal/history"
	"github.com/f3rmion/pnc/internal/tui"
	"github.com/f3rmion/pnc/internal/tui/views"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"i", "ui"},
	Short:   "Launch interactive TUI",
	Long: `Launch the interactive terminal UI.

Controls:
  ctrl+s  Analyze the text in the editor
  esc     Leave the editor
  t       Expand or collapse the truth table
  y       Copy the report to the clipboard
  1-3     Switch between Analyze, History and Settings
  ?       Help`,
	Annotations: map[string]string{tuiAnnotation: "true"},
	RunE:        runTUI,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

// runTUI launches the unified TUI application.
func runTUI(cmd *cobra.Command, args []string) error {
	opts := tui.Options{
		Config:     cfg,
		ConfigFile: viper.ConfigFileUsed(),
		Analyzer:   newClient(),
		Logger:     logger,
	}

	if cfg.History {
		store, err := history.Open(cfg.HistoryDB)
		if err != nil {
			// The TUI is still useful without history.
			logger.Warn("history unavailable", zap.String("path", cfg.HistoryDB), zap.Error(err))
		} else {
			defer store.Close()
			opts.History = views.HistoryStore(store)
		}
	}

	p := tea.NewProgram(
		tui.NewApp(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(cmd.Context()),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

func newClient() *api.Client {
	return api.NewClient(cfg.APIURL, api.WithTimeout(cfg.Timeout))
}
