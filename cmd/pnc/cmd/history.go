package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/f3rmion/pnc/internal/history"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"h"},
	Short:   "List saved analyses",
	Long: `List, show and delete analyses saved by 'pnc analyze' and the TUI.

Entries are identified by their id; any unique prefix of it works.`,
	RunE: runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved analyses, newest first",
	RunE:    runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a saved analysis",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a saved analysis",
	Args:    cobra.ExactArgs(1),
	RunE:    runHistoryRm,
}

func init() {
	historyCmd.PersistentFlags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of entries to list, 0 for all")
	output.register(historyShowCmd)

	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyRmCmd)
	rootCmd.AddCommand(historyCmd)
}

func openHistory() (*history.Store, error) {
	if !cfg.History {
		return nil, errors.New("history is disabled (history: false)")
	}
	return history.Open(cfg.HistoryDB)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No saved analyses.")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		text := strings.Join(strings.Fields(e.Text), " ")
		rows = append(rows, []string{
			e.ID.String()[:8],
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			runewidth.Truncate(text, 50, "…"),
			runewidth.Truncate(e.Verdict, 40, "…"),
		})
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("ID", "DATE", "TEXT", "VERDICT").
		Rows(rows...)
	fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if err := output.validate(); err != nil {
		return err
	}

	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	e, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	res, err := e.Result()
	if err != nil {
		return fmt.Errorf("stored analysis %s: %w", e.ID, err)
	}

	if output.format != formatJSON {
		fmt.Fprintf(cmd.OutOrStdout(), "# %s  %s\n%s\n\n", e.ID, e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Text)
	}
	return writeResult(cmd.OutOrStdout(), res, output)
}

func runHistoryRm(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	e, err := store.Delete(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", e.ID)
	return nil
}
