package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/f3rmion/pnc/internal/analysis"
	"github.com/f3rmion/pnc/internal/history"
	"github.com/f3rmion/pnc/internal/sections"
	"github.com/f3rmion/pnc/internal/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Output formats.
const (
	formatText     = "text"
	formatMarkdown = "markdown"
	formatJSON     = "json"
)

var (
	analyzeFile      string
	analyzeNoHistory bool
	output           outputFlags
)

// outputFlags are shared by every command that prints a result.
type outputFlags struct {
	format string
	expand bool
	width  int
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.format, "format", "f", formatText, "output format: text, markdown or json")
	cmd.Flags().BoolVar(&o.expand, "expand", false, "show every row of the truth table")
	cmd.Flags().IntVar(&o.width, "width", 100, "wrap text at this width, 0 to disable")
}

func (o outputFlags) validate() error {
	switch o.format {
	case formatText, formatMarkdown, formatJSON:
		return nil
	default:
		return fmt.Errorf("unknown format %q: want text, markdown or json", o.format)
	}
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text...]",
	Short: "Analyze an argument and print the report",
	Long: `Send an argument to the analysis service and print the report.

The text is taken from the arguments, from --file, or from standard input
when neither is given. Successful analyses are saved to the history unless
--no-history is set or history is disabled in the configuration.

Examples:
  pnc analyze "Todo homem é mortal. Sócrates é homem. Logo, Sócrates é mortal."
  pnc analyze --file argumento.txt --format markdown
  echo "..." | pnc analyze --format json`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFile, "file", "", "read the text from this file")
	analyzeCmd.Flags().BoolVar(&analyzeNoHistory, "no-history", false, "do not save the analysis")
	output.register(analyzeCmd)
	rootCmd.AddCommand(analyzeCmd)
}

// recorder keeps the raw body of the last successful call so it can be saved.
type recorder struct {
	next session.Analyzer
	raw  json.RawMessage
}

func (r *recorder) Analyze(ctx context.Context, text string) (json.RawMessage, error) {
	raw, err := r.next.Analyze(ctx, text)
	if err == nil {
		r.raw = raw
	}
	return raw, err
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if err := output.validate(); err != nil {
		return err
	}

	text, err := readInput(args, analyzeFile, cmd.InOrStdin())
	if err != nil {
		return err
	}

	rec := &recorder{next: newClient()}
	m := session.New(logger)
	if err := m.Run(cmd.Context(), rec, text); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), m.Notice())
		return &reportedError{err: err}
	}

	if cfg.History && !analyzeNoHistory {
		saveHistory(cmd.Context(), text, rec.raw)
	}

	return writeResult(cmd.OutOrStdout(), *m.Result(), output)
}

// readInput returns the text to analyze. Standard input is only read when it
// is not a terminal.
func readInput(args []string, file string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading input file: %w", err)
		}
		return string(data), nil
	}

	if f, ok := stdin.(*os.File); ok {
		if fi, err := f.Stat(); err == nil && fi.Mode()&os.ModeCharDevice != 0 {
			return "", nil
		}
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading standard input: %w", err)
	}
	return string(data), nil
}

func saveHistory(ctx context.Context, text string, raw json.RawMessage) {
	store, err := history.Open(cfg.HistoryDB)
	if err != nil {
		logger.Warn("history unavailable", zap.String("path", cfg.HistoryDB), zap.Error(err))
		return
	}
	defer store.Close()

	e, err := store.Save(ctx, text, raw)
	if err != nil {
		logger.Warn("saving analysis to history failed", zap.Error(err))
		return
	}
	logger.Info("analysis saved", zap.String("id", e.ID.String()))
}

// writeResult prints res in the requested format.
func writeResult(w io.Writer, res analysis.Result, o outputFlags) error {
	if o.format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		return nil
	}

	secs := sections.Build(res)
	opts := sections.Options{Width: o.width, ExpandTables: o.expand}

	if o.format == formatMarkdown {
		md := sections.Markdown(secs, opts)
		if !isTerminal(w) {
			_, err := io.WriteString(w, md)
			return err
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(o.width),
		)
		if err != nil {
			return fmt.Errorf("creating markdown renderer: %w", err)
		}
		out, err := r.Render(md)
		if err != nil {
			return fmt.Errorf("rendering markdown: %w", err)
		}
		_, err = io.WriteString(w, out)
		return err
	}

	return sections.WriteText(w, secs, opts)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
