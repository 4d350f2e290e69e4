// Package cmd contains all CLI commands for the pnc tool.
package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/f3rmion/pnc/internal/config"
	"github.com/f3rmion/pnc/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// tuiAnnotation marks commands that take over the terminal. They always log
// to the log file; other commands log to stderr only with --verbose.
const tuiAnnotation = "tui"

var (
	cfgFile string
	cfg     *config.Config
	logger  = zap.NewNop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pnc",
	Short: "Pé-no-Chão - analyze the logic of an argument",
	Long: `pnc sends an argument written in natural language to the Pé-no-Chão
analysis service and shows what comes back:

  - the premises and conclusion it found
  - whether the argument is formally valid, with a counterexample and
    truth table when available
  - fact-checks of each premise and related news coverage
  - an overall verdict

Running 'pnc' without arguments launches the interactive TUI.`,
	Annotations:       map[string]string{tuiAnnotation: "true"},
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: runTUI,
}

// reportedError is an error whose user-facing message was already printed.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	printError(rootCmd, err)
	return err
}

func printError(cmd *cobra.Command, err error) {
	var reported *reportedError
	if err == nil || errors.As(err, &reported) {
		return
	}
	cmd.PrintErrln(cmd.ErrPrefix(), err.Error())
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/pnc/config.yaml)")
	flags.Bool("verbose", false, "verbose output")
	flags.String("api-url", "", "analysis service base URL (env PNC_API_URL)")
	flags.Duration("timeout", 0, "request timeout, 0 for none (default 1m)")
	flags.String("theme", "", "TUI theme: dark or light")

	_ = viper.BindPFlag(config.KeyVerbose, flags.Lookup("verbose"))
	_ = viper.BindPFlag(config.KeyAPIURL, flags.Lookup("api-url"))
	_ = viper.BindPFlag(config.KeyTimeout, flags.Lookup("timeout"))
	_ = viper.BindPFlag(config.KeyTheme, flags.Lookup("theme"))
}

// setup loads the configuration and builds the logger for cmd.
func setup(cmd *cobra.Command, args []string) error {
	v := viper.GetViper()
	if err := config.Init(v, cfgFile); err != nil {
		return err
	}

	loaded, err := config.Load(v)
	if err != nil {
		return err
	}
	cfg = loaded

	if cmd.Annotations[tuiAnnotation] == "true" || !cfg.Verbose {
		logger, err = logging.NewFile(cfg.LogFile, cfg.Verbose)
	} else {
		logger, err = logging.New(cfg.Verbose)
	}
	if err != nil {
		return err
	}

	logger.Debug("configuration loaded",
		zap.String("config_file", v.ConfigFileUsed()),
		zap.String("api_url", cfg.APIURL),
		zap.Duration("timeout", cfg.Timeout))
	return nil
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "pnc "+version)
	},
}

// version is set at build time with -ldflags "-X .../cmd.version=...".
var version = "dev"

func init() {
	rootCmd.AddCommand(versionCmd)
}
