package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var (
	cfgFile string
	verbose bool
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "scamshield",
	Short: "Check phone numbers, UPI IDs, URLs and messages for scam risk",
	Long: `scamshield is a client for the ScamShield community scam-risk service.
Look up a value before you pay, report scammers, watch incoming reports
and explore reporting trends.

Get started:
  scamshield scan <value>   Check a value for scam risk
  scamshield report         Report a scammer
  scamshield feed           Watch the latest community reports
  scamshield trends         Show reporting trends
  scamshield ui             Launch the terminal UI
  scamshield doctor         Verify configuration and backend health`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ~/.scamshield/config.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable verbose/debug output")

	rootCmd.Version = Version
	rootCmd.AddCommand(
		scanCmd,
		reportCmd,
		feedCmd,
		trendsCmd,
		uiCmd,
		configCmd,
		doctorCmd,
	)
}

func initLogging() {
	if verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
		slog.Debug("Verbose logging enabled")
	}
}
