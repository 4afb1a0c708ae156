package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tessro/chorus/internal/config"
	"github.com/tessro/chorus/internal/logging"
)

var (
	cfgFile string
	jsonOut bool
	verbose bool
	quiet   bool

	cfg       *config.Config
	logger    = zerolog.Nop()
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "chorus",
	Short: "Find a song, play its preview and share it",
	Long: `Chorus searches the music catalog, plays 30-second previews with a live
visualizer and exports shareable cards.

Run 'chorus serve' to start the catalog proxy, or 'chorus studio' to search
and play from the terminal.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.chorusrc)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress log output")
}

func initConfig(cmd *cobra.Command) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, logCloser, err = logging.New(cfg.Log, logging.Options{
		Verbose: verbose,
		Quiet:   quiet || interactiveCommand(cmd),
	})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	return nil
}

// interactiveCommand reports whether cmd takes over the terminal, in which
// case console logging would tear the display.
func interactiveCommand(cmd *cobra.Command) bool {
	if cmd.Annotations["interactive"] == "true" {
		return true
	}
	for _, name := range []string{"interactive", "pick"} {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			return true
		}
	}
	return false
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		PrintError(err)
		os.Exit(1)
	}
}

// Config returns the loaded configuration.
func Config() *config.Config {
	return cfg
}

// JSONOutput returns true if JSON output is requested.
func JSONOutput() bool {
	return jsonOut
}

// Verbose returns true if verbose output is requested.
func Verbose() bool {
	return verbose
}
