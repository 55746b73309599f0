// digger is a terminal mining platformer with two variants, Gold Digger and
// The Cleanup.
//
// Usage:
//
//	digger list               - List available variants
//	digger play <variant>     - Play a variant
//	digger menu               - Pick variants interactively
//	digger serve              - Start SSH server for remote play
//	digger scores <variant>   - Show best runs for a variant
//	digger config <name>      - Print an embedded default config
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible maps
//	--db <path>         - Set database path (default: ~/.digger/scores.db)
//	--log <path>        - Write logs to a file
//	--log-level <lvl>   - debug, info, warn or error
//	--config <path>     - Custom variant config YAML; a file with a variant key
//	                      only applies to that variant, others use defaults
//	--tileset <path>    - Custom tileset YAML
//	--mute              - Disable sound
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/digger/internal/games/digger"
	"github.com/vovakirdan/digger/internal/platform/tui"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogPath  string
	flagLogLevel string
	flagConfig   string
	flagTileset  string
	flagMute     bool
)

var (
	logger  = log.New(io.Discard)
	logFile *os.File
)

func main() {
	err := rootCmd.Execute()
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "digger",
	Short: "Digger - fly, dig and refuel in your terminal",
	Long: `Digger is a terminal mining platformer. Fly a small digger through
the ground on a limited tank of fuel, mine minerals for money and refuel
at the base before you run dry.

Variants:
  gold     - Gold Digger: dig for gold, mind the fall damage
  cleanup  - The Cleanup: collect the buried waste barrels to win

Examples:
  digger list
  digger play gold
  digger play cleanup --seed 42 --mute
  digger menu
  digger serve --ssh :2222
  digger scores cleanup`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.digger/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log", "", "Write logs to this file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom variant config YAML (a variant key limits it to that variant)")
	rootCmd.PersistentFlags().StringVar(&flagTileset, "tileset", "", "Path to custom tileset YAML")
	rootCmd.PersistentFlags().BoolVar(&flagMute, "mute", false, "Disable sound")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(configCmd)
}

// setup builds the logger and hands the global flags to the packages.
// The TUI owns the terminal, so logs go to --log or nowhere.
func setup(cmd *cobra.Command, _ []string) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	if flagFPS <= 0 {
		return fmt.Errorf("invalid --fps %d: must be positive", flagFPS)
	}

	var out io.Writer = io.Discard
	switch {
	case flagLogPath != "":
		f, err := os.OpenFile(flagLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("cannot open log file: %w", err)
		}
		logFile = f
		out = f
	case cmd.Name() == "serve":
		out = os.Stderr
	}

	logger = log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "digger",
		Level:           level,
	})

	digger.SetLogger(logger)
	digger.SetConfigPath(flagConfig)
	digger.SetTilesetPath(flagTileset)
	digger.SetMuted(flagMute)
	tui.SetLogger(logger)
	return nil
}
