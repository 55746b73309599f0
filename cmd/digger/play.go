package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/digger/internal/config"
	"github.com/vovakirdan/digger/internal/core"
	"github.com/vovakirdan/digger/internal/platform/tui"
	"github.com/vovakirdan/digger/internal/registry"
	"github.com/vovakirdan/digger/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play <variant>",
	Short: "Play a variant",
	Long: `Start playing the specified variant.

Controls:
  A/D, Left/Right   - Move (mines sideways into a tile)
  W/Up/Space        - Fly
  S/Down            - Mine down
  Enter / click     - Press the highlighted button
  P                 - Pause
  R                 - Restart (after game over)
  B/Esc             - Back (when paused or after game over)
  Ctrl+S            - Save a screenshot
  Q/Ctrl+C          - Quit

Examples:
  digger play gold
  digger play cleanup --seed 7
  digger play gold --config ./my-gold.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

// runtimeConfig builds the runtime config from the terminal size and flags.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// applyInputSettings reads the hold window of a variant's config.
func applyInputSettings(variant string) {
	cfg, err := config.Load(variant, flagConfig)
	if err != nil {
		logger.Warn("using default input settings", "variant", variant, "err", err)
		return
	}
	tui.SetHoldWindow(time.Duration(cfg.Input.HoldWindowMs) * time.Millisecond)
}

// openStore opens the score database. Play continues without one.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		logger.Warn("no scores database", "path", flagDBPath, "err", err)
		return nil
	}
	return store
}

func runPlay(_ *cobra.Command, args []string) error {
	gameID := args[0]

	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown variant %q, run 'digger list' to see available variants", gameID)
	}

	if flagConfig != "" {
		if _, err := config.Load(gameID, flagConfig); err != nil {
			return fmt.Errorf("loading %s: %w", flagConfig, err)
		}
	}

	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}
	applyInputSettings(gameID)

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	if err := tui.Run(game, store, runtimeConfig()); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}
