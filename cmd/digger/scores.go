package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/digger/internal/registry"
	"github.com/vovakirdan/digger/internal/storage"
)

var flagClear bool

var scoresCmd = &cobra.Command{
	Use:   "scores <variant>",
	Short: "Show the best and latest runs of a variant",
	Long: `Display the top 10 runs by money and the latest runs of a variant.

Examples:
  digger scores gold
  digger scores cleanup
  digger scores gold --clear`,
	Args: cobra.ExactArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all recorded runs of the variant")
}

func runScores(_ *cobra.Command, args []string) error {
	gameID := args[0]

	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown variant %q, run 'digger list' to see available variants", gameID)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearScores(gameID); err != nil {
			return fmt.Errorf("clearing scores: %w", err)
		}
		fmt.Printf("Cleared all runs of %s.\n", game.Title())
		return nil
	}

	scores, err := store.TopScores(gameID, 10)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n", game.Title())
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'digger play %s' to set the first high score!\n", gameID)
		return nil
	}

	fmt.Printf("  %-4s  %-10s  %s\n", "Rank", "Money", "When")
	fmt.Printf("  %-4s  %-10s  %s\n", "----", "-----", "----")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %-10s  %s\n", i+1, "$"+humanize.Comma(int64(entry.Score)), humanize.Time(entry.CreatedAt))
	}

	if stats, err := store.GetGameStats(gameID); err == nil && stats.GamesCount > 0 {
		fmt.Println()
		fmt.Printf("Runs: %s  Won: %d  Best: $%s  Avg: $%.1f  Waste: %s\n",
			humanize.Comma(int64(stats.GamesCount)), stats.Wins,
			humanize.Comma(int64(stats.HighScore)), stats.AvgScore,
			humanize.Comma(stats.TotalWaste))
	}

	runs, err := store.RecentRuns(gameID, 5)
	if err != nil {
		return fmt.Errorf("retrieving runs: %w", err)
	}
	if len(runs) > 0 {
		fmt.Println()
		fmt.Println("Latest runs:")
		for _, r := range runs {
			fmt.Printf("  %-14s  %-10s  %-12s  %s\n",
				humanize.Time(r.CreatedAt), "$"+humanize.Comma(int64(r.Money)), r.Outcome, r.Duration.Round(time.Second))
		}
	}
	return nil
}
