package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

// saveMoney records a minimal run that scores money for gameID.
func saveMoney(t *testing.T, store *Store, gameID string, money int) {
	t.Helper()
	if _, err := store.SaveRun(Run{GameID: gameID, Money: money, Outcome: "out of fuel"}); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	saveMoney(t, store, "gold", 100)
	saveMoney(t, store, "gold", 50)
	saveMoney(t, store, "gold", 200)
	// Different game
	saveMoney(t, store, "cleanup", 500)

	// Retrieve top scores for gold
	scores, err := store.TopScores("gold", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	// Should be sorted descending
	if scores[0].Score != 200 {
		t.Errorf("Expected highest score to be 200, got %d", scores[0].Score)
	}
	if scores[1].Score != 100 {
		t.Errorf("Expected second score to be 100, got %d", scores[1].Score)
	}
	if scores[2].Score != 50 {
		t.Errorf("Expected third score to be 50, got %d", scores[2].Score)
	}

	cleanupScores, err := store.TopScores("cleanup", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(cleanupScores) != 1 {
		t.Errorf("Expected 1 cleanup score, got %d", len(cleanupScores))
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		saveMoney(t, store, "test", (i+1)*100)
	}

	// Request only top 3
	scores, err := store.TopScores("test", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores with limit, got %d", len(scores))
	}
	// Should be 500, 400, 300 (top 3)
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}

	for i := 0; i < 15; i++ {
		saveMoney(t, store, "test", i)
	}
	scores, err = store.TopScores("test", 0)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 10 {
		t.Errorf("Expected the default limit of 10, got %d", len(scores))
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	// No scores yet
	high, err := store.HighScore("gold")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty game, got %d", high)
	}

	saveMoney(t, store, "gold", 100)
	saveMoney(t, store, "gold", 300)
	saveMoney(t, store, "gold", 200)

	high, err = store.HighScore("gold")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	saveMoney(t, store, "gold", 100)
	saveMoney(t, store, "gold", 200)
	saveMoney(t, store, "cleanup", 300)

	// Clear only gold scores
	if err := store.ClearScores("gold"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	goldScores, _ := store.TopScores("gold", 10)
	if len(goldScores) != 0 {
		t.Errorf("Expected 0 gold scores after clear, got %d", len(goldScores))
	}

	cleanupScores, _ := store.TopScores("cleanup", 10)
	if len(cleanupScores) != 1 {
		t.Errorf("Cleanup scores should not be affected by clearing gold")
	}
}

func TestStoreClearScoresIsAtomic(t *testing.T) {
	store := openTestStore(t)
	saveMoney(t, store, "gold", 100)

	// Without a runs table the second delete fails
	if _, err := store.db.Exec("DROP TABLE runs"); err != nil {
		t.Fatalf("drop runs: %v", err)
	}
	if err := store.ClearScores("gold"); err == nil {
		t.Fatal("Expected ClearScores() to fail without a runs table")
	}

	scores, err := store.TopScores("gold", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 1 {
		t.Errorf("Expected the score delete rolled back, got %d scores", len(scores))
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	// Test that ~ expansion works (we won't actually write to home)
	// Just verify the function doesn't crash
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreSaveRun(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveRun(Run{
		GameID:   "cleanup",
		Money:    120,
		Waste:    10,
		Outcome:  "won",
		Duration: 95 * time.Second,
		Seed:     42,
	})
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("Expected a UUID run id, got %q: %v", id, err)
	}

	runs, err := store.RecentRuns("cleanup", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("Expected 1 run, got %d", len(runs))
	}
	r := runs[0]
	if r.ID != id || r.Money != 120 || r.Waste != 10 || r.Outcome != "won" || r.Seed != 42 {
		t.Errorf("Unexpected run: %+v", r)
	}
	if r.Duration != 95*time.Second {
		t.Errorf("Expected 95s duration, got %v", r.Duration)
	}

	// The run's money also lands on the scoreboard
	high, err := store.HighScore("cleanup")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 120 {
		t.Errorf("Expected high score of 120, got %d", high)
	}
}

func TestStoreSaveRunKeepsID(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveRun(Run{ID: "fixed", GameID: "gold", Outcome: "out of fuel"})
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	if id != "fixed" {
		t.Errorf("Expected the given id, got %q", id)
	}

	if _, err := store.SaveRun(Run{ID: "fixed", GameID: "gold", Outcome: "wrecked"}); err == nil {
		t.Error("Expected duplicate run id to fail")
	}
	// The failed run must not leave a score behind
	scores, _ := store.TopScores("gold", 0)
	if len(scores) != 1 {
		t.Errorf("Expected 1 score after a rolled back run, got %d", len(scores))
	}
}

func TestStoreRecentRuns(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 3; i++ {
		store.SaveRun(Run{GameID: "gold", Money: i, Outcome: "out of fuel"})
	}
	store.SaveRun(Run{GameID: "cleanup", Money: 99, Outcome: "won"})

	gold, err := store.RecentRuns("gold", 2)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(gold) != 2 {
		t.Fatalf("Expected 2 gold runs with limit, got %d", len(gold))
	}
	if gold[0].Money != 2 || gold[1].Money != 1 {
		t.Errorf("Expected newest first, got %d then %d", gold[0].Money, gold[1].Money)
	}

	all, err := store.RecentRuns("", 0)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("Expected 4 runs across variants, got %d", len(all))
	}
}

func TestStoreTopRuns(t *testing.T) {
	store := openTestStore(t)

	for _, money := range []int{30, 90, 10, 90} {
		if _, err := store.SaveRun(Run{GameID: "gold", Money: money, Outcome: "wrecked"}); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}
	store.SaveRun(Run{GameID: "cleanup", Money: 500, Outcome: "won"})

	top, err := store.TopRuns("gold", 3)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	want := []int{90, 90, 30}
	if len(top) != len(want) {
		t.Fatalf("Expected %d runs, got %d", len(want), len(top))
	}
	for i, r := range top {
		if r.Money != want[i] || r.GameID != "gold" {
			t.Errorf("top[%d] = %+v, expected gold run with %d", i, r, want[i])
		}
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.GetGameStats("cleanup")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 0 || !stats.LastPlayed.IsZero() {
		t.Errorf("Expected empty stats, got %+v", stats)
	}

	store.SaveRun(Run{GameID: "cleanup", Money: 100, Waste: 10, Outcome: "won"})
	store.SaveRun(Run{GameID: "cleanup", Money: 50, Waste: 4, Outcome: "out of fuel"})
	store.SaveRun(Run{GameID: "gold", Money: 500, Outcome: "wrecked"})

	stats, err = store.GetGameStats("cleanup")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.HighScore != 100 || stats.TotalScore != 150 {
		t.Errorf("Unexpected score stats: %+v", stats)
	}
	if stats.AvgScore != 75 {
		t.Errorf("Expected average 75, got %v", stats.AvgScore)
	}
	if stats.Wins != 1 || stats.TotalWaste != 14 {
		t.Errorf("Expected 1 win and 14 waste, got %d and %d", stats.Wins, stats.TotalWaste)
	}

	all, err := store.GetAllGamesStats()
	if err != nil {
		t.Fatalf("GetAllGamesStats() failed: %v", err)
	}
	if len(all) != 2 || all["gold"].HighScore != 500 {
		t.Errorf("Unexpected all-games stats: %v", all)
	}
}

func TestStoreClearScoresRemovesRuns(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(Run{GameID: "gold", Money: 10, Outcome: "wrecked"})
	store.SaveRun(Run{GameID: "cleanup", Money: 10, Outcome: "won"})

	if err := store.ClearScores("gold"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	gold, _ := store.RecentRuns("gold", 10)
	if len(gold) != 0 {
		t.Errorf("Expected gold runs cleared, got %d", len(gold))
	}
	cleanup, _ := store.RecentRuns("cleanup", 10)
	if len(cleanup) != 1 {
		t.Errorf("Expected cleanup runs kept, got %d", len(cleanup))
	}
}
