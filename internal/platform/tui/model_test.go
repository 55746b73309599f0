package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/digger/internal/core"
	"github.com/vovakirdan/digger/internal/storage"
)

// fakeGame records what the model feeds it.
type fakeGame struct {
	resets  int
	resized [][2]int
	frames  []core.InputFrame
	state   core.GameState
	closed  bool
}

func (g *fakeGame) ID() string                   { return "fake" }
func (g *fakeGame) Title() string                { return "Fake" }
func (g *fakeGame) Reset(cfg core.RuntimeConfig) { g.resets++ }
func (g *fakeGame) State() core.GameState        { return g.state }
func (g *fakeGame) Resize(w, h int)              { g.resized = append(g.resized, [2]int{w, h}) }
func (g *fakeGame) Close()                       { g.closed = true }

func (g *fakeGame) Step(in core.InputFrame) core.StepResult {
	g.frames = append(g.frames, in.Clone())
	return core.StepResult{State: g.state}
}

func (g *fakeGame) Render(dst *core.Screen) {
	dst.DrawText(0, 0, "fake")
}

func (g *fakeGame) lastFrame(t *testing.T) core.InputFrame {
	t.Helper()
	if len(g.frames) == 0 {
		t.Fatal("game was never stepped")
	}
	return g.frames[len(g.frames)-1]
}

// testModel builds a model with a controllable clock.
func testModel(t *testing.T, store *storage.Store) (Model, *fakeGame, *time.Time) {
	t.Helper()
	game := &fakeGame{}
	m := NewModel(game, store, core.RuntimeConfig{ScreenW: 40, ScreenH: 10, TickRate: 60, Seed: 3})
	clock := time.Unix(1000, 0)
	m.now = func() time.Time { return clock }
	m.runStarted = clock
	m.holds = core.NewHoldTracker(100 * time.Millisecond)
	return m, game, &clock
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func TestModelFeedsHeldKeys(t *testing.T) {
	m, game, clock := testModel(t, nil)

	m, _ = send(t, m, runeKey('d'))
	m, _ = send(t, m, TickMsg(*clock))

	first := game.lastFrame(t)
	if !first.Has(core.ActionRight) || !first.IsHeld(core.ActionRight) {
		t.Errorf("first tick should carry Right pressed and held, got %+v", first)
	}

	// Still held on the next tick, but no longer freshly pressed
	*clock = clock.Add(50 * time.Millisecond)
	m, _ = send(t, m, TickMsg(*clock))
	second := game.lastFrame(t)
	if second.Has(core.ActionRight) {
		t.Error("press should be cleared after one tick")
	}
	if !second.IsHeld(core.ActionRight) {
		t.Error("Right should still be held inside the window")
	}

	*clock = clock.Add(time.Second)
	_, _ = send(t, m, TickMsg(*clock))
	if game.lastFrame(t).IsHeld(core.ActionRight) {
		t.Error("Right should be released after the window")
	}
}

func TestModelMouse(t *testing.T) {
	m, game, clock := testModel(t, nil)

	m, _ = send(t, m, tea.MouseMsg{X: 4, Y: 2, Action: tea.MouseActionMotion})
	m, _ = send(t, m, TickMsg(*clock))
	f := game.lastFrame(t)
	if f.Pointer == nil || f.Pointer.X != 4 || f.Pointer.Y != 2 {
		t.Fatalf("pointer = %+v, want (4,2)", f.Pointer)
	}
	if f.Click {
		t.Error("motion should not click")
	}

	m, _ = send(t, m, tea.MouseMsg{X: 5, Y: 3, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m, _ = send(t, m, TickMsg(*clock))
	if !game.lastFrame(t).Click {
		t.Error("left press should click")
	}

	_, _ = send(t, m, TickMsg(*clock))
	f = game.lastFrame(t)
	if f.Click {
		t.Error("click should last a single tick")
	}
	if f.Pointer == nil || f.Pointer.X != 5 {
		t.Error("pointer should persist between ticks")
	}
}

func TestModelResizeKeepsSession(t *testing.T) {
	m, game, _ := testModel(t, nil)

	m, _ = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if game.resets != 0 {
		t.Errorf("resize reset the game %d times", game.resets)
	}
	if len(game.resized) != 1 || game.resized[0] != [2]int{100, 30} {
		t.Errorf("resized = %v", game.resized)
	}
	if m.screen.Width() != 100 || m.screen.Height() != 30 {
		t.Errorf("screen = %dx%d", m.screen.Width(), m.screen.Height())
	}
}

func TestModelSavesEachRunOnce(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	m, game, clock := testModel(t, store)

	*clock = clock.Add(90 * time.Second)
	game.state = core.GameState{Score: 35, GameOver: true, Outcome: "out of fuel", Extra: 2}
	for i := 0; i < 5; i++ {
		m, _ = send(t, m, TickMsg(*clock))
	}

	runs, err := store.RecentRuns("fake", 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs after one game over, want 1", len(runs))
	}
	r := runs[0]
	if r.Money != 35 || r.Waste != 2 || r.Outcome != "out of fuel" || r.Seed != 3 {
		t.Errorf("run = %+v", r)
	}
	if r.Duration != 90*time.Second {
		t.Errorf("duration = %v, want 90s", r.Duration)
	}

	// The game restarts itself and ends again
	game.state = core.GameState{}
	m, _ = send(t, m, TickMsg(*clock))
	*clock = clock.Add(10 * time.Second)
	game.state = core.GameState{Score: 7, GameOver: true, Outcome: "wrecked"}
	_, _ = send(t, m, TickMsg(*clock))

	runs, err = store.RecentRuns("fake", 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].Money != 7 || runs[0].Duration != 10*time.Second {
		t.Errorf("latest run = %+v", runs[0])
	}
}

func TestModelBackAndQuit(t *testing.T) {
	m, _, clock := testModel(t, nil)

	// Back is ignored while playing
	m, _ = send(t, m, runeKey('b'))
	if m.BackToMenu() {
		t.Fatal("back should be ignored during play")
	}

	m.gameState.GameOver = true
	m, cmd := send(t, m, runeKey('b'))
	if !m.BackToMenu() {
		t.Error("back should leave a finished game")
	}
	if cmd != nil {
		t.Error("embedded model should not quit on back")
	}

	m.exitOnBack = true
	m.backToMenu = false
	_, cmd = send(t, m, runeKey('b'))
	if cmd == nil {
		t.Error("standalone model should quit on back")
	}

	m, _ = send(t, m, TickMsg(*clock))
	m, cmd = send(t, m, runeKey('q'))
	if !m.IsQuitting() || cmd == nil {
		t.Error("q should quit")
	}
	if m.View() != "" {
		t.Error("quitting model should render nothing")
	}
}

func TestModelView(t *testing.T) {
	m, _, _ := testModel(t, nil)
	if !strings.Contains(m.View(), "fake") {
		t.Errorf("view should contain the game render, got %q", m.View())
	}
}

func TestCloseGame(t *testing.T) {
	game := &fakeGame{}
	closeGame(game)
	if !game.closed {
		t.Error("closeGame should close games holding resources")
	}
}

func TestSessionMutesAndReturnsToMenu(t *testing.T) {
	s := NewSessionModel(nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1}, "tester")
	if !strings.Contains(s.View(), "D I G G E R") {
		t.Fatalf("session should open on the menu, got %q", s.View())
	}

	next, _ := s.Update(tea.KeyMsg{Type: tea.KeyTab})
	s = next.(SessionModel)
	if s.scoreboard == nil {
		t.Fatal("tab should open the scoreboard")
	}
	next, _ = s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	s = next.(SessionModel)
	if s.scoreboard != nil {
		t.Error("esc should return to the menu")
	}

	next, cmd := s.Update(runeKey('q'))
	s = next.(SessionModel)
	if !s.quitting || cmd == nil {
		t.Error("q should end the session")
	}
}

func TestModelFlagsNewBest(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()
	if _, err := store.SaveRun(storage.Run{GameID: "fake", Money: 50}); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	m, game, clock := testModel(t, store)
	game.state = core.GameState{Score: 40, GameOver: true}
	m, _ = send(t, m, TickMsg(*clock))
	if m.NewBest() || strings.Contains(m.View(), "New best") {
		t.Error("a run below the record should not be flagged")
	}

	game.state = core.GameState{}
	m, _ = send(t, m, TickMsg(*clock))
	game.state = core.GameState{Score: 1250, GameOver: true}
	m, _ = send(t, m, TickMsg(*clock))
	if !m.NewBest() {
		t.Fatal("a run above the record should be flagged")
	}
	if !strings.Contains(m.View(), "New best: $1,250") {
		t.Errorf("view should announce the record, got %q", m.View())
	}

	game.state = core.GameState{}
	m, _ = send(t, m, TickMsg(*clock))
	if m.NewBest() {
		t.Error("a restart should clear the record flag")
	}
}
