package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/digger/internal/core"
	"github.com/vovakirdan/digger/internal/registry"
	"github.com/vovakirdan/digger/internal/storage"
)

var holdWindow = 150 * time.Millisecond

// SetHoldWindow sets how long a key counts as held after its last press
// or auto-repeat.
func SetHoldWindow(d time.Duration) {
	if d > 0 {
		holdWindow = d
	}
}

// Model is the Bubble Tea model for running a game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	holds      *core.HoldTracker
	keyMapper  *KeyMapper
	gameState  core.GameState
	now        func() time.Time
	runStarted time.Time
	exitOnBack bool // Quit the program instead of returning to a menu
	quitting   bool
	backToMenu bool
	runSaved   bool // Whether the current run has been saved
	newBest    bool // The saved run beat the previous best
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		holds:      core.NewHoldTracker(holdWindow),
		keyMapper:  NewKeyMapper(),
		now:        time.Now,
		runStarted: time.Now(),
	}
}

// Init starts the game and the tick loop.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame, m.holds, m.now()) {
		m.quitting = true
		return m, tea.Quit
	}

	// Back leaves the game once the run is over or paused
	if m.inputFrame.Has(core.ActionBack) && (m.gameState.GameOver || m.gameState.Paused) {
		m.backToMenu = true
		if m.exitOnBack {
			return m, tea.Quit
		}
	}

	return m, nil
}

// handleMouse tracks the pointer and primary clicks.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	m.inputFrame.Pointer = &core.Pointer{X: msg.X, Y: msg.Y}
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		m.inputFrame.Click = true
	}
	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if r, ok := m.game.(registry.Resizer); ok {
		r.Resize(msg.Width, msg.Height)
	} else if !m.gameState.GameOver {
		m.game.Reset(m.config)
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	now := m.now()
	m.holds.Fill(&m.inputFrame, now)

	prev := m.gameState
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	// The game restarted on its own
	if prev.GameOver && !m.gameState.GameOver {
		m.runSaved = false
		m.newBest = false
		m.runStarted = now
	}

	// Save the run on game over (once)
	if m.gameState.GameOver && !m.runSaved {
		m.saveRun(now)
		m.runSaved = true
	}

	// Clear input for next frame
	m.inputFrame.Clear()

	return m, tickCmd(m.config.TickRate)
}

// saveRun records the finished run. Failures are logged; play continues.
func (m *Model) saveRun(now time.Time) {
	if m.store == nil {
		return
	}
	run := storage.Run{
		GameID:   m.game.ID(),
		Money:    m.gameState.Score,
		Waste:    m.gameState.Extra,
		Outcome:  m.gameState.Outcome,
		Duration: now.Sub(m.runStarted),
		Seed:     m.config.Seed,
	}
	best, bestErr := m.store.HighScore(run.GameID)
	if bestErr != nil {
		logger.Warn("could not read best run", "game", run.GameID, "err", bestErr)
	}
	id, err := m.store.SaveRun(run)
	if err != nil {
		logger.Warn("could not save run", "game", run.GameID, "err", err)
		return
	}
	logger.Info("run saved", "id", id, "game", run.GameID, "money", run.Money, "outcome", run.Outcome)
	if bestErr == nil && run.Money > best {
		m.newBest = true
		logger.Info("new best run", "game", run.GameID, "money", run.Money, "previous", best)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		logger.Warn("screenshot skipped", "err", err)
		return
	}
	dir := filepath.Join(home, ".digger", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Warn("screenshot skipped", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		logger.Warn("screenshot failed", "path", path, "err", err)
		return
	}
	logger.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	if m.newBest && m.gameState.GameOver {
		text := fmt.Sprintf(" New best: $%s ", humanize.Comma(int64(m.gameState.Score)))
		x := max((m.screen.Width()-len(text))/2, 0)
		m.screen.DrawTextColor(x, m.screen.Height()-1, text, core.ColorBrightYellow)
	}
	return RenderScreen(m.screen)
}

// NewBest reports whether the last saved run set a record for its game.
func (m Model) NewBest() bool {
	return m.newBest
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// GameState returns the state reported by the last tick.
func (m Model) GameState() core.GameState {
	return m.gameState
}

// closeGame releases game resources such as the audio device.
func closeGame(g registry.Game) {
	if c, ok := g.(registry.Closer); ok {
		c.Close()
	}
}

// Run starts the Bubble Tea program with the given game.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) error {
	model := NewModel(game, store, cfg)
	model.exitOnBack = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseAllMotion(), // Hover and click on buttons
	)

	_, err := p.Run()
	closeGame(game)
	return err
}
