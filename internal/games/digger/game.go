// Package digger implements Gold Digger and The Cleanup, a mining
// platformer: fly and dig through a tile grid on a limited tank of fuel,
// refuel at the base, and collect minerals or buried waste.
//
// The game is a set of plugins over the engine package. Systems hang off
// the enter/update/exit hooks of the Loading, Menu, GeneratingMap, Playing
// and Restart states, and share data through engine resources.
package digger

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/digger/internal/audio"
	"github.com/vovakirdan/digger/internal/config"
	"github.com/vovakirdan/digger/internal/core"
	"github.com/vovakirdan/digger/internal/engine"
)

var (
	configPath  string
	tilesetPath string
	muted       bool
	logger      = log.New(io.Discard)
)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetTilesetPath sets the custom tileset path for loading.
func SetTilesetPath(path string) {
	tilesetPath = path
}

// SetMuted disables sound output for games created afterwards.
func SetMuted(m bool) {
	muted = m
}

// SetLogger sets the logger games write to.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

// Game runs one variant as a platform game.
type Game struct {
	variant    string
	title      string
	runtime    core.RuntimeConfig
	app        *engine.App[GameState]
	player     audio.Player
	ownsPlayer bool
	paused     bool
	err        error
}

// New creates a game for a variant ("gold" or "cleanup").
func New(variant string) *Game {
	cfg, _ := config.DefaultConfig(variant)
	return &Game{variant: variant, title: cfg.Rules.Title}
}

// ID returns the variant identifier.
func (g *Game) ID() string {
	return g.variant
}

// Title returns the display name.
func (g *Game) Title() string {
	return g.title
}

// SetPlayer replaces the sound output. Remote sessions pass audio.Nop.
func (g *Game) SetPlayer(p audio.Player) {
	g.closePlayer()
	g.player = p
}

// Close releases the sound output if the game opened it.
func (g *Game) Close() {
	g.closePlayer()
	g.player = nil
}

func (g *Game) closePlayer() {
	if g.ownsPlayer && g.player != nil {
		g.player.Close()
	}
	g.ownsPlayer = false
}

func (g *Game) openPlayer(cfg config.AudioSettings) audio.Player {
	if muted {
		return audio.Nop{}
	}
	sm := audio.NewSoundManager(cfg.SampleRate)
	if err := sm.Initialize(); err != nil {
		logger.Warn("audio disabled", "err", err)
		return audio.Nop{}
	}
	g.ownsPlayer = true
	return sm
}

// Reset starts a new session from the loading screen.
func (g *Game) Reset(rt core.RuntimeConfig) {
	g.runtime = rt
	g.paused = false
	g.err = nil

	cfg, err := config.Load(g.variant, configPath)
	if err != nil {
		logger.Error("config load failed, using defaults", "variant", g.variant, "err", err)
		cfg, _ = config.DefaultConfig(g.variant)
	}

	if g.player == nil {
		g.player = g.openPlayer(cfg.Audio)
	} else {
		g.player.Stop(audio.ChannelFlying)
		g.player.Stop(audio.ChannelDigging)
	}

	g.app = NewApp(Options{
		Config:      cfg,
		TilesetPath: tilesetPath,
		Seed:        rt.Seed,
		Player:      g.player,
		Logger:      logger.With("variant", g.variant),
	})
	g.Resize(rt.ScreenW, rt.ScreenH)
	logger.Info("game reset", "variant", g.variant, "seed", rt.Seed)
}

// Resize updates the screen size without restarting.
func (g *Game) Resize(width, height int) {
	g.runtime.ScreenW = width
	g.runtime.ScreenH = height
	if g.app != nil {
		engine.Insert(g.app.World(), &Viewport{W: width, H: height})
	}
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.app == nil {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) && g.app.State() == StatePlaying {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	engine.MustResource[Input](g.app.World()).Frame = in
	if err := g.app.Update(g.runtime.DeltaSeconds()); err != nil {
		g.err = err
		logger.Error("frame failed", "variant", g.variant, "err", err)
	}
	return core.StepResult{State: g.State()}
}

// State reports money as the score; the run is over once the digger is
// dead while Playing.
func (g *Game) State() core.GameState {
	if g.app == nil {
		return core.GameState{}
	}
	st, ok := engine.Resource[DiggerState](g.app.World())
	if !ok {
		return core.GameState{Paused: g.paused}
	}
	return core.GameState{
		Score:    int(math.Round(st.Money)),
		GameOver: g.app.State() == StatePlaying && st.Dead,
		Paused:   g.paused,
		Outcome:  st.Outcome.String(),
		Extra:    st.Waste,
	}
}

// Phase returns the current state machine state.
func (g *Game) Phase() GameState {
	if g.app == nil {
		return StateLoading
	}
	return g.app.State()
}

// Err returns the last frame error, if any.
func (g *Game) Err() error {
	return g.err
}
