package digger

import (
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/digger/internal/audio"
	"github.com/vovakirdan/digger/internal/config"
	"github.com/vovakirdan/digger/internal/engine"
)

// Options configure a game app.
type Options struct {
	Config      config.DiggerConfig
	TilesetPath string
	Seed        int64
	Player      audio.Player
	Logger      *log.Logger
}

// GamePlugin installs the shared resources and every game plugin.
type GamePlugin struct {
	Options
}

// Build wires the plugins in the order their systems must run.
func (p GamePlugin) Build(app *engine.App[GameState]) {
	w := app.World()

	cfg := p.Config
	engine.Insert(w, &cfg)
	rules := NewRules(cfg.Rules)
	engine.Insert(w, &rules)

	logger := p.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	engine.Insert(w, logger)
	engine.Insert(w, rand.New(rand.NewSource(p.Seed)))
	engine.InitResource[Input](w)

	app.AddPlugin(LoadingPlugin{TilesetPath: p.TilesetPath, SampleRate: cfg.Audio.SampleRate}).
		AddPlugin(ActionsPlugin{}).
		AddPlugin(MapPlugin{}).
		AddPlugin(DiggerPlugin{}).
		AddPlugin(BasePlugin{}).
		AddPlugin(UIPlugin{}).
		AddPlugin(MenuPlugin{}).
		AddPlugin(AudioPlugin{Player: p.Player}).
		AddPlugin(DiagnosticsPlugin{}).
		AddPlugin(RestartPlugin{})
}

// NewApp creates a game app that starts by loading assets.
func NewApp(opts Options) *engine.App[GameState] {
	app := engine.NewApp(StateLoading)
	app.AddPlugin(GamePlugin{Options: opts})
	return app
}
