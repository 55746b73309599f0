package digger

import (
	"fmt"
	"io"
	"math"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/digger/internal/audio"
	"github.com/vovakirdan/digger/internal/config"
	"github.com/vovakirdan/digger/internal/core"
	"github.com/vovakirdan/digger/internal/engine"
)

const frameDelta = 1.0 / 60.0

var legend = map[rune]Tile{
	' ': TileNone,
	'.': TileBackground,
	'B': TileBorder,
	'b': TileBase,
	'#': TileStone,
	'g': TileGold,
	's': TileSilver,
	'd': TileDiamond,
	'T': TileTankUpgrade,
	'W': TileWaste,
}

// parseMap builds a map from rows drawn top to bottom.
func parseMap(t *testing.T, tileSize float64, rows ...string) *Map {
	t.Helper()
	h, w := len(rows), len(rows[0])
	m := &Map{Width: w, Height: h, TileSize: tileSize, Tiles: make([][]Tile, h)}
	for i, row := range rows {
		if len(row) != w {
			t.Fatalf("row %d has width %d, expected %d", i, len(row), w)
		}
		y := h - 1 - i
		m.Tiles[y] = make([]Tile, w)
		for x, c := range row {
			tile, ok := legend[c]
			if !ok {
				t.Fatalf("unknown tile %q", c)
			}
			m.Tiles[y][x] = tile
		}
	}
	m.Base = core.V(-1000, -1000)
	return m
}

// newWorld prepares a world with every resource the Playing systems use.
func newWorld(t *testing.T, variant string, rows ...string) *engine.World {
	t.Helper()
	cfg, ok := config.DefaultConfig(variant)
	if !ok {
		t.Fatalf("unknown variant %q", variant)
	}
	w := engine.NewWorld()
	engine.Insert(w, &cfg)
	rules := NewRules(cfg.Rules)
	engine.Insert(w, &rules)
	engine.Insert(w, log.New(io.Discard))
	tex := NewTextureAssets(config.DefaultTileset())
	engine.Insert(w, &tex)
	st := NewDiggerState(cfg.Digger)
	engine.Insert(w, &st)
	engine.Insert(w, &Actions{})
	engine.Insert(w, &Base{})
	engine.Insert(w, parseMap(t, cfg.Map.TileSize, rows...))
	renderMap(w)
	engine.MustResource[engine.Time](w).Delta = frameDelta
	return w
}

// spawnAt places the digger with its center at (x, y) pixels.
func spawnAt(w *engine.World, x, y float64) *Transform {
	e := w.Spawn(Digger{}, Transform{Pos: core.V(x, y)}, Sprite{})
	tr, _ := engine.Get[Transform](w, e)
	return tr
}

// standingY is the center height of a digger resting on top of row y.
func standingY(y int) float64 {
	return float64(y)*32 + 16 + 0.5 + 10
}

// runFrames runs the Playing digger systems in order.
func runFrames(w *engine.World, n int) {
	for i := 0; i < n; i++ {
		moveDigger(w)
		markMiningTarget(w)
		loseFuel(w)
		updateFallAndFly(w)
		dig(w)
	}
}

func state(w *engine.World) *DiggerState {
	return engine.MustResource[DiggerState](w)
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

// recorder is an audio.Player that logs calls.
type recorder struct {
	calls []string
}

func (r *recorder) add(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recorder) SetVolume(ch audio.Channel, v float64) { r.add("volume %s %.1f", ch, v) }
func (r *recorder) PlayLooped(ch audio.Channel, s audio.Sound) {
	r.add("loop %s %v", ch, s.Kind)
}
func (r *recorder) Pause(ch audio.Channel)  { r.add("pause %s", ch) }
func (r *recorder) Resume(ch audio.Channel) { r.add("resume %s", ch) }
func (r *recorder) Stop(ch audio.Channel)   { r.add("stop %s", ch) }
func (r *recorder) Play(s audio.Sound)      { r.add("play %v", s.Kind) }
func (r *recorder) Close()                  { r.add("close") }

func (r *recorder) count(call string) int {
	n := 0
	for _, c := range r.calls {
		if c == call {
			n++
		}
	}
	return n
}

// newTestApp builds a full app with assets already loaded.
func newTestApp(t *testing.T, variant string, initial GameState, p audio.Player) *engine.App[GameState] {
	t.Helper()
	cfg, ok := config.DefaultConfig(variant)
	if !ok {
		t.Fatalf("unknown variant %q", variant)
	}
	app := engine.NewApp(initial)
	app.AddPlugin(GamePlugin{Options: Options{Config: cfg, Seed: 7, Player: p}})
	w := app.World()
	tex := NewTextureAssets(config.DefaultTileset())
	engine.Insert(w, &tex)
	engine.Insert(w, &AudioAssets{
		Digging: audio.Sound{Kind: audio.KindDig},
		Flying:  audio.Sound{Kind: audio.KindFlight},
		Waste:   audio.Sound{Kind: audio.KindWaste},
		Fuel:    audio.Sound{Kind: audio.KindFuel},
		Landing: audio.Sound{Kind: audio.KindThud},
	})
	return app
}

// update runs one frame with the given input.
func update(t *testing.T, app *engine.App[GameState], frame core.InputFrame) {
	t.Helper()
	engine.MustResource[Input](app.World()).Frame = frame
	if err := app.Update(frameDelta); err != nil {
		t.Fatalf("update: %v", err)
	}
	engine.MustResource[Input](app.World()).Frame = core.NewInputFrame()
}

func pressed(actions ...core.Action) core.InputFrame {
	f := core.NewInputFrame()
	for _, a := range actions {
		f.Set(a)
	}
	return f
}
