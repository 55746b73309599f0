package digger

import (
	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"

	"github.com/vovakirdan/digger/internal/audio"
	"github.com/vovakirdan/digger/internal/config"
	"github.com/vovakirdan/digger/internal/core"
	"github.com/vovakirdan/digger/internal/engine"
)

// LoadingIndicator marks the loading text.
type LoadingIndicator struct{}

type loadResult struct {
	textures TextureAssets
	audio    AudioAssets
	err      error
}

// loadingTask is the in-flight asset load.
type loadingTask struct {
	done chan loadResult
}

// LoadingPlugin loads the tileset and synthesizes sounds in the background,
// then moves on to the menu.
type LoadingPlugin struct {
	TilesetPath string
	SampleRate  int
}

// Build registers the loading systems.
func (p LoadingPlugin) Build(app *engine.App[GameState]) {
	app.OnEnter(StateLoading, p.startLoading)
	app.OnUpdate(StateLoading, checkState)
	app.OnExit(StateLoading, cleanUpLoading)
}

func (p LoadingPlugin) startLoading(w *engine.World) {
	w.Spawn(LoadingIndicator{}, Text{Slot: SlotCenter, Value: "Loading...", Color: core.ColorGray})

	task := &loadingTask{done: make(chan loadResult, 1)}
	engine.Insert(w, task)
	go func() {
		task.done <- loadAssets(p.TilesetPath, p.SampleRate)
	}()
}

// loadAssets falls back to the default tileset when the configured one fails.
func loadAssets(tilesetPath string, sampleRate int) loadResult {
	var res loadResult
	ts, err := config.LoadTileset(tilesetPath)
	if err != nil {
		res.err = err
		ts = config.DefaultTileset()
	}
	res.textures = NewTextureAssets(ts)

	sr := beep.SampleRate(sampleRate)
	if sr <= 0 {
		sr = audio.DefaultSampleRate
	}
	res.audio = newAudioAssets(audio.SynthesizeAll(sr))
	return res
}

// checkState polls the load without blocking the frame.
func checkState(w *engine.World) {
	task, ok := engine.Resource[loadingTask](w)
	if !ok {
		return
	}
	select {
	case res := <-task.done:
		if res.err != nil {
			engine.MustResource[log.Logger](w).Warn("using default tileset", "err", res.err)
		}
		engine.Insert(w, &res.textures)
		engine.Insert(w, &res.audio)
		engine.MustResource[engine.State[GameState]](w).Set(StateMenu)
	default:
	}
}

func cleanUpLoading(w *engine.World) {
	for _, e := range engine.Query[LoadingIndicator](w) {
		w.Despawn(e)
	}
	engine.Remove[loadingTask](w)
}
