package digger

import (
	"github.com/vovakirdan/digger/internal/config"
	"github.com/vovakirdan/digger/internal/core"
	"github.com/vovakirdan/digger/internal/engine"
)

// MenuNode marks entities that belong to the main menu.
type MenuNode struct{}

// MenuPlugin shows the title and the Play button.
type MenuPlugin struct{}

// Build registers the menu systems.
func (MenuPlugin) Build(app *engine.App[GameState]) {
	app.OnEnter(StateMenu, setupMenu)
	app.OnUpdate(StateMenu, clickPlayButton)
	app.OnExit(StateMenu, cleanupMenu)
}

func setupMenu(w *engine.World) {
	title := engine.MustResource[config.DiggerConfig](w).Rules.Title
	w.Spawn(MenuNode{}, Text{Slot: SlotBanner, Value: title, Color: core.ColorBrightYellow})
	w.Spawn(MenuNode{}, Button{Action: ButtonPlay, Label: "Play", OffsetY: 1})
}

func clickPlayButton(w *engine.World) {
	for _, e := range engine.Query[Button](w) {
		b, _ := engine.Get[Button](w, e)
		if b.Action == ButtonPlay && b.Interaction == InteractionClicked {
			engine.MustResource[engine.State[GameState]](w).Set(StateGeneratingMap)
			return
		}
	}
}

func cleanupMenu(w *engine.World) {
	for _, e := range engine.Query[MenuNode](w) {
		w.Despawn(e)
	}
}
