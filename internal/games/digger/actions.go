package digger

import (
	"github.com/vovakirdan/digger/internal/core"
	"github.com/vovakirdan/digger/internal/engine"
)

// Input is the platform input for the current frame.
type Input struct {
	Frame core.InputFrame
}

// Actions is what the player wants the digger to do this frame.
type Actions struct {
	Movement   *float64 // -1 left, 1 right, 0 still; nil when no movement key is held
	Flying     bool
	MiningDown bool
}

// ActionsPlugin derives Actions from Input while Playing.
type ActionsPlugin struct{}

// Build registers the action systems.
func (ActionsPlugin) Build(app *engine.App[GameState]) {
	engine.InitResource[Actions](app.World())
	app.OnUpdate(StatePlaying, setMovementActions)
	app.OnExit(StatePlaying, clearActions)
}

// setMovementActions maps held keys to actions. Mining down only happens
// while nothing else is held, so the digger is standing still.
func setMovementActions(w *engine.World) {
	frame := engine.MustResource[Input](w).Frame
	actions := engine.MustResource[Actions](w)

	left := frame.IsHeld(core.ActionLeft)
	right := frame.IsHeld(core.ActionRight)
	actions.Flying = frame.IsHeld(core.ActionFly)

	if actions.Flying || left || right {
		actions.MiningDown = false
		movement := 0.0
		switch {
		case right:
			movement = 1
		case left:
			movement = -1
		}
		actions.Movement = &movement
		return
	}
	actions.Movement = nil
	actions.MiningDown = frame.IsHeld(core.ActionMineDown)
}

func clearActions(w *engine.World) {
	*engine.MustResource[Actions](w) = Actions{}
}
