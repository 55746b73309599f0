package digger

import "github.com/vovakirdan/digger/internal/engine"

// GameState is the top-level state machine of a game session.
type GameState int

const (
	StateLoading GameState = iota
	StateMenu
	StateGeneratingMap
	StatePlaying
	StateRestart
)

func (s GameState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateMenu:
		return "menu"
	case StateGeneratingMap:
		return "generating map"
	case StatePlaying:
		return "playing"
	case StateRestart:
		return "restart"
	default:
		return "unknown"
	}
}

// RestartPlugin sends a restarted game back through map generation.
type RestartPlugin struct{}

// Build registers the restart transition.
func (RestartPlugin) Build(app *engine.App[GameState]) {
	app.OnEnter(StateRestart, switchToGame)
}

func switchToGame(w *engine.World) {
	engine.MustResource[engine.State[GameState]](w).Set(StateGeneratingMap)
}
