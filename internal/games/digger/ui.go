package digger

import (
	"fmt"
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/digger/internal/config"
	"github.com/vovakirdan/digger/internal/core"
	"github.com/vovakirdan/digger/internal/engine"
)

// Viewport is the size of the screen the game renders to, in cells.
type Viewport struct {
	W, H int
}

// Slot is where a text is anchored on screen.
type Slot int

const (
	SlotTopLeft Slot = iota
	SlotTopRight
	SlotSecondLeft
	SlotSecondRight
	SlotBanner
	SlotCenter
)

// Text is a line of UI text.
type Text struct {
	Slot  Slot
	Value string
	Color core.Color
}

// Interaction is the pointer/keyboard state of a button.
type Interaction int

const (
	InteractionNone Interaction = iota
	InteractionHovered
	InteractionClicked
)

// ButtonAction is what a button does when clicked.
type ButtonAction int

const (
	ButtonPlay ButtonAction = iota
	ButtonRestart
)

// Button is a clickable box centered on screen.
type Button struct {
	Action      ButtonAction
	Label       string
	OffsetY     int // Rows below the screen center
	Interaction Interaction
	Rect        core.Rect
}

// UI markers.
type (
	UINode     struct{}
	HealthText struct{}
	FuelText   struct{}
	MoneyText  struct{}
	WasteText  struct{}
	BaseText   struct{}
)

// layout centers the button on a screen of the given size.
func (b *Button) layout(screenW, screenH int) {
	b.Rect = core.CenteredRect(screenW, screenH, len([]rune(b.Label))+6, 3)
	b.Rect.Y += b.OffsetY
}

const wonMessage = "You did it! Thank you!"

// UIPlugin shows the HUD and the end-of-run screens.
type UIPlugin struct{}

// Build registers the UI systems.
func (UIPlugin) Build(app *engine.App[GameState]) {
	w := app.World()
	if _, ok := engine.Resource[Viewport](w); !ok {
		engine.Insert(w, &Viewport{W: 80, H: 24})
	}
	app.AddSystem(buttonInteraction)
	app.OnEnter(StatePlaying, initLife)
	app.OnUpdate(StatePlaying,
		updateGameState,
		retrySystem,
		clickRetryButton,
		updateBaseText,
		updateWasteText,
		won,
	)
	app.OnExit(StatePlaying, removeUI)
}

// buttonInteraction lays out buttons and derives their interaction from the
// pointer. Confirm clicks the first button; Restart clicks a restart button.
func buttonInteraction(w *engine.World) {
	frame := engine.MustResource[Input](w).Frame
	vp := engine.MustResource[Viewport](w)
	for i, e := range engine.Query[Button](w) {
		b, _ := engine.Get[Button](w, e)
		b.layout(vp.W, vp.H)

		b.Interaction = InteractionNone
		if p := frame.Pointer; p != nil && b.Rect.Contains(p.X, p.Y) {
			b.Interaction = InteractionHovered
			if frame.Click {
				b.Interaction = InteractionClicked
			}
		}
		if (i == 0 && frame.Has(core.ActionConfirm)) ||
			(b.Action == ButtonRestart && frame.Has(core.ActionRestart)) {
			b.Interaction = InteractionClicked
		}
	}
}

func spawnText(w *engine.World, slot Slot, value string, markers ...any) engine.Entity {
	components := append([]any{UINode{}, Text{Slot: slot, Value: value, Color: core.ColorWhite}}, markers...)
	return w.Spawn(components...)
}

func initLife(w *engine.World) {
	st := engine.MustResource[DiggerState](w)
	cfg := engine.MustResource[config.DiggerConfig](w)
	spawnText(w, SlotTopLeft, fuelLine(st), FuelText{})
	spawnText(w, SlotTopRight, moneyLine(st), MoneyText{})
	spawnText(w, SlotSecondLeft, "", BaseText{})
	if cfg.Rules.Health {
		spawnText(w, SlotSecondRight, healthLine(st), HealthText{})
	}
	if cfg.Rules.WasteGoal > 0 {
		spawnText(w, SlotSecondRight, wasteLine(st.Waste, wasteGoal(w)), WasteText{})
	}
}

func fuelLine(st *DiggerState) string {
	return fmt.Sprintf("Fuel: %gl/%gl", math.Round(st.Fuel), st.FuelMax)
}

func moneyLine(st *DiggerState) string {
	return fmt.Sprintf("$ %g", math.Round(st.Money))
}

func healthLine(st *DiggerState) string {
	return fmt.Sprintf("Health: %g/%g", math.Round(st.Health), st.HealthMax)
}

func wasteLine(n, goal int) string {
	return fmt.Sprintf("Collected waste %d/%d", n, goal)
}

// wasteGoal is the configured goal, lowered when generation placed fewer waste tiles.
func wasteGoal(w *engine.World) int {
	goal := engine.MustResource[config.DiggerConfig](w).Rules.WasteGoal
	if m, ok := engine.Resource[Map](w); ok && m.WastePlaced < goal {
		return m.WastePlaced
	}
	return goal
}

func setText[M any](w *engine.World, value string) {
	for _, e := range engine.Query[M](w) {
		if t, ok := engine.Get[Text](w, e); ok {
			t.Value = value
		}
	}
}

func updateGameState(w *engine.World) {
	st := engine.MustResource[DiggerState](w)
	setText[HealthText](w, healthLine(st))
	setText[MoneyText](w, moneyLine(st))
	setText[FuelText](w, fuelLine(st))
}

func updateBaseText(w *engine.World) {
	text := ""
	if engine.MustResource[Base](w).Active {
		price := engine.MustResource[config.DiggerConfig](w).Rules.RefuelPrice
		text = "Refueling for free"
		if price > 0 {
			text = fmt.Sprintf("Refueling for %g$/l", price)
		}
	}
	setText[BaseText](w, text)
}

func updateWasteText(w *engine.World) {
	st := engine.MustResource[DiggerState](w)
	setText[WasteText](w, wasteLine(st.Waste, wasteGoal(w)))
}

// endRun marks the digger dead and shows a message with a Restart button.
func endRun(w *engine.World, outcome Outcome, message string) {
	st := engine.MustResource[DiggerState](w)
	st.Dead = true
	st.Outcome = outcome
	st.clearTarget()
	spawnText(w, SlotBanner, message)
	w.Spawn(UINode{}, Button{Action: ButtonRestart, Label: "Restart", OffsetY: 1})
	engine.MustResource[log.Logger](w).Info("run ended",
		"outcome", outcome, "money", math.Round(st.Money), "waste", st.Waste)
}

// retrySystem ends the run when the digger runs out of fuel or health.
func retrySystem(w *engine.World) {
	st := engine.MustResource[DiggerState](w)
	if st.Dead {
		return
	}
	health := engine.MustResource[config.DiggerConfig](w).Rules.Health
	switch {
	case st.Fuel <= 0:
		endRun(w, OutcomeOutOfFuel, "Out of fuel")
	case health && st.Health <= 0:
		endRun(w, OutcomeWrecked, "Your digger is wrecked")
	}
}

// won ends the run once all the waste is collected.
func won(w *engine.World) {
	st := engine.MustResource[DiggerState](w)
	if st.Dead {
		return
	}
	goal := wasteGoal(w)
	if goal > 0 && st.Waste >= goal {
		endRun(w, OutcomeWon, wonMessage)
	}
}

// clickRetryButton resets the run and restarts.
func clickRetryButton(w *engine.World) {
	for _, e := range engine.Query[Button](w) {
		b, _ := engine.Get[Button](w, e)
		if b.Action != ButtonRestart || b.Interaction != InteractionClicked {
			continue
		}
		cfg := engine.MustResource[config.DiggerConfig](w)
		*engine.MustResource[DiggerState](w) = NewDiggerState(cfg.Digger)
		w.Despawn(e)
		engine.MustResource[engine.State[GameState]](w).Set(StateRestart)
		return
	}
}

func removeUI(w *engine.World) {
	for _, e := range engine.Query[UINode](w) {
		w.Despawn(e)
	}
}
