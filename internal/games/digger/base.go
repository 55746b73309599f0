package digger

import (
	"math"

	"github.com/vovakirdan/digger/internal/config"
	"github.com/vovakirdan/digger/internal/engine"
)

// Base reports whether the digger is parked at the base.
type Base struct {
	Active bool
}

// BasePlugin refuels the digger at the base.
type BasePlugin struct{}

// Build registers the base systems.
func (BasePlugin) Build(app *engine.App[GameState]) {
	engine.InitResource[Base](app.World())
	app.OnUpdate(StatePlaying, checkPlayerPosition, fuelUp)
	app.OnExit(StatePlaying, func(w *engine.World) {
		engine.MustResource[Base](w).Active = false
	})
}

// checkPlayerPosition activates the base within one tile of its center.
func checkPlayerPosition(w *engine.World) {
	tr, ok := diggerTransform(w)
	if !ok {
		return
	}
	m := engine.MustResource[Map](w)
	engine.MustResource[Base](w).Active = tr.Pos.Distance(m.Base) <= m.TileSize
}

// fuelUp fills the tank while at the base. With a refuel price, only as
// many litres as the digger can pay for are added.
func fuelUp(w *engine.World) {
	if !engine.MustResource[Base](w).Active {
		return
	}
	st := engine.MustResource[DiggerState](w)
	if st.Dead {
		return
	}
	price := engine.MustResource[config.DiggerConfig](w).Rules.RefuelPrice
	need := st.FuelMax - st.Fuel
	if need <= 0 {
		return
	}
	if price <= 0 {
		st.Fuel = st.FuelMax
		return
	}
	litres := math.Min(need, st.Money/price)
	if litres <= 0 {
		return
	}
	st.Fuel += litres
	st.Money -= litres * price
}
