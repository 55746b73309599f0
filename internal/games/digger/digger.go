package digger

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/digger/internal/config"
	"github.com/vovakirdan/digger/internal/core"
	"github.com/vovakirdan/digger/internal/engine"
)

// Outcome is how a run ended.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeWon
	OutcomeOutOfFuel
	OutcomeWrecked
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWon:
		return "won"
	case OutcomeOutOfFuel:
		return "out of fuel"
	case OutcomeWrecked:
		return "wrecked"
	default:
		return ""
	}
}

// DiggerState is the player's run state.
type DiggerState struct {
	Waste          int
	Dead           bool
	Outcome        Outcome
	Money          float64
	Fuel           float64
	FuelMax        float64
	Health         float64
	HealthMax      float64
	MiningStrength float64
	MiningTarget   *TilePos
	Mining         float64 // Progress on MiningTarget
	Falling        bool
	FallingSpeed   float64 // Positive is up
}

// NewDiggerState returns a fresh state for the given settings.
func NewDiggerState(s config.DiggerSettings) DiggerState {
	return DiggerState{
		Fuel:           s.Fuel,
		FuelMax:        s.Fuel,
		Health:         s.Health,
		HealthMax:      s.Health,
		MiningStrength: s.MiningStrength,
	}
}

// target sets the mining target, restarting progress when it changes.
func (st *DiggerState) target(p TilePos) {
	if st.MiningTarget == nil || *st.MiningTarget != p {
		st.MiningTarget = &p
		st.Mining = 0
	}
}

func (st *DiggerState) clearTarget() {
	st.MiningTarget = nil
	st.Mining = 0
}

// Events sent by the digger systems.
type (
	// WasteCollected is sent when a waste tile is mined.
	WasteCollected struct{ Total int }
	// FuelUpgrade is sent when a tank upgrade is mined.
	FuelUpgrade struct{ Amount float64 }
	// MineralMined is sent for every tile dug out.
	MineralMined struct {
		Tile  Tile
		Value float64
	}
	// Landed is sent when a fall is stopped by the ground.
	Landed struct{ Speed float64 }
)

// DiggerPlugin moves the digger and handles mining.
type DiggerPlugin struct{}

// Build registers the digger systems.
func (DiggerPlugin) Build(app *engine.App[GameState]) {
	w := app.World()
	cfg := engine.MustResource[config.DiggerConfig](w)
	st := NewDiggerState(cfg.Digger)
	engine.Insert(w, &st)

	app.OnEnter(StatePlaying, spawnDigger)
	app.OnUpdate(StatePlaying, moveDigger, markMiningTarget, loseFuel, updateFallAndFly, dig)
	app.OnExit(StatePlaying, despawnDigger)
}

func spawnDigger(w *engine.World) {
	m := engine.MustResource[Map](w)
	textures := engine.MustResource[TextureAssets](w)
	w.Spawn(
		Digger{},
		Transform{Pos: core.V(m.Base.X, m.Base.Y+m.TileSize)},
		Sprite{Glyph: textures.Digger},
	)
}

func despawnDigger(w *engine.World) {
	for _, e := range engine.Query[Digger](w) {
		w.Despawn(e)
	}
}

// diggerTransform returns the digger's transform, if one is spawned.
func diggerTransform(w *engine.World) (*Transform, bool) {
	e, ok := engine.Single[Digger](w)
	if !ok {
		return nil, false
	}
	return engine.Get[Transform](w, e)
}

// moveDigger applies movement with tile collision. A blocked horizontal
// move into a mineable tile, or standing still with mining down held
// over one, accumulates mining progress instead.
func moveDigger(w *engine.World) {
	st := engine.MustResource[DiggerState](w)
	tr, ok := diggerTransform(w)
	if st.Dead || !ok {
		return
	}
	actions := engine.MustResource[Actions](w)
	m := engine.MustResource[Map](w)
	rules := engine.MustResource[Rules](w)
	s := engine.MustResource[config.DiggerConfig](w).Digger
	dt := engine.MustResource[engine.Time](w).Delta
	pos := tr.Pos

	if actions.MiningDown && st.FallingSpeed == 0 {
		x, y := m.Slot(pos.X), m.Slot(pos.Y)
		below := m.At(x, y-1)
		if _, mineable := rules.MiningStrength(below); rules.Collides(below) && mineable {
			st.target(TilePos{X: x, Y: y - 1})
			st.Mining += st.MiningStrength * dt
			return
		}
	}

	var dx, dy float64
	if actions.Movement != nil {
		dx = *actions.Movement * s.Speed * dt
	}
	dy = st.FallingSpeed * dt

	// Vertical: the leading edge is the top when rising, the bottom otherwise.
	edge := pos.Y - s.OffsetBottom
	if dy > 0 {
		edge = pos.Y + s.OffsetBottom
	}
	slotLeft := m.Slot(pos.X - s.OffsetLeft)
	slotRight := m.Slot(pos.X + s.OffsetRight)
	// Every row the edge crosses is checked, so long frames cannot skip a floor.
	slotNextY, blocked := m.Slot(edge), false
	for last := m.Slot(edge + dy); slotNextY != last && !blocked; {
		if dy > 0 {
			slotNextY++
		} else {
			slotNextY--
		}
		blocked = rules.Collides(m.At(slotLeft, slotNextY)) || rules.Collides(m.At(slotRight, slotNextY))
	}
	if blocked {
		impact := -st.FallingSpeed
		st.FallingSpeed = 0
		half := m.TileSize / 2
		if dy > 0 {
			dy = float64(slotNextY)*m.TileSize - half - 0.5 - edge
		} else {
			dy = float64(slotNextY)*m.TileSize + half + 0.5 - edge
			engine.Send(w, Landed{Speed: impact})
			applyFallDamage(w, st, impact)
		}
	}

	// Horizontal: only crossing into the next column can be blocked.
	border, slot := pos.X-s.OffsetLeft, slotLeft
	if dx > 0 {
		border, slot = pos.X+s.OffsetRight, slotRight
	}
	slotNextX := m.Slot(border + dx)
	if slotNextX != slot {
		y := m.Slot(pos.Y)
		next := m.At(slotNextX, y)
		if rules.Collides(next) {
			dx = 0
			if _, mineable := rules.MiningStrength(next); mineable {
				st.target(TilePos{X: slotNextX, Y: y})
				st.Mining += st.MiningStrength * dt
			}
		}
	} else {
		st.clearTarget()
	}

	tr.Pos = core.V(pos.X+dx, pos.Y+dy)
	for _, e := range engine.Query[Camera](w) {
		if cam, ok := engine.Get[Transform](w, e); ok {
			cam.Pos = tr.Pos
		}
	}
}

func applyFallDamage(w *engine.World, st *DiggerState, impact float64) {
	cfg := engine.MustResource[config.DiggerConfig](w)
	if !cfg.Rules.Health || cfg.Digger.FallDamageSpeed <= 0 || impact <= cfg.Digger.FallDamageSpeed {
		return
	}
	damage := (impact - cfg.Digger.FallDamageSpeed) * cfg.Digger.FallDamageFactor
	st.Health = core.ClampF(st.Health-damage, 0, st.HealthMax)
	engine.MustResource[log.Logger](w).Debug("hard landing", "speed", impact, "damage", damage)
}

// markMiningTarget swaps the target tile to its mining look and restores
// any tile that stopped being the target.
func markMiningTarget(w *engine.World) {
	st := engine.MustResource[DiggerState](w)
	idx, ok := engine.Resource[TileIndex](w)
	if !ok {
		return
	}
	m := engine.MustResource[Map](w)
	textures := engine.MustResource[TextureAssets](w)

	var target engine.Entity
	hasTarget := false
	if st.MiningTarget != nil {
		target, hasTarget = idx.At(*st.MiningTarget)
	}

	for _, e := range engine.Query[Mining](w) {
		if e == target {
			continue
		}
		if mt, ok := engine.Get[MapTile](w, e); ok {
			if sp, ok := engine.Get[Sprite](w, e); ok {
				sp.Glyph = textures.TileGlyph(m.At(mt.X, mt.Y))
			}
		}
		engine.Detach[Mining](w, e)
	}

	if !hasTarget || engine.Has[Mining](w, target) {
		return
	}
	engine.Attach(w, target, Mining{})
	mt, ok := engine.Get[MapTile](w, target)
	if !ok {
		return
	}
	if g, ok := textures.MiningGlyph(m.At(mt.X, mt.Y)); ok {
		if sp, ok := engine.Get[Sprite](w, target); ok {
			sp.Glyph = g
		}
	}
}

func loseFuel(w *engine.World) {
	st := engine.MustResource[DiggerState](w)
	if st.Dead {
		return
	}
	rate := engine.MustResource[config.DiggerConfig](w).Digger.FuelRate
	dt := engine.MustResource[engine.Time](w).Delta
	st.Fuel = core.ClampF(st.Fuel-rate*dt, 0, st.FuelMax)
}

// updateFallAndFly checks the row one pixel below the hitbox and updates the
// vertical speed: flying accelerates up, falling accelerates down.
func updateFallAndFly(w *engine.World) {
	st := engine.MustResource[DiggerState](w)
	tr, ok := diggerTransform(w)
	if st.Dead || !ok {
		return
	}
	actions := engine.MustResource[Actions](w)
	m := engine.MustResource[Map](w)
	rules := engine.MustResource[Rules](w)
	s := engine.MustResource[config.DiggerConfig](w).Digger
	dt := engine.MustResource[engine.Time](w).Delta

	below := m.Slot(tr.Pos.Y - s.OffsetBottom - 1)
	left := m.At(m.Slot(tr.Pos.X-s.OffsetLeft), below)
	right := m.At(m.Slot(tr.Pos.X+s.OffsetRight), below)
	st.Falling = !rules.Collides(left) && !rules.Collides(right)

	switch {
	case actions.Flying:
		st.FallingSpeed += s.FlyingRate * dt
	case st.Falling:
		st.FallingSpeed -= s.FallingRate * dt
	default:
		st.FallingSpeed = 0
	}
	st.FallingSpeed = core.ClampF(st.FallingSpeed, -s.FallingRate, s.FlyingRate)
}

// dig completes mining once progress reaches the target's strength.
func dig(w *engine.World) {
	st := engine.MustResource[DiggerState](w)
	if st.MiningTarget == nil {
		return
	}
	m := engine.MustResource[Map](w)
	rules := engine.MustResource[Rules](w)
	p := *st.MiningTarget
	tile := m.At(p.X, p.Y)
	strength, ok := rules.MiningStrength(tile)
	if !ok {
		st.clearTarget()
		return
	}
	if st.Mining < strength {
		return
	}

	value := 0.0
	if eff, ok := rules.Effect(tile); ok {
		switch eff.Kind {
		case EffectMoney:
			st.Money += eff.Value
			value = eff.Value
		case EffectTankUpgrade:
			st.Fuel += eff.Value
			st.FuelMax += eff.Value
			engine.Send(w, FuelUpgrade{Amount: eff.Value})
			engine.MustResource[log.Logger](w).Debug("fuel tank upgraded", "by", eff.Value, "max", st.FuelMax)
		case EffectCollectedWaste:
			st.Waste++
			engine.Send(w, WasteCollected{Total: st.Waste})
		}
	}
	engine.Send(w, MineralMined{Tile: tile, Value: value})

	m.Set(p.X, p.Y, TileBackground)
	if idx, ok := engine.Resource[TileIndex](w); ok {
		if e, ok := idx.At(p); ok {
			engine.Attach(w, e, Mined{})
			engine.Detach[Mining](w, e)
			if sp, ok := engine.Get[Sprite](w, e); ok {
				sp.Glyph = engine.MustResource[TextureAssets](w).TileGlyph(TileBackground)
			}
		}
	}
	st.clearTarget()
}
