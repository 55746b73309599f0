package digger

import (
	"math/rand"

	"github.com/vovakirdan/digger/internal/config"
)

// Tile is the kind of one map cell.
type Tile uint8

const (
	TileNone Tile = iota
	TileBackground
	TileBorder
	TileBase
	TileStone
	TileGold
	TileSilver
	TileDiamond
	TileTankUpgrade
	TileWaste
	tileCount
)

var tileNames = [tileCount]string{
	config.TileNone,
	config.TileBackground,
	config.TileBorder,
	config.TileBase,
	config.TileStone,
	config.TileGold,
	config.TileSilver,
	config.TileDiamond,
	config.TileTankUpgrade,
	config.TileWaste,
}

func (t Tile) String() string {
	if t >= tileCount {
		return "unknown"
	}
	return tileNames[t]
}

// ParseTile resolves a config tile name.
func ParseTile(name string) (Tile, bool) {
	for i, n := range tileNames {
		if n == name {
			return Tile(i), true
		}
	}
	return TileNone, false
}

// EffectKind is what mining a tile gives the digger.
type EffectKind int

const (
	EffectMoney EffectKind = iota + 1
	EffectTankUpgrade
	EffectCollectedWaste
)

// Effect is applied when a tile is fully mined.
type Effect struct {
	Kind  EffectKind
	Value float64
}

// Rules answers collision and mining questions for a variant.
// Border tiles always collide and can never be mined, whatever the config says.
type Rules struct {
	tiles [tileCount]config.TileRule
}

// NewRules builds rules from a variant's tile table. Unknown names are ignored.
func NewRules(v config.VariantConfig) Rules {
	var r Rules
	for name, rule := range v.Tiles {
		if t, ok := ParseTile(name); ok {
			r.tiles[t] = rule
		}
	}
	r.tiles[TileBorder] = config.TileRule{Collides: true}
	return r
}

func (r Rules) rule(t Tile) config.TileRule {
	if t >= tileCount {
		return config.TileRule{Collides: true}
	}
	return r.tiles[t]
}

// Collides reports whether the digger is blocked by t.
func (r Rules) Collides(t Tile) bool {
	return r.rule(t).Collides
}

// MiningStrength returns the progress needed to mine t; ok is false for unmineable tiles.
func (r Rules) MiningStrength(t Tile) (float64, bool) {
	s := r.rule(t).Strength
	return s, s > 0
}

// Effect returns what mining t yields.
func (r Rules) Effect(t Tile) (Effect, bool) {
	rule := r.rule(t)
	switch {
	case rule.Money > 0:
		return Effect{Kind: EffectMoney, Value: rule.Money}, true
	case rule.Tank > 0:
		return Effect{Kind: EffectTankUpgrade, Value: rule.Tank}, true
	case rule.Waste:
		return Effect{Kind: EffectCollectedWaste, Value: 1}, true
	default:
		return Effect{}, false
	}
}

// distribution samples mineral tiles by weight.
type distribution struct {
	tiles   []Tile
	weights []int
	total   int
}

func newDistribution(ws []config.Weight) distribution {
	var d distribution
	for _, w := range ws {
		t, ok := ParseTile(w.Tile)
		if !ok || w.Weight <= 0 {
			continue
		}
		d.tiles = append(d.tiles, t)
		d.weights = append(d.weights, w.Weight)
		d.total += w.Weight
	}
	return d
}

func (d distribution) sample(rng *rand.Rand) Tile {
	if d.total == 0 {
		return TileStone
	}
	n := rng.Intn(d.total)
	for i, w := range d.weights {
		if n < w {
			return d.tiles[i]
		}
		n -= w
	}
	return d.tiles[len(d.tiles)-1]
}
