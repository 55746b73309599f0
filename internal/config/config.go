// Package config provides YAML-based configuration loading for the digger
// game: physics and map settings, per-variant tile rules, and the tileset.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/digger/internal/core"
)

// ErrInvalid is wrapped by every Validate error.
var ErrInvalid = errors.New("config: invalid")

// ErrWrongVariant is returned when a document names another variant.
var ErrWrongVariant = errors.New("config: written for another variant")

// Variant identifiers.
const (
	VariantGold    = "gold"
	VariantCleanup = "cleanup"
)

// Tile kind names used as keys in rules and tilesets.
const (
	TileNone        = "none"
	TileBackground  = "background"
	TileBorder      = "border"
	TileBase        = "base"
	TileStone       = "stone"
	TileGold        = "gold"
	TileSilver      = "silver"
	TileDiamond     = "diamond"
	TileTankUpgrade = "tank_upgrade"
	TileWaste       = "waste"
)

// TileNames lists every tile kind in declaration order.
var TileNames = []string{
	TileNone, TileBackground, TileBorder, TileBase, TileStone,
	TileGold, TileSilver, TileDiamond, TileTankUpgrade, TileWaste,
}

// DiggerConfig contains all configuration for one game variant.
type DiggerConfig struct {
	Variant string         `yaml:"variant"`
	Digger  DiggerSettings `yaml:"digger"`
	Map     MapSettings    `yaml:"map"`
	Input   InputSettings  `yaml:"input"`
	Audio   AudioSettings  `yaml:"audio"`
	Rules   VariantConfig  `yaml:"rules"`
}

// DiggerSettings defines the digger's physics and starting stats.
type DiggerSettings struct {
	Speed          float64 `yaml:"speed"`        // Horizontal pixels per second
	FallingRate    float64 `yaml:"falling_rate"` // Downward acceleration and terminal speed
	FlyingRate     float64 `yaml:"flying_rate"`  // Upward acceleration and max climb speed
	Fuel           float64 `yaml:"fuel"`
	FuelRate       float64 `yaml:"fuel_rate"` // Litres burnt per second
	MiningStrength float64 `yaml:"mining_strength"`
	Health         float64 `yaml:"health"`
	OffsetBottom   float64 `yaml:"offset_bottom"`
	OffsetLeft     float64 `yaml:"offset_left"`
	OffsetRight    float64 `yaml:"offset_right"`
	// Landing faster than FallDamageSpeed costs (speed - threshold) * FallDamageFactor health.
	FallDamageSpeed  float64 `yaml:"fall_damage_speed"`
	FallDamageFactor float64 `yaml:"fall_damage_factor"`
}

// MapSettings defines the world grid.
type MapSettings struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	TileSize   float64 `yaml:"tile_size"`
	SkyRows    int     `yaml:"sky_rows"`
	BaseRows   int     `yaml:"base_rows"`
	BaseColumn float64 `yaml:"base_column"` // In tiles; 24.5 centers between two tiles
}

// InputSettings tunes key handling.
type InputSettings struct {
	HoldWindowMs int `yaml:"hold_window_ms"`
}

// AudioSettings configures sound output.
type AudioSettings struct {
	Volume     float64 `yaml:"volume"`
	SampleRate int     `yaml:"sample_rate"`
}

// VariantConfig holds the rules that differ between game variants.
type VariantConfig struct {
	Title        string              `yaml:"title"`
	Tiles        map[string]TileRule `yaml:"tiles"`
	Distribution []Weight            `yaml:"distribution"`
	SkyTile      string              `yaml:"sky_tile"`
	Border       bool                `yaml:"border"`
	TankUpgrades int                 `yaml:"tank_upgrades"`
	// TankUpgradeDepth places one extra upgrade this many rows below the top. 0 disables it.
	TankUpgradeDepth int     `yaml:"tank_upgrade_depth"`
	Waste            int     `yaml:"waste"`
	WasteGoal        int     `yaml:"waste_goal"`
	RefuelPrice      float64 `yaml:"refuel_price"` // Money per litre, 0 is free
	Health           bool    `yaml:"health"`
}

// TileRule describes how a tile kind behaves.
type TileRule struct {
	Collides bool    `yaml:"collides"`
	Strength float64 `yaml:"strength"` // 0 means it cannot be mined
	Money    float64 `yaml:"money"`
	Tank     float64 `yaml:"tank"`
	Waste    bool    `yaml:"waste"`
}

// Weight is one entry of the random mineral distribution.
type Weight struct {
	Tile   string `yaml:"tile"`
	Weight int    `yaml:"weight"`
}

// Tileset maps tile kinds to terminal glyphs.
type Tileset struct {
	Tiles  map[string]Glyph `yaml:"tiles"`
	Mining map[string]Glyph `yaml:"mining"`
	Digger Glyph            `yaml:"digger"`
	Base   Glyph            `yaml:"base_active"`
}

// Glyph is the two-column appearance of one tile.
type Glyph struct {
	Text  string `yaml:"text"`
	Color string `yaml:"color"`
}

func knownTile(name string) bool {
	for _, n := range TileNames {
		if n == name {
			return true
		}
	}
	return false
}

// Validate checks that the configuration can drive a game.
func (c DiggerConfig) Validate() error {
	d := c.Digger
	switch {
	case d.Speed <= 0:
		return fmt.Errorf("%w: digger.speed must be positive", ErrInvalid)
	case d.FallingRate <= 0 || d.FlyingRate <= 0:
		return fmt.Errorf("%w: digger falling_rate and flying_rate must be positive", ErrInvalid)
	case d.Fuel <= 0 || d.FuelRate < 0:
		return fmt.Errorf("%w: digger.fuel must be positive", ErrInvalid)
	case d.MiningStrength <= 0:
		return fmt.Errorf("%w: digger.mining_strength must be positive", ErrInvalid)
	}

	m := c.Map
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("%w: map size %dx%d", ErrInvalid, m.Width, m.Height)
	}
	if m.TileSize <= 0 {
		return fmt.Errorf("%w: map.tile_size must be positive", ErrInvalid)
	}
	if m.SkyRows < 0 || m.BaseRows < 0 || m.SkyRows+m.BaseRows >= m.Height {
		return fmt.Errorf("%w: sky and base rows leave no room underground", ErrInvalid)
	}
	if m.Width < 4 {
		return fmt.Errorf("%w: map.width must be at least 4", ErrInvalid)
	}
	if d.OffsetLeft < 0 || d.OffsetRight < 0 || d.OffsetBottom < 0 ||
		d.OffsetLeft >= m.TileSize || d.OffsetRight >= m.TileSize || d.OffsetBottom >= m.TileSize {
		return fmt.Errorf("%w: hitbox offsets must fit inside a tile", ErrInvalid)
	}

	if c.Audio.Volume < 0 {
		return fmt.Errorf("%w: audio.volume must not be negative", ErrInvalid)
	}
	return c.Rules.Validate()
}

// Validate checks tile names and the distribution.
func (v VariantConfig) Validate() error {
	for name, rule := range v.Tiles {
		if !knownTile(name) {
			return fmt.Errorf("%w: unknown tile %q", ErrInvalid, name)
		}
		if rule.Strength < 0 {
			return fmt.Errorf("%w: tile %q has negative strength", ErrInvalid, name)
		}
	}
	if v.SkyTile != "" && !knownTile(v.SkyTile) {
		return fmt.Errorf("%w: unknown sky tile %q", ErrInvalid, v.SkyTile)
	}

	total := 0
	for _, w := range v.Distribution {
		if !knownTile(w.Tile) {
			return fmt.Errorf("%w: unknown tile %q in distribution", ErrInvalid, w.Tile)
		}
		if w.Weight < 0 {
			return fmt.Errorf("%w: negative weight for %q", ErrInvalid, w.Tile)
		}
		total += w.Weight
	}
	if total == 0 {
		return fmt.Errorf("%w: distribution is empty", ErrInvalid)
	}

	if v.TankUpgrades < 0 || v.Waste < 0 || v.WasteGoal < 0 || v.RefuelPrice < 0 {
		return fmt.Errorf("%w: counts and prices must not be negative", ErrInvalid)
	}
	if v.WasteGoal > v.Waste {
		return fmt.Errorf("%w: waste_goal %d exceeds waste %d", ErrInvalid, v.WasteGoal, v.Waste)
	}
	return nil
}

// Validate checks glyph widths and colors.
func (t Tileset) Validate() error {
	check := func(name string, g Glyph) error {
		if len([]rune(g.Text)) != 2 {
			return fmt.Errorf("%w: glyph for %q must be two columns wide", ErrInvalid, name)
		}
		if g.Color != "" {
			if _, ok := core.ParseColor(g.Color); !ok {
				return fmt.Errorf("%w: unknown color %q for %q", ErrInvalid, g.Color, name)
			}
		}
		return nil
	}
	for name, g := range t.Tiles {
		if err := check(name, g); err != nil {
			return err
		}
	}
	for name, g := range t.Mining {
		if err := check("mining "+name, g); err != nil {
			return err
		}
	}
	if err := check("digger", t.Digger); err != nil {
		return err
	}
	if t.Base.Text != "" {
		return check("base_active", t.Base)
	}
	return nil
}
