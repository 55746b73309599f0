package config

import (
	_ "embed"
)

//go:embed defaults/gold.yaml
var defaultGoldYAML []byte

//go:embed defaults/cleanup.yaml
var defaultCleanupYAML []byte

//go:embed defaults/tileset.yaml
var defaultTilesetYAML []byte

func defaultDigger() DiggerSettings {
	return DiggerSettings{
		Speed:            200,
		FallingRate:      500,
		FlyingRate:       300,
		Fuel:             20,
		FuelRate:         0.5,
		MiningStrength:   10,
		Health:           100,
		OffsetBottom:     10,
		OffsetLeft:       11,
		OffsetRight:      12,
		FallDamageSpeed:  350,
		FallDamageFactor: 0.2,
	}
}

func defaultMap() MapSettings {
	return MapSettings{
		Width:      50,
		Height:     100,
		TileSize:   32,
		SkyRows:    10,
		BaseRows:   2,
		BaseColumn: 24.5,
	}
}

// DefaultGoldConfig returns the default Gold Digger configuration.
func DefaultGoldConfig() DiggerConfig {
	return DiggerConfig{
		Variant: VariantGold,
		Digger:  defaultDigger(),
		Map:     defaultMap(),
		Input:   InputSettings{HoldWindowMs: 150},
		Audio:   AudioSettings{Volume: 0.3, SampleRate: 44100},
		Rules: VariantConfig{
			Title: "Gold Digger",
			Tiles: map[string]TileRule{
				TileStone: {Collides: true, Strength: 15},
				TileGold:  {Collides: true, Strength: 20, Money: 10},
			},
			Distribution: []Weight{
				{Tile: TileStone, Weight: 1},
				{Tile: TileGold, Weight: 1},
			},
			SkyTile: TileNone,
			Health:  true,
		},
	}
}

// DefaultCleanupConfig returns the default The Cleanup configuration.
func DefaultCleanupConfig() DiggerConfig {
	return DiggerConfig{
		Variant: VariantCleanup,
		Digger:  defaultDigger(),
		Map:     defaultMap(),
		Input:   InputSettings{HoldWindowMs: 150},
		Audio:   AudioSettings{Volume: 0.3, SampleRate: 44100},
		Rules: VariantConfig{
			Title: "The Cleanup",
			Tiles: map[string]TileRule{
				TileBorder:      {Collides: true},
				TileStone:       {Collides: true, Strength: 10},
				TileTankUpgrade: {Collides: true, Strength: 5, Tank: 5},
				TileWaste:       {Collides: true, Strength: 5, Waste: true},
				TileSilver:      {Collides: true, Strength: 20, Money: 5},
				TileGold:        {Collides: true, Strength: 30, Money: 20},
				TileDiamond:     {Collides: true, Strength: 50, Money: 50},
			},
			Distribution: []Weight{
				{Tile: TileSilver, Weight: 5},
				{Tile: TileGold, Weight: 2},
				{Tile: TileDiamond, Weight: 1},
				{Tile: TileStone, Weight: 92},
			},
			SkyTile:          TileBackground,
			Border:           true,
			TankUpgrades:     5,
			TankUpgradeDepth: 15,
			Waste:            10,
			WasteGoal:        10,
			RefuelPrice:      1,
		},
	}
}

// DefaultConfig returns the hard-coded configuration for a variant.
func DefaultConfig(variant string) (DiggerConfig, bool) {
	switch variant {
	case VariantGold:
		return DefaultGoldConfig(), true
	case VariantCleanup:
		return DefaultCleanupConfig(), true
	default:
		return DiggerConfig{}, false
	}
}

// DefaultTileset returns the hard-coded tileset.
func DefaultTileset() Tileset {
	return Tileset{
		Tiles: map[string]Glyph{
			TileNone:        {Text: "  ", Color: "default"},
			TileBackground:  {Text: "  ", Color: "default"},
			TileBorder:      {Text: "██", Color: "gray"},
			TileBase:        {Text: "▀▀", Color: "cyan"},
			TileStone:       {Text: "▓▓", Color: "brown"},
			TileGold:        {Text: "▓$", Color: "yellow"},
			TileSilver:      {Text: "▓*", Color: "white"},
			TileDiamond:     {Text: "<>", Color: "bright_cyan"},
			TileTankUpgrade: {Text: "[]", Color: "green"},
			TileWaste:       {Text: "%%", Color: "magenta"},
		},
		Mining: map[string]Glyph{
			TileStone:       {Text: "░░", Color: "brown"},
			TileGold:        {Text: "░$", Color: "yellow"},
			TileSilver:      {Text: "░*", Color: "white"},
			TileDiamond:     {Text: "░>", Color: "bright_cyan"},
			TileTankUpgrade: {Text: "░]", Color: "green"},
			TileWaste:       {Text: "░%", Color: "magenta"},
		},
		Digger: Glyph{Text: "◖◗", Color: "bright_red"},
		Base:   Glyph{Text: "▀▀", Color: "bright_green"},
	}
}

// GetDefaultYAML returns the embedded default YAML for a variant or "tileset".
func GetDefaultYAML(name string) []byte {
	switch name {
	case VariantGold:
		return defaultGoldYAML
	case VariantCleanup:
		return defaultCleanupYAML
	case "tileset":
		return defaultTilesetYAML
	default:
		return nil
	}
}
