package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	for _, variant := range []string{VariantGold, VariantCleanup} {
		t.Run(variant, func(t *testing.T) {
			var fromYAML DiggerConfig
			if err := yaml.Unmarshal(GetDefaultYAML(variant), &fromYAML); err != nil {
				t.Fatalf("embedded yaml: %v", err)
			}
			expected, _ := DefaultConfig(variant)
			if fromYAML.Digger != expected.Digger || fromYAML.Map != expected.Map {
				t.Errorf("physics/map mismatch:\n yaml %+v %+v\n code %+v %+v",
					fromYAML.Digger, fromYAML.Map, expected.Digger, expected.Map)
			}
			if len(fromYAML.Rules.Tiles) != len(expected.Rules.Tiles) {
				t.Errorf("tile rules: yaml has %d, code has %d", len(fromYAML.Rules.Tiles), len(expected.Rules.Tiles))
			}
			for name, rule := range expected.Rules.Tiles {
				if fromYAML.Rules.Tiles[name] != rule {
					t.Errorf("tile %s: yaml %+v, code %+v", name, fromYAML.Rules.Tiles[name], rule)
				}
			}
			if err := fromYAML.Validate(); err != nil {
				t.Errorf("embedded config invalid: %v", err)
			}
		})
	}
}

func TestEmbeddedTilesetValid(t *testing.T) {
	var ts Tileset
	if err := yaml.Unmarshal(GetDefaultYAML("tileset"), &ts); err != nil {
		t.Fatal(err)
	}
	if err := ts.Validate(); err != nil {
		t.Fatal(err)
	}
	if err := DefaultTileset().Validate(); err != nil {
		t.Fatal(err)
	}
	for _, name := range TileNames {
		if _, ok := ts.Tiles[name]; !ok {
			t.Errorf("tileset missing %q", name)
		}
	}
}

func TestLoadCustomPathOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("digger:\n  speed: 320\nrules:\n  waste_goal: 4\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(VariantCleanup, path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Digger.Speed != 320 {
		t.Errorf("speed = %v, expected override 320", cfg.Digger.Speed)
	}
	if cfg.Rules.WasteGoal != 4 || cfg.Rules.Waste != 10 {
		t.Errorf("waste = %d/%d, expected 4/10", cfg.Rules.WasteGoal, cfg.Rules.Waste)
	}
	if cfg.Digger.FallingRate != 500 {
		t.Errorf("unset keys should keep defaults, falling_rate = %v", cfg.Digger.FallingRate)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(bad, []byte("digger: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(invalid, []byte("map:\n  tile_size: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(VariantGold, filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}
	if _, err := Load(VariantGold, bad); err == nil {
		t.Error("malformed yaml should fail")
	}
	if _, err := Load(VariantGold, invalid); !errors.Is(err, ErrInvalid) {
		t.Errorf("invalid config error = %v, expected ErrInvalid", err)
	}
	if _, err := Load("tetris", ""); err == nil {
		t.Error("unknown variant should fail")
	}
}

func TestLoadFallsBackToEmbedded(t *testing.T) {
	cfg, err := Load(VariantGold, "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Rules.Title != "Gold Digger" || cfg.Map.Width != 50 {
		t.Errorf("unexpected default config %+v", cfg.Rules)
	}

	ts, err := LoadTileset("")
	if err != nil {
		t.Fatal(err)
	}
	if ts.Digger.Text == "" {
		t.Error("tileset should have a digger glyph")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *DiggerConfig)
	}{
		{"zero speed", func(c *DiggerConfig) { c.Digger.Speed = 0 }},
		{"negative width", func(c *DiggerConfig) { c.Map.Width = -1 }},
		{"zero tile size", func(c *DiggerConfig) { c.Map.TileSize = 0 }},
		{"no underground", func(c *DiggerConfig) { c.Map.SkyRows = 99 }},
		{"hitbox too wide", func(c *DiggerConfig) { c.Digger.OffsetRight = 40 }},
		{"unknown tile", func(c *DiggerConfig) { c.Rules.Tiles["lava"] = TileRule{} }},
		{"empty distribution", func(c *DiggerConfig) { c.Rules.Distribution = nil }},
		{"goal above waste", func(c *DiggerConfig) { c.Rules.WasteGoal = 11 }},
		{"negative price", func(c *DiggerConfig) { c.Rules.RefuelPrice = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultCleanupConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, expected ErrInvalid", err)
			}
		})
	}

	if err := DefaultGoldConfig().Validate(); err != nil {
		t.Errorf("gold defaults invalid: %v", err)
	}
}

func TestTilesetValidate(t *testing.T) {
	ts := DefaultTileset()
	ts.Tiles[TileStone] = Glyph{Text: "#", Color: "brown"}
	if err := ts.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("one-column glyph should be invalid, got %v", err)
	}

	ts = DefaultTileset()
	ts.Digger.Color = "chartreuse"
	if err := ts.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("unknown color should be invalid, got %v", err)
	}
}

func TestLoadRejectsOtherVariant(t *testing.T) {
	dir := t.TempDir()
	gold := filepath.Join(dir, "gold.yaml")
	if err := os.WriteFile(gold, []byte("variant: gold\ndigger:\n  speed: 250\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	bare := filepath.Join(dir, "bare.yaml")
	if err := os.WriteFile(bare, []byte("digger:\n  speed: 250\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(VariantCleanup, gold)
	if !errors.Is(err, ErrWrongVariant) {
		t.Fatalf("error = %v, expected ErrWrongVariant", err)
	}
	if cfg.Variant != VariantCleanup || cfg.Digger.Speed != 200 || cfg.Rules.Waste != 10 {
		t.Errorf("a rejected file should leave the cleanup defaults, got %+v", cfg)
	}

	if cfg, err := Load(VariantGold, gold); err != nil || cfg.Digger.Speed != 250 {
		t.Errorf("matching variant: speed %v, err %v", cfg.Digger.Speed, err)
	}
	// Without a variant key the file applies to whichever variant loads it
	for _, v := range []string{VariantGold, VariantCleanup} {
		if cfg, err := Load(v, bare); err != nil || cfg.Variant != v || cfg.Digger.Speed != 250 {
			t.Errorf("%s: variant %q speed %v err %v", v, cfg.Variant, cfg.Digger.Speed, err)
		}
	}
}
