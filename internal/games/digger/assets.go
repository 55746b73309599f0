package digger

import (
	"github.com/vovakirdan/digger/internal/audio"
	"github.com/vovakirdan/digger/internal/config"
	"github.com/vovakirdan/digger/internal/core"
)

// Glyph is the two-column terminal appearance of a tile or sprite.
type Glyph struct {
	Text  string
	Color core.Color
}

func glyphFrom(g config.Glyph) Glyph {
	c, ok := core.ParseColor(g.Color)
	if !ok {
		c = core.ColorDefault
	}
	text := g.Text
	if len([]rune(text)) != 2 {
		text = "??"
	}
	return Glyph{Text: text, Color: c}
}

// TextureAssets holds the glyphs loaded from the tileset.
type TextureAssets struct {
	tiles      [tileCount]Glyph
	mining     [tileCount]Glyph
	hasMining  [tileCount]bool
	Digger     Glyph
	BaseActive Glyph
}

// NewTextureAssets resolves a tileset. Missing tiles render as blanks.
func NewTextureAssets(ts config.Tileset) TextureAssets {
	var ta TextureAssets
	for i := range ta.tiles {
		ta.tiles[i] = Glyph{Text: "  "}
	}
	for name, g := range ts.Tiles {
		if t, ok := ParseTile(name); ok {
			ta.tiles[t] = glyphFrom(g)
		}
	}
	for name, g := range ts.Mining {
		if t, ok := ParseTile(name); ok {
			ta.mining[t] = glyphFrom(g)
			ta.hasMining[t] = true
		}
	}
	ta.Digger = glyphFrom(ts.Digger)
	ta.BaseActive = ta.tiles[TileBase]
	if ts.Base.Text != "" {
		ta.BaseActive = glyphFrom(ts.Base)
	}
	return ta
}

// TileGlyph returns the normal look of a tile.
func (ta *TextureAssets) TileGlyph(t Tile) Glyph {
	if t >= tileCount {
		return Glyph{Text: "??"}
	}
	return ta.tiles[t]
}

// MiningGlyph returns the look of a tile being mined, if the tileset has one.
func (ta *TextureAssets) MiningGlyph(t Tile) (Glyph, bool) {
	if t >= tileCount || !ta.hasMining[t] {
		return Glyph{}, false
	}
	return ta.mining[t], true
}

// AudioAssets holds the synthesized sounds.
type AudioAssets struct {
	Digging audio.Sound
	Flying  audio.Sound
	Waste   audio.Sound
	Fuel    audio.Sound
	Landing audio.Sound
}

func newAudioAssets(sounds map[audio.Kind]audio.Sound) AudioAssets {
	return AudioAssets{
		Digging: sounds[audio.KindDig],
		Flying:  sounds[audio.KindFlight],
		Waste:   sounds[audio.KindWaste],
		Fuel:    sounds[audio.KindFuel],
		Landing: sounds[audio.KindThud],
	}
}
