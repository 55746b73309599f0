package digger

import (
	"math"

	"github.com/vovakirdan/digger/internal/core"
	"github.com/vovakirdan/digger/internal/engine"
)

// Render draws the current frame: the world around the camera while
// playing, then texts and buttons on top.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.app == nil {
		return
	}
	w := g.app.World()
	if g.app.State() == StatePlaying {
		drawWorld(w, dst)
	}
	drawTexts(w, dst)
	drawButtons(w, dst)

	if g.paused {
		text := " PAUSED - press P to resume "
		dst.DrawTextColor((dst.Width()-len(text))/2, dst.Height()/2-3, text, core.ColorBrightWhite)
	}
}

func drawGlyph(dst *core.Screen, col, row int, g Glyph) {
	i := 0
	for _, r := range g.Text {
		dst.SetColor(col+i, row, r, g.Color)
		i++
	}
}

// drawWorld draws the tiles and the digger. Each tile is two columns wide
// and one row tall; the camera sits at the screen center.
func drawWorld(w *engine.World, dst *core.Screen) {
	m, ok := engine.Resource[Map](w)
	if !ok {
		return
	}
	idx, ok := engine.Resource[TileIndex](w)
	if !ok {
		return
	}
	cam := m.Base
	for _, e := range engine.Query[Camera](w) {
		if tr, ok := engine.Get[Transform](w, e); ok {
			cam = tr.Pos
		}
	}
	textures := engine.MustResource[TextureAssets](w)
	baseActive := engine.MustResource[Base](w).Active

	width, height := dst.Width(), dst.Height()
	half := m.TileSize / 2
	colOf := func(px float64) int {
		return width/2 + int(math.Floor((px-cam.X)/half))
	}
	rowOf := func(py float64) int {
		return height/2 - int(math.Floor((py-cam.Y)/m.TileSize+0.5))
	}

	for y := 0; y < m.Height; y++ {
		row := rowOf(float64(y) * m.TileSize)
		if row < 0 || row >= height {
			continue
		}
		for x := 0; x < m.Width; x++ {
			col := colOf(float64(x)*m.TileSize - half)
			if col+1 < 0 || col >= width {
				continue
			}
			e, _ := idx.At(TilePos{X: x, Y: y})
			sp, ok := engine.Get[Sprite](w, e)
			if !ok {
				continue
			}
			glyph := sp.Glyph
			if baseActive && m.Tiles[y][x] == TileBase {
				glyph = textures.BaseActive
			}
			drawGlyph(dst, col, row, glyph)
		}
	}

	if e, ok := engine.Single[Digger](w); ok {
		tr, _ := engine.Get[Transform](w, e)
		sp, _ := engine.Get[Sprite](w, e)
		if tr != nil && sp != nil {
			drawGlyph(dst, colOf(tr.Pos.X-half), rowOf(tr.Pos.Y), sp.Glyph)
		}
	}
}

func drawTexts(w *engine.World, dst *core.Screen) {
	width, height := dst.Width(), dst.Height()
	for _, e := range engine.Query[Text](w) {
		t, _ := engine.Get[Text](w, e)
		if t.Value == "" {
			continue
		}
		n := len([]rune(t.Value))
		switch t.Slot {
		case SlotTopLeft:
			dst.DrawTextColor(1, 0, t.Value, t.Color)
		case SlotTopRight:
			dst.DrawTextColor(width-1-n, 0, t.Value, t.Color)
		case SlotSecondLeft:
			dst.DrawTextColor(1, 1, t.Value, t.Color)
		case SlotSecondRight:
			dst.DrawTextColor(width-1-n, 1, t.Value, t.Color)
		case SlotBanner:
			dst.DrawTextColor((width-n)/2, height/2-2, t.Value, t.Color)
		case SlotCenter:
			dst.DrawTextColor((width-n)/2, height/2, t.Value, t.Color)
		}
	}
}

func drawButtons(w *engine.World, dst *core.Screen) {
	for _, e := range engine.Query[Button](w) {
		b, _ := engine.Get[Button](w, e)
		if b.Rect.W == 0 {
			b.layout(dst.Width(), dst.Height())
		}
		color := core.ColorWhite
		switch b.Interaction {
		case InteractionHovered:
			color = core.ColorBrightYellow
		case InteractionClicked:
			color = core.ColorBrightGreen
		}
		dst.DrawRect(b.Rect, ' ')
		dst.DrawBoxColor(b.Rect, color)
		label := []rune(b.Label)
		dst.DrawTextColor(b.Rect.X+(b.Rect.W-len(label))/2, b.Rect.Y+1, b.Label, color)
	}
}
