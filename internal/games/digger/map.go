package digger

import (
	"math"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/digger/internal/config"
	"github.com/vovakirdan/digger/internal/core"
	"github.com/vovakirdan/digger/internal/engine"
)

// Map is the tile grid. Tiles are indexed [y][x] with row 0 at the bottom;
// tile (x, y) is centered on pixel (x*TileSize, y*TileSize).
type Map struct {
	Width    int
	Height   int
	Tiles    [][]Tile
	TileSize float64
	Base     core.Vec2
	// WastePlaced is the number of waste tiles generation managed to place.
	WastePlaced int
}

// InBounds reports whether (x, y) is a cell of the grid.
func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width && y < m.Height
}

// At returns the tile at (x, y). Cells outside the grid read as Border.
func (m *Map) At(x, y int) Tile {
	if !m.InBounds(x, y) {
		return TileBorder
	}
	return m.Tiles[y][x]
}

// Set replaces a tile. Out-of-bounds writes are ignored.
func (m *Map) Set(x, y int, t Tile) {
	if m.InBounds(x, y) {
		m.Tiles[y][x] = t
	}
}

// Slot converts a pixel coordinate to the index of the tile containing it.
func (m *Map) Slot(v float64) int {
	return int(math.Round(v / m.TileSize))
}

// Count returns how many cells hold t.
func (m *Map) Count(t Tile) int {
	n := 0
	for _, row := range m.Tiles {
		for _, c := range row {
			if c == t {
				n++
			}
		}
	}
	return n
}

// Generate builds a new map: sky rows, base rows with the base tiles,
// random minerals below, an optional border ring, and for variants that
// have them, tank upgrades and waste on distinct underground cells.
func Generate(ms config.MapSettings, v config.VariantConfig, rng *rand.Rand) *Map {
	m := &Map{
		Width:    ms.Width,
		Height:   ms.Height,
		TileSize: ms.TileSize,
	}
	sky := TileNone
	if t, ok := ParseTile(v.SkyTile); ok {
		sky = t
	}
	dist := newDistribution(v.Distribution)

	baseX := int(math.Floor(ms.BaseColumn))
	baseWide := ms.BaseColumn != math.Floor(ms.BaseColumn)
	groundTop := ms.Height - ms.SkyRows - ms.BaseRows // first row above the ground

	m.Tiles = make([][]Tile, ms.Height)
	// Rows are generated top-down so the random sequence matches the on-screen order.
	for i := 0; i < ms.Height; i++ {
		y := ms.Height - 1 - i
		row := make([]Tile, ms.Width)
		for x := range row {
			switch {
			case v.Border && (i == 0 || i == ms.Height-1 || x == 0 || x == ms.Width-1):
				row[x] = TileBorder
			case i < ms.SkyRows:
				row[x] = sky
			case y >= groundTop:
				row[x] = sky
				if x == baseX || (baseWide && x == baseX+1) {
					row[x] = TileBase
				}
			default:
				row[x] = dist.sample(rng)
			}
		}
		m.Tiles[y] = row
	}

	m.Base = core.V(ms.BaseColumn*ms.TileSize, float64(groundTop)*ms.TileSize)

	minX, maxX, minY := 0, ms.Width, 0
	if v.Border {
		minX, maxX, minY = 1, ms.Width-1, 1
	}
	// The top ground row is left alone so specials are never exposed at the surface.
	maxY := groundTop - 1
	if maxY <= minY || maxX <= minX {
		return m
	}

	place := func(t Tile, fixedY int) bool {
		for attempt := 0; attempt < 1000; attempt++ {
			x := minX + rng.Intn(maxX-minX)
			y := fixedY
			if y < 0 {
				y = minY + rng.Intn(maxY-minY)
			}
			if c := m.Tiles[y][x]; c == TileTankUpgrade || c == TileWaste {
				continue
			}
			m.Tiles[y][x] = t
			return true
		}
		return false
	}

	// The fixed-depth upgrade goes first so the random ones cannot take its cell.
	if d := v.TankUpgradeDepth; d > 0 && ms.Height-d >= minY && ms.Height-d < groundTop {
		place(TileTankUpgrade, ms.Height-d)
	}
	for i := 0; i < v.TankUpgrades; i++ {
		place(TileTankUpgrade, -1)
	}
	for i := 0; i < v.Waste; i++ {
		if place(TileWaste, -1) {
			m.WastePlaced++
		}
	}
	return m
}

// TileIndex maps grid cells to their tile entities while Playing.
type TileIndex struct {
	entities [][]engine.Entity
}

// At returns the entity for a cell.
func (ti *TileIndex) At(p TilePos) (engine.Entity, bool) {
	if p.Y < 0 || p.Y >= len(ti.entities) || p.X < 0 || p.X >= len(ti.entities[p.Y]) {
		return engine.Entity{}, false
	}
	return ti.entities[p.Y][p.X], true
}

// MapPlugin generates the map and keeps tile entities in sync with it.
type MapPlugin struct{}

// Build registers the map systems.
func (MapPlugin) Build(app *engine.App[GameState]) {
	app.OnEnter(StateGeneratingMap, generateMap)
	app.OnEnter(StatePlaying, spawnCamera, renderMap)
	app.OnExit(StatePlaying, despawnMapAndCamera)
}

func generateMap(w *engine.World) {
	cfg := engine.MustResource[config.DiggerConfig](w)
	rng := engine.MustResource[rand.Rand](w)
	m := Generate(cfg.Map, cfg.Rules, rng)
	if m.WastePlaced < cfg.Rules.Waste {
		engine.MustResource[log.Logger](w).Warn("map has no room for all waste",
			"placed", m.WastePlaced, "wanted", cfg.Rules.Waste)
	}
	engine.Insert(w, m)
	engine.MustResource[engine.State[GameState]](w).Set(StatePlaying)
}

func spawnCamera(w *engine.World) {
	m := engine.MustResource[Map](w)
	w.Spawn(Camera{}, Transform{Pos: m.Base})
}

// renderMap spawns one entity per cell.
func renderMap(w *engine.World) {
	m := engine.MustResource[Map](w)
	textures := engine.MustResource[TextureAssets](w)
	idx := &TileIndex{entities: make([][]engine.Entity, m.Height)}
	for y := 0; y < m.Height; y++ {
		idx.entities[y] = make([]engine.Entity, m.Width)
		for x := 0; x < m.Width; x++ {
			idx.entities[y][x] = w.Spawn(MapTile{X: x, Y: y}, Sprite{Glyph: textures.TileGlyph(m.Tiles[y][x])})
		}
	}
	engine.Insert(w, idx)
}

func despawnMapAndCamera(w *engine.World) {
	for _, e := range engine.Query[MapTile](w) {
		w.Despawn(e)
	}
	for _, e := range engine.Query[Camera](w) {
		w.Despawn(e)
	}
	engine.Remove[TileIndex](w)
}
