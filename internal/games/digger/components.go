package digger

import "github.com/vovakirdan/digger/internal/core"

// Transform is a world position in pixels, y pointing up.
type Transform struct {
	Pos core.Vec2
}

// Camera marks the entity the viewport is centered on.
type Camera struct{}

// Digger marks the player entity.
type Digger struct{}

// MapTile links an entity to its grid cell.
type MapTile struct {
	X, Y int
}

// Sprite is what an entity currently looks like.
type Sprite struct {
	Glyph Glyph
}

// Mining marks the tile currently being mined.
type Mining struct{}

// Mined marks a tile that was dug out.
type Mined struct{}

// TilePos is a grid cell.
type TilePos struct {
	X, Y int
}
