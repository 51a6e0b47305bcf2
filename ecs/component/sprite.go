package component

import "image/color"

// ShapeKind selects the primitive the render system draws for an entity.
type ShapeKind int

const (
	ShapeCircle ShapeKind = iota
	ShapeRect
)

// Sprite is a vector-drawn primitive. Circles use Radius; rects use W/H
// centered on the transform.
type Sprite struct {
	Shape  ShapeKind
	Radius float64
	W      float64
	H      float64
	Color  color.NRGBA
}

var SpriteComponent = NewComponent[Sprite]()

// Wall is static room geometry, world-space bounds. Walls are mirrored into
// the physics space as static shapes.
type Wall struct {
	Bounds AABB
}

var WallComponent = NewComponent[Wall]()
