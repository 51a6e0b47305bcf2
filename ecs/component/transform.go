package component

// Transform is an entity's position and heading in world units. Heading is
// in radians, 0 pointing along +X.
type Transform struct {
	X       float64
	Y       float64
	Heading float64
}

var TransformComponent = NewComponent[Transform]()

// AABB is an axis-aligned rectangle. For trigger bounds X/Y are offsets
// relative to the owning entity's Transform; for world-space areas they are
// absolute.
type AABB struct {
	X float64
	Y float64
	W float64
	H float64
}

func (b AABB) Contains(x, y float64) bool {
	return x >= b.X && x <= b.X+b.W && y >= b.Y && y <= b.Y+b.H
}

func (b AABB) Intersects(o AABB) bool {
	return b.X < o.X+o.W &&
		b.X+b.W > o.X &&
		b.Y < o.Y+o.H &&
		b.Y+b.H > o.Y
}
