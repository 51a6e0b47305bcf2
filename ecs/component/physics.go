package component

import "github.com/jakecoffman/cp"

// BodyRole selects the collision type assigned to a body's shape.
type BodyRole int

const (
	RoleDynamic BodyRole = iota
	RolePlayer
	RoleEnemy
)

// Body holds an entity's chipmunk body once the physics system has created
// it, plus the footprint used both for the shape and for trigger overlap
// checks. Entities without an attached cp body still use Width/Height for
// AABB tests and are moved by writing the Transform directly.
type Body struct {
	Body  *cp.Body
	Shape *cp.Shape

	Width  float64
	Height float64
	Role   BodyRole
}

var BodyComponent = NewComponent[Body]()

// Footprint returns the body's world-space AABB centered on the transform.
func (b *Body) Footprint(t *Transform) AABB {
	if b == nil || t == nil {
		return AABB{}
	}
	return AABB{
		X: t.X - b.Width/2,
		Y: t.Y - b.Height/2,
		W: b.Width,
		H: b.Height,
	}
}
