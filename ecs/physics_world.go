package ecs

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/warrens/ecs/component"
)

const (
	collisionTypeWall cp.CollisionType = iota + 1
	collisionTypePlayer
	collisionTypeEnemy
)

// PhysicsWorld owns the chipmunk space. The room is top-down, so gravity is
// zero and dynamic bodies have fixed rotation; headings live on the
// Transform, not the body.
//
// Player/enemy contacts are recorded by collision handlers and drained into
// the world event queue once per tick by the physics system.
type PhysicsWorld struct {
	space         *cp.Space
	handlersReady bool

	shapeToEntity map[*cp.Shape]Entity
	began         []Contact
	ended         []Contact
}

func NewPhysicsWorld() *PhysicsWorld {
	space := cp.NewSpace()
	space.Iterations = 10
	space.SetGravity(cp.Vector{})

	pw := &PhysicsWorld{
		space:         space,
		shapeToEntity: make(map[*cp.Shape]Entity),
	}
	pw.setupHandlers()
	return pw
}

// Space returns the underlying chipmunk space.
func (pw *PhysicsWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

// AddWall inserts a static box shape for a world-space rectangle.
func (pw *PhysicsWorld) AddWall(b component.AABB) {
	if pw == nil || pw.space == nil || b.W <= 0 || b.H <= 0 {
		return
	}
	bb := cp.BB{L: b.X, B: b.Y, R: b.X + b.W, T: b.Y + b.H}
	shape := cp.NewBox2(pw.space.StaticBody, bb, 0)
	shape.SetFriction(0.8)
	shape.SetCollisionType(collisionTypeWall)
	pw.space.AddShape(shape)
}

// AddBounds fences the room with four static segments.
func (pw *PhysicsWorld) AddBounds(width, height float64) {
	if pw == nil || pw.space == nil || width <= 0 || height <= 0 {
		return
	}
	segments := []struct {
		a cp.Vector
		b cp.Vector
	}{
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: width, Y: 0}},
		{a: cp.Vector{X: 0, Y: height}, b: cp.Vector{X: width, Y: height}},
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: 0, Y: height}},
		{a: cp.Vector{X: width, Y: 0}, b: cp.Vector{X: width, Y: height}},
	}
	for _, seg := range segments {
		shape := cp.NewSegment(pw.space.StaticBody, seg.a, seg.b, 1.0)
		shape.SetFriction(0.8)
		shape.SetCollisionType(collisionTypeWall)
		pw.space.AddShape(shape)
	}
}

// EnsureBody creates the dynamic body for an entity if it doesn't have one
// yet and returns the (possibly updated) component.
func (pw *PhysicsWorld) EnsureBody(e Entity, t *component.Transform, b *component.Body) {
	if pw == nil || pw.space == nil || t == nil || b == nil {
		return
	}
	if b.Body != nil {
		return
	}
	if b.Width <= 0 || b.Height <= 0 {
		return
	}

	mass := 1.0
	body := cp.NewBody(mass, math.Inf(1))
	body.SetPosition(cp.Vector{X: t.X, Y: t.Y})

	shape := cp.NewBox(body, b.Width, b.Height, 0)
	shape.SetFriction(0.2)
	switch b.Role {
	case component.RolePlayer:
		shape.SetCollisionType(collisionTypePlayer)
	case component.RoleEnemy:
		shape.SetCollisionType(collisionTypeEnemy)
	default:
		shape.SetCollisionType(collisionTypeWall)
	}

	pw.space.AddBody(body)
	pw.space.AddShape(shape)
	pw.shapeToEntity[shape] = e

	b.Body = body
	b.Shape = shape
}

// RemoveBody detaches and frees an entity's body and shape.
func (pw *PhysicsWorld) RemoveBody(b *component.Body) {
	if pw == nil || pw.space == nil || b == nil {
		return
	}
	if b.Shape != nil {
		delete(pw.shapeToEntity, b.Shape)
		pw.space.RemoveShape(b.Shape)
		b.Shape = nil
	}
	if b.Body != nil {
		pw.space.RemoveBody(b.Body)
		b.Body = nil
	}
}

// Step advances the simulation.
func (pw *PhysicsWorld) Step(dt float64) {
	if pw == nil || pw.space == nil {
		return
	}
	pw.space.Step(dt)
}

// DrainContacts returns contact pairs recorded since the last drain.
func (pw *PhysicsWorld) DrainContacts() (began, ended []Contact) {
	if pw == nil {
		return nil, nil
	}
	began, ended = pw.began, pw.ended
	pw.began, pw.ended = nil, nil
	return began, ended
}

func (pw *PhysicsWorld) contactPair(arb *cp.Arbiter) (Contact, bool) {
	shapeA, shapeB := arb.Shapes()
	a, okA := pw.shapeToEntity[shapeA]
	b, okB := pw.shapeToEntity[shapeB]
	if !okA || !okB {
		return Contact{}, false
	}
	return Contact{A: a, B: b}, true
}

func (pw *PhysicsWorld) setupHandlers() {
	if pw == nil || pw.handlersReady || pw.space == nil {
		return
	}

	handler := pw.space.NewCollisionHandler(collisionTypePlayer, collisionTypeEnemy)
	handler.UserData = pw
	handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*PhysicsWorld)
		if !ok || world == nil {
			return true
		}
		if c, ok := world.contactPair(arb); ok {
			world.began = append(world.began, c)
		}
		return true
	}
	handler.SeparateFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) {
		world, ok := userData.(*PhysicsWorld)
		if !ok || world == nil {
			return
		}
		if c, ok := world.contactPair(arb); ok {
			world.ended = append(world.ended, c)
		}
	}

	pw.handlersReady = true
}
