package system

import (
	"github.com/milk9111/warrens/common"
	"github.com/milk9111/warrens/ecs"
	"github.com/milk9111/warrens/ecs/component"
)

// PhysicsSystem creates bodies for entities that need one, steps the space,
// syncs body positions back onto transforms, and publishes the tick's
// contact pairs into the world event queue.
type PhysicsSystem struct{}

func NewPhysicsSystem() *PhysicsSystem {
	return &PhysicsSystem{}
}

func (s *PhysicsSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	pw := w.Physics()
	if pw == nil {
		return
	}

	ecs.ForEach2(w, component.TransformComponent.Kind(), component.BodyComponent.Kind(), func(e ecs.Entity, t *component.Transform, b *component.Body) {
		pw.EnsureBody(e, t, b)
	})

	pw.Step(common.Dt)

	ecs.ForEach2(w, component.TransformComponent.Kind(), component.BodyComponent.Kind(), func(_ ecs.Entity, t *component.Transform, b *component.Body) {
		if b.Body == nil {
			return
		}
		pos := b.Body.Position()
		t.X = pos.X
		t.Y = pos.Y
	})

	began, ended := pw.DrainContacts()
	for _, c := range began {
		w.Events().Push(ecs.Event{Kind: ecs.EventContactBegin, Contact: c})
	}
	for _, c := range ended {
		w.Events().Push(ecs.Event{Kind: ecs.EventContactEnd, Contact: c})
	}
}
