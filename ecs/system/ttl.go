package system

import (
	"github.com/milk9111/warrens/ecs"
	"github.com/milk9111/warrens/ecs/component"
)

// TTLSystem decrements time-to-live components and destroys entities when
// the countdown reaches zero. Expiring entities with a physics body are
// detached from the space first.
type TTLSystem struct{}

func NewTTLSystem() *TTLSystem {
	return &TTLSystem{}
}

func (s *TTLSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.TTLComponent.Kind(), func(e ecs.Entity, ttl *component.TTL) {
		if ttl.Ticks > 0 {
			ttl.Ticks--
			if ttl.Ticks > 0 {
				return
			}
		}

		if b, ok := ecs.Get(w, e, component.BodyComponent.Kind()); ok {
			w.Physics().RemoveBody(b)
		}
		ecs.DestroyEntity(w, e)
	})
}
