package system

import (
	"github.com/milk9111/warrens/ecs"
	"github.com/milk9111/warrens/ecs/component"
)

// CooldownSystem decrements cooldown markers and removes them when they hit
// zero.
type CooldownSystem struct{}

func NewCooldownSystem() *CooldownSystem {
	return &CooldownSystem{}
}

func (s *CooldownSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.CooldownComponent.Kind(), func(e ecs.Entity, cd *component.Cooldown) {
		if cd.Ticks > 0 {
			cd.Ticks--
			return
		}

		ecs.Remove(w, e, component.CooldownComponent.Kind())
	})
}
