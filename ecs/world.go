package ecs

import "github.com/milk9111/warrens/ecs/component"

// System updates a world once per simulation tick.
type System interface {
	Update(w *World)
}

// World owns entities, component storage, the tick event queue, and the
// system update order. All mutation happens synchronously inside Update;
// there is no locking because nothing runs concurrently.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*store
	systems  []System
	events   EventQueue
	physics  *PhysicsWorld
}

func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*store)}
}

func CreateEntity(w *World) Entity {
	if w == nil {
		return 0
	}
	return w.entities.create()
}

// DestroyEntity invalidates the handle and scrubs the entity's components
// from every store.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.destroy(e) {
		return false
	}
	for _, s := range w.stores {
		s.remove(e.id())
	}
	return true
}

func IsAlive(w *World, e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities returns all live entity handles.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return w.entities.alive()
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	if s == nil {
		return
	}
	w.systems = append(w.systems, s)
}

// Update runs all systems once, then flushes the event queue. Events pushed
// during a tick are visible to every system that runs later in the same tick
// and are gone by the next.
func (w *World) Update() {
	if w == nil {
		return
	}
	for _, s := range w.systems {
		s.Update(w)
	}
	w.events.flush()
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// SetPhysics attaches a physics world.
func (w *World) SetPhysics(pw *PhysicsWorld) {
	if w == nil {
		return
	}
	w.physics = pw
}

// Physics returns the attached physics world, if any.
func (w *World) Physics() *PhysicsWorld {
	if w == nil {
		return nil
	}
	return w.physics
}

func (w *World) storeFor(id component.ComponentID, create bool) *store {
	if w == nil || id == 0 {
		return nil
	}
	s, ok := w.stores[id]
	if !ok && create {
		s = &store{}
		w.stores[id] = s
	}
	return s
}
