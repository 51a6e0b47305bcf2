package ecs

import "github.com/milk9111/warrens/ecs/component"

// Add attaches a component to a live entity, replacing any existing value of
// the same kind. Components are stored by pointer: callers mutate them in
// place and do not need to write back.
func Add[T any](w *World, e Entity, k component.ComponentKind[T], v *T) error {
	if !k.Valid() {
		return component.ErrInvalidComponentKind
	}
	if v == nil {
		return component.ErrNilComponent
	}
	if !IsAlive(w, e) {
		return component.ErrEntityNotAlive
	}
	w.storeFor(k.ID(), true).set(e.id(), v)
	return nil
}

func Get[T any](w *World, e Entity, k component.ComponentKind[T]) (*T, bool) {
	if !IsAlive(w, e) {
		return nil, false
	}
	v := w.storeFor(k.ID(), false).get(e.id())
	if v == nil {
		return nil, false
	}
	t, ok := v.(*T)
	return t, ok
}

func Has[T any](w *World, e Entity, k component.ComponentKind[T]) bool {
	if !IsAlive(w, e) {
		return false
	}
	return w.storeFor(k.ID(), false).has(e.id())
}

func Remove[T any](w *World, e Entity, k component.ComponentKind[T]) bool {
	if !IsAlive(w, e) {
		return false
	}
	return w.storeFor(k.ID(), false).remove(e.id())
}

// First returns any one live entity carrying the component.
func First[T any](w *World, k component.ComponentKind[T]) (Entity, bool) {
	if w == nil {
		return 0, false
	}
	s := w.storeFor(k.ID(), false)
	for _, id := range s.ids() {
		if e, ok := w.entities.handle(id); ok {
			return e, true
		}
	}
	return 0, false
}

// Count returns the number of live entities carrying the component.
func Count[T any](w *World, k component.ComponentKind[T]) int {
	if w == nil {
		return 0
	}
	n := 0
	s := w.storeFor(k.ID(), false)
	for _, id := range s.ids() {
		if _, ok := w.entities.handle(id); ok {
			n++
		}
	}
	return n
}

// ForEach visits every live entity with the component. The iteration works
// over a snapshot, so callbacks may add or destroy entities freely.
func ForEach[T any](w *World, k component.ComponentKind[T], fn func(Entity, *T)) {
	if w == nil || fn == nil {
		return
	}
	s := w.storeFor(k.ID(), false)
	for _, id := range s.ids() {
		e, ok := w.entities.handle(id)
		if !ok {
			continue
		}
		if v, ok := s.get(id).(*T); ok && v != nil {
			fn(e, v)
		}
	}
}

// ForEach2 visits live entities carrying both components.
func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	if w == nil || fn == nil {
		return
	}
	sa := w.storeFor(ka.ID(), false)
	sb := w.storeFor(kb.ID(), false)
	if sa.len() > sb.len() {
		ForEach2(w, kb, ka, func(e Entity, b *B, a *A) { fn(e, a, b) })
		return
	}
	for _, id := range sa.ids() {
		e, ok := w.entities.handle(id)
		if !ok || !sb.has(id) {
			continue
		}
		a, aok := sa.get(id).(*A)
		b, bok := sb.get(id).(*B)
		if aok && bok && a != nil && b != nil {
			fn(e, a, b)
		}
	}
}

// ForEach3 visits live entities carrying all three components.
func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	if w == nil || fn == nil {
		return
	}
	ForEach2(w, ka, kb, func(e Entity, a *A, b *B) {
		if c, ok := Get(w, e, kc); ok {
			fn(e, a, b, c)
		}
	})
}
