package ecs

import (
	"testing"

	"github.com/milk9111/warrens/ecs/component"
)

type testPos struct {
	X, Y float64
}

type testTag struct{}

var (
	testPosComponent = component.NewComponent[testPos]()
	testTagComponent = component.NewComponent[testTag]()
)

func TestEntityLifecycle(t *testing.T) {
	w := NewWorld()

	e := CreateEntity(w)
	if !IsAlive(w, e) {
		t.Fatalf("expected fresh entity to be alive")
	}

	if !DestroyEntity(w, e) {
		t.Fatalf("expected destroy to succeed")
	}
	if IsAlive(w, e) {
		t.Fatalf("expected destroyed entity to be dead")
	}
	if DestroyEntity(w, e) {
		t.Fatalf("expected second destroy to fail")
	}
}

func TestStaleHandleAfterReuse(t *testing.T) {
	w := NewWorld()

	old := CreateEntity(w)
	if err := Add(w, old, testPosComponent.Kind(), &testPos{X: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	DestroyEntity(w, old)

	reused := CreateEntity(w)
	if old == reused {
		t.Fatalf("expected generation bump on id reuse")
	}
	if IsAlive(w, old) {
		t.Fatalf("stale handle reports alive")
	}
	if _, ok := Get(w, old, testPosComponent.Kind()); ok {
		t.Fatalf("stale handle can still read components")
	}
	if _, ok := Get(w, reused, testPosComponent.Kind()); ok {
		t.Fatalf("reused id inherited the old entity's component")
	}
}

func TestAddGetRemove(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)

	if err := Add(w, e, testPosComponent.Kind(), nil); err != component.ErrNilComponent {
		t.Fatalf("expected ErrNilComponent, got %v", err)
	}

	if err := Add(w, e, testPosComponent.Kind(), &testPos{X: 3, Y: 4}); err != nil {
		t.Fatalf("add: %v", err)
	}

	p, ok := Get(w, e, testPosComponent.Kind())
	if !ok {
		t.Fatalf("expected component present")
	}
	p.X = 9

	p2, _ := Get(w, e, testPosComponent.Kind())
	if p2.X != 9 {
		t.Fatalf("expected in-place mutation to stick, got %v", p2.X)
	}

	if !Remove(w, e, testPosComponent.Kind()) {
		t.Fatalf("expected remove to succeed")
	}
	if Has(w, e, testPosComponent.Kind()) {
		t.Fatalf("expected component gone")
	}
}

func TestAddToDeadEntity(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)
	DestroyEntity(w, e)

	if err := Add(w, e, testPosComponent.Kind(), &testPos{}); err != component.ErrEntityNotAlive {
		t.Fatalf("expected ErrEntityNotAlive, got %v", err)
	}
}

func TestForEach2VisitsIntersection(t *testing.T) {
	w := NewWorld()

	both := CreateEntity(w)
	_ = Add(w, both, testPosComponent.Kind(), &testPos{X: 1})
	_ = Add(w, both, testTagComponent.Kind(), &testTag{})

	posOnly := CreateEntity(w)
	_ = Add(w, posOnly, testPosComponent.Kind(), &testPos{X: 2})

	tagOnly := CreateEntity(w)
	_ = Add(w, tagOnly, testTagComponent.Kind(), &testTag{})

	var visited []Entity
	ForEach2(w, testPosComponent.Kind(), testTagComponent.Kind(), func(e Entity, _ *testPos, _ *testTag) {
		visited = append(visited, e)
	})

	if len(visited) != 1 || visited[0] != both {
		t.Fatalf("expected only the entity with both components, got %v", visited)
	}
}

func TestForEachAllowsDestroyDuringIteration(t *testing.T) {
	w := NewWorld()
	for i := 0; i < 5; i++ {
		e := CreateEntity(w)
		_ = Add(w, e, testPosComponent.Kind(), &testPos{X: float64(i)})
	}

	ForEach(w, testPosComponent.Kind(), func(e Entity, _ *testPos) {
		DestroyEntity(w, e)
	})

	if n := Count(w, testPosComponent.Kind()); n != 0 {
		t.Fatalf("expected all entities destroyed, %d remain", n)
	}
}

func TestEventQueueFlushedAfterUpdate(t *testing.T) {
	w := NewWorld()
	var seen int

	w.AddSystem(systemFunc(func(w *World) {
		w.Events().Push(Event{Kind: EventContactBegin})
	}))
	w.AddSystem(systemFunc(func(w *World) {
		seen = len(w.Events().Items())
	}))

	w.Update()
	if seen != 1 {
		t.Fatalf("expected later system to see 1 event, saw %d", seen)
	}
	if len(w.Events().Items()) != 0 {
		t.Fatalf("expected queue empty after update")
	}
}

type systemFunc func(*World)

func (f systemFunc) Update(w *World) { f(w) }
