package system

import (
	"math/rand"
	"testing"

	"github.com/milk9111/warrens/ecs"
	"github.com/milk9111/warrens/ecs/component"
)

const testPadSize = 40

func newTeleportWorld(t *testing.T) (*ecs.World, ecs.Entity) {
	t.Helper()
	w := ecs.NewWorld()
	w.AddSystem(NewTeleportSystem(rand.New(rand.NewSource(1))))
	w.AddSystem(NewCooldownSystem())
	w.AddSystem(NewTTLSystem())

	player := ecs.CreateEntity(w)
	if err := ecs.Add(w, player, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
		t.Fatalf("add player tag: %v", err)
	}
	if err := ecs.Add(w, player, component.TransformComponent.Kind(), &component.Transform{}); err != nil {
		t.Fatalf("add player transform: %v", err)
	}
	return w, player
}

func addPad(t *testing.T, w *ecs.World, pad component.Teleporter, x, y, heading float64) ecs.Entity {
	t.Helper()
	if pad.Bounds.W == 0 {
		pad.Bounds = component.AABB{X: -testPadSize / 2, Y: -testPadSize / 2, W: testPadSize, H: testPadSize}
	}
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y, Heading: heading}); err != nil {
		t.Fatalf("add pad transform: %v", err)
	}
	if err := ecs.Add(w, e, component.TeleporterComponent.Kind(), &pad); err != nil {
		t.Fatalf("add pad: %v", err)
	}
	return e
}

func movePlayer(t *testing.T, w *ecs.World, player ecs.Entity, x, y float64) {
	t.Helper()
	tr, ok := ecs.Get(w, player, component.TransformComponent.Kind())
	if !ok {
		t.Fatalf("player has no transform")
	}
	tr.X, tr.Y = x, y
}

func playerPos(t *testing.T, w *ecs.World, player ecs.Entity) (float64, float64, float64) {
	t.Helper()
	tr, ok := ecs.Get(w, player, component.TransformComponent.Kind())
	if !ok {
		t.Fatalf("player has no transform")
	}
	return tr.X, tr.Y, tr.Heading
}

func TestTeleportLandsExactlyOnDestination(t *testing.T) {
	tests := []struct {
		name         string
		matchHeading bool
		wantHeading  float64
	}{
		{name: "heading preserved", matchHeading: false, wantHeading: 0.5},
		{name: "heading matched", matchHeading: true, wantHeading: 2.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, player := newTeleportWorld(t)
			addPad(t, w, component.Teleporter{ID: "a", DestID: "b", MatchHeading: tt.matchHeading}, 100, 100, 0)
			addPad(t, w, component.Teleporter{ID: "b", DestID: "a"}, 700.25, 413.5, 2.25)

			movePlayer(t, w, player, 100, 100)
			tr, _ := ecs.Get(w, player, component.TransformComponent.Kind())
			tr.Heading = 0.5

			w.Update()

			x, y, heading := playerPos(t, w, player)
			if x != 700.25 || y != 413.5 {
				t.Fatalf("expected exact arrival at (700.25, 413.5), got (%v, %v)", x, y)
			}
			if heading != tt.wantHeading {
				t.Fatalf("expected heading %v, got %v", tt.wantHeading, heading)
			}
		})
	}
}

func TestArrivalDoesNotBounceBack(t *testing.T) {
	w, player := newTeleportWorld(t)
	addPad(t, w, component.Teleporter{ID: "a", DestID: "b"}, 100, 100, 0)
	padB := addPad(t, w, component.Teleporter{ID: "b", DestID: "a"}, 600, 300, 0)

	movePlayer(t, w, player, 100, 100)
	w.Update()

	x, y, _ := playerPos(t, w, player)
	if x != 600 || y != 300 {
		t.Fatalf("expected arrival at pad b, got (%v, %v)", x, y)
	}

	// Stand on the destination well past the poll interval; the hold must
	// keep the reciprocal pad from firing.
	for i := 0; i < arrivalPollTicks*5; i++ {
		w.Update()
		x, y, _ = playerPos(t, w, player)
		if x != 600 || y != 300 {
			t.Fatalf("bounced back on tick %d: (%v, %v)", i+1, x, y)
		}
	}

	pad, _ := ecs.Get(w, padB, component.TeleporterComponent.Kind())
	if !pad.Busy {
		t.Fatalf("expected destination pad busy while occupied")
	}
}

func TestArrivalHoldReleasesAfterLeaving(t *testing.T) {
	w, player := newTeleportWorld(t)
	addPad(t, w, component.Teleporter{ID: "a", DestID: "b"}, 100, 100, 0)
	padB := addPad(t, w, component.Teleporter{ID: "b", DestID: "a"}, 600, 300, 0)

	movePlayer(t, w, player, 100, 100)
	w.Update()

	movePlayer(t, w, player, 400, 400)
	for i := 0; i <= arrivalPollTicks; i++ {
		w.Update()
	}

	pad, _ := ecs.Get(w, padB, component.TeleporterComponent.Kind())
	if pad.Busy {
		t.Fatalf("expected destination pad released after traveler left")
	}
	if ecs.Has(w, padB, component.ArrivalHoldComponent.Kind()) {
		t.Fatalf("expected arrival hold removed")
	}
}

func TestMissingDestinationIsNoOp(t *testing.T) {
	w, player := newTeleportWorld(t)
	addPad(t, w, component.Teleporter{ID: "a", DestID: "nowhere"}, 100, 100, 0)

	movePlayer(t, w, player, 100, 100)
	for i := 0; i < 10; i++ {
		w.Update()
	}

	x, y, _ := playerPos(t, w, player)
	if x != 100 || y != 100 {
		t.Fatalf("expected player untouched, got (%v, %v)", x, y)
	}
}

func TestDelayedDeparture(t *testing.T) {
	w, player := newTeleportWorld(t)
	padA := addPad(t, w, component.Teleporter{ID: "a", DestID: "b", DelayTicks: 3}, 100, 100, 0)
	addPad(t, w, component.Teleporter{ID: "b", DestID: "a"}, 600, 300, 0)

	movePlayer(t, w, player, 100, 100)
	w.Update()

	if !ecs.Has(w, padA, component.TeleportPendingComponent.Kind()) {
		t.Fatalf("expected pending departure after entry")
	}
	x, y, _ := playerPos(t, w, player)
	if x != 100 || y != 100 {
		t.Fatalf("expected player still at source during delay")
	}

	for i := 0; i < 3; i++ {
		w.Update()
	}

	x, y, _ = playerPos(t, w, player)
	if x != 600 || y != 300 {
		t.Fatalf("expected arrival after delay, got (%v, %v)", x, y)
	}
}

func TestPendingDroppedWhenTravelerDies(t *testing.T) {
	w, player := newTeleportWorld(t)
	padA := addPad(t, w, component.Teleporter{ID: "a", DestID: "b", DelayTicks: 2}, 100, 100, 0)
	padB := addPad(t, w, component.Teleporter{ID: "b", DestID: "a"}, 600, 300, 0)

	movePlayer(t, w, player, 100, 100)
	w.Update()
	ecs.DestroyEntity(w, player)

	for i := 0; i < 5; i++ {
		w.Update()
	}

	if ecs.Has(w, padA, component.TeleportPendingComponent.Kind()) {
		t.Fatalf("expected stale pending departure dropped")
	}
	if ecs.Has(w, padB, component.ArrivalHoldComponent.Kind()) {
		t.Fatalf("expected no arrival hold for a dead traveler")
	}
}

func TestCooldownBlocksImmediateRetrigger(t *testing.T) {
	w, player := newTeleportWorld(t)
	padA := addPad(t, w, component.Teleporter{ID: "a", DestID: "b"}, 100, 100, 0)
	addPad(t, w, component.Teleporter{ID: "b", DestID: "a"}, 600, 300, 0)

	movePlayer(t, w, player, 100, 100)
	w.Update()

	if !ecs.Has(w, padA, component.CooldownComponent.Kind()) {
		t.Fatalf("expected source pad on cooldown after departure")
	}

	// Leave the source so its occupancy edge clears, then step straight
	// back on while it cools down.
	w.Update()
	movePlayer(t, w, player, 100, 100)
	w.Update()

	x, y, _ := playerPos(t, w, player)
	if x != 100 || y != 100 {
		t.Fatalf("expected cooldown to block re-trigger, got (%v, %v)", x, y)
	}
}

func TestArrivalFlashSpawned(t *testing.T) {
	w, player := newTeleportWorld(t)
	addPad(t, w, component.Teleporter{ID: "a", DestID: "b", SpawnEffect: true}, 100, 100, 0)
	addPad(t, w, component.Teleporter{ID: "b", DestID: "a"}, 600, 300, 0)

	movePlayer(t, w, player, 100, 100)
	w.Update()

	flash, ok := ecs.First(w, component.TTLComponent.Kind())
	if !ok {
		t.Fatalf("expected flash effect entity")
	}
	light, ok := ecs.Get(w, flash, component.DecayLightComponent.Kind())
	if !ok || !light.Active {
		t.Fatalf("expected flash to carry an active decay light")
	}

	for i := 0; i < flashTTLTicks+1; i++ {
		w.Update()
	}
	if ecs.IsAlive(w, flash) {
		t.Fatalf("expected flash cleaned up after its ttl")
	}
}
