package system

import (
	"image/color"
	"log"
	"math/rand"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/warrens/ecs"
	"github.com/milk9111/warrens/ecs/component"
)

const (
	// How often an arrival hold re-checks whether the traveler has stepped
	// off the destination pad.
	arrivalPollTicks = 6

	// Re-trigger lockout on the source pad after a successful teleport.
	retriggerCooldownTicks = 30

	flashTTLTicks      = 48
	flashDecayMinTicks = 20
	flashDecayMaxTicks = 40
)

// TeleportSystem moves the player between linked pads. Each tick it rebuilds
// a registry of pads keyed by ID, advances arrival holds and pending
// departures, then scans for fresh pad entries.
//
// A destination pad stays Busy while the traveler still stands on it, which
// keeps a pair of pads that point at each other from bouncing the traveler
// straight back.
type TeleportSystem struct {
	rng *rand.Rand
}

func NewTeleportSystem(rng *rand.Rand) *TeleportSystem {
	return &TeleportSystem{rng: rng}
}

type padRef struct {
	ent ecs.Entity
	pad *component.Teleporter
	t   *component.Transform
}

func (s *TeleportSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	var order []padRef
	pads := make(map[string]padRef)
	ecs.ForEach2(w, component.TeleporterComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pad *component.Teleporter, t *component.Transform) {
		ref := padRef{ent: e, pad: pad, t: t}
		order = append(order, ref)
		if pad.ID == "" {
			log.Printf("teleport: pad entity %s has no id, unreachable as a destination", e)
			return
		}
		if prev, exists := pads[pad.ID]; exists {
			log.Printf("teleport: duplicate pad id %q (entities %s and %s)", pad.ID, prev.ent, e)
			return
		}
		pads[pad.ID] = ref
	})

	s.updateArrivalHolds(w, order)
	s.updatePending(w, order, pads)
	s.scanEntries(w, order, pads)
}

// updateArrivalHolds releases a destination pad once its traveler has left
// or died. The check runs on a polling interval rather than every tick.
func (s *TeleportSystem) updateArrivalHolds(w *ecs.World, order []padRef) {
	for _, ref := range order {
		hold, ok := ecs.Get(w, ref.ent, component.ArrivalHoldComponent.Kind())
		if !ok {
			continue
		}

		hold.Timer--
		if hold.Timer > 0 {
			continue
		}
		hold.Timer = hold.PollTicks

		trav := ecs.Entity(hold.Traveler)
		if ecs.IsAlive(w, trav) && s.overlapsPad(w, trav, ref) {
			continue
		}
		ecs.Remove(w, ref.ent, component.ArrivalHoldComponent.Kind())
		ref.pad.Busy = false
	}
}

// updatePending counts down delayed departures and fires them. A pending
// teleport whose traveler died in the meantime is dropped.
func (s *TeleportSystem) updatePending(w *ecs.World, order []padRef, pads map[string]padRef) {
	for _, ref := range order {
		pending, ok := ecs.Get(w, ref.ent, component.TeleportPendingComponent.Kind())
		if !ok {
			continue
		}

		pending.Ticks--
		if pending.Ticks > 0 {
			continue
		}
		ecs.Remove(w, ref.ent, component.TeleportPendingComponent.Kind())

		trav := ecs.Entity(pending.Traveler)
		if !ecs.IsAlive(w, trav) {
			log.Printf("teleport: pad %q dropped pending departure, traveler gone", ref.pad.ID)
			continue
		}
		if ref.pad.Busy {
			log.Printf("teleport: pad %q dropped pending departure, pad received an arrival", ref.pad.ID)
			continue
		}
		s.teleport(w, ref, pads, trav)
	}
}

// scanEntries tracks pad occupancy edges and triggers a departure on a
// fresh entry, unless the pad is locked out.
func (s *TeleportSystem) scanEntries(w *ecs.World, order []padRef, pads map[string]padRef) {
	player, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return
	}

	for _, ref := range order {
		overlap := s.overlapsPad(w, player, ref)
		if !overlap {
			ref.pad.Occupied = false
			continue
		}
		if ref.pad.Occupied {
			continue
		}
		ref.pad.Occupied = true

		if ref.pad.Busy ||
			ecs.Has(w, ref.ent, component.CooldownComponent.Kind()) ||
			ecs.Has(w, ref.ent, component.TeleportPendingComponent.Kind()) {
			continue
		}

		if ref.pad.DelayTicks > 0 {
			_ = ecs.Add(w, ref.ent, component.TeleportPendingComponent.Kind(), &component.TeleportPending{
				Ticks:    ref.pad.DelayTicks,
				Traveler: uint64(player),
			})
			continue
		}
		s.teleport(w, ref, pads, player)
	}
}

func (s *TeleportSystem) teleport(w *ecs.World, src padRef, pads map[string]padRef, trav ecs.Entity) {
	if src.pad.DestID == "" {
		log.Printf("teleport: pad %q has no destination configured", src.pad.ID)
		return
	}
	dest, ok := pads[src.pad.DestID]
	if !ok {
		log.Printf("teleport: pad %q destination %q not found", src.pad.ID, src.pad.DestID)
		return
	}

	t, ok := ecs.Get(w, trav, component.TransformComponent.Kind())
	if !ok {
		return
	}
	t.X = dest.t.X
	t.Y = dest.t.Y
	if src.pad.MatchHeading {
		t.Heading = dest.t.Heading
	}

	if b, ok := ecs.Get(w, trav, component.BodyComponent.Kind()); ok && b.Body != nil {
		b.Body.SetPosition(cp.Vector{X: t.X, Y: t.Y})
		b.Body.SetVelocityVector(cp.Vector{})
	}

	_ = ecs.Add(w, src.ent, component.CooldownComponent.Kind(), &component.Cooldown{Ticks: retriggerCooldownTicks})

	if dest.ent != src.ent {
		dest.pad.Busy = true
		_ = ecs.Add(w, dest.ent, component.ArrivalHoldComponent.Kind(), &component.ArrivalHold{
			Traveler:  uint64(trav),
			PollTicks: arrivalPollTicks,
			Timer:     arrivalPollTicks,
		})
	}

	if src.pad.SpawnEffect {
		s.spawnFlash(w, dest.t.X, dest.t.Y)
	}

	log.Printf("teleport: %q -> %q", src.pad.ID, src.pad.DestID)
}

func (s *TeleportSystem) overlapsPad(w *ecs.World, trav ecs.Entity, ref padRef) bool {
	t, ok := ecs.Get(w, trav, component.TransformComponent.Kind())
	if !ok {
		return false
	}

	bounds := ref.pad.Bounds
	bounds.X += ref.t.X
	bounds.Y += ref.t.Y

	if b, ok := ecs.Get(w, trav, component.BodyComponent.Kind()); ok && b.Width > 0 && b.Height > 0 {
		return bounds.Intersects(b.Footprint(t))
	}
	return bounds.Contains(t.X, t.Y)
}

// spawnFlash drops a short-lived glow at the arrival point.
func (s *TeleportSystem) spawnFlash(w *ecs.World, x, y float64) {
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y})
	_ = ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{
		Shape:  component.ShapeCircle,
		Radius: 10,
		Color:  color.NRGBA{R: 0xe8, G: 0xf4, B: 0xff, A: 0xff},
	})
	light := &component.DecayLight{
		Initial:   1,
		Intensity: 1,
		MinTicks:  flashDecayMinTicks,
		MaxTicks:  flashDecayMaxTicks,
		Radius:    28,
	}
	light.DurationTicks = sampleDuration(s.rng, light.MinTicks, light.MaxTicks)
	light.Active = true
	_ = ecs.Add(w, e, component.DecayLightComponent.Kind(), light)
	_ = ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Ticks: flashTTLTicks})
}
