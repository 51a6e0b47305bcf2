package system

import (
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/warrens/ecs"
	"github.com/milk9111/warrens/ecs/component"
)

// GameOverSystem watches the contact stream for the player touching a
// lethal agent. The agent's Fired latch guarantees at most one trigger per
// agent lifetime, and a countdown already in flight swallows further
// triggers from other agents.
type GameOverSystem struct{}

func NewGameOverSystem() *GameOverSystem {
	return &GameOverSystem{}
}

func (s *GameOverSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	s.tickPending(w)

	player, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return
	}

	for _, ev := range w.Events().Items() {
		if ev.Kind != ecs.EventContactBegin {
			continue
		}
		enemy, ok := contactOther(ev.Contact, player)
		if !ok {
			continue
		}
		g, ok := ecs.Get(w, enemy, component.GameOverComponent.Kind())
		if !ok || g.Fired {
			continue
		}
		g.Fired = true

		if _, pending := ecs.First(w, component.GameOverPendingComponent.Kind()); pending {
			continue
		}
		s.trigger(w, player, g)
	}
}

func (s *GameOverSystem) trigger(w *ecs.World, player ecs.Entity, g *component.GameOver) {
	log.Printf("game: over: %s", g.Message)

	if ctrl, ok := ecs.Get(w, player, component.ControlComponent.Kind()); ok {
		ctrl.Disabled = true
	}
	if b, ok := ecs.Get(w, player, component.BodyComponent.Kind()); ok && b.Body != nil {
		b.Body.SetVelocityVector(cp.Vector{})
	}

	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.GameOverPendingComponent.Kind(), &component.GameOverPending{
		Ticks:   g.DelayTicks,
		Message: g.Message,
	})
}

// tickPending counts the active game-over delay down and converts it into a
// room reset request for the outer loop.
func (s *GameOverSystem) tickPending(w *ecs.World) {
	e, ok := ecs.First(w, component.GameOverPendingComponent.Kind())
	if !ok {
		return
	}
	p, ok := ecs.Get(w, e, component.GameOverPendingComponent.Kind())
	if !ok {
		return
	}

	if p.Ticks > 0 {
		p.Ticks--
		return
	}

	ecs.DestroyEntity(w, e)
	req := ecs.CreateEntity(w)
	_ = ecs.Add(w, req, component.ResetRoomRequestComponent.Kind(), &component.ResetRoomRequest{})
}

func contactOther(c ecs.Contact, player ecs.Entity) (ecs.Entity, bool) {
	switch player {
	case c.A:
		return c.B, true
	case c.B:
		return c.A, true
	default:
		return 0, false
	}
}
