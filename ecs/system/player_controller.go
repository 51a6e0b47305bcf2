package system

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/warrens/common"
	"github.com/milk9111/warrens/ecs"
	"github.com/milk9111/warrens/ecs/component"
)

// PlayerControllerSystem maps held keys to player velocity. Once Control is
// disabled (game over) the player stops and stays stopped.
type PlayerControllerSystem struct{}

func NewPlayerControllerSystem() *PlayerControllerSystem {
	return &PlayerControllerSystem{}
}

func (s *PlayerControllerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	player, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	ctrl, ok := ecs.Get(w, player, component.ControlComponent.Kind())
	if !ok {
		return
	}
	t, ok := ecs.Get(w, player, component.TransformComponent.Kind())
	if !ok {
		return
	}
	body, _ := ecs.Get(w, player, component.BodyComponent.Kind())

	var dx, dy float64
	if !ctrl.Disabled {
		if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
			dx--
		}
		if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
			dx++
		}
		if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
			dy--
		}
		if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
			dy++
		}
	}

	dx, dy = common.Normalize(dx, dy)
	vx := dx * ctrl.MoveSpeed
	vy := dy * ctrl.MoveSpeed

	if body != nil && body.Body != nil {
		body.Body.SetVelocityVector(cp.Vector{X: vx, Y: vy})
	} else {
		t.X += vx * common.Dt
		t.Y += vy * common.Dt
	}

	if dx != 0 || dy != 0 {
		t.Heading = math.Atan2(dy, dx)
	}
}
