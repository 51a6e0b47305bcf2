package system

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/warrens/ecs"
	"github.com/milk9111/warrens/ecs/component"
	"golang.org/x/image/colornames"
)

// DrawDebug overlays detection ranges, oscillation segments, patrol areas,
// and body footprints.
func DrawDebug(w *ecs.World, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}

	ecs.ForEach(w, component.PatrolAreaComponent.Kind(), func(_ ecs.Entity, a *component.PatrolArea) {
		vector.StrokeRect(screen,
			float32(a.Bounds.X), float32(a.Bounds.Y),
			float32(a.Bounds.W), float32(a.Bounds.H),
			1, colornames.Darkgreen, false)
	})

	ecs.ForEach2(w, component.AgentComponent.Kind(), component.AgentNavComponent.Kind(), func(e ecs.Entity, agent *component.Agent, nav *component.AgentNav) {
		if agent.Mode == component.ModeLineOscillate {
			half := agent.LineDistance / 2
			ax := nav.OriginX - agent.LineDirX*half
			ay := nav.OriginY - agent.LineDirY*half
			bx := nav.OriginX + agent.LineDirX*half
			by := nav.OriginY + agent.LineDirY*half
			vector.StrokeLine(screen, float32(ax), float32(ay), float32(bx), float32(by), 1, colornames.Teal, false)
		}

		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			return
		}
		if nav.HasTarget {
			vector.StrokeLine(screen, float32(t.X), float32(t.Y), float32(nav.TargetX), float32(nav.TargetY), 1, colornames.Yellow, false)
		}
		if det, ok := ecs.Get(w, e, component.DetectionComponent.Kind()); ok {
			c := colornames.Gray
			if det.Detected {
				c = colornames.Red
			}
			vector.StrokeCircle(screen, float32(t.X), float32(t.Y), float32(det.Range), 1, c, true)
		}
	})

	ecs.ForEach2(w, component.BodyComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, b *component.Body, t *component.Transform) {
		fp := b.Footprint(t)
		vector.StrokeRect(screen,
			float32(fp.X), float32(fp.Y),
			float32(fp.W), float32(fp.H),
			1, colornames.Orange, false)
	})
}
