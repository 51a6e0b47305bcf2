package system

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/warrens/common"
	"github.com/milk9111/warrens/ecs"
	"github.com/milk9111/warrens/ecs/component"
	"golang.org/x/image/colornames"
)

const headingLineLength = 14

// Draw renders the room back to front: walls, pads, light glows, then
// sprites with their heading ticks.
func Draw(w *ecs.World, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}

	ecs.ForEach(w, component.WallComponent.Kind(), func(_ ecs.Entity, wall *component.Wall) {
		vector.FillRect(screen,
			float32(wall.Bounds.X), float32(wall.Bounds.Y),
			float32(wall.Bounds.W), float32(wall.Bounds.H),
			colornames.Dimgray, false)
	})

	ecs.ForEach2(w, component.TeleporterComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, pad *component.Teleporter, t *component.Transform) {
		c := colornames.Darkslateblue
		if pad.Busy || pad.Occupied {
			c = colornames.Slateblue
		}
		vector.FillRect(screen,
			float32(t.X+pad.Bounds.X), float32(t.Y+pad.Bounds.Y),
			float32(pad.Bounds.W), float32(pad.Bounds.H),
			c, false)
	})

	ecs.ForEach2(w, component.DecayLightComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, l *component.DecayLight, t *component.Transform) {
		if l.Intensity <= 0 || l.Radius <= 0 {
			return
		}
		glow := glowColor(l.Intensity)
		vector.FillCircle(screen, float32(t.X), float32(t.Y), float32(l.Radius*common.Clamp01(l.Intensity)), glow, true)
	})

	ecs.ForEach2(w, component.SpriteComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, sp *component.Sprite, t *component.Transform) {
		switch sp.Shape {
		case component.ShapeCircle:
			vector.FillCircle(screen, float32(t.X), float32(t.Y), float32(sp.Radius), sp.Color, true)
		default:
			vector.FillRect(screen,
				float32(t.X-sp.W/2), float32(t.Y-sp.H/2),
				float32(sp.W), float32(sp.H),
				sp.Color, false)
		}

		if ecs.Has(w, e, component.AgentComponent.Kind()) || ecs.Has(w, e, component.PlayerTagComponent.Kind()) {
			ex := t.X + math.Cos(t.Heading)*headingLineLength
			ey := t.Y + math.Sin(t.Heading)*headingLineLength
			vector.StrokeLine(screen, float32(t.X), float32(t.Y), float32(ex), float32(ey), 2, colornames.White, true)
		}
	})
}

func glowColor(intensity float64) color.NRGBA {
	a := uint8(common.Clamp01(intensity) * 160)
	return color.NRGBA{R: 0xff, G: 0xc8, B: 0x6e, A: a}
}
