package system

import (
	"log"
	"math/rand"

	"github.com/milk9111/warrens/common"
	"github.com/milk9111/warrens/ecs"
	"github.com/milk9111/warrens/ecs/component"
)

// LightDecaySystem fades active decay lights linearly to zero. Each start
// samples the duration uniformly from the light's [MinTicks, MaxTicks].
type LightDecaySystem struct {
	rng *rand.Rand
}

func NewLightDecaySystem(rng *rand.Rand) *LightDecaySystem {
	return &LightDecaySystem{rng: rng}
}

// Start samples a fresh duration and begins the decay from the light's
// current intensity toward zero.
func (s *LightDecaySystem) Start(l *component.DecayLight) {
	if l == nil {
		log.Printf("light: start requested for missing light")
		return
	}
	l.DurationTicks = sampleDuration(s.rng, l.MinTicks, l.MaxTicks)
	l.Elapsed = 0
	l.Active = true
}

// Reset restores the initial intensity and restarts the decay.
func (s *LightDecaySystem) Reset(l *component.DecayLight) {
	if l == nil {
		log.Printf("light: reset requested for missing light")
		return
	}
	l.Intensity = l.Initial
	s.Start(l)
}

// Stop halts the decay without altering the current intensity.
func (s *LightDecaySystem) Stop(l *component.DecayLight) {
	if l == nil {
		log.Printf("light: stop requested for missing light")
		return
	}
	l.Active = false
}

func (s *LightDecaySystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.DecayLightComponent.Kind(), func(_ ecs.Entity, l *component.DecayLight) {
		if !l.Active {
			return
		}

		l.Elapsed++
		if l.DurationTicks <= 0 || l.Elapsed >= l.DurationTicks {
			l.Intensity = 0
			l.Active = false
			return
		}
		progress := common.Clamp01(float64(l.Elapsed) / float64(l.DurationTicks))
		l.Intensity = common.Lerp(l.Initial, 0, progress)
	})
}

func sampleDuration(rng *rand.Rand, min, max int) int {
	if min < 0 {
		min = 0
	}
	if max < min {
		max = min
	}
	if rng == nil || max == min {
		return min
	}
	return min + rng.Intn(max-min+1)
}
