package system

import (
	"math"
	"math/rand"
	"testing"

	"github.com/milk9111/warrens/ecs"
	"github.com/milk9111/warrens/ecs/component"
)

func newAIWorld(t *testing.T) *ecs.World {
	t.Helper()
	w := ecs.NewWorld()
	w.AddSystem(NewAISystem(rand.New(rand.NewSource(7)), nil))
	return w
}

func addTestAgent(t *testing.T, w *ecs.World, agent component.Agent, x, y float64) ecs.Entity {
	t.Helper()
	if agent.MoveSpeed == 0 {
		agent.MoveSpeed = 60
	}
	if agent.ArriveTolerance == 0 {
		agent.ArriveTolerance = 1
	}
	if agent.TurnRate == 0 {
		agent.TurnRate = 0.5
	}

	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y})
	mustAdd(t, w, e, component.AgentComponent.Kind(), &agent)
	mustAdd(t, w, e, component.AgentNavComponent.Kind(), &component.AgentNav{OriginX: x, OriginY: y})
	mustAdd(t, w, e, component.AIStateComponent.Kind(), &component.AIState{})
	mustAdd(t, w, e, component.AIContextComponent.Kind(), &component.AIContext{})
	mustAdd(t, w, e, component.AIConfigComponent.Kind(), &component.AIConfig{FSM: agent.Mode.String()})
	return e
}

func addTestPlayer(t *testing.T, w *ecs.World, x, y float64) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
	mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y})
	return e
}

func mustAdd[T any](t *testing.T, w *ecs.World, e ecs.Entity, k component.ComponentKind[T], v *T) {
	t.Helper()
	if err := ecs.Add(w, e, k, v); err != nil {
		t.Fatalf("add component: %v", err)
	}
}

func TestIdleAgentStaysPut(t *testing.T) {
	w := newAIWorld(t)
	e := addTestAgent(t, w, component.Agent{Mode: component.ModeIdle}, 500, 250)

	for i := 0; i < 120; i++ {
		w.Update()
	}

	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	if tr.X != 500 || tr.Y != 250 {
		t.Fatalf("idle agent drifted to (%v, %v)", tr.X, tr.Y)
	}
}

func TestLineOscillationStaysOnSegment(t *testing.T) {
	w := newAIWorld(t)
	e := addTestAgent(t, w, component.Agent{
		Mode:         component.ModeLineOscillate,
		LineDistance: 200,
		LineDirX:     1,
		PauseTicks:   2,
	}, 300, 100)

	// The agent turns around as soon as it is within ArriveTolerance of an
	// endpoint, so it closes to within tolerance but need not touch it.
	const eps = 1e-9
	const tolerance = 1
	minX, maxX := math.Inf(1), math.Inf(-1)
	for i := 0; i < 800; i++ {
		w.Update()
		tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		if tr.X < 200-eps || tr.X > 400+eps {
			t.Fatalf("tick %d: x=%v left segment [200, 400]", i+1, tr.X)
		}
		if tr.Y != 100 {
			t.Fatalf("tick %d: agent left the line, y=%v", i+1, tr.Y)
		}
		minX = math.Min(minX, tr.X)
		maxX = math.Max(maxX, tr.X)
	}

	if maxX < 400-tolerance-eps || minX > 200+tolerance+eps {
		t.Fatalf("expected both endpoints approached within tolerance, saw [%v, %v]", minX, maxX)
	}
}

func TestLineTargetsAlternate(t *testing.T) {
	w := newAIWorld(t)
	e := addTestAgent(t, w, component.Agent{
		Mode:         component.ModeLineOscillate,
		LineDistance: 100,
		LineDirX:     1,
		PauseTicks:   1,
	}, 0, 0)

	w.Update()
	nav, _ := ecs.Get(w, e, component.AgentNavComponent.Kind())
	first := nav.TargetX
	if first != 50 {
		t.Fatalf("expected first target at +half (50), got %v", first)
	}

	// Run past arrival and the pause; the next target must be the far end.
	for i := 0; i < 120; i++ {
		w.Update()
		if nav.TargetX != first {
			break
		}
	}
	if nav.TargetX != -50 {
		t.Fatalf("expected alternate target at -50, got %v", nav.TargetX)
	}
}

func TestPauseLastsExactlyPauseTicks(t *testing.T) {
	const pause = 5
	w := newAIWorld(t)
	e := addTestAgent(t, w, component.Agent{
		Mode:         component.ModeLineOscillate,
		LineDistance: 20,
		LineDirX:     1,
		PauseTicks:   pause,
	}, 0, 0)

	const tolerance = 1
	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	arrivedAt := -1
	for i := 0; i < 200; i++ {
		w.Update()
		if math.Abs(tr.X-10) <= tolerance {
			arrivedAt = i
			break
		}
	}
	if arrivedAt < 0 {
		t.Fatalf("agent never came within tolerance of the endpoint")
	}

	arrivedX := tr.X
	for i := 0; i < pause; i++ {
		w.Update()
		if tr.X != arrivedX {
			t.Fatalf("agent moved during pause tick %d", i+1)
		}
	}
	w.Update()
	if tr.X == arrivedX {
		t.Fatalf("agent still paused after %d ticks", pause)
	}
}

func TestAreaTargetsSampledInsideBounds(t *testing.T) {
	w := newAIWorld(t)

	area := ecs.CreateEntity(w)
	bounds := component.AABB{X: 400, Y: 300, W: 200, H: 100}
	mustAdd(t, w, area, component.PatrolAreaComponent.Kind(), &component.PatrolArea{ID: "yard", Bounds: bounds})

	e := addTestAgent(t, w, component.Agent{
		Mode:       component.ModeAreaPatrol,
		AreaID:     "yard",
		PauseTicks: 1,
	}, 450, 350)

	nav, _ := ecs.Get(w, e, component.AgentNavComponent.Kind())
	for i := 0; i < 1500; i++ {
		w.Update()
		if nav.HasTarget && !bounds.Contains(nav.TargetX, nav.TargetY) {
			t.Fatalf("tick %d: target (%v, %v) outside area", i+1, nav.TargetX, nav.TargetY)
		}
	}

	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	if !bounds.Contains(tr.X, tr.Y) {
		t.Fatalf("agent wandered out of the area to (%v, %v)", tr.X, tr.Y)
	}
}

func TestAreaPatrolWithMissingAreaStaysPut(t *testing.T) {
	w := newAIWorld(t)
	e := addTestAgent(t, w, component.Agent{
		Mode:   component.ModeAreaPatrol,
		AreaID: "nowhere",
	}, 100, 100)

	for i := 0; i < 60; i++ {
		w.Update()
	}

	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	if tr.X != 100 || tr.Y != 100 {
		t.Fatalf("agent without an area moved to (%v, %v)", tr.X, tr.Y)
	}
}

func TestChaseEngagesAndDisengages(t *testing.T) {
	w := newAIWorld(t)
	player := addTestPlayer(t, w, 160, 100)
	e := addTestAgent(t, w, component.Agent{Mode: component.ModeIdle}, 100, 100)
	mustAdd(t, w, e, component.DetectionComponent.Kind(), &component.Detection{Range: 100, Chase: true})

	w.Update()
	state, _ := ecs.Get(w, e, component.AIStateComponent.Kind())
	if state.Current != "chase" {
		t.Fatalf("expected chase after seeing player, in %q", state.Current)
	}

	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	before := tr.X
	w.Update()
	if tr.X <= before {
		t.Fatalf("expected agent closing on player, x stayed at %v", tr.X)
	}

	playerTr, _ := ecs.Get(w, player, component.TransformComponent.Kind())
	playerTr.X = 5000
	w.Update()
	if state.Current != "idle" {
		t.Fatalf("expected return to idle after losing player, in %q", state.Current)
	}
}

func TestDetectionTracksLastKnownPosition(t *testing.T) {
	w := newAIWorld(t)
	player := addTestPlayer(t, w, 130, 140)
	e := addTestAgent(t, w, component.Agent{Mode: component.ModeIdle}, 100, 100)
	mustAdd(t, w, e, component.DetectionComponent.Kind(), &component.Detection{Range: 100})

	w.Update()
	det, _ := ecs.Get(w, e, component.DetectionComponent.Kind())
	if !det.Detected {
		t.Fatalf("expected player detected in range")
	}
	if det.LastKnownX != 130 || det.LastKnownY != 140 {
		t.Fatalf("expected last known (130, 140), got (%v, %v)", det.LastKnownX, det.LastKnownY)
	}

	playerTr, _ := ecs.Get(w, player, component.TransformComponent.Kind())
	playerTr.X = 5000
	w.Update()
	if det.Detected {
		t.Fatalf("expected detection cleared out of range")
	}
	if det.LastKnownX != 130 {
		t.Fatalf("expected last known position retained, got %v", det.LastKnownX)
	}
}

func TestInterruptEventDrivesTransition(t *testing.T) {
	w := newAIWorld(t)
	e := addTestAgent(t, w, component.Agent{
		Mode:         component.ModeLineOscillate,
		LineDistance: 200,
		LineDirX:     1,
		PauseTicks:   30,
	}, 300, 100)

	w.Update()
	state, _ := ecs.Get(w, e, component.AIStateComponent.Kind())
	if state.Current != "patrol" {
		t.Fatalf("expected patrol, in %q", state.Current)
	}

	// An injected interrupt forces the transition the machine would normally
	// reach on arrival, and is consumed in the same tick.
	mustAdd(t, w, e, component.AIStateInterruptComponent.Kind(), &component.AIStateInterrupt{Event: "arrived"})
	w.Update()
	if state.Current != "pause" {
		t.Fatalf("expected pause after interrupt, in %q", state.Current)
	}
	if ecs.Has(w, e, component.AIStateInterruptComponent.Kind()) {
		t.Fatalf("interrupt not consumed")
	}
}

func TestDetectionWithoutChaseKeepsPatrolling(t *testing.T) {
	w := newAIWorld(t)
	addTestPlayer(t, w, 310, 100)
	e := addTestAgent(t, w, component.Agent{
		Mode:         component.ModeLineOscillate,
		LineDistance: 200,
		LineDirX:     1,
		PauseTicks:   1,
	}, 300, 100)
	mustAdd(t, w, e, component.DetectionComponent.Kind(), &component.Detection{Range: 500})

	for i := 0; i < 60; i++ {
		w.Update()
	}

	state, _ := ecs.Get(w, e, component.AIStateComponent.Kind())
	if state.Current != "patrol" && state.Current != "pause" {
		t.Fatalf("non-chasing agent left its patrol machine for %q", state.Current)
	}
}
