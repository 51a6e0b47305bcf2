package main

import (
	"image/color"
	"log"
	"math/rand"

	"github.com/milk9111/warrens/common"
	"github.com/milk9111/warrens/ecs"
	"github.com/milk9111/warrens/ecs/component"
	"github.com/milk9111/warrens/ecs/system"
	"github.com/milk9111/warrens/prefabs"
)

const (
	defaultPlayerSpeed = 160
	defaultPlayerSize  = 24
	defaultEnemySpeed  = 80
	defaultEnemySize   = 20
	defaultTolerance   = 4
	defaultTurnRate    = 0.15
	defaultTorchRadius = 80
)

// Room is a built world plus the systems the outer loop talks to directly.
type Room struct {
	World  *ecs.World
	AI     *system.AISystem
	Lights *system.LightDecaySystem
}

// BuildRoom turns an authored spec into a live world. Authored seconds
// become ticks here; nothing downstream sees wall-clock durations.
func BuildRoom(spec *prefabs.RoomSpec, seed int64) *Room {
	rng := rand.New(rand.NewSource(seed))

	w := ecs.NewWorld()
	pw := ecs.NewPhysicsWorld()
	w.SetPhysics(pw)
	pw.AddBounds(spec.Width, spec.Height)

	for _, wallSpec := range spec.Walls {
		bounds := component.AABB{X: wallSpec.X, Y: wallSpec.Y, W: wallSpec.W, H: wallSpec.H}
		pw.AddWall(bounds)
		e := ecs.CreateEntity(w)
		_ = ecs.Add(w, e, component.WallComponent.Kind(), &component.Wall{Bounds: bounds})
	}

	for _, a := range spec.Areas {
		e := ecs.CreateEntity(w)
		_ = ecs.Add(w, e, component.PatrolAreaComponent.Kind(), &component.PatrolArea{
			ID:     a.ID,
			Bounds: component.AABB{X: a.Bounds.X, Y: a.Bounds.Y, W: a.Bounds.W, H: a.Bounds.H},
		})
	}

	buildPlayer(w, spec.Player)
	buildTeleporters(w, spec.Teleporters)

	lights := system.NewLightDecaySystem(rng)
	for _, torch := range spec.Torches {
		buildTorch(w, lights, torch)
	}

	ai := system.NewAISystem(rng, prefabs.LoadScript)
	registerRoomFSMs(ai, spec.FSMs)
	for _, enemy := range spec.Enemies {
		buildEnemy(w, spec, enemy)
	}

	w.AddSystem(system.NewPlayerControllerSystem())
	w.AddSystem(ai)
	w.AddSystem(system.NewPhysicsSystem())
	w.AddSystem(system.NewTeleportSystem(rng))
	w.AddSystem(lights)
	w.AddSystem(system.NewCooldownSystem())
	w.AddSystem(system.NewTTLSystem())
	w.AddSystem(system.NewGameOverSystem())

	return &Room{World: w, AI: ai, Lights: lights}
}

func buildPlayer(w *ecs.World, spec prefabs.PlayerSpec) {
	speed := spec.MoveSpeed
	if speed <= 0 {
		speed = defaultPlayerSpeed
	}
	width, height := spec.Width, spec.Height
	if width <= 0 {
		width = defaultPlayerSize
	}
	if height <= 0 {
		height = defaultPlayerSize
	}

	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: spec.X, Y: spec.Y})
	_ = ecs.Add(w, e, component.BodyComponent.Kind(), &component.Body{Width: width, Height: height, Role: component.RolePlayer})
	_ = ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
	_ = ecs.Add(w, e, component.ControlComponent.Kind(), &component.Control{MoveSpeed: speed})
	_ = ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{
		Shape:  component.ShapeCircle,
		Radius: width / 2,
		Color:  color.NRGBA{R: 0x7f, G: 0xd4, B: 0xff, A: 0xff},
	})
}

func buildTeleporters(w *ecs.World, specs []prefabs.TeleporterSpec) {
	ids := make(map[string]bool, len(specs))
	for _, t := range specs {
		ids[t.ID] = true
	}

	for _, t := range specs {
		if t.Dest != "" && !ids[t.Dest] {
			log.Printf("room: teleporter %q destination %q is not in this room", t.ID, t.Dest)
		}

		e := ecs.CreateEntity(w)
		_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: t.X, Y: t.Y, Heading: t.Heading})
		_ = ecs.Add(w, e, component.TeleporterComponent.Kind(), &component.Teleporter{
			ID:           t.ID,
			DestID:       t.Dest,
			DelayTicks:   common.SecondsToTicks(t.DelaySeconds),
			MatchHeading: t.MatchHeading,
			SpawnEffect:  t.SpawnEffect,
			Bounds:       component.AABB{X: -t.W / 2, Y: -t.H / 2, W: t.W, H: t.H},
		})
	}
}

func buildTorch(w *ecs.World, lights *system.LightDecaySystem, spec prefabs.TorchSpec) {
	intensity := spec.Intensity
	if intensity <= 0 {
		intensity = 1
	}
	radius := spec.Radius
	if radius <= 0 {
		radius = defaultTorchRadius
	}

	light := &component.DecayLight{
		Initial:   intensity,
		Intensity: intensity,
		MinTicks:  common.SecondsToTicks(spec.MinSeconds),
		MaxTicks:  common.SecondsToTicks(spec.MaxSeconds),
		Radius:    radius,
	}
	lights.Start(light)

	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: spec.X, Y: spec.Y})
	_ = ecs.Add(w, e, component.DecayLightComponent.Kind(), light)
}

func buildEnemy(w *ecs.World, room *prefabs.RoomSpec, spec prefabs.EnemySpec) {
	mode := parseMode(spec.Name, spec.Type)
	if mode == component.ModeAreaPatrol && !roomHasArea(room, spec.Area) {
		log.Printf("room: enemy %q patrol area %q missing, forcing idle", spec.Name, spec.Area)
		mode = component.ModeIdle
	}

	speed := spec.MoveSpeed
	if speed <= 0 {
		speed = defaultEnemySpeed
	}
	tolerance := spec.ArriveTolerance
	if tolerance <= 0 {
		tolerance = defaultTolerance
	}
	dirX, dirY := common.Normalize(spec.LineDir[0], spec.LineDir[1])
	if dirX == 0 && dirY == 0 {
		dirX = 1
	}

	fsmName := spec.FSM
	if fsmName == "" {
		fsmName = mode.String()
	}

	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: spec.X, Y: spec.Y})
	_ = ecs.Add(w, e, component.BodyComponent.Kind(), &component.Body{Width: defaultEnemySize, Height: defaultEnemySize, Role: component.RoleEnemy})
	_ = ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{
		Shape:  component.ShapeCircle,
		Radius: defaultEnemySize / 2,
		Color:  color.NRGBA{R: 0xe4, G: 0x5a, B: 0x5a, A: 0xff},
	})
	_ = ecs.Add(w, e, component.AgentComponent.Kind(), &component.Agent{
		Mode:            mode,
		MoveSpeed:       speed,
		PauseTicks:      common.SecondsToTicks(spec.PauseSeconds),
		LineDistance:    spec.LineDistance,
		LineDirX:        dirX,
		LineDirY:        dirY,
		AreaID:          spec.Area,
		ArriveTolerance: tolerance,
		TurnRate:        defaultTurnRate,
	})
	_ = ecs.Add(w, e, component.AgentNavComponent.Kind(), &component.AgentNav{OriginX: spec.X, OriginY: spec.Y})
	_ = ecs.Add(w, e, component.AIStateComponent.Kind(), &component.AIState{})
	_ = ecs.Add(w, e, component.AIContextComponent.Kind(), &component.AIContext{})
	_ = ecs.Add(w, e, component.AIConfigComponent.Kind(), &component.AIConfig{FSM: fsmName, ScriptPath: spec.Script})

	if spec.DetectRange > 0 {
		_ = ecs.Add(w, e, component.DetectionComponent.Kind(), &component.Detection{Range: spec.DetectRange, Chase: spec.Chase})
	}

	if spec.GameOver.Enabled {
		message := spec.GameOver.Message
		if message == "" {
			message = "game over"
		}
		_ = ecs.Add(w, e, component.GameOverComponent.Kind(), &component.GameOver{
			Message:    message,
			DelayTicks: common.SecondsToTicks(spec.GameOver.DelaySeconds),
		})
	}
}

// registerRoomFSMs compiles room-local machines. A broken definition is
// skipped; enemies naming it end up with no machine and stand still.
func registerRoomFSMs(ai *system.AISystem, fsms map[string]prefabs.FSMSpec) {
	for name, f := range fsms {
		raw := system.RawFSM{
			Initial: f.Initial,
			States:  make(map[string]system.RawState, len(f.States)),
			Events:  f.Events,
			Checks:  f.Checks,
		}
		for state, def := range f.States {
			raw.States[state] = system.RawState{
				OnEnter: def.OnEnter,
				While:   def.While,
				OnExit:  def.OnExit,
			}
		}

		def, err := system.CompileFSM(raw)
		if err != nil {
			log.Printf("room: fsm %q: %v", name, err)
			continue
		}
		ai.RegisterFSM(name, def)
	}
}

func parseMode(name, kind string) component.AgentMode {
	switch kind {
	case "", "idle":
		return component.ModeIdle
	case "line_oscillate", "line":
		return component.ModeLineOscillate
	case "area_patrol", "area":
		return component.ModeAreaPatrol
	default:
		log.Printf("room: enemy %q has unknown type %q, forcing idle", name, kind)
		return component.ModeIdle
	}
}

func roomHasArea(room *prefabs.RoomSpec, id string) bool {
	for _, a := range room.Areas {
		if a.ID == id {
			return true
		}
	}
	return false
}
