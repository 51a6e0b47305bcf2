package system

import (
	"log"
	"math/rand"

	"github.com/milk9111/warrens/common"
	"github.com/milk9111/warrens/ecs"
	"github.com/milk9111/warrens/ecs/component"
)

// AISystem drives every agent's state machine one tick. Sensor events
// (sees_player / loses_player) are enqueued before actions run, so a chase
// transition and the first chase movement land on the same tick.
type AISystem struct {
	rng    *rand.Rand
	fsms   map[string]*FSMDef
	loader ScriptLoader

	scripts map[ecs.Entity]*scriptRuntime
}

// ScriptLoader fetches tengo source for scripted agents.
type ScriptLoader func(path string) ([]byte, error)

func NewAISystem(rng *rand.Rand, loader ScriptLoader) *AISystem {
	return &AISystem{
		rng:     rng,
		fsms:    make(map[string]*FSMDef),
		loader:  loader,
		scripts: make(map[ecs.Entity]*scriptRuntime),
	}
}

// RegisterFSM makes a compiled machine available under a name, replacing
// any builtin of the same name.
func (s *AISystem) RegisterFSM(name string, def *FSMDef) {
	s.fsms[name] = def
	delete(s.fsms, name+"+chase")
}

// InvalidateScripts drops compiled script runtimes so the next tick
// recompiles from source. Called on hot reload.
func (s *AISystem) InvalidateScripts() {
	s.scripts = make(map[ecs.Entity]*scriptRuntime)
}

func (s *AISystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	playerX, playerY, playerFound := playerPosition(w)

	ecs.ForEach(w, component.AgentComponent.Kind(), func(e ecs.Entity, agent *component.Agent) {
		nav, ok := ecs.Get(w, e, component.AgentNavComponent.Kind())
		if !ok {
			return
		}
		state, ok := ecs.Get(w, e, component.AIStateComponent.Kind())
		if !ok {
			return
		}
		aiCtx, ok := ecs.Get(w, e, component.AIContextComponent.Kind())
		if !ok {
			return
		}
		cfg, ok := ecs.Get(w, e, component.AIConfigComponent.Kind())
		if !ok {
			return
		}
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			return
		}
		det, _ := ecs.Get(w, e, component.DetectionComponent.Kind())
		body, _ := ecs.Get(w, e, component.BodyComponent.Kind())

		var pending []component.EventID
		if interrupt, ok := ecs.Get(w, e, component.AIStateInterruptComponent.Kind()); ok {
			pending = append(pending, interrupt.Event)
			ecs.Remove(w, e, component.AIStateInterruptComponent.Kind())
		}

		ctx := &ActionContext{
			World:       w,
			Entity:      e,
			Agent:       agent,
			Nav:         nav,
			Det:         det,
			State:       state,
			Context:     aiCtx,
			Transform:   t,
			Body:        body,
			PlayerFound: playerFound,
			PlayerX:     playerX,
			PlayerY:     playerY,
			Rand:        s.rng,
		}
		ctx.Enqueue = func(ev component.EventID) {
			pending = append(pending, ev)
		}

		pending = append(pending, senseEvents(ctx)...)

		if cfg.ScriptPath != "" {
			s.updateScripted(ctx, cfg, pending)
			return
		}

		fsm := s.getFSM(cfg.FSM, det != nil && det.Chase)
		if fsm == nil {
			return
		}

		if _, known := fsm.States[state.Current]; state.Current == "" || !known {
			state.Current = fsm.Initial
			runActions(ctx, fsm.States[fsm.Initial].OnEnter)
		}

		runActions(ctx, fsm.States[state.Current].While)

		for _, c := range fsm.Checkers[state.Current] {
			if c.check(ctx) {
				pending = append(pending, c.event)
			}
		}

		processEvents(ctx, fsm, pending)
	})
}

// senseEvents updates the detection component and reports the edge-free
// sensor stream. Unknown events are skipped by processEvents, so machines
// without a chase state ignore these for free.
func senseEvents(ctx *ActionContext) []component.EventID {
	if ctx.Det == nil {
		return nil
	}

	inRange := ctx.PlayerFound &&
		common.Dist(ctx.Transform.X, ctx.Transform.Y, ctx.PlayerX, ctx.PlayerY) <= ctx.Det.Range

	if inRange {
		ctx.Det.Detected = true
		ctx.Det.LastKnownX = ctx.PlayerX
		ctx.Det.LastKnownY = ctx.PlayerY
		return []component.EventID{"sees_player"}
	}
	ctx.Det.Detected = false
	return []component.EventID{"loses_player"}
}

// processEvents walks the pending queue, following transitions as they
// fire. OnEnter actions may enqueue further events; those are handled in
// the same pass.
func processEvents(ctx *ActionContext, fsm *FSMDef, pending []component.EventID) {
	for i := 0; i < len(pending); i++ {
		next, ok := fsm.Transitions[ctx.State.Current][pending[i]]
		if !ok || next == ctx.State.Current {
			continue
		}

		extra := runCapture(ctx, fsm.States[ctx.State.Current].OnExit)
		ctx.State.Current = next
		extra = append(extra, runCapture(ctx, fsm.States[next].OnEnter)...)
		pending = append(pending, extra...)
	}
}

func runActions(ctx *ActionContext, actions []Action) {
	for _, a := range actions {
		a(ctx)
	}
}

// runCapture runs actions with a fresh enqueue sink and returns what they
// emitted.
func runCapture(ctx *ActionContext, actions []Action) []component.EventID {
	var captured []component.EventID
	prev := ctx.Enqueue
	ctx.Enqueue = func(ev component.EventID) {
		captured = append(captured, ev)
	}
	runActions(ctx, actions)
	ctx.Enqueue = prev
	return captured
}

func (s *AISystem) getFSM(name string, chase bool) *FSMDef {
	if name == "" {
		return nil
	}
	key := name
	if chase {
		key = name + "+chase"
	}
	if fsm, ok := s.fsms[key]; ok {
		return fsm
	}

	var fsm *FSMDef
	if base, ok := s.fsms[name]; ok {
		// withChase mutates its argument, so graft onto a copy and leave
		// the registered definition alone.
		fsm = cloneFSM(base)
	} else {
		switch name {
		case component.ModeIdle.String():
			fsm = idleFSM()
		case component.ModeLineOscillate.String():
			fsm = lineFSM()
		case component.ModeAreaPatrol.String():
			fsm = areaFSM()
		default:
			log.Printf("ai: unknown state machine %q", name)
			return nil
		}
	}
	if chase {
		fsm = withChase(fsm)
	}
	s.fsms[key] = fsm
	return fsm
}

func playerPosition(w *ecs.World) (x, y float64, ok bool) {
	player, found := ecs.First(w, component.PlayerTagComponent.Kind())
	if !found {
		return 0, 0, false
	}
	t, found := ecs.Get(w, player, component.TransformComponent.Kind())
	if !found {
		return 0, 0, false
	}
	return t.X, t.Y, true
}
