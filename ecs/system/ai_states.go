package system

import (
	"fmt"
	"log"
	"math"
	"math/rand"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/warrens/common"
	"github.com/milk9111/warrens/ecs"
	"github.com/milk9111/warrens/ecs/component"
)

// ActionContext is everything an action or transition checker may touch for
// one agent on one tick. Det and Body are nil when the agent doesn't carry
// those components.
type ActionContext struct {
	World     *ecs.World
	Entity    ecs.Entity
	Agent     *component.Agent
	Nav       *component.AgentNav
	Det       *component.Detection
	State     *component.AIState
	Context   *component.AIContext
	Transform *component.Transform
	Body      *component.Body

	PlayerFound      bool
	PlayerX, PlayerY float64

	Rand    *rand.Rand
	Enqueue func(ev component.EventID)
}

// Action mutates the agent for one tick.
type Action func(ctx *ActionContext)

// TransitionChecker is evaluated each tick; returning true fires its event.
type TransitionChecker func(ctx *ActionContext) bool

// StateDef lists the actions run when a state is entered, every tick while
// active, and when it is left.
type StateDef struct {
	OnEnter []Action
	While   []Action
	OnExit  []Action
}

// FSMDef is a compiled state machine shared by every agent using it.
// Per-agent data (current state, timers, nav targets) lives in components.
type FSMDef struct {
	Initial     component.StateID
	States      map[component.StateID]StateDef
	Transitions map[component.StateID]map[component.EventID]component.StateID
	Checkers    map[component.StateID][]namedChecker
}

type namedChecker struct {
	event component.EventID
	check TransitionChecker
}

var actionRegistry = map[string]func(arg any) Action{
	"stop":              func(any) Action { return actionStop },
	"pick_line_target":  func(any) Action { return actionPickLineTarget },
	"pick_area_target":  func(any) Action { return actionPickAreaTarget },
	"move_to_target":    func(any) Action { return actionMoveToTarget },
	"chase_player":      func(any) Action { return actionChasePlayer },
	"face_player":       func(any) Action { return actionFacePlayer },
	"start_pause_timer": func(any) Action { return actionStartPauseTimer },
	"tick_timer":        func(any) Action { return actionTickTimer },
}

var checkerRegistry = map[string]func(arg any) TransitionChecker{
	"always": func(any) TransitionChecker {
		return func(*ActionContext) bool { return true }
	},
	"target_reached": func(any) TransitionChecker {
		return func(ctx *ActionContext) bool {
			if ctx.Nav == nil || !ctx.Nav.HasTarget {
				return false
			}
			return common.Dist(ctx.Transform.X, ctx.Transform.Y, ctx.Nav.TargetX, ctx.Nav.TargetY) <= ctx.Agent.ArriveTolerance
		}
	},
	"player_in_range": func(any) TransitionChecker {
		return func(ctx *ActionContext) bool {
			if ctx.Det == nil || !ctx.PlayerFound {
				return false
			}
			return common.Dist(ctx.Transform.X, ctx.Transform.Y, ctx.PlayerX, ctx.PlayerY) <= ctx.Det.Range
		}
	},
}

func actionStop(ctx *ActionContext) {
	if ctx.Body != nil && ctx.Body.Body != nil {
		ctx.Body.Body.SetVelocityVector(cp.Vector{})
	}
}

// actionPickLineTarget flips the oscillation direction and targets the far
// endpoint of the segment centered on the agent's origin.
func actionPickLineTarget(ctx *ActionContext) {
	ctx.Nav.Forward = !ctx.Nav.Forward

	half := ctx.Agent.LineDistance / 2
	dx, dy := common.Normalize(ctx.Agent.LineDirX, ctx.Agent.LineDirY)
	if dx == 0 && dy == 0 {
		dx = 1
	}
	sign := 1.0
	if !ctx.Nav.Forward {
		sign = -1
	}
	ctx.Nav.TargetX = ctx.Nav.OriginX + dx*half*sign
	ctx.Nav.TargetY = ctx.Nav.OriginY + dy*half*sign
	ctx.Nav.HasTarget = true
}

// actionPickAreaTarget samples uniform points inside the agent's patrol
// area. The rejection loop is bounded; on exhaustion the agent keeps its
// previous target.
func actionPickAreaTarget(ctx *ActionContext) {
	area, ok := findPatrolArea(ctx.World, ctx.Agent.AreaID)
	if !ok {
		log.Printf("ai: agent %s patrol area %q missing", ctx.Entity, ctx.Agent.AreaID)
		return
	}

	for i := 0; i < 10; i++ {
		x := area.Bounds.X + ctx.Rand.Float64()*area.Bounds.W
		y := area.Bounds.Y + ctx.Rand.Float64()*area.Bounds.H
		if !area.Bounds.Contains(x, y) {
			continue
		}
		ctx.Nav.TargetX = x
		ctx.Nav.TargetY = y
		ctx.Nav.HasTarget = true
		return
	}
}

func actionMoveToTarget(ctx *ActionContext) {
	if !ctx.Nav.HasTarget {
		return
	}
	moveToward(ctx, ctx.Nav.TargetX, ctx.Nav.TargetY)
	if common.Dist(ctx.Transform.X, ctx.Transform.Y, ctx.Nav.TargetX, ctx.Nav.TargetY) <= ctx.Agent.ArriveTolerance {
		ctx.Enqueue("arrived")
	}
}

// actionChasePlayer steers toward the last known player position. No
// arrival event; the chase ends when the sensor loses the player.
func actionChasePlayer(ctx *ActionContext) {
	if ctx.Det == nil {
		return
	}
	if common.Dist(ctx.Transform.X, ctx.Transform.Y, ctx.Det.LastKnownX, ctx.Det.LastKnownY) <= ctx.Agent.ArriveTolerance {
		actionStop(ctx)
		return
	}
	moveToward(ctx, ctx.Det.LastKnownX, ctx.Det.LastKnownY)
}

func actionFacePlayer(ctx *ActionContext) {
	if !ctx.PlayerFound {
		return
	}
	target := math.Atan2(ctx.PlayerY-ctx.Transform.Y, ctx.PlayerX-ctx.Transform.X)
	ctx.Transform.Heading = common.ApproachAngle(ctx.Transform.Heading, target, ctx.Agent.TurnRate)
}

func actionStartPauseTimer(ctx *ActionContext) {
	ctx.Context.Timer = ctx.Agent.PauseTicks
}

func actionTickTimer(ctx *ActionContext) {
	if ctx.Context.Timer > 0 {
		ctx.Context.Timer--
	}
	if ctx.Context.Timer <= 0 {
		ctx.Enqueue("timer_expired")
	}
}

// moveToward steers the agent one tick toward a point. Bodiless agents
// integrate the transform directly and never overshoot the point; bodied
// agents set velocity and let the space resolve it.
func moveToward(ctx *ActionContext, tx, ty float64) {
	dx := tx - ctx.Transform.X
	dy := ty - ctx.Transform.Y
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		actionStop(ctx)
		return
	}
	dirX, dirY := dx/dist, dy/dist

	speed := ctx.Agent.MoveSpeed
	if ctx.Body != nil && ctx.Body.Body != nil {
		ctx.Body.Body.SetVelocityVector(cp.Vector{X: dirX * speed, Y: dirY * speed})
	} else {
		step := speed * common.Dt
		if step > dist {
			step = dist
		}
		ctx.Transform.X += dirX * step
		ctx.Transform.Y += dirY * step
	}

	ctx.Transform.Heading = common.ApproachAngle(ctx.Transform.Heading, math.Atan2(dirY, dirX), ctx.Agent.TurnRate)
}

func findPatrolArea(w *ecs.World, id string) (*component.PatrolArea, bool) {
	var found *component.PatrolArea
	ecs.ForEach(w, component.PatrolAreaComponent.Kind(), func(_ ecs.Entity, a *component.PatrolArea) {
		if found == nil && a.ID == id {
			found = a
		}
	})
	return found, found != nil
}

// RawFSM is the yaml shape of a state machine definition.
type RawFSM struct {
	Initial string                       `yaml:"initial"`
	States  map[string]RawState          `yaml:"states"`
	Events  map[string]map[string]string `yaml:"events"`
	Checks  map[string]map[string]string `yaml:"checks"`
}

type RawState struct {
	OnEnter []string `yaml:"on_enter"`
	While   []string `yaml:"while"`
	OnExit  []string `yaml:"on_exit"`
}

// CompileFSM resolves action and checker names against the registries.
func CompileFSM(raw RawFSM) (*FSMDef, error) {
	if raw.Initial == "" {
		return nil, fmt.Errorf("fsm: missing initial state")
	}
	if _, ok := raw.States[raw.Initial]; !ok {
		return nil, fmt.Errorf("fsm: initial state %q not defined", raw.Initial)
	}

	def := &FSMDef{
		Initial:     component.StateID(raw.Initial),
		States:      make(map[component.StateID]StateDef),
		Transitions: make(map[component.StateID]map[component.EventID]component.StateID),
		Checkers:    make(map[component.StateID][]namedChecker),
	}

	for name, rs := range raw.States {
		sd := StateDef{}
		var err error
		if sd.OnEnter, err = resolveActions(rs.OnEnter); err != nil {
			return nil, fmt.Errorf("fsm: state %q on_enter: %w", name, err)
		}
		if sd.While, err = resolveActions(rs.While); err != nil {
			return nil, fmt.Errorf("fsm: state %q while: %w", name, err)
		}
		if sd.OnExit, err = resolveActions(rs.OnExit); err != nil {
			return nil, fmt.Errorf("fsm: state %q on_exit: %w", name, err)
		}
		def.States[component.StateID(name)] = sd
	}

	for state, events := range raw.Events {
		if _, ok := def.States[component.StateID(state)]; !ok {
			return nil, fmt.Errorf("fsm: transition from unknown state %q", state)
		}
		m := make(map[component.EventID]component.StateID, len(events))
		for ev, next := range events {
			if _, ok := def.States[component.StateID(next)]; !ok {
				return nil, fmt.Errorf("fsm: state %q event %q targets unknown state %q", state, ev, next)
			}
			m[component.EventID(ev)] = component.StateID(next)
		}
		def.Transitions[component.StateID(state)] = m
	}

	for state, checks := range raw.Checks {
		if _, ok := def.States[component.StateID(state)]; !ok {
			return nil, fmt.Errorf("fsm: check on unknown state %q", state)
		}
		for checkName, ev := range checks {
			build, ok := checkerRegistry[checkName]
			if !ok {
				return nil, fmt.Errorf("fsm: unknown checker %q", checkName)
			}
			def.Checkers[component.StateID(state)] = append(def.Checkers[component.StateID(state)], namedChecker{
				event: component.EventID(ev),
				check: build(nil),
			})
		}
	}

	return def, nil
}

func resolveActions(names []string) ([]Action, error) {
	if len(names) == 0 {
		return nil, nil
	}
	out := make([]Action, 0, len(names))
	for _, n := range names {
		build, ok := actionRegistry[n]
		if !ok {
			return nil, fmt.Errorf("unknown action %q", n)
		}
		out = append(out, build(nil))
	}
	return out, nil
}

// idleFSM holds the agent in place.
func idleFSM() *FSMDef {
	return &FSMDef{
		Initial: "idle",
		States: map[component.StateID]StateDef{
			"idle": {While: []Action{actionStop}},
		},
		Transitions: map[component.StateID]map[component.EventID]component.StateID{},
		Checkers:    map[component.StateID][]namedChecker{},
	}
}

// lineFSM oscillates along a segment with a pause at each end.
func lineFSM() *FSMDef {
	return patrolFSM(actionPickLineTarget)
}

// areaFSM wanders between random points inside a patrol area.
func areaFSM() *FSMDef {
	return patrolFSM(actionPickAreaTarget)
}

func patrolFSM(pick Action) *FSMDef {
	return &FSMDef{
		Initial: "patrol",
		States: map[component.StateID]StateDef{
			"patrol": {
				OnEnter: []Action{pick},
				While:   []Action{actionMoveToTarget},
			},
			"pause": {
				OnEnter: []Action{actionStop, actionStartPauseTimer},
				While:   []Action{actionTickTimer},
			},
		},
		Transitions: map[component.StateID]map[component.EventID]component.StateID{
			"patrol": {"arrived": "pause"},
			"pause":  {"timer_expired": "patrol"},
		},
		Checkers: map[component.StateID][]namedChecker{},
	}
}

// withChase grafts a chase state onto a base machine: any state bails into
// chase on sees_player, and losing the player returns to the initial state.
func withChase(base *FSMDef) *FSMDef {
	base.States["chase"] = StateDef{
		OnEnter: []Action{actionFacePlayer},
		While:   []Action{actionChasePlayer},
	}
	for state := range base.States {
		if state == "chase" {
			continue
		}
		if base.Transitions[state] == nil {
			base.Transitions[state] = make(map[component.EventID]component.StateID)
		}
		base.Transitions[state]["sees_player"] = "chase"
	}
	base.Transitions["chase"] = map[component.EventID]component.StateID{
		"loses_player": base.Initial,
	}
	return base
}

// cloneFSM copies a definition deeply enough that withChase can graft onto
// the copy without touching the original's maps.
func cloneFSM(src *FSMDef) *FSMDef {
	out := &FSMDef{
		Initial:     src.Initial,
		States:      make(map[component.StateID]StateDef, len(src.States)),
		Transitions: make(map[component.StateID]map[component.EventID]component.StateID, len(src.Transitions)),
		Checkers:    make(map[component.StateID][]namedChecker, len(src.Checkers)),
	}
	for id, def := range src.States {
		out.States[id] = def
	}
	for id, trans := range src.Transitions {
		m := make(map[component.EventID]component.StateID, len(trans))
		for ev, next := range trans {
			m[ev] = next
		}
		out.Transitions[id] = m
	}
	for id, checks := range src.Checkers {
		out.Checkers[id] = append([]namedChecker(nil), checks...)
	}
	return out
}
