package system

import (
	"fmt"
	"log"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/warrens/ecs"
	"github.com/milk9111/warrens/ecs/component"
)

// scriptRuntime holds one agent's compiled tengo machine. Scripts define
// onEnter/update/onExit(__engine, __state, __current_state) and an optional
// `initial_state` global; the dispatch snippet below routes each phase.
type scriptRuntime struct {
	scriptPath  string
	compiled    *tengo.Compiled
	stateData   *tengo.Map
	initial     component.StateID
	initialized bool
	pending     component.StateID
}

const scriptDispatch = `
if __phase == "enter" {
	onEnter(__engine, __state, __current_state)
} else if __phase == "update" {
	update(__engine, __state, __current_state)
} else if __phase == "exit" {
	onExit(__engine, __state, __current_state)
}
`

func (s *AISystem) updateScripted(ctx *ActionContext, cfg *component.AIConfig, events []component.EventID) {
	rt, err := s.getScriptRuntime(ctx.Entity, cfg)
	if err != nil {
		log.Printf("ai: agent %s scripted machine load error: %v", ctx.Entity, err)
		return
	}

	if ctx.State.Current == "" {
		ctx.State.Current = rt.initial
	}

	eventSet := make(map[string]bool, len(events))
	for _, ev := range events {
		if ev != "" {
			eventSet[string(ev)] = true
		}
	}

	engine := buildScriptEngine(ctx, rt, eventSet)
	if !rt.initialized {
		if err := rt.runPhase("enter", ctx.State.Current, engine); err != nil {
			log.Printf("ai: agent %s script onEnter error: %v", ctx.Entity, err)
			return
		}
		rt.initialized = true
	}

	if err := rt.runPhase("update", ctx.State.Current, engine); err != nil {
		log.Printf("ai: agent %s script update error: %v", ctx.Entity, err)
		return
	}

	if rt.pending == "" || rt.pending == ctx.State.Current {
		rt.pending = ""
		return
	}

	prev := ctx.State.Current
	if err := rt.runPhase("exit", prev, engine); err != nil {
		log.Printf("ai: agent %s script onExit error: %v", ctx.Entity, err)
		return
	}

	ctx.State.Current = rt.pending
	rt.pending = ""

	if err := rt.runPhase("enter", ctx.State.Current, engine); err != nil {
		log.Printf("ai: agent %s script onEnter error: %v", ctx.Entity, err)
	}
}

func (s *AISystem) getScriptRuntime(ent ecs.Entity, cfg *component.AIConfig) (*scriptRuntime, error) {
	path := strings.TrimSpace(cfg.ScriptPath)
	if path == "" {
		return nil, fmt.Errorf("empty script path")
	}
	if s.loader == nil {
		return nil, fmt.Errorf("no script loader configured")
	}

	if rt, ok := s.scripts[ent]; ok && rt != nil && rt.scriptPath == path {
		return rt, nil
	}

	src, err := s.loader(path)
	if err != nil {
		return nil, err
	}

	script := tengo.NewScript(append(src, []byte("\n"+scriptDispatch)...))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	_ = script.Add("__current_state", "")
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, err
	}

	rt := &scriptRuntime{
		scriptPath: path,
		compiled:   compiled,
		stateData:  &tengo.Map{Value: map[string]tengo.Object{}},
		initial:    "idle",
	}

	// Resolve optional initial state from the script global `initial_state`.
	noop := &tengo.ImmutableMap{Value: map[string]tengo.Object{}}
	if err := rt.runPhase("noop", rt.initial, noop); err != nil {
		return nil, err
	}
	if compiled.IsDefined("initial_state") {
		if name := strings.TrimSpace(compiled.Get("initial_state").String()); name != "" {
			rt.initial = component.StateID(name)
		}
	}

	s.scripts[ent] = rt
	return rt, nil
}

func (rt *scriptRuntime) runPhase(phase string, current component.StateID, engine *tengo.ImmutableMap) error {
	if rt == nil || rt.compiled == nil {
		return fmt.Errorf("nil script runtime")
	}
	if engine == nil {
		engine = &tengo.ImmutableMap{Value: map[string]tengo.Object{}}
	}
	if err := rt.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := rt.compiled.Set("__state", rt.stateData); err != nil {
		return err
	}
	if err := rt.compiled.Set("__current_state", string(current)); err != nil {
		return err
	}
	return rt.compiled.Run()
}

// buildScriptEngine exposes transitions, the tick's event set, position
// queries, and every registered action/checker to the script.
func buildScriptEngine(ctx *ActionContext, rt *scriptRuntime, eventSet map[string]bool) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["transition"] = &tengo.UserFunction{Name: "transition", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if rt == nil || len(args) < 1 {
			return tengo.FalseValue, nil
		}
		name := strings.TrimSpace(objectAsString(args[0]))
		if name == "" {
			return tengo.FalseValue, nil
		}
		rt.pending = component.StateID(name)
		return tengo.TrueValue, nil
	}}

	values["emit"] = &tengo.UserFunction{Name: "emit", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if ctx == nil || ctx.Enqueue == nil || len(args) < 1 {
			return tengo.FalseValue, nil
		}
		name := strings.TrimSpace(objectAsString(args[0]))
		if name == "" {
			return tengo.FalseValue, nil
		}
		ctx.Enqueue(component.EventID(name))
		return tengo.TrueValue, nil
	}}

	values["event"] = &tengo.UserFunction{Name: "event", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		if eventSet[strings.TrimSpace(objectAsString(args[0]))] {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	values["consume_event"] = &tengo.UserFunction{Name: "consume_event", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		name := strings.TrimSpace(objectAsString(args[0]))
		if eventSet[name] {
			delete(eventSet, name)
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	values["get_position"] = &tengo.UserFunction{Name: "get_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if ctx == nil || ctx.Transform == nil {
			return &tengo.Array{Value: []tengo.Object{&tengo.Float{}, &tengo.Float{}}}, nil
		}
		return &tengo.Array{Value: []tengo.Object{
			&tengo.Float{Value: ctx.Transform.X},
			&tengo.Float{Value: ctx.Transform.Y},
		}}, nil
	}}

	values["get_player_position"] = &tengo.UserFunction{Name: "get_player_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if ctx == nil || !ctx.PlayerFound {
			return tengo.UndefinedValue, nil
		}
		return &tengo.Array{Value: []tengo.Object{
			&tengo.Float{Value: ctx.PlayerX},
			&tengo.Float{Value: ctx.PlayerY},
		}}, nil
	}}

	values["player_detected"] = &tengo.UserFunction{Name: "player_detected", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if ctx == nil || ctx.Det == nil || !ctx.Det.Detected {
			return tengo.FalseValue, nil
		}
		return tengo.TrueValue, nil
	}}

	values["move_to"] = &tengo.UserFunction{Name: "move_to", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if ctx == nil || len(args) < 2 {
			return tengo.FalseValue, nil
		}
		x, okX := tengo.ToFloat64(args[0])
		y, okY := tengo.ToFloat64(args[1])
		if !okX || !okY {
			return tengo.FalseValue, nil
		}
		moveToward(ctx, x, y)
		return tengo.TrueValue, nil
	}}

	for name, maker := range actionRegistry {
		actionName := name
		makeAction := maker
		values[actionName] = &tengo.UserFunction{Name: actionName, Value: func(args ...tengo.Object) (tengo.Object, error) {
			if ctx == nil {
				return tengo.FalseValue, nil
			}
			var arg any
			if len(args) > 0 {
				arg = objectToAny(args[0])
			}
			makeAction(arg)(ctx)
			return tengo.TrueValue, nil
		}}
	}

	for name, maker := range checkerRegistry {
		checkName := name
		makeCheck := maker
		values[checkName] = &tengo.UserFunction{Name: checkName, Value: func(args ...tengo.Object) (tengo.Object, error) {
			if ctx == nil {
				return tengo.FalseValue, nil
			}
			var arg any
			if len(args) > 0 {
				arg = objectToAny(args[0])
			}
			if makeCheck(arg)(ctx) {
				return tengo.TrueValue, nil
			}
			return tengo.FalseValue, nil
		}}
	}

	return &tengo.ImmutableMap{Value: values}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func objectToAny(obj tengo.Object) any {
	if obj == nil {
		return nil
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return int(v.Value)
	case *tengo.Float:
		return v.Value
	case *tengo.Bool:
		return !v.IsFalsy()
	case *tengo.Array:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, objectToAny(item))
		}
		return out
	case *tengo.Map:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.ImmutableMap:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.Undefined:
		return nil
	default:
		return v.String()
	}
}
