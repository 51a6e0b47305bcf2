package component

// StateID names a state in an agent's state machine.
type StateID string

// EventID names an event consumed by state machine transitions.
type EventID string

// AIState is the agent's current state machine state.
type AIState struct {
	Current StateID
}

var AIStateComponent = NewComponent[AIState]()

// AIContext is scratch state shared by state machine actions, currently just
// the pause/attack timer in ticks.
type AIContext struct {
	Timer int
}

var AIContextComponent = NewComponent[AIContext]()

// AIConfig selects which state machine drives an agent. FSM names either a
// built-in machine or one registered from room data; a non-empty ScriptPath
// runs a tengo-scripted lifecycle instead.
type AIConfig struct {
	FSM        string
	ScriptPath string
}

var AIConfigComponent = NewComponent[AIConfig]()

// AIStateInterrupt is a one-shot event injected from outside the AI system
// (timers, combat); consumed and removed on the next AI tick.
type AIStateInterrupt struct {
	Event EventID
}

var AIStateInterruptComponent = NewComponent[AIStateInterrupt]()
