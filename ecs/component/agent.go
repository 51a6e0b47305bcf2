package component

// AgentMode is the movement mode an agent was spawned with. Exactly one mode
// is active per agent; the mode selects which state machine drives it.
type AgentMode int

const (
	ModeIdle AgentMode = iota
	ModeLineOscillate
	ModeAreaPatrol
)

func (m AgentMode) String() string {
	switch m {
	case ModeLineOscillate:
		return "line_oscillate"
	case ModeAreaPatrol:
		return "area_patrol"
	default:
		return "idle"
	}
}

// Agent is the authored configuration of an enemy agent.
type Agent struct {
	Mode      AgentMode
	MoveSpeed float64
	// PauseTicks is how long the agent idles after reaching a target.
	PauseTicks int

	// LineDistance is the full segment length for ModeLineOscillate; the
	// segment is centered on the spawn position along (LineDirX, LineDirY),
	// normalized at spawn.
	LineDistance float64
	LineDirX     float64
	LineDirY     float64

	// AreaID names the patrol area for ModeAreaPatrol.
	AreaID string

	// ArriveTolerance is the distance at which a target counts as reached.
	ArriveTolerance float64
	// TurnRate is the max heading change per tick, radians.
	TurnRate float64
}

var AgentComponent = NewComponent[Agent]()

// AgentNav is the agent's runtime navigation state.
type AgentNav struct {
	// OriginX/Y is the spawn position the oscillation segment is centered on.
	OriginX float64
	OriginY float64

	TargetX   float64
	TargetY   float64
	HasTarget bool

	// Forward selects which segment endpoint is next.
	Forward bool
}

var AgentNavComponent = NewComponent[AgentNav]()

// Detection tracks whether the player is within range and where it was last
// seen. The flag is recomputed every tick.
type Detection struct {
	Range float64
	// Chase substitutes direct pursuit of the last known player position
	// for normal movement while detected.
	Chase bool

	Detected   bool
	LastKnownX float64
	LastKnownY float64
}

var DetectionComponent = NewComponent[Detection]()

// PatrolArea is a named world-space region random patrol targets are sampled
// from.
type PatrolArea struct {
	ID     string
	Bounds AABB
}

var PatrolAreaComponent = NewComponent[PatrolArea]()
