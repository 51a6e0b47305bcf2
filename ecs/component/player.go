package component

// PlayerTag marks the player entity.
type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

// Control is the player's movement configuration. Disabled is set by the
// game-over sequence and is never cleared within the same room lifetime.
type Control struct {
	MoveSpeed float64
	Disabled  bool
}

var ControlComponent = NewComponent[Control]()
