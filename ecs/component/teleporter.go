package component

// Teleporter is a trigger pad that relocates the player to the pad named by
// DestID. Pads are linked by identifier, not by entity reference; the
// teleport system resolves DestID through a per-tick registry.
type Teleporter struct {
	// ID is this pad's identifier within the room.
	ID string
	// DestID names the destination pad. Empty or unresolved: the pad logs
	// and does nothing.
	DestID string
	// DelayTicks postpones the relocation after entry.
	DelayTicks int
	// MatchHeading also aligns the traveler's heading with the destination
	// pad when set.
	MatchHeading bool
	// SpawnEffect spawns a short-lived flash entity at the destination.
	SpawnEffect bool
	// Bounds is the trigger rectangle, offsets relative to the Transform.
	Bounds AABB

	// Busy is set while the pad holds a fresh arrival and suppresses
	// triggering until the arrival hold clears.
	Busy bool
	// Occupied tracks whether an entity currently stands on the pad, so a
	// continuous overlap only triggers once.
	Occupied bool
}

var TeleporterComponent = NewComponent[Teleporter]()

// TeleportPending is the armed, delayed relocation on a pad. On expiry the
// teleport re-checks its guard (traveler alive, destination resolvable)
// and is a no-op when stale.
type TeleportPending struct {
	Ticks int
	// Traveler is the raw entity handle (ecs.Entity is a uint64).
	Traveler uint64
}

var TeleportPendingComponent = NewComponent[TeleportPending]()

// ArrivalHold sits on a destination pad after it receives a traveler. While
// held the pad stays Busy; the hold polls on a fixed interval whether the
// traveler still overlaps the pad and releases once it left.
type ArrivalHold struct {
	Traveler  uint64
	PollTicks int
	Timer     int
}

var ArrivalHoldComponent = NewComponent[ArrivalHold]()
