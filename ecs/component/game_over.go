package component

// GameOver marks an agent whose contact with the player ends the run. Fired
// latches after the first contact; the terminal sequence runs at most once
// per agent lifetime.
type GameOver struct {
	Message    string
	DelayTicks int
	Fired      bool
}

var GameOverComponent = NewComponent[GameOver]()

// GameOverPending is the one-shot countdown entity between the terminal
// contact and the room reset request.
type GameOverPending struct {
	Ticks   int
	Message string
}

var GameOverPendingComponent = NewComponent[GameOverPending]()

// ResetRoomRequest asks the outer game loop to rebuild the room. Systems
// only emit the request; the loop owns the reload.
type ResetRoomRequest struct{}

var ResetRoomRequestComponent = NewComponent[ResetRoomRequest]()
