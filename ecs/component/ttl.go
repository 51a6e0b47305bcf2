package component

// TTL destroys the owning entity after the given number of update ticks.
type TTL struct {
	Ticks int
}

var TTLComponent = NewComponent[TTL]()
