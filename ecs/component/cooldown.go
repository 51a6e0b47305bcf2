package component

// Cooldown is a countdown marker. While present the owning entity refuses to
// re-trigger; the cooldown system removes it when the count reaches zero.
type Cooldown struct {
	Ticks int
}

var CooldownComponent = NewComponent[Cooldown]()
