package component

// DecayLight fades a light's intensity linearly to zero over a duration
// sampled uniformly from [MinTicks, MaxTicks] each time it is started.
type DecayLight struct {
	// Initial is the intensity restored by a reset and the lerp start.
	Initial float64
	// Intensity is the current value, pinned to exactly 0 when the decay
	// completes.
	Intensity float64

	MinTicks int
	MaxTicks int

	// DurationTicks is the sampled duration of the running decay.
	DurationTicks int
	// Elapsed counts ticks since the decay started.
	Elapsed int
	Active  bool

	// Radius is the rendered glow radius at full intensity.
	Radius float64
}

var DecayLightComponent = NewComponent[DecayLight]()
