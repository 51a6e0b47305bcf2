package common

import "math"

const (
	// TickRate is the fixed simulation rate in ticks per second.
	TickRate = 60
	// Dt is the fixed simulation step in seconds.
	Dt = 1.0 / float64(TickRate)

	BaseWidth  = 1280
	BaseHeight = 720
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

func Dist(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// Normalize returns the unit vector for (x, y), or (0, 0) for a zero vector.
func Normalize(x, y float64) (float64, float64) {
	l := math.Hypot(x, y)
	if l == 0 {
		return 0, 0
	}
	return x / l, y / l
}

// SecondsToTicks converts an authored duration in seconds to simulation
// ticks, rounding up so short non-zero durations still take at least one
// tick.
func SecondsToTicks(seconds float64) int {
	if seconds <= 0 {
		return 0
	}
	return int(math.Ceil(seconds * TickRate))
}

// ApproachAngle moves current toward target along the shortest arc by at most
// step radians.
func ApproachAngle(current, target, step float64) float64 {
	diff := math.Mod(target-current, 2*math.Pi)
	if diff > math.Pi {
		diff -= 2 * math.Pi
	} else if diff < -math.Pi {
		diff += 2 * math.Pi
	}
	if math.Abs(diff) <= step {
		return target
	}
	if diff > 0 {
		return current + step
	}
	return current - step
}
