package common

import (
	"math"
	"testing"
)

func TestSecondsToTicks(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		want    int
	}{
		{name: "zero", seconds: 0, want: 0},
		{name: "negative", seconds: -1, want: 0},
		{name: "one second", seconds: 1, want: 60},
		{name: "half second", seconds: 0.5, want: 30},
		{name: "sub tick rounds up", seconds: 0.001, want: 1},
		{name: "uneven rounds up", seconds: 0.025, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SecondsToTicks(tt.seconds); got != tt.want {
				t.Fatalf("SecondsToTicks(%v) = %d, want %d", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestApproachAngle(t *testing.T) {
	tests := []struct {
		name                  string
		current, target, step float64
		want                  float64
	}{
		{name: "within step snaps", current: 0, target: 0.1, step: 0.2, want: 0.1},
		{name: "steps positive", current: 0, target: 1, step: 0.25, want: 0.25},
		{name: "steps negative", current: 1, target: 0, step: 0.25, want: 0.75},
		{name: "wraps shortest way", current: 0.1, target: 2*math.Pi - 0.1, step: 0.05, want: 0.05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApproachAngle(tt.current, tt.target, tt.step)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("ApproachAngle(%v, %v, %v) = %v, want %v", tt.current, tt.target, tt.step, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	x, y := Normalize(3, 4)
	if math.Abs(x-0.6) > 1e-9 || math.Abs(y-0.8) > 1e-9 {
		t.Fatalf("Normalize(3, 4) = (%v, %v), want (0.6, 0.8)", x, y)
	}

	x, y = Normalize(0, 0)
	if x != 0 || y != 0 {
		t.Fatalf("Normalize(0, 0) = (%v, %v), want (0, 0)", x, y)
	}
}
