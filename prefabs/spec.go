package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// RoomSpec is the authored description of one room: geometry, the player
// spawn, teleporter pads, torches, patrol areas, and enemies. Durations are
// authored in seconds and converted to ticks at build time.
type RoomSpec struct {
	Name   string  `yaml:"name"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`

	Player      PlayerSpec       `yaml:"player"`
	Walls       []RectSpec       `yaml:"walls"`
	Areas       []AreaSpec       `yaml:"areas"`
	Teleporters []TeleporterSpec `yaml:"teleporters"`
	Torches     []TorchSpec      `yaml:"torches"`
	Enemies     []EnemySpec      `yaml:"enemies"`

	// FSMs are room-local state machines referenced by enemy `fsm:` names.
	FSMs map[string]FSMSpec `yaml:"fsms"`
}

// FSMSpec is an authored state machine: states list action names, events
// map (state, event) to the next state, checks map checker names to the
// event they fire.
type FSMSpec struct {
	Initial string                       `yaml:"initial"`
	States  map[string]FSMStateSpec      `yaml:"states"`
	Events  map[string]map[string]string `yaml:"events"`
	Checks  map[string]map[string]string `yaml:"checks"`
}

type FSMStateSpec struct {
	OnEnter []string `yaml:"on_enter"`
	While   []string `yaml:"while"`
	OnExit  []string `yaml:"on_exit"`
}

type PlayerSpec struct {
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	MoveSpeed float64 `yaml:"move_speed"`
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
}

type RectSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

type AreaSpec struct {
	ID     string   `yaml:"id"`
	Bounds RectSpec `yaml:"bounds"`
}

type TeleporterSpec struct {
	ID           string  `yaml:"id"`
	Dest         string  `yaml:"dest"`
	X            float64 `yaml:"x"`
	Y            float64 `yaml:"y"`
	W            float64 `yaml:"w"`
	H            float64 `yaml:"h"`
	Heading      float64 `yaml:"heading"`
	DelaySeconds float64 `yaml:"delay_seconds"`
	MatchHeading bool    `yaml:"match_heading"`
	SpawnEffect  bool    `yaml:"spawn_effect"`
}

type TorchSpec struct {
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
	Intensity  float64 `yaml:"intensity"`
	MinSeconds float64 `yaml:"min_seconds"`
	MaxSeconds float64 `yaml:"max_seconds"`
	Radius     float64 `yaml:"radius"`
}

type EnemySpec struct {
	Name string  `yaml:"name"`
	Type string  `yaml:"type"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`

	MoveSpeed    float64    `yaml:"move_speed"`
	PauseSeconds float64    `yaml:"pause_seconds"`
	LineDistance float64    `yaml:"line_distance"`
	LineDir      [2]float64 `yaml:"line_dir"`
	Area         string     `yaml:"area"`

	ArriveTolerance float64 `yaml:"arrive_tolerance"`
	DetectRange     float64 `yaml:"detect_range"`
	Chase           bool    `yaml:"chase"`

	FSM    string `yaml:"fsm"`
	Script string `yaml:"script"`

	GameOver GameOverSpec `yaml:"game_over"`
}

type GameOverSpec struct {
	Enabled      bool    `yaml:"enabled"`
	Message      string  `yaml:"message"`
	DelaySeconds float64 `yaml:"delay_seconds"`
}

// LoadRoomSpec reads and validates a room file, disk copy first so edits
// win over the embedded build.
func LoadRoomSpec(name string) (*RoomSpec, error) {
	data, err := Load(name)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load room %q: %w", name, err)
	}
	return ParseRoomSpec(data)
}

func ParseRoomSpec(data []byte) (*RoomSpec, error) {
	var spec RoomSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("prefabs: parse room: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Validate rejects specs that can't be built; dangling teleporter
// destinations are legal (the pad logs and refuses at trigger time).
func (s *RoomSpec) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("prefabs: room %q has invalid size %gx%g", s.Name, s.Width, s.Height)
	}

	padIDs := make(map[string]bool, len(s.Teleporters))
	for _, t := range s.Teleporters {
		if t.ID == "" {
			return fmt.Errorf("prefabs: room %q has a teleporter without an id", s.Name)
		}
		if padIDs[t.ID] {
			return fmt.Errorf("prefabs: room %q has duplicate teleporter id %q", s.Name, t.ID)
		}
		padIDs[t.ID] = true
		if t.W <= 0 || t.H <= 0 {
			return fmt.Errorf("prefabs: teleporter %q has invalid size %gx%g", t.ID, t.W, t.H)
		}
	}

	areaIDs := make(map[string]bool, len(s.Areas))
	for _, a := range s.Areas {
		if a.ID == "" {
			return fmt.Errorf("prefabs: room %q has a patrol area without an id", s.Name)
		}
		if areaIDs[a.ID] {
			return fmt.Errorf("prefabs: room %q has duplicate patrol area id %q", s.Name, a.ID)
		}
		areaIDs[a.ID] = true
		if a.Bounds.W <= 0 || a.Bounds.H <= 0 {
			return fmt.Errorf("prefabs: patrol area %q has invalid size %gx%g", a.ID, a.Bounds.W, a.Bounds.H)
		}
	}

	for _, e := range s.Enemies {
		if e.MoveSpeed < 0 {
			return fmt.Errorf("prefabs: enemy %q has negative move speed", e.Name)
		}
	}

	return nil
}
