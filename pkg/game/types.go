package game

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidBoard is returned when a board would have no cells
var ErrInvalidBoard = errors.New("board dimensions must be positive")

// Point represents a coordinate on the game board
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p shifted by d
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Direction is one of the four grid directions
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

var directionNames = [...]string{Up: "up", Down: "down", Left: "left", Right: "right"}

var opposites = [...]Direction{Up: Down, Down: Up, Left: Right, Right: Left}

var deltas = [...]Point{Up: {X: 0, Y: -1}, Down: {X: 0, Y: 1}, Left: {X: -1, Y: 0}, Right: {X: 1, Y: 0}}

// Valid reports whether d is one of the four directions
func (d Direction) Valid() bool {
	return d >= Up && d <= Right
}

// String returns the lower-case direction name
func (d Direction) String() string {
	if !d.Valid() {
		return "unknown"
	}
	return directionNames[d]
}

// Opposite returns the 180° reverse of d
func (d Direction) Opposite() Direction {
	if !d.Valid() {
		return d
	}
	return opposites[d]
}

// IsOpposite reports whether turning from d to other would reverse the snake
func (d Direction) IsOpposite(other Direction) bool {
	return d.Valid() && other.Valid() && opposites[d] == other
}

// Delta returns the unit offset for one step; y grows downward
func (d Direction) Delta() Point {
	if !d.Valid() {
		return Point{}
	}
	return deltas[d]
}

// ParseDirection converts "up"/"down"/"left"/"right" into a Direction
func ParseDirection(s string) (Direction, bool) {
	for d, name := range directionNames {
		if name == s {
			return Direction(d), true
		}
	}
	return 0, false
}

// MarshalText encodes the direction by name
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid direction %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText decodes a direction name
func (d *Direction) UnmarshalText(b []byte) error {
	parsed, ok := ParseDirection(string(b))
	if !ok {
		return fmt.Errorf("invalid direction %q", b)
	}
	*d = parsed
	return nil
}

// Phase is the top-level mode of the game
type Phase int

const (
	PhaseMenu Phase = iota
	PhasePlaying
	PhasePaused
	PhaseGameOver
)

// String returns the phase name used in snapshots
func (p Phase) String() string {
	switch p {
	case PhaseMenu:
		return "menu"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// MarshalText encodes the phase by name
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a phase name
func (p *Phase) UnmarshalText(b []byte) error {
	for _, candidate := range []Phase{PhaseMenu, PhasePlaying, PhasePaused, PhaseGameOver} {
		if candidate.String() == string(b) {
			*p = candidate
			return nil
		}
	}
	return fmt.Errorf("invalid phase %q", b)
}

// CommandKind identifies an abstract input command
type CommandKind int

const (
	CmdNone CommandKind = iota
	CmdTurn
	CmdPause
	CmdResume
	CmdRestart
	CmdStart
	CmdPlayAgain
	CmdToMenu
	CmdQuit
)

// String returns the command name
func (k CommandKind) String() string {
	switch k {
	case CmdTurn:
		return "turn"
	case CmdPause:
		return "pause"
	case CmdResume:
		return "resume"
	case CmdRestart:
		return "restart"
	case CmdStart:
		return "start"
	case CmdPlayAgain:
		return "play_again"
	case CmdToMenu:
		return "menu"
	case CmdQuit:
		return "quit"
	default:
		return "none"
	}
}

// Command is an abstract input token; Dir is only meaningful for CmdTurn
type Command struct {
	Kind CommandKind `json:"kind"`
	Dir  Direction   `json:"dir,omitempty"`
}

// Turn builds a direction-change command
func Turn(d Direction) Command {
	return Command{Kind: CmdTurn, Dir: d}
}

// Simple commands
var (
	Pause     = Command{Kind: CmdPause}
	Resume    = Command{Kind: CmdResume}
	Restart   = Command{Kind: CmdRestart}
	Start     = Command{Kind: CmdStart}
	PlayAgain = Command{Kind: CmdPlayAgain}
	ToMenu    = Command{Kind: CmdToMenu}
	Quit      = Command{Kind: CmdQuit}
)

// Snapshot is a read-only copy of the game for renderers and clients
type Snapshot struct {
	Phase        Phase         `json:"phase"`
	Snake        []Point       `json:"snake"`
	Direction    Direction     `json:"direction"`
	Food         Point         `json:"food"`
	Score        int           `json:"score"`
	HighScore    int           `json:"highScore"`
	NewHighScore bool          `json:"newHighScore"`
	FoodEaten    int           `json:"foodEaten"`
	TickInterval time.Duration `json:"tickInterval"`
	Tick         uint64        `json:"tick"`
	Width        int           `json:"width"`
	Height       int           `json:"height"`
	CrashPoint   *Point        `json:"crashPoint,omitempty"`
}

// GameConfig is sent to clients once on connect
type GameConfig struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Walls       string `json:"walls"`
	InitialTick int    `json:"initialTickMs"`
	MinTick     int    `json:"minTickMs"`
}
