package config

import (
	"fmt"
	"time"
)

// Game board dimensions
const (
	DefaultWidth       = 20
	DefaultHeight      = 20
	InitialSnakeLength = 3
)

// Speed settings
const (
	InitialTickInterval = 150 * time.Millisecond // Move interval at the start of a game
	SpeedStep           = 5 * time.Millisecond   // Interval reduction per food eaten
	MinTickInterval     = 60 * time.Millisecond  // Fastest the snake can ever go
	IdleTick            = 100 * time.Millisecond // Loop rate outside of PLAYING
)

// Food placement settings
const (
	FoodSpawnAttempts = 100 // Randomized draws before accepting an occupied cell
)

// Storage settings
const (
	DataDir         = "data"
	SQLitePath      = "data/game.db"
	HighScoreFile   = "high_scores.json"
	RecordDir       = "records"
	DefaultListen   = ":8080"
	ReplayListen    = ":8081"
	ReplayFrameRate = 100 * time.Millisecond
)

// Characters for rendering
const (
	CharEmpty = "  " // Two spaces to match emoji width
	CharWall  = "⬜"
	CharHead  = "🟢"
	CharBody  = "🟩"
	CharFood  = "🍎"
	CharCrash = "💥"
)

// WallPolicy decides what happens when the head leaves the board.
type WallPolicy string

const (
	WallWrap  WallPolicy = "wrap"  // Re-enter from the opposite edge
	WallSolid WallPolicy = "solid" // Leaving the board ends the game
)

// Settings holds the tunables a game is built from
type Settings struct {
	Width               int
	Height              int
	InitialSnakeLength  int
	InitialTickInterval time.Duration
	SpeedStep           time.Duration
	MinTickInterval     time.Duration
	IdleTick            time.Duration
	Walls               WallPolicy
	Seed                int64 // 0 means seed from the clock
}

// Default returns the classic 20x20 wrap-around configuration
func Default() Settings {
	return Settings{
		Width:               DefaultWidth,
		Height:              DefaultHeight,
		InitialSnakeLength:  InitialSnakeLength,
		InitialTickInterval: InitialTickInterval,
		SpeedStep:           SpeedStep,
		MinTickInterval:     MinTickInterval,
		IdleTick:            IdleTick,
		Walls:               WallWrap,
	}
}

// Validate reports the first setting that cannot produce a playable game
func (s Settings) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("board must be positive, got %dx%d", s.Width, s.Height)
	}
	if s.InitialSnakeLength < 1 {
		return fmt.Errorf("initial snake length must be at least 1, got %d", s.InitialSnakeLength)
	}
	// The body trails downward from the center, so it has to fit below it.
	if s.Height/2+s.InitialSnakeLength > s.Height {
		return fmt.Errorf("initial snake length %d does not fit on a board of height %d", s.InitialSnakeLength, s.Height)
	}
	if s.MinTickInterval <= 0 || s.InitialTickInterval < s.MinTickInterval {
		return fmt.Errorf("tick interval %v must be >= minimum %v > 0", s.InitialTickInterval, s.MinTickInterval)
	}
	if s.SpeedStep < 0 {
		return fmt.Errorf("speed step must not be negative, got %v", s.SpeedStep)
	}
	if s.IdleTick <= 0 {
		return fmt.Errorf("idle tick must be positive, got %v", s.IdleTick)
	}
	switch s.Walls {
	case WallWrap, WallSolid:
	default:
		return fmt.Errorf("unknown wall policy %q", s.Walls)
	}
	return nil
}

// ParseWallPolicy converts a flag value into a WallPolicy
func ParseWallPolicy(s string) (WallPolicy, error) {
	switch WallPolicy(s) {
	case WallWrap, WallSolid:
		return WallPolicy(s), nil
	}
	return "", fmt.Errorf("unknown wall policy %q (want %q or %q)", s, WallWrap, WallSolid)
}
