package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/trytobebee/snake_classic/pkg/config"
)

// ScoreBook is the persistent high score collaborator
type ScoreBook interface {
	HighScore() int
	// RecordGame stores a finished game and reports whether it set a new high score
	RecordGame(score int) bool
}

// Game represents the main game state and its phase machine
type Game struct {
	settings config.Settings
	board    Board
	snake    *Snake
	food     *Food
	score    *ScoreTracker
	scores   ScoreBook

	phase      Phase
	nextDir    Direction // Applied on the next tick
	tick       uint64
	newHigh    bool
	crashPoint *Point
}

// NewGame creates a game in the menu phase. A nil ScoreBook keeps high
// scores in memory only.
func NewGame(settings config.Settings, scores ScoreBook) (*Game, error) {
	seed := settings.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return NewGameWithRand(settings, scores, rand.New(rand.NewSource(seed)))
}

// NewGameWithRand is NewGame with an explicit source for food placement
func NewGameWithRand(settings config.Settings, scores ScoreBook, rng Rand) (*Game, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	board, err := NewBoard(settings.Width, settings.Height)
	if err != nil {
		return nil, err
	}
	if scores == nil {
		scores = &memoryScoreBook{}
	}

	g := &Game{
		settings: settings,
		board:    board,
		food:     NewFood(board, rng),
		score:    NewScoreTracker(settings.InitialTickInterval, settings.SpeedStep, settings.MinTickInterval),
		scores:   scores,
		phase:    PhaseMenu,
	}
	// Lay out a board so the menu has something to show behind it
	g.reset()
	return g, nil
}

// reset puts a fresh snake in the center, new food and a zero score
func (g *Game) reset() {
	g.snake = NewSnake(g.board.Center(), g.settings.InitialSnakeLength)
	// The body trails downward, so heading up can never bite it
	g.nextDir = Up
	g.score.Reset()
	g.food.Spawn(g.snake.Occupied())
	g.tick = 0
	g.newHigh = false
	g.crashPoint = nil
}

// newRound resets the board and starts playing
func (g *Game) newRound() {
	g.reset()
	g.phase = PhasePlaying
}

// Handle applies an input command. It returns true when the command asks
// the caller to quit; the game itself never exits the process.
func (g *Game) Handle(cmd Command) (quit bool) {
	if cmd.Kind == CmdQuit {
		return true
	}
	if action, ok := transitions[g.phase][cmd.Kind]; ok {
		action(g, cmd)
	}
	return false
}

// Accepts reports whether kind changes anything in the current phase
func (g *Game) Accepts(kind CommandKind) bool {
	if kind == CmdQuit {
		return true
	}
	_, ok := transitions[g.phase][kind]
	return ok
}

// transitions lists every (phase, command) pair that does something.
// Pairs not listed are ignored.
var transitions = map[Phase]map[CommandKind]func(*Game, Command){
	PhaseMenu: {
		CmdStart: func(g *Game, _ Command) { g.newRound() },
	},
	PhasePlaying: {
		CmdTurn:    func(g *Game, c Command) { g.turn(c.Dir) },
		CmdPause:   func(g *Game, _ Command) { g.phase = PhasePaused },
		CmdRestart: func(g *Game, _ Command) { g.newRound() },
	},
	PhasePaused: {
		CmdResume:  func(g *Game, _ Command) { g.phase = PhasePlaying },
		CmdRestart: func(g *Game, _ Command) { g.newRound() },
	},
	PhaseGameOver: {
		CmdPlayAgain: func(g *Game, _ Command) { g.newRound() },
		CmdToMenu:    func(g *Game, _ Command) { g.phase = PhaseMenu },
	},
}

// turn queues a direction change unless it would reverse the last move
func (g *Game) turn(d Direction) {
	if !d.Valid() {
		return
	}
	// Compare against the direction actually moved, not the queued one,
	// so two quick turns within one tick cannot fold the snake back.
	if g.snake.Direction().IsOpposite(d) {
		return
	}
	g.nextDir = d
}

// Tick advances the game by one step. It does nothing outside PLAYING.
func (g *Game) Tick() {
	if g.phase != PhasePlaying {
		return
	}
	g.tick++

	g.snake.Move(g.nextDir)
	head := g.snake.Head()

	if g.board.CheckWallCollision(head) {
		if g.settings.Walls == config.WallSolid {
			g.endGame(head)
			return
		}
		head = g.board.Wrap(head)
		g.snake.SetHead(head)
	}

	// Food is checked first so a fatal bite still scores
	if head == g.food.Position() {
		g.snake.Grow()
		g.score.Eat()
		g.food.Spawn(g.snake.Occupied())
	}

	// After the move body[1:] no longer holds the cell the tail just left,
	// so following the tail is legal.
	if g.snake.CheckSelfCollision() {
		g.endGame(head)
	}
}

func (g *Game) endGame(crash Point) {
	g.phase = PhaseGameOver
	g.crashPoint = &crash
	g.newHigh = g.scores.RecordGame(g.score.Score())
}

// Phase returns the current phase
func (g *Game) Phase() Phase {
	return g.phase
}

// Board returns the arena
func (g *Game) Board() Board {
	return g.board
}

// Score returns the score of the current game
func (g *Game) Score() int {
	return g.score.Score()
}

// TickInterval returns how long the run loop should wait before the next
// Tick: the snake's speed while playing, the idle rate otherwise
func (g *Game) TickInterval() time.Duration {
	if g.phase == PhasePlaying {
		return g.score.Interval()
	}
	return g.settings.IdleTick
}

// Snapshot returns a copy of the state for rendering or serialization
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Phase:        g.phase,
		Snake:        g.snake.Body(),
		Direction:    g.snake.Direction(),
		Food:         g.food.Position(),
		Score:        g.score.Score(),
		HighScore:    g.scores.HighScore(),
		NewHighScore: g.newHigh,
		FoodEaten:    g.score.FoodEaten(),
		TickInterval: g.score.Interval(),
		Tick:         g.tick,
		Width:        g.board.Width(),
		Height:       g.board.Height(),
	}
	if g.crashPoint != nil {
		p := *g.crashPoint
		s.CrashPoint = &p
	}
	return s
}

// GetGameConfig returns the static settings clients need on connect
func (g *Game) GetGameConfig() GameConfig {
	return GameConfig{
		Width:       g.board.Width(),
		Height:      g.board.Height(),
		Walls:       string(g.settings.Walls),
		InitialTick: int(g.settings.InitialTickInterval.Milliseconds()),
		MinTick:     int(g.settings.MinTickInterval.Milliseconds()),
	}
}

// memoryScoreBook is used when no persistent store is wired in
type memoryScoreBook struct {
	high int
}

func (m *memoryScoreBook) HighScore() int { return m.high }

func (m *memoryScoreBook) RecordGame(score int) bool {
	if score > m.high {
		m.high = score
		return true
	}
	return false
}
