package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/trytobebee/snake_classic/pkg/config"
	"github.com/trytobebee/snake_classic/pkg/game"
)

// TerminalRenderer handles terminal-based rendering
type TerminalRenderer struct {
	board  [][]int
	buffer strings.Builder
	title  string
}

// Cell types for the board
const (
	cellEmpty = iota
	cellHead
	cellBody
	cellFood
	cellCrash
)

// NewTerminalRenderer creates a new terminal renderer
func NewTerminalRenderer(width, height int) *TerminalRenderer {
	r := &TerminalRenderer{title: "🐍 SNAKE 🐍"}
	r.resize(width, height)
	return r
}

// SetTitle replaces the banner line
func (r *TerminalRenderer) SetTitle(title string) {
	r.title = title
}

// resize reallocates the board only when the size changes
func (r *TerminalRenderer) resize(width, height int) {
	if len(r.board) == height && (height == 0 || len(r.board[0]) == width) {
		return
	}
	board := make([][]int, height)
	for i := range board {
		board[i] = make([]int, width)
	}
	r.board = board
}

// ClearScreen clears the terminal using ANSI escape codes
func ClearScreen(w io.Writer) {
	fmt.Fprint(w, "\033[H\033[2J\033[3J")
}

// ShowCursor shows the cursor (call on exit)
func ShowCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25h")
}

// HideCursor hides the cursor (call on start)
func HideCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25l")
}

// Render draws the snapshot to w in one write
func (r *TerminalRenderer) Render(w io.Writer, s game.Snapshot) error {
	_, err := io.WriteString(w, r.Frame(s))
	return err
}

// Frame builds the full text of one frame without writing it
func (r *TerminalRenderer) Frame(s game.Snapshot) string {
	r.resize(s.Width, s.Height)
	r.buffer.Reset()

	for y := range r.board {
		for x := range r.board[y] {
			r.board[y][x] = cellEmpty
		}
	}

	r.plot(s.Food, cellFood)
	// Tail first so the head wins when a fresh segment overlaps
	for i := len(s.Snake) - 1; i >= 0; i-- {
		if i == 0 {
			r.plot(s.Snake[i], cellHead)
		} else {
			r.plot(s.Snake[i], cellBody)
		}
	}
	if s.CrashPoint != nil {
		r.plot(*s.CrashPoint, cellCrash)
	}

	r.buffer.WriteString("\033[H\033[2J\033[3J")
	r.buffer.WriteString("\n  " + r.title + "\n")
	r.buffer.WriteString(fmt.Sprintf("  Score: %d  |  High: %d  |  Length: %d  |  Speed: %dms/move\n\n",
		s.Score, s.HighScore, len(s.Snake), s.TickInterval.Milliseconds()))

	r.writeBorder(s.Width)
	for _, row := range r.board {
		r.buffer.WriteString("  " + config.CharWall)
		for _, cell := range row {
			switch cell {
			case cellEmpty:
				r.buffer.WriteString(config.CharEmpty)
			case cellHead:
				r.buffer.WriteString(config.CharHead)
			case cellBody:
				r.buffer.WriteString(config.CharBody)
			case cellFood:
				r.buffer.WriteString(config.CharFood)
			case cellCrash:
				r.buffer.WriteString(config.CharCrash)
			}
		}
		r.buffer.WriteString(config.CharWall + "\n")
	}
	r.writeBorder(s.Width)

	r.buffer.WriteString("\n  Use WASD or Arrow keys to move\n")
	r.buffer.WriteString(r.phaseBanner(s))

	return r.buffer.String()
}

// plot marks p if it is on the board; a crash point can lie outside it
func (r *TerminalRenderer) plot(p game.Point, cell int) {
	if p.Y < 0 || p.Y >= len(r.board) || p.X < 0 || p.X >= len(r.board[p.Y]) {
		return
	}
	r.board[p.Y][p.X] = cell
}

func (r *TerminalRenderer) writeBorder(width int) {
	r.buffer.WriteString("  ")
	for x := 0; x < width+2; x++ {
		r.buffer.WriteString(config.CharWall)
	}
	r.buffer.WriteString("\n")
}

func (r *TerminalRenderer) phaseBanner(s game.Snapshot) string {
	switch s.Phase {
	case game.PhaseMenu:
		return "\n  Press ENTER or SPACE to start, Q to quit\n"
	case game.PhasePaused:
		return "\n  ⏸️  PAUSED - Press P to continue, R to restart\n"
	case game.PhaseGameOver:
		msg := fmt.Sprintf("\n  💀 GAME OVER! Final score: %d\n", s.Score)
		if s.NewHighScore {
			msg += "  🏆 New high score!\n"
		}
		return msg + "  Press R or ENTER to play again, M for menu, Q to quit\n"
	default:
		return "  P to pause, R to restart, Q to quit\n"
	}
}
