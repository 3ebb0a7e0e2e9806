package renderer

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/trytobebee/snake_classic/pkg/config"
	"github.com/trytobebee/snake_classic/pkg/game"
)

func newPlayingGame(tb testing.TB) *game.Game {
	tb.Helper()
	settings := config.Default()
	settings.Seed = 7
	g, err := game.NewGame(settings, nil)
	if err != nil {
		tb.Fatalf("NewGame: %v", err)
	}
	g.Handle(game.Start)
	return g
}

// TestFrameDrawsSnapshot checks the frame reflects the snapshot it was given
func TestFrameDrawsSnapshot(t *testing.T) {
	snap := game.Snapshot{
		Phase:        game.PhasePlaying,
		Snake:        []game.Point{{X: 1, Y: 1}, {X: 1, Y: 2}},
		Food:         game.Point{X: 3, Y: 0},
		Score:        4,
		HighScore:    9,
		TickInterval: 130 * time.Millisecond,
		Width:        5,
		Height:       4,
	}
	r := NewTerminalRenderer(snap.Width, snap.Height)
	frame := r.Frame(snap)

	for _, want := range []string{"Score: 4", "High: 9", "Length: 2", "130ms/move"} {
		if !strings.Contains(frame, want) {
			t.Errorf("frame missing %q", want)
		}
	}
	if n := strings.Count(frame, config.CharHead); n != 1 {
		t.Errorf("expected 1 head, got %d", n)
	}
	if n := strings.Count(frame, config.CharBody); n != 1 {
		t.Errorf("expected 1 body segment, got %d", n)
	}
	if n := strings.Count(frame, config.CharFood); n != 1 {
		t.Errorf("expected 1 food, got %d", n)
	}
	// 4 rows of board between 2 border lines
	if n := strings.Count(frame, config.CharWall+"\n"); n != snap.Height+2 {
		t.Errorf("expected %d wall-terminated lines, got %d", snap.Height+2, n)
	}
}

// TestFrameBanners checks each phase prints its hint line
func TestFrameBanners(t *testing.T) {
	crash := game.Point{X: -1, Y: 2}
	tests := []struct {
		name string
		snap game.Snapshot
		want string
	}{
		{"menu", game.Snapshot{Phase: game.PhaseMenu}, "to start"},
		{"paused", game.Snapshot{Phase: game.PhasePaused}, "PAUSED"},
		{"game over", game.Snapshot{Phase: game.PhaseGameOver, Score: 3}, "Final score: 3"},
		{"new high", game.Snapshot{Phase: game.PhaseGameOver, NewHighScore: true}, "New high score"},
		{"crash off board", game.Snapshot{Phase: game.PhaseGameOver, CrashPoint: &crash}, "GAME OVER"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.snap.Width, tc.snap.Height = 4, 4
			tc.snap.Snake = []game.Point{{X: 2, Y: 2}}
			frame := NewTerminalRenderer(4, 4).Frame(tc.snap)
			if !strings.Contains(frame, tc.want) {
				t.Errorf("frame for %s missing %q", tc.name, tc.want)
			}
		})
	}
}

// TestRenderResizes checks the board buffer follows the snapshot size
func TestRenderResizes(t *testing.T) {
	r := NewTerminalRenderer(3, 3)
	var buf bytes.Buffer
	snap := game.Snapshot{Phase: game.PhaseMenu, Width: 6, Height: 2, Snake: []game.Point{{X: 5, Y: 1}}}
	if err := r.Render(&buf, snap); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(r.board) != 2 || len(r.board[0]) != 6 {
		t.Errorf("expected 6x2 board, got %dx%d", len(r.board[0]), len(r.board))
	}
	if !strings.Contains(buf.String(), config.CharHead) {
		t.Error("head not drawn after resize")
	}
}

// BenchmarkStringBuilderRender benchmarks buffered rendering
func BenchmarkStringBuilderRender(b *testing.B) {
	g := newPlayingGame(b)
	renderer := NewTerminalRenderer(config.DefaultWidth, config.DefaultHeight)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		renderer.Render(io.Discard, g.Snapshot())
	}
}

// BenchmarkNaiveRender benchmarks rendering with one write per cell
func BenchmarkNaiveRender(b *testing.B) {
	g := newPlayingGame(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		naiveRender(io.Discard, g.Snapshot())
	}
}

// naiveRender writes every cell separately and allocates the board each frame
func naiveRender(w io.Writer, s game.Snapshot) {
	board := make([][]int, s.Height)
	for i := range board {
		board[i] = make([]int, s.Width)
	}
	for i, p := range s.Snake {
		if i == 0 {
			board[p.Y][p.X] = cellHead
		} else {
			board[p.Y][p.X] = cellBody
		}
	}

	fmt.Fprintln(w, "\n  🐍 SNAKE 🐍")
	fmt.Fprintf(w, "  Score: %d\n\n", s.Score)
	for _, row := range board {
		fmt.Fprint(w, "  ")
		for _, cell := range row {
			switch cell {
			case cellEmpty:
				fmt.Fprint(w, config.CharEmpty)
			case cellHead:
				fmt.Fprint(w, config.CharHead)
			case cellBody:
				fmt.Fprint(w, config.CharBody)
			}
		}
		fmt.Fprintln(w)
	}
}

// BenchmarkFrameSizes measures a mid-game frame on the default board and
// on a large one, reusing the renderer's buffers
func BenchmarkFrameSizes(b *testing.B) {
	for _, size := range []int{config.DefaultWidth, 60} {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			snap := game.Snapshot{Phase: game.PhasePlaying, Width: size, Height: size, Food: game.Point{X: 1, Y: 1}}
			for x := 0; x < size; x++ {
				snap.Snake = append(snap.Snake, game.Point{X: x, Y: size / 2})
			}
			r := NewTerminalRenderer(size, size)

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				r.Frame(snap)
			}
		})
	}
}
