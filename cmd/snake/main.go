package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/trytobebee/snake_classic/pkg/config"
	"github.com/trytobebee/snake_classic/pkg/game"
	"github.com/trytobebee/snake_classic/pkg/highscore"
	"github.com/trytobebee/snake_classic/pkg/input"
	"github.com/trytobebee/snake_classic/pkg/renderer"
)

func main() {
	settings := config.Default()
	width := flag.Int("width", settings.Width, "board width in cells")
	height := flag.Int("height", settings.Height, "board height in cells")
	walls := flag.String("walls", string(settings.Walls), "wall policy: wrap or solid")
	storeKind := flag.String("store", "json", "high score store: json, sqlite or memory")
	scoreFile := flag.String("scores", config.HighScoreFile, "high score JSON file (store=json)")
	dbPath := flag.String("db", config.SQLitePath, "sqlite database (store=sqlite)")
	record := flag.Bool("record", false, "record the session to the records directory")
	logFile := flag.String("log", filepath.Join(config.DataDir, "snake.log"), "log file (the terminal is busy drawing)")
	flag.Parse()

	// Logs would tear the frame, so they go to a file
	if closeLog, err := redirectLog(*logFile); err != nil {
		fmt.Println("Error opening log file:", err)
	} else {
		defer closeLog()
	}

	policy, err := config.ParseWallPolicy(*walls)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	settings.Width, settings.Height, settings.Walls = *width, *height, policy

	store, closeStore, err := openStore(*storeKind, *scoreFile, *dbPath)
	if err != nil {
		fmt.Println("Error opening high score store:", err)
		os.Exit(1)
	}
	defer closeStore()
	scores := highscore.NewManager(store, log.Default())

	g, err := game.NewGame(settings, scores)
	if err != nil {
		fmt.Println("Error creating game:", err)
		os.Exit(2)
	}

	var rec *game.GameRecorder
	if *record {
		rec, err = game.NewRecorder(config.RecordDir, strconv.Itoa(os.Getpid()))
		if err != nil {
			log.Println("Recording disabled:", err)
		} else {
			defer rec.Close()
			log.Println("Recording to", rec.Path())
		}
	}

	// Initialize input handler
	inputHandler := input.NewKeyboardHandler()
	if err := inputHandler.Start(); err != nil {
		fmt.Println("Error opening keyboard:", err)
		return
	}
	defer inputHandler.Stop()

	render := renderer.NewTerminalRenderer(settings.Width, settings.Height)
	renderer.HideCursor(os.Stdout)
	defer renderer.ShowCursor(os.Stdout)

	run(g, inputHandler.GetInputChan(), render, rec, os.Stdout)
	fmt.Println("\n  Thanks for playing! 👋")
}

// run is the game loop: input is applied as it arrives, ticks are paced by
// the game's current interval. It returns when a Quit command comes in.
func run(g *game.Game, inputChan <-chan input.KeyInput, render *renderer.TerminalRenderer, rec *game.GameRecorder, out io.Writer) {
	draw := func(cmd *game.Command) {
		snap := g.Snapshot()
		if err := render.Render(out, snap); err != nil {
			log.Println("Render error:", err)
		}
		if rec != nil {
			rec.Record(snap, cmd)
		}
	}

	timer := time.NewTimer(g.TickInterval())
	defer timer.Stop()

	draw(nil)
	for {
		select {
		case key := <-inputChan:
			cmd, ok := input.ToCommand(key, g.Phase())
			if !ok || !g.Accepts(cmd.Kind) {
				// Nothing would change, skip the redraw and the record
				continue
			}
			before := g.Phase()
			if g.Handle(cmd) {
				return
			}
			if g.Phase() != before {
				// Phase changes alter the pacing, restart the wait
				resetTimer(timer, g.TickInterval())
			}
			draw(&cmd)

		case <-timer.C:
			before := g.Phase()
			g.Tick()
			if before == game.PhasePlaying {
				draw(nil)
			}
			if before == game.PhasePlaying && g.Phase() == game.PhaseGameOver {
				log.Printf("Game over: score %d, high score %d", g.Score(), g.Snapshot().HighScore)
			}
			timer.Reset(g.TickInterval())
		}
	}
}

func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}

func openStore(kind, scoreFile, dbPath string) (highscore.Store, func(), error) {
	switch kind {
	case "json":
		return highscore.NewJSONFileStore(scoreFile), func() {}, nil
	case "sqlite":
		s, err := highscore.OpenSQLite(dbPath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	case "memory":
		return highscore.NewMemoryStore(highscore.Record{}), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown store %q", kind)
}

func redirectLog(path string) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	return func() { f.Close() }, nil
}
