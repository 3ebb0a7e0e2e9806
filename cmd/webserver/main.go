package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/trytobebee/snake_classic/pkg/config"
	"github.com/trytobebee/snake_classic/pkg/game"
	"github.com/trytobebee/snake_classic/pkg/highscore"
	"github.com/trytobebee/snake_classic/pkg/input"
	"github.com/trytobebee/snake_classic/pkg/transport"
)

// errQuit ends a session when the client sends the quit action
var errQuit = errors.New("client quit")

// Server hands out one private game per websocket connection; all of them
// share the high score book
type Server struct {
	settings config.Settings
	scores   *highscore.Manager
	sessions *highscore.SQLiteStore // Optional, for /stats history
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	c, err := transport.Upgrade(w, r)
	if err != nil {
		log.Println("Upgrade error:", err)
		return
	}
	defer c.Close()

	log.Println("New WebSocket connection from:", r.RemoteAddr)

	g, err := game.NewGame(s.settings, s.scores)
	if err != nil {
		log.Println("Game setup error:", err)
		return
	}

	gameConfig := g.GetGameConfig()
	if err := c.Send(transport.ServerMessage{Type: transport.TypeConfig, Config: &gameConfig}); err != nil {
		log.Println("Write error:", err)
		return
	}

	err = s.serve(r.Context(), c, g)
	switch {
	case errors.Is(err, errQuit):
		c.CloseNormal("bye")
	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
	case err != nil && !errors.Is(err, context.Canceled):
		log.Printf("Session %s ended: %v", r.RemoteAddr, err)
	}
	log.Printf("Connection from %s closed (score %d)", r.RemoteAddr, g.Score())
}

// serve runs the reader and the game loop until either stops. Only the
// game loop goroutine touches g; the reader hands it commands.
func (s *Server) serve(ctx context.Context, c *transport.Conn, g *game.Game) error {
	commands := make(chan game.Command, 16)
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		defer close(commands)
		for {
			msg, err := c.Receive()
			if err != nil {
				return err
			}
			cmd, ok := input.ParseAction(msg.Action)
			if !ok {
				continue // Unknown actions are ignored
			}
			select {
			case commands <- cmd:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	eg.Go(func() error {
		// Unblocks the reader when the loop exits first
		defer c.Unblock()

		sendState := func() error {
			state := g.Snapshot()
			return c.Send(transport.ServerMessage{Type: transport.TypeState, State: &state})
		}
		if err := sendState(); err != nil {
			return err
		}

		timer := time.NewTimer(g.TickInterval())
		defer timer.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case cmd, ok := <-commands:
				if !ok {
					return nil
				}
				if !g.Accepts(cmd.Kind) {
					continue
				}
				if g.Handle(cmd) {
					return errQuit
				}
				// Immediate state update for UI responsiveness
				if err := sendState(); err != nil {
					return err
				}
			case <-timer.C:
				wasPlaying := g.Phase() == game.PhasePlaying
				g.Tick()
				if wasPlaying {
					if err := sendState(); err != nil {
						return err
					}
				}
				timer.Reset(g.TickInterval())
			}
		}
	})

	return eg.Wait()
}

// statsResponse is served at /stats
type statsResponse struct {
	highscore.Record
	Recent []highscore.Session `json:"recent,omitempty"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	resp := statsResponse{Record: s.scores.Stats()}
	if s.sessions != nil {
		recent, err := s.sessions.RecentSessions(10)
		if err != nil {
			log.Println("Stats query error:", err)
		}
		resp.Recent = recent
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Println("Stats write error:", err)
	}
}

func main() {
	settings := config.Default()
	addr := flag.String("addr", config.DefaultListen, "listen address")
	walls := flag.String("walls", string(settings.Walls), "wall policy: wrap or solid")
	dbPath := flag.String("db", config.SQLitePath, "sqlite database for high scores")
	static := flag.String("static", "", "directory of static client files to serve at /")
	flag.Parse()

	policy, err := config.ParseWallPolicy(*walls)
	if err != nil {
		log.Fatal(err)
	}
	settings.Walls = policy

	store, err := highscore.OpenSQLite(*dbPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer store.Close()

	srv := &Server{
		settings: settings,
		scores:   highscore.NewManager(store, log.Default()),
		sessions: store,
	}

	mux := http.NewServeMux()
	if *static != "" {
		mux.Handle("/", http.FileServer(http.Dir(*static)))
	}
	mux.HandleFunc("/ws", srv.handleWebSocket)
	mux.HandleFunc("/stats", srv.handleStats)

	fmt.Printf("🚀 Snake Game Web Server starting on http://localhost%s\n", *addr)
	log.Fatal(http.ListenAndServe(*addr, mux))
}
