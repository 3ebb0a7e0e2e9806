package main

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/trytobebee/snake_classic/pkg/game"
	"github.com/trytobebee/snake_classic/pkg/transport"
)

var (
	errReplayDone = errors.New("replay finished")
	errQuit       = errors.New("client quit")
)

// ReplayServer serves the replay library and streams recordings over a
// websocket with the same frames the game server sends
type ReplayServer struct {
	recordDir string
	static    string
	pace      func(prev, next game.StepRecord) time.Duration
}

func (s *ReplayServer) routes() *http.ServeMux {
	mux := http.NewServeMux()
	if s.static != "" {
		mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(s.static))))
	}
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/view", s.handleView)
	mux.HandleFunc("/ws/replay", s.handleReplayWS)
	return mux
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Snake Replays</title>
    <style>
        body { font-family: monospace; background: #1a202c; color: #fff; padding: 2rem; }
        h1 { color: #48bb78; }
        .file-list { display: grid; gap: 1rem; }
        .file-item {
            background: #2d3748; padding: 1rem; border-radius: 8px;
            display: flex; justify-content: space-between; align-items: center;
        }
        .file-item:hover { background: #4a5568; }
        a { color: #63b3ed; text-decoration: none; font-weight: bold; }
        .meta { color: #a0aec0; font-size: 0.9em; }
    </style>
</head>
<body>
    <h1>📼 Replay Library</h1>
    <div class="file-list">
        {{range .}}
        <div class="file-item">
            <div>
                <div class="name">{{.Name}}</div>
                <div class="meta">Session: {{.SessionID}} | Size: {{.Size}} bytes | {{.Time.Format "2006-01-02 15:04:05"}}</div>
            </div>
            <a href="/view?file={{.Name}}">WATCH REPLAY ▶</a>
        </div>
        {{else}}
        <p>No recordings found.</p>
        {{end}}
    </div>
</body>
</html>`))

func (s *ReplayServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	records, err := listRecords(s.recordDir)
	if err != nil {
		log.Println("Failed to list recordings:", err)
		http.Error(w, "cannot list recordings", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, records); err != nil {
		log.Println("Index render error:", err)
	}
}

func (s *ReplayServer) handleView(w http.ResponseWriter, r *http.Request) {
	filename := r.URL.Query().Get("file")
	if filename == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	// The player page lives with the static client files
	http.Redirect(w, r, "/static/replay.html?file="+url.QueryEscape(filename), http.StatusFound)
}

// load reads a recording by file name; paths are not accepted
func (s *ReplayServer) load(name string) ([]game.StepRecord, error) {
	if name == "" || filepath.Base(name) != name || filepath.Ext(name) != ".jsonl" {
		return nil, fmt.Errorf("invalid recording name %q", name)
	}
	f, err := os.Open(filepath.Join(s.recordDir, name))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	steps, err := game.ReadRecords(f)
	if err != nil {
		return nil, err
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("no frames in %s", name)
	}
	return steps, nil
}

func (s *ReplayServer) handleReplayWS(w http.ResponseWriter, r *http.Request) {
	steps, err := s.load(r.URL.Query().Get("file"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	c, err := transport.Upgrade(w, r)
	if err != nil {
		log.Println("Upgrade error:", err)
		return
	}
	defer c.Close()

	err = s.stream(r.Context(), c, steps)
	switch {
	case errors.Is(err, errReplayDone):
		c.CloseNormal("replay finished")
	case errors.Is(err, errQuit):
		c.CloseNormal("bye")
	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
	case err != nil && !errors.Is(err, context.Canceled):
		log.Printf("Replay for %s ended: %v", r.RemoteAddr, err)
	}
}

// stream sends a config frame, then one state frame per step paced by
// s.pace. The client can send pause, resume and quit actions meanwhile.
func (s *ReplayServer) stream(ctx context.Context, c *transport.Conn, steps []game.StepRecord) error {
	first := steps[0].State
	cfg := game.GameConfig{Width: first.Width, Height: first.Height}
	if err := c.Send(transport.ServerMessage{Type: transport.TypeConfig, Config: &cfg}); err != nil {
		return err
	}

	controls := make(chan bool) // true pauses, false resumes
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		defer close(controls)
		for {
			msg, err := c.Receive()
			if err != nil {
				return err
			}
			var pause bool
			switch msg.Action {
			case "pause":
				pause = true
			case "resume":
				pause = false
			case "quit":
				return errQuit
			default:
				continue
			}
			select {
			case controls <- pause:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	eg.Go(func() error {
		// Unblocks the reader when the stream ends first
		defer c.Unblock()

		in := (<-chan bool)(controls)
		paused := false
		for i := 0; i < len(steps); {
			var timer *time.Timer
			var wait <-chan time.Time
			if !paused {
				var delay time.Duration
				if i > 0 {
					delay = s.pace(steps[i-1], steps[i])
				}
				timer = time.NewTimer(delay)
				wait = timer.C
			}

			fired := false
			select {
			case <-ctx.Done():
			case p, ok := <-in:
				if ok {
					paused = p
				} else {
					in = nil
				}
			case <-wait:
				fired = true
			}
			if timer != nil {
				timer.Stop()
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if !fired {
				continue
			}

			state := steps[i].State
			if err := c.Send(transport.ServerMessage{Type: transport.TypeState, State: &state}); err != nil {
				return err
			}
			i++
		}
		if err := c.Send(transport.ServerMessage{Type: transport.TypeEnd}); err != nil {
			return err
		}
		return errReplayDone
	})

	return eg.Wait()
}
