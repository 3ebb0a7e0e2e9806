package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/trytobebee/snake_classic/pkg/config"
	"github.com/trytobebee/snake_classic/pkg/game"
	"github.com/trytobebee/snake_classic/pkg/renderer"
)

// RecordFile describes one recording on disk
type RecordFile struct {
	Name      string
	Size      int64
	Time      time.Time
	SessionID string
}

func main() {
	dir := flag.String("dir", config.RecordDir, "directory holding .jsonl recordings")
	list := flag.Bool("list", false, "list recordings and exit")
	speed := flag.Float64("speed", 1, "playback speed multiplier")
	fixed := flag.Bool("fixed", false, "play at a fixed frame rate instead of recorded timing")
	serve := flag.String("serve", "", "serve replays to browsers on this address (e.g. "+config.ReplayListen+") instead of the terminal")
	static := flag.String("static", "", "directory of static client files served at /static/")
	flag.Parse()

	if *serve != "" {
		server := &ReplayServer{
			recordDir: *dir,
			static:    *static,
			pace:      newPace(*fixed, *speed),
		}
		fmt.Printf("📼 Snake Replay Tool starting on http://localhost%s\n", *serve)
		log.Fatal(http.ListenAndServe(*serve, server.routes()))
	}

	if *list || flag.NArg() == 0 {
		records, err := listRecords(*dir)
		if err != nil {
			log.Fatal("Failed to list recordings:", err)
		}
		printRecords(os.Stdout, records)
		return
	}

	path := flag.Arg(0)
	if !strings.ContainsRune(path, filepath.Separator) {
		path = filepath.Join(*dir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		log.Fatal("Failed to open record:", err)
	}
	defer f.Close()

	steps, err := game.ReadRecords(f)
	if err != nil {
		log.Fatal(err)
	}
	if len(steps) == 0 {
		log.Fatalf("No frames in %s", path)
	}

	pace := newPace(*fixed, *speed)

	render := renderer.NewTerminalRenderer(steps[0].State.Width, steps[0].State.Height)
	render.SetTitle("📼 SNAKE REPLAY 📼")
	renderer.HideCursor(os.Stdout)
	defer renderer.ShowCursor(os.Stdout)

	play(os.Stdout, render, steps, pace, time.Sleep)
	last := steps[len(steps)-1].State
	fmt.Printf("\n  Replay finished: %d frames, final score %d\n", len(steps), last.Score)
}

// newPace returns the wait between two frames: the recorded gap scaled by
// speed, or the fixed replay frame rate
func newPace(fixed bool, speed float64) func(prev, next game.StepRecord) time.Duration {
	return func(prev, next game.StepRecord) time.Duration {
		if fixed || speed <= 0 {
			return config.ReplayFrameRate
		}
		return time.Duration(float64(next.Time.Sub(prev.Time)) / speed)
	}
}

// play renders every step, waiting pace(prev, next) between frames
func play(w io.Writer, render *renderer.TerminalRenderer, steps []game.StepRecord, pace func(prev, next game.StepRecord) time.Duration, sleep func(time.Duration)) {
	for i, step := range steps {
		if i > 0 {
			if d := pace(steps[i-1], step); d > 0 {
				sleep(d)
			}
		}
		if err := render.Render(w, step.State); err != nil {
			log.Println("Render error:", err)
			return
		}
	}
}

func listRecords(dir string) ([]RecordFile, error) {
	files, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var records []RecordFile
	for _, f := range files {
		if filepath.Ext(f.Name()) != ".jsonl" {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		// expecting format: game_{sessionID}_{timestamp}.jsonl
		parts := strings.Split(strings.TrimSuffix(f.Name(), ".jsonl"), "_")
		sessID := ""
		if len(parts) >= 2 {
			sessID = parts[1]
		}
		records = append(records, RecordFile{
			Name:      f.Name(),
			Size:      info.Size(),
			Time:      info.ModTime(),
			SessionID: sessID,
		})
	}

	// Sort by time desc
	sort.Slice(records, func(i, j int) bool {
		return records[i].Time.After(records[j].Time)
	})
	return records, nil
}

func printRecords(w io.Writer, records []RecordFile) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No recordings found. Run `snake -record` to create one.")
		return
	}
	fmt.Fprintln(w, "📼 Replay Library")
	for _, r := range records {
		fmt.Fprintf(w, "  %-40s session %-8s %7d bytes  %s\n",
			r.Name, r.SessionID, r.Size, r.Time.Format("2006-01-02 15:04:05"))
	}
}
