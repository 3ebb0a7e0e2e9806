package game

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// StepRecord is one line of a recorded game
type StepRecord struct {
	Step    uint64    `json:"step"`
	Time    time.Time `json:"time"`
	Command *Command  `json:"command,omitempty"` // Set when the frame was caused by input
	State   Snapshot  `json:"state"`
}

// GameRecorder handles asynchronous logging of game steps
type GameRecorder struct {
	path       string
	file       *os.File
	writer     *bufio.Writer
	recordChan chan StepRecord
	wg         sync.WaitGroup
	mu         sync.Mutex
	closed     bool
	step       uint64
	dropped    int
}

// NewRecorder creates a new recorder that writes to dir.
// Filename format: game_{sessionID}_{timestamp}.jsonl
func NewRecorder(dir, sessionID string) (*GameRecorder, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create records dir: %w", err)
	}

	filename := fmt.Sprintf("game_%s_%d.jsonl", sessionID, time.Now().Unix())
	path := filepath.Join(dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create record file: %w", err)
	}

	r := &GameRecorder{
		path:       path,
		file:       f,
		writer:     bufio.NewWriter(f),
		recordChan: make(chan StepRecord, 1000), // Buffer up to 1000 frames
	}

	r.wg.Add(1)
	go r.writeLoop()

	return r, nil
}

// Path returns the file being written
func (r *GameRecorder) Path() string {
	return r.path
}

// Record queues a snapshot, optionally with the command that produced it.
// Non-blocking: frames are dropped if the writer falls behind.
func (r *GameRecorder) Record(state Snapshot, cmd *Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.step++
	rec := StepRecord{Step: r.step, Time: time.Now(), Command: cmd, State: state}

	select {
	case r.recordChan <- rec:
	default:
		// Never stall the game loop on disk
		r.dropped++
	}
}

// Close flushes the buffer and closes the file
func (r *GameRecorder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	dropped := r.dropped
	close(r.recordChan)
	r.mu.Unlock()

	r.wg.Wait()
	if dropped > 0 {
		log.Printf("recorder: dropped %d frames writing %s", dropped, r.path)
	}
	if err := r.writer.Flush(); err != nil {
		r.file.Close()
		return fmt.Errorf("failed to flush record file: %w", err)
	}
	return r.file.Close()
}

func (r *GameRecorder) writeLoop() {
	defer r.wg.Done()

	encoder := json.NewEncoder(r.writer)
	for rec := range r.recordChan {
		if err := encoder.Encode(rec); err != nil {
			log.Printf("recorder: error recording frame %d: %v", rec.Step, err)
		}
	}
}

// ReadRecords decodes a recorded game, skipping lines that fail to parse
func ReadRecords(r io.Reader) ([]StepRecord, error) {
	var records []StepRecord
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var rec StepRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			log.Printf("recorder: skipping line %d: %v", line, err)
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return records, fmt.Errorf("failed to read records: %w", err)
	}
	return records, nil
}
