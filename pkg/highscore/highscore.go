// Package highscore keeps the best score and game statistics across runs.
// Storage errors never reach gameplay: Manager logs them and carries on.
package highscore

import (
	"log"
	"sync"
)

// Record is the persisted statistics block
type Record struct {
	HighScore     int `json:"high_score"`
	LastGameScore int `json:"last_game_score"`
	TotalGames    int `json:"total_games"`
}

// Store loads and saves a Record
type Store interface {
	Load() (Record, error)
	Save(Record) error
}

// Manager applies game results to a Record and persists it best-effort
type Manager struct {
	mu     sync.Mutex
	store  Store
	stats  Record
	logger *log.Logger
}

// NewManager loads the stored record, starting from zero if it cannot be read
func NewManager(store Store, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	m := &Manager{store: store, logger: logger}
	stats, err := store.Load()
	if err != nil {
		logger.Printf("highscore: using empty stats, load failed: %v", err)
		stats = Record{}
	}
	m.stats = stats
	return m
}

// HighScore returns the best score seen so far
func (m *Manager) HighScore() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats.HighScore
}

// UpdateScore raises the high score if score beats it and reports whether it did
func (m *Manager) UpdateScore(score int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if score <= m.stats.HighScore {
		return false
	}
	m.stats.HighScore = score
	m.save()
	return true
}

// UpdateLastGameScore records the final score and counts the game
func (m *Manager) UpdateLastGameScore(score int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.LastGameScore = score
	m.stats.TotalGames++
	m.save()
}

// RecordGame applies a finished game in one save and reports a new high score
func (m *Manager) RecordGame(score int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	isNewHigh := score > m.stats.HighScore
	if isNewHigh {
		m.stats.HighScore = score
	}
	m.stats.LastGameScore = score
	m.stats.TotalGames++
	m.save()
	return isNewHigh
}

// Stats returns a copy of the current record
func (m *Manager) Stats() Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// Reset clears all statistics
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats = Record{}
	m.save()
}

// save must be called with mu held
func (m *Manager) save() {
	if err := m.store.Save(m.stats); err != nil {
		m.logger.Printf("highscore: save failed, keeping stats in memory: %v", err)
	}
}

// MemoryStore keeps the record in process memory
type MemoryStore struct {
	mu     sync.Mutex
	record Record
	saves  int
}

// NewMemoryStore creates a store pre-loaded with r
func NewMemoryStore(r Record) *MemoryStore {
	return &MemoryStore{record: r}
}

// Load returns the stored record
func (s *MemoryStore) Load() (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record, nil
}

// Save replaces the stored record
func (s *MemoryStore) Save(r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = r
	s.saves++
	return nil
}

// Saves returns how many times Save was called
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
