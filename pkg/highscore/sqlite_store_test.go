package highscore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "game.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStoreEmpty(t *testing.T) {
	s := openTestDB(t)
	r, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, Record{}, r)

	sessions, err := s.RecentSessions(5)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestSQLiteStoreThroughManager(t *testing.T) {
	s := openTestDB(t)
	logger, buf := quietLogger()
	m := NewManager(s, logger)

	m.RecordGame(5)
	m.RecordGame(12)
	m.RecordGame(8)
	m.UpdateScore(20) // Does not count a game
	require.Empty(t, buf.String())

	r, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, Record{HighScore: 20, LastGameScore: 8, TotalGames: 3}, r)

	sessions, err := s.RecentSessions(2)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, 8, sessions[0].Score)
	assert.Equal(t, 12, sessions[1].Score)
	assert.Greater(t, sessions[0].ID, sessions[1].ID)
}

func TestSQLiteStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(Record{HighScore: 3, LastGameScore: 3, TotalGames: 1}))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	r, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 3, r.HighScore)
}

func TestSQLiteSaveRecordSkipsHistory(t *testing.T) {
	s := openTestDB(t)
	require.NoError(t, s.SaveRecord(Record{HighScore: 30, LastGameScore: 12, TotalGames: 8}))

	r, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 8, r.TotalGames)

	sessions, err := s.RecentSessions(10)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	// A played game on top still lands in the history
	require.NoError(t, s.Save(Record{HighScore: 30, LastGameScore: 4, TotalGames: 9}))
	sessions, err = s.RecentSessions(10)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, 4, sessions[0].Score)
}

func TestSQLiteImportOncePerSource(t *testing.T) {
	s := openTestDB(t)
	addGames := func(cur Record) Record {
		cur.TotalGames += 5
		if cur.HighScore < 20 {
			cur.HighScore = 20
		}
		return cur
	}

	r, imported, err := s.Import("legacy-a", addGames)
	require.NoError(t, err)
	assert.True(t, imported)
	assert.Equal(t, Record{HighScore: 20, TotalGames: 5}, r)

	r, imported, err = s.Import("legacy-a", addGames)
	require.NoError(t, err)
	assert.False(t, imported)
	assert.Equal(t, Record{HighScore: 20, TotalGames: 5}, r)

	r, imported, err = s.Import("legacy-b", addGames)
	require.NoError(t, err)
	assert.True(t, imported)
	assert.Equal(t, 10, r.TotalGames)

	sessions, err := s.RecentSessions(10)
	require.NoError(t, err)
	assert.Empty(t, sessions, "imported games are not sessions")
}
