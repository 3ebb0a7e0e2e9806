package highscore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFileStoreMissingFile(t *testing.T) {
	s := NewJSONFileStore(filepath.Join(t.TempDir(), "nope.json"))
	r, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, Record{}, r)
}

func TestJSONFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.json")
	require.NoError(t, os.WriteFile(path, []byte("{high_score:"), 0644))

	_, err := NewJSONFileStore(path).Load()
	assert.Error(t, err)

	// The manager falls back to zero
	logger, _ := quietLogger()
	assert.Equal(t, 0, NewManager(NewJSONFileStore(path), logger).HighScore())
}

func TestJSONFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "scores.json")
	s := NewJSONFileStore(path)
	want := Record{HighScore: 42, LastGameScore: 7, TotalGames: 12}

	require.NoError(t, s.Save(want))
	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"high_score": 42`)
	assert.NoFileExists(t, path+".tmp")
}
