package game

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderRoundTrip(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewRecorder(dir, "test")
	require.NoError(t, err)
	assert.Contains(t, rec.Path(), "game_test_")

	g := newTestGame(t, nil)
	g.Handle(Start)
	cmd := Turn(Left)
	g.Handle(cmd)
	rec.Record(g.Snapshot(), &cmd)
	g.Tick()
	rec.Record(g.Snapshot(), nil)
	require.NoError(t, rec.Close())

	// Recording after close is a no-op
	rec.Record(g.Snapshot(), nil)
	require.NoError(t, rec.Close())

	f, err := os.Open(rec.Path())
	require.NoError(t, err)
	defer f.Close()

	steps, err := ReadRecords(f)
	require.NoError(t, err)
	require.Len(t, steps, 2)

	assert.Equal(t, uint64(1), steps[0].Step)
	require.NotNil(t, steps[0].Command)
	assert.Equal(t, cmd, *steps[0].Command)
	assert.Nil(t, steps[1].Command)
	assert.Equal(t, PhasePlaying, steps[1].State.Phase)
	assert.Equal(t, g.Snapshot().Snake, steps[1].State.Snake)
	assert.Equal(t, g.Snapshot().TickInterval, steps[1].State.TickInterval)
}

func TestReadRecordsSkipsBadLines(t *testing.T) {
	input := strings.Join([]string{
		`{"step":1,"state":{"phase":"menu","direction":"up","width":5,"height":5}}`,
		`not json`,
		``,
		`{"step":2,"state":{"phase":"game_over","direction":"left","score":3}}`,
	}, "\n")

	steps, err := ReadRecords(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, PhaseMenu, steps[0].State.Phase)
	assert.Equal(t, PhaseGameOver, steps[1].State.Phase)
	assert.Equal(t, Left, steps[1].State.Direction)
	assert.Equal(t, 3, steps[1].State.Score)
}
