package proto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/trytobebee/snake_classic/pkg/game"
)

func TestSnapshotRoundTrip(t *testing.T) {
	crash := game.Point{X: 10, Y: -1}
	in := game.Snapshot{
		Phase:        game.PhaseGameOver,
		Snake:        []game.Point{{X: 10, Y: 0}, {X: 10, Y: 1}, {X: 10, Y: 2}},
		Direction:    game.Left,
		Food:         game.Point{X: 3, Y: 17},
		Score:        12,
		HighScore:    30,
		NewHighScore: true,
		FoodEaten:    12,
		TickInterval: 90 * time.Millisecond,
		Tick:         431,
		Width:        20,
		Height:       20,
		CrashPoint:   &crash,
	}

	b, err := MarshalSnapshot(in)
	require.NoError(t, err)
	out, err := UnmarshalSnapshot(b)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestSnapshotZeroValues(t *testing.T) {
	in := game.Snapshot{Phase: game.PhaseMenu, Direction: game.Up, Width: 5, Height: 5}
	b, err := MarshalSnapshot(in)
	require.NoError(t, err)
	out, err := UnmarshalSnapshot(b)
	require.NoError(t, err)
	assert.Nil(t, out.CrashPoint)
	assert.Empty(t, out.Snake)
	assert.Equal(t, game.PhaseMenu, out.Phase)
	assert.Equal(t, game.Point{}, out.Food)
}

func TestConfigRoundTrip(t *testing.T) {
	in := game.GameConfig{Width: 32, Height: 24, Walls: "solid", InitialTick: 150, MinTick: 60}
	b, err := MarshalConfig(in)
	require.NoError(t, err)
	out, err := UnmarshalConfig(b)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestServerMessageCarriesBoth(t *testing.T) {
	cfg := game.GameConfig{Width: 20, Height: 20, Walls: "wrap"}
	state := game.Snapshot{Phase: game.PhasePlaying, Direction: game.Up, Score: 4}
	b, err := MarshalServerMessage("state", &cfg, &state)
	require.NoError(t, err)

	gotType, gotConfig, gotSnapshot, err := UnmarshalServerMessage(b)
	require.NoError(t, err)
	assert.Equal(t, "state", gotType)
	require.NotNil(t, gotConfig)
	assert.Equal(t, cfg, *gotConfig)
	require.NotNil(t, gotSnapshot)
	assert.Equal(t, game.PhasePlaying, gotSnapshot.Phase)

	// Walk the frame by hand to pin the field numbers clients rely on
	var typ string
	var gotCfg game.GameConfig
	var gotState game.Snapshot
	for len(b) > 0 {
		num, wt, n := protowire.ConsumeTag(b)
		require.Greater(t, n, 0)
		require.Equal(t, protowire.BytesType, wt)
		b = b[n:]
		v, m := protowire.ConsumeBytes(b)
		require.Greater(t, m, 0)
		b = b[m:]

		switch num {
		case 1:
			typ = string(v)
		case 2:
			gotCfg, err = UnmarshalConfig(v)
		case 3:
			gotState, err = UnmarshalSnapshot(v)
		}
		require.NoError(t, err)
	}

	assert.Equal(t, "state", typ)
	assert.Equal(t, cfg, gotCfg)
	assert.Equal(t, 4, gotState.Score)
}

func TestUnknownFieldsSkipped(t *testing.T) {
	b, err := MarshalSnapshot(game.Snapshot{Phase: game.PhasePaused, Direction: game.Down, Score: 2})
	require.NoError(t, err)
	b = protowire.AppendTag(b, 99, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, 7)
	b = protowire.AppendTag(b, 100, protowire.BytesType)
	b = protowire.AppendString(b, "future")

	out, err := UnmarshalSnapshot(b)
	require.NoError(t, err)
	assert.Equal(t, game.PhasePaused, out.Phase)
	assert.Equal(t, 2, out.Score)
}

func TestTruncatedInput(t *testing.T) {
	b, err := MarshalSnapshot(game.Snapshot{Phase: game.PhasePlaying, Direction: game.Up, Snake: []game.Point{{X: 1, Y: 2}}})
	require.NoError(t, err)
	_, err = UnmarshalSnapshot(b[:len(b)-1])
	assert.Error(t, err)
}
