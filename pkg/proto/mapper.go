// Package proto maps game snapshots onto the protobuf messages described by
// snapshot.proto and encodes them for binary websocket frames.
package proto

import (
	"fmt"
	"time"

	gproto "google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/trytobebee/snake_classic/pkg/game"
)

var marshalOptions = gproto.MarshalOptions{Deterministic: true}

func set(m protoreflect.Message, name protoreflect.Name, v protoreflect.Value) {
	m.Set(m.Descriptor().Fields().ByName(name), v)
}

func get(m protoreflect.Message, name protoreflect.Name) protoreflect.Value {
	return m.Get(m.Descriptor().Fields().ByName(name))
}

func has(m protoreflect.Message, name protoreflect.Name) bool {
	return m.Has(m.Descriptor().Fields().ByName(name))
}

func toProtoPoint(p game.Point) protoreflect.Message {
	m := dynamicpb.NewMessage(pointType)
	set(m, "x", protoreflect.ValueOfInt32(int32(p.X)))
	set(m, "y", protoreflect.ValueOfInt32(int32(p.Y)))
	return m
}

func fromProtoPoint(m protoreflect.Message) game.Point {
	return game.Point{X: int(get(m, "x").Int()), Y: int(get(m, "y").Int())}
}

// ToProtoSnapshot converts a snapshot into a GameStateSnapshot message
func ToProtoSnapshot(s game.Snapshot) *dynamicpb.Message {
	m := dynamicpb.NewMessage(snapshotType)
	set(m, "phase", protoreflect.ValueOfString(s.Phase.String()))

	snake := m.Mutable(m.Descriptor().Fields().ByName("snake")).List()
	for _, p := range s.Snake {
		snake.Append(protoreflect.ValueOfMessage(toProtoPoint(p)))
	}

	set(m, "direction", protoreflect.ValueOfString(s.Direction.String()))
	set(m, "food", protoreflect.ValueOfMessage(toProtoPoint(s.Food)))
	set(m, "score", protoreflect.ValueOfInt32(int32(s.Score)))
	set(m, "high_score", protoreflect.ValueOfInt32(int32(s.HighScore)))
	set(m, "new_high_score", protoreflect.ValueOfBool(s.NewHighScore))
	set(m, "food_eaten", protoreflect.ValueOfInt32(int32(s.FoodEaten)))
	set(m, "tick_interval_ms", protoreflect.ValueOfInt64(s.TickInterval.Milliseconds()))
	set(m, "tick", protoreflect.ValueOfUint64(s.Tick))
	set(m, "width", protoreflect.ValueOfInt32(int32(s.Width)))
	set(m, "height", protoreflect.ValueOfInt32(int32(s.Height)))
	if s.CrashPoint != nil {
		set(m, "crash_point", protoreflect.ValueOfMessage(toProtoPoint(*s.CrashPoint)))
	}
	return m
}

// FromProtoSnapshot converts a GameStateSnapshot message back into a snapshot
func FromProtoSnapshot(m protoreflect.Message) (game.Snapshot, error) {
	var s game.Snapshot
	if has(m, "phase") {
		if err := s.Phase.UnmarshalText([]byte(get(m, "phase").String())); err != nil {
			return game.Snapshot{}, err
		}
	}
	if has(m, "direction") {
		if err := s.Direction.UnmarshalText([]byte(get(m, "direction").String())); err != nil {
			return game.Snapshot{}, err
		}
	}

	snake := get(m, "snake").List()
	for i := 0; i < snake.Len(); i++ {
		s.Snake = append(s.Snake, fromProtoPoint(snake.Get(i).Message()))
	}

	s.Food = fromProtoPoint(get(m, "food").Message())
	s.Score = int(get(m, "score").Int())
	s.HighScore = int(get(m, "high_score").Int())
	s.NewHighScore = get(m, "new_high_score").Bool()
	s.FoodEaten = int(get(m, "food_eaten").Int())
	s.TickInterval = time.Duration(get(m, "tick_interval_ms").Int()) * time.Millisecond
	s.Tick = get(m, "tick").Uint()
	s.Width = int(get(m, "width").Int())
	s.Height = int(get(m, "height").Int())
	if has(m, "crash_point") {
		p := fromProtoPoint(get(m, "crash_point").Message())
		s.CrashPoint = &p
	}
	return s, nil
}

// ToProtoConfig converts the static game settings into a GameConfig message
func ToProtoConfig(c game.GameConfig) *dynamicpb.Message {
	m := dynamicpb.NewMessage(configType)
	set(m, "width", protoreflect.ValueOfInt32(int32(c.Width)))
	set(m, "height", protoreflect.ValueOfInt32(int32(c.Height)))
	set(m, "walls", protoreflect.ValueOfString(c.Walls))
	set(m, "initial_tick_ms", protoreflect.ValueOfInt32(int32(c.InitialTick)))
	set(m, "min_tick_ms", protoreflect.ValueOfInt32(int32(c.MinTick)))
	return m
}

// FromProtoConfig converts a GameConfig message back into game settings
func FromProtoConfig(m protoreflect.Message) game.GameConfig {
	return game.GameConfig{
		Width:       int(get(m, "width").Int()),
		Height:      int(get(m, "height").Int()),
		Walls:       get(m, "walls").String(),
		InitialTick: int(get(m, "initial_tick_ms").Int()),
		MinTick:     int(get(m, "min_tick_ms").Int()),
	}
}

// ToProtoServerMessage wraps a config and/or state in a ServerMessage
func ToProtoServerMessage(typ string, config *game.GameConfig, state *game.Snapshot) *dynamicpb.Message {
	m := dynamicpb.NewMessage(serverMessageType)
	set(m, "type", protoreflect.ValueOfString(typ))
	if config != nil {
		set(m, "config", protoreflect.ValueOfMessage(ToProtoConfig(*config)))
	}
	if state != nil {
		set(m, "state", protoreflect.ValueOfMessage(ToProtoSnapshot(*state)))
	}
	return m
}

// MarshalSnapshot encodes s as a GameStateSnapshot
func MarshalSnapshot(s game.Snapshot) ([]byte, error) {
	return marshalOptions.Marshal(ToProtoSnapshot(s))
}

// MarshalConfig encodes c as a GameConfig
func MarshalConfig(c game.GameConfig) ([]byte, error) {
	return marshalOptions.Marshal(ToProtoConfig(c))
}

// MarshalServerMessage encodes a ServerMessage frame
func MarshalServerMessage(typ string, config *game.GameConfig, state *game.Snapshot) ([]byte, error) {
	return marshalOptions.Marshal(ToProtoServerMessage(typ, config, state))
}

// UnmarshalSnapshot decodes a GameStateSnapshot
func UnmarshalSnapshot(b []byte) (game.Snapshot, error) {
	m := dynamicpb.NewMessage(snapshotType)
	if err := gproto.Unmarshal(b, m); err != nil {
		return game.Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	s, err := FromProtoSnapshot(m)
	if err != nil {
		return game.Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return s, nil
}

// UnmarshalConfig decodes a GameConfig
func UnmarshalConfig(b []byte) (game.GameConfig, error) {
	m := dynamicpb.NewMessage(configType)
	if err := gproto.Unmarshal(b, m); err != nil {
		return game.GameConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return FromProtoConfig(m), nil
}

// UnmarshalServerMessage decodes a ServerMessage frame
func UnmarshalServerMessage(b []byte) (typ string, config *game.GameConfig, state *game.Snapshot, err error) {
	m := dynamicpb.NewMessage(serverMessageType)
	if err := gproto.Unmarshal(b, m); err != nil {
		return "", nil, nil, fmt.Errorf("failed to decode server message: %w", err)
	}
	typ = get(m, "type").String()
	if has(m, "config") {
		c := FromProtoConfig(get(m, "config").Message())
		config = &c
	}
	if has(m, "state") {
		s, err := FromProtoSnapshot(get(m, "state").Message())
		if err != nil {
			return "", nil, nil, fmt.Errorf("failed to decode server message: %w", err)
		}
		state = &s
	}
	return typ, config, state, nil
}
