package proto

import (
	"fmt"

	gproto "google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

// Message descriptors of snapshot.proto
var (
	pointType         protoreflect.MessageDescriptor
	snapshotType      protoreflect.MessageDescriptor
	configType        protoreflect.MessageDescriptor
	serverMessageType protoreflect.MessageDescriptor
)

type fieldSpec struct {
	name     string
	number   int32
	kind     descriptorpb.FieldDescriptorProto_Type
	message  string // Type name for message fields
	repeated bool
}

const (
	typeString  = descriptorpb.FieldDescriptorProto_TYPE_STRING
	typeInt32   = descriptorpb.FieldDescriptorProto_TYPE_INT32
	typeInt64   = descriptorpb.FieldDescriptorProto_TYPE_INT64
	typeUint64  = descriptorpb.FieldDescriptorProto_TYPE_UINT64
	typeSint32  = descriptorpb.FieldDescriptorProto_TYPE_SINT32
	typeBool    = descriptorpb.FieldDescriptorProto_TYPE_BOOL
	typeMessage = descriptorpb.FieldDescriptorProto_TYPE_MESSAGE
)

func messageProto(name string, fields ...fieldSpec) *descriptorpb.DescriptorProto {
	m := &descriptorpb.DescriptorProto{Name: gproto.String(name)}
	for _, f := range fields {
		label := descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL
		if f.repeated {
			label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED
		}
		fd := &descriptorpb.FieldDescriptorProto{
			Name:   gproto.String(f.name),
			Number: gproto.Int32(f.number),
			Label:  label.Enum(),
			Type:   f.kind.Enum(),
		}
		if f.message != "" {
			fd.TypeName = gproto.String(".snake." + f.message)
		}
		m.Field = append(m.Field, fd)
	}
	return m
}

// snapshotFile mirrors snapshot.proto field for field
func snapshotFile() *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:    gproto.String("snapshot.proto"),
		Package: gproto.String("snake"),
		Syntax:  gproto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			messageProto("Point",
				fieldSpec{name: "x", number: 1, kind: typeSint32},
				fieldSpec{name: "y", number: 2, kind: typeSint32},
			),
			messageProto("GameStateSnapshot",
				fieldSpec{name: "phase", number: 1, kind: typeString},
				fieldSpec{name: "snake", number: 2, kind: typeMessage, message: "Point", repeated: true},
				fieldSpec{name: "direction", number: 3, kind: typeString},
				fieldSpec{name: "food", number: 4, kind: typeMessage, message: "Point"},
				fieldSpec{name: "score", number: 5, kind: typeInt32},
				fieldSpec{name: "high_score", number: 6, kind: typeInt32},
				fieldSpec{name: "new_high_score", number: 7, kind: typeBool},
				fieldSpec{name: "food_eaten", number: 8, kind: typeInt32},
				fieldSpec{name: "tick_interval_ms", number: 9, kind: typeInt64},
				fieldSpec{name: "tick", number: 10, kind: typeUint64},
				fieldSpec{name: "width", number: 11, kind: typeInt32},
				fieldSpec{name: "height", number: 12, kind: typeInt32},
				fieldSpec{name: "crash_point", number: 13, kind: typeMessage, message: "Point"},
			),
			messageProto("GameConfig",
				fieldSpec{name: "width", number: 1, kind: typeInt32},
				fieldSpec{name: "height", number: 2, kind: typeInt32},
				fieldSpec{name: "walls", number: 3, kind: typeString},
				fieldSpec{name: "initial_tick_ms", number: 4, kind: typeInt32},
				fieldSpec{name: "min_tick_ms", number: 5, kind: typeInt32},
			),
			messageProto("ServerMessage",
				fieldSpec{name: "type", number: 1, kind: typeString},
				fieldSpec{name: "config", number: 2, kind: typeMessage, message: "GameConfig"},
				fieldSpec{name: "state", number: 3, kind: typeMessage, message: "GameStateSnapshot"},
			),
		},
	}
}

func init() {
	fd, err := protodesc.NewFile(snapshotFile(), new(protoregistry.Files))
	if err != nil {
		panic(fmt.Sprintf("proto: invalid snapshot.proto descriptor: %v", err))
	}
	msgs := fd.Messages()
	pointType = msgs.ByName("Point")
	snapshotType = msgs.ByName("GameStateSnapshot")
	configType = msgs.ByName("GameConfig")
	serverMessageType = msgs.ByName("ServerMessage")
}
