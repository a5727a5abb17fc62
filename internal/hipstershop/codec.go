package hipstershop

import (
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
	grpcproto "google.golang.org/grpc/encoding/proto"
	"google.golang.org/grpc/mem"
)

// Codec marshals hipstershop messages itself and hands every other message
// (health checks, reflection) to the registered protobuf codec. It keeps the
// "proto" name so peers see a standard application/grpc+proto content type.
type Codec struct{}

var _ encoding.CodecV2 = Codec{}

func (Codec) Name() string { return grpcproto.Name }

func (Codec) Marshal(v any) (mem.BufferSlice, error) {
	if m, ok := v.(wireMessage); ok {
		return mem.BufferSlice{mem.SliceBuffer(encode(m))}, nil
	}
	return protoCodec().Marshal(v)
}

func (Codec) Unmarshal(data mem.BufferSlice, v any) error {
	if m, ok := v.(wireMessage); ok {
		if err := decode(data.Materialize(), m); err != nil {
			return fmt.Errorf("unmarshal %T: %w", v, err)
		}
		return nil
	}
	return protoCodec().Unmarshal(data, v)
}

func protoCodec() encoding.CodecV2 {
	return encoding.GetCodecV2(grpcproto.Name)
}

// ServerOption installs Codec on a gRPC server.
func ServerOption() grpc.ServerOption {
	return grpc.ForceServerCodecV2(Codec{})
}

// DialOption makes every call on a client connection use Codec.
func DialOption() grpc.DialOption {
	return grpc.WithDefaultCallOptions(grpc.ForceCodecV2(Codec{}))
}
