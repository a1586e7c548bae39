// Package wire defines the messages exchanged over gRPC by the HA link and the
// HA monitor. Messages are encoded in the protobuf wire format with protowire
// and carried by a dedicated gRPC codec, selected with the "hawire" content
// subtype.
package wire

import (
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content subtype of the codec.
const CodecName = "hawire"

// Message is implemented by all messages of this package.
type Message interface {
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
}

type codec struct{}

func (codec) Marshal(v interface{}) ([]byte, error) {
	msg, ok := v.(Message)
	if !ok {
		return nil, fmt.Errorf("wire: cannot marshal %T", v)
	}

	return msg.Marshal()
}

func (codec) Unmarshal(data []byte, v interface{}) error {
	msg, ok := v.(Message)
	if !ok {
		return fmt.Errorf("wire: cannot unmarshal into %T", v)
	}

	return msg.Unmarshal(data)
}

func (codec) Name() string {
	return CodecName
}

func init() {
	encoding.RegisterCodec(codec{})
}

// CallOption makes a client call use the codec.
func CallOption() grpc.CallOption {
	return grpc.CallContentSubtype(CodecName)
}
