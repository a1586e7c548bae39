package wire

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Note is the native HA note: an object identity and its state code.
type Note struct {
	Container uint64 // 1, fixed64
	Key       uint64 // 2, fixed64
	State     uint32 // 3, varint
}

func (m *Note) appendTo(b []byte) []byte {
	b = protowire.AppendTag(b, 1, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, m.Container)
	b = protowire.AppendTag(b, 2, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, m.Key)
	b = protowire.AppendTag(b, 3, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(m.State))

	return b
}

func (m *Note) Marshal() ([]byte, error) {
	return m.appendTo(nil), nil
}

func (m *Note) Unmarshal(b []byte) error {
	*m = Note{}

	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool, error) {
		switch {
		case num == 1 && typ == protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(b)
			m.Container = v
			return n, true, nil
		case num == 2 && typ == protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(b)
			m.Key = v
			return n, true, nil
		case num == 3 && typ == protowire.VarintType:
			v, n, err := consumeUint32(b)
			m.State = v
			return n, true, err
		}

		return 0, false, nil
	})
}

// NotifyRequest carries a batch of notes sent over a link. Tag is echoed back
// in the response to acknowledge the batch.
type NotifyRequest struct {
	Tag   uint64  // 1, varint
	Notes []*Note // 2, repeated message
}

func (m *NotifyRequest) Marshal() ([]byte, error) {
	var b []byte

	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, m.Tag)

	for _, note := range m.Notes {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, note.appendTo(nil))
	}

	return b, nil
}

func (m *NotifyRequest) Unmarshal(b []byte) error {
	*m = NotifyRequest{}

	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool, error) {
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			m.Tag = v
			return n, true, nil
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, true, nil
			}

			note := &Note{}
			if err := note.Unmarshal(v); err != nil {
				return 0, true, fmt.Errorf("note %d: %w", len(m.Notes), err)
			}

			m.Notes = append(m.Notes, note)

			return n, true, nil
		}

		return 0, false, nil
	})
}

// NotifyResponse acknowledges the request with the same tag.
type NotifyResponse struct {
	Tag uint64 // 1, varint
}

func (m *NotifyResponse) Marshal() ([]byte, error) {
	b := protowire.AppendTag(nil, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, m.Tag)

	return b, nil
}

func (m *NotifyResponse) Unmarshal(b []byte) error {
	*m = NotifyResponse{}

	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool, error) {
		if num == 1 && typ == protowire.VarintType {
			v, n := protowire.ConsumeVarint(b)
			m.Tag = v
			return n, true, nil
		}

		return 0, false, nil
	})
}

// ProcessEventRequest reports a lifecycle event of a single process.
type ProcessEventRequest struct {
	Container uint64 // 1, fixed64
	Key       uint64 // 2, fixed64
	Event     uint32 // 3, varint
	Type      uint32 // 4, varint
	Pid       uint64 // 5, varint
}

func (m *ProcessEventRequest) Marshal() ([]byte, error) {
	var b []byte

	b = protowire.AppendTag(b, 1, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, m.Container)
	b = protowire.AppendTag(b, 2, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, m.Key)
	b = protowire.AppendTag(b, 3, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(m.Event))
	b = protowire.AppendTag(b, 4, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(m.Type))
	b = protowire.AppendTag(b, 5, protowire.VarintType)
	b = protowire.AppendVarint(b, m.Pid)

	return b, nil
}

func (m *ProcessEventRequest) Unmarshal(b []byte) error {
	*m = ProcessEventRequest{}

	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool, error) {
		switch {
		case num == 1 && typ == protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(b)
			m.Container = v
			return n, true, nil
		case num == 2 && typ == protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(b)
			m.Key = v
			return n, true, nil
		case num == 3 && typ == protowire.VarintType:
			v, n, err := consumeUint32(b)
			m.Event = v
			return n, true, err
		case num == 4 && typ == protowire.VarintType:
			v, n, err := consumeUint32(b)
			m.Type = v
			return n, true, err
		case num == 5 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			m.Pid = v
			return n, true, nil
		}

		return 0, false, nil
	})
}

// ProcessEventResponse returns the note state published for the process.
type ProcessEventResponse struct {
	State uint32 // 1, varint
}

func (m *ProcessEventResponse) Marshal() ([]byte, error) {
	b := protowire.AppendTag(nil, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(m.State))

	return b, nil
}

func (m *ProcessEventResponse) Unmarshal(b []byte) error {
	*m = ProcessEventResponse{}

	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool, error) {
		if num == 1 && typ == protowire.VarintType {
			v, n, err := consumeUint32(b)
			m.State = v
			return n, true, err
		}

		return 0, false, nil
	})
}

// ErrOverflow is returned for a varint that does not fit its 32-bit field.
var ErrOverflow = errors.New("varint overflows uint32")

func consumeUint32(b []byte) (uint32, int, error) {
	v, n := protowire.ConsumeVarint(b)
	if n >= 0 && v > math.MaxUint32 {
		return 0, n, fmt.Errorf("%w: %d", ErrOverflow, v)
	}

	return uint32(v), n, nil
}

// consumeFields walks over the fields of a message and hands each of them to
// consume, which returns the number of bytes it has read and whether it knows
// the field. Unknown fields are skipped.
func consumeFields(b []byte, consume func(protowire.Number, protowire.Type, []byte) (int, bool, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}

		b = b[n:]

		n, known, err := consume(num, typ, b)
		if err != nil {
			return err
		}

		if !known {
			n = protowire.ConsumeFieldValue(num, typ, b)
		}

		if n < 0 {
			return protowire.ParseError(n)
		}

		b = b[n:]
	}

	return nil
}
