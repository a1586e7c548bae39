package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/maxpoletaev/hax/fid"
	"github.com/maxpoletaev/hax/health"
)

func TestNotifyRequest_Roundtrip(t *testing.T) {
	req := &NotifyRequest{
		Tag: 42,
		Notes: []*Note{
			{Container: 0x7200000000000001, Key: 0x15, State: 1},
			{Container: 0x6e00000000000001, Key: 0x3, State: 3},
		},
	}

	data, err := req.Marshal()
	require.NoError(t, err)

	got := &NotifyRequest{}
	require.NoError(t, got.Unmarshal(data))
	assert.Equal(t, req, got)
}

func TestNotifyRequest_Empty(t *testing.T) {
	data, err := (&NotifyRequest{}).Marshal()
	require.NoError(t, err)

	got := &NotifyRequest{Tag: 5}
	require.NoError(t, got.Unmarshal(data))
	assert.Equal(t, uint64(0), got.Tag)
	assert.Empty(t, got.Notes)
}

func TestProcessEventRequest_Roundtrip(t *testing.T) {
	req := &ProcessEventRequest{
		Container: 0x7200000000000001,
		Key:       0x15,
		Event:     1,
		Type:      3,
		Pid:       4242,
	}

	data, err := req.Marshal()
	require.NoError(t, err)

	got := &ProcessEventRequest{}
	require.NoError(t, got.Unmarshal(data))
	assert.Equal(t, req, got)
}

func TestUnmarshal_SkipsUnknownFields(t *testing.T) {
	data, err := (&NotifyResponse{Tag: 7}).Marshal()
	require.NoError(t, err)

	data = protowire.AppendTag(data, 9, protowire.BytesType)
	data = protowire.AppendString(data, "future field")
	data = protowire.AppendTag(data, 10, protowire.VarintType)
	data = protowire.AppendVarint(data, 100)

	got := &NotifyResponse{}
	require.NoError(t, got.Unmarshal(data))
	assert.Equal(t, uint64(7), got.Tag)
}

func TestUnmarshal_Malformed(t *testing.T) {
	tests := map[string][]byte{
		"truncated tag":     {0x80},
		"truncated fixed64": {0x09, 0x01, 0x02},
		"truncated bytes":   {0x12, 0x05, 0x01},
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			err := (&NotifyRequest{}).Unmarshal(data)
			assert.Error(t, err)
		})
	}
}

func TestUnmarshal_MalformedNestedNote(t *testing.T) {
	var data []byte
	data = protowire.AppendTag(data, 2, protowire.BytesType)
	data = protowire.AppendBytes(data, []byte{0x09, 0x01})

	err := (&NotifyRequest{}).Unmarshal(data)
	assert.Error(t, err)
}

func TestUnmarshal_Uint32Overflow(t *testing.T) {
	tests := map[string]struct {
		field protowire.Number
		msg   Message
	}{
		"event": {field: 3, msg: &ProcessEventRequest{}},
		"type":  {field: 4, msg: &ProcessEventRequest{}},
		"state": {field: 1, msg: &ProcessEventResponse{}},
		"note":  {field: 3, msg: &Note{}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var data []byte
			data = protowire.AppendTag(data, tt.field, protowire.VarintType)
			data = protowire.AppendVarint(data, 1<<32+1)

			err := tt.msg.Unmarshal(data)
			assert.ErrorIs(t, err, ErrOverflow)
		})
	}
}

func TestUnmarshal_Uint32Max(t *testing.T) {
	var data []byte
	data = protowire.AppendTag(data, 3, protowire.VarintType)
	data = protowire.AppendVarint(data, 1<<32-1)

	req := &ProcessEventRequest{}
	require.NoError(t, req.Unmarshal(data))
	assert.Equal(t, uint32(1<<32-1), req.Event)
}

func TestConvertNotes(t *testing.T) {
	notes := []health.Note{
		{ID: fid.New(0x7200000000000001, 0x15), State: health.NoteOnline},
		{ID: fid.New(0x6e00000000000001, 0x3), State: health.NoteTransient},
	}

	wn := FromNotes(notes)
	require.Len(t, wn, 2)
	assert.Equal(t, uint64(0x7200000000000001), wn[0].Container)
	assert.Equal(t, uint32(3), wn[1].State)

	assert.Equal(t, notes, ToNotes(wn))
}

func TestCodec(t *testing.T) {
	c := codec{}
	assert.Equal(t, "hawire", c.Name())

	data, err := c.Marshal(&NotifyResponse{Tag: 3})
	require.NoError(t, err)

	resp := &NotifyResponse{}
	require.NoError(t, c.Unmarshal(data, resp))
	assert.Equal(t, uint64(3), resp.Tag)

	_, err = c.Marshal("not a message")
	assert.Error(t, err)

	err = c.Unmarshal(data, new(int))
	assert.Error(t, err)
}
