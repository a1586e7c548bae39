package halink

import (
	"context"
	"sync"

	"github.com/maxpoletaev/hax/health"
)

type sentMessage struct {
	ID    MessageID
	Notes []health.Note
}

// transportMock records sent messages. Links listed in failing refuse to send,
// and with autoAck set every message is acknowledged before Send returns.
type transportMock struct {
	mut       sync.Mutex
	links     []uint64
	failing   map[uint64]bool
	autoAck   bool
	sent      []sentMessage
	delivered func(ids ...MessageID)
}

func (t *transportMock) Links() []uint64 {
	return t.links
}

func (t *transportMock) Send(ctx context.Context, id MessageID, notes []health.Note) error {
	if t.failing[id.LinkCtx] {
		return assertErr
	}

	t.mut.Lock()
	t.sent = append(t.sent, sentMessage{ID: id, Notes: notes})
	t.mut.Unlock()

	if t.autoAck {
		t.delivered(id)
	}

	return nil
}

func (t *transportMock) OnDelivered(f func(ids ...MessageID)) {
	t.delivered = f
}

func (t *transportMock) Sent() []sentMessage {
	t.mut.Lock()
	defer t.mut.Unlock()

	return append([]sentMessage(nil), t.sent...)
}

func (t *transportMock) SentIDs() []MessageID {
	sent := t.Sent()

	ids := make([]MessageID, len(sent))
	for i, m := range sent {
		ids[i] = m.ID
	}

	return ids
}
