package halink

import (
	"context"

	"github.com/maxpoletaev/hax/health"
)

// Transport is the underlying HA link implementation. A transport maintains a
// number of links, one per remote peer, and delivers notes over them.
type Transport interface {
	// Links returns the contexts of currently open links.
	Links() []uint64

	// Send hands the notes over to the link identified by id.LinkCtx. It must not
	// wait for the remote side: the acknowledgment, if any, is reported later
	// through the delivery callback. An error means the message has not left.
	Send(ctx context.Context, id MessageID, notes []health.Note) error

	// OnDelivered sets the callback invoked with the ids of acknowledged messages.
	// The callback may be invoked concurrently and with any batch size.
	OnDelivered(func(ids ...MessageID))
}
