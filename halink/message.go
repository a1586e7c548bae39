package halink

import "fmt"

// MessageID identifies exactly one message sent over exactly one link. LinkCtx
// is the link instance, Tag is the sequence number of the message on that link.
type MessageID struct {
	LinkCtx uint64
	Tag     uint64
}

func (id MessageID) String() string {
	return fmt.Sprintf("MessageID(0x%x, %d)", id.LinkCtx, id.Tag)
}
