package halink

import (
	"fmt"
	"strings"
	"sync"

	"github.com/maxpoletaev/hax/internal/set"
)

// Promise tracks a batch of messages that have been sent but not yet
// acknowledged. It only ever shrinks: once empty, it stays empty. All methods
// are safe for concurrent use, and a batch of exclusions is applied atomically.
type Promise struct {
	mut sync.RWMutex
	ids set.Set[MessageID]
}

// NewPromise creates a promise waiting for the given messages. Duplicates count once.
func NewPromise(ids []MessageID) *Promise {
	return &Promise{
		ids: set.FromSlice(ids),
	}
}

// ExcludeIDs marks the given messages as acknowledged. Messages that are not
// part of the promise, or have already been acknowledged, are ignored.
func (p *Promise) ExcludeIDs(ids []MessageID) {
	p.mut.Lock()
	p.ids.RemoveAll(ids)
	p.mut.Unlock()
}

// IsEmpty returns true once every message of the batch is acknowledged.
func (p *Promise) IsEmpty() bool {
	p.mut.RLock()
	defer p.mut.RUnlock()

	return p.ids.Len() == 0
}

// Contains returns true if the message is still waiting for acknowledgment.
func (p *Promise) Contains(id MessageID) bool {
	p.mut.RLock()
	defer p.mut.RUnlock()

	return p.ids.Has(id)
}

func (p *Promise) String() string {
	p.mut.RLock()
	ids := p.ids.Values()
	p.mut.RUnlock()

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}

	return fmt.Sprintf("Promise{%s}", strings.Join(parts, ", "))
}
