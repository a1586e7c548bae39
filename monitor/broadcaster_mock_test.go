package monitor

import (
	"context"
	"sync"

	"github.com/maxpoletaev/hax/health"
)

type broadcasterMock struct {
	mut     sync.Mutex
	err     error
	batches [][]health.HAState
}

func (b *broadcasterMock) BroadcastAndWait(ctx context.Context, states []health.HAState) error {
	b.mut.Lock()
	defer b.mut.Unlock()

	if b.err != nil {
		return b.err
	}

	b.batches = append(b.batches, append([]health.HAState(nil), states...))

	return nil
}

func (b *broadcasterMock) Batches() [][]health.HAState {
	b.mut.Lock()
	defer b.mut.Unlock()

	return append([][]health.HAState(nil), b.batches...)
}
