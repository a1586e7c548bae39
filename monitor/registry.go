package monitor

import (
	"encoding/binary"
	"sort"
	"sync"

	"github.com/twmb/murmur3"

	"github.com/maxpoletaev/hax/fid"
	"github.com/maxpoletaev/hax/health"
)

type registryShard struct {
	mut    sync.RWMutex
	states map[fid.Fid]health.Status
}

// Registry holds the latest known status of every object. Objects are spread
// over a fixed number of shards by the hash of their fid.
type Registry struct {
	shards []*registryShard
}

func NewRegistry(shards int) *Registry {
	if shards < 1 {
		shards = 1
	}

	r := &Registry{
		shards: make([]*registryShard, shards),
	}

	for i := range r.shards {
		r.shards[i] = &registryShard{
			states: make(map[fid.Fid]health.Status),
		}
	}

	return r
}

func (r *Registry) shardIndex(id fid.Fid) int {
	var buf [16]byte

	binary.BigEndian.PutUint64(buf[:8], id.Container)
	binary.BigEndian.PutUint64(buf[8:], id.Key)

	return int(murmur3.Sum32(buf[:]) % uint32(len(r.shards)))
}

func (r *Registry) shard(id fid.Fid) *registryShard {
	return r.shards[r.shardIndex(id)]
}

// Set stores the status and returns the previous one. The changed flag is
// false if the object already had the same status.
func (r *Registry) Set(id fid.Fid, status health.Status) (prev health.Status, changed bool) {
	s := r.shard(id)

	s.mut.Lock()
	defer s.mut.Unlock()

	prev, known := s.states[id]
	s.states[id] = status

	return prev, !known || prev != status
}

// Get returns the status of the object, if it is known.
func (r *Registry) Get(id fid.Fid) (health.Status, bool) {
	s := r.shard(id)

	s.mut.RLock()
	defer s.mut.RUnlock()

	status, ok := s.states[id]

	return status, ok
}

// All returns the states of all known objects ordered by fid.
func (r *Registry) All() []health.HAState {
	var states []health.HAState

	for _, s := range r.shards {
		s.mut.RLock()

		for id, status := range s.states {
			states = append(states, health.HAState{Fid: id, Status: status})
		}

		s.mut.RUnlock()
	}

	sort.Slice(states, func(i, j int) bool {
		return states[i].Fid.Less(states[j].Fid)
	})

	return states
}

func (r *Registry) Len() int {
	n := 0

	for _, s := range r.shards {
		s.mut.RLock()
		n += len(s.states)
		s.mut.RUnlock()
	}

	return n
}
