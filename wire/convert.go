package wire

import (
	"github.com/maxpoletaev/hax/fid"
	"github.com/maxpoletaev/hax/health"
)

func FromNote(n health.Note) *Note {
	return &Note{
		Container: n.ID.Container,
		Key:       n.ID.Key,
		State:     uint32(n.State),
	}
}

func FromNotes(notes []health.Note) []*Note {
	out := make([]*Note, len(notes))
	for i, n := range notes {
		out[i] = FromNote(n)
	}

	return out
}

func (m *Note) HealthNote() health.Note {
	return health.Note{
		ID:    fid.New(m.Container, m.Key),
		State: health.NoteState(m.State),
	}
}

func ToNotes(notes []*Note) []health.Note {
	out := make([]health.Note, len(notes))
	for i, n := range notes {
		out[i] = n.HealthNote()
	}

	return out
}
