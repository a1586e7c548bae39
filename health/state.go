package health

import (
	"fmt"

	"github.com/maxpoletaev/hax/fid"
)

// HAState is a health observation of a single object.
type HAState struct {
	Fid    fid.Fid
	Status Status
}

// Note converts the state into a native HA note.
func (s HAState) Note() Note {
	return Note{
		ID:    s.Fid,
		State: s.Status.NoteState(),
	}
}

func (s HAState) String() string {
	return fmt.Sprintf("%s:%s", s.Fid, s.Status)
}

// StateFromNote converts a native note back into a state. Same collapse rules
// as FromNoteState apply.
func StateFromNote(n Note) HAState {
	return HAState{
		Fid:    n.ID,
		Status: FromNoteState(n.State),
	}
}

// Notes converts a batch of states into notes, preserving the order.
func Notes(states []HAState) []Note {
	notes := make([]Note, len(states))
	for i, s := range states {
		notes[i] = s.Note()
	}

	return notes
}
