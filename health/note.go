package health

import (
	"fmt"

	"github.com/maxpoletaev/hax/fid"
	"github.com/maxpoletaev/hax/parse"
)

// NoteState is the object state code used in HA notes exchanged with the storage
// engine. The code space is smaller than Status: TRANSIENT covers both offline
// and stopped objects.
type NoteState uint32

const (
	// NoteUnknown means the object state is unknown.
	NoteUnknown NoteState = iota
	// NoteOnline means the object can be used normally.
	NoteOnline
	// NoteFailed means the object has experienced a permanent failure and
	// cannot be recovered.
	NoteFailed
	// NoteTransient means the object is experiencing a temporary failure. The
	// engine is notified once the object is available again.
	NoteTransient
	// NoteRepair is only applicable to pools: the pool is reconstructing lost
	// data into spare space.
	NoteRepair
	// NoteRepaired is only applicable to pools: repair is complete and the data
	// lives on spare space.
	NoteRepaired
	// NoteRebalance is only applicable to pools: reconstructed data is being
	// copied from spare space to the replacement storage.
	NoteRebalance
	// NoteNR is the number of states, not a state.
	NoteNR
)

var noteStateNames = map[NoteState]string{
	NoteUnknown:   "M0_NC_UNKNOWN",
	NoteOnline:    "M0_NC_ONLINE",
	NoteFailed:    "M0_NC_FAILED",
	NoteTransient: "M0_NC_TRANSIENT",
	NoteRepair:    "M0_NC_REPAIR",
	NoteRepaired:  "M0_NC_REPAIRED",
	NoteRebalance: "M0_NC_REBALANCE",
	NoteNR:        "M0_NC_NR",
}

var noteStatesByName = func() map[string]NoteState {
	m := make(map[string]NoteState, len(noteStateNames))
	for s, name := range noteStateNames {
		m[name] = s
	}

	return m
}()

// ParseNoteState returns the note state with the given M0_NC_* name.
func ParseNoteState(name string) (NoteState, error) {
	return parse.Lookup("note state", noteStatesByName, name)
}

func (s NoteState) String() string {
	if name, ok := noteStateNames[s]; ok {
		return name
	}

	return fmt.Sprintf("M0_NC_<%d>", uint32(s))
}

// Note is the native HA note: an object identity and its state code.
type Note struct {
	ID    fid.Fid
	State NoteState
}

func (n Note) String() string {
	return fmt.Sprintf("%s=%s", n.ID, n.State)
}
