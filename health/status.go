// Package health defines object health as seen by the HA monitor and its
// conversion to the note state codes understood by the storage engine.
package health

import (
	"fmt"

	"github.com/maxpoletaev/hax/parse"
)

// Status is the health of a cluster object.
type Status int

const (
	Unknown Status = iota
	OK
	Failed
	Offline
	Stopped
	Repair
	Repaired
	Rebalance
)

// statusNotes binds each status to its note state. The order matters: when
// several statuses share a note state, FromNoteState picks the first one.
// Offline comes before Stopped, so TRANSIENT always reads back as Offline.
var statusNotes = []struct {
	status Status
	note   NoteState
}{
	{Failed, NoteFailed},
	{OK, NoteOnline},
	{Unknown, NoteUnknown},
	{Offline, NoteTransient},
	{Stopped, NoteTransient},
	{Repair, NoteRepair},
	{Repaired, NoteRepaired},
	{Rebalance, NoteRebalance},
}

var statusNames = map[Status]string{
	Unknown:   "UNKNOWN",
	OK:        "OK",
	Failed:    "FAILED",
	Offline:   "OFFLINE",
	Stopped:   "STOPPED",
	Repair:    "REPAIR",
	Repaired:  "REPAIRED",
	Rebalance: "REBALANCE",
}

var statusesByName = func() map[string]Status {
	m := make(map[string]Status, len(statusNames))
	for s, name := range statusNames {
		m[name] = s
	}

	return m
}()

// Statuses returns all statuses in the order of the note state table.
func Statuses() []Status {
	res := make([]Status, len(statusNotes))
	for i, sn := range statusNotes {
		res[i] = sn.status
	}

	return res
}

// FromNoteState converts a note state into a status. It never fails: codes
// without a status (including NoteNR) resolve to Unknown. The conversion is
// lossy for NoteTransient, which always resolves to Offline.
func FromNoteState(state NoteState) Status {
	for _, sn := range statusNotes {
		if sn.note == state {
			return sn.status
		}
	}

	return Unknown
}

// NoteState returns the note state code for the status.
func (s Status) NoteState() NoteState {
	for _, sn := range statusNotes {
		if sn.status == s {
			return sn.note
		}
	}

	return NoteUnknown
}

// ParseStatus returns the status with the given upper-case name.
func ParseStatus(name string) (Status, error) {
	return parse.Lookup("health status", statusesByName, name)
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}

	return fmt.Sprintf("Status(%d)", int(s))
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}

	*s = parsed

	return nil
}
