package process

import (
	"fmt"

	"github.com/maxpoletaev/hax/fid"
	"github.com/maxpoletaev/hax/health"
)

// Report is a lifecycle event reported by a single process.
type Report struct {
	Fid   fid.Fid
	Event Event
	Type  Type
	PID   uint64
}

// HAState returns the health fact implied by the report.
func (r Report) HAState() health.HAState {
	return health.HAState{
		Fid:    r.Fid,
		Status: r.Event.Health(),
	}
}

func (r Report) String() string {
	return fmt.Sprintf("%s pid=%d %s %s", r.Fid, r.PID, r.Type, r.Event)
}
