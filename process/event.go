// Package process describes process lifecycle events reported to the HA monitor
// and the health each event implies for the reporting process.
package process

import (
	"fmt"

	"github.com/maxpoletaev/hax/health"
	"github.com/maxpoletaev/hax/parse"
)

// Event is a process lifecycle event. Values match the native event codes.
type Event uint32

const (
	EventStarting Event = iota
	EventStarted
	EventStopping
	EventStopped
)

var eventNames = map[Event]string{
	EventStarting: "M0_CONF_HA_PROCESS_STARTING",
	EventStarted:  "M0_CONF_HA_PROCESS_STARTED",
	EventStopping: "M0_CONF_HA_PROCESS_STOPPING",
	EventStopped:  "M0_CONF_HA_PROCESS_STOPPED",
}

var eventsByName = map[string]Event{
	"M0_CONF_HA_PROCESS_STARTING": EventStarting,
	"M0_CONF_HA_PROCESS_STARTED":  EventStarted,
	"M0_CONF_HA_PROCESS_STOPPING": EventStopping,
	"M0_CONF_HA_PROCESS_STOPPED":  EventStopped,
}

var eventHealth = map[Event]health.Status{
	EventStarting: health.OK,
	EventStarted:  health.OK,
	EventStopping: health.Failed,
	EventStopped:  health.Failed,
}

// ParseEvent returns the event with the given M0_CONF_HA_PROCESS_* name.
func ParseEvent(name string) (Event, error) {
	return parse.Lookup("process event", eventsByName, name)
}

// EventFromCode validates a native event code.
func EventFromCode(code uint32) (Event, error) {
	e := Event(code)
	if _, ok := eventNames[e]; !ok {
		return 0, &parse.Error{Kind: "process event", Input: fmt.Sprint(code), Err: parse.ErrUnknownName}
	}

	return e, nil
}

// Health returns the health of a process that has just reported the event.
// A process that is going down is failed from the cluster point of view until
// it reports starting again.
func (e Event) Health() health.Status {
	if h, ok := eventHealth[e]; ok {
		return h
	}

	return health.Unknown
}

func (e Event) String() string {
	if name, ok := eventNames[e]; ok {
		return name
	}

	return fmt.Sprintf("Event(%d)", uint32(e))
}
