package process

import (
	"fmt"

	"github.com/maxpoletaev/hax/parse"
)

// Type is the kind of process reporting an event.
type Type uint32

const (
	TypeOther Type = iota
	TypeKernel
	TypeM0MKFS
	TypeM0D
)

var typeNames = map[Type]string{
	TypeOther:  "M0_CONF_HA_PROCESS_OTHER",
	TypeKernel: "M0_CONF_HA_PROCESS_KERNEL",
	TypeM0MKFS: "M0_CONF_HA_PROCESS_M0MKFS",
	TypeM0D:    "M0_CONF_HA_PROCESS_M0D",
}

var typesByName = map[string]Type{
	"M0_CONF_HA_PROCESS_OTHER":  TypeOther,
	"M0_CONF_HA_PROCESS_KERNEL": TypeKernel,
	"M0_CONF_HA_PROCESS_M0MKFS": TypeM0MKFS,
	"M0_CONF_HA_PROCESS_M0D":    TypeM0D,
}

// ParseType returns the process type with the given M0_CONF_HA_PROCESS_* name.
func ParseType(name string) (Type, error) {
	return parse.Lookup("process type", typesByName, name)
}

// TypeFromCode validates a native process type code.
func TypeFromCode(code uint32) (Type, error) {
	t := Type(code)
	if _, ok := typeNames[t]; !ok {
		return 0, &parse.Error{Kind: "process type", Input: fmt.Sprint(code), Err: parse.ErrUnknownName}
	}

	return t, nil
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}

	return fmt.Sprintf("Type(%d)", uint32(t))
}
