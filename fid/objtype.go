package fid

import "github.com/maxpoletaev/hax/parse"

// ObjT is a configuration object type. Each type owns a distinct container
// value: the high byte encodes the type and the low bytes are always 1.
type ObjT int

const (
	ObjProcess ObjT = iota + 1
	ObjService
	ObjSdev
	ObjDrive
	ObjProfile
	ObjObjv
	ObjNode
	ObjSite
	ObjRack
	ObjEnclosure
	ObjController
	ObjRoot
	ObjPool
	ObjPver
	ObjFdmiFilter
	ObjFdmiFltGrp
)

type objTypeInfo struct {
	name      string
	container uint64
}

var objTypes = map[ObjT]objTypeInfo{
	ObjProcess:    {"PROCESS", 0x7200000000000001},
	ObjService:    {"SERVICE", 0x7300000000000001},
	ObjSdev:       {"SDEV", 0x6400000000000001},
	ObjDrive:      {"DRIVE", 0x6b00000000000001},
	ObjProfile:    {"PROFILE", 0x7000000000000001},
	ObjObjv:       {"OBJV", 0x6a00000000000001},
	ObjNode:       {"NODE", 0x6e00000000000001},
	ObjSite:       {"SITE", 0x5300000000000001},
	ObjRack:       {"RACK", 0x6100000000000001},
	ObjEnclosure:  {"ENCLOSURE", 0x6500000000000001},
	ObjController: {"CONTROLLER", 0x6300000000000001},
	ObjRoot:       {"ROOT", 0x7400000000000001},
	ObjPool:       {"POOL", 0x6f00000000000001},
	ObjPver:       {"PVER", 0x7600000000000001},
	ObjFdmiFilter: {"FDMI_FILTER", 0x6c00000000000001},
	ObjFdmiFltGrp: {"FDMI_FLT_GRP", 0x6700000000000001},
}

// Reverse lookup tables, built once from objTypes.
var (
	objTypesByName      = make(map[string]ObjT, len(objTypes))
	objTypesByContainer = make(map[uint64]ObjT, len(objTypes))
)

func init() {
	for t, info := range objTypes {
		if _, dup := objTypesByContainer[info.container]; dup {
			panic("fid: duplicate container for " + info.name)
		}

		objTypesByName[info.name] = t
		objTypesByContainer[info.container] = t
	}
}

// ObjTypes returns all known object types in declaration order.
func ObjTypes() []ObjT {
	types := make([]ObjT, 0, len(objTypes))
	for t := ObjProcess; t <= ObjFdmiFltGrp; t++ {
		types = append(types, t)
	}

	return types
}

// ParseObjT returns the object type with the given upper-case name.
func ParseObjT(name string) (ObjT, error) {
	return parse.Lookup("object type", objTypesByName, name)
}

// TypeOf returns the object type owning the container value.
func TypeOf(container uint64) (ObjT, bool) {
	t, ok := objTypesByContainer[container]
	return t, ok
}

// Container returns the container value of the type, or zero for an unknown type.
func (t ObjT) Container() uint64 {
	return objTypes[t].container
}

// Fid returns the fid of the object of this type with the given key.
func (t ObjT) Fid(key uint64) Fid {
	return Fid{Container: t.Container(), Key: key}
}

func (t ObjT) String() string {
	if info, ok := objTypes[t]; ok {
		return info.name
	}

	return ""
}
