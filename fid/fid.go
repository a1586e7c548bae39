// Package fid implements the cluster object identifier: a 64-bit container
// that encodes the object type and a 64-bit key unique within the container.
package fid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/maxpoletaev/hax/parse"
)

var errMissingColon = errors.New("missing ':' separator")

// Fid uniquely identifies one cluster object. Fids are plain values: compare
// them with ==, use them as map keys, copy freely.
type Fid struct {
	Container uint64
	Key       uint64
}

// New creates a fid from its two components.
func New(container, key uint64) Fid {
	return Fid{Container: container, Key: key}
}

// Parse parses the "<container>:<key>" text form. Both halves are hexadecimal,
// the 0x prefix is optional and case is ignored. The text is split on the
// first colon, so "1:2:3" fails on the key half.
func Parse(s string) (Fid, error) {
	cont, key, found := strings.Cut(s, ":")
	if !found {
		return Fid{}, &parse.Error{Kind: "fid", Input: s, Err: errMissingColon}
	}

	c, err := parseHex(cont)
	if err != nil {
		return Fid{}, &parse.Error{Kind: "fid", Input: s, Err: err}
	}

	k, err := parseHex(key)
	if err != nil {
		return Fid{}, &parse.Error{Kind: "fid", Input: s, Err: err}
	}

	return Fid{Container: c, Key: k}, nil
}

// MustParse is like Parse but panics on error. Meant for constants and tests.
func MustParse(s string) Fid {
	f, err := Parse(s)
	if err != nil {
		panic(err)
	}

	return f
}

func parseHex(s string) (uint64, error) {
	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}

	return strconv.ParseUint(s, 16, 64)
}

// IsNull reports whether both components are zero.
func (f Fid) IsNull() bool {
	return f.Container == 0 && f.Key == 0
}

// Type returns the object type encoded in the container, if it is a known one.
func (f Fid) Type() (ObjT, bool) {
	return TypeOf(f.Container)
}

// Less orders fids by container, then by key.
func (f Fid) Less(other Fid) bool {
	if f.Container != other.Container {
		return f.Container < other.Container
	}

	return f.Key < other.Key
}

func (f Fid) String() string {
	return fmt.Sprintf("0x%x:0x%x", f.Container, f.Key)
}

func (f Fid) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Fid) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}

	*f = parsed

	return nil
}
