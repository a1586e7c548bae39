package fid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxpoletaev/hax/parse"
)

func TestObjT_ContainersAreUnique(t *testing.T) {
	seen := make(map[uint64]ObjT)

	for _, typ := range ObjTypes() {
		c := typ.Container()
		require.NotZero(t, c, "type %s has no container", typ)

		if other, dup := seen[c]; dup {
			t.Fatalf("%s and %s share container 0x%x", typ, other, c)
		}

		seen[c] = typ
	}

	assert.Len(t, seen, 16)
}

func TestObjT_ContainerLayout(t *testing.T) {
	for _, typ := range ObjTypes() {
		assert.Equal(t, uint64(1), typ.Container()&0x00ffffffffffffff, typ.String())
	}
}

func TestObjT_Containers(t *testing.T) {
	assert.Equal(t, uint64(0x7200000000000001), ObjProcess.Container())
	assert.Equal(t, uint64(0x7300000000000001), ObjService.Container())
	assert.Equal(t, uint64(0x6b00000000000001), ObjDrive.Container())
	assert.Equal(t, uint64(0x6e00000000000001), ObjNode.Container())
	assert.Equal(t, uint64(0x6700000000000001), ObjFdmiFltGrp.Container())
}

func TestTypeOf(t *testing.T) {
	for _, typ := range ObjTypes() {
		got, ok := TypeOf(typ.Container())
		require.True(t, ok)
		assert.Equal(t, typ, got)
	}

	_, ok := TypeOf(0x7700000000000001)
	assert.False(t, ok)
}

func TestParseObjT(t *testing.T) {
	for _, typ := range ObjTypes() {
		got, err := ParseObjT(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}

	_, err := ParseObjT("process")
	assert.ErrorIs(t, err, parse.ErrUnknownName)
}

func TestObjT_Fid(t *testing.T) {
	f := ObjProcess.Fid(0x15)
	assert.Equal(t, New(0x7200000000000001, 0x15), f)

	typ, ok := f.Type()
	assert.True(t, ok)
	assert.Equal(t, ObjProcess, typ)

	_, ok = New(1, 1).Type()
	assert.False(t, ok)
}

func TestObjT_String(t *testing.T) {
	assert.Equal(t, "FDMI_FLT_GRP", ObjFdmiFltGrp.String())
	assert.Equal(t, "", ObjT(0).String())
	assert.Zero(t, ObjT(100).Container())
}
