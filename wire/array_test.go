package wire_test

import (
	"reflect"
	"testing"

	"github.com/go-boxon/boxon/bitio"
	"github.com/go-boxon/boxon/checksum"
	"github.com/go-boxon/boxon/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type primitiveArrayMessage struct {
	Values []uint32 `boxon:"arrayPrimitive,size=2,byteOrder=big"`
}

func TestArrayPrimitive_RoundTrip(t *testing.T) {
	tpl, err := wire.CompileCached(reflect.TypeFor[primitiveArrayMessage]())
	require.NoError(t, err)

	registry := wire.DefaultRegistry()
	checksums := checksum.NewRegistry()

	msg := primitiveArrayMessage{Values: []uint32{0x00000123, 0x00000456}}
	w := bitio.NewWriter()
	require.NoError(t, wire.Encode(tpl, w, registry, checksums, nil, msg))
	assert.Equal(t, []byte{0x00, 0x00, 0x01, 0x23, 0x00, 0x00, 0x04, 0x56}, w.Flush())

	r := bitio.NewReader(w.Flush())
	decoded, err := wire.Decode(tpl, r, registry, checksums, nil)
	require.NoError(t, err)
	assert.Equal(t, msg, decoded)
}
