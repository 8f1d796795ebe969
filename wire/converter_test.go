package wire_test

import (
	"math/big"
	"reflect"
	"testing"

	"github.com/go-boxon/boxon/bitio"
	"github.com/go-boxon/boxon/checksum"
	"github.com/go-boxon/boxon/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	wire.RegisterConverter("tenthsToFloat", wire.ConverterFunc{
		WireType:  reflect.TypeFor[*big.Int](),
		FieldType: reflect.TypeFor[float64](),
		Decode: func(wireValue any) (any, error) {
			return float64(wireValue.(*big.Int).Int64()) / 10, nil
		},
		Encode: func(fieldValue any) (any, error) {
			return big.NewInt(int64(fieldValue.(float64) * 10)), nil
		},
	})
	wire.RegisterValidator("tempRange", func(v any) error {
		if c := v.(float64); c < -40 || c > 85 {
			return boxonRangeErr{c}
		}
		return nil
	})
}

type boxonRangeErr struct{ value float64 }

func (e boxonRangeErr) Error() string { return "temperature out of range" }

type temperatureMessage struct {
	TenthsC float64 `boxon:"int,size=16,signed=true,converter=tenthsToFloat,validator=tempRange"`
}

func TestConverter_RoundTrip(t *testing.T) {
	tpl, err := wire.CompileCached(reflect.TypeFor[temperatureMessage]())
	require.NoError(t, err)
	require.True(t, tpl.CanBeCode)

	registry := wire.DefaultRegistry()
	checksums := checksum.NewRegistry()

	msg := temperatureMessage{TenthsC: 21.5}
	w := bitio.NewWriter()
	require.NoError(t, wire.Encode(tpl, w, registry, checksums, nil, msg))
	assert.Equal(t, []byte{0x00, 0xd7}, w.Flush())

	r := bitio.NewReader(w.Flush())
	decoded, err := wire.Decode(tpl, r, registry, checksums, nil)
	require.NoError(t, err)
	assert.Equal(t, msg, decoded)
}

func TestConverter_ValidatorRejectsOutOfRange(t *testing.T) {
	tpl, err := wire.CompileCached(reflect.TypeFor[temperatureMessage]())
	require.NoError(t, err)

	registry := wire.DefaultRegistry()
	checksums := checksum.NewRegistry()

	w := bitio.NewWriter()
	err = wire.Encode(tpl, w, registry, checksums, nil, temperatureMessage{TenthsC: 120})
	require.Error(t, err)
}

type mismatchedConverterMessage struct {
	Name string `boxon:"string,size=4,converter=tenthsToFloat"`
}

func TestCompile_ConverterFieldTypeMismatchFails(t *testing.T) {
	tpl, err := wire.Compile(reflect.TypeFor[mismatchedConverterMessage]())
	require.Error(t, err)
	assert.False(t, tpl.CanBeCode)
}

type unknownConverterMessage struct {
	Value int32 `boxon:"int,size=32,converter=doesNotExist"`
}

func TestCompile_UnknownConverterFails(t *testing.T) {
	tpl, err := wire.Compile(reflect.TypeFor[unknownConverterMessage]())
	require.Error(t, err)
	assert.False(t, tpl.CanBeCode)
}
