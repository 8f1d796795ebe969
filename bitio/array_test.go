package bitio_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-boxon/boxon"
	"github.com/go-boxon/boxon/bitio"
)

// TestPrimitiveArrayRoundTrip is scenario 2: an ArrayPrimitive(int, size="2",
// byteOrder=BIG_ENDIAN) round-trips [0x00000123, 0x00000456] to
// "00 00 01 23 00 00 04 56" and back.
func TestPrimitiveArrayRoundTrip(t *testing.T) {
	values := []int64{0x00000123, 0x00000456}

	w := bitio.NewWriter()
	for _, v := range values {
		require.NoError(t, w.WriteInt(v, 32, boxon.BigEndian))
	}
	got := w.Flush()
	require.Equal(t, []byte{0x00, 0x00, 0x01, 0x23, 0x00, 0x00, 0x04, 0x56}, got)

	r := bitio.NewReader(got)
	for _, want := range values {
		v, err := r.ReadInt(32, boxon.BigEndian, false)
		require.NoError(t, err)
		require.Equal(t, want, v)
	}
	require.Zero(t, r.Len())
}

func TestPrimitiveArrayRoundTripLittleEndian(t *testing.T) {
	values := []int64{0x00000123, 0x00000456}

	w := bitio.NewWriter()
	for _, v := range values {
		require.NoError(t, w.WriteInt(v, 32, boxon.LittleEndian))
	}
	got := w.Flush()
	require.Equal(t, []byte{0x23, 0x01, 0x00, 0x00, 0x56, 0x04, 0x00, 0x00}, got)

	r := bitio.NewReader(got)
	for _, want := range values {
		v, err := r.ReadInt(32, boxon.LittleEndian, false)
		require.NoError(t, err)
		require.Equal(t, want, v)
	}
}

func TestReadBigIntByteAligned(t *testing.T) {
	w := bitio.NewWriter()
	require.NoError(t, w.WriteBigInt(big.NewInt(0x0123456789), 40, boxon.BigEndian))
	got := w.Flush()
	require.Equal(t, []byte{0x01, 0x23, 0x45, 0x67, 0x89}, got)

	r := bitio.NewReader(got)
	v, err := r.ReadBigInt(40, boxon.BigEndian, false)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(0x0123456789), v)
}
