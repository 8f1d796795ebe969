package wire_test

import (
	"reflect"
	"testing"

	"github.com/go-boxon/boxon"
	"github.com/go-boxon/boxon/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ackMessage mirrors the CRC-tail tracker ACK frame: a literal "+ACK" header,
// a message type and a bitmask, a conditional field only present when the
// mask's low bit is set, and a CRC-16/CCITT-FALSE trailer covering everything
// between the header and the checksum itself.
type ackMessage struct {
	Frame       wire.Header `boxon:"start=2b41434b,end=0d0a"`
	Header      string      `boxon:"string,size=4"`
	MessageType uint8       `boxon:"int,size=8"`
	Mask        uint8       `boxon:"int,size=8"`
	Version     uint16      `boxon:"int,size=16,condition=#self.Mask&1==1"`
	Checksum    uint16      `boxon:"checksum,algorithm=CRC16-CCITT-FALSE,skipStart=4,skipEnd=4"`
}

func ackCore(t *testing.T) *wire.Core {
	t.Helper()
	c := wire.NewCore()
	require.NoError(t, c.RegisterTemplate(reflect.TypeFor[ackMessage]()))
	return c
}

func TestCore_Parse_ACK_NoVersionField(t *testing.T) {
	c := ackCore(t)
	data := []byte{0x2b, 0x41, 0x43, 0x4b, 0x01, 0x00, 0x2e, 0x3e, 0x0d, 0x0a}

	responses := c.Parse(data)
	require.Len(t, responses, 1)
	require.NoError(t, responses[0].Err)

	got, ok := responses[0].Msg.(ackMessage)
	require.True(t, ok)
	assert.Equal(t, "+ACK", got.Header)
	assert.Equal(t, uint8(0x01), got.MessageType)
	assert.Equal(t, uint8(0x00), got.Mask)
	assert.Equal(t, uint16(0), got.Version)
	assert.Equal(t, uint16(0x2e3e), got.Checksum)
}

func TestCore_Compose_ACK_NoVersionField(t *testing.T) {
	c := ackCore(t)
	msg := ackMessage{Header: "+ACK", MessageType: 0x01, Mask: 0x00}

	resp := c.Compose(msg)
	require.NoError(t, resp.Err)
	assert.Equal(t, []byte{0x2b, 0x41, 0x43, 0x4b, 0x01, 0x00, 0x2e, 0x3e, 0x0d, 0x0a}, resp.Msg)
}

func TestCore_Parse_ACK_CorruptedChecksumFails(t *testing.T) {
	c := ackCore(t)
	data := []byte{0x2b, 0x41, 0x43, 0x4b, 0x01, 0x00, 0xff, 0xff, 0x0d, 0x0a}

	responses := c.Parse(data)
	require.Len(t, responses, 1)
	require.Error(t, responses[0].Err)

	var checksumErr *boxon.ChecksumError
	require.ErrorAs(t, responses[0].Err, &checksumErr)
	assert.Equal(t, uint64(0x2e3e), checksumErr.Expected)
	assert.Equal(t, uint64(0xffff), checksumErr.Actual)
}

func TestCore_Parse_ACK_RoundTripWithVersionField(t *testing.T) {
	c := ackCore(t)
	msg := ackMessage{Header: "+ACK", MessageType: 0x01, Mask: 0x01, Version: 0x0102}

	resp := c.Compose(msg)
	require.NoError(t, resp.Err)

	responses := c.Parse(resp.Msg)
	require.Len(t, responses, 1)
	require.NoError(t, responses[0].Err)

	got, ok := responses[0].Msg.(ackMessage)
	require.True(t, ok)
	assert.Equal(t, msg.Header, got.Header)
	assert.Equal(t, msg.MessageType, got.MessageType)
	assert.Equal(t, msg.Mask, got.Mask)
	assert.Equal(t, msg.Version, got.Version)
}

func TestCore_Describe_ACK(t *testing.T) {
	c := ackCore(t)
	desc, err := c.Describe(reflect.TypeFor[ackMessage]())
	require.NoError(t, err)
	assert.Equal(t, "2b41434b", desc["start"])
	assert.Equal(t, "0d0a", desc["end"])
	checksum, ok := desc["checksum"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "CRC16-CCITT-FALSE", checksum["algorithm"])
}
