package wire_test

import (
	"reflect"
	"testing"

	"github.com/go-boxon/boxon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCore_Parse_LeadingUnrecognizedBytesFramed(t *testing.T) {
	c := ackCore(t)
	noise := []byte{0xff, 0x00, 0xab}
	ack := []byte{0x2b, 0x41, 0x43, 0x4b, 0x01, 0x00, 0x2e, 0x3e, 0x0d, 0x0a}
	data := append(append([]byte{}, noise...), ack...)

	responses := c.Parse(data)
	require.Len(t, responses, 2)

	require.Error(t, responses[0].Err)
	var unrecognized *boxon.UnrecognizedBytesError
	require.ErrorAs(t, responses[0].Err, &unrecognized)
	assert.Equal(t, noise, responses[0].Src)

	require.NoError(t, responses[1].Err)
	_, ok := responses[1].Msg.(ackMessage)
	assert.True(t, ok)
}

func TestCore_Parse_TrailingUnrecognizedBytesFramed(t *testing.T) {
	c := ackCore(t)
	ack := []byte{0x2b, 0x41, 0x43, 0x4b, 0x01, 0x00, 0x2e, 0x3e, 0x0d, 0x0a}
	noise := []byte{0x01, 0x02}
	data := append(append([]byte{}, ack...), noise...)

	responses := c.Parse(data)
	require.Len(t, responses, 2)
	require.NoError(t, responses[0].Err)
	require.Error(t, responses[1].Err)
	var unrecognized *boxon.UnrecognizedBytesError
	require.ErrorAs(t, responses[1].Err, &unrecognized)
	assert.Equal(t, noise, responses[1].Src)
}

func TestCore_Describe_ContextSnapshot(t *testing.T) {
	c := ackCore(t)
	c.SetContext(boxon.Context{"deviceClass": "tracker"})

	desc, err := c.Describe(reflect.TypeFor[ackMessage]())
	require.NoError(t, err)

	ctx, ok := desc["context"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "tracker", ctx["deviceClass"])
}
