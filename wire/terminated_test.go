package wire_test

import (
	"reflect"
	"testing"

	"github.com/go-boxon/boxon/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gtiobReport mirrors a comma-delimited ASCII tracker report: a literal
// "+ACK:" lead-in (also the Loader's recognition pattern), nine comma-
// terminated fields, and a final field terminated by '$' rather than a
// comma. None of the trailing '$' is declared as a Header end pattern since
// the last field's own terminator already accounts for it.
type gtiobReport struct {
	Frame     wire.Header `boxon:"start=2b41434b3a"`
	Header    string      `boxon:"stringTerminated,terminator=:"`
	Command   string      `boxon:"stringTerminated,terminator=,"`
	DeviceID  string      `boxon:"stringTerminated,terminator=,"`
	IMEI      string      `boxon:"stringTerminated,terminator=,"`
	Course    string      `boxon:"stringTerminated,terminator=,"`
	Count     string      `boxon:"stringTerminated,terminator=,"`
	Mileage   string      `boxon:"stringTerminated,terminator=,"`
	Reserved1 string      `boxon:"stringTerminated,terminator=,"`
	Reserved2 string      `boxon:"stringTerminated,terminator=,"`
	Timestamp string      `boxon:"stringTerminated,terminator=,"`
	Serial    string      `boxon:"stringTerminated,terminator=$"`
}

const gtiobWire = "+ACK:GTIOB,CF8002,359464038116666,45.5,2,0020,,,20170101123542,11F0$"

func TestCore_Parse_TerminatorDelimitedReport(t *testing.T) {
	c := wire.NewCore()
	require.NoError(t, c.RegisterTemplate(reflect.TypeFor[gtiobReport]()))

	responses := c.Parse([]byte(gtiobWire))
	require.Len(t, responses, 1)
	require.NoError(t, responses[0].Err)

	got, ok := responses[0].Msg.(gtiobReport)
	require.True(t, ok)
	assert.Equal(t, "+ACK", got.Header)
	assert.Equal(t, "GTIOB", got.Command)
	assert.Equal(t, "CF8002", got.DeviceID)
	assert.Equal(t, "359464038116666", got.IMEI)
	assert.Equal(t, "45.5", got.Course)
	assert.Equal(t, "2", got.Count)
	assert.Equal(t, "0020", got.Mileage)
	assert.Equal(t, "", got.Reserved1)
	assert.Equal(t, "", got.Reserved2)
	assert.Equal(t, "20170101123542", got.Timestamp)
	assert.Equal(t, "11F0", got.Serial)

	resp := c.Compose(got)
	require.NoError(t, resp.Err)
	assert.Equal(t, gtiobWire, string(resp.Msg))
}
