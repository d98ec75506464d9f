package evt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandComplete(t *testing.T) {
	e := CommandComplete{0x01, 0x09, 0x10, 0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66}

	op, err := e.CommandOpcodeWErr()
	require.NoError(t, err)
	assert.EqualValues(t, 0x1009, op)
	st, err := e.StatusWErr()
	require.NoError(t, err)
	assert.EqualValues(t, 0, st)
	rp, err := e.ReturnParametersWErr()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66}, rp)

	short := CommandComplete{0x01, 0x09}
	op, err = short.CommandOpcodeWErr()
	assert.Error(t, err)
	assert.EqualValues(t, 0xffff, op)
	_, err = short.StatusWErr()
	assert.Error(t, err)
	rp, err = short.ReturnParametersWErr()
	assert.Error(t, err)
	assert.Nil(t, rp)
}

func TestLEAdvertisingReport(t *testing.T) {
	e := LEAdvertisingReport{
		0x02, 0x02,
		0x00, 0x01, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x02, 0xaa, 0xbb, 0xc0,
		0x04, 0x00, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x00, 0xb0,
	}
	sub, err := e.SubeventCodeWErr()
	require.NoError(t, err)
	assert.EqualValues(t, LEAdvertisingReportSubCode, sub)
	nr, err := e.NumReportsWErr()
	require.NoError(t, err)
	assert.EqualValues(t, 2, nr)

	r, err := e.ReportWErr(0)
	require.NoError(t, err)
	assert.EqualValues(t, 0, r.EventType())
	assert.EqualValues(t, 1, r.AddressType())
	assert.Equal(t, [6]byte{1, 2, 3, 4, 5, 6}, r.Address())
	assert.EqualValues(t, 2, r.LengthData())
	assert.Equal(t, []byte{0xaa, 0xbb}, r.Data())
	assert.EqualValues(t, -64, r.RSSI())

	r, err = e.ReportWErr(1)
	require.NoError(t, err)
	assert.EqualValues(t, 4, r.EventType())
	assert.Empty(t, r.Data())
	assert.EqualValues(t, -80, r.RSSI())

	_, err = e.ReportWErr(2)
	assert.Error(t, err)
	_, err = e.ReportWErr(-1)
	assert.Error(t, err)

	_, err = e[:20].ReportWErr(1)
	assert.Error(t, err)
}
