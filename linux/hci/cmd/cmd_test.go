package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type command interface {
	OpCode() int
	Len() int
	Marshal([]byte) error
}

func TestOpCodes(t *testing.T) {
	assert.Equal(t, 0x0c03, ResetOpCode)
	assert.Equal(t, 0x0c01, SetEventMaskOpCode)
	assert.Equal(t, 0x1009, ReadBDADDROpCode)
	assert.Equal(t, 0x2001, LESetEventMaskOpCode)
	assert.Equal(t, 0x200b, LESetScanParametersOpCode)
	assert.Equal(t, 0x200c, LESetScanEnableOpCode)
}

func TestMarshal(t *testing.T) {
	tests := []struct {
		c    command
		want []byte
	}{
		{&Reset{}, []byte{}},
		{&ReadBDADDR{}, []byte{}},
		{&SetEventMask{EventMask: 0x3dbff807fffbffff}, []byte{0xff, 0xff, 0xfb, 0xff, 0x07, 0xf8, 0xbf, 0x3d}},
		{&LESetEventMask{LEEventMask: 0x1f}, []byte{0x1f, 0, 0, 0, 0, 0, 0, 0}},
		{&LESetScanParameters{
			LEScanType:           1,
			LEScanInterval:       0x0012,
			LEScanWindow:         0x4000,
			OwnAddressType:       1,
			ScanningFilterPolicy: 0,
		}, []byte{0x01, 0x12, 0x00, 0x00, 0x40, 0x01, 0x00}},
		{&LESetScanEnable{LEScanEnable: 1, FilterDuplicates: 0}, []byte{0x01, 0x00}},
	}

	for _, tt := range tests {
		b := make([]byte, tt.c.Len())
		require.NoError(t, tt.c.Marshal(b), "%v", tt.c)
		assert.Equal(t, tt.want, b, "%v", tt.c)
	}
}

func TestMarshalShortBuffer(t *testing.T) {
	assert.Error(t, (&LESetScanEnable{}).Marshal(make([]byte, 1)))
}
