package socket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	f := NewFilter([]uint8{0x04}, []uint8{0x0e, 0x0f, 0x3e, 0xff})

	assert.Equal(t, uint32(0x10), f.TypeMask)
	assert.Equal(t, [2]uint32{0x0000c000, 0x40000000}, f.EventMask)
	assert.Equal(t, []byte{
		0x10, 0x00, 0x00, 0x00,
		0x00, 0xc0, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x40,
		0x00, 0x00,
	}, f.Marshal())
}

func TestFilterEmpty(t *testing.T) {
	assert.Equal(t, make([]byte, FilterLen), NewFilter(nil, nil).Marshal())
}
