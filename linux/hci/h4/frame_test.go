package h4

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect() (*frame, *[][]byte) {
	var got [][]byte
	f := newFrame(func(b []byte) { got = append(got, b) })
	return f, &got
}

func TestFrameWhole(t *testing.T) {
	f, got := collect()
	f.Assemble([]byte{0x04, 0x0e, 0x04, 0x01, 0x03, 0x0c, 0x00})

	require.Len(t, *got, 1)
	assert.Equal(t, []byte{0x04, 0x0e, 0x04, 0x01, 0x03, 0x0c, 0x00}, (*got)[0])
}

func TestFrameSplit(t *testing.T) {
	f, got := collect()
	f.Assemble([]byte{0x04, 0x0e})
	f.Assemble([]byte{0x04, 0x01, 0x03})
	assert.Empty(t, *got)

	f.Assemble([]byte{0x0c, 0x00})
	require.Len(t, *got, 1)
	assert.Equal(t, []byte{0x04, 0x0e, 0x04, 0x01, 0x03, 0x0c, 0x00}, (*got)[0])
}

func TestFrameMultiple(t *testing.T) {
	f, got := collect()
	f.Assemble([]byte{
		0x04, 0x0e, 0x01, 0xaa,
		0x04, 0x0f, 0x02, 0xbb, 0xcc,
		0x04, 0x3e,
	})

	require.Len(t, *got, 2)
	assert.Equal(t, []byte{0x04, 0x0e, 0x01, 0xaa}, (*got)[0])
	assert.Equal(t, []byte{0x04, 0x0f, 0x02, 0xbb, 0xcc}, (*got)[1])

	f.Assemble([]byte{0x01, 0x02})
	require.Len(t, *got, 3)
	assert.Equal(t, []byte{0x04, 0x3e, 0x01, 0x02}, (*got)[2])
}

func TestFrameSkipsGarbage(t *testing.T) {
	f, got := collect()
	f.Assemble([]byte{0xff, 0x00, 0x04, 0x0e, 0x00})

	require.Len(t, *got, 1)
	assert.Equal(t, []byte{0x04, 0x0e, 0x00}, (*got)[0])
}

func TestFrameACL(t *testing.T) {
	f, got := collect()
	f.Assemble([]byte{0x02, 0x40, 0x00, 0x02, 0x00, 0x01, 0x02})

	require.Len(t, *got, 1)
	assert.Equal(t, []byte{0x02, 0x40, 0x00, 0x02, 0x00, 0x01, 0x02}, (*got)[0])
}

func TestFrameTimeout(t *testing.T) {
	now := time.Unix(1000, 0)
	f, got := collect()
	f.now = func() time.Time { return now }

	f.Assemble([]byte{0x04, 0x0e, 0x04, 0x01})
	now = now.Add(frameTimeout + time.Millisecond)

	// stale partial frame dropped, new one starts clean
	f.Assemble([]byte{0x04, 0x0e, 0x00})
	require.Len(t, *got, 1)
	assert.Equal(t, []byte{0x04, 0x0e, 0x00}, (*got)[0])
}
