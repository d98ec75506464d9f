package sim

import (
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func read(t *testing.T, s *Sim) []byte {
	b := make([]byte, 64)
	n, err := s.Read(b)
	require.NoError(t, err)
	return b[:n]
}

func TestSimCompletesCommands(t *testing.T) {
	s := New(time.Hour)
	defer s.Close()

	n, err := s.Write([]byte{0x01, 0x03, 0x0c, 0x00})
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, resetComplete, read(t, s))

	s.Write([]byte{0x01, 0x09, 0x10, 0x00})
	assert.Equal(t, readBDADDRComplete, read(t, s))

	// anything else is accepted silently
	s.Write([]byte{0x01, 0x0c, 0x20, 0x02, 0x01, 0x01})
	assert.Empty(t, s.rx)
}

func TestSimAdvertises(t *testing.T) {
	s := New(5 * time.Millisecond)
	defer s.Close()

	b := read(t, s)
	for len(b) == 0 {
		b = read(t, s)
	}
	require.Len(t, b, len(advertisement)+1)
	assert.Equal(t, advertisement, b[:len(advertisement)])
	assert.Equal(t, byte(256+defaultRSSI), b[len(b)-1])
}

func TestSimRSSIBounded(t *testing.T) {
	s := &Sim{rssi: defaultRSSI, rnd: rand.New(rand.NewSource(1))}
	for i := 0; i < 1000; i++ {
		b := s.nextAdvertisement()
		r := int(int8(b[len(b)-1]))
		assert.True(t, r >= minRSSI && r <= maxRSSI, "rssi %v", r)
	}
}

func TestSimClose(t *testing.T) {
	s := New(time.Hour)
	assert.True(t, s.Up())
	require.NoError(t, s.Close())
	assert.False(t, s.Up())

	_, err := s.Read(make([]byte, 8))
	assert.Equal(t, io.EOF, err)
	_, err = s.Write([]byte{0x01, 0x03, 0x0c, 0x00})
	assert.Equal(t, io.EOF, err)
}

func TestRSSIStep(t *testing.T) {
	assert.Equal(t, -3, rssiStep(0))
	assert.Equal(t, -3, rssiStep(0.099))
	assert.Equal(t, -2, rssiStep(0.1))
	assert.Equal(t, 0, rssiStep(0.5))
	assert.Equal(t, 1, rssiStep(0.899))
	assert.Equal(t, 2, rssiStep(0.9))
	assert.Equal(t, 2, rssiStep(0.9999))
}
