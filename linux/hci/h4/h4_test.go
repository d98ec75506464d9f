package h4

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pipeH4(t *testing.T) (*H4, net.Conn) {
	a, b := net.Pipe()
	h := newH4("pipe", &connWithTimeout{c: a, timeout: 50 * time.Millisecond})
	go h.rxLoop()
	t.Cleanup(func() {
		h.Close()
		b.Close()
	})
	return h, b
}

func TestH4ReadReassembled(t *testing.T) {
	h, remote := pipeH4(t)

	go func() {
		remote.Write([]byte{0x04, 0x0e, 0x04})
		remote.Write([]byte{0x01, 0x09, 0x10, 0x00})
	}()

	b := make([]byte, 64)
	n, err := h.Read(b)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x04, 0x0e, 0x04, 0x01, 0x09, 0x10, 0x00}, b[:n])
}

func TestH4Write(t *testing.T) {
	h, remote := pipeH4(t)

	got := make(chan []byte, 1)
	go func() {
		b := make([]byte, 16)
		n, _ := remote.Read(b)
		got <- b[:n]
	}()

	n, err := h.Write([]byte{0x01, 0x03, 0x0c, 0x00})
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte{0x01, 0x03, 0x0c, 0x00}, <-got)
}

func TestH4Close(t *testing.T) {
	h, _ := pipeH4(t)
	assert.True(t, h.Up())

	require.NoError(t, h.Close())
	assert.False(t, h.Up())

	_, err := h.Read(make([]byte, 8))
	assert.Equal(t, io.EOF, err)
	_, err = h.Write([]byte{0x01})
	assert.Equal(t, io.EOF, err)
	assert.NoError(t, h.Close())
}

func TestH4RemoteHangup(t *testing.T) {
	h, remote := pipeH4(t)
	remote.Close()

	assert.Eventually(t, func() bool { return !h.Up() }, time.Second, 10*time.Millisecond)
}

func TestH4RemoteHangupReadError(t *testing.T) {
	h, remote := pipeH4(t)
	remote.Close()

	require.Eventually(t, func() bool { return !h.Up() }, time.Second, 10*time.Millisecond)
	_, err := h.Read(make([]byte, 8))
	require.Error(t, err)
	assert.Equal(t, io.EOF, errors.Cause(err))
	assert.Contains(t, err.Error(), "pipe: read failed")
}
