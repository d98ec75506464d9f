//go:build !linux
// +build !linux

package socket

import (
	"io"

	"github.com/pkg/errors"
)

var errUnsupported = errors.New("hci sockets are only available on linux")

// Socket is a placeholder on platforms without HCI sockets.
type Socket struct{}

// NewSocket is a dummy function for non-Linux platform.
func NewSocket(id int) (*Socket, error) {
	return nil, errUnsupported
}

// FirstDevice is a dummy function for non-Linux platform.
func FirstDevice() (int, error) {
	return 0, errUnsupported
}

func (s *Socket) SetFilter(f Filter) error    { return errUnsupported }
func (s *Socket) Up() bool                    { return false }
func (s *Socket) Read(p []byte) (int, error)  { return 0, io.EOF }
func (s *Socket) Write(p []byte) (int, error) { return 0, errUnsupported }
func (s *Socket) Close() error                { return nil }
