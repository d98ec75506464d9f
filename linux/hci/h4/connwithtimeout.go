package h4

import (
	"net"
	"time"

	"github.com/pkg/errors"
)

type connWithTimeout struct {
	c       net.Conn
	timeout time.Duration
}

func dial(addr string, timeout time.Duration) (*connWithTimeout, error) {
	c, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, errors.Wrapf(err, "can't dial %v", addr)
	}
	return &connWithTimeout{c: c, timeout: timeout}, nil
}

func (cwt *connWithTimeout) Read(b []byte) (int, error) {
	// with deadline
	cwt.c.SetReadDeadline(time.Now().Add(cwt.timeout))
	return cwt.c.Read(b)
}

func (cwt *connWithTimeout) Write(b []byte) (int, error) {
	// with deadline
	cwt.c.SetWriteDeadline(time.Now().Add(cwt.timeout))
	return cwt.c.Write(b)
}

func (cwt *connWithTimeout) Close() error {
	return cwt.c.Close()
}

func isTimeout(err error) bool {
	ne, ok := errors.Cause(err).(net.Error)
	return ok && ne.Timeout()
}
