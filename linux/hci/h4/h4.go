package h4

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/jacobsa/go-serial/serial"
	"github.com/pkg/errors"
	"github.com/rigado/barnowl"
)

const (
	rxQueueSize = 64
	readTimeout = time.Second
)

var logger = barnowl.GetLogger().ChildLogger(map[string]interface{}{"pkg": "h4"})

// DefaultSerialOptions returns the UART settings used for H4 controllers.
func DefaultSerialOptions() serial.OpenOptions {
	return serial.OpenOptions{
		PortName:              "/dev/ttyS0",
		BaudRate:              uint(barnowl.DefaultH4BaudRate),
		DataBits:              8,
		StopBits:              1,
		ParityMode:            serial.PARITY_NONE,
		RTSCTSFlowControl:     true,
		MinimumReadSize:       0,
		InterCharacterTimeout: 100,
	}
}

// H4 carries HCI packets over a stream (UART or TCP) using the H4
// framing: one indicator byte followed by the packet. Reads return whole
// packets.
type H4 struct {
	name string
	rwc  io.ReadWriteCloser
	rmu  sync.Mutex
	wmu  sync.Mutex

	rxQueue chan []byte

	// a uart read with no data returns io.EOF
	eofIsIdle bool

	done chan int
	cmu  sync.Mutex
	err  error
}

// NewSerial opens an H4 controller on a UART.
func NewSerial(opts serial.OpenOptions) (*H4, error) {
	// force these
	opts.MinimumReadSize = 0
	opts.InterCharacterTimeout = 100

	logger.Infof("opening %v @ %v", opts.PortName, opts.BaudRate)
	sp, err := serial.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open %v", opts.PortName)
	}

	h := newH4(opts.PortName, sp)
	h.eofIsIdle = true
	go h.rxLoop()
	return h, nil
}

// NewSocket connects to an H4 controller exposed over TCP.
func NewSocket(addr string, timeout time.Duration) (*H4, error) {
	logger.Infof("connecting to %v", addr)
	c, err := dial(addr, timeout)
	if err != nil {
		return nil, err
	}

	h := newH4(addr, c)
	go h.rxLoop()
	return h, nil
}

func newH4(name string, rwc io.ReadWriteCloser) *H4 {
	return &H4{
		name:    name,
		rwc:     rwc,
		done:    make(chan int),
		rxQueue: make(chan []byte, rxQueueSize),
	}
}

// Up reports whether the stream is still open. There is no out of band
// device state on an H4 link.
func (h *H4) Up() bool {
	return h.isOpen()
}

// Read returns the next reassembled packet. It returns 0, nil when no
// packet arrives within a second.
func (h *H4) Read(p []byte) (int, error) {
	if !h.isOpen() {
		return 0, h.readErr()
	}

	h.rmu.Lock()
	defer h.rmu.Unlock()

	var n int
	select {
	case t := <-h.rxQueue:
		if len(p) < len(t) {
			return 0, fmt.Errorf("buffer too small: %v < %v", len(p), len(t))
		}
		n = copy(p, t)

	case <-h.done:
		return 0, h.readErr()

	case <-time.After(readTimeout):
		return 0, nil
	}

	// check if we are still open since the read could take a while
	if !h.isOpen() {
		return 0, h.readErr()
	}
	return n, nil
}

func (h *H4) Write(p []byte) (int, error) {
	if !h.isOpen() {
		return 0, io.EOF
	}

	h.wmu.Lock()
	defer h.wmu.Unlock()
	n, err := h.rwc.Write(p)
	logger.Debugf("%v: write [% 0x], %v, %v", h.name, p, n, err)

	return n, errors.Wrap(err, "can't write h4")
}

func (h *H4) Close() error {
	h.cmu.Lock()
	defer h.cmu.Unlock()

	select {
	case <-h.done:
		return nil

	default:
		close(h.done)
		logger.Infof("closing %v", h.name)
		err := h.rwc.Close()

		return errors.Wrap(err, "can't close h4")
	}
}

// readErr is the error reads return once closed: the failure that closed
// the stream, or io.EOF.
func (h *H4) readErr() error {
	h.cmu.Lock()
	defer h.cmu.Unlock()
	if h.err != nil {
		return h.err
	}
	return io.EOF
}

func (h *H4) isOpen() bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

func (h *H4) String() string {
	return h.name
}

func (h *H4) rxLoop() {
	f := newFrame(h.enqueue)
	tmp := make([]byte, 512)
	for {
		n, err := h.rwc.Read(tmp)

		if !h.isOpen() {
			return
		}

		switch {
		case err == nil:
		case isTimeout(err), err == io.EOF && h.eofIsIdle:
			continue
		default:
			logger.Errorf("%v: read failed: %v", h.name, err)
			h.cmu.Lock()
			h.err = errors.Wrapf(err, "%v: read failed", h.name)
			h.cmu.Unlock()
			h.Close()
			return
		}

		if n == 0 {
			continue
		}

		f.Assemble(tmp[:n])
	}
}

func (h *H4) enqueue(b []byte) {
	select {
	case h.rxQueue <- b:
	case <-h.done:
	}
}
