package hci

import (
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/rigado/barnowl/linux/hci/h4"
	"github.com/rigado/barnowl/linux/hci/sim"
	"github.com/rigado/barnowl/linux/hci/socket"
)

// Socket is a transport the HCI device reads packets from and writes
// commands to.
type Socket interface {
	io.ReadWriteCloser
	Transport
}

type transportHci struct {
	id int
}

type transportH4Socket struct {
	addr    string
	timeout time.Duration
}

type transportH4Uart struct {
	path     string
	baudRate int
}

type transportSim struct {
	period time.Duration
}

type transport struct {
	hci      *transportHci
	h4uart   *transportH4Uart
	h4socket *transportH4Socket
	sim      *transportSim
}

// firstDevice is replaced in tests
var firstDevice = socket.FirstDevice

// resolve pins a "first available" hci device to a concrete id so the
// default origin names the device actually used.
func (t transport) resolve() (transport, error) {
	if t.hci == nil || t.hci.id >= 0 {
		return t, nil
	}
	id, err := firstDevice()
	if err != nil {
		return t, errors.Wrap(err, "can't find an hci device")
	}
	return transport{hci: &transportHci{id}}, nil
}

// name is the default origin of a transport.
func (t transport) name() string {
	switch {
	case t.hci != nil:
		return fmt.Sprintf("hci%d", t.hci.id)
	case t.h4socket != nil:
		return t.h4socket.addr
	case t.h4uart != nil:
		return t.h4uart.path
	case t.sim != nil:
		return "simulated"
	default:
		return "hci0"
	}
}

func getTransport(t transport) (Socket, error) {
	switch {
	case t.hci != nil:
		return socket.NewSocket(t.hci.id)

	case t.h4socket != nil:
		return h4.NewSocket(t.h4socket.addr, t.h4socket.timeout)

	case t.h4uart != nil:
		so := h4.DefaultSerialOptions()
		so.PortName = t.h4uart.path
		if t.h4uart.baudRate > 0 {
			so.BaudRate = uint(t.h4uart.baudRate)
		}
		return h4.NewSerial(so)

	case t.sim != nil:
		return sim.New(t.sim.period), nil

	default:
		return socket.NewSocket(0)
	}
}
