package hci

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/rigado/barnowl"
)

// NewHCI returns a hci device feeding d under origin. An empty origin is
// replaced by the transport name ("hci0", the UART path or the TCP
// address). Device -1 is the first available hci device; with an explicit
// origin it is looked up when the socket opens.
func NewHCI(d *Dispatcher, origin string, opts ...barnowl.Option) (*HCI, error) {
	h := &HCI{
		origin:     origin,
		dispatcher: d,
	}
	h.params.init()
	if err := h.Option(opts...); err != nil {
		return nil, errors.Wrap(err, "can't set options")
	}
	if h.origin == "" {
		t, err := h.transport.resolve()
		if err != nil {
			return nil, err
		}
		h.transport = t
		h.origin = h.transport.name()
	}

	return h, nil
}

// HCI is one observed device: its transport, the controller keeping it
// scanning and the listener reading its packets.
type HCI struct {
	origin string
	params params

	transport transport
	skt       Socket

	dispatcher *Dispatcher
	ctrl       *Controller
	listener   *Listener

	//error handler
	errorHandler func(error)

	// called once the transport ends on its own
	closeHandler func()

	muClose sync.Mutex
	opened  bool
	closed  bool
}

// Option sets the options specified.
func (h *HCI) Option(opts ...barnowl.Option) error {
	var err error
	for _, opt := range opts {
		err = opt(h)
		if err != nil {
			return err
		}
	}
	return nil
}

// Origin ...
func (h *HCI) Origin() string {
	return h.origin
}

// Controller returns the device controller, nil before Init.
func (h *HCI) Controller() *Controller {
	return h.ctrl
}

// Init opens the transport, starts listening and runs the open sequence.
func (h *HCI) Init() error {
	h.muClose.Lock()
	defer h.muClose.Unlock()

	switch {
	case h.closed:
		return errors.New("hci closed")
	case h.opened:
		return errors.New("hci already initialized")
	}

	if h.skt == nil {
		skt, err := getTransport(h.transport)
		if err != nil {
			return errors.Wrapf(err, "%v: can't open transport", h.origin)
		}
		h.skt = skt
	}

	h.listener = NewListener(h.origin, h.skt, h.dispatcher, h.dispatchError)
	h.ctrl = newController(h.origin, h.skt, &h.params, h.dispatchError)
	h.listener.onClosed = h.transportClosed
	h.dispatcher.Register(h.origin, h.ctrl)

	h.listener.Start()
	if err := h.ctrl.Open(); err != nil {
		h.shutdown()
		return err
	}

	h.opened = true
	return nil
}

// Close stops the controller, then the listener, then closes the transport.
func (h *HCI) Close() error {
	h.muClose.Lock()
	defer h.muClose.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true

	if !h.opened {
		return nil
	}
	return h.shutdown()
}

func (h *HCI) shutdown() error {
	h.ctrl.Close()
	h.dispatcher.Unregister(h.origin, h.ctrl)
	h.listener.Close()
	err := h.skt.Close()
	h.listener.Wait()
	return errors.Wrapf(err, "%v: can't close transport", h.origin)
}

// SetCloseHandler sets f to be called when the transport ends without
// Close, after the controller has stopped.
func (h *HCI) SetCloseHandler(f func()) {
	h.closeHandler = f
}

// transportClosed runs on the listener goroutine.
func (h *HCI) transportClosed() {
	h.ctrl.Close()
	h.dispatcher.Unregister(h.origin, h.ctrl)
	if err := h.skt.Close(); err != nil {
		logger.Debugf("%v: %v", h.origin, err)
	}
	if h.closeHandler != nil {
		h.closeHandler()
	}
}

func (h *HCI) dispatchError(e error) {
	switch {
	case h.errorHandler == nil:
		logger.Error(e)
	default:
		h.errorHandler(e)
	}
}
