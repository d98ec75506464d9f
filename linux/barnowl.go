package linux

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/rigado/barnowl"
	"github.com/rigado/barnowl/linux/hci"
)

var logger = barnowl.GetLogger().ChildLogger(map[string]interface{}{"pkg": "linux"})

// Handler receives the hub output. Either func may be nil.
type Handler struct {
	Raddec                func(r *barnowl.Raddec)
	InfrastructureMessage func(m *hci.ControllerAddress)
}

// Barnowl collects HCI data from any number of listeners into one stream of
// raddecs. All listeners share one dispatcher and address registry.
type Barnowl struct {
	handler  Handler
	defaults []barnowl.Option

	dispatcher *hci.Dispatcher

	mu        sync.Mutex
	listeners map[string]*hci.HCI
	closed    bool
}

// New returns a hub. opts are applied to every listener before the
// listener's own options.
func New(h Handler, opts ...barnowl.Option) *Barnowl {
	b := &Barnowl{
		handler:   h,
		defaults:  opts,
		listeners: map[string]*hci.HCI{},
	}
	b.dispatcher = hci.NewDispatcher(b)
	return b
}

// AddListener opens a device and starts feeding its packets to the hub.
// An empty origin is replaced by the transport name. A listener whose
// transport ends on its own is dropped, and its origin can be added again.
func (b *Barnowl) AddListener(origin string, opts ...barnowl.Option) error {
	all := make([]barnowl.Option, 0, len(b.defaults)+len(opts))
	all = append(all, b.defaults...)
	all = append(all, opts...)

	d, err := hci.NewHCI(b.dispatcher, origin, all...)
	if err != nil {
		return err
	}
	d.SetCloseHandler(func() { b.drop(d) })

	// reserve the origin while the device opens
	b.mu.Lock()
	switch _, ok := b.listeners[d.Origin()]; {
	case b.closed:
		b.mu.Unlock()
		return errors.New("barnowl closed")
	case ok:
		b.mu.Unlock()
		return errors.Errorf("listener %v already added", d.Origin())
	}
	b.listeners[d.Origin()] = d
	b.mu.Unlock()

	if err := d.Init(); err != nil {
		b.drop(d)
		return errors.Wrapf(err, "can't init %v", d.Origin())
	}

	logger.Infof("listening on %v", d.Origin())
	return nil
}

func (b *Barnowl) drop(d *hci.HCI) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.listeners[d.Origin()] == d {
		delete(b.listeners, d.Origin())
		logger.Infof("%v: listener removed", d.Origin())
	}
}

// Origins lists the active listeners.
func (b *Barnowl) Origins() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	oo := make([]string, 0, len(b.listeners))
	for o := range b.listeners {
		oo = append(oo, o)
	}
	return oo
}

// Close stops every listener. It returns the first close error.
func (b *Barnowl) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	ll := b.listeners
	b.listeners = map[string]*hci.HCI{}
	b.mu.Unlock()

	var first error
	for o, d := range ll {
		if err := d.Close(); err != nil {
			logger.Errorf("%v: %v", o, err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}

// OnRaddec implements hci.Emitter.
func (b *Barnowl) OnRaddec(r *barnowl.Raddec) {
	if b.handler.Raddec != nil {
		b.handler.Raddec(r)
	}
}

// OnInfrastructureMessage implements hci.Emitter.
func (b *Barnowl) OnInfrastructureMessage(m *hci.ControllerAddress) {
	if b.handler.InfrastructureMessage != nil {
		b.handler.InfrastructureMessage(m)
	}
}
