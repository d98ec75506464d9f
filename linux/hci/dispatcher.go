package hci

import (
	"sync"
	"time"

	"github.com/rigado/barnowl"
)

// Emitter receives the output of a Dispatcher.
type Emitter interface {
	OnRaddec(r *barnowl.Raddec)
	OnInfrastructureMessage(m *ControllerAddress)
}

// ResetHandler is notified when the controller behind an origin resets.
type ResetHandler interface {
	OnReset(origin string)
}

// Dispatcher routes decoded packets: controller addresses update the
// registry, advertising reports become raddecs and resets go to the
// controller registered for the origin.
type Dispatcher struct {
	reg  *Registry
	tr   *Translator
	emit Emitter

	mu       sync.RWMutex
	handlers map[string]ResetHandler
}

func NewDispatcher(e Emitter) *Dispatcher {
	reg := NewRegistry()
	return &Dispatcher{
		reg:      reg,
		tr:       NewTranslator(reg),
		emit:     e,
		handlers: map[string]ResetHandler{},
	}
}

// Registry returns the address registry owned by the dispatcher.
func (d *Dispatcher) Registry() *Registry {
	return d.reg
}

// Register sets the reset handler for origin.
func (d *Dispatcher) Register(origin string, h ResetHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[origin] = h
}

// Unregister removes h as the reset handler for origin. A handler
// registered since for the same origin is kept.
func (d *Dispatcher) Unregister(origin string, h ResetHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.handlers[origin] == h {
		delete(d.handlers, origin)
	}
}

// HandleHCIData decodes b and dispatches every resulting packet.
func (d *Dispatcher) HandleHCIData(b []byte, origin string, t time.Time) {
	for _, p := range Decode(b, origin, t) {
		d.Dispatch(p)
	}
}

// Dispatch routes a single packet.
func (d *Dispatcher) Dispatch(p Packet) {
	switch p := p.(type) {
	case *ControllerAddress:
		d.reg.Update(p)
		logger.Infof("%v: controller address %v", p.Origin(), p.Address)
		d.emit.OnInfrastructureMessage(p)

	case *AdvertisingReport:
		r, ok := d.tr.Translate(p)
		if !ok {
			logger.Debugf("%v: no receiver yet, dropping adv from %v", p.Origin(), p.TransmitterID)
			return
		}
		d.emit.OnRaddec(r)

	case *ResetNotification:
		d.mu.RLock()
		h, ok := d.handlers[p.Origin()]
		d.mu.RUnlock()
		if !ok {
			logger.Warnf("%v: reset with no controller registered", p.Origin())
			return
		}
		h.OnReset(p.Origin())

	default:
		logger.Errorf("unhandled packet type %T", p)
	}
}
