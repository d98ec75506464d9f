package hci

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rigado/barnowl"
	"github.com/rigado/barnowl/linux/hci/cmd"
	"github.com/rigado/barnowl/linux/hci/evt"
	"github.com/rigado/barnowl/linux/hci/socket"
)

// Command ...
type Command interface {
	OpCode() int
	Len() int
	Marshal([]byte) error
}

// Transport is the command side of an HCI device.
type Transport interface {
	io.Writer

	// Up reports whether the device is up.
	Up() bool
}

// Filterer is implemented by transports that can restrict which packets
// they deliver.
type Filterer interface {
	SetFilter(socket.Filter) error
}

// State of a Controller.
type State int

const (
	StateClosed State = iota
	StateOpening
	StateScanning
	StateResetting
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpening:
		return "opening"
	case StateScanning:
		return "scanning"
	case StateResetting:
		return "resetting"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type job int

const (
	jobOpen job = iota
	jobKick
)

// Controller drives one device into continuous scanning. Commands are
// written without waiting for their completion; completions come back
// through the decoder. Every write goes through a single lane so the open
// sequence is never interleaved with a kick.
type Controller struct {
	origin string
	t      Transport
	params *params
	logger barnowl.Logger

	errorHandler func(error)

	mu            sync.Mutex
	state         State
	pendingResets int
	aborted       bool

	lane      chan job
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

func newController(origin string, t Transport, p *params, errorHandler func(error)) *Controller {
	return &Controller{
		origin:       origin,
		t:            t,
		params:       p,
		logger:       logger.ChildLogger(map[string]interface{}{"origin": origin}),
		errorHandler: errorHandler,
		lane:         make(chan job, chCmdLaneSize),
		done:         make(chan struct{}),
	}
}

// Origin returns the origin of the controlled device.
func (c *Controller) Origin() string {
	return c.origin
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Open starts the lane, issues the open sequence and starts the kick timer.
func (c *Controller) Open() error {
	kick := c.params.kickInterval()

	c.mu.Lock()
	if !c.isOpen() {
		c.mu.Unlock()
		return errors.New("controller closed")
	}
	if c.state != StateClosed {
		c.mu.Unlock()
		return errors.Errorf("controller already %v", c.state)
	}
	c.state = StateOpening
	c.wg.Add(1)
	if kick > 0 {
		c.wg.Add(1)
	}
	c.mu.Unlock()

	// filter before the first command so the reset completion isn't missed
	if err := c.setFilter(); err != nil {
		c.dispatchError(err)
	}

	go c.laneLoop()
	c.enqueue(jobOpen)

	if kick > 0 {
		go c.kickLoop(kick)
	}
	return nil
}

// OnReset handles a reset notification. Resets caused by our own Reset
// command are absorbed; anything else re-runs the open sequence.
func (c *Controller) OnReset(origin string) {
	if origin != c.origin {
		return
	}

	c.mu.Lock()
	if c.pendingResets > 0 {
		c.pendingResets--
		c.mu.Unlock()
		return
	}
	if c.state == StateClosed {
		c.mu.Unlock()
		return
	}
	c.state = StateResetting
	c.mu.Unlock()

	c.logger.Warn("controller reset, reinitializing")
	c.enqueue(jobOpen)
}

// Close stops the kick timer and the lane. No command is written after
// Close returns. It is safe to call from any goroutine, more than once.
func (c *Controller) Close() error {
	c.mu.Lock()
	c.closeOnce.Do(func() {
		close(c.done)
	})
	c.mu.Unlock()
	c.wg.Wait()

	c.mu.Lock()
	c.state = StateClosed
	c.mu.Unlock()
	return nil
}

func (c *Controller) isOpen() bool {
	select {
	case <-c.done:
		return false
	default:
		return true
	}
}

func (c *Controller) enqueue(j job) {
	select {
	case <-c.done:
	case c.lane <- j:
	}
}

func (c *Controller) laneLoop() {
	defer c.wg.Done()

	for {
		select {
		case <-c.done:
			return
		case j := <-c.lane:
			switch j {
			case jobOpen:
				c.runOpen()
			case jobKick:
				c.runKick()
			}
		}
	}
}

func (c *Controller) kickLoop(d time.Duration) {
	defer c.wg.Done()

	t := time.NewTicker(d)
	defer t.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-t.C:
			c.enqueue(jobKick)
		}
	}
}

// runOpen writes the full open sequence, stopping at the first failure.
func (c *Controller) runOpen() {
	c.logger.Info("hci reset")
	c.mu.Lock()
	c.aborted = false
	c.mu.Unlock()

	seq := []func() error{
		c.reset,
		func() error { return c.send(&cmd.SetEventMask{EventMask: defaultEventMask}) },
		func() error { return c.send(&cmd.LESetEventMask{LEEventMask: defaultLEEventMask}) },
		c.setFilter,
		func() error {
			se := c.params.scanEnable(false)
			return c.send(&se)
		},
		func() error {
			sp := c.params.scanParams(c.logger)
			return c.send(&sp)
		},
		func() error {
			se := c.params.scanEnable(true)
			return c.send(&se)
		},
		func() error { return c.send(&cmd.ReadBDADDR{}) },
	}

	for _, f := range seq {
		if !c.isOpen() {
			return
		}
		if err := f(); err != nil {
			c.mu.Lock()
			c.aborted = true
			c.mu.Unlock()
			c.dispatchError(errors.Wrap(err, "open sequence aborted"))
			return
		}
	}

	c.mu.Lock()
	if c.state != StateClosed {
		c.state = StateScanning
	}
	c.mu.Unlock()
}

// runKick re-enables scanning, or retries an aborted open sequence.
func (c *Controller) runKick() {
	c.mu.Lock()
	state, aborted := c.state, c.aborted
	c.mu.Unlock()

	if state != StateScanning && !aborted {
		return
	}
	if !c.t.Up() {
		c.logger.Debug("device down, skipping scan kick")
		return
	}
	if state != StateScanning {
		c.runOpen()
		return
	}

	se := c.params.scanEnable(true)
	if err := c.send(&se); err != nil {
		c.dispatchError(errors.Wrap(err, "scan kick"))
	}
}

func (c *Controller) reset() error {
	c.mu.Lock()
	c.pendingResets++
	c.mu.Unlock()

	err := c.send(&cmd.Reset{})
	if err != nil {
		c.mu.Lock()
		c.pendingResets--
		c.mu.Unlock()
	}
	return err
}

func (c *Controller) setFilter() error {
	f, ok := c.t.(Filterer)
	if !ok {
		return nil
	}

	flt := socket.NewFilter(
		[]uint8{PktTypeEvent},
		[]uint8{evt.CommandCompleteCode, evt.CommandStatusCode, evt.LEMetaCode},
	)
	return errors.Wrap(f.SetFilter(flt), "can't set filter")
}

func (c *Controller) send(cm Command) error {
	b, err := marshalCommand(cm)
	if err != nil {
		return err
	}

	if !c.isOpen() {
		return errors.New("controller closed")
	}

	n, err := c.t.Write(b)
	switch {
	case err != nil:
		return errors.Wrapf(err, "can't write cmd 0x%04x", cm.OpCode())
	case n != len(b):
		return errors.Errorf("short write of cmd 0x%04x: %v/%v", cm.OpCode(), n, len(b))
	}

	c.logger.Debugf("sent %v", cm)
	return nil
}

func (c *Controller) dispatchError(e error) {
	switch {
	case c.errorHandler == nil:
		c.logger.Error(e)
	case !c.isOpen():
		//don't dispatch
		c.logger.Debug("closing: ", e)
	default:
		c.errorHandler(e)
	}
}

// marshalCommand encodes c as a command packet: indicator, opcode (LE),
// parameter length, parameters.
func marshalCommand(c Command) ([]byte, error) {
	if c.Len() > maxHciPayload {
		return nil, fmt.Errorf("invalid length %v; max hci payload length is %v", c.Len(), maxHciPayload)
	}

	b := make([]byte, cmdHeaderLength+c.Len())
	b[0] = PktTypeCommand
	b[1] = byte(c.OpCode())
	b[2] = byte(c.OpCode() >> 8)
	b[3] = byte(c.Len())
	if err := c.Marshal(b[cmdHeaderLength:]); err != nil {
		return nil, errors.Wrap(err, "hci: failed to marshal cmd")
	}
	return b, nil
}
