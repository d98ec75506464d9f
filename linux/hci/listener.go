package hci

import (
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
)

type rxPacket struct {
	b []byte
	t time.Time
}

// Listener reads HCI packets from a transport, stamps them with their
// capture time and hands them to a Dispatcher under its origin.
type Listener struct {
	origin string
	r      io.Reader
	d      *Dispatcher

	errorHandler func(error)

	// onClosed runs when the transport ends without Close being called
	onClosed func()

	sktRxChan chan rxPacket
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup

	// now is replaced in tests
	now func() time.Time
}

func NewListener(origin string, r io.Reader, d *Dispatcher, errorHandler func(error)) *Listener {
	return &Listener{
		origin:       origin,
		r:            r,
		d:            d,
		errorHandler: errorHandler,
		sktRxChan:    make(chan rxPacket, sktRxChanSize),
		done:         make(chan struct{}),
		now:          time.Now,
	}
}

// Start launches the read and process loops.
func (l *Listener) Start() {
	l.wg.Add(2)
	go l.sktReadLoop()
	go l.sktProcessLoop()
}

// Close asks both loops to stop. A loop blocked in Read ends when the read
// times out or the transport is closed; use Wait to join them. A transport
// that ends before Close is reported to the error handler.
func (l *Listener) Close() {
	l.closeOnce.Do(func() {
		close(l.done)
	})
}

// Wait blocks until both loops have returned.
func (l *Listener) Wait() {
	l.wg.Wait()
}

func (l *Listener) isOpen() bool {
	select {
	case <-l.done:
		return false
	default:
		return true
	}
}

func (l *Listener) sktReadLoop() {
	defer func() {
		logger.Debugf("%v: sktReadLoop done", l.origin)
		close(l.sktRxChan)
		l.wg.Done()
	}()

	b := make([]byte, sktBufSize)

	for {
		n, err := l.r.Read(b)

		switch {
		case !l.isOpen():
			return

		case n == 0 && err == nil:
			// read timeout
			continue

		case errors.Cause(err) == io.EOF:
			logger.Infof("%v: transport closed", l.origin)
			l.transportClosed(errors.Wrapf(err, "%v: transport closed", l.origin))
			return

		case err != nil:
			l.transportClosed(errors.Wrapf(err, "%v: skt read error", l.origin))
			return

		default:
			p := make([]byte, n)
			copy(p, b)
			select {
			case l.sktRxChan <- rxPacket{b: p, t: l.now()}:
			case <-l.done:
				return
			}
		}
	}
}

func (l *Listener) sktProcessLoop() {
	defer l.wg.Done()

	for {
		select {
		case <-l.done:
			return

		case p, ok := <-l.sktRxChan:
			if !ok {
				return
			}
			l.d.HandleHCIData(p.b, l.origin, p.t)
		}
	}
}

func (l *Listener) transportClosed(err error) {
	l.Close()
	l.dispatchError(err)
	if l.onClosed != nil {
		l.onClosed()
	}
}

func (l *Listener) dispatchError(e error) {
	switch {
	case l.errorHandler == nil:
		logger.Error(e)
	default:
		l.errorHandler(e)
	}
}
