package hci

import (
	"io"
	"sync"
	"time"

	"github.com/rigado/barnowl"
	"github.com/rigado/barnowl/linux/hci/socket"
)

// fakeSocket records written commands and serves queued packets to readers.
type fakeSocket struct {
	mu       sync.Mutex
	writes   [][]byte
	up       bool
	filters  []socket.Filter
	writeErr error

	// onWrite is called for every written command, outside the lock
	onWrite func(b []byte)

	rx        chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newFakeSocket() *fakeSocket {
	return &fakeSocket{
		up:   true,
		rx:   make(chan []byte, 64),
		done: make(chan struct{}),
	}
}

func (f *fakeSocket) Write(b []byte) (int, error) {
	f.mu.Lock()
	if f.writeErr != nil {
		err := f.writeErr
		f.mu.Unlock()
		return 0, err
	}
	c := make([]byte, len(b))
	copy(c, b)
	f.writes = append(f.writes, c)
	cb := f.onWrite
	f.mu.Unlock()

	if cb != nil {
		cb(c)
	}
	return len(b), nil
}

func (f *fakeSocket) Read(b []byte) (int, error) {
	select {
	case <-f.done:
		return 0, io.EOF
	case p := <-f.rx:
		return copy(b, p), nil
	case <-time.After(10 * time.Millisecond):
		return 0, nil
	}
}

func (f *fakeSocket) Close() error {
	f.closeOnce.Do(func() { close(f.done) })
	return nil
}

func (f *fakeSocket) Up() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.up
}

func (f *fakeSocket) SetFilter(flt socket.Filter) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, flt)
	return nil
}

func (f *fakeSocket) setUp(up bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.up = up
}

func (f *fakeSocket) setWriteErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeErr = err
}

func (f *fakeSocket) written() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]byte, len(f.writes))
	copy(out, f.writes)
	return out
}

// opcodes returns the opcode of every written command.
func (f *fakeSocket) opcodes() []int {
	var oo []int
	for _, b := range f.written() {
		oo = append(oo, int(b[1])|int(b[2])<<8)
	}
	return oo
}

func (f *fakeSocket) filterCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.filters)
}

// recorder is an Emitter that keeps everything it is given.
type recorder struct {
	mu      sync.Mutex
	raddecs []*barnowl.Raddec
	infra   []*ControllerAddress
}

func (r *recorder) OnRaddec(rd *barnowl.Raddec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.raddecs = append(r.raddecs, rd)
}

func (r *recorder) OnInfrastructureMessage(m *ControllerAddress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.infra = append(r.infra, m)
}

func (r *recorder) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.raddecs), len(r.infra)
}

// resetCounter is a ResetHandler counting notifications.
type resetCounter struct {
	mu sync.Mutex
	n  map[string]int
}

func (c *resetCounter) OnReset(origin string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.n == nil {
		c.n = map[string]int{}
	}
	c.n[origin]++
}

func (c *resetCounter) count(origin string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n[origin]
}
