// Package sim provides a simulated HCI controller: it completes the
// commands a real controller would and reports one advertiser at a fixed
// period with a wandering signal strength.
package sim

import (
	"encoding/hex"
	"io"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/rigado/barnowl/linux/hci/cmd"
)

const (
	DefaultPeriod = time.Second

	defaultRSSI = -70
	minRSSI     = -90
	maxRSSI     = -50
	rssiDelta   = 5

	readTimeout = time.Second
	rxQueueSize = 16
)

var (
	// ADV_SCAN_IND from public address 11:22:33:44:55:66, rssi appended
	advertisement = mustHex("043e21020102006655443322111502010611074449555520657669746341796c656572")

	// controller address 00:00:00:00:00:00
	readBDADDRComplete = mustHex("040e0a01091000000000000000")
	resetComplete      = mustHex("040e0401030c00")
)

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

// Sim is a simulated controller usable as an HCI transport.
type Sim struct {
	period time.Duration

	mu   sync.Mutex
	rssi int
	rnd  *rand.Rand

	rx        chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// New starts a simulated controller reporting every period.
func New(period time.Duration) *Sim {
	if period <= 0 {
		period = DefaultPeriod
	}
	s := &Sim{
		period: period,
		rssi:   defaultRSSI,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		rx:     make(chan []byte, rxQueueSize),
		done:   make(chan struct{}),
	}
	go s.advLoop()
	return s
}

func (s *Sim) advLoop() {
	t := time.NewTicker(s.period)
	defer t.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-t.C:
			s.push(s.nextAdvertisement())
		}
	}
}

func (s *Sim) nextAdvertisement() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := make([]byte, 0, len(advertisement)+1)
	b = append(b, advertisement...)
	b = append(b, byte(int8(s.rssi)))

	s.rssi += rssiStep(s.rnd.Float64())
	switch {
	case s.rssi > maxRSSI:
		s.rssi = maxRSSI
	case s.rssi < minRSSI:
		s.rssi = minRSSI
	}
	return b
}

// rssiStep maps f in [0, 1) to a step in [-3, 2].
func rssiStep(f float64) int {
	return int(math.Floor(f*rssiDelta - rssiDelta/2.0))
}

func (s *Sim) push(b []byte) {
	select {
	case s.rx <- b:
	case <-s.done:
	default:
		// nobody reading, drop like a controller would
	}
}

// Write accepts one command packet.
func (s *Sim) Write(p []byte) (int, error) {
	if !s.isOpen() {
		return 0, io.EOF
	}
	if len(p) >= 3 {
		switch int(p[1]) | int(p[2])<<8 {
		case cmd.ResetOpCode:
			s.push(resetComplete)
		case cmd.ReadBDADDROpCode:
			s.push(readBDADDRComplete)
		}
	}
	return len(p), nil
}

// Read returns the next event, or 0, nil after a second without one.
func (s *Sim) Read(p []byte) (int, error) {
	select {
	case <-s.done:
		return 0, io.EOF
	case b := <-s.rx:
		return copy(p, b), nil
	case <-time.After(readTimeout):
		return 0, nil
	}
}

// Up reports whether the simulator is running.
func (s *Sim) Up() bool {
	return s.isOpen()
}

func (s *Sim) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	return nil
}

func (s *Sim) isOpen() bool {
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

func (s *Sim) String() string {
	return "simulated"
}
