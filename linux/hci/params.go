package hci

import (
	"math"
	"sync"
	"time"

	"github.com/rigado/barnowl"
	"github.com/rigado/barnowl/linux/hci/cmd"
)

const (
	AddressTypePublic           = 0
	AddressTypeRandom           = 1
	FilterPolicyAcceptAll       = 0
	FilterPolicyAcceptWhitelist = 1
	LEScanTypePassive           = 0
	LEScanTypeActive            = 1

	LEScanIntervalMin = 0x0004
	LEScanIntervalMax = 0x4000
	LEScanWindowMin   = 0x0004
	LEScanWindowMax   = 0x4000

	// scan timing unit [Vol 4, Part E, 7.8.10]
	scanUnit = 625 * time.Microsecond
)

type params struct {
	sync.RWMutex

	active    bool
	interval  time.Duration
	window    time.Duration
	filterDup bool
	kick      time.Duration
}

func (p *params) init() {
	p.active = barnowl.DefaultScanActive
	p.interval = barnowl.DefaultScanInterval
	p.window = barnowl.DefaultScanWindow
	p.filterDup = true
	p.kick = barnowl.DefaultKickInterval
}

// scanParams builds the Set Scan Parameters command, clamping interval and
// window into range.
func (p *params) scanParams(l barnowl.Logger) cmd.LESetScanParameters {
	p.RLock()
	defer p.RUnlock()

	typ := uint8(LEScanTypePassive)
	if p.active {
		typ = LEScanTypeActive
	}

	interval := ScanUnits(p.interval, LEScanIntervalMin, LEScanIntervalMax, "interval", l)
	window := ScanUnits(p.window, LEScanWindowMin, LEScanWindowMax, "window", l)
	if window > interval {
		l.Warnf("scan window 0x%04x > interval 0x%04x, using 0x%04x", window, interval, interval)
		window = interval
	}

	return cmd.LESetScanParameters{
		LEScanType:           typ,
		LEScanInterval:       interval,
		LEScanWindow:         window,
		OwnAddressType:       AddressTypePublic,
		ScanningFilterPolicy: FilterPolicyAcceptAll,
	}
}

func (p *params) scanEnable(enable bool) cmd.LESetScanEnable {
	p.RLock()
	defer p.RUnlock()

	c := cmd.LESetScanEnable{}
	if enable {
		c.LEScanEnable = 1
	}
	if p.filterDup {
		c.FilterDuplicates = 1
	}
	return c
}

func (p *params) kickInterval() time.Duration {
	p.RLock()
	defer p.RUnlock()
	return p.kick
}

// ScanUnits converts d to 0.625 ms units, clamped to [min, max]. Clamping
// is logged as a warning.
func ScanUnits(d time.Duration, min, max uint16, name string, l barnowl.Logger) uint16 {
	u := math.Round(float64(d) / float64(scanUnit))
	switch {
	case u < float64(min):
		l.Warnf("scan %v %v below minimum, using %v", name, d, time.Duration(min)*scanUnit)
		return min
	case u > float64(max):
		l.Warnf("scan %v %v above maximum, using %v", name, d, time.Duration(max)*scanUnit)
		return max
	default:
		return uint16(u)
	}
}
