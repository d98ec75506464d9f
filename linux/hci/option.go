package hci

import (
	"time"

	"github.com/pkg/errors"
)

// SetScanParams overrides default scanning parameters. Out of range
// durations are clamped when the scan parameters are sent.
func (h *HCI) SetScanParams(active bool, interval, window time.Duration) error {
	h.params.Lock()
	defer h.params.Unlock()
	h.params.active = active
	h.params.interval = interval
	h.params.window = window
	return nil
}

// SetFilterDuplicates enables or disables controller duplicate filtering.
func (h *HCI) SetFilterDuplicates(filter bool) error {
	h.params.Lock()
	defer h.params.Unlock()
	h.params.filterDup = filter
	return nil
}

// SetKickInterval sets the scan kick period. Zero disables it.
func (h *HCI) SetKickInterval(d time.Duration) error {
	if d < 0 {
		return errors.Errorf("invalid kick interval %v", d)
	}
	h.params.Lock()
	defer h.params.Unlock()
	h.params.kick = d
	return nil
}

// SetErrorHandler ...
func (h *HCI) SetErrorHandler(handler func(error)) error {
	h.errorHandler = handler
	return nil
}

// SetTransportHCISocket sets HCI device for hci socket
func (h *HCI) SetTransportHCISocket(id int) error {
	h.transport = transport{
		hci: &transportHci{id},
	}
	return nil
}

// SetTransportH4Socket sets h4 socket server
func (h *HCI) SetTransportH4Socket(addr string, timeout time.Duration) error {
	h.transport = transport{
		h4socket: &transportH4Socket{addr, timeout},
	}
	return nil
}

// SetTransportH4Uart sets h4 uart path
func (h *HCI) SetTransportH4Uart(path string, baudRate int) error {
	h.transport = transport{
		h4uart: &transportH4Uart{path, baudRate},
	}
	return nil
}

// SetTransportSimulated replaces the device with a simulated controller
// reporting every period.
func (h *HCI) SetTransportSimulated(period time.Duration) error {
	h.transport = transport{
		sim: &transportSim{period},
	}
	return nil
}
