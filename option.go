package barnowl

import (
	"time"
)

// DeviceOption is an interface which the device should implement to allow using configuration options
type DeviceOption interface {
	SetScanParams(active bool, interval, window time.Duration) error
	SetFilterDuplicates(bool) error
	SetKickInterval(time.Duration) error
	SetErrorHandler(handler func(error)) error

	SetTransportHCISocket(id int) error
	SetTransportH4Socket(addr string, timeout time.Duration) error
	SetTransportH4Uart(path string, baudRate int) error
	SetTransportSimulated(period time.Duration) error
}

// An Option is a configuration function, which configures the device.
type Option func(DeviceOption) error

// OptScanParams overrides the default scan type, interval and window.
// Out of range durations are clamped when the device opens.
func OptScanParams(active bool, interval, window time.Duration) Option {
	return func(opt DeviceOption) error {
		return opt.SetScanParams(active, interval, window)
	}
}

// OptFilterDuplicates controls controller side duplicate filtering.
func OptFilterDuplicates(filter bool) Option {
	return func(opt DeviceOption) error {
		return opt.SetFilterDuplicates(filter)
	}
}

// OptKickInterval sets how often scanning is re-enabled. Zero disables the kick.
func OptKickInterval(d time.Duration) Option {
	return func(opt DeviceOption) error {
		return opt.SetKickInterval(d)
	}
}

// OptErrorHandler sets error handler
func OptErrorHandler(handler func(error)) Option {
	return func(opt DeviceOption) error {
		return opt.SetErrorHandler(handler)
	}
}

// OptTransportHCISocket set hci socket transport
func OptTransportHCISocket(id int) Option {
	return func(opt DeviceOption) error {
		return opt.SetTransportHCISocket(id)
	}
}

// OptTransportH4Socket set h4 socket transport
func OptTransportH4Socket(addr string, timeout time.Duration) Option {
	return func(opt DeviceOption) error {
		return opt.SetTransportH4Socket(addr, timeout)
	}
}

// OptTransportH4Uart set h4 uart transport
func OptTransportH4Uart(path string, baudRate int) Option {
	return func(opt DeviceOption) error {
		return opt.SetTransportH4Uart(path, baudRate)
	}
}

// OptTransportSimulated replaces the device with a simulated controller
// that reports one advertiser every period.
func OptTransportSimulated(period time.Duration) Option {
	return func(opt DeviceOption) error {
		return opt.SetTransportSimulated(period)
	}
}
