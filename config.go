package barnowl

import (
	"io/ioutil"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the file form of the listener options. Durations are in
// milliseconds.
type Config struct {
	LogLevel  string           `yaml:"logLevel"`
	Listeners []ListenerConfig `yaml:"listeners"`
}

// ListenerConfig describes one HCI data stream.
type ListenerConfig struct {
	Origin string `yaml:"origin"`

	Device   *int   `yaml:"device"`
	H4Uart   string `yaml:"h4Uart"`
	BaudRate int    `yaml:"baudRate"`
	H4Socket string `yaml:"h4Socket"`

	// SimulatedMillis selects the simulated controller, reporting at this
	// period.
	SimulatedMillis int `yaml:"simulatedMillis"`

	Active           *bool   `yaml:"active"`
	IntervalMillis   float64 `yaml:"scanIntervalMillis"`
	WindowMillis     float64 `yaml:"scanWindowMillis"`
	FilterDuplicates *bool   `yaml:"filterDuplicates"`
	KickMillis       *int    `yaml:"kickMillis"`
}

const (
	DefaultScanActive   = true
	DefaultScanInterval = 10 * time.Millisecond
	DefaultScanWindow   = 10 * time.Millisecond
	DefaultKickInterval = 60 * time.Second
	DefaultH4BaudRate   = 1000000
	DefaultH4Timeout    = 2 * time.Second
)

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (*Config, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "can't read config")
	}
	return ParseConfig(b)
}

// ParseConfig decodes YAML config bytes.
func ParseConfig(b []byte) (*Config, error) {
	c := &Config{}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, errors.Wrap(err, "can't parse config")
	}
	for i, l := range c.Listeners {
		n := 0
		if l.Device != nil {
			n++
		}
		if l.H4Uart != "" {
			n++
		}
		if l.H4Socket != "" {
			n++
		}
		if l.SimulatedMillis != 0 {
			n++
		}
		if n > 1 {
			return nil, errors.Errorf("listener %v: more than one transport", i)
		}
	}
	return c, nil
}

// Options converts the listener config into device options. Unset fields
// keep the defaults.
func (l ListenerConfig) Options() []Option {
	var opts []Option

	switch {
	case l.SimulatedMillis > 0:
		opts = append(opts, OptTransportSimulated(time.Duration(l.SimulatedMillis)*time.Millisecond))
	case l.H4Uart != "":
		baud := l.BaudRate
		if baud == 0 {
			baud = DefaultH4BaudRate
		}
		opts = append(opts, OptTransportH4Uart(l.H4Uart, baud))
	case l.H4Socket != "":
		opts = append(opts, OptTransportH4Socket(l.H4Socket, DefaultH4Timeout))
	case l.Device != nil:
		opts = append(opts, OptTransportHCISocket(*l.Device))
	}

	active := DefaultScanActive
	if l.Active != nil {
		active = *l.Active
	}
	interval, window := DefaultScanInterval, DefaultScanWindow
	if l.IntervalMillis != 0 {
		interval = millis(l.IntervalMillis)
	}
	if l.WindowMillis != 0 {
		window = millis(l.WindowMillis)
	}
	opts = append(opts, OptScanParams(active, interval, window))

	if l.FilterDuplicates != nil {
		opts = append(opts, OptFilterDuplicates(*l.FilterDuplicates))
	}
	if l.KickMillis != nil {
		opts = append(opts, OptKickInterval(time.Duration(*l.KickMillis)*time.Millisecond))
	}
	return opts
}

func millis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
