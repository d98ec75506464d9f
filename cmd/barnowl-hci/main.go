package main

import (
	"bufio"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/rigado/barnowl"
	"github.com/rigado/barnowl/linux"
	"github.com/rigado/barnowl/linux/hci"
	"github.com/urfave/cli"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func main() {
	if err := newApp().Run(os.Args); err != nil {
		barnowl.GetLogger().Error(err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "barnowl-hci"
	app.Usage = "print BLE advertising observations from local HCI devices as JSON lines"
	app.Flags = []cli.Flag{
		cli.IntFlag{Name: "device, d", Value: -1, Usage: "hci device index, -1 for the first available"},
		cli.StringFlag{Name: "h4-uart", Usage: "H4 UART path"},
		cli.IntFlag{Name: "baud", Value: barnowl.DefaultH4BaudRate, Usage: "H4 UART baud rate"},
		cli.StringFlag{Name: "h4-socket", Usage: "H4 TCP server address"},
		cli.DurationFlag{Name: "simulate", Usage: "use a simulated controller reporting at this period"},
		cli.StringFlag{Name: "origin", Usage: "origin name, defaults to the transport name"},
		cli.StringFlag{Name: "config, c", Usage: "YAML config file; overrides the transport flags"},
		cli.BoolFlag{Name: "passive", Usage: "passive scanning (no scan requests)"},
		cli.DurationFlag{Name: "interval", Value: barnowl.DefaultScanInterval, Usage: "scan interval"},
		cli.DurationFlag{Name: "window", Value: barnowl.DefaultScanWindow, Usage: "scan window"},
		cli.BoolFlag{Name: "no-filter-duplicates", Usage: "report every advertisement, not only the first per scan"},
		cli.DurationFlag{Name: "kick", Value: barnowl.DefaultKickInterval, Usage: "scan enable period, 0 to disable"},
		cli.BoolFlag{Name: "infrastructure, i", Usage: "also print controller address messages"},
		cli.BoolFlag{Name: "debug", Usage: "debug logging"},
	}
	app.Action = run
	return app
}

func run(c *cli.Context) error {
	var cfg *barnowl.Config
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = barnowl.LoadConfig(path); err != nil {
			return err
		}
	}

	level := "info"
	switch {
	case c.Bool("debug"):
		level = "debug"
	case cfg != nil && cfg.LogLevel != "":
		level = cfg.LogLevel
	}
	if err := barnowl.SetLogLevel(level); err != nil {
		return errors.Wrap(err, "bad log level")
	}

	out := newPrinter(os.Stdout)
	h := linux.Handler{Raddec: out.raddec}
	if c.Bool("infrastructure") {
		h.InfrastructureMessage = out.infrastructure
	}

	fatal := make(chan error, 1)
	b := linux.New(h, barnowl.OptErrorHandler(func(err error) {
		barnowl.GetLogger().Error(err)
		select {
		case fatal <- err:
		default:
		}
	}))
	defer b.Close()

	if cfg != nil && len(cfg.Listeners) > 0 {
		for _, l := range cfg.Listeners {
			if err := b.AddListener(l.Origin, l.Options()...); err != nil {
				return err
			}
		}
	} else {
		if err := b.AddListener(c.String("origin"), flagOptions(c)...); err != nil {
			return err
		}
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		barnowl.GetLogger().Infof("got %v, exiting", s)
		return nil
	case err := <-fatal:
		return err
	}
}

func flagOptions(c *cli.Context) []barnowl.Option {
	var opts []barnowl.Option
	switch {
	case c.Duration("simulate") > 0:
		opts = append(opts, barnowl.OptTransportSimulated(c.Duration("simulate")))
	case c.String("h4-uart") != "":
		opts = append(opts, barnowl.OptTransportH4Uart(c.String("h4-uart"), c.Int("baud")))
	case c.String("h4-socket") != "":
		opts = append(opts, barnowl.OptTransportH4Socket(c.String("h4-socket"), barnowl.DefaultH4Timeout))
	default:
		opts = append(opts, barnowl.OptTransportHCISocket(c.Int("device")))
	}

	return append(opts,
		barnowl.OptScanParams(!c.Bool("passive"), c.Duration("interval"), c.Duration("window")),
		barnowl.OptFilterDuplicates(!c.Bool("no-filter-duplicates")),
		barnowl.OptKickInterval(c.Duration("kick")),
	)
}

type infrastructureMessage struct {
	Type         string                 `json:"type"`
	Origin       string                 `json:"origin"`
	ReceiverID   string                 `json:"receiverId"`
	ReceiverType barnowl.IdentifierType `json:"receiverIdType"`
	Timestamp    time.Time              `json:"timestamp"`
}

// printer writes one JSON document per line. Raddecs arrive from every
// listener goroutine.
type printer struct {
	mu sync.Mutex
	w  *bufio.Writer
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: bufio.NewWriter(w)}
}

func (p *printer) raddec(r *barnowl.Raddec) {
	b, err := r.ToJSON()
	if err != nil {
		barnowl.GetLogger().Errorf("can't encode raddec: %v", err)
		return
	}
	p.writeLine(b)
}

func (p *printer) infrastructure(m *hci.ControllerAddress) {
	p.write(infrastructureMessage{
		Type:         "controllerAddress",
		Origin:       m.Origin(),
		ReceiverID:   m.Address,
		ReceiverType: barnowl.IdentifierTypeEUI48,
		Timestamp:    m.Time(),
	})
}

func (p *printer) write(v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		barnowl.GetLogger().Errorf("can't encode %T: %v", v, err)
		return
	}

	p.writeLine(b)
}

func (p *printer) writeLine(b []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.w.Write(b)
	p.w.WriteByte('\n')
	p.w.Flush()
}
