package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rigado/barnowl"
	"github.com/rigado/barnowl/linux/hci"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
)

func TestPrinterLines(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf)
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	p.infrastructure(hci.NewControllerAddress("hci0", ts, "001bc5094000"))
	p.raddec(&barnowl.Raddec{
		TransmitterID:     "fee150bada55",
		TransmitterIDType: barnowl.IdentifierTypeRND48,
		ReceiverID:        "001bc5094000",
		ReceiverIDType:    barnowl.IdentifierTypeEUI48,
		RSSISignature: []barnowl.RSSISample{{
			ReceiverID: "001bc5094000", ReceiverIDType: barnowl.IdentifierTypeEUI48, RSSI: -70,
		}},
		Packets:   []string{"420955daba50e1fe02010"},
		Timestamp: ts,
		Origin:    "hci0",
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	m := map[string]interface{}{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &m))
	assert.Equal(t, "controllerAddress", m["type"])
	assert.Equal(t, "001bc5094000", m["receiverId"])
	assert.Equal(t, "hci0", m["origin"])

	m = map[string]interface{}{}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &m))
	assert.Equal(t, "fee150bada55", m["transmitterId"])
	assert.EqualValues(t, 3, m["transmitterIdType"])
	assert.Len(t, m["rssiSignature"], 1)
}

// transportRecorder keeps the transport the flags select.
type transportRecorder struct {
	hci      *int
	h4Socket string
	sim      time.Duration
}

func (r *transportRecorder) SetScanParams(bool, time.Duration, time.Duration) error { return nil }
func (r *transportRecorder) SetFilterDuplicates(bool) error { return nil }
func (r *transportRecorder) SetKickInterval(time.Duration) error { return nil }
func (r *transportRecorder) SetErrorHandler(func(error)) error { return nil }
func (r *transportRecorder) SetTransportHCISocket(id int) error { r.hci = &id; return nil }
func (r *transportRecorder) SetTransportH4Uart(string, int) error { return nil }
func (r *transportRecorder) SetTransportH4Socket(addr string, _ time.Duration) error {
	r.h4Socket = addr
	return nil
}
func (r *transportRecorder) SetTransportSimulated(d time.Duration) error {
	r.sim = d
	return nil
}

func transportFor(t *testing.T, args ...string) *transportRecorder {
	r := &transportRecorder{}
	app := newApp()
	app.Action = func(c *cli.Context) error {
		for _, opt := range flagOptions(c) {
			require.NoError(t, opt(r))
		}
		return nil
	}
	require.NoError(t, app.Run(append([]string{"barnowl-hci"}, args...)))
	return r
}

func TestFlagTransport(t *testing.T) {
	r := transportFor(t)
	require.NotNil(t, r.hci)
	assert.Equal(t, -1, *r.hci)

	r = transportFor(t, "--device", "1")
	require.NotNil(t, r.hci)
	assert.Equal(t, 1, *r.hci)

	r = transportFor(t, "--h4-socket", "127.0.0.1:9000")
	assert.Nil(t, r.hci)
	assert.Equal(t, "127.0.0.1:9000", r.h4Socket)

	r = transportFor(t, "--simulate", "1s")
	assert.Nil(t, r.hci)
	assert.Equal(t, time.Second, r.sim)
}
