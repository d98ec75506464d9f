package hci

import (
	"github.com/rigado/barnowl"
)

// Translator attributes advertising reports to the receiver of their origin.
type Translator struct {
	reg *Registry
}

func NewTranslator(reg *Registry) *Translator {
	return &Translator{reg: reg}
}

// Translate builds a raddec from the report. It returns false when the
// origin's controller address isn't known yet.
func (t *Translator) Translate(p *AdvertisingReport) (*barnowl.Raddec, bool) {
	rx, ok := t.reg.Resolve(p.Origin())
	if !ok {
		return nil, false
	}

	return &barnowl.Raddec{
		TransmitterID:     p.TransmitterID,
		TransmitterIDType: p.TransmitterIDType,
		ReceiverID:        rx.ID,
		ReceiverIDType:    rx.Type,
		RSSISignature: []barnowl.RSSISample{{
			ReceiverID:     rx.ID,
			ReceiverIDType: rx.Type,
			RSSI:           int(p.RSSI),
		}},
		Packets:   []string{p.RawPDU},
		Timestamp: p.Time(),
		Origin:    p.Origin(),
	}, true
}
