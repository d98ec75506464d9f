package hci

import (
	"fmt"
	"time"

	"github.com/rigado/barnowl"
)

// Packet is a decoded HCI packet. The concrete type is one of
// *AdvertisingReport, *ControllerAddress or *ResetNotification.
type Packet interface {
	Origin() string
	Time() time.Time

	packet()
}

type header struct {
	origin string
	time   time.Time
}

func (h header) Origin() string  { return h.origin }
func (h header) Time() time.Time { return h.time }
func (h header) packet()         {}

// AdvertisingReport is one report out of an LE Advertising Report event.
type AdvertisingReport struct {
	header

	TransmitterID     string
	TransmitterIDType barnowl.IdentifierType
	RSSI              int8

	// RawPDU is the hex encoded reconstruction of the advertising PDU:
	// header, length, wire order address and advertising data.
	RawPDU string
}

func (a *AdvertisingReport) String() string {
	return fmt.Sprintf("adv %v (%v) rssi %v pdu %v [%v]", a.TransmitterID, a.TransmitterIDType, a.RSSI, a.RawPDU, a.origin)
}

// ControllerAddress is a successful Read BD_ADDR completion.
type ControllerAddress struct {
	header

	Address string
}

func (c *ControllerAddress) String() string {
	return fmt.Sprintf("controller address %v [%v]", c.Address, c.origin)
}

// ResetNotification is a Reset completion. The controller has dropped its
// volatile configuration.
type ResetNotification struct {
	header
}

func (r *ResetNotification) String() string {
	return fmt.Sprintf("reset [%v]", r.origin)
}

// NewAdvertisingReport builds an advertising report packet.
func NewAdvertisingReport(origin string, t time.Time, id string, idType barnowl.IdentifierType, rssi int8, pdu string) *AdvertisingReport {
	return &AdvertisingReport{
		header:            header{origin, t},
		TransmitterID:     id,
		TransmitterIDType: idType,
		RSSI:              rssi,
		RawPDU:            pdu,
	}
}

// NewControllerAddress builds a controller address packet.
func NewControllerAddress(origin string, t time.Time, address string) *ControllerAddress {
	return &ControllerAddress{header: header{origin, t}, Address: address}
}

// NewResetNotification builds a reset packet.
func NewResetNotification(origin string, t time.Time) *ResetNotification {
	return &ResetNotification{header: header{origin, t}}
}
