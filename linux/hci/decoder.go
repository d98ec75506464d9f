package hci

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/rigado/barnowl"
	"github.com/rigado/barnowl/linux/hci/cmd"
	"github.com/rigado/barnowl/linux/hci/evt"
)

// Event packet framing [Vol 4, Part E, 5.4.4]: indicator, code, length.
const (
	evtOffsetCode   = 1
	evtOffsetLength = 2
	evtHeaderLength = 3
)

// The advertising report event type (0..4) enumerates ADV_IND,
// ADV_DIRECT_IND, ADV_SCAN_IND, ADV_NONCONN_IND and SCAN_RSP. This maps it
// to the PDU type nibble sent over the air [Vol 6, Part B, 2.3].
var pduTypes = [...]string{"0", "1", "6", "2", "4"}

// Decode parses one HCI packet captured from origin at t. Only event
// packets are understood; everything else, including events with a length
// that doesn't match the header, decodes to nothing.
func Decode(b []byte, origin string, t time.Time) []Packet {
	if len(b) < evtHeaderLength || b[0] != PktTypeEvent {
		return nil
	}

	plen := int(b[evtOffsetLength])
	if len(b) != plen+evtHeaderLength {
		logger.Debugf("%v: length mismatch, header %v, got %v: % X", origin, plen, len(b)-evtHeaderLength, b)
		return nil
	}

	params := b[evtHeaderLength:]
	switch b[evtOffsetCode] {
	case evt.CommandCompleteCode:
		return decodeCommandComplete(evt.CommandComplete(params), origin, t)
	case evt.LEMetaCode:
		return decodeLEMeta(evt.LEAdvertisingReport(params), origin, t)
	default:
		return nil
	}
}

func decodeCommandComplete(e evt.CommandComplete, origin string, t time.Time) []Packet {
	op, err := e.CommandOpcodeWErr()
	if err != nil {
		return nil
	}

	switch int(op) {
	case cmd.ReadBDADDROpCode:
		rp, err := e.ReturnParametersWErr()
		if err != nil || len(rp) < 1+barnowl.AddrLen {
			return nil
		}
		if st, _ := e.StatusWErr(); st != StatusSuccess {
			logger.Debugf("%v: read bdaddr failed: %v", origin, ErrCommand(st))
			return nil
		}
		var a barnowl.Addr
		copy(a[:], rp[1:1+barnowl.AddrLen])
		return []Packet{NewControllerAddress(origin, t, a.String())}

	case cmd.ResetOpCode:
		return []Packet{NewResetNotification(origin, t)}

	default:
		// scan parameter, scan enable and event mask acks
		if st, err := e.StatusWErr(); err == nil && st != StatusSuccess {
			logger.Debugf("%v: cmd 0x%04x failed: %v", origin, op, ErrCommand(st))
		}
		return nil
	}
}

func decodeLEMeta(e evt.LEAdvertisingReport, origin string, t time.Time) []Packet {
	sub, err := e.SubeventCodeWErr()
	if err != nil || sub != evt.LEAdvertisingReportSubCode {
		return nil
	}

	nr, err := e.NumReportsWErr()
	if err != nil {
		return nil
	}

	pkts := make([]Packet, 0, nr)
	for i := 0; i < int(nr); i++ {
		r, err := e.ReportWErr(i)
		if err != nil {
			logger.Debugf("%v: advRep %v/%v: %v: % X", origin, i, nr, err, []byte(e))
			break
		}
		pkts = append(pkts, newAdvertisingReport(r, origin, t))
	}
	return pkts
}

func newAdvertisingReport(r evt.AdvertisingReport, origin string, t time.Time) *AdvertisingReport {
	a := barnowl.Addr(r.Address())
	at := r.AddressType()

	idType := barnowl.IdentifierTypeEUI48
	if at != AddressTypePublic {
		idType = barnowl.IdentifierTypeRND48
	}

	return NewAdvertisingReport(origin, t, a.String(), idType, r.RSSI(), rawPDU(r))
}

// rawPDU rebuilds the air interface advertising PDU as hex. The header is
// the TxAdd value (4 * address type) followed by the PDU type, each as hex
// text, then the payload length (address + data) and the payload itself.
func rawPDU(r evt.AdvertisingReport) string {
	a := barnowl.Addr(r.Address())
	l := (int(r.LengthData()) + barnowl.AddrLen) & 0xff

	return strconv.FormatInt(4*int64(r.AddressType()), 16) +
		pduType(r.EventType()) +
		fmt.Sprintf("%02x", l) +
		a.Wire() +
		hex.EncodeToString(r.Data())
}

func pduType(et uint8) string {
	if int(et) < len(pduTypes) {
		return pduTypes[et]
	}
	return strconv.FormatInt(int64(et), 16)
}
