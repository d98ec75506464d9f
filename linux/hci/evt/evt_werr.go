package evt

import (
	"encoding/binary"
	"fmt"
)

// advertising report layout, relative to the start of a report
const (
	reportOffsetEventType   = 0
	reportOffsetAddressType = 1
	reportOffsetAddress     = 2
	reportOffsetDataLength  = 8
	reportOffsetData        = 9

	// type + address type + address + data length + rssi
	reportFixedLength = 10
)

func (e CommandComplete) CommandOpcodeWErr() (uint16, error) {
	return getUint16LE(e, 1, 0xffff)
}

// StatusWErr returns the first return parameter, which is the status for
// every command this package handles.
func (e CommandComplete) StatusWErr() (uint8, error) {
	return getByte(e, 3, 0xff)
}

func (e CommandComplete) ReturnParametersWErr() ([]byte, error) {
	return getBytes(e, 3, -1)
}

func (e LEAdvertisingReport) SubeventCodeWErr() (uint8, error) {
	return getByte(e, 0, 0xff)
}

func (e LEAdvertisingReport) NumReportsWErr() (uint8, error) {
	return getByte(e, 1, 0)
}

// ReportWErr returns report i. Reports are packed back to back, so the
// offset of report i depends on the data lengths of the reports before it.
func (e LEAdvertisingReport) ReportWErr(i int) (AdvertisingReport, error) {
	nr, err := e.NumReportsWErr()
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= int(nr) {
		return nil, fmt.Errorf("report index %v out of range (%v reports)", i, nr)
	}

	si := 2
	for j := 0; ; j++ {
		ll, err := getByte(e, si+reportOffsetDataLength, 0)
		if err != nil {
			return nil, err
		}
		l := reportFixedLength + int(ll)
		if j == i {
			b, err := getBytes(e, si, l)
			if err != nil {
				return nil, err
			}
			return AdvertisingReport(b), nil
		}
		si += l
	}
}

func (r AdvertisingReport) EventType() uint8 {
	return r[reportOffsetEventType]
}

func (r AdvertisingReport) AddressType() uint8 {
	return r[reportOffsetAddressType]
}

// Address returns the advertiser address in wire order.
func (r AdvertisingReport) Address() [6]byte {
	out := [6]byte{}
	copy(out[:], r[reportOffsetAddress:reportOffsetDataLength])
	return out
}

func (r AdvertisingReport) LengthData() uint8 {
	return r[reportOffsetDataLength]
}

func (r AdvertisingReport) Data() []byte {
	return r[reportOffsetData : reportOffsetData+int(r.LengthData())]
}

func (r AdvertisingReport) RSSI() int8 {
	return int8(r[len(r)-1])
}

//get or default
func getByte(b []byte, i int, def byte) (byte, error) {
	bb, err := getBytes(b, i, 1)
	if err != nil {
		return def, err
	}
	return bb[0], nil
}

//get or default
func getUint16LE(b []byte, i int, def uint16) (uint16, error) {
	bb, err := getBytes(b, i, 2)
	if err != nil {
		return def, err
	}
	return binary.LittleEndian.Uint16(bb), nil
}

func getBytes(bytes []byte, start int, count int) ([]byte, error) {
	if bytes == nil || start >= len(bytes) {
		return nil, fmt.Errorf("index error")
	}

	if count < 0 {
		return bytes[start:], nil
	}

	end := start + count
	//end is non-inclusive
	if end > len(bytes) {
		return nil, fmt.Errorf("index error")
	}

	return bytes[start:end], nil
}
