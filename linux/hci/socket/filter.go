package socket

import "encoding/binary"

// FilterLen is the size of the kernel HCI filter (struct hci_filter).
const FilterLen = 14

// Filter selects the packet types and event codes a raw HCI socket
// delivers.
type Filter struct {
	TypeMask  uint32
	EventMask [2]uint32
	Opcode    uint16
}

// NewFilter builds a filter passing the given packet types and event codes.
// Event codes above 63 can't be expressed and are skipped.
func NewFilter(types []uint8, events []uint8) Filter {
	f := Filter{}
	for _, t := range types {
		f.TypeMask |= 1 << (t & 0x1f)
	}
	for _, e := range events {
		if e >= 64 {
			continue
		}
		f.EventMask[e>>5] |= 1 << (e & 0x1f)
	}
	return f
}

// Marshal encodes the filter in kernel layout.
func (f Filter) Marshal() []byte {
	b := make([]byte, FilterLen)
	binary.LittleEndian.PutUint32(b[0:], f.TypeMask)
	binary.LittleEndian.PutUint32(b[4:], f.EventMask[0])
	binary.LittleEndian.PutUint32(b[8:], f.EventMask[1])
	binary.LittleEndian.PutUint16(b[12:], f.Opcode)
	return b
}
