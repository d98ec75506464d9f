package hci

// HCI Packet types
const (
	PktTypeCommand uint8 = 0x01
	PktTypeACLData uint8 = 0x02
	PktTypeSCOData uint8 = 0x03
	PktTypeEvent   uint8 = 0x04
	PktTypeVendor  uint8 = 0xFF
)

// Command packet header: indicator, opcode (LE), parameter length.
const (
	cmdHeaderLength = 4
	maxHciPayload   = 255
)

// Event masks written on open. The event mask is the controller default
// plus LE Meta; the LE mask enables the LE events up to the advertising
// report [Vol 4, Part E, 7.3.1, 7.8.1].
const (
	defaultEventMask   = 0x3dbff807fffbffff
	defaultLEEventMask = 0x000000000000001F
)

const (
	chCmdLaneSize = 16
	sktRxChanSize = 64
	sktBufSize    = 4096
)
