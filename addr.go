package barnowl

import (
	"encoding/hex"
)

// IdentifierType classifies a transmitter or receiver identifier.
// Values follow the raddec identifier numbering.
type IdentifierType int

const (
	IdentifierTypeUnknown IdentifierType = 0
	IdentifierTypeEUI64   IdentifierType = 1
	IdentifierTypeEUI48   IdentifierType = 2
	IdentifierTypeRND48   IdentifierType = 3
)

func (t IdentifierType) String() string {
	switch t {
	case IdentifierTypeEUI64:
		return "EUI-64"
	case IdentifierTypeEUI48:
		return "EUI-48"
	case IdentifierTypeRND48:
		return "RND-48"
	default:
		return "UNKNOWN"
	}
}

// AddrLen is the length of a Bluetooth device address.
const AddrLen = 6

// Addr is a Bluetooth device address as it appears on the HCI wire,
// least significant byte first.
type Addr [AddrLen]byte

// String returns the canonical identifier: lower case hex, most
// significant byte first, no separators.
func (a Addr) String() string {
	r := make([]byte, AddrLen)
	for i := range a {
		r[i] = a[AddrLen-1-i]
	}
	return hex.EncodeToString(r)
}

// Wire returns the address as hex in wire order.
func (a Addr) Wire() string {
	return hex.EncodeToString(a[:])
}
