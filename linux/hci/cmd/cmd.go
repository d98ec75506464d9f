package cmd

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// OGF values [Vol 4, Part E, 7].
const (
	OGFHostControl = 0x03
	OGFInfoParam   = 0x04
	OGFLEControl   = 0x08

	ogfBitShift = 10
)

// OpCode combines a group and command field into a 16-bit opcode.
func OpCode(ogf, ocf uint16) int {
	return int(ocf | ogf<<ogfBitShift)
}

// Opcodes of the commands below.
var (
	ResetOpCode               = OpCode(OGFHostControl, 0x0003)
	SetEventMaskOpCode        = OpCode(OGFHostControl, 0x0001)
	ReadBDADDROpCode          = OpCode(OGFInfoParam, 0x0009)
	LESetEventMaskOpCode      = OpCode(OGFLEControl, 0x0001)
	LESetScanParametersOpCode = OpCode(OGFLEControl, 0x000B)
	LESetScanEnableOpCode     = OpCode(OGFLEControl, 0x000C)
)

func marshal(c interface{ Len() int }, b []byte) error {
	buf := bytes.NewBuffer(b)
	buf.Reset()
	if buf.Cap() < c.Len() {
		return io.ErrShortBuffer
	}
	return binary.Write(buf, binary.LittleEndian, c)
}

// Reset implements Reset (0x03|0x0003) [Vol 4, Part E, 7.3.2]
type Reset struct{}

func (c *Reset) String() string { return "Reset (0x03|0x0003)" }

// OpCode returns the opcode of the command.
func (c *Reset) OpCode() int { return ResetOpCode }

// Len returns the length of the command.
func (c *Reset) Len() int { return 0 }

// Marshal serializes the command parameters into binary form.
func (c *Reset) Marshal(b []byte) error { return nil }

// SetEventMask implements Set Event Mask (0x03|0x0001) [Vol 4, Part E, 7.3.1]
type SetEventMask struct {
	EventMask uint64
}

func (c *SetEventMask) String() string {
	return fmt.Sprintf("Set Event Mask (0x03|0x0001); mask %016x", c.EventMask)
}

// OpCode returns the opcode of the command.
func (c *SetEventMask) OpCode() int { return SetEventMaskOpCode }

// Len returns the length of the command.
func (c *SetEventMask) Len() int { return 8 }

// Marshal serializes the command parameters into binary form.
func (c *SetEventMask) Marshal(b []byte) error { return marshal(c, b) }

// ReadBDADDR implements Read BD_ADDR (0x04|0x0009) [Vol 4, Part E, 7.4.6]
type ReadBDADDR struct{}

func (c *ReadBDADDR) String() string { return "Read BD_ADDR (0x04|0x0009)" }

// OpCode returns the opcode of the command.
func (c *ReadBDADDR) OpCode() int { return ReadBDADDROpCode }

// Len returns the length of the command.
func (c *ReadBDADDR) Len() int { return 0 }

// Marshal serializes the command parameters into binary form.
func (c *ReadBDADDR) Marshal(b []byte) error { return nil }

// LESetEventMask implements LE Set Event Mask (0x08|0x0001) [Vol 4, Part E, 7.8.1]
type LESetEventMask struct {
	LEEventMask uint64
}

func (c *LESetEventMask) String() string {
	return fmt.Sprintf("LE Set Event Mask (0x08|0x0001); mask %016x", c.LEEventMask)
}

// OpCode returns the opcode of the command.
func (c *LESetEventMask) OpCode() int { return LESetEventMaskOpCode }

// Len returns the length of the command.
func (c *LESetEventMask) Len() int { return 8 }

// Marshal serializes the command parameters into binary form.
func (c *LESetEventMask) Marshal(b []byte) error { return marshal(c, b) }

// LESetScanParameters implements LE Set Scan Parameters (0x08|0x000B) [Vol 4, Part E, 7.8.10]
type LESetScanParameters struct {
	LEScanType           uint8
	LEScanInterval       uint16
	LEScanWindow         uint16
	OwnAddressType       uint8
	ScanningFilterPolicy uint8
}

func (c *LESetScanParameters) String() string {
	return fmt.Sprintf("LE Set Scan Parameters (0x08|0x000B); type %v, interval 0x%04x, window 0x%04x",
		c.LEScanType, c.LEScanInterval, c.LEScanWindow)
}

// OpCode returns the opcode of the command.
func (c *LESetScanParameters) OpCode() int { return LESetScanParametersOpCode }

// Len returns the length of the command.
func (c *LESetScanParameters) Len() int { return 7 }

// Marshal serializes the command parameters into binary form.
func (c *LESetScanParameters) Marshal(b []byte) error { return marshal(c, b) }

// LESetScanEnable implements LE Set Scan Enable (0x08|0x000C) [Vol 4, Part E, 7.8.11]
type LESetScanEnable struct {
	LEScanEnable     uint8
	FilterDuplicates uint8
}

func (c *LESetScanEnable) String() string {
	return fmt.Sprintf("LE Set Scan Enable (0x08|0x000C); enable %v, filter duplicates %v",
		c.LEScanEnable, c.FilterDuplicates)
}

// OpCode returns the opcode of the command.
func (c *LESetScanEnable) OpCode() int { return LESetScanEnableOpCode }

// Len returns the length of the command.
func (c *LESetScanEnable) Len() int { return 2 }

// Marshal serializes the command parameters into binary form.
func (c *LESetScanEnable) Marshal(b []byte) error { return marshal(c, b) }
