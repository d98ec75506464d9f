package hci

import "fmt"

// StatusSuccess is the status of a successful command [Vol 1, Part F, 1.3].
const StatusSuccess = 0x00

// ErrCommand is an HCI error code returned in a command completion.
type ErrCommand byte

// Error codes [Vol 1, Part F, 1.3].
const (
	ErrUnknownCommand       ErrCommand = 0x01
	ErrHardwareFailure      ErrCommand = 0x03
	ErrMemoryCapacity       ErrCommand = 0x07
	ErrCommandDisallowed    ErrCommand = 0x0C
	ErrUnsupportedParameter ErrCommand = 0x11
	ErrInvalidParameters    ErrCommand = 0x12
	ErrUnspecified          ErrCommand = 0x1F
	ErrControllerBusy       ErrCommand = 0x3A
)

var errCommandText = map[ErrCommand]string{
	ErrUnknownCommand:       "Unknown HCI Command",
	ErrHardwareFailure:      "Hardware Failure",
	ErrMemoryCapacity:       "Memory Capacity Exceeded",
	ErrCommandDisallowed:    "Command Disallowed",
	ErrUnsupportedParameter: "Unsupported Feature or Parameter Value",
	ErrInvalidParameters:    "Invalid HCI Command Parameters",
	ErrUnspecified:          "Unspecified Error",
	ErrControllerBusy:       "Controller Busy",
}

func (e ErrCommand) Error() string {
	if s, ok := errCommandText[e]; ok {
		return fmt.Sprintf("hci: %s (0x%02X)", s, byte(e))
	}
	return fmt.Sprintf("hci: error 0x%02X", byte(e))
}
