package evt

// Event codes [Vol 4, Part E, 7.7].
const (
	DisconnectionCompleteCode    = 0x05
	EncryptionChangeCode         = 0x08
	CommandCompleteCode          = 0x0E
	CommandStatusCode            = 0x0F
	HardwareErrorCode            = 0x10
	NumberOfCompletedPacketsCode = 0x13
	DataBufferOverflowCode       = 0x1A
	LEMetaCode                   = 0x3E
	VendorCode                   = 0xFF
)

// LE Meta subevent codes [Vol 4, Part E, 7.7.65].
const (
	LEConnectionCompleteSubCode        = 0x01
	LEAdvertisingReportSubCode         = 0x02
	LEConnectionUpdateCompleteSubCode  = 0x03
	LEExtendedAdvertisingReportSubCode = 0x0D
)

// CommandComplete holds the parameters of a Command Complete event
// [Vol 4, Part E, 7.7.14].
type CommandComplete []byte

// LEAdvertisingReport holds the parameters of an LE Meta event carrying
// LE Advertising Reports [Vol 4, Part E, 7.7.65.2], starting at the
// subevent code.
type LEAdvertisingReport []byte

// AdvertisingReport is a single report sliced out of an
// LEAdvertisingReport. Its length has already been validated.
type AdvertisingReport []byte
