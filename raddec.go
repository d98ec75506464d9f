package barnowl

import (
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RSSISample is one signal strength reading of a transmitter by a receiver.
type RSSISample struct {
	ReceiverID     string         `json:"receiverId"`
	ReceiverIDType IdentifierType `json:"receiverIdType"`
	RSSI           int            `json:"rssi"`
}

// Raddec is a radio decoding: a transmitter observed by a known receiver,
// with its signal samples and the raw packets it sent.
type Raddec struct {
	TransmitterID     string         `json:"transmitterId"`
	TransmitterIDType IdentifierType `json:"transmitterIdType"`
	ReceiverID        string         `json:"receiverId"`
	ReceiverIDType    IdentifierType `json:"receiverIdType"`
	RSSISignature     []RSSISample   `json:"rssiSignature"`
	Packets           []string       `json:"packets"`
	Timestamp         time.Time      `json:"timestamp"`
	Origin            string         `json:"origin,omitempty"`
}

// ToJSON encodes the raddec.
func (r *Raddec) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}
