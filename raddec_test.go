package barnowl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRaddecJSON(t *testing.T) {
	r := &Raddec{
		TransmitterID:     "fee150bada55",
		TransmitterIDType: IdentifierTypeRND48,
		ReceiverID:        "001bc5094000",
		ReceiverIDType:    IdentifierTypeEUI48,
		RSSISignature: []RSSISample{
			{ReceiverID: "001bc5094000", ReceiverIDType: IdentifierTypeEUI48, RSSI: -70},
		},
		Packets:   []string{"400955daba50e1fe020106"},
		Timestamp: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	b, err := r.ToJSON()
	require.NoError(t, err)
	m := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(b, &m))

	assert.Equal(t, "fee150bada55", m["transmitterId"])
	assert.EqualValues(t, 3, m["transmitterIdType"])
	assert.EqualValues(t, 2, m["receiverIdType"])
	assert.Equal(t, "2024-01-02T03:04:05Z", m["timestamp"])
	assert.Equal(t, []interface{}{"400955daba50e1fe020106"}, m["packets"])
	assert.NotContains(t, m, "origin")

	sig, ok := m["rssiSignature"].([]interface{})
	require.True(t, ok)
	require.Len(t, sig, 1)
	assert.EqualValues(t, -70, sig[0].(map[string]interface{})["rssi"])
}
