package hci

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrCommand(t *testing.T) {
	assert.Equal(t, "hci: Command Disallowed (0x0C)", ErrCommand(0x0c).Error())
	assert.Equal(t, "hci: error 0x42", ErrCommand(0x42).Error())
}
