package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDeviceID(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want DeviceID
	}{
		{name: "lower case", raw: "aa:bb:cc:dd:ee:ff", want: "AA:BB:CC:DD:EE:FF"},
		{name: "surrounding whitespace", raw: "  AA:BB:CC:DD:EE:FF\n", want: "AA:BB:CC:DD:EE:FF"},
		{name: "already normalized", raw: "AA:BB:CC:DD:EE:FF", want: "AA:BB:CC:DD:EE:FF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDeviceID(tt.raw))
		})
	}
}

func TestDeviceIDValidate(t *testing.T) {
	assert.NoError(t, DeviceID("AA:BB:CC:DD:EE:FF").Validate())
	assert.Error(t, DeviceID("aa:bb:cc:dd:ee:ff").Validate(), "validation expects normalized input")
	assert.Error(t, DeviceID("AA:BB:CC:DD:EE").Validate())
	assert.Error(t, DeviceID("").Validate())
	assert.Error(t, DeviceID("not-a-mac").Validate())
}

func TestIdentityValidateRequiresDisplayName(t *testing.T) {
	identity := Identity{ID: "AA:BB:CC:DD:EE:FF", DisplayName: "   "}
	assert.Error(t, identity.Validate())

	identity.DisplayName = "Alice"
	assert.NoError(t, identity.Validate())
}
