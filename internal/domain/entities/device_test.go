package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDevice(t *testing.T) {
	d, err := ParseDevice(" Tablet ")
	require.NoError(t, err)
	assert.Equal(t, DeviceTablet, d)

	_, err = ParseDevice("watch")
	assert.Error(t, err)
}

func TestDevice_ContainerMaxWidth(t *testing.T) {
	assert.Equal(t, 1280, DeviceDesktop.ContainerMaxWidth())
	assert.Equal(t, 768, DeviceTablet.ContainerMaxWidth())
	assert.Equal(t, 375, DeviceMobile.ContainerMaxWidth())
	assert.Equal(t, 1280, Device("").ContainerMaxWidth())
}

func TestDevice_Label(t *testing.T) {
	assert.Equal(t, "Desktop", DeviceDesktop.Label())
	assert.Equal(t, "Tablet", DeviceTablet.Label())
	assert.Equal(t, "Mobile", DeviceMobile.Label())
	assert.Equal(t, "Desktop", Device("bogus").Label())
}
