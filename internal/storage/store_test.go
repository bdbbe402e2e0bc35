package storage

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewDevice(t *testing.T) {
	device := NewDevice("dev-1", "192.168.1.100", "Living Room", "pixoo64")

	assert.Equal(t, "dev-1", device.ID)
	assert.Equal(t, "192.168.1.100", device.IP)
	assert.Equal(t, "Living Room", device.Name)
	assert.Equal(t, "pixoo64", device.Type)
	assert.False(t, device.CreatedAt.IsZero())
	assert.False(t, device.LastSeen.IsZero())
	assert.True(t, device.CreatedAt.Before(time.Now().Add(time.Second)))
}

func TestErrNotFound(t *testing.T) {
	err := ErrNotFound{Resource: "panel", ID: "123"}

	assert.Equal(t, "panel not found: 123", err.Error())
	assert.True(t, IsNotFound(err))
}

func TestIsNotFoundWrapped(t *testing.T) {
	err := fmt.Errorf("loading panel: %w", ErrNotFound{Resource: "panel", ID: "cpu"})
	assert.True(t, IsNotFound(err))
}

func TestIsNotFoundFalse(t *testing.T) {
	assert.False(t, IsNotFound(nil))
	assert.False(t, IsNotFound(assert.AnError))
}
