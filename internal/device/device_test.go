package device

import (
	"testing"

	"github.com/heliotherm-dev/heliotherm/internal/simulator"
)

func TestNewDevice(t *testing.T) {
	id := "test-id"
	sim := &simulator.Simulator{}
	d := New(id, sim)

	if d.ID != id {
		t.Errorf("Expected device ID to be %s, got %s", id, d.ID)
	}
}
