package device

import "github.com/heliotherm-dev/heliotherm/internal/simulator"

type Device struct {
	ID string
	S  *simulator.Simulator
}

func New(id string, s *simulator.Simulator) *Device {
	return &Device{ID: id, S: s}
}
