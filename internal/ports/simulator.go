package ports

import (
	"github.com/heliotherm-dev/heliotherm/internal/simulator"
	"github.com/heliotherm-dev/heliotherm/internal/solar"
)

// SimulatorService is the control-plane port used by controllers (HTTP/MQTT/etc).
type SimulatorService interface {
	Get() simulator.Snapshot
	Params() solar.Params
	Result() solar.Result
	SetParam(name string, value float64) error
	Apply(p solar.Params) error
}
