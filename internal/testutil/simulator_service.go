package testutil

import (
	"time"

	"github.com/heliotherm-dev/heliotherm/internal/simulator"
	"github.com/heliotherm-dev/heliotherm/internal/solar"
)

// FakeSimulatorService is a reusable fake implementing ports.SimulatorService.
// Put ONLY what multiple test packages need here.
type FakeSimulatorService struct {
	Snap simulator.Snapshot
	Res  solar.Result
	P    solar.Params

	SetParamCalled bool
	SetParamName   string
	SetParamValue  float64
	SetParamErr    error

	ApplyCalled bool
	ApplyArg    solar.Params
	ApplyErr    error
}

func NewFakeSimulatorService() *FakeSimulatorService {
	p := solar.DefaultParams()
	return &FakeSimulatorService{
		Snap: simulator.Snapshot{
			RunID:     "run-1",
			UpdatedAt: time.Date(2025, 6, 21, 12, 0, 0, 0, time.UTC),
			Params:    p,
			Summary: solar.Summary{
				PeakTankTemp:    48.5,
				FinalTankTemp:   41.2,
				MeanTankTemp:    33.0,
				PeakHeatIn:      1100,
				EnergyCollected: 7.4,
				EnergyLost:      0.9,
			},
		},
		Res: solar.Result{
			Irradiance: solar.Series{Name: solar.SeriesIrradiance, Points: []solar.Point{{Hour: 12, Value: 800}}},
			Tank: []solar.Series{
				{Name: solar.SeriesTankTemp, Points: []solar.Point{{Hour: 0, Value: 20}, {Hour: 12, Value: 40}}},
			},
		},
		P: p,
	}
}

func (f *FakeSimulatorService) Get() simulator.Snapshot { return f.Snap }

func (f *FakeSimulatorService) Params() solar.Params { return f.P }

func (f *FakeSimulatorService) Result() solar.Result { return f.Res }

func (f *FakeSimulatorService) SetParam(name string, value float64) error {
	f.SetParamCalled = true
	f.SetParamName = name
	f.SetParamValue = value
	if f.SetParamErr != nil {
		return f.SetParamErr
	}
	_ = f.P.Set(name, value)
	f.Snap.Params = f.P
	return nil
}

func (f *FakeSimulatorService) Apply(p solar.Params) error {
	f.ApplyCalled = true
	f.ApplyArg = p
	if f.ApplyErr != nil {
		return f.ApplyErr
	}
	f.P = p
	f.Snap.Params = p
	return nil
}
