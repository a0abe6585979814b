package simulator

import (
	"errors"
	"testing"

	"github.com/heliotherm-dev/heliotherm/internal/solar"
)

func TestNewRunsOnce(t *testing.T) {
	s, err := New(solar.DefaultParams())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	snap := s.Get()
	if snap.RunID == "" {
		t.Fatal("expected a run ID after New")
	}
	if snap.UpdatedAt.IsZero() {
		t.Fatal("expected UpdatedAt to be set")
	}

	res := s.Result()
	if len(res.Tank) != 4 {
		t.Fatalf("expected 4 tank series, got %d", len(res.Tank))
	}
}

func TestNewRejectsBadParams(t *testing.T) {
	p := solar.DefaultParams()
	p.TankVolume = 0

	if _, err := New(p); !errors.Is(err, solar.ErrInvalidTank) {
		t.Fatalf("expected ErrInvalidTank, got %v", err)
	}
}

func TestSetParamRecomputes(t *testing.T) {
	s, err := New(solar.DefaultParams())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	before := s.Get()

	if err := s.SetParam("solar_irradiance_peak", 400); err != nil {
		t.Fatalf("SetParam: %v", err)
	}

	after := s.Get()
	if after.Params.SolarIrradiancePeak != 400 {
		t.Fatalf("expected peak 400, got %v", after.Params.SolarIrradiancePeak)
	}
	if after.RunID == before.RunID {
		t.Fatal("expected a new run ID after a parameter change")
	}
	if after.Summary.PeakTankTemp >= before.Summary.PeakTankTemp {
		t.Fatalf("halving the sun should lower the peak tank temperature: before=%v after=%v",
			before.Summary.PeakTankTemp, after.Summary.PeakTankTemp)
	}
}

func TestSetParamRejectsUnknownName(t *testing.T) {
	s, err := New(solar.DefaultParams())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	before := s.Get()

	if err := s.SetParam("bogus", 1); !errors.Is(err, solar.ErrUnknownParam) {
		t.Fatalf("expected ErrUnknownParam, got %v", err)
	}
	if got := s.Get(); got.RunID != before.RunID {
		t.Fatal("rejected write must not replace the current run")
	}
}

func TestSetParamRejectsInvalidValue(t *testing.T) {
	s, err := New(solar.DefaultParams())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	before := s.Get()

	// inverting the window must fail validation and keep the old run
	if err := s.SetParam("irradiance_start_hour", 23); !errors.Is(err, solar.ErrIrradianceWindow) {
		t.Fatalf("expected ErrIrradianceWindow, got %v", err)
	}

	after := s.Get()
	if after.RunID != before.RunID {
		t.Fatal("rejected write must not replace the current run")
	}
	if after.Params.IrradianceStartHour != before.Params.IrradianceStartHour {
		t.Fatal("rejected write must not mutate parameters")
	}
}

func TestApply(t *testing.T) {
	s, err := New(solar.DefaultParams())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	p := solar.DefaultParams()
	p.TankVolume = 500
	if err := s.Apply(p); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := s.Params(); got.TankVolume != 500 {
		t.Fatalf("expected tank volume 500, got %v", got.TankVolume)
	}

	p.PanelArea = -1
	if err := s.Apply(p); !errors.Is(err, solar.ErrInvalidPanel) {
		t.Fatalf("expected ErrInvalidPanel, got %v", err)
	}
	if got := s.Params(); got.PanelArea != solar.DefaultParams().PanelArea {
		t.Fatalf("rejected Apply must not mutate parameters, got area %v", got.PanelArea)
	}
}
