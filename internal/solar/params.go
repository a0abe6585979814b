package solar

import "fmt"

// Params is the flat parameter set for one simulation run. All values are SI
// (hours, W/m², m², °C, W/(m²·K), liters). A run never mutates its Params.
type Params struct {
	IrradianceStartHour float64
	IrradiancePeakHour  float64
	IrradianceEndHour   float64
	SolarIrradiancePeak float64 // W/m²

	AmbientTemp float64 // °C

	PanelArea       float64 // m²
	PanelEfficiency float64 // rated fraction at reference temperature
	PanelRefTemp    float64 // °C
	PanelTempCoeff  float64 // efficiency loss per K above reference
	PanelUValue     float64 // W/(m²·K)

	TankVolume      float64 // liters, 1 L of water ≈ 1 kg
	TankSurfaceArea float64 // m²
	TankUValue      float64 // W/(m²·K)
	InitialTankTemp float64 // °C
}

// DefaultParams is a clear summer day heating a domestic tank.
func DefaultParams() Params {
	return Params{
		IrradianceStartHour: 6,
		IrradiancePeakHour:  12,
		IrradianceEndHour:   18,
		SolarIrradiancePeak: 800,
		AmbientTemp:         20,
		PanelArea:           2.5,
		PanelEfficiency:     0.70,
		PanelRefTemp:        25,
		PanelTempCoeff:      0.004,
		PanelUValue:         6,
		TankVolume:          200,
		TankSurfaceArea:     2.0,
		TankUValue:          0.8,
		InitialTankTemp:     20,
	}
}

func (p Params) Validate() error {
	if p.IrradianceStartHour >= p.IrradianceEndHour {
		return ErrIrradianceWindow
	}
	if p.IrradiancePeakHour < p.IrradianceStartHour || p.IrradiancePeakHour > p.IrradianceEndHour {
		return ErrPeakOutsideWindow
	}
	if p.PanelArea <= 0 || p.PanelUValue <= 0 {
		return ErrInvalidPanel
	}
	if p.PanelEfficiency <= 0 || p.PanelEfficiency > 1 {
		return ErrInvalidEfficiency
	}
	if p.TankVolume <= 0 || p.TankSurfaceArea <= 0 || p.TankUValue <= 0 {
		return ErrInvalidTank
	}
	return nil
}

// paramFields maps stable external names onto struct fields. Order is part of
// the external contract: the Modbus register map indexes into this slice.
var paramFields = []struct {
	name string
	get  func(*Params) float64
	set  func(*Params, float64)
}{
	{"irradiance_start_hour", func(p *Params) float64 { return p.IrradianceStartHour }, func(p *Params, v float64) { p.IrradianceStartHour = v }},
	{"irradiance_peak_hour", func(p *Params) float64 { return p.IrradiancePeakHour }, func(p *Params, v float64) { p.IrradiancePeakHour = v }},
	{"irradiance_end_hour", func(p *Params) float64 { return p.IrradianceEndHour }, func(p *Params, v float64) { p.IrradianceEndHour = v }},
	{"solar_irradiance_peak", func(p *Params) float64 { return p.SolarIrradiancePeak }, func(p *Params, v float64) { p.SolarIrradiancePeak = v }},
	{"ambient_temp", func(p *Params) float64 { return p.AmbientTemp }, func(p *Params, v float64) { p.AmbientTemp = v }},
	{"panel_area", func(p *Params) float64 { return p.PanelArea }, func(p *Params, v float64) { p.PanelArea = v }},
	{"panel_efficiency", func(p *Params) float64 { return p.PanelEfficiency }, func(p *Params, v float64) { p.PanelEfficiency = v }},
	{"panel_ref_temp", func(p *Params) float64 { return p.PanelRefTemp }, func(p *Params, v float64) { p.PanelRefTemp = v }},
	{"panel_temp_coeff", func(p *Params) float64 { return p.PanelTempCoeff }, func(p *Params, v float64) { p.PanelTempCoeff = v }},
	{"panel_u_value", func(p *Params) float64 { return p.PanelUValue }, func(p *Params, v float64) { p.PanelUValue = v }},
	{"tank_volume", func(p *Params) float64 { return p.TankVolume }, func(p *Params, v float64) { p.TankVolume = v }},
	{"tank_surface_area", func(p *Params) float64 { return p.TankSurfaceArea }, func(p *Params, v float64) { p.TankSurfaceArea = v }},
	{"tank_u_value", func(p *Params) float64 { return p.TankUValue }, func(p *Params, v float64) { p.TankUValue = v }},
	{"initial_tank_temp", func(p *Params) float64 { return p.InitialTankTemp }, func(p *Params, v float64) { p.InitialTankTemp = v }},
}

// ParamNames returns the external parameter names in register order.
func ParamNames() []string {
	names := make([]string, len(paramFields))
	for i, f := range paramFields {
		names[i] = f.name
	}
	return names
}

func (p *Params) Get(name string) (float64, bool) {
	for i := range paramFields {
		if paramFields[i].name == name {
			return paramFields[i].get(p), true
		}
	}
	return 0, false
}

func (p *Params) Set(name string, value float64) error {
	for i := range paramFields {
		if paramFields[i].name == name {
			paramFields[i].set(p, value)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownParam, name)
}

// Map returns a name → value view of the parameter set.
func (p *Params) Map() map[string]float64 {
	m := make(map[string]float64, len(paramFields))
	for i := range paramFields {
		m[paramFields[i].name] = paramFields[i].get(p)
	}
	return m
}
