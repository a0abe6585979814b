package solar

// panelIterations is the fixed iteration count of the equilibrium solver.
// The efficiency curve is weakly temperature-dependent over the supported
// coefficient ranges, so ten iterations from the ambient seed settle within
// numerical noise. Changing the count or the seed changes reference outputs.
const panelIterations = 10

// efficiencyFloor is the lowest efficiency the degradation model reports;
// the linear fit is not trusted further from the reference point.
const efficiencyFloor = 0.1

// Efficiency returns the panel efficiency fraction at the given panel
// temperature: linear degradation above the reference temperature, clamped
// to [efficiencyFloor, effRef].
func Efficiency(panelTemp, effRef, refTemp, tempCoeff float64) float64 {
	eff := effRef * (1 - tempCoeff*(panelTemp-refTemp))
	if eff > effRef {
		return effRef
	}
	if eff < efficiencyFloor {
		return efficiencyFloor
	}
	return eff
}

// PanelTemperature solves the equilibrium temperature at which absorbed
// solar energy equals conductive loss to ambient air:
//
//	irradiance · area · η(T) = uValue · area · (T − ambient)
//
// by fixed-point iteration seeded at ambient. With no irradiance the panel
// sits at ambient temperature.
func PanelTemperature(irradiance, ambient, area, effRef, uValue, refTemp, tempCoeff float64) float64 {
	if irradiance <= 0 {
		return ambient
	}
	t := ambient
	for i := 0; i < panelIterations; i++ {
		eff := Efficiency(t, effRef, refTemp, tempCoeff)
		t = ambient + irradiance*eff/uValue
	}
	return t
}

// PanelOutput returns the net heat delivered by the panel in watts, floored
// at zero: the energy collected at the panel's actual efficiency. The
// panel-surface loss is not subtracted here; see PanelHeatLoss.
func PanelOutput(irradiance, panelTemp, tankTemp, ambient, area, uValue, effRef, refTemp, tempCoeff float64) float64 {
	eff := Efficiency(panelTemp, effRef, refTemp, tempCoeff)
	collected := irradiance * area * eff
	if collected < 0 {
		return 0
	}
	return collected
}

// PanelHeatLoss is the conductive loss from the panel surface to ambient
// air. The delivered output deliberately does not subtract this term, to
// stay numerically compatible with the reference model; it is exposed so
// callers can inspect the discarded side of the balance.
func PanelHeatLoss(panelTemp, ambient, area, uValue float64) float64 {
	return uValue * area * (panelTemp - ambient)
}
