package solar

import "math"

const (
	tankStepSeconds = 10.0
	hoursPerDay     = 24
	stepsPerHour    = 3600 / 10

	// specificHeatWater is in J/(kg·K).
	specificHeatWater = 4186.0
)

// SimulateTank advances the tank temperature over a 24-hour day in fixed
// 10-second steps and returns four hourly-sampled series: heat delivered by
// the panel, tank heat loss, tank temperature, and the dashed ambient
// reference. Sampling is output thinning only; every internal step feeds the
// next one. The tank is floored at ambient: no sub-ambient overshoot is
// modeled.
func SimulateTank(p Params) ([]Series, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	heatIn := Series{Name: SeriesHeatIn}
	heatLoss := Series{Name: SeriesHeatLoss}
	tankTemp := Series{Name: SeriesTankTemp}
	ambient := Series{Name: SeriesAmbient, Dashed: true}

	temp := p.InitialTankTemp
	mass := p.TankVolume // kg of water

	heatIn.add(0, 0)
	heatLoss.add(0, 0)
	tankTemp.add(0, temp)
	ambient.add(0, p.AmbientTemp)

	steps := hoursPerDay * stepsPerHour
	for step := 1; step <= steps; step++ {
		hour := float64(step) * tankStepSeconds / 3600.0

		irr := Irradiance(hour, p)
		panelTemp := PanelTemperature(irr, p.AmbientTemp, p.PanelArea,
			p.PanelEfficiency, p.PanelUValue, p.PanelRefTemp, p.PanelTempCoeff)
		in := PanelOutput(irr, panelTemp, temp, p.AmbientTemp, p.PanelArea,
			p.PanelUValue, p.PanelEfficiency, p.PanelRefTemp, p.PanelTempCoeff)

		loss := p.TankUValue * p.TankSurfaceArea * math.Max(0, temp-p.AmbientTemp)
		delta := (in - loss) * tankStepSeconds / (mass * specificHeatWater)
		temp = math.Max(p.AmbientTemp, temp+delta)

		if step%stepsPerHour == 0 {
			heatIn.add(hour, in)
			heatLoss.add(hour, loss)
			tankTemp.add(hour, temp)
			ambient.add(hour, p.AmbientTemp)
		}
	}

	return []Series{heatIn, heatLoss, tankTemp, ambient}, nil
}
