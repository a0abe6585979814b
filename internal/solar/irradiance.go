package solar

import "math"

// Irradiance returns the instantaneous solar irradiance in W/m² at the given
// hour of day. The profile is a single-day cosine bump: zero outside the
// daylight window, SolarIrradiancePeak at the peak hour. Hours outside
// [0, 24) are not wrapped; callers own the time-of-day domain.
func Irradiance(hour float64, p Params) float64 {
	if hour < p.IrradianceStartHour || hour > p.IrradianceEndHour {
		return 0
	}
	width := p.IrradianceEndHour - p.IrradianceStartHour
	frac := (hour - p.IrradianceStartHour) / width
	peakFrac := (p.IrradiancePeakHour - p.IrradianceStartHour) / width
	v := p.SolarIrradiancePeak * math.Cos((frac-peakFrac)*math.Pi)
	if v < 0 {
		return 0
	}
	return v
}
