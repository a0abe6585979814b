package solar

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates one tank run for snapshot consumers (MQTT, Modbus input
// registers, HTTP). Energy totals sum the hourly wattage samples, so one
// sample counts for one hour.
type Summary struct {
	PeakTankTemp    float64 `json:"peak_tank_temp"`
	FinalTankTemp   float64 `json:"final_tank_temp"`
	MeanTankTemp    float64 `json:"mean_tank_temp"`
	PeakHeatIn      float64 `json:"peak_heat_in"`
	EnergyCollected float64 `json:"energy_collected_kwh"`
	EnergyLost      float64 `json:"energy_lost_kwh"`
}

func Summarize(tank []Series) Summary {
	var sum Summary
	for _, s := range tank {
		vals := s.values()
		if len(vals) == 0 {
			continue
		}
		switch s.Name {
		case SeriesTankTemp:
			sum.PeakTankTemp = floats.Max(vals)
			sum.FinalTankTemp = vals[len(vals)-1]
			sum.MeanTankTemp = stat.Mean(vals, nil)
		case SeriesHeatIn:
			sum.PeakHeatIn = floats.Max(vals)
			sum.EnergyCollected = floats.Sum(vals) / 1000
		case SeriesHeatLoss:
			sum.EnergyLost = floats.Sum(vals) / 1000
		}
	}
	return sum
}
