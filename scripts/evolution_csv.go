package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/heliotherm-dev/heliotherm/internal/solar"
)

// evolutionRow is one hourly sample of the tank day, all four series side by side.
type evolutionRow struct {
	Hour     float64 `csv:"hour"`
	HeatIn   float64 `csv:"heat_in_w"`
	HeatLoss float64 `csv:"heat_loss_w"`
	TankTemp float64 `csv:"tank_temp_c"`
	Ambient  float64 `csv:"ambient_temp_c"`
}

func writeEvolution(filename string, p solar.Params) error {
	tank, err := solar.SimulateTank(p)
	if err != nil {
		return fmt.Errorf("simulate tank: %v", err)
	}

	byName := make(map[string]solar.Series, len(tank))
	for _, s := range tank {
		byName[s.Name] = s
	}
	heatIn := byName[solar.SeriesHeatIn]
	heatLoss := byName[solar.SeriesHeatLoss]
	tankTemp := byName[solar.SeriesTankTemp]
	ambient := byName[solar.SeriesAmbient]

	rows := make([]*evolutionRow, len(tankTemp.Points))
	for i, pt := range tankTemp.Points {
		rows[i] = &evolutionRow{
			Hour:     pt.Hour,
			HeatIn:   heatIn.Points[i].Value,
			HeatLoss: heatLoss.Points[i].Value,
			TankTemp: pt.Value,
			Ambient:  ambient.Points[i].Value,
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create CSV file: %v", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("write CSV: %v", err)
	}
	return nil
}

func main() {
	var (
		out  string
		peak float64
	)
	flag.StringVar(&out, "out", "tank_evolution.csv", "output CSV path")
	flag.Float64Var(&peak, "peak", 0, "override peak irradiance in W/m² (0 keeps the default)")
	flag.Parse()

	p := solar.DefaultParams()
	if peak > 0 {
		p.SolarIrradiancePeak = peak
	}

	if err := writeEvolution(out, p); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s\n", out)
}
