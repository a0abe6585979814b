package solar

// profileStepsPerHour is the sweep resolution of the irradiance and panel
// profile drivers (half-hour steps).
const profileStepsPerHour = 2

// IrradianceProfile sweeps the irradiance model over a full day in half-hour
// steps.
func IrradianceProfile(p Params) (Series, error) {
	if err := p.Validate(); err != nil {
		return Series{}, err
	}
	s := Series{Name: SeriesIrradiance}
	for i := 0; i <= hoursPerDay*profileStepsPerHour; i++ {
		hour := float64(i) / profileStepsPerHour
		s.add(hour, Irradiance(hour, p))
	}
	return s, nil
}

// PanelProfile sweeps the panel model over a full day in half-hour steps:
// equilibrium temperature, efficiency and net output, plus the dashed
// ambient reference.
func PanelProfile(p Params) ([]Series, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	temp := Series{Name: SeriesPanelTemp}
	eff := Series{Name: SeriesPanelEff}
	out := Series{Name: SeriesPanelOutput}
	ambient := Series{Name: SeriesAmbient, Dashed: true}

	for i := 0; i <= hoursPerDay*profileStepsPerHour; i++ {
		hour := float64(i) / profileStepsPerHour
		irr := Irradiance(hour, p)
		pt := PanelTemperature(irr, p.AmbientTemp, p.PanelArea,
			p.PanelEfficiency, p.PanelUValue, p.PanelRefTemp, p.PanelTempCoeff)

		temp.add(hour, pt)
		eff.add(hour, Efficiency(pt, p.PanelEfficiency, p.PanelRefTemp, p.PanelTempCoeff))
		out.add(hour, PanelOutput(irr, pt, p.InitialTankTemp, p.AmbientTemp,
			p.PanelArea, p.PanelUValue, p.PanelEfficiency, p.PanelRefTemp, p.PanelTempCoeff))
		ambient.add(hour, p.AmbientTemp)
	}

	return []Series{temp, eff, out, ambient}, nil
}

// Result is the full labeled output of one simulation run.
type Result struct {
	Irradiance Series   `json:"irradiance"`
	Panel      []Series `json:"panel"`
	Tank       []Series `json:"tank"`
	Summary    Summary  `json:"summary"`
}

// Run executes all three drivers against one parameter set. Given identical
// parameters the output is bit-identical across calls; no state survives the
// run.
func Run(p Params) (Result, error) {
	irr, err := IrradianceProfile(p)
	if err != nil {
		return Result{}, err
	}
	panel, err := PanelProfile(p)
	if err != nil {
		return Result{}, err
	}
	tank, err := SimulateTank(p)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Irradiance: irr,
		Panel:      panel,
		Tank:       tank,
		Summary:    Summarize(tank),
	}, nil
}
