package solar

// Point is one chronological sample of a series.
type Point struct {
	Hour  float64 `json:"hour" csv:"hour"`
	Value float64 `json:"value" csv:"value"`
}

// Series is an ordered sequence of samples with a stable display name.
// Dashed marks reference lines (e.g. ambient temperature) for renderers.
type Series struct {
	Name   string  `json:"name"`
	Dashed bool    `json:"dashed"`
	Points []Point `json:"points"`
}

// Stable series identifiers used by consumers for labeling and grouping.
const (
	SeriesIrradiance  = "Irradiance (W/m²)"
	SeriesPanelTemp   = "Panel Temperature (°C)"
	SeriesPanelEff    = "Panel Efficiency"
	SeriesPanelOutput = "Panel Output (W)"
	SeriesHeatIn      = "Heat In (W)"
	SeriesHeatLoss    = "Heat Loss (W)"
	SeriesTankTemp    = "Tank Temperature (°C)"
	SeriesAmbient     = "Ambient Temperature (°C)"
)

func (s *Series) add(hour, value float64) {
	s.Points = append(s.Points, Point{Hour: hour, Value: value})
}

func (s Series) values() []float64 {
	out := make([]float64, len(s.Points))
	for i, pt := range s.Points {
		out[i] = pt.Value
	}
	return out
}
