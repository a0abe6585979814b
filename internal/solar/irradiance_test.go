package solar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIrradianceOutsideWindow(t *testing.T) {
	p := DefaultParams()

	tests := []struct {
		name string
		hour float64
	}{
		{"midnight", 0},
		{"before sunrise", 5.99},
		{"after sunset", 18.01},
		{"end of day", 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Zero(t, Irradiance(tt.hour, p))
		})
	}
}

func TestIrradiancePeakIsExact(t *testing.T) {
	p := DefaultParams()
	// cosine argument is zero at the peak hour, no tolerance needed
	assert.Equal(t, p.SolarIrradiancePeak, Irradiance(p.IrradiancePeakHour, p))
}

func TestIrradianceBoundariesInclusive(t *testing.T) {
	p := DefaultParams()

	start := Irradiance(p.IrradianceStartHour, p)
	end := Irradiance(p.IrradianceEndHour, p)

	assert.GreaterOrEqual(t, start, 0.0)
	assert.GreaterOrEqual(t, end, 0.0)
	assert.InDelta(t, 0, start, 1e-9)
	assert.InDelta(t, 0, end, 1e-9)
}

func TestIrradianceNeverNegative(t *testing.T) {
	p := DefaultParams()
	p.IrradiancePeakHour = 8 // asymmetric window pushes the cosine tail negative

	for i := 0; i <= 48; i++ {
		hour := float64(i) / 2
		require.GreaterOrEqual(t, Irradiance(hour, p), 0.0, "hour %v", hour)
	}
}

func TestIrradianceDeterministic(t *testing.T) {
	p := DefaultParams()
	for i := 0; i <= 96; i++ {
		hour := float64(i) / 4
		assert.Equal(t, Irradiance(hour, p), Irradiance(hour, p))
	}
}

func TestIrradianceAsymmetricWindow(t *testing.T) {
	p := DefaultParams()
	p.IrradianceStartHour = 7
	p.IrradiancePeakHour = 10
	p.IrradianceEndHour = 19

	assert.Equal(t, p.SolarIrradiancePeak, Irradiance(10, p))
	assert.Greater(t, Irradiance(9, p), Irradiance(8, p))
	assert.Greater(t, Irradiance(11, p), Irradiance(15, p))
}
