package solar

import "errors"

var (
	ErrIrradianceWindow  = errors.New("irradiance start hour must be strictly before end hour")
	ErrPeakOutsideWindow = errors.New("irradiance peak hour must fall inside the daylight window")
	ErrInvalidPanel      = errors.New("panel area and U-value must be greater than zero")
	ErrInvalidEfficiency = errors.New("panel reference efficiency must be in (0, 1]")
	ErrInvalidTank       = errors.New("tank volume, surface area and U-value must be greater than zero")
	ErrUnknownParam      = errors.New("unknown parameter")
)
