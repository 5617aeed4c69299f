package rf

import (
	"fmt"
	"math"
)

// RadarParams groups the inputs of the radar range equation. All values are
// linear SI quantities (W, dimensionless gain, m², Hz, W).
type RadarParams struct {
	TransmitPower float64 `json:"transmit_power"`
	Gain          float64 `json:"gain"`
	CrossSection  float64 `json:"cross_section"`
	Freq          float64 `json:"freq"`
	Sensitivity   float64 `json:"sensitivity"`
}

// MaxRange evaluates RadarMaxRange for p.
func (p RadarParams) MaxRange() (float64, error) {
	return RadarMaxRange(p.TransmitPower, p.Gain, p.CrossSection, p.Freq, p.Sensitivity)
}

// RadarMaxRange returns the maximum detection range in metres given by the
// radar range equation
//
//	R = ⁴√( P·G²·σ·λ² / ((4π)³·S_min) ),  λ = c/f
//
// The same antenna is assumed for transmit and receive, hence G².
func RadarMaxRange(transmitPower, gain, crossSection, freq, sensitivity float64) (float64, error) {
	if freq == 0 {
		return 0, fmt.Errorf("%w: radar frequency is zero", ErrDomain)
	}
	if sensitivity == 0 {
		return 0, fmt.Errorf("%w: receiver sensitivity is zero", ErrDomain)
	}

	wavelength := Lightspeed / freq
	fourPi := 4 * math.Pi
	radicand := (transmitPower * gain * gain * crossSection * wavelength * wavelength) /
		(fourPi * fourPi * fourPi * sensitivity)
	if radicand < 0 || math.IsNaN(radicand) {
		return 0, fmt.Errorf("%w: negative radicand %g in radar equation", ErrDomain, radicand)
	}
	return qdrt(radicand), nil
}
