package rf

import (
	"fmt"
	"math"
	"math/cmplx"
)

// WavelengthSource selects how a wavelength is derived: Frequency or
// PhaseConstant.
type WavelengthSource interface {
	isWavelengthSource()
}

// Frequency in Hz.
type Frequency float64

// PhaseConstant β in rad/m.
type PhaseConstant float64

func (Frequency) isWavelengthSource()     {}
func (PhaseConstant) isWavelengthSource() {}

// PhaseConstantFromWavelength returns β = 2π/λ.
func PhaseConstantFromWavelength(wavelength float64) (float64, error) {
	if wavelength == 0 {
		return 0, fmt.Errorf("%w: wavelength is zero", ErrDomain)
	}
	return 2 * math.Pi / wavelength, nil
}

// Wavelength returns λ in metres, either c/f in free space or 2π/β on a line.
func Wavelength(src WavelengthSource) (float64, error) {
	switch v := src.(type) {
	case Frequency:
		if v == 0 {
			return 0, fmt.Errorf("%w: frequency is zero", ErrDomain)
		}
		return Lightspeed / float64(v), nil
	case PhaseConstant:
		if v == 0 {
			return 0, fmt.Errorf("%w: phase constant is zero", ErrDomain)
		}
		return 2 * math.Pi / float64(v), nil
	default:
		return 0, fmt.Errorf("%w: wavelength needs a frequency or a phase constant", ErrInvalidArguments)
	}
}

// WavelengthArgs holds optional wavelength inputs. Exactly one must be set.
type WavelengthArgs struct {
	Freq          *float64
	PhaseConstant *float64
}

// Source resolves the arguments into a WavelengthSource.
func (a WavelengthArgs) Source() (WavelengthSource, error) {
	switch {
	case a.Freq != nil && a.PhaseConstant != nil:
		return nil, fmt.Errorf("%w: both frequency and phase constant supplied", ErrInvalidArguments)
	case a.Freq != nil:
		return Frequency(*a.Freq), nil
	case a.PhaseConstant != nil:
		return PhaseConstant(*a.PhaseConstant), nil
	default:
		return nil, fmt.Errorf("%w: neither frequency nor phase constant supplied", ErrInvalidArguments)
	}
}

// LineParams are the per-unit-length primary constants of a transmission
// line: resistance (Ω/m), inductance (H/m), conductance (S/m) and
// capacitance (F/m).
type LineParams struct {
	R float64 `json:"r"`
	L float64 `json:"l"`
	G float64 `json:"g"`
	C float64 `json:"c"`
}

func (p LineParams) series(omega float64) complex128 {
	return complex(p.R, omega*p.L)
}

func (p LineParams) shunt(omega float64) complex128 {
	return complex(p.G, omega*p.C)
}

// PropagationCoefficient returns γ = α + jβ = √((R + jωL)(G + jωC)) with
// ω = 2πf, using the principal square root.
func PropagationCoefficient(freq float64, line LineParams) complex128 {
	omega := 2 * math.Pi * freq
	return cmplx.Sqrt(line.series(omega) * line.shunt(omega))
}

// CharacteristicImpedance returns Z0 = √((R + jωL)/(G + jωC)).
func CharacteristicImpedance(freq float64, line LineParams) (complex128, error) {
	omega := 2 * math.Pi * freq
	shunt := line.shunt(omega)
	if shunt == 0 {
		return 0, fmt.Errorf("%w: shunt admittance is zero", ErrDomain)
	}
	return cmplx.Sqrt(line.series(omega) / shunt), nil
}
