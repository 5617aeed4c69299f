package rf

import (
	"fmt"
	"math"
)

// PhaseVelocitySource selects the phase velocity formula: WaveNumber or
// LosslessLine.
type PhaseVelocitySource interface {
	isPhaseVelocitySource()
}

// WaveNumber gives v = ω/β.
type WaveNumber struct {
	CircFreq      float64 // ω, rad/s
	PhaseConstant float64 // β, rad/m
}

// LosslessLine gives v = 1/√(LC) from per-unit-length inductance and
// capacitance.
type LosslessLine struct {
	Inductance  float64
	Capacitance float64
}

func (WaveNumber) isPhaseVelocitySource()   {}
func (LosslessLine) isPhaseVelocitySource() {}

// PhaseVelocity returns the phase velocity in m/s.
func PhaseVelocity(src PhaseVelocitySource) (float64, error) {
	switch v := src.(type) {
	case WaveNumber:
		if v.PhaseConstant == 0 {
			return 0, fmt.Errorf("%w: phase constant is zero", ErrDomain)
		}
		return v.CircFreq / v.PhaseConstant, nil
	case LosslessLine:
		lc := v.Inductance * v.Capacitance
		if lc <= 0 {
			return 0, fmt.Errorf("%w: inductance*capacitance must be positive, got %g", ErrDomain, lc)
		}
		return 1 / math.Sqrt(lc), nil
	default:
		return 0, fmt.Errorf("%w: phase velocity needs (circ_freq, phase_constant) or (inductance, capacitance)", ErrInvalidArguments)
	}
}

// PhaseVelocityArgs holds optional phase velocity inputs. Exactly one
// complete pair must be supplied and nothing from the other pair.
type PhaseVelocityArgs struct {
	CircFreq      *float64
	PhaseConstant *float64
	Inductance    *float64
	Capacitance   *float64
}

// Source resolves the arguments into a PhaseVelocitySource.
func (a PhaseVelocityArgs) Source() (PhaseVelocitySource, error) {
	wave := a.CircFreq != nil || a.PhaseConstant != nil
	line := a.Inductance != nil || a.Capacitance != nil
	switch {
	case wave && line:
		return nil, fmt.Errorf("%w: wave number and line parameters are mutually exclusive", ErrInvalidArguments)
	case wave:
		if a.CircFreq == nil || a.PhaseConstant == nil {
			return nil, fmt.Errorf("%w: circ_freq and phase_constant must both be supplied", ErrInvalidArguments)
		}
		return WaveNumber{CircFreq: *a.CircFreq, PhaseConstant: *a.PhaseConstant}, nil
	case line:
		if a.Inductance == nil || a.Capacitance == nil {
			return nil, fmt.Errorf("%w: inductance and capacitance must both be supplied", ErrInvalidArguments)
		}
		return LosslessLine{Inductance: *a.Inductance, Capacitance: *a.Capacitance}, nil
	default:
		return nil, fmt.Errorf("%w: no phase velocity inputs supplied", ErrInvalidArguments)
	}
}
