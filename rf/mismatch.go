package rf

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Mismatch is one of the equivalent descriptions of an impedance mismatch:
// Impedances, StandingWaveRatio or ReflectionCoefficient. The set is closed;
// only this package can add variants.
type Mismatch interface {
	isMismatch()
}

// Impedances is a source/load impedance pair in ohms. A load of
// cmplx.Inf() models an open circuit, a load of 0 a short circuit.
type Impedances struct {
	Source complex128
	Load   complex128
}

// StandingWaveRatio is a voltage standing-wave ratio (VSWR).
type StandingWaveRatio float64

// ReflectionCoefficient is the magnitude of the reflection coefficient Γ.
type ReflectionCoefficient float64

func (Impedances) isMismatch()            {}
func (StandingWaveRatio) isMismatch()     {}
func (ReflectionCoefficient) isMismatch() {}

// OpenCircuit returns the impedance pair for an unterminated line.
func OpenCircuit(source complex128) Impedances {
	return Impedances{Source: source, Load: cmplx.Inf()}
}

// ShortCircuit returns the impedance pair for a shorted line.
func ShortCircuit(source complex128) Impedances {
	return Impedances{Source: source, Load: 0}
}

// Reflection returns |Γ| from either an impedance pair or a VSWR.
//
// An infinite load (open circuit) or an infinite VSWR yields exactly 1.
func Reflection(m Mismatch) (float64, error) {
	switch v := m.(type) {
	case Impedances:
		if cmplx.IsInf(v.Load) {
			return 1.0, nil
		}
		sum := cmplx.Abs(v.Load + v.Source)
		if sum == 0 {
			return 0, fmt.Errorf("%w: load + source impedance is zero", ErrDomain)
		}
		return cmplx.Abs(v.Load-v.Source) / sum, nil
	case StandingWaveRatio:
		s := float64(v)
		if math.IsInf(s, 1) {
			return 1.0, nil
		}
		if s == -1 {
			return 0, fmt.Errorf("%w: vswr of -1", ErrDomain)
		}
		return (s - 1) / (s + 1), nil
	case nil:
		return 0, fmt.Errorf("%w: reflection needs an impedance pair or a vswr", ErrInvalidArguments)
	default:
		return 0, fmt.Errorf("%w: reflection cannot be computed from %T", ErrInvalidArguments, m)
	}
}

// ReturnLoss converts |Γ| to return loss in dB. A perfect match (Γ = 0)
// has infinite return loss. Γ outside (0, 1] is not validated.
func ReturnLoss(reflection float64) float64 {
	if reflection == 0 {
		return math.Inf(1)
	}
	return -20 * math.Log10(reflection)
}

// ReflectionFromReturnLoss is the inverse of ReturnLoss.
func ReflectionFromReturnLoss(returnLossDB float64) float64 {
	if math.IsInf(returnLossDB, 1) {
		return 0
	}
	return math.Pow(10, -returnLossDB/20)
}

// VSWR returns the voltage standing-wave ratio from either an impedance
// pair or |Γ|. A zero load (short circuit) or an infinite load (open
// circuit) yields +Inf. Other total reflections, where |L+S| = |L-S|, and
// Γ = 1 are domain errors.
func VSWR(m Mismatch) (float64, error) {
	switch v := m.(type) {
	case Impedances:
		if v.Load == 0 || cmplx.IsInf(v.Load) {
			return math.Inf(1), nil
		}
		sum := cmplx.Abs(v.Load + v.Source)
		diff := cmplx.Abs(v.Load - v.Source)
		if sum == diff {
			return 0, fmt.Errorf("%w: |load+source| equals |load-source|", ErrDomain)
		}
		return (sum + diff) / (sum - diff), nil
	case ReflectionCoefficient:
		g := float64(v)
		if g == 1 {
			return 0, fmt.Errorf("%w: reflection coefficient of 1", ErrDomain)
		}
		return (1 + g) / (1 - g), nil
	case nil:
		return 0, fmt.Errorf("%w: vswr needs an impedance pair or a reflection coefficient", ErrInvalidArguments)
	default:
		return 0, fmt.Errorf("%w: vswr cannot be computed from %T", ErrInvalidArguments, m)
	}
}

// MismatchArgs carries optional mismatch inputs for callers that only know
// at runtime which values were supplied. A nil field is absent; a pointer to
// zero is a present zero.
type MismatchArgs struct {
	Source     *complex128
	Load       *complex128
	VSWR       *float64
	Reflection *float64
}

// ForReflection resolves the arguments into an input accepted by Reflection:
// either both impedances, or a VSWR alone.
func (a MismatchArgs) ForReflection() (Mismatch, error) {
	if a.Reflection != nil {
		return nil, fmt.Errorf("%w: reflection is the output, not an input", ErrInvalidArguments)
	}
	return a.resolve(a.VSWR, func(v float64) Mismatch { return StandingWaveRatio(v) }, "vswr")
}

// ForVSWR resolves the arguments into an input accepted by VSWR: either
// both impedances, or a reflection coefficient alone.
func (a MismatchArgs) ForVSWR() (Mismatch, error) {
	if a.VSWR != nil {
		return nil, fmt.Errorf("%w: vswr is the output, not an input", ErrInvalidArguments)
	}
	return a.resolve(a.Reflection, func(v float64) Mismatch { return ReflectionCoefficient(v) }, "reflection")
}

func (a MismatchArgs) resolve(scalar *float64, wrap func(float64) Mismatch, name string) (Mismatch, error) {
	hasPair := a.Source != nil || a.Load != nil
	switch {
	case hasPair && scalar != nil:
		return nil, fmt.Errorf("%w: both impedances and %s supplied", ErrInvalidArguments, name)
	case hasPair:
		if a.Source == nil || a.Load == nil {
			return nil, fmt.Errorf("%w: source and load impedance must both be supplied", ErrInvalidArguments)
		}
		return Impedances{Source: *a.Source, Load: *a.Load}, nil
	case scalar != nil:
		return wrap(*scalar), nil
	default:
		return nil, fmt.Errorf("%w: need source and load impedance or %s", ErrInvalidArguments, name)
	}
}
