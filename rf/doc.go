// Package rf implements closed-form radio-frequency engineering formulas:
// the radar range equation, reflection coefficient, return loss and VSWR
// conversions, transmission-line wavelength and phase constant, the complex
// propagation coefficient and phase velocity.
//
// Formulas that accept several physically equivalent inputs take a tagged
// value (for example Impedances or StandingWaveRatio for Reflection) so that
// exactly one input mode is ever in play. Callers holding optional values,
// such as a wire decoder, go through the *Args adapters, which reject
// missing, conflicting or partial inputs with ErrInvalidArguments.
//
// All functions are pure and safe for concurrent use.
package rf
