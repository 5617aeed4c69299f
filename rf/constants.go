package rf

import "math"

// Physical constants in SI units.
const (
	// Lightspeed is the speed of light in vacuum (m/s), exact by definition.
	Lightspeed = 299792458.0

	// VacuumPermeability is μ0 (H/m).
	VacuumPermeability = 4 * math.Pi * 1e-7

	// VacuumPermittivity is ε0 (F/m), derived from μ0 and c.
	VacuumPermittivity = 1 / (VacuumPermeability * Lightspeed * Lightspeed)
)
