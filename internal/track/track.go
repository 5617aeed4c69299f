// Package track combines SGP4 satellite propagation with the radar range
// equation to decide whether a ground radar can detect an orbiting target.
package track

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/signalsfoundry/rfcalc/rf"
)

// ErrInvalidTLE is returned when two-line element sets are malformed.
var ErrInvalidTLE = errors.New("invalid TLE")

const tleLineLength = 69

// Observer is a ground radar site in geodetic coordinates.
type Observer struct {
	LatDeg float64
	LonDeg float64
	AltKm  float64
}

// Validate rejects coordinates outside the geodetic ranges.
func (o Observer) Validate() error {
	switch {
	case math.IsNaN(o.LatDeg) || math.Abs(o.LatDeg) > 90:
		return fmt.Errorf("%w: latitude %g outside [-90, 90]", rf.ErrInvalidArguments, o.LatDeg)
	case math.IsNaN(o.LonDeg) || math.Abs(o.LonDeg) > 180:
		return fmt.Errorf("%w: longitude %g outside [-180, 180]", rf.ErrInvalidArguments, o.LonDeg)
	case math.IsNaN(o.AltKm) || math.IsInf(o.AltKm, 0):
		return fmt.Errorf("%w: altitude %g is not finite", rf.ErrInvalidArguments, o.AltKm)
	}
	return nil
}

// Target is an orbiting object described by a TLE.
type Target struct {
	Line1, Line2 string

	sat satellite.Satellite
}

// NewTarget validates the TLE lines and initialises SGP4 for them.
func NewTarget(line1, line2 string) (*Target, error) {
	line1 = strings.TrimRight(line1, "\r\n ")
	line2 = strings.TrimRight(line2, "\r\n ")
	if err := validateTLE(line1, line2); err != nil {
		return nil, err
	}
	return &Target{
		Line1: line1,
		Line2: line2,
		sat:   satellite.TLEToSat(line1, line2, satellite.GravityWGS72),
	}, nil
}

// Look is the topocentric view of a target from an observer.
type Look struct {
	RangeKm      float64
	ElevationDeg float64
	AzimuthDeg   float64
}

// LookAt propagates the target to t and returns its look angles from obs.
func LookAt(target *Target, obs Observer, t time.Time) (Look, error) {
	if err := obs.Validate(); err != nil {
		return Look{}, err
	}
	t = t.UTC()
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	posECI, _ := satellite.Propagate(target.sat, year, int(month), day, hour, min, sec)
	if math.IsNaN(posECI.X) || math.IsNaN(posECI.Y) || math.IsNaN(posECI.Z) {
		return Look{}, fmt.Errorf("propagate %s to %s: no valid position", target.catalogNumber(), t.Format(time.RFC3339))
	}

	jd := satellite.JDay(year, int(month), day, hour, min, sec)
	obsCoords := satellite.LatLong{
		Latitude:  obs.LatDeg * math.Pi / 180,
		Longitude: obs.LonDeg * math.Pi / 180,
	}
	angles := satellite.ECIToLookAngles(posECI, obsCoords, obs.AltKm, jd)

	return Look{
		RangeKm:      angles.Rg,
		ElevationDeg: angles.El * 180 / math.Pi,
		AzimuthDeg:   angles.Az * 180 / math.Pi,
	}, nil
}

// Detection is the outcome of Detect.
type Detection struct {
	Look
	MaxRangeM  float64
	Detectable bool
}

// Detect reports whether radar at obs can see target at time t: the target
// must be above the horizon and within the radar's maximum range.
func Detect(radar rf.RadarParams, target *Target, obs Observer, t time.Time) (Detection, error) {
	maxRange, err := radar.MaxRange()
	if err != nil {
		return Detection{}, err
	}
	look, err := LookAt(target, obs, t)
	if err != nil {
		return Detection{}, err
	}
	return Detection{
		Look:       look,
		MaxRangeM:  maxRange,
		Detectable: look.ElevationDeg >= 0 && look.RangeKm*1000 <= maxRange,
	}, nil
}

func (t *Target) catalogNumber() string {
	return strings.TrimSpace(t.Line1[2:7])
}

// validateTLE checks the fixed-column layout. go-satellite aborts the
// process on any field it cannot parse, so each field is checked here with
// the same slice and the same cleanup go-satellite applies to it.
func validateTLE(line1, line2 string) error {
	if len(line1) != tleLineLength || len(line2) != tleLineLength {
		return fmt.Errorf("%w: lines must be %d characters, got %d and %d", ErrInvalidTLE, tleLineLength, len(line1), len(line2))
	}
	if !strings.HasPrefix(line1, "1 ") || !strings.HasPrefix(line2, "2 ") {
		return fmt.Errorf("%w: lines must start with \"1 \" and \"2 \"", ErrInvalidTLE)
	}
	if line1[2:7] != line2[2:7] {
		return fmt.Errorf("%w: catalog numbers %q and %q differ", ErrInvalidTLE, line1[2:7], line2[2:7])
	}

	for _, f := range []tleField{
		{"catalog number", strings.TrimSpace(line1[2:7])},
		{"epoch year", line1[18:20]},
	} {
		if _, err := strconv.ParseInt(f.raw, 10, 0); err != nil {
			return fmt.Errorf("%w: %s %q is not an integer", ErrInvalidTLE, f.name, f.raw)
		}
	}
	for _, f := range []tleField{
		{"epoch day", line1[20:32]},
		{"mean motion derivative", dropSpaces(line1[33:43])},
		{"second derivative", dropSpaces(impliedExponent(line1[44:52]))},
		{"bstar", dropSpaces(impliedExponent(line1[53:61]))},
		{"inclination", dropSpaces(line2[8:16])},
		{"right ascension", dropSpaces(line2[17:25])},
		{"eccentricity", "." + line2[26:33]},
		{"argument of perigee", dropSpaces(line2[34:42])},
		{"mean anomaly", dropSpaces(line2[43:51])},
		{"mean motion", dropSpaces(line2[52:63])},
	} {
		if _, err := strconv.ParseFloat(f.raw, 64); err != nil {
			return fmt.Errorf("%w: %s %q is not a number", ErrInvalidTLE, f.name, f.raw)
		}
	}
	return nil
}

type tleField struct {
	name string
	raw  string
}

// dropSpaces removes at most two spaces, as go-satellite does.
func dropSpaces(s string) string {
	return strings.Replace(s, " ", "", 2)
}

// impliedExponent rewrites the 8-column TLE exponent notation, e.g.
// " 10270-4", as " .10270e-4".
func impliedExponent(raw string) string {
	return raw[0:1] + "." + raw[1:6] + "e" + raw[6:8]
}
