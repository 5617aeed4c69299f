// Package calc exposes the rf formulas as the rfcalc.v1.Calculator gRPC
// service. Requests and responses are google.protobuf.Struct messages whose
// fields are named after the formula arguments; an absent field means the
// argument was not supplied.
package calc

import (
	"context"
	"sort"
	"time"

	"github.com/signalsfoundry/rfcalc/internal/logging"
	"github.com/signalsfoundry/rfcalc/internal/observability"
	"github.com/signalsfoundry/rfcalc/internal/track"
	"github.com/signalsfoundry/rfcalc/rf"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/protobuf/types/known/structpb"
)

const tracerName = "github.com/signalsfoundry/rfcalc/internal/calc"

// Service implements CalculatorServer on top of package rf.
type Service struct {
	log     logging.Logger
	metrics *observability.FormulaCollector
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records every evaluation in c.
func WithMetrics(c *observability.FormulaCollector) Option {
	return func(s *Service) { s.metrics = c }
}

// WithClock overrides the time used when DetectSatellite omits "time".
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService constructs a calculator service.
func NewService(log logging.Logger, opts ...Option) *Service {
	if log == nil {
		log = logging.Noop()
	}
	s := &Service{log: log, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type result map[string]any

// evaluate runs one formula inside a span, records metrics and converts the
// outcome into a response message or a status error.
func (s *Service) evaluate(ctx context.Context, formula string, in *structpb.Struct, fn func(request) (result, error)) (*structpb.Struct, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "rf."+formula,
		trace.WithAttributes(attribute.String("rf.formula", formula)))
	defer span.End()

	start := time.Now()
	out, err := fn(newRequest(in))
	s.metrics.ObserveEvaluation(formula, Outcome(err), time.Since(start))

	log := logging.FromContext(ctx, s.log).With(logging.String("formula", formula))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		log.Debug(ctx, "formula rejected", logging.Err(err))
		return nil, ToStatusError(err)
	}

	resp, err := structpb.NewStruct(out)
	if err != nil {
		log.Error(ctx, "encode response", logging.Err(err))
		return nil, ToStatusError(err)
	}
	log.Debug(ctx, "formula evaluated", out.fields()...)
	return resp, nil
}

func (r result) fields() []logging.Field {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]logging.Field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, logging.Any(k, r[k]))
	}
	return fields
}

// RadarMaxRange evaluates the radar range equation.
func (s *Service) RadarMaxRange(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.evaluate(ctx, "radar_max_range", in, func(r request) (result, error) {
		p, err := r.radar()
		if err != nil {
			return nil, err
		}
		rng, err := p.MaxRange()
		if err != nil {
			return nil, err
		}
		s.metrics.SetLastRadarRange(rng)
		return result{"range_m": rng}, nil
	})
}

// Reflection returns |Γ| from source/load impedances or a vswr.
func (s *Service) Reflection(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.evaluate(ctx, "reflection", in, func(r request) (result, error) {
		args, err := r.mismatch()
		if err != nil {
			return nil, err
		}
		m, err := args.ForReflection()
		if err != nil {
			return nil, err
		}
		g, err := rf.Reflection(m)
		if err != nil {
			return nil, err
		}
		return result{"reflection": g}, nil
	})
}

// ReturnLoss converts a reflection coefficient to dB.
func (s *Service) ReturnLoss(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.evaluate(ctx, "return_loss", in, func(r request) (result, error) {
		g, err := r.requireNumber("reflection")
		if err != nil {
			return nil, err
		}
		return result{"return_loss_db": rf.ReturnLoss(g)}, nil
	})
}

// VSWR returns the standing-wave ratio from impedances or a reflection
// coefficient.
func (s *Service) VSWR(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.evaluate(ctx, "vswr", in, func(r request) (result, error) {
		args, err := r.mismatch()
		if err != nil {
			return nil, err
		}
		m, err := args.ForVSWR()
		if err != nil {
			return nil, err
		}
		v, err := rf.VSWR(m)
		if err != nil {
			return nil, err
		}
		return result{"vswr": v}, nil
	})
}

// Wavelength returns λ from a frequency or a phase constant.
func (s *Service) Wavelength(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.evaluate(ctx, "wavelength", in, func(r request) (result, error) {
		var args rf.WavelengthArgs
		var err error
		if args.Freq, err = r.number("freq"); err != nil {
			return nil, err
		}
		if args.PhaseConstant, err = r.number("phase_constant"); err != nil {
			return nil, err
		}
		src, err := args.Source()
		if err != nil {
			return nil, err
		}
		lambda, err := rf.Wavelength(src)
		if err != nil {
			return nil, err
		}
		return result{"wavelength_m": lambda}, nil
	})
}

// PhaseConstant returns β = 2π/λ.
func (s *Service) PhaseConstant(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.evaluate(ctx, "phase_constant", in, func(r request) (result, error) {
		lambda, err := r.requireNumber("wavelength")
		if err != nil {
			return nil, err
		}
		beta, err := rf.PhaseConstantFromWavelength(lambda)
		if err != nil {
			return nil, err
		}
		return result{"phase_constant": beta}, nil
	})
}

// PropagationCoefficient returns γ = α + jβ and, when defined, the
// characteristic impedance of the line.
func (s *Service) PropagationCoefficient(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.evaluate(ctx, "propagation_coefficient", in, func(r request) (result, error) {
		freq, err := r.requireNumber("freq")
		if err != nil {
			return nil, err
		}
		line, err := r.line()
		if err != nil {
			return nil, err
		}
		gamma := rf.PropagationCoefficient(freq, line)
		out := result{"alpha": real(gamma), "beta": imag(gamma)}
		if z0, err := rf.CharacteristicImpedance(freq, line); err == nil {
			out["z0_re"] = real(z0)
			out["z0_im"] = imag(z0)
		}
		return out, nil
	})
}

// PhaseVelocity returns ω/β or 1/√(LC).
func (s *Service) PhaseVelocity(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.evaluate(ctx, "phase_velocity", in, func(r request) (result, error) {
		var args rf.PhaseVelocityArgs
		for _, f := range []struct {
			key string
			dst **float64
		}{
			{"circ_freq", &args.CircFreq},
			{"phase_constant", &args.PhaseConstant},
			{"inductance", &args.Inductance},
			{"capacitance", &args.Capacitance},
		} {
			v, err := r.number(f.key)
			if err != nil {
				return nil, err
			}
			*f.dst = v
		}
		src, err := args.Source()
		if err != nil {
			return nil, err
		}
		v, err := rf.PhaseVelocity(src)
		if err != nil {
			return nil, err
		}
		return result{"phase_velocity": v}, nil
	})
}

// DetectSatellite checks whether a radar can see a TLE-described target.
func (s *Service) DetectSatellite(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.evaluate(ctx, "detect_satellite", in, func(r request) (result, error) {
		radar, err := r.radar()
		if err != nil {
			return nil, err
		}
		line1, err := r.requireString("tle_line1")
		if err != nil {
			return nil, err
		}
		line2, err := r.requireString("tle_line2")
		if err != nil {
			return nil, err
		}
		var obs track.Observer
		if obs.LatDeg, err = r.requireNumber("lat_deg"); err != nil {
			return nil, err
		}
		if obs.LonDeg, err = r.requireNumber("lon_deg"); err != nil {
			return nil, err
		}
		if alt, err := r.number("alt_km"); err != nil {
			return nil, err
		} else if alt != nil {
			obs.AltKm = *alt
		}
		at, err := r.timestamp("time", s.now)
		if err != nil {
			return nil, err
		}

		target, err := track.NewTarget(line1, line2)
		if err != nil {
			return nil, err
		}
		d, err := track.Detect(radar, target, obs, at)
		if err != nil {
			return nil, err
		}
		return result{
			"slant_range_m": d.RangeKm * 1000,
			"elevation_deg": d.ElevationDeg,
			"azimuth_deg":   d.AzimuthDeg,
			"max_range_m":   d.MaxRangeM,
			"detectable":    d.Detectable,
		}, nil
	})
}
