package calc

import (
	"fmt"
	"math/cmplx"
	"time"

	"github.com/signalsfoundry/rfcalc/rf"
	"google.golang.org/protobuf/types/known/structpb"
)

// request reads typed, optional fields from a Struct message. Absent and
// null fields are both treated as not supplied.
type request struct {
	fields map[string]*structpb.Value
}

func newRequest(in *structpb.Struct) request {
	return request{fields: in.GetFields()}
}

func (r request) value(key string) (*structpb.Value, bool) {
	v, ok := r.fields[key]
	if !ok || v == nil {
		return nil, false
	}
	if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
		return nil, false
	}
	return v, true
}

// number returns nil when key is absent.
func (r request) number(key string) (*float64, error) {
	v, ok := r.value(key)
	if !ok {
		return nil, nil
	}
	n, isNumber := v.GetKind().(*structpb.Value_NumberValue)
	if !isNumber {
		return nil, fmt.Errorf("%w: %s must be a number", ErrBadField, key)
	}
	f := n.NumberValue
	return &f, nil
}

func (r request) requireNumber(key string) (float64, error) {
	n, err := r.number(key)
	if err != nil {
		return 0, err
	}
	if n == nil {
		return 0, fmt.Errorf("%w: %s is required", rf.ErrInvalidArguments, key)
	}
	return *n, nil
}

func (r request) boolean(key string) (bool, error) {
	v, ok := r.value(key)
	if !ok {
		return false, nil
	}
	b, isBool := v.GetKind().(*structpb.Value_BoolValue)
	if !isBool {
		return false, fmt.Errorf("%w: %s must be a bool", ErrBadField, key)
	}
	return b.BoolValue, nil
}

func (r request) requireString(key string) (string, error) {
	v, ok := r.value(key)
	if !ok {
		return "", fmt.Errorf("%w: %s is required", rf.ErrInvalidArguments, key)
	}
	s, isString := v.GetKind().(*structpb.Value_StringValue)
	if !isString {
		return "", fmt.Errorf("%w: %s must be a string", ErrBadField, key)
	}
	return s.StringValue, nil
}

// impedance reads <prefix>_re and <prefix>_im. It returns nil when neither
// is present; a missing half defaults to zero.
func (r request) impedance(prefix string) (*complex128, error) {
	re, err := r.number(prefix + "_re")
	if err != nil {
		return nil, err
	}
	im, err := r.number(prefix + "_im")
	if err != nil {
		return nil, err
	}
	if re == nil && im == nil {
		return nil, nil
	}
	var z complex128
	if re != nil {
		z += complex(*re, 0)
	}
	if im != nil {
		z += complex(0, *im)
	}
	return &z, nil
}

func (r request) mismatch() (rf.MismatchArgs, error) {
	var args rf.MismatchArgs
	var err error
	if args.Source, err = r.impedance("source"); err != nil {
		return args, err
	}
	if args.Load, err = r.impedance("load"); err != nil {
		return args, err
	}
	open, err := r.boolean("load_open")
	if err != nil {
		return args, err
	}
	if open {
		if args.Load != nil {
			return args, fmt.Errorf("%w: load_open conflicts with load_re/load_im", rf.ErrInvalidArguments)
		}
		inf := cmplx.Inf()
		args.Load = &inf
	}
	if args.VSWR, err = r.number("vswr"); err != nil {
		return args, err
	}
	if args.Reflection, err = r.number("reflection"); err != nil {
		return args, err
	}
	return args, nil
}

func (r request) radar() (rf.RadarParams, error) {
	var p rf.RadarParams
	for _, f := range []struct {
		key string
		dst *float64
	}{
		{"transmit_power", &p.TransmitPower},
		{"gain", &p.Gain},
		{"cross_section", &p.CrossSection},
		{"freq", &p.Freq},
		{"sensitivity", &p.Sensitivity},
	} {
		v, err := r.requireNumber(f.key)
		if err != nil {
			return p, err
		}
		*f.dst = v
	}
	return p, nil
}

func (r request) line() (rf.LineParams, error) {
	var p rf.LineParams
	for _, f := range []struct {
		key string
		dst *float64
	}{
		{"r", &p.R},
		{"l", &p.L},
		{"g", &p.G},
		{"c", &p.C},
	} {
		v, err := r.requireNumber(f.key)
		if err != nil {
			return p, err
		}
		*f.dst = v
	}
	return p, nil
}

// timestamp reads an RFC 3339 time; absent means now.
func (r request) timestamp(key string, now func() time.Time) (time.Time, error) {
	if _, ok := r.value(key); !ok {
		return now(), nil
	}
	raw, err := r.requireString(key)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %v", ErrBadField, key, err)
	}
	return t, nil
}
