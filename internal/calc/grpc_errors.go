package calc

import (
	"errors"

	"github.com/signalsfoundry/rfcalc/internal/observability"
	"github.com/signalsfoundry/rfcalc/internal/track"
	"github.com/signalsfoundry/rfcalc/rf"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrBadField is returned when a request field has the wrong kind, for
// example a string where a number is expected.
var ErrBadField = errors.New("bad field")

// ToStatusError maps calculator errors onto gRPC status codes.
func ToStatusError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, rf.ErrInvalidArguments),
		errors.Is(err, ErrBadField),
		errors.Is(err, track.ErrInvalidTLE):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, rf.ErrDomain):
		return status.Error(codes.OutOfRange, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// Outcome classifies err into an observability outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return observability.OutcomeOK
	case errors.Is(err, rf.ErrInvalidArguments),
		errors.Is(err, ErrBadField),
		errors.Is(err, track.ErrInvalidTLE):
		return observability.OutcomeInvalidArguments
	case errors.Is(err, rf.ErrDomain):
		return observability.OutcomeDomainError
	default:
		return observability.OutcomeError
	}
}
