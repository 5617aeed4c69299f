package calc

import (
	"context"
	"unicode"

	"github.com/signalsfoundry/rfcalc/internal/logging"
	"github.com/signalsfoundry/rfcalc/internal/observability"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// RequestIDHeader carries the caller's request ID in and the effective one
// back out.
const RequestIDHeader = "x-request-id"

const maxRequestIDLen = 128

// RequestIDUnaryServerInterceptor gives every call a request ID, reusing
// the caller's x-request-id when it is usable, and echoes it in the
// response header. Handlers find a logger tagged with request_id and
// method via logging.FromContext.
func RequestIDUnaryServerInterceptor(base logging.Logger) grpc.UnaryServerInterceptor {
	if base == nil {
		base = logging.Noop()
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if id := inboundRequestID(ctx); id != "" {
			ctx = logging.ContextWithRequestID(ctx, id)
		}
		_, method := observability.SplitMethod(info.FullMethod)
		ctx, reqLog := logging.WithRequestLogger(ctx, base.With(logging.String("method", method)))

		// Header delivery is best effort; a failure must not fail the call.
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, logging.RequestIDFromContext(ctx)))

		return handler(logging.ContextWithLogger(ctx, reqLog), req)
	}
}

// inboundRequestID returns the caller's request ID, or "" when absent,
// too long or not printable ASCII.
func inboundRequestID(ctx context.Context) string {
	vals := metadata.ValueFromIncomingContext(ctx, RequestIDHeader)
	if len(vals) == 0 {
		return ""
	}
	id := vals[0]
	if id == "" || len(id) > maxRequestIDLen {
		return ""
	}
	for _, r := range id {
		if r > unicode.MaxASCII || !unicode.IsPrint(r) {
			return ""
		}
	}
	return id
}
