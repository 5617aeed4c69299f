package calc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "rfcalc.v1.Calculator"

// CalculatorServer is the server API for the calculator service.
type CalculatorServer interface {
	RadarMaxRange(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Reflection(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ReturnLoss(context.Context, *structpb.Struct) (*structpb.Struct, error)
	VSWR(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Wavelength(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PhaseConstant(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PropagationCoefficient(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PhaseVelocity(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DetectSatellite(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var _ CalculatorServer = (*Service)(nil)

type unaryCall func(CalculatorServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// ServiceDesc describes the calculator service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CalculatorServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("RadarMaxRange", CalculatorServer.RadarMaxRange),
		unaryMethod("Reflection", CalculatorServer.Reflection),
		unaryMethod("ReturnLoss", CalculatorServer.ReturnLoss),
		unaryMethod("VSWR", CalculatorServer.VSWR),
		unaryMethod("Wavelength", CalculatorServer.Wavelength),
		unaryMethod("PhaseConstant", CalculatorServer.PhaseConstant),
		unaryMethod("PropagationCoefficient", CalculatorServer.PropagationCoefficient),
		unaryMethod("PhaseVelocity", CalculatorServer.PhaseVelocity),
		unaryMethod("DetectSatellite", CalculatorServer.DetectSatellite),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rfcalc/v1/calculator.proto",
}

// RegisterCalculatorServer registers srv on s.
func RegisterCalculatorServer(s grpc.ServiceRegistrar, srv CalculatorServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// FullMethod returns the gRPC path of a calculator method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func unaryMethod(name string, call unaryCall) grpc.MethodDesc {
	fullMethod := FullMethod(name)
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(CalculatorServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(CalculatorServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
